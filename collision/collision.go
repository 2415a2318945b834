// Copyright 2024 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package collision implements the sweep-and-prune broadphase and the
// SAT narrowphase that together produce persistent contact manifolds
// for the pair cache and resolver to consume.
package collision

import (
	"math"
	"sort"

	"github.com/kinetic2d/rigid2d/body"
	"github.com/kinetic2d/rigid2d/geometry"
)

// Collision is a detected overlap between two parts (never compound
// parents directly, though for a non-compound body the part and the
// parent are the same Body). ParentA/ParentB are the compound owners
// the pair cache and resolver key and apply impulses against.
type Collision struct {
	BodyA, BodyB   *body.Body
	ParentA, ParentB *body.Body

	Depth                        float64
	Normal, Tangent, Penetration geometry.Vector

	Supports     [2]*geometry.Vertex
	SupportCount int
}

// Collides runs SAT between two parts. reuse, when non-nil, is an
// existing collision record to overwrite in place instead of
// allocating a fresh one, so a persistent pair keeps its Collision
// object stable across steps. Returns nil if the parts are separated.
func Collides(bodyA, bodyB *body.Body, reuse *Collision) *Collision {

	overlapAB, axisAB := overlapAxes(bodyA.Vertices, bodyB.Vertices, bodyA.Axes)
	if overlapAB <= 0 {
		return nil
	}
	overlapBA, axisBA := overlapAxes(bodyB.Vertices, bodyA.Vertices, bodyB.Axes)
	if overlapBA <= 0 {
		return nil
	}

	c := reuse
	if c == nil {
		c = &Collision{}
	}

	if bodyA.ID < bodyB.ID {
		c.BodyA, c.BodyB = bodyA, bodyB
	} else {
		c.BodyA, c.BodyB = bodyB, bodyA
	}
	c.ParentA, c.ParentB = c.BodyA.Parent, c.BodyB.Parent

	depth, axis := overlapAB, axisAB
	if overlapBA < overlapAB {
		depth, axis = overlapBA, axisBA
	}

	delta := geometry.Vector{X: c.BodyB.Position.X - c.BodyA.Position.X, Y: c.BodyB.Position.Y - c.BodyA.Position.Y}
	if axis.X*delta.X+axis.Y*delta.Y >= 0 {
		axis = geometry.Vector{X: -axis.X, Y: -axis.Y}
	}

	c.Depth = depth
	c.Normal = axis
	c.Tangent = geometry.Vector{X: -axis.Y, Y: axis.X}
	c.Penetration = geometry.Vector{X: axis.X * depth, Y: axis.Y * depth}

	supportsB := findSupports(c.BodyA, c.BodyB, c.Normal, 1)
	var supports [2]*geometry.Vertex
	count := 0
	if geometry.Contains(c.BodyA.Vertices, supportsB[0].Vector) {
		supports[count] = &supportsB[0]
		count++
	}
	if geometry.Contains(c.BodyA.Vertices, supportsB[1].Vector) {
		supports[count] = &supportsB[1]
		count++
	}

	if count < 2 {
		supportsA := findSupports(c.BodyB, c.BodyA, c.Normal, -1)
		if geometry.Contains(c.BodyB.Vertices, supportsA[0].Vector) {
			supports[count] = &supportsA[0]
			count++
		}
		if count < 2 && geometry.Contains(c.BodyB.Vertices, supportsA[1].Vector) {
			supports[count] = &supportsA[1]
			count++
		}
	}

	if count == 0 {
		supports[0] = &supportsB[0]
		count = 1
	}

	c.Supports = supports
	c.SupportCount = count
	return c
}

func overlapAxes(verticesA, verticesB []geometry.Vertex, axes []geometry.Vector) (float64, geometry.Vector) {

	overlapMin := math.Inf(1)
	var axisOut geometry.Vector

	for _, axis := range axes {
		minA, maxA := projectRange(verticesA, axis)
		minB, maxB := projectRange(verticesB, axis)

		overlapAB := maxA - minB
		overlapBA := maxB - minA
		overlap := overlapAB
		if overlapBA < overlap {
			overlap = overlapBA
		}

		if overlap < overlapMin {
			overlapMin = overlap
			axisOut = axis
			if overlap <= 0 {
				break
			}
		}
	}

	return overlapMin, axisOut
}

func projectRange(vertices []geometry.Vertex, axis geometry.Vector) (float64, float64) {

	min := vertices[0].X*axis.X + vertices[0].Y*axis.Y
	max := min
	for i := 1; i < len(vertices); i++ {
		dot := vertices[i].X*axis.X + vertices[i].Y*axis.Y
		if dot > max {
			max = dot
		} else if dot < min {
			min = dot
		}
	}
	return min, max
}

// findSupports scans every one of bodyB's vertices for the one deepest
// along normal*direction relative to bodyA's position, returning that
// vertex and its more-extreme neighbour as the two candidate supports.
func findSupports(bodyA, bodyB *body.Body, normal geometry.Vector, direction float64) [2]geometry.Vertex {

	vertices := bodyB.Vertices
	n := len(vertices)
	nx, ny := normal.X*direction, normal.Y*direction

	vertexA := vertices[0]
	nearest := nx*(bodyA.Position.X-vertexA.X) + ny*(bodyA.Position.Y-vertexA.Y)

	for j := 1; j < n; j++ {
		v := vertices[j]
		d := nx*(bodyA.Position.X-v.X) + ny*(bodyA.Position.Y-v.Y)
		if d < nearest {
			nearest = d
			vertexA = v
		}
	}

	vertexC := vertices[(n+vertexA.Index-1)%n]
	nearestC := nx*(bodyA.Position.X-vertexC.X) + ny*(bodyA.Position.Y-vertexC.Y)

	vertexB := vertices[(vertexA.Index+1)%n]
	if nx*(bodyA.Position.X-vertexB.X)+ny*(bodyA.Position.Y-vertexB.Y) < nearestC {
		return [2]geometry.Vertex{vertexA, vertexB}
	}
	return [2]geometry.Vertex{vertexA, vertexC}
}

// Detector runs the sweep-and-prune broadphase over its body list and
// delegates to Collides for the narrowphase.
type Detector struct {
	Bodies     []*body.Body
	collisions []*Collision
}

// NewDetector creates an empty detector.
func NewDetector() *Detector {

	return &Detector{}
}

// SetBodies replaces the detector's body list.
func (d *Detector) SetBodies(bodies []*body.Body) {

	d.Bodies = bodies
}

// Clear empties the detector's body list and collision history.
func (d *Detector) Clear() {

	d.Bodies = nil
	d.collisions = nil
}

// FindCollisions sweeps Bodies sorted by bounds.min.x, finds candidate
// pairs via the x/y AABB prune plus the collision filter, and narrows
// every surviving pair with Collides. lookup is consulted per
// candidate pair (keyed by the pair's compound parents) so an existing
// pair's Collision object is reused instead of reallocated; it may
// return nil. The returned slice is reused across calls and only ever
// grows, matching the engine's per-step allocation policy.
func (d *Detector) FindCollisions(lookup func(parentA, parentB *body.Body) *Collision) []*Collision {

	bodies := d.Bodies
	sort.Slice(bodies, func(i, j int) bool { return bodies[i].Bounds.Min.X < bodies[j].Bounds.Min.X })

	index := 0
	emit := func(c *Collision) {
		if c == nil {
			return
		}
		if index < len(d.collisions) {
			d.collisions[index] = c
		} else {
			d.collisions = append(d.collisions, c)
		}
		index++
	}

	n := len(bodies)
	for i := 0; i < n; i++ {
		a := bodies[i]
		boundMaxX, boundMaxY, boundMinY := a.Bounds.Max.X, a.Bounds.Max.Y, a.Bounds.Min.Y
		aStatic := a.IsStatic || a.IsSleeping
		partsASingle := len(a.Parts) == 1

		for j := i + 1; j < n; j++ {
			b := bodies[j]

			if b.Bounds.Min.X > boundMaxX {
				break
			}
			if boundMaxY < b.Bounds.Min.Y || boundMinY > b.Bounds.Max.Y {
				continue
			}
			if aStatic && (b.IsStatic || b.IsSleeping) {
				continue
			}
			if !body.CanCollide(a.Filter, b.Filter) {
				continue
			}

			if partsASingle && len(b.Parts) == 1 {
				emit(Collides(a, b, lookup(a.Parent, b.Parent)))
				continue
			}

			startA, startB := 0, 0
			if len(a.Parts) > 1 {
				startA = 1
			}
			if len(b.Parts) > 1 {
				startB = 1
			}
			for k := startA; k < len(a.Parts); k++ {
				partA := a.Parts[k]
				for z := startB; z < len(b.Parts); z++ {
					partB := b.Parts[z]
					if partA.Bounds.Min.X > partB.Bounds.Max.X || partA.Bounds.Max.X < partB.Bounds.Min.X ||
						partA.Bounds.Max.Y < partB.Bounds.Min.Y || partA.Bounds.Min.Y > partB.Bounds.Max.Y {
						continue
					}
					emit(Collides(partA, partB, lookup(partA.Parent, partB.Parent)))
				}
			}
		}
	}

	if index != len(d.collisions) {
		d.collisions = d.collisions[:index]
	}
	return d.collisions
}
