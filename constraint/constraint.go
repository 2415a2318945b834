// Copyright 2024 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package constraint implements the two-body distance constraint: a
// Gauss-Seidel-solved spring/pin between two optional body anchors (a
// missing body anchors the constraint to a fixed world point instead).
package constraint

import (
	"math"

	"github.com/kinetic2d/rigid2d/body"
	"github.com/kinetic2d/rigid2d/geometry"
	"github.com/kinetic2d/rigid2d/id"
)

const (
	warming      = 0.4
	torqueDampen = 1.0
	minLength    = 1e-6
	baseDelta    = 1000.0 / 60.0
)

// Owner is the composite back-reference a constraint is added to, kept
// distinct from any body-level parent relation. Composite satisfies
// this structurally; constraint never imports the composite package.
type Owner interface {
	InvalidateCache()
}

// Constraint is a distance constraint between two world anchors, each
// optionally attached to a body. A nil BodyA/BodyB anchors that end to
// a fixed world point given by PointA/PointB.
type Constraint struct {
	ID    int
	Label string

	BodyA, BodyB *body.Body
	PointA       geometry.Vector // local offset from BodyA, or world point if BodyA is nil
	PointB       geometry.Vector

	Length float64

	Stiffness        float64
	Damping          float64
	AngularStiffness float64

	Owner Owner

	angleA, angleB float64
}

// Options configures New. A nil Length lets the constructed length be
// the current world distance between the two anchors; a nil Stiffness
// defaults to 1 (rigid) when the resolved length is non-zero, else 0.7
// (a matter.js-style pin joint: zero length, high stiffness).
type Options struct {
	BodyA, BodyB   *body.Body
	PointA, PointB geometry.Vector

	Length    *float64
	Stiffness *float64

	Damping          float64
	AngularStiffness float64

	Label string
}

func worldPoint(b *body.Body, local geometry.Vector) geometry.Vector {

	if b == nil {
		return local
	}
	return geometry.Vector{X: b.Position.X + local.X, Y: b.Position.Y + local.Y}
}

// New creates a distance constraint from Options.
func New(ids *id.Source, o Options) *Constraint {

	label := o.Label
	if label == "" {
		label = "Constraint"
	}

	pointA, pointB := worldPoint(o.BodyA, o.PointA), worldPoint(o.BodyB, o.PointB)
	delta := geometry.Vector{X: pointA.X - pointB.X, Y: pointA.Y - pointB.Y}
	length := delta.Length()
	if o.Length != nil {
		length = *o.Length
	}

	stiffness := 1.0
	if length == 0 {
		stiffness = 0.7
	}
	if o.Stiffness != nil {
		stiffness = *o.Stiffness
	}

	angleA, angleB := 0.0, 0.0
	if o.BodyA != nil {
		angleA = o.BodyA.Angle
	}
	if o.BodyB != nil {
		angleB = o.BodyB.Angle
	}

	return &Constraint{
		ID:               ids.Next(),
		Label:            label,
		BodyA:            o.BodyA,
		BodyB:            o.BodyB,
		PointA:           o.PointA,
		PointB:           o.PointB,
		Length:           length,
		Stiffness:        stiffness,
		Damping:          o.Damping,
		AngularStiffness: o.AngularStiffness,
		angleA:           angleA,
		angleB:           angleB,
	}
}

func isFixed(b *body.Body) bool {

	return b == nil || b.IsStatic
}

// PreSolveAll warm-starts every body by adding its cached
// ConstraintImpulse back into its position/angle before this step's
// solving begins.
func PreSolveAll(bodies []*body.Body) {

	for _, b := range bodies {
		impulse := b.ConstraintImpulse.Vector
		angle := b.ConstraintImpulse.Angle
		if b.IsStatic || (impulse.X == 0 && impulse.Y == 0 && angle == 0) {
			continue
		}
		b.Position.X += impulse.X
		b.Position.Y += impulse.Y
		b.Angle += angle
	}
}

// SolveAll runs one Gauss-Seidel pass over constraints: those with at
// least one fixed (static or anchor-only) endpoint solve first, then
// all-dynamic constraints, so anchored structures converge faster.
func SolveAll(constraints []*Constraint, delta float64) {

	timeScale := clamp(delta/baseDelta, 0, 1)

	for _, c := range constraints {
		if isFixed(c.BodyA) || isFixed(c.BodyB) {
			c.Solve(timeScale)
		}
	}
	for _, c := range constraints {
		if !isFixed(c.BodyA) && !isFixed(c.BodyB) {
			c.Solve(timeScale)
		}
	}
}

// Solve resolves this constraint by one Gauss-Seidel pass.
func (c *Constraint) Solve(timeScale float64) {

	if c.BodyA == nil && c.BodyB == nil {
		return
	}

	pointA, pointB := c.PointA, c.PointB

	if c.BodyA != nil && !c.BodyA.IsStatic {
		pointA.Rotate(c.BodyA.Angle - c.angleA)
		c.angleA = c.BodyA.Angle
		c.PointA = pointA
	}
	if c.BodyB != nil && !c.BodyB.IsStatic {
		pointB.Rotate(c.BodyB.Angle - c.angleB)
		c.angleB = c.BodyB.Angle
		c.PointB = pointB
	}

	worldA := worldPoint(c.BodyA, pointA)
	worldB := worldPoint(c.BodyB, pointB)

	delta := geometry.Vector{X: worldA.X - worldB.X, Y: worldA.Y - worldB.Y}
	currentLength := delta.Length()
	if currentLength < minLength {
		currentLength = minLength
	}

	difference := (currentLength - c.Length) / currentLength
	isRigid := c.Stiffness >= 1 || c.Length == 0
	stiffness := c.Stiffness * timeScale
	if !isRigid {
		stiffness *= timeScale
	}
	damping := c.Damping * timeScale

	force := geometry.Vector{X: delta.X * difference * stiffness, Y: delta.Y * difference * stiffness}

	inverseMassTotal := invMass(c.BodyA) + invMass(c.BodyB)
	inverseInertiaTotal := invInertia(c.BodyA) + invInertia(c.BodyB)
	resistanceTotal := inverseMassTotal + inverseInertiaTotal

	var normal geometry.Vector
	var normalVelocity float64
	if damping > 0 && currentLength > 0 {
		normal = geometry.Vector{X: delta.X / currentLength, Y: delta.Y / currentLength}
		relative := geometry.Vector{}
		if c.BodyB != nil {
			relative.X += c.BodyB.Position.X - c.BodyB.PositionPrev.X
			relative.Y += c.BodyB.Position.Y - c.BodyB.PositionPrev.Y
		}
		if c.BodyA != nil {
			relative.X -= c.BodyA.Position.X - c.BodyA.PositionPrev.X
			relative.Y -= c.BodyA.Position.Y - c.BodyA.PositionPrev.Y
		}
		normalVelocity = normal.Dot(&relative)
	}

	if c.BodyA != nil && !c.BodyA.IsStatic {
		share := 0.0
		if inverseMassTotal != 0 {
			share = c.BodyA.InverseMass / inverseMassTotal
		}

		c.BodyA.ConstraintImpulse.Vector.X -= force.X * share
		c.BodyA.ConstraintImpulse.Vector.Y -= force.Y * share
		c.BodyA.Position.X -= force.X * share
		c.BodyA.Position.Y -= force.Y * share

		if damping > 0 {
			c.BodyA.PositionPrev.X -= damping * normal.X * normalVelocity * share
			c.BodyA.PositionPrev.Y -= damping * normal.Y * normalVelocity * share
		}

		torque := 0.0
		if resistanceTotal != 0 {
			torque = (pointA.Cross(&force) / resistanceTotal) * torqueDampen * c.BodyA.InverseInertia * (1 - c.AngularStiffness)
		}
		c.BodyA.ConstraintImpulse.Angle -= torque
		c.BodyA.Angle -= torque
	}

	if c.BodyB != nil && !c.BodyB.IsStatic {
		share := 0.0
		if inverseMassTotal != 0 {
			share = c.BodyB.InverseMass / inverseMassTotal
		}

		c.BodyB.ConstraintImpulse.Vector.X += force.X * share
		c.BodyB.ConstraintImpulse.Vector.Y += force.Y * share
		c.BodyB.Position.X += force.X * share
		c.BodyB.Position.Y += force.Y * share

		if damping > 0 {
			c.BodyB.PositionPrev.X += damping * normal.X * normalVelocity * share
			c.BodyB.PositionPrev.Y += damping * normal.Y * normalVelocity * share
		}

		torque := 0.0
		if resistanceTotal != 0 {
			torque = (pointB.Cross(&force) / resistanceTotal) * torqueDampen * c.BodyB.InverseInertia * (1 - c.AngularStiffness)
		}
		c.BodyB.ConstraintImpulse.Angle += torque
		c.BodyB.Angle += torque
	}
}

// PostSolveAll applies each body's accumulated constraint impulse as a
// geometric transform (vertices, axes, bounds, part positions), wakes
// sleeping bodies the impulse touched, then dampens the cached impulse
// by warming for next step's warm start.
func PostSolveAll(bodies []*body.Body) {

	for _, b := range bodies {
		impulse := b.ConstraintImpulse.Vector
		angle := b.ConstraintImpulse.Angle
		if b.IsStatic || (impulse.X == 0 && impulse.Y == 0 && angle == 0) {
			continue
		}

		if b.IsSleeping {
			b.IsSleeping = false
		}

		for i, part := range b.Parts {
			geometry.Translate(part.Vertices, impulse, 1)

			if i > 0 {
				part.Position.X += impulse.X
				part.Position.Y += impulse.Y
			}

			if angle != 0 {
				geometry.Rotate(part.Vertices, angle, b.Position)
				geometry.RotateAxes(part.Axes, angle)
				if i > 0 {
					part.Position.RotateAbout(angle, &b.Position)
				}
			}

			part.Bounds.UpdateFromPoints(partPoints(part.Vertices), &b.Velocity)
		}

		b.ConstraintImpulse.Angle *= warming
		b.ConstraintImpulse.Vector.X *= warming
		b.ConstraintImpulse.Vector.Y *= warming
	}
}

func partPoints(vertices []geometry.Vertex) []geometry.Vector {

	pts := make([]geometry.Vector, len(vertices))
	for i := range vertices {
		pts[i] = vertices[i].Vector
	}
	return pts
}

func invMass(b *body.Body) float64 {

	if b == nil {
		return 0
	}
	return b.InverseMass
}

func invInertia(b *body.Body) float64 {

	if b == nil {
		return 0
	}
	return b.InverseInertia
}

func clamp(x, lo, hi float64) float64 {

	return math.Max(lo, math.Min(hi, x))
}
