// Copyright 2024 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package composite implements hierarchical grouping of bodies,
// constraints and sub-composites, with cached flattened views that are
// rebuilt lazily after a mutation invalidates them.
package composite

import (
	"github.com/kinetic2d/rigid2d/body"
	"github.com/kinetic2d/rigid2d/constraint"
	"github.com/kinetic2d/rigid2d/geometry"
	"github.com/kinetic2d/rigid2d/id"
)

// Composite is a tree node owning bodies, constraints and child
// composites. Ownership of a body or constraint is tracked through the
// body's CompositeOwner and the constraint's Owner back-reference, kept distinct from a
// body's compound-part Parent so the two relations never collide.
type Composite struct {
	ID     int
	Label  string
	Parent *Composite

	Bodies      []*body.Body
	Constraints []*constraint.Constraint
	Composites  []*Composite

	isModified bool

	cachedBodies      []*body.Body
	cachedConstraints []*constraint.Constraint
	cachedComposites  []*Composite
}

// New creates an empty composite.
func New(ids *id.Source, label string) *Composite {

	if label == "" {
		label = "Composite"
	}
	return &Composite{ID: ids.Next(), Label: label}
}

// InvalidateCache marks this composite's flattened views stale and
// propagates the invalidation up to its parent. Satisfies the
// body.CompositeOwner and constraint.Owner interfaces that
// body.Body and constraint.Constraint back-reference to.
func (c *Composite) InvalidateCache() {

	c.SetModified(true, true, false)
}

// SetModified sets the modified flag, optionally invalidating the
// flattening caches, and propagates up to the parent and/or down to
// every child composite.
func (c *Composite) SetModified(isModified bool, updateParents, updateChildren bool) {

	c.isModified = isModified
	if isModified {
		c.cachedBodies = nil
		c.cachedConstraints = nil
		c.cachedComposites = nil
	}

	if updateParents && c.Parent != nil {
		c.Parent.SetModified(isModified, true, false)
	}
	if updateChildren {
		for _, child := range c.Composites {
			child.SetModified(isModified, false, true)
		}
	}
}

// Add inserts one or more bodies, constraints or composites (or slices
// of them) into this composite, polymorphic over item kind like the
// reference engine's mixed-array add. Unknown item types are ignored.
func (c *Composite) Add(objects ...interface{}) *Composite {

	for _, obj := range objects {
		switch v := obj.(type) {
		case *body.Body:
			c.addBody(v)
		case []*body.Body:
			for _, b := range v {
				c.addBody(b)
			}
		case *constraint.Constraint:
			c.addConstraint(v)
		case []*constraint.Constraint:
			for _, cn := range v {
				c.addConstraint(cn)
			}
		case *Composite:
			c.addComposite(v)
		case []*Composite:
			for _, child := range v {
				c.addComposite(child)
			}
		}
	}
	return c
}

func (c *Composite) addBody(b *body.Body) {

	for _, existing := range c.Bodies {
		if existing == b {
			return
		}
	}
	c.Bodies = append(c.Bodies, b)
	b.CompositeOwner = c
	c.SetModified(true, true, false)
}

func (c *Composite) addConstraint(cn *constraint.Constraint) {

	for _, existing := range c.Constraints {
		if existing == cn {
			return
		}
	}
	c.Constraints = append(c.Constraints, cn)
	cn.Owner = c
	c.SetModified(true, true, false)
}

func (c *Composite) addComposite(child *Composite) {

	for _, existing := range c.Composites {
		if existing == child {
			return
		}
	}
	c.Composites = append(c.Composites, child)
	child.Parent = c
	c.SetModified(true, true, false)
}

// Remove deletes one or more bodies, constraints or composites from
// this composite; when deep is true it also recurses into every child
// composite.
func (c *Composite) Remove(deep bool, objects ...interface{}) *Composite {

	for _, obj := range objects {
		switch v := obj.(type) {
		case *body.Body:
			c.removeBody(v, deep)
		case *constraint.Constraint:
			c.removeConstraint(v, deep)
		case *Composite:
			c.removeComposite(v, deep)
		}
	}
	return c
}

func (c *Composite) removeBody(b *body.Body, deep bool) {

	for i, existing := range c.Bodies {
		if existing == b {
			c.Bodies = append(c.Bodies[:i], c.Bodies[i+1:]...)
			c.SetModified(true, true, false)
			break
		}
	}
	if deep {
		for _, child := range c.Composites {
			child.removeBody(b, true)
		}
	}
}

func (c *Composite) removeConstraint(cn *constraint.Constraint, deep bool) {

	for i, existing := range c.Constraints {
		if existing == cn {
			c.Constraints = append(c.Constraints[:i], c.Constraints[i+1:]...)
			c.SetModified(true, true, false)
			break
		}
	}
	if deep {
		for _, child := range c.Composites {
			child.removeConstraint(cn, true)
		}
	}
}

func (c *Composite) removeComposite(child *Composite, deep bool) {

	for i, existing := range c.Composites {
		if existing == child {
			c.Composites = append(c.Composites[:i], c.Composites[i+1:]...)
			c.SetModified(true, true, false)
			break
		}
	}
	if deep {
		for _, grandchild := range c.Composites {
			grandchild.removeComposite(child, true)
		}
	}
}

// AllBodies returns every body in this composite and all descendant
// composites, from a cache rebuilt on first call after invalidation.
func (c *Composite) AllBodies() []*body.Body {

	if c.cachedBodies != nil {
		return c.cachedBodies
	}

	bodies := append([]*body.Body(nil), c.Bodies...)
	for _, child := range c.Composites {
		bodies = append(bodies, child.AllBodies()...)
	}
	c.cachedBodies = bodies
	return bodies
}

// AllConstraints returns every constraint in this composite and all
// descendant composites, from a cache rebuilt on first call after
// invalidation.
func (c *Composite) AllConstraints() []*constraint.Constraint {

	if c.cachedConstraints != nil {
		return c.cachedConstraints
	}

	constraints := append([]*constraint.Constraint(nil), c.Constraints...)
	for _, child := range c.Composites {
		constraints = append(constraints, child.AllConstraints()...)
	}
	c.cachedConstraints = constraints
	return constraints
}

// AllComposites returns every descendant composite (not including
// this one), from a cache rebuilt on first call after invalidation.
func (c *Composite) AllComposites() []*Composite {

	if c.cachedComposites != nil {
		return c.cachedComposites
	}

	composites := append([]*Composite(nil), c.Composites...)
	for _, child := range c.Composites {
		composites = append(composites, child.AllComposites()...)
	}
	c.cachedComposites = composites
	return composites
}

// GetBody finds a body by id anywhere in this composite's tree.
func (c *Composite) GetBody(bodyID int) *body.Body {

	for _, b := range c.AllBodies() {
		if b.ID == bodyID {
			return b
		}
	}
	return nil
}

// GetConstraint finds a constraint by id anywhere in this composite's
// tree.
func (c *Composite) GetConstraint(constraintID int) *constraint.Constraint {

	for _, cn := range c.AllConstraints() {
		if cn.ID == constraintID {
			return cn
		}
	}
	return nil
}

// GetComposite finds a composite by id: itself, or any descendant.
func (c *Composite) GetComposite(compositeID int) *Composite {

	if c.ID == compositeID {
		return c
	}
	for _, child := range c.AllComposites() {
		if child.ID == compositeID {
			return child
		}
	}
	return nil
}

// Move relocates objects from this composite into target, removing
// them (recursively) from this tree first.
func (c *Composite) Move(objects []interface{}, target *Composite) {

	for _, obj := range objects {
		c.Remove(true, obj)
		target.Add(obj)
	}
}

// Rebase reassigns fresh ids to every body, constraint and composite
// in this tree.
func (c *Composite) Rebase(ids *id.Source) {

	for _, b := range c.AllBodies() {
		b.ID = ids.Next()
	}
	for _, cn := range c.AllConstraints() {
		cn.ID = ids.Next()
	}
	for _, child := range c.AllComposites() {
		child.ID = ids.Next()
	}
}

// Translate moves every body in this composite by translation; when
// recursive is false only this composite's direct bodies move.
func (c *Composite) Translate(translation geometry.Vector, recursive bool) {

	for _, b := range c.bodiesFor(recursive) {
		b.Translate(translation, false)
	}
}

// Rotate rotates every body in this composite by rotation radians
// about point; when recursive is false only this composite's direct
// bodies rotate.
func (c *Composite) Rotate(rotation float64, point geometry.Vector, recursive bool) {

	for _, b := range c.bodiesFor(recursive) {
		b.Rotate(rotation, &point, false)
	}
}

// Scale rescales every body in this composite from point by
// (scaleX, scaleY); when recursive is false only this composite's
// direct bodies scale.
func (c *Composite) Scale(scaleX, scaleY float64, point geometry.Vector, recursive bool) {

	for _, b := range c.bodiesFor(recursive) {
		b.Scale(scaleX, scaleY, &point)
	}
}

func (c *Composite) bodiesFor(recursive bool) []*body.Body {

	if recursive {
		return c.AllBodies()
	}
	return c.Bodies
}

// Bounds returns the AABB of the union of every body's bounds in this
// composite, recursively.
func (c *Composite) Bounds() *geometry.Bounds {

	bodies := c.AllBodies()
	if len(bodies) == 0 {
		return geometry.NewBounds(geometry.Vector{}, geometry.Vector{})
	}

	points := make([]geometry.Vector, 0, len(bodies)*2)
	for _, b := range bodies {
		points = append(points, b.Bounds.Min, b.Bounds.Max)
	}
	return geometry.FromVertices(points)
}
