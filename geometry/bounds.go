// Copyright 2024 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geometry

import "math"

// Bounds is an axis-aligned bounding box defined by its minimum and
// maximum corner. Invariant: Min.X <= Max.X and Min.Y <= Max.Y.
type Bounds struct {
	Min Vector
	Max Vector
}

// NewBounds creates and returns a pointer to a new Bounds from the
// given minimum and maximum corners.
func NewBounds(min, max Vector) *Bounds {

	return &Bounds{Min: min, Max: max}
}

// FromVertices computes the tight bounds of a set of points.
func FromVertices(points []Vector) *Bounds {

	b := &Bounds{
		Min: Vector{X: math.Inf(1), Y: math.Inf(1)},
		Max: Vector{X: math.Inf(-1), Y: math.Inf(-1)},
	}
	b.UpdateFromPoints(points, nil)
	return b
}

// UpdateFromPoints recomputes this box from the given points, then,
// when velocity is non-nil, expands the box along the sign of each
// velocity component to capture motion swept during the step.
func (b *Bounds) UpdateFromPoints(points []Vector, velocity *Vector) {

	b.Min.X, b.Min.Y = math.Inf(1), math.Inf(1)
	b.Max.X, b.Max.Y = math.Inf(-1), math.Inf(-1)

	for i := range points {
		p := &points[i]
		if p.X > b.Max.X {
			b.Max.X = p.X
		}
		if p.X < b.Min.X {
			b.Min.X = p.X
		}
		if p.Y > b.Max.Y {
			b.Max.Y = p.Y
		}
		if p.Y < b.Min.Y {
			b.Min.Y = p.Y
		}
	}

	if velocity == nil {
		return
	}
	if velocity.X > 0 {
		b.Max.X += velocity.X
	} else {
		b.Min.X += velocity.X
	}
	if velocity.Y > 0 {
		b.Max.Y += velocity.Y
	} else {
		b.Min.Y += velocity.Y
	}
}

// Translate shifts this box by offset.
// Returns the pointer to this updated box.
func (b *Bounds) Translate(offset Vector) *Bounds {

	b.Min.X += offset.X
	b.Min.Y += offset.Y
	b.Max.X += offset.X
	b.Max.Y += offset.Y
	return b
}

// Contains returns true if point lies inside this box, inclusive.
func (b *Bounds) Contains(point Vector) bool {

	return point.X >= b.Min.X && point.X <= b.Max.X &&
		point.Y >= b.Min.Y && point.Y <= b.Max.Y
}

// Overlaps returns true if this box and other intersect, inclusive.
func (b *Bounds) Overlaps(other *Bounds) bool {

	return b.Min.X <= other.Max.X && b.Max.X >= other.Min.X &&
		b.Min.Y <= other.Max.Y && b.Max.Y >= other.Min.Y
}

// OverlapsY returns true if the two boxes' Y intervals intersect.
// The broadphase does not call it; it performs the same Y-interval
// test inline after the X-sweep.
func (b *Bounds) OverlapsY(other *Bounds) bool {

	return b.Min.Y <= other.Max.Y && b.Max.Y >= other.Min.Y
}

// Union sets this box to the union of this box and other.
// Returns the pointer to this updated box.
func (b *Bounds) Union(other *Bounds) *Bounds {

	if other.Min.X < b.Min.X {
		b.Min.X = other.Min.X
	}
	if other.Min.Y < b.Min.Y {
		b.Min.Y = other.Min.Y
	}
	if other.Max.X > b.Max.X {
		b.Max.X = other.Max.X
	}
	if other.Max.Y > b.Max.Y {
		b.Max.Y = other.Max.Y
	}
	return b
}

// Clone returns a copy of this box.
func (b *Bounds) Clone() *Bounds {

	return &Bounds{Min: b.Min, Max: b.Max}
}
