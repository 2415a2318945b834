// Copyright 2024 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package constraint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinetic2d/rigid2d/body"
	"github.com/kinetic2d/rigid2d/geometry"
	"github.com/kinetic2d/rigid2d/id"
)

func square(t *testing.T, ids *id.Source, position geometry.Vector) *body.Body {

	t.Helper()
	b, err := body.New(ids, body.Options{
		Position: position,
		Vertices: []geometry.Vector{{X: -10, Y: -10}, {X: 10, Y: -10}, {X: 10, Y: 10}, {X: -10, Y: 10}},
	})
	require.NoError(t, err)
	return b
}

func TestNewDerivesLengthFromCurrentDistance(t *testing.T) {

	ids := id.NewSource()
	a := square(t, ids, geometry.Vector{X: 0, Y: 0})
	b := square(t, ids, geometry.Vector{X: 100, Y: 0})

	c := New(ids, Options{BodyA: a, BodyB: b})

	assert.InDelta(t, 100, c.Length, 1e-9)
	assert.Equal(t, 1.0, c.Stiffness)
}

func TestNewZeroLengthPinDefaultsToSoftStiffness(t *testing.T) {

	ids := id.NewSource()
	a := square(t, ids, geometry.Vector{X: 0, Y: 0})

	c := New(ids, Options{BodyA: a})

	assert.Zero(t, c.Length)
	assert.InDelta(t, 0.7, c.Stiffness, 1e-9)
}

func TestSolveAllPullsBodiesTogether(t *testing.T) {

	ids := id.NewSource()
	a := square(t, ids, geometry.Vector{X: 0, Y: 0})
	b := square(t, ids, geometry.Vector{X: 200, Y: 0})
	length := 100.0
	c := New(ids, Options{BodyA: a, BodyB: b, Length: &length})

	initialDistance := b.Position.X - a.Position.X

	for i := 0; i < 60; i++ {
		PreSolveAll([]*body.Body{a, b})
		SolveAll([]*Constraint{c}, 1000.0/60.0)
		PostSolveAll([]*body.Body{a, b})
	}

	finalDistance := b.Position.X - a.Position.X
	assert.Less(t, finalDistance, initialDistance)
	assert.InDelta(t, length, finalDistance, 5)
}

func TestSolveWithFixedAnchorMovesOnlyDynamicBody(t *testing.T) {

	ids := id.NewSource()
	a := square(t, ids, geometry.Vector{X: 0, Y: 200})
	length := 50.0
	c := New(ids, Options{PointA: geometry.Vector{X: 0, Y: 0}, BodyB: a, PointB: geometry.Vector{}, Length: &length})

	for i := 0; i < 60; i++ {
		PreSolveAll([]*body.Body{a})
		SolveAll([]*Constraint{c}, 1000.0/60.0)
		PostSolveAll([]*body.Body{a})
	}

	offset := geometry.Vector{X: a.Position.X, Y: a.Position.Y}
	distance := offset.Length()
	assert.InDelta(t, length, distance, 10)
}
