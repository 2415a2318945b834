// Copyright 2024 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinetic2d/rigid2d/body"
	"github.com/kinetic2d/rigid2d/collision"
	"github.com/kinetic2d/rigid2d/geometry"
	"github.com/kinetic2d/rigid2d/id"
	"github.com/kinetic2d/rigid2d/pairs"
)

func box(t *testing.T, ids *id.Source, position geometry.Vector, static bool) *body.Body {

	t.Helper()
	b, err := body.New(ids, body.Options{
		Position: position,
		IsStatic: static,
		Vertices: []geometry.Vector{{X: -10, Y: -10}, {X: 10, Y: -10}, {X: 10, Y: 10}, {X: -10, Y: 10}},
	})
	require.NoError(t, err)
	return b
}

func overlappingPair(t *testing.T, ids *id.Source, depth float64) (*body.Body, *body.Body, *pairs.Cache) {

	t.Helper()
	a := box(t, ids, geometry.Vector{X: 0, Y: 0}, false)
	b := box(t, ids, geometry.Vector{X: 20 - depth, Y: 0}, true)

	col := collision.Collides(a, b, nil)
	require.NotNil(t, col)

	cache := pairs.NewCache()
	cache.Update([]*collision.Collision{col}, 0)
	return a, b, cache
}

func TestSolvePositionPushesDynamicBodyOutOfStaticBody(t *testing.T) {

	ids := id.NewSource()
	a, b, cache := overlappingPair(t, ids, 4)
	startX := a.Position.X

	PreSolvePosition(cache.List)
	for i := 0; i < 6; i++ {
		SolvePosition(cache.List, 1000.0/60.0, 1)
	}
	PostSolvePosition([]*body.Body{a, b})

	assert.Zero(t, b.PositionImpulse.X, "static body never accumulates a position impulse")
	assert.Less(t, a.Position.X, startX, "dynamic body is pushed away from the static body along the normal")
}

func TestSolveVelocityNeverLeavesAPositiveNormalImpulse(t *testing.T) {

	ids := id.NewSource()
	a, _, cache := overlappingPair(t, ids, 4)

	a.PositionPrev.X = a.Position.X - 1000 // huge relative velocity along the contact normal
	cache.List[0].Contacts[0].NormalImpulse = -5

	PreSolveVelocity(cache.List)
	SolveVelocity(cache.List, 1000.0/60.0)

	assert.LessOrEqual(t, cache.List[0].Contacts[0].NormalImpulse, 0.0, "a separating/resting contact never pushes bodies together")
}

func TestSolveVelocitySkipsSensorPairs(t *testing.T) {

	ids := id.NewSource()
	_, _, cache := overlappingPair(t, ids, 4)
	cache.List[0].IsSensor = true
	cache.List[0].Contacts[0].NormalImpulse = -3

	SolveVelocity(cache.List, 1000.0/60.0)

	assert.Equal(t, -3.0, cache.List[0].Contacts[0].NormalImpulse)
}
