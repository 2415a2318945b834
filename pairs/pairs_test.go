// Copyright 2024 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pairs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinetic2d/rigid2d/body"
	"github.com/kinetic2d/rigid2d/collision"
	"github.com/kinetic2d/rigid2d/geometry"
	"github.com/kinetic2d/rigid2d/id"
)

func box(t *testing.T, ids *id.Source, position geometry.Vector) *body.Body {

	t.Helper()
	b, err := body.New(ids, body.Options{
		Position: position,
		Vertices: []geometry.Vector{{X: -10, Y: -10}, {X: 10, Y: -10}, {X: 10, Y: 10}, {X: -10, Y: 10}},
	})
	require.NoError(t, err)
	return b
}

func collide(t *testing.T, ids *id.Source) *collision.Collision {

	t.Helper()
	a := box(t, ids, geometry.Vector{X: 0, Y: 0})
	b := box(t, ids, geometry.Vector{X: 15, Y: 0})
	c := collision.Collides(a, b, nil)
	require.NotNil(t, c)
	return c
}

func TestUpdateCreatesNewPairOnFirstCollision(t *testing.T) {

	ids := id.NewSource()
	col := collide(t, ids)
	cache := NewCache()

	cache.Update([]*collision.Collision{col}, 0)

	assert.Len(t, cache.List, 1)
	assert.Len(t, cache.CollisionStart, 1)
	assert.Empty(t, cache.CollisionActive)
	assert.True(t, cache.List[0].IsActive)
}

func TestUpdateReclassifiesExistingPairAsActive(t *testing.T) {

	ids := id.NewSource()
	col := collide(t, ids)
	cache := NewCache()

	cache.Update([]*collision.Collision{col}, 0)
	cache.Update([]*collision.Collision{col}, 16)

	assert.Empty(t, cache.CollisionStart)
	assert.Len(t, cache.CollisionActive, 1)
}

func TestUpdateEndsPairWhenCollisionStops(t *testing.T) {

	ids := id.NewSource()
	col := collide(t, ids)
	cache := NewCache()

	cache.Update([]*collision.Collision{col}, 0)
	cache.Update(nil, 16)

	assert.Len(t, cache.CollisionEnd, 1)
	assert.False(t, cache.List[0].IsActive)
	assert.Zero(t, cache.List[0].Contacts[0].NormalImpulse)
}

func TestUpdateEvictsPairAfterIdleHorizon(t *testing.T) {

	ids := id.NewSource()
	col := collide(t, ids)
	cache := NewCache()

	cache.Update([]*collision.Collision{col}, 0)
	cache.Update(nil, 16)
	cache.Update(nil, 2000)

	assert.Empty(t, cache.List)
	assert.Empty(t, cache.Table)
}

func TestLookupReturnsCachedCollisionForKnownPair(t *testing.T) {

	ids := id.NewSource()
	col := collide(t, ids)
	cache := NewCache()
	cache.Update([]*collision.Collision{col}, 0)

	found := cache.Lookup(col.ParentA, col.ParentB)
	assert.Same(t, col, found)
}

func TestLookupReturnsNilForUnknownPair(t *testing.T) {

	ids := id.NewSource()
	cache := NewCache()
	a := box(t, ids, geometry.Vector{X: 0, Y: 0})
	b := box(t, ids, geometry.Vector{X: 100, Y: 0})

	assert.Nil(t, cache.Lookup(a, b))
}
