// Copyright 2024 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sleeping

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

func box(t *testing.T, ids *id.Source, position geometry.Vector, threshold int) *body.Body {

	t.Helper()
	b, err := body.New(ids, body.Options{
		Position:       position,
		SleepThreshold: threshold,
		Vertices:       []geometry.Vector{{X: -10, Y: -10}, {X: 10, Y: -10}, {X: 10, Y: 10}, {X: -10, Y: 10}},
	})
	require.NoError(t, err)
	return b
}

func TestUpdatePutsStillBodyToSleepAfterThreshold(t *testing.T) {

	ids := id.NewSource()
	b := box(t, ids, geometry.Vector{X: 0, Y: 0}, 3)

	for i := 0; i < 3; i++ {
		Update([]*body.Body{b}, 1000.0/60.0)
	}

	assert.True(t, b.IsSleeping)
}

func TestUpdateLeavesSleepDisabledBodyAwake(t *testing.T) {

	ids := id.NewSource()
	b := box(t, ids, geometry.Vector{X: 0, Y: 0}, 0)
	b.SleepThreshold = 0 // body.New turns a zero option into 60

	for i := 0; i < 10; i++ {
		Update([]*body.Body{b}, 1000.0/60.0)
	}

	assert.False(t, b.IsSleeping)
}

func TestUpdateDecaysCounterWhenMoving(t *testing.T) {

	ids := id.NewSource()
	b := box(t, ids, geometry.Vector{X: 0, Y: 0}, 3)
	Update([]*body.Body{b}, 1000.0/60.0)
	require.Equal(t, 1, b.SleepCounter)

	b.Speed = 10
	Update([]*body.Body{b}, 1000.0/60.0)

	assert.Equal(t, 0, b.SleepCounter)
}

func TestSetSleepingPinsVerletHistory(t *testing.T) {

	ids := id.NewSource()
	b := box(t, ids, geometry.Vector{X: 5, Y: 5}, 3)
	b.Speed = 4
	b.AngularSpeed = 2
	b.Motion = 9

	SetSleeping(b, true)

	assert.True(t, b.IsSleeping)
	assert.Equal(t, b.Position, b.PositionPrev)
	assert.Equal(t, b.Angle, b.AnglePrev)
	assert.Zero(t, b.Speed)
	assert.Zero(t, b.AngularSpeed)
	assert.Zero(t, b.Motion)
	assert.Equal(t, b.SleepThreshold, b.SleepCounter)
}

func TestSetSleepingFalseResetsCounter(t *testing.T) {

	ids := id.NewSource()
	b := box(t, ids, geometry.Vector{X: 0, Y: 0}, 3)
	SetSleeping(b, true)

	SetSleeping(b, false)

	assert.False(t, b.IsSleeping)
	assert.Zero(t, b.SleepCounter)
}

func TestAfterCollisionsWakesSleepingBodyWhenHitHard(t *testing.T) {

	ids := id.NewSource()
	a := box(t, ids, geometry.Vector{X: 0, Y: 0}, 3)
	b := box(t, ids, geometry.Vector{X: 15, Y: 0}, 3)
	SetSleeping(a, true)
	b.Motion = 10

	col := collision.Collides(a, b, nil)
	require.NotNil(t, col)
	pair := &pairs.Pair{Collision: col, IsActive: true}

	AfterCollisions([]*pairs.Pair{pair})

	assert.False(t, a.IsSleeping)
}

func TestAfterCollisionsLeavesSleepingBodyAsleepWhenPartnerIsQuiet(t *testing.T) {

	ids := id.NewSource()
	a := box(t, ids, geometry.Vector{X: 0, Y: 0}, 3)
	b := box(t, ids, geometry.Vector{X: 15, Y: 0}, 3)
	SetSleeping(a, true)
	b.Motion = 0

	col := collision.Collides(a, b, nil)
	require.NotNil(t, col)
	pair := &pairs.Pair{Collision: col, IsActive: true}

	AfterCollisions([]*pairs.Pair{pair})

	assert.True(t, a.IsSleeping)
}

func TestAfterCollisionsSkipsInactivePairs(t *testing.T) {

	ids := id.NewSource()
	a := box(t, ids, geometry.Vector{X: 0, Y: 0}, 3)
	b := box(t, ids, geometry.Vector{X: 15, Y: 0}, 3)
	SetSleeping(a, true)
	b.Motion = 10

	col := collision.Collides(a, b, nil)
	require.NotNil(t, col)
	pair := &pairs.Pair{Collision: col, IsActive: false}

	AfterCollisions([]*pairs.Pair{pair})

	assert.True(t, a.IsSleeping)
}
