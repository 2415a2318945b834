// Copyright 2024 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package body

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinetic2d/rigid2d/geometry"
	"github.com/kinetic2d/rigid2d/id"
)

func rectangle(t *testing.T, ids *id.Source, w, h float64, opts Options) *Body {

	t.Helper()
	opts.Vertices = []geometry.Vector{
		{X: -w / 2, Y: -h / 2}, {X: w / 2, Y: -h / 2},
		{X: w / 2, Y: h / 2}, {X: -w / 2, Y: h / 2},
	}
	b, err := New(ids, opts)
	require.NoError(t, err)
	return b
}

func TestNewBodyHasPositiveMassAndInertia(t *testing.T) {

	ids := id.NewSource()
	b := rectangle(t, ids, 40, 40, Options{Position: geometry.Vector{X: 100, Y: 100}})

	assert.Greater(t, b.Mass, 0.0)
	assert.Greater(t, b.Inertia, 0.0)
	assert.InDelta(t, 1/b.Mass, b.InverseMass, 1e-9)
}

func TestNewBodyVerticesAreCentredAtPosition(t *testing.T) {

	ids := id.NewSource()
	b := rectangle(t, ids, 40, 40, Options{Position: geometry.Vector{X: 50, Y: -20}})

	c := geometry.Centroid(b.Vertices)
	assert.InDelta(t, 50, c.X, 1e-6)
	assert.InDelta(t, -20, c.Y, 1e-6)
}

func TestSetStaticFreezesAndRestores(t *testing.T) {

	ids := id.NewSource()
	b := rectangle(t, ids, 40, 40, Options{Mass: 5})

	originalMass := b.Mass
	originalInertia := b.Inertia

	b.SetStatic(true)
	assert.True(t, b.IsStatic)
	assert.True(t, math.IsInf(b.Mass, 1))
	assert.Equal(t, 0.0, b.InverseMass)

	b.SetStatic(false)
	assert.False(t, b.IsStatic)
	assert.InDelta(t, originalMass, b.Mass, 1e-9)
	assert.InDelta(t, originalInertia, b.Inertia, 1e-9)
}

func TestSetPositionWithoutVelocityDoesNotChangeVelocity(t *testing.T) {

	ids := id.NewSource()
	b := rectangle(t, ids, 40, 40, Options{})
	before := b.GetVelocity()

	b.SetPosition(geometry.Vector{X: 10, Y: 10}, false)

	after := b.GetVelocity()
	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)
	assert.InDelta(t, 10, b.Position.X, 1e-9)
}

func TestSetVelocityIsReadBackByGetVelocity(t *testing.T) {

	ids := id.NewSource()
	b := rectangle(t, ids, 40, 40, Options{})

	b.SetVelocity(geometry.Vector{X: 3, Y: -2})
	v := b.GetVelocity()

	assert.InDelta(t, 3, v.X, 1e-9)
	assert.InDelta(t, -2, v.Y, 1e-9)
}

func TestIntegrateFreeFallAccelerates(t *testing.T) {

	ids := id.NewSource()
	b := rectangle(t, ids, 40, 40, Options{FrictionAir: 0})
	b.Force = geometry.Vector{X: 0, Y: b.Mass * 0.001}

	startY := b.Position.Y
	for i := 0; i < 10; i++ {
		b.Integrate(BaseDelta)
	}

	assert.Greater(t, b.Position.Y, startY)
}

func TestIntegrateStaticBodyDoesNotMove(t *testing.T) {

	ids := id.NewSource()
	b := rectangle(t, ids, 40, 40, Options{IsStatic: true})
	start := b.Position

	b.Integrate(BaseDelta)

	assert.InDelta(t, start.X, b.Position.X, 1e-9)
	assert.InDelta(t, start.Y, b.Position.Y, 1e-9)
}

func TestApplyForceAddsTorqueFromOffset(t *testing.T) {

	ids := id.NewSource()
	b := rectangle(t, ids, 40, 40, Options{Position: geometry.Vector{X: 0, Y: 0}})

	b.ApplyForce(geometry.Vector{X: 0, Y: 10}, geometry.Vector{X: 1, Y: 0})

	assert.NotEqual(t, 0.0, b.Torque)
}

func TestSetPartsAggregatesMassAndArea(t *testing.T) {

	ids := id.NewSource()
	parent := rectangle(t, ids, 40, 40, Options{Position: geometry.Vector{X: 0, Y: 0}})
	child := rectangle(t, ids, 40, 40, Options{Position: geometry.Vector{X: 40, Y: 0}})

	parent.SetParts([]*Body{parent, child}, true)

	assert.Len(t, parent.Parts, 2)
	assert.InDelta(t, child.Area, parent.Area, 1e-6)
	assert.Same(t, parent, child.Parent)
}

func TestCanCollideGroupOverridesMask(t *testing.T) {

	a := Filter{Category: 0x0001, Mask: 0x0000, Group: 5}
	b := Filter{Category: 0x0002, Mask: 0x0000, Group: 5}
	assert.True(t, CanCollide(a, b))

	a.Group, b.Group = -5, -5
	assert.False(t, CanCollide(a, b))
}

func TestCanCollideFallsBackToBitmask(t *testing.T) {

	a := Filter{Category: 0x0001, Mask: 0x0002}
	b := Filter{Category: 0x0002, Mask: 0x0001}
	assert.True(t, CanCollide(a, b))

	b.Mask = 0x0004
	assert.False(t, CanCollide(a, b))
}

func TestNewRejectsDegenerateGeometry(t *testing.T) {

	ids := id.NewSource()
	_, err := New(ids, Options{Vertices: []geometry.Vector{{X: 0, Y: 0}, {X: 1, Y: 0}}})
	assert.ErrorIs(t, err, geometry.ErrInvalidGeometry)
}

func TestNewWithChamferGrowsVertexCount(t *testing.T) {

	ids := id.NewSource()
	b, err := New(ids, Options{
		Vertices: []geometry.Vector{{X: -20, Y: -20}, {X: 20, Y: -20}, {X: 20, Y: 20}, {X: -20, Y: 20}},
		Chamfer:  []float64{4},
	})

	require.NoError(t, err)
	assert.Greater(t, len(b.Vertices), 4)
}
