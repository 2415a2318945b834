// Copyright 2024 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func square(half float64) []Vertex {

	return NewVertices([]Vector{
		{X: -half, Y: -half},
		{X: half, Y: -half},
		{X: half, Y: half},
		{X: -half, Y: half},
	}, 0)
}

func TestAreaOfUnitSquare(t *testing.T) {

	v := square(0.5)
	assert.InDelta(t, 1.0, Area(v, false), 1e-9)
}

func TestCentroidOfSquareIsOrigin(t *testing.T) {

	v := square(10)
	c := Centroid(v)
	assert.InDelta(t, 0, c.X, 1e-9)
	assert.InDelta(t, 0, c.Y, 1e-9)
}

func TestContainsInsideAndOutside(t *testing.T) {

	v := square(10)
	assert.True(t, Contains(v, Vector{X: 0, Y: 0}))
	assert.False(t, Contains(v, Vector{X: 20, Y: 0}))
}

func TestInertiaScalesWithMass(t *testing.T) {

	v := square(10)
	i1 := Inertia(v, 1)
	i2 := Inertia(v, 2)
	assert.InDelta(t, i1*2, i2, 1e-9)
}

func TestHullOfSquareWithInteriorPoint(t *testing.T) {

	pts := []Vector{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}, {X: 5, Y: 5},
	}
	h := Hull(pts)
	assert.Len(t, h, 4)
}

func TestClockwiseSortOrdersByAngle(t *testing.T) {

	v := NewVertices([]Vector{
		{X: 1, Y: 1}, {X: -1, Y: 1}, {X: -1, Y: -1}, {X: 1, Y: -1},
	}, 0)
	// shuffle by swapping the first and third vertex, then re-sort
	v[0], v[2] = v[2], v[0]
	ClockwiseSort(v)
	for i := range v {
		assert.Equal(t, i, v[i].Index)
	}
	for i := 1; i < len(v); i++ {
		assert.Less(t, math.Atan2(v[i-1].Y, v[i-1].X), math.Atan2(v[i].Y, v[i].X))
	}
}

func TestPointsFromPathParsesPairs(t *testing.T) {

	pts := PointsFromPath("M 0 0 L 10 0 L 10 10 L 0 10")
	assert.Len(t, pts, 4)
	assert.Equal(t, Vector{X: 10, Y: 10}, pts[2])
}

func TestAxesFromVerticesDeduplicatesParallelEdges(t *testing.T) {

	v := square(10)
	axes := AxesFromVertices(v)
	// the (1,0)/(-1,0) normals share slope 0 and collapse; (0,1) and
	// (0,-1) get the separate keys +Inf and -Inf -> 3 unique axes
	assert.Len(t, axes, 3)
	for _, a := range axes {
		assert.InDelta(t, 1.0, a.Length(), 1e-9)
	}
}

func TestBoundsOverlapAndVelocityExpansion(t *testing.T) {

	b := FromVertices([]Vector{{X: 0, Y: 0}, {X: 1, Y: 1}})
	assert.True(t, b.Min.X <= b.Max.X)

	other := FromVertices([]Vector{{X: 0.5, Y: 0.5}, {X: 2, Y: 2}})
	assert.True(t, b.Overlaps(other))

	velocity := Vector{X: 5, Y: -5}
	b.UpdateFromPoints([]Vector{{X: 0, Y: 0}, {X: 1, Y: 1}}, &velocity)
	assert.True(t, b.Max.X >= 1+5-1e-9 || math.Abs(b.Max.X-6) < 1e-9)
	assert.True(t, b.Min.Y <= 0-5+1e-9)
}

func TestChamferGrowsVertexCountAndPreservesArea(t *testing.T) {

	pts := []Vector{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	chamfered := Chamfer(pts, []float64{2})
	assert.Greater(t, len(chamfered), len(pts))

	v := NewVertices(chamfered, 0)
	assert.InDelta(t, 100, Area(v, false), 4.0)
}

func TestChamferZeroRadiusLeavesCornerUntouched(t *testing.T) {

	pts := []Vector{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	chamfered := Chamfer(pts, []float64{0})
	assert.Equal(t, pts, chamfered)
}
