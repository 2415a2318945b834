// Copyright 2024 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geometry

import "math"

// AxesFromVertices returns the deduplicated set of unit edge normals
// of a polygon. Two edges whose normals have equal slope y/x (parallel
// edges) collapse to a single representative axis, which shrinks the
// axis count the SAT narrowphase has to test for symmetric polygons.
// A normal with x == 0 gets the key +Inf or -Inf by the sign of y, so
// the normals (0, 1) and (0, -1) stay separate: a square yields 3 axes.
func AxesFromVertices(vertices []Vertex) []Vector {

	keys := make(map[float64]Vector)
	order := make([]float64, 0, len(vertices))
	n := len(vertices)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		normal := Vector{
			X: vertices[j].Y - vertices[i].Y,
			Y: vertices[i].X - vertices[j].X,
		}
		normal.Normalize()

		var key float64
		if normal.X == 0 {
			if normal.Y >= 0 {
				key = math.Inf(1)
			} else {
				key = math.Inf(-1)
			}
		} else {
			key = normal.Y / normal.X
		}

		if _, exists := keys[key]; !exists {
			order = append(order, key)
		}
		keys[key] = normal
	}

	axes := make([]Vector, len(order))
	for i, key := range order {
		axes[i] = keys[key]
	}
	return axes
}

// RotateAxes rotates a set of axes in-place by angle radians.
func RotateAxes(axes []Vector, angle float64) {

	if angle == 0 {
		return
	}
	c := math.Cos(angle)
	s := math.Sin(angle)
	for i := range axes {
		x := axes[i].X*c - axes[i].Y*s
		axes[i].Y = axes[i].X*s + axes[i].Y*c
		axes[i].X = x
	}
}
