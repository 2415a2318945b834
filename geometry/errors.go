// Copyright 2024 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geometry

import "errors"

// ErrInvalidGeometry is returned when a point ring cannot form a valid
// polygon: fewer than three points, or an unsigned area of ~0.
var ErrInvalidGeometry = errors.New("geometry: invalid polygon (fewer than 3 vertices or zero area)")

// Validate reports ErrInvalidGeometry if points cannot form a polygon
// with non-negligible area.
func Validate(points []Vector) error {

	if len(points) < 3 {
		return ErrInvalidGeometry
	}
	verts := NewVertices(points, 0)
	if Area(verts, false) < 1e-9 {
		return ErrInvalidGeometry
	}
	return nil
}
