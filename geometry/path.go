// Copyright 2024 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geometry

import (
	"regexp"
	"strconv"
)

var pathPointPattern = regexp.MustCompile(`(?i)L?\s*([-\d.e]+)[\s,]+([-\d.e]+)`)

// PointsFromPath parses an SVG-path-like string of ordered x y pairs,
// each optionally prefixed with a move/line marker ("M"/"L"), into a
// slice of points around the origin.
func PointsFromPath(path string) []Vector {

	matches := pathPointPattern.FindAllStringSubmatch(path, -1)
	points := make([]Vector, 0, len(matches))
	for _, m := range matches {
		x, errX := strconv.ParseFloat(m[1], 64)
		y, errY := strconv.ParseFloat(m[2], 64)
		if errX != nil || errY != nil {
			continue
		}
		points = append(points, Vector{X: x, Y: y})
	}
	return points
}
