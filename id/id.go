// Copyright 2024 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package id hands out process-monotonic integer identifiers to
// bodies, composites and constraints. The original engine used a
// module-global mutable counter; here the counter is owned by whoever
// constructs a Source (normally the World), so independent engines can
// run side by side without id collisions.
package id

import "sync/atomic"

// Source is a monotonic id generator.
type Source struct {
	next uint64
}

// NewSource creates and returns a pointer to a new id Source whose
// first generated id is 1.
func NewSource() *Source {

	return new(Source)
}

// Next returns the next unique id from this source.
func (s *Source) Next() int {

	return int(atomic.AddUint64(&s.next, 1))
}
