// Copyright 2024 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pairs implements the persistent contact-pair cache: each
// step's collisions are matched against pairs seen in prior steps so
// contact impulses can be warm-started, and pairs are classified as
// starting, still active, or ended for event dispatch.
package pairs

import (
	"fmt"
	"math"

	"github.com/kinetic2d/rigid2d/body"
	"github.com/kinetic2d/rigid2d/collision"
	"github.com/kinetic2d/rigid2d/geometry"
)

// idleHorizon is how long (ms) an inactive pair is kept before it is
// evicted from the cache.
const idleHorizon = 1000.0

// Contact is one of up to two contact points carried by a Pair, each
// accumulating its own warm-started normal/tangent impulse.
type Contact struct {
	Vertex         *geometry.Vertex
	NormalImpulse  float64
	TangentImpulse float64
}

// Pair is the persistent record for one candidate colliding body pair,
// keyed by the canonical id of its compound parents.
type Pair struct {
	ID string

	ParentA, ParentB *body.Body
	Collision        *collision.Collision

	Contacts     [2]Contact
	ContactCount int
	Separation   float64

	IsActive bool
	IsSensor bool
	confirmed bool

	TimeCreated, TimeUpdated float64

	InverseMass    float64
	Friction       float64
	FrictionStatic float64
	Restitution    float64
	Slop           float64
}

// Cache holds every pair ever seen (until evicted) plus this step's
// start/active/end classification, mirroring the reference engine's
// four parallel views over the same underlying pairs.
type Cache struct {
	Table map[string]*Pair
	List  []*Pair

	CollisionStart, CollisionActive, CollisionEnd []*Pair
}

// NewCache creates an empty pair cache.
func NewCache() *Cache {

	return &Cache{Table: make(map[string]*Pair)}
}

func idFromBodies(a, b *body.Body) string {

	if a.ID < b.ID {
		return fmt.Sprintf("A%dB%d", a.ID, b.ID)
	}
	return fmt.Sprintf("A%dB%d", b.ID, a.ID)
}

// Lookup returns the Collision record already cached for the pair of
// parents, or nil if this pair has never been seen. Passed to
// collision.Detector.FindCollisions so a persistent pair's Collision
// object (and thus its support-vertex identity) survives across steps.
func (c *Cache) Lookup(parentA, parentB *body.Body) *collision.Collision {

	if pair, ok := c.Table[idFromBodies(parentA, parentB)]; ok {
		return pair.Collision
	}
	return nil
}

// Update reconciles the cache against this step's collisions: existing
// pairs are refreshed and reclassified as active-still or
// active-starting, brand-new pairs are created, and pairs no longer
// confirmed are marked ended and evicted once idle past idleHorizon.
func (c *Cache) Update(collisions []*collision.Collision, timestamp float64) {

	c.CollisionStart = c.CollisionStart[:0]
	c.CollisionActive = c.CollisionActive[:0]
	c.CollisionEnd = c.CollisionEnd[:0]

	for _, pair := range c.List {
		pair.confirmed = false
	}

	for _, col := range collisions {
		id := idFromBodies(col.ParentA, col.ParentB)

		if pair, ok := c.Table[id]; ok {
			if pair.IsActive {
				c.CollisionActive = append(c.CollisionActive, pair)
			} else {
				c.CollisionStart = append(c.CollisionStart, pair)
			}

			pair.IsActive = true
			pair.TimeCreated = timestamp
			pair.TimeUpdated = timestamp
			pair.Collision = col
			pair.InverseMass = col.ParentA.InverseMass + col.ParentB.InverseMass
			pair.Friction = math.Min(col.ParentA.Friction, col.ParentB.Friction)
			pair.FrictionStatic = math.Max(col.ParentA.FrictionStatic, col.ParentB.FrictionStatic)
			pair.Restitution = math.Max(col.ParentA.Restitution, col.ParentB.Restitution)
			pair.Slop = math.Max(col.ParentA.Slop, col.ParentB.Slop)
			pair.confirmed = true

			pair.ContactCount = col.SupportCount
			for j := 0; j < col.SupportCount && j < len(pair.Contacts); j++ {
				pair.Contacts[j].Vertex = col.Supports[j]
			}
		} else {
			pair := newPair(col, timestamp)
			c.Table[id] = pair
			c.CollisionStart = append(c.CollisionStart, pair)
			c.List = append(c.List, pair)
		}
	}

	kept := c.List[:0]
	for _, pair := range c.List {
		if !pair.confirmed {
			pair.IsActive = false
			c.CollisionEnd = append(c.CollisionEnd, pair)
			pair.Contacts[0].NormalImpulse, pair.Contacts[0].TangentImpulse = 0, 0
			pair.Contacts[1].NormalImpulse, pair.Contacts[1].TangentImpulse = 0, 0

			if timestamp-pair.TimeUpdated > idleHorizon {
				delete(c.Table, pair.ID)
				continue
			}
		}
		kept = append(kept, pair)
	}
	c.List = kept
}

func newPair(col *collision.Collision, timestamp float64) *Pair {

	pair := &Pair{
		ID:             idFromBodies(col.ParentA, col.ParentB),
		ParentA:        col.ParentA,
		ParentB:        col.ParentB,
		Collision:      col,
		ContactCount:   col.SupportCount,
		IsActive:       true,
		IsSensor:       col.BodyA.IsSensor || col.BodyB.IsSensor,
		confirmed:      true,
		TimeCreated:    timestamp,
		TimeUpdated:    timestamp,
		InverseMass:    col.ParentA.InverseMass + col.ParentB.InverseMass,
		Friction:       math.Min(col.ParentA.Friction, col.ParentB.Friction),
		FrictionStatic: math.Max(col.ParentA.FrictionStatic, col.ParentB.FrictionStatic),
		Restitution:    math.Max(col.ParentA.Restitution, col.ParentB.Restitution),
		Slop:           math.Max(col.ParentA.Slop, col.ParentB.Slop),
	}
	for j := 0; j < col.SupportCount && j < len(pair.Contacts); j++ {
		pair.Contacts[j].Vertex = col.Supports[j]
	}
	return pair
}
