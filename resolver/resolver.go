// Copyright 2024 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resolver implements the iterative position and velocity
// solvers that turn a step's contact pairs into corrective impulses:
// a Box2D-style position projection pass followed by a sequential
// impulse velocity pass with Coulomb friction and warm starting.
package resolver

import (
	"math"

	"github.com/kinetic2d/rigid2d/body"
	"github.com/kinetic2d/rigid2d/geometry"
	"github.com/kinetic2d/rigid2d/pairs"
)

const (
	restingThresh            = 2.0
	frictionNormalMultiplier = 5.0
	positionDampen           = 0.9
	positionWarming          = 0.8
	baseDelta                = 1000.0 / 60.0
)

// restingThreshTangent is fixed, unlike restingThresh: tangent
// (friction) impulses are not time-scaled the way normal impulses are.
var restingThreshTangent = math.Sqrt(6)

func clamp(x, lo, hi float64) float64 {

	return math.Max(lo, math.Min(hi, x))
}

// PreSolvePosition counts, on each parent body, how many contacts from
// this step's active pairs bear on it, so SolvePosition can share its
// correction evenly across every contact a body participates in.
func PreSolvePosition(list []*pairs.Pair) {

	for _, pair := range list {
		if !pair.IsActive {
			continue
		}
		count := pair.ContactCount
		if count == 0 {
			count = 1
		}
		pair.Collision.ParentA.TotalContacts += count
		pair.Collision.ParentB.TotalContacts += count
	}
}

// SolvePosition runs one Box2D-style position-projection iteration:
// every pair's separation is computed from the current cached
// position impulses first, then every pair's share of the correction
// is applied — never interleaved within one iteration, so a pair
// solved late in the pass does not see an impulse already updated by
// a pair solved earlier in the same pass.
func SolvePosition(list []*pairs.Pair, delta, damping float64) {

	dampen := positionDampen * damping
	slopDampen := clamp(delta/baseDelta, 0, 1)

	for _, pair := range list {
		if !pair.IsActive || pair.IsSensor {
			continue
		}
		col := pair.Collision
		a, b := col.ParentA, col.ParentB
		normal := col.Normal

		pair.Separation = col.Depth + normal.X*(b.PositionImpulse.X-a.PositionImpulse.X) +
			normal.Y*(b.PositionImpulse.Y-a.PositionImpulse.Y)
	}

	for _, pair := range list {
		if !pair.IsActive || pair.IsSensor {
			continue
		}
		col := pair.Collision
		a, b := col.ParentA, col.ParentB
		normal := col.Normal

		impulse := pair.Separation - pair.Slop*slopDampen
		if a.IsStatic || b.IsStatic {
			impulse *= 2
		}

		if !a.IsStatic && !a.IsSleeping {
			contacts := a.TotalContacts
			share := dampen
			if contacts > 0 {
				share = dampen / float64(contacts)
			}
			a.PositionImpulse.X += normal.X * impulse * share
			a.PositionImpulse.Y += normal.Y * impulse * share
		}

		if !b.IsStatic && !b.IsSleeping {
			contacts := b.TotalContacts
			share := dampen
			if contacts > 0 {
				share = dampen / float64(contacts)
			}
			b.PositionImpulse.X -= normal.X * impulse * share
			b.PositionImpulse.Y -= normal.Y * impulse * share
		}
	}
}

// PostSolvePosition applies each body's accumulated position impulse
// as a geometric transform, resets its contact count for next step,
// and either clears or dampens (warming) the cached impulse depending
// on whether the body is already moving along it.
func PostSolvePosition(bodies []*body.Body) {

	for _, b := range bodies {
		impulse := b.PositionImpulse
		b.TotalContacts = 0

		if impulse.X == 0 && impulse.Y == 0 {
			continue
		}

		for _, part := range b.Parts {
			geometry.Translate(part.Vertices, impulse, 1)
			part.Position.X += impulse.X
			part.Position.Y += impulse.Y
			part.Bounds.UpdateFromPoints(pointsOf(part.Vertices), &b.Velocity)
		}

		b.PositionPrev.X += impulse.X
		b.PositionPrev.Y += impulse.Y

		if impulse.X*b.Velocity.X+impulse.Y*b.Velocity.Y < 0 {
			b.PositionImpulse.X, b.PositionImpulse.Y = 0, 0
		} else {
			b.PositionImpulse.X *= positionWarming
			b.PositionImpulse.Y *= positionWarming
		}
	}
}

// PreSolveVelocity warm-starts contacts: each contact's cached
// normal/tangent impulse from the previous step is re-applied to its
// bodies' Verlet history before this step's velocity solve begins.
func PreSolveVelocity(list []*pairs.Pair) {

	for _, pair := range list {
		if !pair.IsActive || pair.IsSensor {
			continue
		}
		col := pair.Collision
		a, b := col.ParentA, col.ParentB
		normal, tangent := col.Normal, col.Tangent

		for j := 0; j < pair.ContactCount && j < len(pair.Contacts); j++ {
			contact := &pair.Contacts[j]
			if contact.Vertex == nil || (contact.NormalImpulse == 0 && contact.TangentImpulse == 0) {
				continue
			}

			impulseX := normal.X*contact.NormalImpulse + tangent.X*contact.TangentImpulse
			impulseY := normal.Y*contact.NormalImpulse + tangent.Y*contact.TangentImpulse

			if !a.IsStatic && !a.IsSleeping {
				a.PositionPrev.X += impulseX * a.InverseMass
				a.PositionPrev.Y += impulseY * a.InverseMass
				a.AnglePrev += a.InverseInertia * ((contact.Vertex.X-a.Position.X)*impulseY - (contact.Vertex.Y-a.Position.Y)*impulseX)
			}
			if !b.IsStatic && !b.IsSleeping {
				b.PositionPrev.X -= impulseX * b.InverseMass
				b.PositionPrev.Y -= impulseY * b.InverseMass
				b.AnglePrev -= b.InverseInertia * ((contact.Vertex.X-b.Position.X)*impulseY - (contact.Vertex.Y-b.Position.Y)*impulseX)
			}
		}
	}
}

// SolveVelocity runs one sequential-impulse velocity iteration over
// every active pair's contacts: the tangent impulse is bounded by a
// friction limit of friction x frictionStatic x 5 x timeScale times a
// normal force of (separation + normal velocity) clamped to [0, 1],
// not by the normal impulse; the cap of 1 is a fixed literal and is
// not configurable. Erin Catto's accumulated-impulse
// clamp (GDC08) keeps a resting contact from injecting energy.
// Normal and tangent impulses use different resting thresholds:
// normal scales with delta so it stays consistent across frame rates,
// tangent does not, matching the reference engine's asymmetry.
func SolveVelocity(list []*pairs.Pair, delta float64) {

	timeScale := delta / baseDelta
	timeScaleCubed := timeScale * timeScale * timeScale
	restingThreshScaled := -restingThresh * timeScale
	frictionMultiplier := frictionNormalMultiplier * timeScale

	for _, pair := range list {
		if !pair.IsActive || pair.IsSensor || pair.Collision == nil {
			continue
		}
		col := pair.Collision
		a, b := col.ParentA, col.ParentB

		normal, tangent := col.Normal, col.Tangent
		inverseMassTotal := pair.InverseMass
		friction := pair.Friction * pair.FrictionStatic * frictionMultiplier

		contactCount := pair.ContactCount
		if contactCount == 0 {
			contactCount = 1
		}
		contactShare := 1.0 / float64(contactCount)

		aVelX := a.Position.X - a.PositionPrev.X
		aVelY := a.Position.Y - a.PositionPrev.Y
		aAngularVel := a.Angle - a.AnglePrev
		bVelX := b.Position.X - b.PositionPrev.X
		bVelY := b.Position.Y - b.PositionPrev.Y
		bAngularVel := b.Angle - b.AnglePrev

		for j := 0; j < pair.ContactCount && j < len(pair.Contacts); j++ {
			contact := &pair.Contacts[j]
			if contact.Vertex == nil {
				continue
			}

			offsetAX := contact.Vertex.X - a.Position.X
			offsetAY := contact.Vertex.Y - a.Position.Y
			offsetBX := contact.Vertex.X - b.Position.X
			offsetBY := contact.Vertex.Y - b.Position.Y

			velPointAX := aVelX - offsetAY*aAngularVel
			velPointAY := aVelY + offsetAX*aAngularVel
			velPointBX := bVelX - offsetBY*bAngularVel
			velPointBY := bVelY + offsetBX*bAngularVel

			relVelX := velPointAX - velPointBX
			relVelY := velPointAY - velPointBY

			normalVelocity := normal.X*relVelX + normal.Y*relVelY
			tangentVelocity := tangent.X*relVelX + tangent.Y*relVelY

			normalOverlap := pair.Separation + normalVelocity
			normalForce := math.Min(normalOverlap, 1)
			if normalOverlap < 0 {
				normalForce = 0
			}
			frictionLimit := normalForce * friction

			var tangentImpulse, maxFriction float64
			if tangentVelocity < -frictionLimit || tangentVelocity > frictionLimit {
				maxFriction = math.Abs(tangentVelocity)
				tangentImpulse = pair.Friction * sign(tangentVelocity) * timeScaleCubed
				tangentImpulse = clamp(tangentImpulse, -maxFriction, maxFriction)
			} else {
				tangentImpulse = tangentVelocity
				maxFriction = math.Inf(1)
			}

			oACrossN := offsetAX*normal.Y - offsetAY*normal.X
			oBCrossN := offsetBX*normal.Y - offsetBY*normal.X
			share := contactShare / (inverseMassTotal +
				a.InverseInertia*oACrossN*oACrossN + b.InverseInertia*oBCrossN*oBCrossN)

			normalImpulse := (1 + pair.Restitution) * normalVelocity * share
			tangentImpulse *= share

			if normalVelocity < restingThreshScaled {
				contact.NormalImpulse = 0
			} else {
				previous := contact.NormalImpulse
				contact.NormalImpulse = previous + normalImpulse
				if contact.NormalImpulse > 0 {
					contact.NormalImpulse = 0
				}
				normalImpulse = contact.NormalImpulse - previous
			}

			if tangentVelocity < -restingThreshTangent || tangentVelocity > restingThreshTangent {
				contact.TangentImpulse = 0
			} else {
				previous := contact.TangentImpulse
				contact.TangentImpulse = clamp(previous+tangentImpulse, -maxFriction, maxFriction)
				tangentImpulse = contact.TangentImpulse - previous
			}

			impulseX := normal.X*normalImpulse + tangent.X*tangentImpulse
			impulseY := normal.Y*normalImpulse + tangent.Y*tangentImpulse

			if !a.IsStatic && !a.IsSleeping {
				a.PositionPrev.X += impulseX * a.InverseMass
				a.PositionPrev.Y += impulseY * a.InverseMass
				a.AnglePrev += (offsetAX*impulseY - offsetAY*impulseX) * a.InverseInertia
			}
			if !b.IsStatic && !b.IsSleeping {
				b.PositionPrev.X -= impulseX * b.InverseMass
				b.PositionPrev.Y -= impulseY * b.InverseMass
				b.AnglePrev -= (offsetBX*impulseY - offsetBY*impulseX) * b.InverseInertia
			}
		}
	}
}

func sign(x float64) float64 {

	if x > 0 {
		return 1
	}
	return -1
}

func pointsOf(vertices []geometry.Vertex) []geometry.Vector {

	pts := make([]geometry.Vector, len(vertices))
	for i := range vertices {
		pts[i] = vertices[i].Vector
	}
	return pts
}
