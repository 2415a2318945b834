// Copyright 2024 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sleeping implements the motion-based sleep/wake policy: a
// body that stays below a biased motion threshold for long enough is
// put to sleep, excluded from integration and treated like a static
// body by the broadphase, until a collision with an awake body wakes
// it again.
package sleeping

import (
	"github.com/kinetic2d/rigid2d/body"
	"github.com/kinetic2d/rigid2d/pairs"
)

const (
	motionWakeThreshold  = 0.18
	motionSleepThreshold = 0.08
	minBias              = 0.9
	baseDelta            = 1000.0 / 60.0
)

// Update advances every body's motion EMA and sends it to sleep once
// its threshold-crossing streak reaches SleepThreshold steps, scaled
// by how large this step's delta is relative to baseDelta.
func Update(bodies []*body.Body, delta float64) {

	timeFactor := delta / baseDelta

	for _, b := range bodies {
		motion := b.Speed*b.Speed + b.AngularSpeed*b.AngularSpeed

		min, max := b.Motion, motion
		if motion < b.Motion {
			min, max = motion, b.Motion
		}
		b.Motion = minBias*min + (1-minBias)*max

		if b.SleepThreshold > 0 && b.Motion < motionSleepThreshold*timeFactor {
			b.SleepCounter++
			if float64(b.SleepCounter) >= float64(b.SleepThreshold)/timeFactor {
				SetSleeping(b, true)
			}
		} else if b.SleepCounter > 0 {
			b.SleepCounter--
		}
	}
}

// AfterCollisions wakes a sleeping body when it collides with an awake,
// non-static body whose motion exceeds motionWakeThreshold times the
// sleeping body's own motion. A static partner never wakes it.
// SetSleeping zeroes a sleeper's motion, so any partner with nonzero
// motion wakes it.
func AfterCollisions(starting []*pairs.Pair) {

	for _, pair := range starting {
		if !pair.IsActive {
			continue
		}
		a, b := pair.Collision.ParentA, pair.Collision.ParentB

		if (a.IsStatic || a.IsSleeping) && (b.IsStatic || b.IsSleeping) {
			continue
		}
		if !a.IsSleeping && !b.IsSleeping {
			continue
		}

		sleeping, awake := a, b
		if !(a.IsSleeping && !a.IsStatic) {
			sleeping, awake = b, a
		}

		if awake.IsStatic || awake.IsSleeping {
			continue
		}
		if awake.Motion > sleeping.Motion*motionWakeThreshold {
			SetSleeping(sleeping, false)
		}
	}
}

// SetSleeping puts body to sleep (pinning its Verlet history to the
// current pose and clearing its cached position impulse and motion
// state) or wakes it, resetting its sleep counter either way.
func SetSleeping(b *body.Body, isSleeping bool) {

	if isSleeping {
		b.IsSleeping = true
		b.SleepCounter = b.SleepThreshold

		b.PositionImpulse.X, b.PositionImpulse.Y = 0, 0
		b.PositionPrev = b.Position
		b.AnglePrev = b.Angle
		b.Speed = 0
		b.AngularSpeed = 0
		b.Motion = 0
	} else {
		b.IsSleeping = false
		b.SleepCounter = 0
	}
}
