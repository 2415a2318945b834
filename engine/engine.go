// Copyright 2024 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package engine orchestrates one simulation step: gravity,
// integration, constraint solving, collision detection, and the
// position/velocity resolver passes, in the fixed order the rest of
// this module's packages were designed to run in.
package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/kinetic2d/rigid2d/body"
	"github.com/kinetic2d/rigid2d/collision"
	"github.com/kinetic2d/rigid2d/composite"
	"github.com/kinetic2d/rigid2d/config"
	"github.com/kinetic2d/rigid2d/constraint"
	"github.com/kinetic2d/rigid2d/events"
	"github.com/kinetic2d/rigid2d/id"
	"github.com/kinetic2d/rigid2d/internal/enginelog"
	"github.com/kinetic2d/rigid2d/pairs"
	"github.com/kinetic2d/rigid2d/resolver"
	"github.com/kinetic2d/rigid2d/sleeping"
)

const baseDelta = 1000.0 / 60.0

// Timing tracks the engine's simulated clock across steps.
type Timing struct {
	Timestamp   float64
	TimeScale   float64
	LastDelta   float64
	LastElapsed float64
}

// Options configures New. Zero-valued iteration counts fall back to
// config.Default()'s 6/4/2 split.
type Options struct {
	PositionIterations   int
	VelocityIterations   int
	ConstraintIterations int
	EnableSleeping       bool
	Gravity              config.Gravity

	World *composite.Composite
}

// FromConfig builds engine Options from a loaded config.EngineConfig.
func FromConfig(cfg config.EngineConfig) Options {

	return Options{
		PositionIterations:   cfg.PositionIterations,
		VelocityIterations:   cfg.VelocityIterations,
		ConstraintIterations: cfg.ConstraintIterations,
		EnableSleeping:       cfg.EnableSleeping,
		Gravity:              cfg.Gravity,
	}
}

// Engine advances a World of bodies, constraints and composites one
// step at a time. RunID is stamped once at construction and carried
// into every log line this Engine emits, so log output from a single
// run can be grepped out of a shared log stream.
type Engine struct {
	World *composite.Composite
	Pairs *pairs.Cache

	PositionIterations   int
	VelocityIterations   int
	ConstraintIterations int
	EnableSleeping       bool
	Gravity              config.Gravity

	Timing Timing
	Events *events.Dispatcher
	RunID  uuid.UUID

	ids      *id.Source
	detector *collision.Detector
	log      *enginelog.Logger
}

// New creates an Engine. ids is the id.Source every body, constraint
// and composite constructed for this engine's world must share.
func New(ids *id.Source, o Options) *Engine {

	def := config.Default()
	if o.PositionIterations == 0 {
		o.PositionIterations = def.PositionIterations
	}
	if o.VelocityIterations == 0 {
		o.VelocityIterations = def.VelocityIterations
	}
	if o.ConstraintIterations == 0 {
		o.ConstraintIterations = def.ConstraintIterations
	}
	if o.Gravity == (config.Gravity{}) {
		o.Gravity = def.Gravity
	}
	world := o.World
	if world == nil {
		world = composite.New(ids, "World")
	}

	return &Engine{
		World:                world,
		Pairs:                pairs.NewCache(),
		PositionIterations:   o.PositionIterations,
		VelocityIterations:   o.VelocityIterations,
		ConstraintIterations: o.ConstraintIterations,
		EnableSleeping:       o.EnableSleeping,
		Gravity:              o.Gravity,
		Timing:               Timing{TimeScale: 1},
		Events:               events.NewDispatcher(),
		RunID:                uuid.New(),
		ids:                  ids,
		detector:             collision.NewDetector(),
		log:                  enginelog.New("engine", enginelog.INFO),
	}
}

// AddLogWriter attaches w to this engine's logger.
func (e *Engine) AddLogWriter(w enginelog.Writer) {

	e.log.AddWriter(w)
}

// Update moves the simulation forward by delta milliseconds, running
// gravity, Verlet integration, constraint solving, collision
// detection and the position/velocity resolver passes in sequence.
// A non-positive delta falls back to baseDelta (60Hz).
func (e *Engine) Update(delta float64) {

	if delta <= 0 {
		delta = baseDelta
	}
	start := time.Now()

	e.Timing.Timestamp += delta * e.Timing.TimeScale
	e.Timing.LastDelta = delta * e.Timing.TimeScale

	e.Events.Emit(events.BeforeUpdate, e.Timing.Timestamp)

	bodies := e.World.AllBodies()
	constraints := e.World.AllConstraints()

	e.detector.SetBodies(bodies)

	applyGravity(bodies, e.Gravity)

	for _, b := range bodies {
		if b.IsStatic || b.IsSleeping {
			continue
		}
		b.Integrate(delta)
	}

	constraint.PreSolveAll(bodies)
	for i := 0; i < e.ConstraintIterations; i++ {
		constraint.SolveAll(constraints, delta)
	}
	constraint.PostSolveAll(bodies)

	collisions := e.detector.FindCollisions(e.Pairs.Lookup)
	e.Pairs.Update(collisions, e.Timing.Timestamp)

	if e.EnableSleeping {
		sleeping.AfterCollisions(e.Pairs.CollisionStart)
	}

	if len(e.Pairs.CollisionStart) > 0 {
		e.Events.Emit(events.CollisionStart, e.Pairs.CollisionStart)
	}

	resolver.PreSolvePosition(e.Pairs.List)
	for i := 0; i < e.PositionIterations; i++ {
		resolver.SolvePosition(e.Pairs.List, delta, 1)
	}
	resolver.PostSolvePosition(bodies)

	resolver.PreSolveVelocity(e.Pairs.List)
	for i := 0; i < e.VelocityIterations; i++ {
		resolver.SolveVelocity(e.Pairs.List, delta)
	}

	if e.EnableSleeping {
		sleeping.Update(bodies, delta)
	}

	if len(e.Pairs.CollisionActive) > 0 {
		e.Events.Emit(events.CollisionActive, e.Pairs.CollisionActive)
	}
	if len(e.Pairs.CollisionEnd) > 0 {
		e.Events.Emit(events.CollisionEnd, e.Pairs.CollisionEnd)
	}

	for _, b := range bodies {
		b.UpdateVelocities()
	}
	clearForces(bodies)

	e.Events.Emit(events.AfterUpdate, e.Timing.Timestamp)

	e.Timing.LastElapsed = float64(time.Since(start).Microseconds()) / 1000.0
	if e.Timing.LastElapsed > delta*2 {
		e.log.Warn("run=%s step took %.2fms, more than double the requested %.2fms delta", e.RunID, e.Timing.LastElapsed, delta)
	}
}

// Merge adds every body from other's world into this engine's world,
// keeping this engine's own configuration.
func (e *Engine) Merge(other *Engine) {

	e.World.Add(other.World.AllBodies())
}

// Clear empties this engine's pair cache and detector body list,
// leaving World untouched.
func (e *Engine) Clear() {

	e.Pairs = pairs.NewCache()
	e.detector.Clear()
}

func applyGravity(bodies []*body.Body, gravity config.Gravity) {

	gx := gravity.X * gravity.Scale
	gy := gravity.Y * gravity.Scale
	if gx == 0 && gy == 0 {
		return
	}

	for _, b := range bodies {
		if b.IsStatic || b.IsSleeping {
			continue
		}
		b.Force.X += b.Mass * gx
		b.Force.Y += b.Mass * gy
	}
}

func clearForces(bodies []*body.Body) {

	for _, b := range bodies {
		b.ClearForces()
	}
}
