// Copyright 2024 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package body implements the integratable rigid entity: geometry,
// mass properties, pose and its Verlet history, and the compound-body
// (parts) relationship. A Body is advanced in time by Integrate and is
// otherwise a passive data holder manipulated by the constraint,
// collision and resolver packages.
package body

import (
	"math"

	"github.com/kinetic2d/rigid2d/geometry"
	"github.com/kinetic2d/rigid2d/id"
)

// inertiaScale is an empirical fit that makes this Verlet-based rigid
// body scheme rotate like its continuous counterpart. Keep it fixed to
// stay behaviourally compatible with tuned scenes.
const inertiaScale = 4.0

// BaseDelta is the reference timestep (ms) that velocities are
// normalised to, so a body's reported velocity does not depend on the
// frame rate it happens to be simulated at.
const BaseDelta = 1000.0 / 60.0

// Filter controls which bodies may collide with which. Two bodies in
// the same non-zero group always collide (positive group) or never
// collide (negative group); otherwise the category/mask bitfields
// decide.
type Filter struct {
	Category uint32
	Mask     uint32
	Group    int
}

// DefaultFilter is the filter new bodies receive unless overridden:
// category 0x0001, mask all bits set, group 0 (bitmask rule applies).
func DefaultFilter() Filter {

	return Filter{Category: 0x0001, Mask: 0xFFFFFFFF, Group: 0}
}

// CanCollide reports whether two bodies carrying filters a and b are
// eligible to collide, ignoring sleep/static state.
func CanCollide(a, b Filter) bool {

	if a.Group == b.Group && a.Group != 0 {
		return a.Group > 0
	}
	return a.Category&b.Mask != 0 && b.Category&a.Mask != 0
}

// materialSnapshot preserves the fields set_static overwrites, so they
// can be restored when the body is un-frozen.
type materialSnapshot struct {
	restitution    float64
	friction       float64
	mass           float64
	inertia        float64
	density        float64
	inverseMass    float64
	inverseInertia float64
}

// impulse is a linear+angular accumulator, used both for position
// projection and for constraint warm-starting.
type impulse struct {
	Vector geometry.Vector
	Angle  float64
}

// CompositeOwner is the back-reference a body's containing composite
// satisfies, kept distinct from Parent (the compound-part relation) so
// grouping a body into a composite never aliases the part hierarchy.
type CompositeOwner interface {
	InvalidateCache()
}

// Body is a rigid, possibly compound, polygonal body.
type Body struct {
	ID    int
	Label string

	Vertices []geometry.Vertex
	Axes     []geometry.Vector
	Bounds   geometry.Bounds

	Position     geometry.Vector
	PositionPrev geometry.Vector
	Angle        float64
	AnglePrev    float64

	// Velocity and AngularVelocity are views derived from the Verlet
	// state by UpdateVelocities; they are not the integrator's source
	// of truth and must never be written to directly outside the
	// Set*/Integrate family of methods.
	Velocity        geometry.Vector
	AngularVelocity float64
	Speed           float64
	AngularSpeed    float64

	Force  geometry.Vector
	Torque float64

	Mass        float64
	InverseMass float64

	Inertia        float64
	InverseInertia float64

	Density float64
	Area    float64

	Friction       float64
	FrictionStatic float64
	Restitution    float64
	FrictionAir    float64
	Slop           float64

	IsStatic   bool
	IsSensor   bool
	IsSleeping bool

	Filter Filter

	// Parts is never empty; Parts[0] is always the parent (this body).
	Parts  []*Body
	Parent *Body

	// CompositeOwner is set by composite.Composite.Add; nil for a body
	// not (yet) grouped into any composite.
	CompositeOwner CompositeOwner

	PositionImpulse   geometry.Vector
	ConstraintImpulse impulse

	SleepCounter    int
	SleepThreshold  int
	Motion          float64

	CircleRadius    float64
	HasCircleRadius bool

	TimeScale     float64
	DeltaTime     float64
	TotalContacts int

	original *materialSnapshot
}

// Options configures New. Zero values fall back to sensible
// defaults for an ordinary dynamic polygon.
type Options struct {
	Position geometry.Vector
	Angle    float64
	Vertices []geometry.Vector // clockwise, around the origin

	Density     float64 // used unless Mass is set
	Mass        float64 // overrides the density-derived mass when non-zero

	Friction       float64
	FrictionStatic float64
	FrictionAir    float64
	Restitution    float64

	IsStatic bool
	IsSensor bool

	Filter Filter

	SleepThreshold int
	Slop           float64
	TimeScale      float64

	CircleRadius    float64
	HasCircleRadius bool

	// Chamfer rounds each corner of Vertices by the given radius before
	// construction; a shorter slice repeats its last radius for any
	// remaining corners. Nil/empty leaves every corner sharp.
	Chamfer []float64

	Label string
}

func withDefaults(o Options) Options {

	if o.Density == 0 {
		o.Density = 0.001
	}
	if o.FrictionStatic == 0 {
		o.FrictionStatic = 0.5
	}
	if o.Friction == 0 && o.FrictionStatic == 0.5 {
		o.Friction = 0.1
	}
	if o.FrictionAir == 0 {
		o.FrictionAir = 0.01
	}
	if o.Slop == 0 {
		o.Slop = 0.05
	}
	if o.TimeScale == 0 {
		o.TimeScale = 1
	}
	if o.SleepThreshold == 0 {
		o.SleepThreshold = 60
	}
	if o.Filter == (Filter{}) {
		o.Filter = DefaultFilter()
	}
	if len(o.Vertices) == 0 {
		o.Vertices = []geometry.Vector{{X: 0, Y: 0}, {X: 40, Y: 0}, {X: 40, Y: 40}, {X: 0, Y: 40}}
	}
	if o.Label == "" {
		o.Label = "Body"
	}
	return o
}

// New creates a single (non-compound) Body from Options. The order of
// initialisation mirrors the reference engine: bounds, pose history
// and vertices are seeded first; vertices and axes are then rotated to
// the initial angle; bounds are refreshed; finally explicit overrides
// for mass/inertia (set via SetMass/SetInertia after construction) take
// priority over the density-derived values set_vertices computed.
//
// New rejects a vertex ring of fewer than 3 points or ~0 area with
// geometry.ErrInvalidGeometry; callers must supply a fallback shape.
func New(ids *id.Source, o Options) (*Body, error) {

	o = withDefaults(o)

	if len(o.Chamfer) > 0 {
		o.Vertices = geometry.Chamfer(o.Vertices, o.Chamfer)
	}

	if err := geometry.Validate(o.Vertices); err != nil {
		return nil, err
	}

	b := &Body{
		ID:              ids.Next(),
		Label:           o.Label,
		Position:        o.Position,
		PositionPrev:    o.Position,
		Angle:           o.Angle,
		AnglePrev:       o.Angle,
		Density:         o.Density,
		Friction:        o.Friction,
		FrictionStatic:  o.FrictionStatic,
		FrictionAir:     o.FrictionAir,
		Restitution:     o.Restitution,
		IsStatic:        o.IsStatic,
		IsSensor:        o.IsSensor,
		Filter:          o.Filter,
		SleepThreshold:  o.SleepThreshold,
		Slop:            o.Slop,
		TimeScale:       o.TimeScale,
		DeltaTime:       BaseDelta,
		CircleRadius:    o.CircleRadius,
		HasCircleRadius: o.HasCircleRadius,
	}
	b.Parts = []*Body{b}
	b.Parent = b

	b.Vertices = geometry.NewVertices(o.Vertices, b.ID)
	b.SetVertices(b.Vertices)

	geometry.Rotate(b.Vertices, b.Angle, b.Position)
	geometry.RotateAxes(b.Axes, b.Angle)
	b.refreshBounds()

	if o.Mass != 0 {
		b.SetMass(o.Mass)
	}

	if o.IsStatic {
		b.SetStatic(true)
	}

	return b, nil
}

func pointsOf(vertices []geometry.Vertex) []geometry.Vector {

	pts := make([]geometry.Vector, len(vertices))
	for i := range vertices {
		pts[i] = vertices[i].Vector
	}
	return pts
}

func (b *Body) refreshBounds() {

	b.Bounds.UpdateFromPoints(pointsOf(b.Vertices), &b.Velocity)
}

// SetVertices replaces the body's vertices and re-derives axes, area,
// mass (via density*area) and inertia. The new vertex ring is
// re-centred to its own centroid before being translated back to the
// body's current position, so Position always equals the centroid.
func (b *Body) SetVertices(vertices []geometry.Vertex) {

	if len(vertices) > 0 && vertices[0].BodyIndex == b.ID {
		b.Vertices = vertices
	} else {
		pts := make([]geometry.Vector, len(vertices))
		for i := range vertices {
			pts[i] = vertices[i].Vector
		}
		b.Vertices = geometry.NewVertices(pts, b.ID)
	}

	b.Axes = geometry.AxesFromVertices(b.Vertices)
	b.Area = geometry.Area(b.Vertices, false)
	b.setMassFromDensity(b.Density * b.Area)

	centre := geometry.Centroid(b.Vertices)
	geometry.Translate(b.Vertices, centre, -1)

	b.SetInertia(inertiaScale * geometry.Inertia(b.Vertices, b.Mass))

	geometry.Translate(b.Vertices, b.Position, 1)
	b.refreshBounds()
}

// setMassFromDensity is the mass-setting half of set_mass, used by
// SetVertices/SetDensity before Area is finalised for this call.
func (b *Body) setMassFromDensity(mass float64) {

	b.SetMass(mass)
}

// SetMass sets the body's mass, preserving the inertia/(mass/6) ratio
// ("moment") and rederiving inertia and density from it.
func (b *Body) SetMass(mass float64) {

	moment := 0.0
	if b.Mass != 0 {
		moment = b.Inertia / (b.Mass / 6)
	}
	b.Inertia = moment * (mass / 6)
	b.InverseInertia = invOrZero(b.Inertia)

	b.Mass = mass
	b.InverseMass = invOrZero(b.Mass)
	if b.Area != 0 {
		b.Density = b.Mass / b.Area
	}
}

// SetDensity sets the body's density; mass and inertia are rederived.
func (b *Body) SetDensity(density float64) {

	b.SetMass(density * b.Area)
	b.Density = density
}

// SetInertia sets the body's moment of inertia directly.
func (b *Body) SetInertia(inertia float64) {

	b.Inertia = inertia
	b.InverseInertia = invOrZero(b.Inertia)
}

func invOrZero(x float64) float64 {

	if x == 0 || math.IsInf(x, 0) {
		return 0
	}
	return 1 / x
}

// SetStatic freezes or un-freezes the body. Freezing snapshots the
// material fields into original so UnFreeze (SetStatic(false)) can
// restore them exactly; it also zeroes velocity/motion and pins the
// Verlet history to the current pose so the freeze itself is not
// read as motion.
func (b *Body) SetStatic(static bool) {

	for _, part := range b.Parts {
		if static {
			if !part.IsStatic {
				part.original = &materialSnapshot{
					restitution:    part.Restitution,
					friction:       part.Friction,
					mass:           part.Mass,
					inertia:        part.Inertia,
					density:        part.Density,
					inverseMass:    part.InverseMass,
					inverseInertia: part.InverseInertia,
				}
			}
			part.Restitution = 0
			part.Friction = 1
			part.Mass = math.Inf(1)
			part.Inertia = math.Inf(1)
			part.Density = math.Inf(1)
			part.InverseMass = 0
			part.InverseInertia = 0

			part.PositionPrev = part.Position
			part.AnglePrev = part.Angle
			part.Velocity = geometry.Vector{}
			part.AngularVelocity = 0
			part.Speed = 0
			part.AngularSpeed = 0
			part.Motion = 0
		} else if part.original != nil {
			part.Restitution = part.original.restitution
			part.Friction = part.original.friction
			part.Mass = part.original.mass
			part.Inertia = part.original.inertia
			part.Density = part.original.density
			part.InverseMass = part.original.inverseMass
			part.InverseInertia = part.original.inverseInertia
			part.original = nil
		}
		part.IsStatic = static
	}
}

// SetPosition moves every part by the delta to the new position. When
// updateVelocity is false (the default Matter.js-style move), the
// previous position shifts by the same delta so Verlet integration
// does not read the move as motion; when true, velocity is set to the
// delta directly.
func (b *Body) SetPosition(position geometry.Vector, updateVelocity bool) {

	delta := geometry.Vector{X: position.X - b.Position.X, Y: position.Y - b.Position.Y}

	if updateVelocity {
		b.PositionPrev = b.Position
		b.Velocity = delta
		b.Speed = delta.Length()
	} else {
		b.PositionPrev.Add(&delta)
	}

	for _, part := range b.Parts {
		part.Position.Add(&delta)
		geometry.Translate(part.Vertices, delta, 1)
		part.Bounds.UpdateFromPoints(pointsOf(part.Vertices), &b.Velocity)
	}
}

// SetAngle rotates every part by the delta to the new angle, about
// the parent's current position. Non-parent parts additionally orbit
// that position.
func (b *Body) SetAngle(angle float64, updateVelocity bool) {

	delta := angle - b.Angle

	if updateVelocity {
		b.AnglePrev = b.Angle
		b.AngularVelocity = delta
		b.AngularSpeed = math.Abs(delta)
	} else {
		b.AnglePrev += delta
	}

	for i, part := range b.Parts {
		part.Angle += delta
		geometry.Rotate(part.Vertices, delta, b.Position)
		geometry.RotateAxes(part.Axes, delta)
		part.Bounds.UpdateFromPoints(pointsOf(part.Vertices), &b.Velocity)
		if i > 0 {
			part.Position.RotateAbout(delta, &b.Position)
		}
	}
}

// SetVelocity sets the body's linear velocity for the next step, via
// the Verlet-consistent position_prev adjustment, rescaled from the
// body's own delta_time to BaseDelta so published velocity is
// frame-rate independent.
func (b *Body) SetVelocity(velocity geometry.Vector) {

	timeScale := b.effectiveDeltaTime() / BaseDelta
	b.PositionPrev.X = b.Position.X - velocity.X*timeScale
	b.PositionPrev.Y = b.Position.Y - velocity.Y*timeScale
	b.Velocity.X = (b.Position.X - b.PositionPrev.X) / timeScale
	b.Velocity.Y = (b.Position.Y - b.PositionPrev.Y) / timeScale
	b.Speed = b.Velocity.Length()
}

// GetVelocity returns the body's current linear velocity normalised
// to BaseDelta, independent of the body's own delta_time.
func (b *Body) GetVelocity() geometry.Vector {

	timeScale := BaseDelta / b.effectiveDeltaTime()
	return geometry.Vector{
		X: (b.Position.X - b.PositionPrev.X) * timeScale,
		Y: (b.Position.Y - b.PositionPrev.Y) * timeScale,
	}
}

// SetAngularVelocity sets the body's angular velocity via the
// equivalent angle_prev adjustment.
func (b *Body) SetAngularVelocity(velocity float64) {

	timeScale := b.effectiveDeltaTime() / BaseDelta
	b.AnglePrev = b.Angle - velocity*timeScale
	b.AngularVelocity = (b.Angle - b.AnglePrev) / timeScale
	b.AngularSpeed = math.Abs(b.AngularVelocity)
}

// GetAngularVelocity returns the body's current angular velocity
// normalised to BaseDelta.
func (b *Body) GetAngularVelocity() float64 {

	return (b.Angle - b.AnglePrev) * BaseDelta / b.effectiveDeltaTime()
}

func (b *Body) effectiveDeltaTime() float64 {

	if b.DeltaTime == 0 {
		return BaseDelta
	}
	return b.DeltaTime
}

// Translate moves the body by translation relative to its current
// position.
func (b *Body) Translate(translation geometry.Vector, updateVelocity bool) {

	target := geometry.Vector{X: b.Position.X + translation.X, Y: b.Position.Y + translation.Y}
	b.SetPosition(target, updateVelocity)
}

// Rotate rotates the body by rotation radians, either about its own
// position (point == nil) or about an external point.
func (b *Body) Rotate(rotation float64, point *geometry.Vector, updateVelocity bool) {

	if point == nil {
		b.SetAngle(b.Angle+rotation, updateVelocity)
		return
	}

	c := math.Cos(rotation)
	s := math.Sin(rotation)
	dx := b.Position.X - point.X
	dy := b.Position.Y - point.Y

	b.SetPosition(geometry.Vector{
		X: point.X + (dx*c - dy*s),
		Y: point.Y + (dx*s + dy*c),
	}, updateVelocity)
	b.SetAngle(b.Angle+rotation, updateVelocity)
}

// ApplyForce adds force acting at the given world point to the body's
// force/torque accumulators, where r = point - position.
func (b *Body) ApplyForce(point, force geometry.Vector) {

	offset := geometry.Vector{X: point.X - b.Position.X, Y: point.Y - b.Position.Y}
	b.Force.X += force.X
	b.Force.Y += force.Y
	b.Torque += offset.X*force.Y - offset.Y*force.X
}

// ClearForces zeroes the force and torque accumulators; called once
// per step after the resolver has consumed them.
func (b *Body) ClearForces() {

	b.Force = geometry.Vector{}
	b.Torque = 0
}

// Integrate advances the body one step of deltaTime (ms) using Verlet
// integration with time correction, as described in the engine's
// design notes: position and position_prev are canonical, velocity is
// a derived view that every writer must keep consistent.
func (b *Body) Integrate(deltaTime float64) {

	dt := deltaTime * b.TimeScale
	dtSq := dt * dt

	previousDelta := b.effectiveDeltaTime()
	timeCorrection := dt / previousDelta

	frictionAir := 1 - b.FrictionAir*(dt/BaseDelta)

	velocityPrevX := (b.Position.X - b.PositionPrev.X) * timeCorrection
	velocityPrevY := (b.Position.Y - b.PositionPrev.Y) * timeCorrection

	b.Velocity.X = velocityPrevX*frictionAir + (b.Force.X/b.Mass)*dtSq
	b.Velocity.Y = velocityPrevY*frictionAir + (b.Force.Y/b.Mass)*dtSq

	b.PositionPrev = b.Position
	b.Position.X += b.Velocity.X
	b.Position.Y += b.Velocity.Y
	b.DeltaTime = dt

	b.AngularVelocity = (b.Angle-b.AnglePrev)*frictionAir*timeCorrection + (b.Torque/b.Inertia)*dtSq
	b.AnglePrev = b.Angle
	b.Angle += b.AngularVelocity

	for i, part := range b.Parts {
		geometry.Translate(part.Vertices, b.Velocity, 1)

		if i > 0 {
			part.Position.X += b.Velocity.X
			part.Position.Y += b.Velocity.Y
		}

		if b.AngularVelocity != 0 {
			geometry.Rotate(part.Vertices, b.AngularVelocity, b.Position)
			geometry.RotateAxes(part.Axes, b.AngularVelocity)
			if i > 0 {
				part.Position.RotateAbout(b.AngularVelocity, &b.Position)
			}
		}

		part.Bounds.UpdateFromPoints(pointsOf(part.Vertices), &b.Velocity)
	}
}

// UpdateVelocities recomputes Velocity/Speed/AngularVelocity/
// AngularSpeed from the Verlet state, normalised to BaseDelta. It is
// used only for reporting and for sleeping decisions; it never feeds
// back into the next Integrate call.
func (b *Body) UpdateVelocities() {

	timeScale := BaseDelta / b.effectiveDeltaTime()

	b.Velocity.X = (b.Position.X - b.PositionPrev.X) * timeScale
	b.Velocity.Y = (b.Position.Y - b.PositionPrev.Y) * timeScale
	b.Speed = b.Velocity.Length()

	b.AngularVelocity = (b.Angle - b.AnglePrev) * timeScale
	b.AngularSpeed = math.Abs(b.AngularVelocity)
}

// Scale rescales every part's vertices around pivot (the body's own
// position when pivot is nil), recomputing axes/area/mass/inertia for
// each part and summing them for the compound parent. Non-uniform
// scaling invalidates any circle-radius tag; uniform scaling carries
// it through.
func (b *Body) Scale(scaleX, scaleY float64, pivot *geometry.Vector) {

	point := b.Position
	if pivot != nil {
		point = *pivot
	}

	var totalArea, totalInertia float64

	for i, part := range b.Parts {
		geometry.Scale(part.Vertices, scaleX, scaleY, point)

		part.Axes = geometry.AxesFromVertices(part.Vertices)
		part.Area = geometry.Area(part.Vertices, false)
		part.SetMass(b.Density * part.Area)

		origin := geometry.Vector{X: -part.Position.X, Y: -part.Position.Y}
		geometry.Translate(part.Vertices, origin, 1)
		part.SetInertia(inertiaScale * geometry.Inertia(part.Vertices, part.Mass))
		geometry.Translate(part.Vertices, part.Position, 1)

		if i > 0 {
			totalArea += part.Area
			totalInertia += part.Inertia
		}

		part.Position.X = point.X + (part.Position.X-point.X)*scaleX
		part.Position.Y = point.Y + (part.Position.Y-point.Y)*scaleY

		part.Bounds.UpdateFromPoints(pointsOf(part.Vertices), &b.Velocity)
	}

	if len(b.Parts) > 1 {
		b.Area = totalArea
		if !b.IsStatic {
			b.SetMass(b.Density * totalArea)
			b.SetInertia(totalInertia)
		}
	}

	if b.HasCircleRadius {
		if scaleX == scaleY {
			b.CircleRadius *= scaleX
		} else {
			b.HasCircleRadius = false
			b.CircleRadius = 0
		}
	}
}

// partProperties sums mass/area/inertia/centre over the compound
// parts (parts[1:] when compound, or the body itself when not).
type partProperties struct {
	mass    float64
	area    float64
	inertia float64
	centre  geometry.Vector
}

func (b *Body) totalProperties() partProperties {

	props := partProperties{}
	start := 0
	if len(b.Parts) > 1 {
		start = 1
	}
	for i := start; i < len(b.Parts); i++ {
		part := b.Parts[i]
		mass := part.Mass
		if math.IsInf(mass, 1) {
			mass = 1
		}
		props.mass += mass
		props.area += part.Area
		props.inertia += part.Inertia
		props.centre.X += part.Position.X * mass
		props.centre.Y += part.Position.Y * mass
	}
	if props.mass != 0 {
		props.centre.X /= props.mass
		props.centre.Y /= props.mass
	}
	return props
}

// SetParts sets the compound parts of this body. parts[0] is always
// forced to be this body; autoHull (the common case) recomputes the
// parent's vertices from the convex hull of all parts, then sums mass,
// inertia and centroid across the compound.
func (b *Body) SetParts(parts []*Body, autoHull bool) {

	b.Parts = []*Body{b}
	b.Parent = b

	for _, part := range parts {
		if part == b {
			continue
		}
		part.Parent = b
		b.Parts = append(b.Parts, part)
	}

	if len(b.Parts) == 1 {
		return
	}

	if autoHull {
		var all []geometry.Vector
		for _, part := range parts {
			all = append(all, pointsOf(part.Vertices)...)
		}
		hullVerts := geometry.NewVertices(all, b.ID)
		geometry.ClockwiseSort(hullVerts)
		hullPts := geometry.Hull(pointsOf(hullVerts))
		hull := geometry.NewVertices(hullPts, b.ID)
		b.SetVertices(hull)
	}

	total := b.totalProperties()

	b.Area = total.area
	b.SetMass(total.mass)
	b.SetInertia(total.inertia)
	b.SetPosition(total.centre, false)
}
