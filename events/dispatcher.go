// Copyright 2024 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package events implements the borrowed-callback event registry the
// engine uses to notify collaborators (editor, renderer, training
// harness) of simulation lifecycle points, without the engine knowing
// anything about its subscribers.
package events

// Name identifies one of the engine's fixed emission points.
type Name string

const (
	// BeforeUpdate fires once at the start of Engine.Update, before
	// gravity, integration or collision detection run.
	BeforeUpdate Name = "beforeUpdate"

	// AfterUpdate fires once at the end of Engine.Update, after forces
	// have been cleared for the next step.
	AfterUpdate Name = "afterUpdate"

	// CollisionStart fires once per step with the pairs that began
	// colliding this step, if that set is non-empty.
	CollisionStart Name = "collisionStart"

	// CollisionActive fires once per step with the pairs that are
	// still colliding this step.
	CollisionActive Name = "collisionActive"

	// CollisionEnd fires once per step with the pairs that stopped
	// colliding this step.
	CollisionEnd Name = "collisionEnd"
)

// Callback receives the event name and its associated payload. For the
// three collision events the payload is []*pairs.Pair; for before/after
// it is the engine's current timestamp in milliseconds.
type Callback func(name Name, payload interface{})

type subscription struct {
	id interface{}
	cb Callback
}

// Dispatcher is a minimal publish-subscribe hook embedded by the
// Engine. Subscribers of event X all run, in registration order,
// before subscribers of event Y begin; no other cross-event ordering
// is guaranteed.
type Dispatcher struct {
	subs map[Name][]subscription
}

// NewDispatcher creates and returns a pointer to a new Dispatcher.
func NewDispatcher() *Dispatcher {

	d := new(Dispatcher)
	d.Initialize()
	return d
}

// Initialize (re)initializes this dispatcher's subscription table.
func (d *Dispatcher) Initialize() {

	d.subs = make(map[Name][]subscription)
}

// Subscribe registers cb to run whenever name is emitted.
func (d *Dispatcher) Subscribe(name Name, cb Callback) {

	d.SubscribeID(name, nil, cb)
}

// SubscribeID registers cb under id, so it can later be removed with
// UnsubscribeID without needing to hold on to the closure itself.
func (d *Dispatcher) SubscribeID(name Name, id interface{}, cb Callback) {

	d.subs[name] = append(d.subs[name], subscription{id: id, cb: cb})
}

// UnsubscribeID removes every subscription registered for name under
// id. Returns the number of subscriptions removed.
func (d *Dispatcher) UnsubscribeID(name Name, id interface{}) int {

	subs, ok := d.subs[name]
	if !ok {
		return 0
	}

	found := 0
	pos := 0
	for pos < len(subs) {
		if subs[pos].id == id {
			copy(subs[pos:], subs[pos+1:])
			subs = subs[:len(subs)-1]
			found++
		} else {
			pos++
		}
	}
	d.subs[name] = subs
	return found
}

// ClearSubscriptions removes every subscription from every event.
func (d *Dispatcher) ClearSubscriptions() {

	d.subs = make(map[Name][]subscription)
}

// Emit calls every subscriber registered for name, in registration
// order, passing it payload.
func (d *Dispatcher) Emit(name Name, payload interface{}) {

	subs := d.subs[name]
	for i := range subs {
		subs[i].cb(name, payload)
	}
}
