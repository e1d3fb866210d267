package sim

import "strconv"

// VTimeInSec defines the time in the simulated space in the unit of second
type VTimeInSec float64

// String renders the time in its shortest decimal form, so that 10 prints as
// "10" and 52.5 prints as "52.5".
func (t VTimeInSec) String() string {
	return strconv.FormatFloat(float64(t), 'f', -1, 64)
}

// An Event is something going to happen in the future.
type Event interface {
	// Return the time that the event should happen
	Time() VTimeInSec

	// Returns the handler that can should handle the event
	Handler() Handler
}

// EventBase provides the basic fields and getters for other events
type EventBase struct {
	ID      string
	time    VTimeInSec
	handler Handler
}

// NewEventBase creates a new EventBase
func NewEventBase(id string, t VTimeInSec, handler Handler) *EventBase {
	e := new(EventBase)
	e.ID = id
	e.time = t
	e.handler = handler

	return e
}

// Time return the time that the event is going to happen
func (e EventBase) Time() VTimeInSec {
	return e.time
}

// Handler returns the handler to handle the event.
func (e EventBase) Handler() Handler {
	return e.handler
}

// A Handler defines a domain for the events.
//
// One event is always constraint to one Handler, which means the event can
// only be scheduled by one handler and can only directly modify that handler.
type Handler interface {
	Handle(e Event) error
}
