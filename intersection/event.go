package intersection

import (
	"fmt"

	"github.com/sarchlab/crossroad/sim"
)

// Kind names the transition an event triggers.
type Kind string

// The kinds of events an intersection handles.
const (
	KindCarArrival Kind = "CAR"
	KindRedToGreen Kind = "R2G"
	KindGreenToRed Kind = "G2R"
)

// Event is an event handled by an Intersection.
type Event interface {
	sim.Event
	fmt.Stringer

	// Kind tells which transition the event triggers.
	Kind() Kind

	// EventID returns the ID assigned when the event was created.
	EventID() string
}

type eventBase struct {
	*sim.EventBase
}

func (e eventBase) EventID() string {
	return e.ID
}

func format(k Kind, t sim.VTimeInSec) string {
	return string(k) + "(" + t.String() + ")"
}

// CarArrivalEvent is triggered when a car reaches the light.
type CarArrivalEvent struct {
	eventBase
}

// NewCarArrivalEvent creates a new CarArrivalEvent.
func NewCarArrivalEvent(
	id string,
	t sim.VTimeInSec,
	handler sim.Handler,
) *CarArrivalEvent {
	return &CarArrivalEvent{eventBase{sim.NewEventBase(id, t, handler)}}
}

// Kind returns KindCarArrival.
func (e *CarArrivalEvent) Kind() Kind { return KindCarArrival }

func (e *CarArrivalEvent) String() string { return format(e.Kind(), e.Time()) }

// RedToGreenEvent is triggered when the light turns from red to green.
type RedToGreenEvent struct {
	eventBase
}

// NewRedToGreenEvent creates a new RedToGreenEvent.
func NewRedToGreenEvent(
	id string,
	t sim.VTimeInSec,
	handler sim.Handler,
) *RedToGreenEvent {
	return &RedToGreenEvent{eventBase{sim.NewEventBase(id, t, handler)}}
}

// Kind returns KindRedToGreen.
func (e *RedToGreenEvent) Kind() Kind { return KindRedToGreen }

func (e *RedToGreenEvent) String() string { return format(e.Kind(), e.Time()) }

// GreenToRedEvent is triggered when the light turns from green to red.
type GreenToRedEvent struct {
	eventBase
}

// NewGreenToRedEvent creates a new GreenToRedEvent.
func NewGreenToRedEvent(
	id string,
	t sim.VTimeInSec,
	handler sim.Handler,
) *GreenToRedEvent {
	return &GreenToRedEvent{eventBase{sim.NewEventBase(id, t, handler)}}
}

// Kind returns KindGreenToRed.
func (e *GreenToRedEvent) Kind() Kind { return KindGreenToRed }

func (e *GreenToRedEvent) String() string { return format(e.Kind(), e.Time()) }

var (
	_ Event = (*CarArrivalEvent)(nil)
	_ Event = (*RedToGreenEvent)(nil)
	_ Event = (*GreenToRedEvent)(nil)
)
