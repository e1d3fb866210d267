// Package intersection models a single crossroads controlled by a traffic
// light.
//
// The light starts red. The first car that stops at the red light makes the
// light turn green after the crossing latency. Once green, the light stays
// green long enough for every car that waited to pass, one passage time per
// car, and then turns red again. Cars that arrive while the light is green
// pass without being counted.
package intersection

import (
	"fmt"
	"sync"

	"github.com/tiendc/go-deepcopy"

	"github.com/sarchlab/crossroad/sim"
)

// HookPosLightChange triggers after the light changes color. The hook item is
// the event that changed the light and the detail is the State after the
// change.
var HookPosLightChange = &sim.HookPos{Name: "LightChange"}

// HookPosCarQueued triggers after a car starts waiting at the red light. The
// hook item is the arrival event and the detail is the State after the car
// joined the line.
var HookPosCarQueued = &sim.HookPos{Name: "CarQueued"}

// Intersection is the event handler that owns the light state.
type Intersection struct {
	*sim.HookableBase

	name   string
	engine sim.EventScheduler
	idGen  sim.IDGenerator
	params Params

	lock  sync.RWMutex
	state State
}

// Name returns the name of the intersection.
func (i *Intersection) Name() string {
	return i.name
}

// Params returns the timing parameters of the light cycle.
func (i *Intersection) Params() Params {
	return i.params
}

// State returns a copy of the current state.
func (i *Intersection) State() State {
	i.lock.RLock()
	defer i.lock.RUnlock()

	return i.snapshot()
}

func (i *Intersection) snapshot() State {
	var s State
	if err := deepcopy.Copy(&s, &i.state); err != nil {
		panic(err)
	}

	return s
}

// NewCarArrival creates a car arrival event at time t that is handled by this
// intersection.
func (i *Intersection) NewCarArrival(t sim.VTimeInSec) *CarArrivalEvent {
	return NewCarArrivalEvent(i.idGen.Generate(), t, i)
}

// Handle applies the transition of the event to the state.
func (i *Intersection) Handle(evt sim.Event) error {
	switch e := evt.(type) {
	case *CarArrivalEvent:
		i.handleCarArrival(e)
	case *RedToGreenEvent:
		i.handleRedToGreen(e)
	case *GreenToRedEvent:
		i.handleGreenToRed(e)
	default:
		return fmt.Errorf("unknown event type: %T", evt)
	}

	return nil
}

func (i *Intersection) handleCarArrival(e *CarArrivalEvent) {
	i.lock.Lock()

	if i.state.IsGreen() {
		i.lock.Unlock()
		return
	}

	i.state.AddCar()
	if i.state.WaitingCars() == 1 {
		i.engine.Schedule(NewRedToGreenEvent(
			i.idGen.Generate(), e.Time()+i.params.CrossingLatency, i))
	}

	s := i.snapshot()
	i.lock.Unlock()

	i.InvokeHook(sim.HookCtx{
		Domain: i,
		Pos:    HookPosCarQueued,
		Item:   e,
		Detail: s,
	})
}

func (i *Intersection) handleRedToGreen(e *RedToGreenEvent) {
	i.lock.Lock()

	greenTime := sim.VTimeInSec(i.state.WaitingCars()) * i.params.PassageTime
	i.engine.Schedule(NewGreenToRedEvent(
		i.idGen.Generate(), e.Time()+greenTime, i))

	i.state.TurnGreen()
	i.state.PurgeCars()

	s := i.snapshot()
	i.lock.Unlock()

	i.InvokeHook(sim.HookCtx{
		Domain: i,
		Pos:    HookPosLightChange,
		Item:   e,
		Detail: s,
	})
}

func (i *Intersection) handleGreenToRed(e *GreenToRedEvent) {
	i.lock.Lock()
	i.state.TurnRed()
	s := i.snapshot()
	i.lock.Unlock()

	i.InvokeHook(sim.HookCtx{
		Domain: i,
		Pos:    HookPosLightChange,
		Item:   e,
		Detail: s,
	})
}
