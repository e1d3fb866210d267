package tracing

import (
	"github.com/sarchlab/crossroad/intersection"
	"github.com/sarchlab/crossroad/sim"
)

// A Record describes one processed event and the state it left behind.
type Record struct {
	Seq         int               `json:"seq"`
	EventID     string            `json:"event_id"`
	Kind        intersection.Kind `json:"kind"`
	Time        sim.VTimeInSec    `json:"time"`
	Green       bool              `json:"green"`
	WaitingCars int               `json:"waiting_cars"`
}

// String returns the event in the KIND(time) form, for example "R2G(40)".
func (r Record) String() string {
	return string(r.Kind) + "(" + r.Time.String() + ")"
}

// Light returns the color of the light after the event.
func (r Record) Light() intersection.Light {
	if r.Green {
		return intersection.Green
	}

	return intersection.Red
}
