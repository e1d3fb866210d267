package tracing

import (
	"fmt"

	"github.com/sarchlab/crossroad/intersection"
	"github.com/sarchlab/crossroad/sim"
)

// Summary aggregates a trace.
type Summary struct {
	Events      int
	Arrivals    int
	QueuedCars  int
	GreenPhases int
	MaxWaiting  int
	GreenTime   sim.VTimeInSec
	EndTime     sim.VTimeInSec
}

// Summarize computes the summary of records given in processing order.
func Summarize(records []Record) Summary {
	s := Summary{Events: len(records)}

	var greenSince sim.VTimeInSec
	for _, r := range records {
		s.EndTime = r.Time

		switch r.Kind {
		case intersection.KindCarArrival:
			s.Arrivals++
			if !r.Green {
				s.QueuedCars++
			}
		case intersection.KindRedToGreen:
			s.GreenPhases++
			greenSince = r.Time
		case intersection.KindGreenToRed:
			s.GreenTime += r.Time - greenSince
		}

		if r.WaitingCars > s.MaxWaiting {
			s.MaxWaiting = r.WaitingCars
		}
	}

	return s
}

func (s Summary) String() string {
	return fmt.Sprintf(
		"%d events, %d cars (%d waited), %d green phases, "+
			"max %d waiting, green for %s of %s",
		s.Events, s.Arrivals, s.QueuedCars, s.GreenPhases,
		s.MaxWaiting, s.GreenTime, s.EndTime)
}
