package intersection

import (
	"fmt"
	"math"

	"github.com/sarchlab/crossroad/sim"
)

// Params are the fixed timing parameters of the light cycle.
type Params struct {
	// CrossingLatency (Tc) is the time between the first car stopping at the
	// red light and the light turning green.
	CrossingLatency sim.VTimeInSec

	// PassageTime (Tp) is the green time given to each waiting car.
	PassageTime sim.VTimeInSec
}

// DefaultParams are the parameters used when none are given.
var DefaultParams = Params{
	CrossingLatency: 30,
	PassageTime:     15,
}

// Validate returns an error if any parameter is negative or not finite.
func (p Params) Validate() error {
	if err := checkDuration("crossing latency", p.CrossingLatency); err != nil {
		return err
	}

	return checkDuration("passage time", p.PassageTime)
}

func checkDuration(name string, v sim.VTimeInSec) error {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return fmt.Errorf("%s must be a finite non-negative number, got %v",
			name, f)
	}

	return nil
}
