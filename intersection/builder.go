package intersection

import (
	"github.com/sarchlab/crossroad/sim"
)

// Builder can build intersections.
type Builder struct {
	engine sim.EventScheduler
	idGen  sim.IDGenerator
	params Params
}

// MakeBuilder returns a new Builder with the default parameters.
func MakeBuilder() Builder {
	return Builder{
		params: DefaultParams,
	}
}

// WithEngine sets the engine that the intersection schedules its events on.
func (b Builder) WithEngine(engine sim.EventScheduler) Builder {
	b.engine = engine
	return b
}

// WithIDGenerator sets the generator of event IDs. A sequential generator is
// used if not set.
func (b Builder) WithIDGenerator(g sim.IDGenerator) Builder {
	b.idGen = g
	return b
}

// WithParams sets both timing parameters.
func (b Builder) WithParams(p Params) Builder {
	b.params = p
	return b
}

// WithCrossingLatency sets the time between the first car stopping at the
// red light and the light turning green.
func (b Builder) WithCrossingLatency(t sim.VTimeInSec) Builder {
	b.params.CrossingLatency = t
	return b
}

// WithPassageTime sets the green time given to each waiting car.
func (b Builder) WithPassageTime(t sim.VTimeInSec) Builder {
	b.params.PassageTime = t
	return b
}

func (b Builder) parametersMustBeValid() {
	if b.engine == nil {
		panic("engine is not set")
	}

	if err := b.params.Validate(); err != nil {
		panic(err)
	}
}

// Build creates an intersection with a red light and no waiting car.
func (b Builder) Build(name string) *Intersection {
	b.parametersMustBeValid()

	i := &Intersection{
		HookableBase: sim.NewHookableBase(),
		name:         name,
		engine:       b.engine,
		idGen:        b.idGen,
		params:       b.params,
	}

	if i.idGen == nil {
		i.idGen = sim.NewSequentialIDGenerator()
	}

	return i
}
