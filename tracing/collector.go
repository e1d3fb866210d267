package tracing

import (
	"sync"

	"github.com/sarchlab/crossroad/intersection"
	"github.com/sarchlab/crossroad/sim"
)

// StateSource provides the intersection state at the current moment.
type StateSource interface {
	State() intersection.State
}

// Collector is a hook that turns every handled event into a Record. Attach
// it to the engine. The records are kept in processing order and forwarded
// to the writers as they are produced.
type Collector struct {
	source  StateSource
	writers []Writer

	lock    sync.RWMutex
	records []Record
}

// NewCollector creates a Collector that reads the state from source.
func NewCollector(source StateSource) *Collector {
	return &Collector{source: source}
}

// AddWriter registers a writer that receives every new record.
func (c *Collector) AddWriter(w Writer) {
	c.writers = append(c.writers, w)
}

// Func records the event after it has been handled.
func (c *Collector) Func(ctx sim.HookCtx) {
	if ctx.Pos != sim.HookPosAfterEvent {
		return
	}

	evt, ok := ctx.Item.(intersection.Event)
	if !ok {
		return
	}

	state := c.source.State()

	c.lock.Lock()
	r := Record{
		Seq:         len(c.records),
		EventID:     evt.EventID(),
		Kind:        evt.Kind(),
		Time:        evt.Time(),
		Green:       state.IsGreen(),
		WaitingCars: state.WaitingCars(),
	}
	c.records = append(c.records, r)
	c.lock.Unlock()

	for _, w := range c.writers {
		w.Write(r)
	}
}

// Records returns a copy of the records collected so far.
func (c *Collector) Records() []Record {
	c.lock.RLock()
	defer c.lock.RUnlock()

	out := make([]Record, len(c.records))
	copy(out, c.records)

	return out
}

// Len returns the number of records collected so far.
func (c *Collector) Len() int {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return len(c.records)
}

// Flush flushes all the writers.
func (c *Collector) Flush() {
	for _, w := range c.writers {
		w.Flush()
	}
}

// Close closes all the writers.
func (c *Collector) Close() {
	for _, w := range c.writers {
		w.Close()
	}
}
