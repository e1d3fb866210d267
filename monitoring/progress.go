package monitoring

import (
	"sync"
	"time"

	"github.com/sarchlab/crossroad/sim"
)

// A ProgressBar is a tracker of the progress
type ProgressBar struct {
	sync.Mutex
	ID        string
	Name      string
	StartTime time.Time
	Total     uint64
	Finished  uint64
}

// ProgressBarSnapshot is the state of a ProgressBar at one moment.
type ProgressBarSnapshot struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time"`
	Total     uint64    `json:"total"`
	Finished  uint64    `json:"finished"`
}

// IncrementFinished add a certain amount to finished element.
func (b *ProgressBar) IncrementFinished(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.Finished += amount
	if b.Total < b.Finished {
		b.Total = b.Finished
	}
}

// SetRemaining updates the total so that the given number of elements is
// still to be finished. Events can schedule more events, so the total grows
// as the simulation runs.
func (b *ProgressBar) SetRemaining(remaining uint64) {
	b.Lock()
	defer b.Unlock()

	b.Total = b.Finished + remaining
}

// Snapshot returns a copy of the progress.
func (b *ProgressBar) Snapshot() ProgressBarSnapshot {
	b.Lock()
	defer b.Unlock()

	return ProgressBarSnapshot{
		ID:        b.ID,
		Name:      b.Name,
		StartTime: b.StartTime,
		Total:     b.Total,
		Finished:  b.Finished,
	}
}

type progressHook struct {
	bar    *ProgressBar
	engine sim.Engine
}

func (h *progressHook) Func(ctx sim.HookCtx) {
	if ctx.Pos != sim.HookPosAfterEvent {
		return
	}

	h.bar.IncrementFinished(1)
	h.bar.SetRemaining(uint64(h.engine.Remaining()))
}
