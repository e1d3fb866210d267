package intersection

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/crossroad/sim"
)

type step struct {
	event  Event
	before State
	after  State
}

type stepRecorder struct {
	crossing *Intersection
	pending  State
	steps    []step
}

func (r *stepRecorder) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case sim.HookPosBeforeEvent:
		r.pending = r.crossing.State()
	case sim.HookPosAfterEvent:
		r.steps = append(r.steps, step{
			event:  ctx.Item.(Event),
			before: r.pending,
			after:  r.crossing.State(),
		})
	}
}

func (r *stepRecorder) trace() []string {
	out := make([]string, 0, len(r.steps))
	for _, s := range r.steps {
		out = append(out, s.event.String())
	}

	return out
}

func runCycle(
	newQueue func() sim.EventQueue,
	arrivals []sim.VTimeInSec,
) (*stepRecorder, map[string]sim.VTimeInSec) {
	engine := sim.NewSerialEngineWithQueue(newQueue())
	crossing := MakeBuilder().WithEngine(engine).Build("Crossing")

	recorder := &stepRecorder{crossing: crossing}
	engine.AcceptHook(recorder)

	scheduledBy := map[string]sim.VTimeInSec{}
	crossing.AcceptHook(&scheduleTracker{engine: engine, out: scheduledBy})

	for _, t := range arrivals {
		engine.Schedule(crossing.NewCarArrival(t))
	}

	Expect(engine.Run()).To(Succeed())
	Expect(engine.Remaining()).To(Equal(0))

	return recorder, scheduledBy
}

// scheduleTracker remembers, for every light change, the time at which the
// event was handled.
type scheduleTracker struct {
	engine sim.TimeTeller
	out    map[string]sim.VTimeInSec
}

func (t *scheduleTracker) Func(ctx sim.HookCtx) {
	if ctx.Pos != HookPosLightChange {
		return
	}

	evt := ctx.Item.(Event)
	t.out[evt.EventID()] = t.engine.CurrentTime()
}

func randomArrivals(seed int64, n int) []sim.VTimeInSec {
	r := rand.New(rand.NewSource(seed))
	times := make([]sim.VTimeInSec, 0, n)
	t := 0
	for i := 0; i < n; i++ {
		t += r.Intn(20)
		times = append(times, sim.VTimeInSec(t))
	}

	r.Shuffle(len(times), func(i, j int) { times[i], times[j] = times[j], times[i] })

	return times
}

var _ = Describe("Light cycle", func() {
	queues := map[string]func() sim.EventQueue{
		"heap":      func() sim.EventQueue { return sim.NewEventQueue() },
		"insertion": func() sim.EventQueue { return sim.NewInsertionQueue() },
	}

	for name, newQueue := range queues {
		name, newQueue := name, newQueue

		Describe("with the "+name+" queue", func() {
			It("should turn green 30 after a single car and red 15 later", func() {
				rec, _ := runCycle(newQueue, []sim.VTimeInSec{10})

				Expect(rec.trace()).To(Equal([]string{
					"CAR(10)", "R2G(40)", "G2R(55)",
				}))
				Expect(rec.steps[1].before.WaitingCars()).To(Equal(1))
				Expect(rec.steps[1].after.IsGreen()).To(BeTrue())
				Expect(rec.steps[2].after.IsGreen()).To(BeFalse())
			})

			It("should count every car that waits before the light turns green",
				func() {
					rec, _ := runCycle(newQueue, []sim.VTimeInSec{10, 25})

					Expect(rec.trace()).To(Equal([]string{
						"CAR(10)", "CAR(25)", "R2G(40)", "G2R(70)",
					}))
					Expect(rec.steps[2].before.WaitingCars()).To(Equal(2))
				})

			It("should reproduce the classic five-car run", func() {
				rec, _ := runCycle(newQueue, []sim.VTimeInSec{10, 25, 35, 60, 75})

				Expect(rec.trace()).To(Equal([]string{
					"CAR(10)", "CAR(25)", "CAR(35)", "R2G(40)", "CAR(60)",
					"CAR(75)", "G2R(85)",
				}))
				Expect(rec.steps[3].before.WaitingCars()).To(Equal(3))
			})

			It("should process same-time events in scheduling order", func() {
				rec, _ := runCycle(newQueue, []sim.VTimeInSec{10, 40, 40, 55})

				Expect(rec.trace()).To(Equal([]string{
					"CAR(10)", "CAR(40)", "CAR(40)", "R2G(40)",
					"CAR(55)", "G2R(85)",
				}))
			})

			It("should be reproducible", func() {
				arrivals := randomArrivals(7, 200)

				first, _ := runCycle(newQueue, arrivals)
				second, _ := runCycle(newQueue, arrivals)

				Expect(first.trace()).To(Equal(second.trace()))
			})

			It("should hold the cycle properties on random arrivals", func() {
				for seed := int64(1); seed <= 20; seed++ {
					arrivals := randomArrivals(seed, 150)
					rec, handledAt := runCycle(newQueue, arrivals)

					checkCycleProperties(rec, handledAt, len(arrivals))
				}
			})
		})
	}
})

func checkCycleProperties(
	rec *stepRecorder,
	handledAt map[string]sim.VTimeInSec,
	numArrivals int,
) {
	now := sim.VTimeInSec(-1)
	lastChange := Kind("")
	arrivals := 0
	r2gs := map[sim.VTimeInSec]int{}
	pairs := map[sim.VTimeInSec]int{}

	for _, s := range rec.steps {
		t := s.event.Time()
		Expect(t).To(BeNumerically(">=", now), "monotonic order")
		now = t

		switch s.event.Kind() {
		case KindCarArrival:
			arrivals++
			Expect(s.after.IsGreen()).To(Equal(s.before.IsGreen()))
			if s.before.IsGreen() {
				Expect(s.after.WaitingCars()).To(Equal(0))
			} else {
				Expect(s.after.WaitingCars()).
					To(Equal(s.before.WaitingCars() + 1))
			}

			if !s.before.IsGreen() && s.before.WaitingCars() == 0 {
				r2gs[t+DefaultParams.CrossingLatency]++
			}
		case KindRedToGreen:
			Expect(lastChange).ToNot(Equal(KindRedToGreen), "alternation")
			Expect(s.before.IsGreen()).To(BeFalse())
			Expect(s.after.IsGreen()).To(BeTrue())
			Expect(s.after.WaitingCars()).To(Equal(0))
			Expect(r2gs[t]).To(BeNumerically(">", 0), "first-car trigger")
			r2gs[t]--

			k := sim.VTimeInSec(s.before.WaitingCars())
			pairs[t+k*DefaultParams.PassageTime]++
			lastChange = KindRedToGreen
		case KindGreenToRed:
			Expect(lastChange).To(Equal(KindRedToGreen), "alternation")
			Expect(s.after.IsGreen()).To(BeFalse())
			Expect(pairs[t]).To(BeNumerically(">", 0), "backlog law")
			pairs[t]--
			lastChange = KindGreenToRed
		}

		if s.event.Kind() != KindCarArrival {
			Expect(handledAt[s.event.EventID()]).To(Equal(t))
		}
	}

	Expect(arrivals).To(Equal(numArrivals))
	for _, n := range r2gs {
		Expect(n).To(Equal(0))
	}
	for _, n := range pairs {
		Expect(n).To(Equal(0))
	}
}
