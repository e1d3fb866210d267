// Package arrival produces the car arrival times that feed a simulation.
package arrival

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strconv"
	"strings"

	"github.com/sarchlab/crossroad/sim"
)

// Schedule is a list of car arrival times.
type Schedule []sim.VTimeInSec

// Fixed returns a schedule made of the given times.
func Fixed(times ...sim.VTimeInSec) Schedule {
	s := make(Schedule, len(times))
	copy(s, times)

	return s
}

// Append returns a schedule with the arrivals of other after the arrivals of
// s.
func (s Schedule) Append(other Schedule) Schedule {
	out := make(Schedule, 0, len(s)+len(other))
	out = append(out, s...)

	return append(out, other...)
}

// Sorted returns a copy of the schedule in ascending time order. Equal times
// keep their relative order.
func (s Schedule) Sorted() Schedule {
	out := Fixed(s...)
	sort.SliceStable(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// Validate returns an error if any arrival time is negative or not finite.
func (s Schedule) Validate() error {
	for i, t := range s {
		f := float64(t)
		if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
			return fmt.Errorf("arrival %d: time must be a finite "+
				"non-negative number, got %v", i, f)
		}
	}

	return nil
}

// Last returns the latest arrival time, or 0 for an empty schedule.
func (s Schedule) Last() sim.VTimeInSec {
	var last sim.VTimeInSec
	for _, t := range s {
		if t > last {
			last = t
		}
	}

	return last
}

func (s Schedule) String() string {
	parts := make([]string, len(s))
	for i, t := range s {
		parts[i] = t.String()
	}

	return strings.Join(parts, ",")
}

// Parse reads a schedule from a list of times separated by commas or
// whitespace, such as "10,25, 35".
func Parse(text string) (Schedule, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})

	s := make(Schedule, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid arrival time %q: %w", f, err)
		}

		s = append(s, sim.VTimeInSec(v))
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// Random describes a seeded stream of arrivals. Every arrival comes a whole
// number of time units after the previous one, the gap being drawn uniformly
// from [MinGap, MaxGap).
type Random struct {
	Seed   int64
	Count  int
	Start  sim.VTimeInSec
	MinGap int
	MaxGap int
}

// DefaultRandom is the random stream appended in the classic scenario.
var DefaultRandom = Random{
	Seed:   1,
	Count:  99,
	Start:  80,
	MinGap: 1,
	MaxGap: 10,
}

// Validate checks that the stream can be generated.
func (r Random) Validate() error {
	switch {
	case r.Count < 0:
		return fmt.Errorf("random count must not be negative, got %d", r.Count)
	case r.MinGap < 0:
		return fmt.Errorf("minimum gap must not be negative, got %d", r.MinGap)
	case r.MaxGap <= r.MinGap:
		return fmt.Errorf("maximum gap %d must be larger than minimum gap %d",
			r.MaxGap, r.MinGap)
	}

	return Schedule{r.Start}.Validate()
}

// Generate returns the arrival times. The same Random always generates the
// same schedule.
func (r Random) Generate() Schedule {
	if err := r.Validate(); err != nil {
		panic(err)
	}

	rng := rand.New(rand.NewSource(r.Seed))
	s := make(Schedule, 0, r.Count)
	t := r.Start
	for i := 0; i < r.Count; i++ {
		gap := r.MinGap + rng.Intn(r.MaxGap-r.MinGap)
		t += sim.VTimeInSec(gap)
		s = append(s, t)
	}

	return s
}

// Classic returns five hand-picked arrivals followed by the DefaultRandom
// stream.
func Classic() Schedule {
	return Fixed(10, 25, 35, 60, 75).Append(DefaultRandom.Generate())
}
