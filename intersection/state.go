package intersection

import "fmt"

// Light is the color shown by the traffic light.
type Light int

// The two colors of the light. A new intersection starts with a red light.
const (
	Red Light = iota
	Green
)

func (l Light) String() string {
	switch l {
	case Red:
		return "red"
	case Green:
		return "green"
	default:
		return fmt.Sprintf("Light(%d)", int(l))
	}
}

// State is the status of the crossroads: the light color and the number of
// cars waiting at the red light.
type State struct {
	Green bool
	Cars  int
}

// IsGreen returns true if the light is green.
func (s State) IsGreen() bool {
	return s.Green
}

// Light returns the color of the light.
func (s State) Light() Light {
	if s.Green {
		return Green
	}

	return Red
}

// AddCar adds a car to the waiting line. Callers only add cars while the
// light is red.
func (s *State) AddCar() {
	s.Cars++
}

// WaitingCars returns the number of cars waiting.
func (s State) WaitingCars() int {
	return s.Cars
}

// PurgeCars empties the waiting line.
func (s *State) PurgeCars() {
	s.Cars = 0
}

// TurnGreen turns the light green.
func (s *State) TurnGreen() {
	s.Green = true
}

// TurnRed turns the light red.
func (s *State) TurnRed() {
	s.Green = false
}

func (s State) String() string {
	return fmt.Sprintf("light=%s, cars=%d", s.Light(), s.Cars)
}
