// Package weather provides the simulated weather state machine.
// Conditions change on the hourly tick via a seeded Markov transition
// table, so runs are reproducible from the simulation seed.
package weather

import "math/rand"

// Condition is the current sky state.
type Condition uint8

const (
	Sunny Condition = iota
	Cloudy
	Rainy
	Stormy
)

// NumConditions is the count of weather conditions.
const NumConditions = 4

// ConditionName returns a human-readable label.
func ConditionName(c Condition) string {
	names := [NumConditions]string{"sunny", "cloudy", "rainy", "stormy"}
	if int(c) < len(names) {
		return names[c]
	}
	return "unknown"
}

// transitions[from][to] are cumulative probabilities, evaluated hourly.
// Rows end at 1; weather is sticky, with storms bursting out of rain.
var transitions = [NumConditions][NumConditions]float64{
	Sunny:  {0.78, 0.95, 1.00, 1.00},
	Cloudy: {0.30, 0.75, 0.97, 1.00},
	Rainy:  {0.08, 0.40, 0.88, 1.00},
	Stormy: {0.02, 0.25, 0.70, 1.00},
}

// State is the live weather, carried in the simulation state record.
type State struct {
	Condition Condition `json:"condition"`
	HoursHeld int       `json:"hours_held"` // hours in the current condition
}

// Advance rolls one hourly transition. Returns true when the condition
// changed, so the orchestrator can emit a notification.
func (s *State) Advance(rng *rand.Rand) bool {
	roll := rng.Float64()
	row := transitions[s.Condition]
	next := s.Condition
	for c := 0; c < NumConditions; c++ {
		if roll < row[c] {
			next = Condition(c)
			break
		}
	}
	if next == s.Condition {
		s.HoursHeld++
		return false
	}
	s.Condition = next
	s.HoursHeld = 0
	return true
}

// Raining reports whether watering schedules with rain-skip should hold off.
func (s *State) Raining() bool {
	return s.Condition == Rainy || s.Condition == Stormy
}

// Stormy reports severe weather, which accelerates pipe wear.
func (s *State) Stormy() bool {
	return s.Condition == Stormy
}

// ArrivalFactor scales golfer demand: nobody tees off in a thunderstorm.
func (s *State) ArrivalFactor() float64 {
	switch s.Condition {
	case Sunny:
		return 1.0
	case Cloudy:
		return 0.85
	case Rainy:
		return 0.35
	case Stormy:
		return 0.05
	}
	return 1.0
}
