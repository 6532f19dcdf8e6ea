// Package sim provides the tick orchestrator: the simulated calendar,
// the aggregate simulation state record, and the fixed-order subsystem
// ticking that advances the course every frame.
// See DESIGN.md for the step ordering rationale.
package sim

// Speeds is the fixed list of valid time-scale multipliers; index 0 pauses.
var Speeds = []float64{0, 1, 2, 4, 8}

// minutesPerRealSecond converts real time to sim time at 1x speed.
const minutesPerRealSecond = 2.0

// Clock is the simulated calendar. MinuteOfDay is continuous; Day starts
// at 1 and increments by exactly one when the minute wraps 1440.
type Clock struct {
	MinuteOfDay float64 `json:"minute_of_day"` // 0-1439.999...
	Day         int     `json:"day"`
	TimeScale   float64 `json:"time_scale"`
}

// NewClock starts at 06:00 on day 1 at 1x speed.
func NewClock() Clock {
	return Clock{MinuteOfDay: 360, Day: 1, TimeScale: 1}
}

// Advance converts elapsed real milliseconds to simulated minutes and
// moves the calendar. Returns the simulated minutes elapsed and whether
// the day rolled over. Under the configured speed range a frame never
// spans more than one rollover, so no hour is silently skipped.
func (c *Clock) Advance(elapsedRealMs float64) (deltaMinutes float64, rolledOver bool) {
	deltaMinutes = elapsedRealMs / 1000 * minutesPerRealSecond * c.TimeScale
	if deltaMinutes <= 0 {
		return 0, false
	}
	c.MinuteOfDay += deltaMinutes
	for c.MinuteOfDay >= 1440 {
		c.MinuteOfDay -= 1440
		c.Day++
		rolledOver = true
	}
	return deltaMinutes, rolledOver
}

// Hour returns the current simulated hour, 0-23.
func (c *Clock) Hour() int {
	return int(c.MinuteOfDay / 60)
}

// AbsoluteMinutes returns minutes since the start of day 1, used for
// maintenance timestamps that must survive day rollovers.
func (c *Clock) AbsoluteMinutes() float64 {
	return float64(c.Day-1)*1440 + c.MinuteOfDay
}

// SetSpeed picks the closest valid multiplier from the speed list.
func (c *Clock) SetSpeed(scale float64) {
	best := Speeds[0]
	for _, s := range Speeds {
		if diff(s, scale) < diff(best, scale) {
			best = s
		}
	}
	c.TimeScale = best
}

func diff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
