package sim

import (
	"math"
	"math/rand"

	"github.com/hollybrook/fairway/internal/config"
	"github.com/hollybrook/fairway/internal/econ"
	"github.com/hollybrook/fairway/internal/weather"
)

// Golfer is one party on the course, tracked from tee-off to departure.
type Golfer struct {
	ID           uint64  `json:"id"`
	ArrivedDay   int     `json:"arrived_day"`
	ArrivedAt    float64 `json:"arrived_at"` // minute of day
	HolesPlayed  float64 `json:"holes_played"`
	HolesTotal   int     `json:"holes_total"`
	Satisfaction float64 `json:"satisfaction"` // 0-100, settles during the round
	WalkOn       bool    `json:"walk_on,omitempty"`
}

// GolferPool holds everyone currently on the course plus the day's
// arrival/departure counters, reset by the end-of-day bundle.
type GolferPool struct {
	Active       []*Golfer `json:"active"`
	NextGolferID uint64    `json:"next_golfer_id"`

	RoundsToday       int        `json:"rounds_today"`
	RejectionsToday   int        `json:"rejections_today"`
	LostRevenueToday  econ.Cents `json:"lost_revenue_today"`
	SatisfactionSum   float64    `json:"satisfaction_sum"`
	SatisfactionCount int        `json:"satisfaction_count"`
}

// holesPerMinute is the pace of play: a 9-hole round takes about two
// sim-hours.
const holesPerMinute = 9.0 / 120.0

const (
	openHour  = 6
	closeHour = 19
)

// Departure reports one golfer leaving the course after their round.
type Departure struct {
	GolferID     uint64
	Satisfaction float64
	Tip          econ.Cents
}

// AvgSatisfactionToday averages completed-round satisfaction, or 0 with
// no rounds.
func (p *GolferPool) AvgSatisfactionToday() float64 {
	if p.SatisfactionCount == 0 {
		return 0
	}
	return p.SatisfactionSum / float64(p.SatisfactionCount)
}

// ResetDaily zeroes the day counters. Golfers still mid-round stay.
func (p *GolferPool) ResetDaily() {
	p.RoundsToday = 0
	p.RejectionsToday = 0
	p.LostRevenueToday = 0
	p.SatisfactionSum = 0
	p.SatisfactionCount = 0
}

// recordRejections books turned-away golfers against the day's counters,
// valuing each at the green fee they would have paid.
func (p *GolferPool) recordRejections(n int, fee econ.Cents) {
	p.RejectionsToday += n
	p.LostRevenueToday += fee * econ.Cents(n)
}

// stochasticCount turns a fractional rate into an integer draw:
// floor(rate) plus one more with probability equal to the fraction.
func stochasticCount(rate float64, rng *rand.Rand) int {
	if rate <= 0 {
		return 0
	}
	n := int(math.Floor(rate))
	if rng.Float64() < rate-math.Floor(rate) {
		n++
	}
	return n
}

// admit puts a new golfer on the course. Satisfaction starts anchored to
// course condition and drifts from there during the round.
func (p *GolferPool) admit(day int, minute float64, holes int, condition float64, walkOn bool) *Golfer {
	p.NextGolferID++
	g := &Golfer{
		ID:           p.NextGolferID,
		ArrivedDay:   day,
		ArrivedAt:    minute,
		HolesTotal:   holes,
		Satisfaction: 40 + condition*0.5,
		WalkOn:       walkOn,
	}
	p.Active = append(p.Active, g)
	return g
}

// simulateArrivals runs the hourly arrival draw for open hours. Demand is
// base rate scaled by weather and prestige; arrivals beyond course
// capacity are rejected and counted against reputation. Returns admitted
// and rejected counts.
func (s *State) simulateArrivals(tuning config.Tuning, demandMult, condition float64, rng *rand.Rand) (admitted, rejected int) {
	hour := s.Clock.Hour()
	if hour < openHour || hour > closeHour {
		return 0, 0
	}

	rate := tuning.BaseArrivalsPerHour * s.Weather.ArrivalFactor() * demandMult
	// Midday is busier than the shoulders of the day.
	if hour >= 9 && hour <= 14 {
		rate *= 1.3
	}
	potential := stochasticCount(rate, rng)

	capacity := tuning.MaxGolfersOnCourse - len(s.Golfers.Active)
	if capacity < 0 {
		capacity = 0
	}
	admitted = potential
	if admitted > capacity {
		admitted = capacity
	}
	rejected = potential - admitted

	for i := 0; i < admitted; i++ {
		s.Golfers.admit(s.Clock.Day, s.Clock.MinuteOfDay, 9, condition, false)
	}
	s.Golfers.recordRejections(rejected, tuning.GreenFee)
	return admitted, rejected
}

// progressGolfers advances every in-round golfer by deltaMinutes and
// collects departures. Pace and satisfaction drift scale with weather and
// course condition; finished golfers may tip.
func (s *State) progressGolfers(deltaMinutes, condition float64, wx weather.State, rng *rand.Rand) []Departure {
	if len(s.Golfers.Active) == 0 || deltaMinutes <= 0 {
		return nil
	}

	pace := holesPerMinute
	if wx.Raining() {
		pace *= 0.7
	}

	// Satisfaction drifts toward the condition anchor over the round.
	anchor := 40 + condition*0.5

	var departures []Departure
	remaining := s.Golfers.Active[:0]
	for _, g := range s.Golfers.Active {
		g.HolesPlayed += pace * deltaMinutes
		g.Satisfaction += (anchor - g.Satisfaction) * 0.01 * deltaMinutes
		if wx.Stormy() {
			g.Satisfaction -= 0.2 * deltaMinutes
		}
		g.Satisfaction = clamp(g.Satisfaction, 0, 100)

		if g.HolesPlayed < float64(g.HolesTotal) {
			remaining = append(remaining, g)
			continue
		}

		dep := Departure{GolferID: g.ID, Satisfaction: g.Satisfaction}
		if g.Satisfaction > 70 && rng.Float64() < (g.Satisfaction-70)/60 {
			dep.Tip = econ.Cents(2_00 + rng.Intn(8)*1_00)
		}
		departures = append(departures, dep)

		s.Golfers.RoundsToday++
		s.Golfers.SatisfactionSum += g.Satisfaction
		s.Golfers.SatisfactionCount++
	}
	s.Golfers.Active = remaining
	return departures
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
