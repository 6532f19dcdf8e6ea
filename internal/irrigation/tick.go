package irrigation

import (
	"math"
	"math/rand"

	"github.com/hollybrook/fairway/internal/course"
	"github.com/hollybrook/fairway/internal/econ"
)

// Hydraulics tuning.
const (
	sourcePressure    = 100.0
	leakFactor        = 0.5 // a leak halves downstream pressure
	mainLossPerHop    = 0.98
	lateralLossPerHop = 0.93

	baseRatePerMinute = 1.0 // moisture units per covered tile per minute

	// Leak injection: base chance per pipe per sim-minute, scaled by age
	// (days since install or last repair) and weather.
	leakBasePerMinute = 0.00002
	leakAgePerDay     = 0.015
	leakRainFactor    = 1.5
	leakStormFactor   = 3.0
)

// Waterer is the narrow terrain write interface the network needs;
// course.Map satisfies it.
type Waterer interface {
	WaterAt(pos course.GridPos, amount float64) bool
}

// Weather is the slice of weather state the network reacts to.
type Weather struct {
	Raining bool
	Stormy  bool
}

// TickResult carries one tick's emitted effects: watering applied, the
// single aggregated cost, and state transitions worth notifying about.
type TickResult struct {
	TilesWatered int
	WaterUsed    float64
	Cost         econ.Cents // charged to the ledger exactly once per tick
	NewLeaks     []uint64   // pipe IDs that sprang a leak this tick
	Toggled      []uint64   // sprinkler IDs whose active flag flipped
}

// Tick advances the network by deltaMinutes: recompute pressure, roll for
// new leaks (then recompute again so this tick's watering reflects them),
// evaluate schedules, apply watering, and aggregate cost.
func (n *Network) Tick(terrain Waterer, deltaMinutes, minuteOfDay float64, day int, weather Weather, rng *rand.Rand) TickResult {
	var res TickResult

	n.RecomputePressure()
	n.injectLeaks(deltaMinutes, day, weather, rng, &res)
	if len(res.NewLeaks) > 0 {
		n.RecomputePressure()
	}

	n.evaluateSchedules(minuteOfDay, weather.Raining, &res)
	n.applyWatering(terrain, deltaMinutes, &res)
	return res
}

// RecomputePressure walks each pipe's upstream chain to its source and
// derives delivered pressure: hop losses by pipe kind, halved below every
// leak. Disconnected or cyclic segments get zero.
func (n *Network) RecomputePressure() {
	pipes := n.pipeByID()
	memo := make(map[uint64]float64, len(n.Pipes))

	var walk func(id uint64, depth int) float64
	walk = func(id uint64, depth int) float64 {
		if p, ok := memo[id]; ok {
			return p
		}
		if depth > len(n.Pipes) {
			return 0 // cycle guard
		}
		p, ok := pipes[id]
		if !ok {
			return 0
		}

		var upstream float64
		if p.UpstreamID == 0 {
			if n.hasSource(p.SourceID) {
				upstream = sourcePressure
			}
		} else {
			upstream = walk(p.UpstreamID, depth+1)
		}

		loss := mainLossPerHop
		if p.Kind == PipeLateral {
			loss = lateralLossPerHop
		}
		pressure := upstream * loss
		if p.Leaking {
			pressure *= leakFactor
		}
		memo[id] = pressure
		return pressure
	}

	for i := range n.Pipes {
		n.Pipes[i].Pressure = walk(n.Pipes[i].ID, 0)
	}
}

func (n *Network) hasSource(id uint64) bool {
	for i := range n.Sources {
		if n.Sources[i].ID == id {
			return true
		}
	}
	return false
}

// injectLeaks rolls per pipe; probability climbs with age and bad weather.
// An existing leak persists until an explicit Repair.
func (n *Network) injectLeaks(deltaMinutes float64, day int, weather Weather, rng *rand.Rand, res *TickResult) {
	weatherMult := 1.0
	if weather.Stormy {
		weatherMult = leakStormFactor
	} else if weather.Raining {
		weatherMult = leakRainFactor
	}

	for i := range n.Pipes {
		p := &n.Pipes[i]
		if p.Leaking {
			continue
		}
		sinceDay := p.InstalledDay
		if p.LastRepairDay > sinceDay {
			sinceDay = p.LastRepairDay
		}
		age := float64(day - sinceDay)
		if age < 0 {
			age = 0
		}
		prob := leakBasePerMinute * deltaMinutes * (1 + age*leakAgePerDay) * weatherMult
		if rng.Float64() < prob {
			p.Leaking = true
			res.NewLeaks = append(res.NewLeaks, p.ID)
		}
	}
}

// evaluateSchedules toggles heads only on change, so repeated ticks inside
// the same window cause no state churn or duplicate notifications.
func (n *Network) evaluateSchedules(minuteOfDay float64, raining bool, res *TickResult) {
	for i := range n.Sprinklers {
		sp := &n.Sprinklers[i]
		should := sp.Schedule.ShouldBeActive(minuteOfDay, raining)
		if should != sp.Active {
			sp.Active = should
			res.Toggled = append(res.Toggled, sp.ID)
		}
	}
}

// applyWatering delivers moisture from every active head and accumulates
// usage into a single cost figure, so heads sharing a source never
// double-charge it.
func (n *Network) applyWatering(terrain Waterer, deltaMinutes float64, res *TickResult) {
	pipes := n.pipeByID()
	sources := n.sourceByID()

	var costCents float64
	for i := range n.Sprinklers {
		sp := &n.Sprinklers[i]
		if !sp.Active {
			continue
		}
		pipe, ok := pipes[sp.PipeID]
		if !ok {
			continue
		}
		src, ok := sources[pipe.SourceID]
		if !ok {
			continue
		}

		for _, cov := range sp.Coverage {
			amount := baseRatePerMinute * deltaMinutes * cov.Efficiency * (pipe.Pressure / 100)
			if amount <= 0 {
				continue
			}
			if terrain.WaterAt(cov.Pos, amount) {
				res.TilesWatered++
			}
			// Usage is drawn from the source whether or not the tile
			// could absorb it.
			res.WaterUsed += amount
			costCents += amount * float64(src.UnitCost)
		}
	}
	res.Cost = econ.Cents(math.Round(costCents))
}
