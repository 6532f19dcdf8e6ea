package sim

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/hollybrook/fairway/internal/config"
	"github.com/hollybrook/fairway/internal/course"
	"github.com/hollybrook/fairway/internal/crew"
	"github.com/hollybrook/fairway/internal/econ"
	"github.com/hollybrook/fairway/internal/irrigation"
	"github.com/hollybrook/fairway/internal/scenario"
	"github.com/hollybrook/fairway/internal/weather"
)

const (
	teeSheetHour     = 5
	endOfDayHour     = 22
	maxNotifications = 200
)

// Simulation owns the aggregate state and the terrain, and wires every
// subsystem into the frame loop. All access goes through the mutex; the
// API server reads between ticks through the same lock.
type Simulation struct {
	mu sync.Mutex

	State   *State
	Terrain *course.Map
	Sched   *crew.Scheduler
	Tuning  config.Tuning

	Scenario *scenario.Scenario

	Notifications []Notification
	DaySummaries  []DaySummary

	rng     *rand.Rand
	logger  *slog.Logger
	spawner *crew.Spawner

	// spawn is where hires and purchases appear: the clubhouse tile,
	// derived from the terrain at startup.
	spawn course.GridPos

	noteSeq        int64
	autosaveWanted bool
}

// Inspect runs fn while holding the simulation lock. Readers (the API
// server, persistence) use this to see a consistent between-ticks view.
func (s *Simulation) Inspect(fn func(*Simulation)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s)
}

// Advance moves the simulation forward by one frame of real time. Step
// order is fixed: weather, payroll, autosave, prestige, tee sheet,
// tee-time check-ins, walk-ons, arrivals, golfer progression, crew
// scheduling, research, turf drift, irrigation, robots, scenario,
// end-of-day bundle. Hourly steps are guarded by last-fired-hour gates
// so they run exactly once per simulated hour regardless of frame rate.
func (s *Simulation) Advance(elapsedRealMs float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.State
	delta, _ := st.Clock.Advance(elapsedRealMs)
	if delta <= 0 {
		return
	}

	day := st.Clock.Day
	minute := st.Clock.MinuteOfDay
	hour := st.Clock.Hour()
	now := st.Clock.AbsoluteMinutes()

	if hour != st.Gates.Weather {
		st.Gates.Weather = hour
		if st.Weather.Advance(s.rng) {
			s.notify("weather", "weather is now "+weather.ConditionName(st.Weather.Condition), severityFor(st.Weather))
		}
	}

	if hour != st.Gates.Payroll {
		st.Gates.Payroll = hour
		s.syncShifts(hour)
		s.runPayroll(day, minute)
	}

	if hour != st.Gates.Autosave {
		st.Gates.Autosave = hour
		s.autosaveWanted = true
	}

	condition := s.Terrain.AverageCondition()

	if hour != st.Gates.Prestige {
		st.Gates.Prestige = hour
		st.Prestige.Recompute(condition, st.Reputation, st.Excellence)
	}
	demand := st.Prestige.DemandMultiplier() * st.Marketing.DemandMultiplier()

	if hour != st.Gates.TeeSheet {
		st.Gates.TeeSheet = hour
		if hour == teeSheetHour {
			booked := st.TeeSheet.GenerateDay(day, s.Tuning.BookingProbability, demand, s.rng)
			s.logger.Info("tee sheet generated", "day", day, "bookings", booked)
		}
	}

	rejected := 0

	checkedIn, noShows, r := st.processTeeTimes(s.Tuning, condition, s.rng)
	s.chargeGreenFees(checkedIn, day, minute)
	rejected += r
	if noShows > 0 {
		s.logger.Debug("no-shows", "day", day, "count", noShows)
	}

	if hour != st.Gates.WalkOns {
		st.Gates.WalkOns = hour
		admitted, r := st.processWalkOns(s.Tuning, demand, condition, s.rng)
		s.chargeGreenFees(admitted, day, minute)
		rejected += r
	}

	if hour != st.Gates.Arrivals {
		st.Gates.Arrivals = hour
		admitted, r := st.simulateArrivals(s.Tuning, demand, condition, s.rng)
		s.chargeGreenFees(admitted, day, minute)
		rejected += r
	}

	if rejected > 0 {
		st.Reputation = clamp(st.Reputation-0.3*float64(rejected), 0, 100)
		s.notify("demand", fmt.Sprintf("%d golfers turned away", rejected), "warning")
	}

	for _, dep := range st.progressGolfers(delta, condition, st.Weather, s.rng) {
		if dep.Tip > 0 {
			st.Ledger.AddIncome(day, minute, econ.CatTips, dep.Tip, "gratuity")
		}
		switch {
		case dep.Satisfaction >= 75:
			st.Reputation = clamp(st.Reputation+0.1, 0, 100)
		case dep.Satisfaction < 40:
			st.Reputation = clamp(st.Reputation-0.2, 0, 100)
		}
	}

	// One claim registry per tick, shared across both rosters.
	claims := crew.NewClaimRegistry()
	claims.Seed(st.Workers)
	claims.Seed(robotWorkers(st.Robots))

	res := s.Sched.Tick(st.Workers, s.Terrain, claims, s.Terrain.IsTraversable, crew.WorkTasks[:], delta, now)
	s.applyCrewResult(res, day, minute, now)

	if hour != st.Gates.Research {
		st.Gates.Research = hour
		if done := st.Research.fundHourly(st.Ledger, day, minute); done != nil {
			s.applyResearch(done)
			s.notify("research", "research complete: "+done.Name, "")
		}
	}

	s.Terrain.Advance(delta, st.Weather.Raining())

	ires := st.Network.Tick(s.Terrain, delta, minute, day, irrigation.Weather{
		Raining: st.Weather.Raining(),
		Stormy:  st.Weather.Stormy(),
	}, s.rng)
	if ires.Cost > 0 {
		st.Ledger.AddExpense(day, minute, econ.CatWater, ires.Cost, "irrigation water")
	}
	for _, id := range ires.NewLeaks {
		s.notify("irrigation", fmt.Sprintf("pipe %d is leaking", id), "warning")
	}

	rres := s.Sched.TickRobots(st.Robots, s.Terrain, claims, s.Terrain.IsTraversable, s.rng, delta, now)
	s.applyCrewResult(rres.TickResult, day, minute, now)
	for _, id := range rres.Breakdowns {
		s.notify("crew", fmt.Sprintf("robot %d broke down", id), "warning")
	}

	if hour != st.Gates.Scenario {
		st.Gates.Scenario = hour
		if scenario.Evaluate(s.Scenario, scenario.Metrics{
			Day:        day,
			Cash:       st.Ledger.Cash,
			Prestige:   st.Prestige.Score,
			Condition:  condition,
			Reputation: st.Reputation,
		}, &st.ScenarioProgress) {
			s.notify("scenario", "scenario "+scenario.StatusName(st.ScenarioProgress.Status), "")
		}
	}

	if hour != st.Gates.EndOfDay {
		st.Gates.EndOfDay = hour
		if hour == endOfDayHour {
			s.endOfDay(condition)
		}
	}
}

// syncShifts puts the human roster on or off duty by shop hours. Robots
// have no shift; their schedule is the battery.
func (s *Simulation) syncShifts(hour int) {
	onDuty := hour >= openHour-1 && hour < closeHour+2
	for _, w := range s.State.Workers {
		w.OnDuty = onDuty
	}
}

// runPayroll charges hourly wages for on-duty workers and operating cost
// per functioning robot. A rejected wage charge is surfaced once.
func (s *Simulation) runPayroll(day int, minute float64) {
	st := s.State
	shortfall := false
	for _, w := range st.Workers {
		if !w.OnDuty {
			continue
		}
		if !st.Ledger.AddExpense(day, minute, econ.CatPayroll, w.HourlyWage, "wages: "+w.Name) {
			shortfall = true
		}
	}
	for _, r := range st.Robots {
		if r.BrokenDown {
			continue
		}
		st.Ledger.AddExpense(day, minute, econ.CatPayroll, s.Tuning.RobotHourlyCost, "robot upkeep")
	}
	if shortfall {
		s.notify("finance", "payroll could not be met", "critical")
	}
}

// chargeGreenFees records admission revenue for a batch of golfers.
func (s *Simulation) chargeGreenFees(count int, day int, minute float64) {
	if count <= 0 {
		return
	}
	s.State.Ledger.AddIncome(day, minute, econ.CatGreenFees, s.Tuning.GreenFee*econ.Cents(count), "green fees")
}

// applyCrewResult applies completed work to the terrain and charges
// supply costs. Exactly one effect and one completion arrive per
// finished task.
func (s *Simulation) applyCrewResult(res crew.TickResult, day int, minute, now float64) {
	for _, e := range res.Effects {
		effect, ok := crew.TaskEffect(e.Task)
		if !ok {
			continue
		}
		s.Terrain.ApplyEffect(e.Pos, 0, effect, e.Efficiency, now, nil)
	}
	for _, c := range res.Completions {
		if cost := crew.TaskSupplyCost(c.Task); cost > 0 {
			s.State.Ledger.AddExpense(day, minute, econ.CatSupplies, cost, "supplies: "+crew.TaskName(c.Task))
		}
	}
}

// applyResearch applies a finished project's effects to both rosters.
func (s *Simulation) applyResearch(p *ResearchProject) {
	if p.EfficiencyBoost > 0 {
		for _, w := range s.State.Workers {
			crew.BoostEfficiency(w, p.EfficiencyBoost)
		}
	}
	if p.RobotBoost > 0 {
		for _, r := range s.State.Robots {
			crew.BoostEfficiency(&r.Worker, p.RobotBoost)
		}
	}
}

// robotWorkers views the robot roster as workers for claim seeding.
func robotWorkers(robots []*crew.Robot) []*crew.Worker {
	ws := make([]*crew.Worker, 0, len(robots))
	for _, r := range robots {
		ws = append(ws, &r.Worker)
	}
	return ws
}

// notify appends a capped fire-and-forget notification.
func (s *Simulation) notify(kind, message, severity string) {
	s.noteSeq++
	n := Notification{
		Seq:      s.noteSeq,
		Day:      s.State.Clock.Day,
		Minute:   s.State.Clock.MinuteOfDay,
		Kind:     kind,
		Message:  message,
		Severity: severity,
		Duration: 6,
	}
	s.Notifications = append(s.Notifications, n)
	if len(s.Notifications) > maxNotifications {
		s.Notifications = s.Notifications[len(s.Notifications)-maxNotifications:]
	}
	s.logger.Info("event", "kind", kind, "message", message)
}

func severityFor(w weather.State) string {
	if w.Stormy() {
		return "warning"
	}
	return ""
}

// TakeAutosaveRequest reports and clears the pending autosave flag.
func (s *Simulation) TakeAutosaveRequest() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	want := s.autosaveWanted
	s.autosaveWanted = false
	return want
}

// SetTimeScale snaps the clock speed to the supported list. Zero pauses.
func (s *Simulation) SetTimeScale(scale float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.State.Clock.SetSpeed(scale)
	s.logger.Info("time scale changed", "scale", s.State.Clock.TimeScale)
}
