// Autonomous robot units — same scorer, claims, and pathfinding as the
// human crew, plus battery depletion, breakdowns, and a return-to-base
// override that outranks all work once charge runs low.
package crew

import (
	"math/rand"
	"sort"

	"github.com/hollybrook/fairway/internal/course"
)

// RobotKind selects which tasks a robot model prioritizes.
type RobotKind uint8

const (
	RobotMower   RobotKind = iota // Mows greens, tees, fairways
	RobotSprayer                  // Waters and fertilizes
)

// RobotKindName returns a human-readable model label.
func RobotKindName(k RobotKind) string {
	switch k {
	case RobotMower:
		return "mower"
	case RobotSprayer:
		return "sprayer"
	}
	return "unknown"
}

// RobotPriorities returns the task priority list for a robot model.
func RobotPriorities(k RobotKind) []Task {
	switch k {
	case RobotMower:
		return []Task{TaskMow}
	case RobotSprayer:
		return []Task{TaskWater, TaskFertilize}
	}
	return nil
}

// Robot is an autonomous unit. It embeds Worker so the scheduler's state
// machine drives it unchanged.
type Robot struct {
	Worker
	Kind       RobotKind      `json:"kind"`
	Battery    float64        `json:"battery"` // 0-100
	BrokenDown bool           `json:"broken_down"`
	Home       course.GridPos `json:"home"` // Charging station
}

// Battery and reliability tuning, per sim-minute.
const (
	batteryLowThreshold = 20.0
	chargeRatePerMinute = 1.5
	drainMovingPerMin   = 0.30
	drainWorkingPerMin  = 0.22
	drainIdlePerMin     = 0.02
	breakdownPerMinute  = 0.0003
)

// RobotTickResult extends the scheduler result with breakdown events for
// the orchestrator to surface as notifications.
type RobotTickResult struct {
	TickResult
	Breakdowns []WorkerID
}

// TickRobots advances every robot once, in ID order. The claim registry
// is shared with the human roster for the same tick, so robots and crew
// never contend for the same tile.
func (s *Scheduler) TickRobots(robots []*Robot, terrain course.Provider, claims *ClaimRegistry, traversable course.TraversalFunc, rng *rand.Rand, deltaMinutes, nowMinutes float64) RobotTickResult {
	var res RobotTickResult

	ordered := make([]*Robot, len(robots))
	copy(ordered, robots)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	for _, r := range ordered {
		s.tickRobot(r, terrain, claims, traversable, rng, deltaMinutes, nowMinutes, &res)
	}
	return res
}

func (s *Scheduler) tickRobot(r *Robot, terrain course.Provider, claims *ClaimRegistry, traversable course.TraversalFunc, rng *rand.Rand, deltaMinutes, nowMinutes float64, res *RobotTickResult) {
	if r.BrokenDown {
		if r.Target != nil {
			claims.Release(*r.Target)
		}
		r.clearAssignment()
		return
	}

	// Wear and tear: the longer the tick, the more chances to fail.
	if rng.Float64() < breakdownPerMinute*deltaMinutes {
		r.breakDown(claims)
		res.Breakdowns = append(res.Breakdowns, r.ID)
		return
	}

	r.drainBattery(deltaMinutes)
	if r.Battery <= 0 {
		// Ran completely flat in the field; needs a service call.
		r.breakDown(claims)
		res.Breakdowns = append(res.Breakdowns, r.ID)
		return
	}

	if r.Task == TaskReturnToBase {
		s.advanceReturning(r, claims, traversable, deltaMinutes)
		return
	}

	// Low battery overrides any work task.
	if r.Battery < batteryLowThreshold {
		if r.Target != nil {
			claims.Release(*r.Target)
		}
		r.clearAssignment()
		r.Task = TaskReturnToBase
		r.Path = course.FindPath(r.Pos, r.Home, traversable)
		return
	}

	s.TickWorker(&r.Worker, terrain, claims, traversable, RobotPriorities(r.Kind), deltaMinutes, nowMinutes, &res.TickResult)
}

func (r *Robot) breakDown(claims *ClaimRegistry) {
	if r.Target != nil {
		claims.Release(*r.Target)
	}
	r.clearAssignment()
	r.BrokenDown = true
}

func (r *Robot) drainBattery(deltaMinutes float64) {
	rate := drainIdlePerMin
	switch {
	case len(r.Path) > 0:
		rate = drainMovingPerMin
	case r.Target != nil && r.Task != TaskIdle:
		rate = drainWorkingPerMin
	}
	r.Battery -= rate * deltaMinutes
	if r.Battery < 0 {
		r.Battery = 0
	}
}

// advanceReturning walks the robot home, retrying the path if the route
// became blocked, then charges until full.
func (s *Scheduler) advanceReturning(r *Robot, claims *ClaimRegistry, traversable course.TraversalFunc, deltaMinutes float64) {
	if r.Pos == r.Home {
		r.Path = nil
		r.Battery += chargeRatePerMinute * deltaMinutes
		if r.Battery >= 100 {
			r.Battery = 100
			r.Task = TaskIdle
		}
		return
	}

	if len(r.Path) == 0 {
		r.Path = course.FindPath(r.Pos, r.Home, traversable)
		if r.Path == nil {
			return // boxed in; retried next tick
		}
	}

	s.advanceMoving(&r.Worker, claims, traversable, deltaMinutes)
	if r.Task == TaskIdle {
		// advanceMoving abandoned a blocked route; keep heading home.
		r.Task = TaskReturnToBase
	}
}

// RepairRobot clears a breakdown. The caller is responsible for charging
// the service cost through the ledger first.
func RepairRobot(r *Robot) {
	r.BrokenDown = false
	if r.Battery < batteryLowThreshold {
		r.Battery = batteryLowThreshold
	}
}
