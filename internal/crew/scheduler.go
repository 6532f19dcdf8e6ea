// Work-assignment scheduling — the per-worker state machine.
//
// Each tick, every on-duty worker is evaluated once, in WorkerID order so
// contested-claim tie-breaking is deterministic and part of the contract:
//
//	idle -> targeting -> moving -> working -> idle
//
// Targeting claims the chosen tile in the shared registry before
// pathfinding, so no two workers are ever inbound to the same tile.
package crew

import (
	"sort"

	"github.com/hollybrook/fairway/internal/course"
)

const (
	// workStartEpsilon marks a worker as having begun work the moment it
	// claims its own tile, so the working phase engages immediately.
	workStartEpsilon = 0.01

	defaultSearchRadius = 25
	defaultMoveSpeed    = 1.5 // tiles per sim-minute
)

// Scheduler assigns and advances maintenance work for one roster.
type Scheduler struct {
	SearchRadius int
	MoveSpeed    float64
}

// NewScheduler returns a scheduler with default movement and search tuning.
func NewScheduler() *Scheduler {
	return &Scheduler{
		SearchRadius: defaultSearchRadius,
		MoveSpeed:    defaultMoveSpeed,
	}
}

// TickResult carries the side effects of one scheduling pass for the
// orchestrator to apply: terrain work and completion records.
type TickResult struct {
	Effects     []WorkEffect
	Completions []TaskCompletion
}

// Tick evaluates every worker once. The claim registry must already be
// seeded with all live targets (across rosters) for this tick.
func (s *Scheduler) Tick(workers []*Worker, terrain course.Provider, claims *ClaimRegistry, traversable course.TraversalFunc, priorities []Task, deltaMinutes, nowMinutes float64) TickResult {
	var res TickResult

	ordered := make([]*Worker, len(workers))
	copy(ordered, workers)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	for _, w := range ordered {
		s.TickWorker(w, terrain, claims, traversable, priorities, deltaMinutes, nowMinutes, &res)
	}
	return res
}

// TickWorker advances a single worker's state machine. Exposed so the
// robot tick can reuse it after applying battery overrides.
func (s *Scheduler) TickWorker(w *Worker, terrain course.Provider, claims *ClaimRegistry, traversable course.TraversalFunc, priorities []Task, deltaMinutes, nowMinutes float64, res *TickResult) {
	if !w.OnDuty {
		if w.Target != nil {
			claims.Release(*w.Target)
		}
		w.clearAssignment()
		return
	}

	switch {
	case len(w.Path) > 0:
		s.advanceMoving(w, claims, traversable, deltaMinutes)
	case w.Target != nil && w.Task != TaskIdle:
		s.advanceWorking(w, claims, deltaMinutes, res)
	default:
		s.findWork(w, terrain, claims, traversable, priorities, nowMinutes)
	}
}

// findWork runs target selection for an idle worker. The worker's own
// tile wins outright when it has unmet need and is unclaimed; otherwise
// the highest-scoring unclaimed candidate in the search window is chosen,
// claimed, and pathed to. No candidate or no path means stay idle —
// a valid steady state, retried next tick.
func (s *Scheduler) findWork(w *Worker, terrain course.Provider, claims *ClaimRegistry, traversable course.TraversalFunc, priorities []Task, nowMinutes float64) {
	// Work in place when standing on a needy, unclaimed tile.
	here := terrain.SampleConditions(w.Pos, 0)
	for _, task := range priorities {
		if NeedFor(here, task, nowMinutes) <= 0 {
			continue
		}
		if !claims.Claim(w.Pos, w.ID) {
			break
		}
		target := w.Pos
		w.Task = task
		w.Target = &target
		w.Path = nil
		w.WorkProgress = workStartEpsilon
		return
	}

	best, ok := s.selectTarget(w, terrain, claims, priorities, nowMinutes)
	if !ok {
		return
	}

	if !claims.Claim(best.Pos, w.ID) {
		return
	}
	path := course.FindPath(w.Pos, best.Pos, traversable)
	if path == nil {
		claims.Release(best.Pos)
		return
	}

	target := best.Pos
	w.Task = best.Task
	w.Target = &target
	w.Path = path
	w.WorkProgress = 0
}

// selectTarget scores every (candidate, task) pair and returns the single
// best unclaimed one. Ties resolve to the first found, which is stable
// because candidates arrive in row-major order and tasks in priority order.
func (s *Scheduler) selectTarget(w *Worker, terrain course.Provider, claims *ClaimRegistry, priorities []Task, nowMinutes float64) (WorkTarget, bool) {
	candidates := terrain.FindWorkCandidates(w.Pos, s.SearchRadius)

	var best WorkTarget
	found := false
	for _, cand := range candidates {
		if claims.Held(cand.Pos, w.ID) {
			continue
		}
		for idx, task := range priorities {
			need := NeedFor(cand.Conditions, task, nowMinutes)
			if need <= 0 {
				continue
			}
			score := Score(need, idx, len(priorities), w.Pos.Manhattan(cand.Pos))
			if !found || score > best.Score {
				best = WorkTarget{Pos: cand.Pos, Task: task, Need: need, Score: score}
				found = true
			}
		}
	}
	return best, found
}

// advanceMoving consumes path steps as movement budget accrues. A newly
// blocked next step abandons the assignment entirely — claim released,
// path cleared — so terrain edits can never strand a worker mid-route.
func (s *Scheduler) advanceMoving(w *Worker, claims *ClaimRegistry, traversable course.TraversalFunc, deltaMinutes float64) {
	w.MoveBudget += s.MoveSpeed * deltaMinutes

	for w.MoveBudget >= 1 && len(w.Path) > 0 {
		next := w.Path[0]
		if !traversable(next) {
			if w.Target != nil {
				claims.Release(*w.Target)
			}
			w.clearAssignment()
			w.MoveBudget = 0
			return
		}
		w.Pos = next
		w.Path = w.Path[1:]
		w.MoveBudget--
	}
}

// advanceWorking accumulates progress and emits exactly one effect and
// one completion record when the task finishes.
func (s *Scheduler) advanceWorking(w *Worker, claims *ClaimRegistry, deltaMinutes float64, res *TickResult) {
	w.WorkProgress += (100 / TaskDuration(w.Task)) * deltaMinutes * w.Efficiency
	if w.WorkProgress < 100 {
		return
	}

	res.Effects = append(res.Effects, WorkEffect{
		Pos:        *w.Target,
		Task:       w.Task,
		Efficiency: w.Efficiency,
	})
	res.Completions = append(res.Completions, TaskCompletion{
		WorkerID: w.ID,
		Task:     w.Task,
		Pos:      *w.Target,
	})

	// On-the-job learning, capped.
	w.Efficiency += TaskExperience(w.Task)
	if w.Efficiency > maxEfficiency {
		w.Efficiency = maxEfficiency
	}

	claims.Release(*w.Target)
	w.clearAssignment()
}
