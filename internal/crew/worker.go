// Package crew provides the grounds crew data model, the work-target
// scorer, the per-tick claim registry, and the per-worker task state
// machine that assigns and advances maintenance work.
// See DESIGN.md for the scoring and claim decisions.
package crew

import (
	"github.com/hollybrook/fairway/internal/course"
	"github.com/hollybrook/fairway/internal/econ"
)

// WorkerID is a unique identifier for a crew member or robot.
type WorkerID uint64

// Task enumerates what a worker is currently doing.
type Task uint8

const (
	TaskIdle Task = iota
	TaskMow
	TaskWater
	TaskFertilize
	TaskRake
	TaskPatrol       // Visual label for traversing a multi-step path
	TaskReturnToBase // Robot override: head to charging station
)

// TaskName returns a human-readable task label.
func TaskName(t Task) string {
	switch t {
	case TaskIdle:
		return "idle"
	case TaskMow:
		return "mow"
	case TaskWater:
		return "water"
	case TaskFertilize:
		return "fertilize"
	case TaskRake:
		return "rake"
	case TaskPatrol:
		return "patrol"
	case TaskReturnToBase:
		return "return to base"
	}
	return "unknown"
}

// WorkTasks is the fixed priority order the scorer walks:
// mow > water > fertilize > rake. Patrol carries no need score.
var WorkTasks = [4]Task{TaskMow, TaskWater, TaskFertilize, TaskRake}

// Worker is a human groundskeeper. Robots embed this and add battery
// state. A worker is in exactly one of four phases, derived from its
// fields: idle (Task == TaskIdle), moving (len(Path) > 0), working
// (Target set, path consumed), or between assignments.
type Worker struct {
	ID   WorkerID `json:"id"`
	Name string   `json:"name"`

	Pos    course.GridPos   `json:"pos"`
	Task   Task             `json:"task"`
	Target *course.GridPos  `json:"target,omitempty"`
	Path   []course.GridPos `json:"path,omitempty"`

	// MoveBudget accumulates fractional tiles of movement between ticks.
	MoveBudget   float64 `json:"move_budget"`
	WorkProgress float64 `json:"work_progress"` // 0-100
	Efficiency   float64 `json:"efficiency"`    // Skill/training multiplier

	OnDuty     bool       `json:"on_duty"`
	HourlyWage econ.Cents `json:"hourly_wage"`
}

// clearAssignment drops the worker's current target, path, and progress.
// Partial work earns no credit.
func (w *Worker) clearAssignment() {
	w.Task = TaskIdle
	w.Target = nil
	w.Path = nil
	w.WorkProgress = 0
}

// WorkEffect describes completed work for the orchestrator to apply to
// the terrain collaborator.
type WorkEffect struct {
	Pos        course.GridPos `json:"pos"`
	Task       Task           `json:"task"`
	Efficiency float64        `json:"efficiency"`
}

// TaskCompletion records who finished what where; the orchestrator
// charges supply costs and grants experience from these.
type TaskCompletion struct {
	WorkerID WorkerID       `json:"worker_id"`
	Task     Task           `json:"task"`
	Pos      course.GridPos `json:"pos"`
}
