package crew

import (
	"github.com/hollybrook/fairway/internal/course"
	"github.com/hollybrook/fairway/internal/econ"
)

// Per-task constants. Durations are sim-minutes of work at efficiency 1.0;
// supply costs are charged on completion; experience nudges the worker's
// efficiency multiplier upward.
type taskSpec struct {
	Duration   float64
	SupplyCost econ.Cents
	Experience float64
	Effect     course.EffectType
}

var taskTable = map[Task]taskSpec{
	TaskMow:       {Duration: 12, SupplyCost: 150, Experience: 0.002, Effect: course.EffectMow},
	TaskWater:     {Duration: 8, SupplyCost: 60, Experience: 0.001, Effect: course.EffectWater},
	TaskFertilize: {Duration: 10, SupplyCost: 400, Experience: 0.002, Effect: course.EffectFertilize},
	TaskRake:      {Duration: 6, SupplyCost: 40, Experience: 0.001, Effect: course.EffectRake},
}

// TaskDuration returns the sim-minutes a task takes at efficiency 1.0.
func TaskDuration(t Task) float64 {
	if spec, ok := taskTable[t]; ok {
		return spec.Duration
	}
	return 10
}

// TaskSupplyCost returns the consumables cost charged when a task completes.
func TaskSupplyCost(t Task) econ.Cents {
	return taskTable[t].SupplyCost
}

// TaskExperience returns the efficiency gain awarded on completion.
func TaskExperience(t Task) float64 {
	return taskTable[t].Experience
}

// TaskEffect maps a work task to the terrain effect it applies.
func TaskEffect(t Task) (course.EffectType, bool) {
	spec, ok := taskTable[t]
	return spec.Effect, ok
}

// maxEfficiency caps on-the-job learning.
const maxEfficiency = 2.0

// BoostEfficiency raises a worker's efficiency by delta, subject to the
// same cap as on-the-job learning. Training and research apply through
// this.
func BoostEfficiency(w *Worker, delta float64) {
	w.Efficiency += delta
	if w.Efficiency > maxEfficiency {
		w.Efficiency = maxEfficiency
	}
}
