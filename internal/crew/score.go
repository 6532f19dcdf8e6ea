// Work-target scoring — pure functions mapping a terrain sample and task
// to a need score, and need plus distance to a selection score.
package crew

import "github.com/hollybrook/fairway/internal/course"

// Moisture and nutrient thresholds mirror the mow standard/critical shape:
// below standard need rises linearly, below critical it jumps by 50.
const (
	moistureStandard = 40.0
	moistureCritical = 15.0
	nutrientStandard = 35.0
	nutrientCritical = 12.0

	// Bunkers want raking once this many sim-minutes have passed.
	rakeCooldownMinutes = 60.0
	rakeNeed            = 20.0

	// A need above this is critical and dominates distance entirely.
	criticalNeed  = 50.0
	criticalBonus = 5000.0
)

// NeedFor returns how urgently the sampled tile wants the given task.
// Zero when the task does not apply to the terrain.
func NeedFor(c course.Conditions, task Task, nowMinutes float64) float64 {
	switch task {
	case TaskMow:
		if !c.Dominant.Mowable() {
			return 0
		}
		standard, critical := course.MowStandards(c.Dominant)
		switch {
		case c.Height > critical:
			return c.Height - critical + 50
		case c.Height > standard:
			return c.Height - standard
		}
		return 0

	case TaskWater:
		if !c.Dominant.Vegetated() {
			return 0
		}
		switch {
		case c.Moisture < moistureCritical:
			return moistureCritical - c.Moisture + 50
		case c.Moisture < moistureStandard:
			return moistureStandard - c.Moisture
		}
		return 0

	case TaskFertilize:
		if !c.Dominant.Vegetated() {
			return 0
		}
		switch {
		case c.Nutrients < nutrientCritical:
			return nutrientCritical - c.Nutrients + 50
		case c.Nutrients < nutrientStandard:
			return nutrientStandard - c.Nutrients
		}
		return 0

	case TaskRake:
		if c.Dominant != course.TerrainBunker {
			return 0
		}
		if nowMinutes-c.LastRakedAt > rakeCooldownMinutes {
			return rakeNeed
		}
		return 0
	}
	return 0
}

// Score ranks a candidate: critical needs dominate, then task priority,
// then need weight, minus a Manhattan distance penalty.
func Score(need float64, priorityIndex, numPriorities, distance int) float64 {
	bonus := float64(numPriorities-priorityIndex) * 100
	if need > criticalNeed {
		bonus = criticalBonus
	}
	return bonus + need*10 - float64(distance)
}

// WorkTarget is a scored candidate; ephemeral, never persisted.
type WorkTarget struct {
	Pos   course.GridPos
	Task  Task
	Need  float64
	Score float64
}
