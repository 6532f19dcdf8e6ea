// Package irrigation provides the pipe/sprinkler hydraulics network:
// pressure propagation from water sources, probabilistic leak injection,
// time-windowed watering schedules, and per-tick aggregated water cost.
// It shares the tick-driven compute-then-apply pattern of the work
// scheduler but owns no contested resources beyond the terrain it waters.
// See DESIGN.md for the pressure model and its decisions.
package irrigation

import (
	"github.com/hollybrook/fairway/internal/course"
	"github.com/hollybrook/fairway/internal/econ"
)

// PipeKind distinguishes trunk lines from laterals. Mains lose less
// pressure per hop.
type PipeKind uint8

const (
	PipeMain PipeKind = iota
	PipeLateral
)

// Pipe is one segment of the distribution tree. UpstreamID links to the
// feeding pipe; zero means the segment taps its source directly.
type Pipe struct {
	ID         uint64         `json:"id"`
	Pos        course.GridPos `json:"pos"`
	Kind       PipeKind       `json:"kind"`
	SourceID   uint64         `json:"source_id"`
	UpstreamID uint64         `json:"upstream_id,omitempty"`

	InstalledDay  int  `json:"installed_day"`
	LastRepairDay int  `json:"last_repair_day"`
	Leaking       bool `json:"leaking"`

	// Delivered pressure 0-100, recomputed every tick. Persisted so a
	// restored snapshot renders correctly before its first tick.
	Pressure float64 `json:"pressure"`
}

// TimeRange is a watering window in minutes of the day, [Start, End).
// Windows do not wrap midnight; schedules that straddle it use two ranges.
type TimeRange struct {
	StartMinute int `json:"start_minute"`
	EndMinute   int `json:"end_minute"`
}

// Contains reports whether a minute-of-day falls inside the window.
func (r TimeRange) Contains(minute float64) bool {
	return minute >= float64(r.StartMinute) && minute < float64(r.EndMinute)
}

// Schedule controls when a sprinkler head runs.
type Schedule struct {
	Enabled  bool        `json:"enabled"`
	Windows  []TimeRange `json:"windows"`
	SkipRain bool        `json:"skip_rain"`
}

// ShouldBeActive evaluates the schedule against the clock and weather.
func (s Schedule) ShouldBeActive(minuteOfDay float64, raining bool) bool {
	if !s.Enabled {
		return false
	}
	if s.SkipRain && raining {
		return false
	}
	for _, w := range s.Windows {
		if w.Contains(minuteOfDay) {
			return true
		}
	}
	return false
}

// CoverageTile is one tile a head reaches, with its spray efficiency.
type CoverageTile struct {
	Pos        course.GridPos `json:"pos"`
	Efficiency float64        `json:"efficiency"`
}

// Sprinkler is a head fed by a pipe segment.
type Sprinkler struct {
	ID       uint64         `json:"id"`
	Pos      course.GridPos `json:"pos"`
	PipeID   uint64         `json:"pipe_id"`
	Coverage []CoverageTile `json:"coverage"`
	Active   bool           `json:"active"`
	Schedule Schedule       `json:"schedule"`
}

// Source is a water supply point with a per-unit usage cost.
type Source struct {
	ID       uint64         `json:"id"`
	Pos      course.GridPos `json:"pos"`
	UnitCost econ.Cents     `json:"unit_cost"` // cents per moisture unit
}

// Network is the complete irrigation system state.
type Network struct {
	Pipes      []Pipe      `json:"pipes"`
	Sprinklers []Sprinkler `json:"sprinklers"`
	Sources    []Source    `json:"sources"`
}

// pipeByID builds a lookup for one tick's pressure walk.
func (n *Network) pipeByID() map[uint64]*Pipe {
	m := make(map[uint64]*Pipe, len(n.Pipes))
	for i := range n.Pipes {
		m[n.Pipes[i].ID] = &n.Pipes[i]
	}
	return m
}

func (n *Network) sourceByID() map[uint64]*Source {
	m := make(map[uint64]*Source, len(n.Sources))
	for i := range n.Sources {
		m[n.Sources[i].ID] = &n.Sources[i]
	}
	return m
}

// FindPipe returns the pipe with the given ID, or nil.
func (n *Network) FindPipe(id uint64) *Pipe {
	for i := range n.Pipes {
		if n.Pipes[i].ID == id {
			return &n.Pipes[i]
		}
	}
	return nil
}

// Repair clears a leak on a pipe and stamps the repair day. Returns false
// when the pipe does not exist or is not leaking; the caller charges the
// repair cost through the ledger only on success.
func (n *Network) Repair(pipeID uint64, day int) bool {
	p := n.FindPipe(pipeID)
	if p == nil || !p.Leaking {
		return false
	}
	p.Leaking = false
	p.LastRepairDay = day
	return true
}

// LeakCount tallies currently leaking pipes.
func (n *Network) LeakCount() int {
	count := 0
	for i := range n.Pipes {
		if n.Pipes[i].Leaking {
			count++
		}
	}
	return count
}
