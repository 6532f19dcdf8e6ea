package sim

import (
	"github.com/hollybrook/fairway/internal/crew"
	"github.com/hollybrook/fairway/internal/econ"
	"github.com/hollybrook/fairway/internal/irrigation"
	"github.com/hollybrook/fairway/internal/scenario"
	"github.com/hollybrook/fairway/internal/weather"
)

// HourGates holds the per-subsystem "last fired hour" markers. Each gated
// step compares its marker against the current hour so it runs exactly
// once per simulated hour regardless of frame rate. -1 means never fired.
type HourGates struct {
	Weather  int `json:"weather"`
	Payroll  int `json:"payroll"`
	Autosave int `json:"autosave"`
	Prestige int `json:"prestige"`
	TeeSheet int `json:"tee_sheet"`
	WalkOns  int `json:"walk_ons"`
	Arrivals int `json:"arrivals"`
	Research int `json:"research"`
	Scenario int `json:"scenario"`
	EndOfDay int `json:"end_of_day"`
}

// NewHourGates returns gates that have never fired.
func NewHourGates() HourGates {
	return HourGates{
		Weather: -1, Payroll: -1, Autosave: -1, Prestige: -1,
		TeeSheet: -1, WalkOns: -1, Arrivals: -1, Research: -1,
		Scenario: -1, EndOfDay: -1,
	}
}

// State is the aggregate simulation record the orchestrator threads
// through every subsystem tick. It is exclusively owned by the
// orchestrator during a tick; snapshots serialize exactly this record.
type State struct {
	Clock   Clock         `json:"clock"`
	Weather weather.State `json:"weather"`
	Gates   HourGates     `json:"gates"`
	Seed    int64         `json:"seed"`

	Ledger *econ.Ledger `json:"ledger"`

	Workers      []*crew.Worker `json:"workers"`
	Robots       []*crew.Robot  `json:"robots"`
	NextWorkerID uint64         `json:"next_worker_id"`

	Network irrigation.Network `json:"network"`

	Golfers   GolferPool     `json:"golfers"`
	TeeSheet  TeeSheet       `json:"tee_sheet"`
	Prestige  PrestigeState  `json:"prestige"`
	Research  ResearchState  `json:"research"`
	Marketing MarketingState `json:"marketing"`

	Reputation float64 `json:"reputation"` // 0-100

	// Daily course-condition snapshots; prestige reads the recent window.
	Excellence []float64 `json:"excellence"`

	ScenarioProgress scenario.Progress `json:"scenario_progress"`
}

// Notification is a fire-and-forget event descriptor surfaced to the
// UI collaborator; no acknowledgement is required. Seq is monotonic so
// stream consumers can resume from the last one seen.
type Notification struct {
	Seq      int64   `json:"seq"`
	Day      int     `json:"day"`
	Minute   float64 `json:"minute"`
	Kind     string  `json:"kind"` // "weather", "finance", "crew", "irrigation", ...
	Message  string  `json:"message"`
	Severity string  `json:"severity,omitempty"` // "", "warning", "critical"
	Duration float64 `json:"duration,omitempty"` // suggested display seconds
}

// DaySummary is the end-of-day report handed to the summary collaborator
// before the daily counters reset.
type DaySummary struct {
	Day             int        `json:"day"`
	Revenue         econ.Cents `json:"revenue"`
	Expenses        econ.Cents `json:"expenses"`
	Net             econ.Cents `json:"net"`
	Cash            econ.Cents `json:"cash"`
	Rounds          int        `json:"rounds"`
	Rejections      int        `json:"rejections"`
	LostRevenue     econ.Cents `json:"lost_revenue"`
	NoShows         int        `json:"no_shows"`
	AvgSatisfaction float64    `json:"avg_satisfaction"`
	Condition       float64    `json:"condition"`
	Prestige        float64    `json:"prestige"`
	Weather         string     `json:"weather"`
}
