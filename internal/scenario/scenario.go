// Package scenario provides scenario definitions, JSON loading with
// schema validation, and objective evaluation on the hourly tick.
package scenario

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/hollybrook/fairway/internal/econ"
)

// Objective is one winnable condition. Zero-valued targets are ignored;
// ByDay of zero means no deadline.
type Objective struct {
	Name            string     `json:"name"`
	TargetCash      econ.Cents `json:"target_cash,omitempty"`
	TargetPrestige  float64    `json:"target_prestige,omitempty"`
	TargetCondition float64    `json:"target_condition,omitempty"`
	ByDay           int        `json:"by_day,omitempty"`
}

// Scenario is a named set of objectives. All objectives must complete;
// missing any deadline loses the scenario.
type Scenario struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Objectives  []Objective `json:"objectives"`
}

// Metrics is the narrow read slice of simulation state objectives see.
type Metrics struct {
	Day        int
	Cash       econ.Cents
	Prestige   float64
	Condition  float64
	Reputation float64
}

// Status is the scenario outcome so far.
type Status uint8

const (
	StatusInProgress Status = iota
	StatusWon
	StatusLost
)

// StatusName returns a human-readable status label.
func StatusName(s Status) string {
	switch s {
	case StatusWon:
		return "won"
	case StatusLost:
		return "lost"
	}
	return "in progress"
}

// Progress tracks per-objective completion; it lives in the simulation
// state record and round-trips through snapshots.
type Progress struct {
	Status    Status `json:"status"`
	Completed []bool `json:"completed,omitempty"`
}

// NewProgress sizes a progress record for a scenario.
func NewProgress(sc *Scenario) Progress {
	if sc == nil {
		return Progress{}
	}
	return Progress{Completed: make([]bool, len(sc.Objectives))}
}

// Evaluate refreshes progress against current metrics. Returns true when
// the overall status changed, so the orchestrator can notify. Completed
// objectives stay completed; a passed deadline on an incomplete objective
// loses the scenario.
func Evaluate(sc *Scenario, m Metrics, p *Progress) bool {
	if sc == nil || p.Status != StatusInProgress {
		return false
	}
	if len(p.Completed) != len(sc.Objectives) {
		p.Completed = make([]bool, len(sc.Objectives))
	}

	allDone := true
	for i, obj := range sc.Objectives {
		if !p.Completed[i] && objectiveMet(obj, m) {
			p.Completed[i] = true
		}
		if !p.Completed[i] {
			allDone = false
			if obj.ByDay > 0 && m.Day > obj.ByDay {
				p.Status = StatusLost
				return true
			}
		}
	}
	if allDone && len(sc.Objectives) > 0 {
		p.Status = StatusWon
		return true
	}
	return false
}

func objectiveMet(o Objective, m Metrics) bool {
	if o.TargetCash > 0 && m.Cash < o.TargetCash {
		return false
	}
	if o.TargetPrestige > 0 && m.Prestige < o.TargetPrestige {
		return false
	}
	if o.TargetCondition > 0 && m.Condition < o.TargetCondition {
		return false
	}
	return true
}

// schemaJSON validates scenario files before decoding, so a malformed
// definition fails loudly at startup instead of mid-run.
const schemaJSON = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["name", "objectives"],
	"properties": {
		"name": {"type": "string", "minLength": 1},
		"description": {"type": "string"},
		"objectives": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["name"],
				"properties": {
					"name": {"type": "string", "minLength": 1},
					"target_cash": {"type": "integer", "minimum": 0},
					"target_prestige": {"type": "number", "minimum": 0, "maximum": 100},
					"target_condition": {"type": "number", "minimum": 0, "maximum": 100},
					"by_day": {"type": "integer", "minimum": 0}
				},
				"additionalProperties": false
			}
		}
	},
	"additionalProperties": false
}`

// Load reads and validates a scenario definition file.
func Load(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return Parse(raw)
}

// Parse validates and decodes scenario JSON.
func Parse(raw []byte) (*Scenario, error) {
	schema, err := jsonschema.CompileString("scenario.json", schemaJSON)
	if err != nil {
		return nil, fmt.Errorf("compile scenario schema: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	var sc Scenario
	if err := json.Unmarshal(raw, &sc); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	return &sc, nil
}
