package scenario

import (
	"strings"
	"testing"
)

const sampleJSON = `{
	"name": "First Season",
	"description": "Turn the course around before winter.",
	"objectives": [
		{"name": "build a war chest", "target_cash": 5000000, "by_day": 30},
		{"name": "respectable turf", "target_condition": 70}
	]
}`

func TestParseValid(t *testing.T) {
	sc, err := Parse([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if sc.Name != "First Season" {
		t.Errorf("name = %q", sc.Name)
	}
	if len(sc.Objectives) != 2 {
		t.Fatalf("objectives = %d, want 2", len(sc.Objectives))
	}
	if sc.Objectives[0].TargetCash != 5000000 {
		t.Errorf("target_cash = %d", sc.Objectives[0].TargetCash)
	}
	if sc.Objectives[0].ByDay != 30 {
		t.Errorf("by_day = %d", sc.Objectives[0].ByDay)
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"not json", `{`},
		{"missing objectives", `{"name": "x"}`},
		{"empty objectives", `{"name": "x", "objectives": []}`},
		{"unknown field", `{"name": "x", "objectives": [{"name": "y", "bogus": 1}]}`},
		{"prestige out of range", `{"name": "x", "objectives": [{"name": "y", "target_prestige": 150}]}`},
	}
	for _, tc := range cases {
		if _, err := Parse([]byte(tc.raw)); err == nil {
			t.Errorf("%s: Parse accepted invalid input", tc.name)
		}
	}
}

func TestEvaluateWinAndRetention(t *testing.T) {
	sc, err := Parse([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	p := NewProgress(sc)

	// First objective met, second not: no status change yet.
	if changed := Evaluate(sc, Metrics{Day: 5, Cash: 6000000, Condition: 50}, &p); changed {
		t.Error("partial completion should not change status")
	}
	if !p.Completed[0] || p.Completed[1] {
		t.Fatalf("completed = %v, want [true false]", p.Completed)
	}

	// Cash dips back below target; completion must stick.
	Evaluate(sc, Metrics{Day: 6, Cash: 100, Condition: 50}, &p)
	if !p.Completed[0] {
		t.Error("completed objective regressed")
	}

	if changed := Evaluate(sc, Metrics{Day: 7, Cash: 100, Condition: 80}, &p); !changed {
		t.Error("winning evaluation should report a change")
	}
	if p.Status != StatusWon {
		t.Errorf("status = %v, want won", p.Status)
	}

	// Terminal status is sticky.
	if changed := Evaluate(sc, Metrics{Day: 8}, &p); changed {
		t.Error("evaluation after terminal status should be a no-op")
	}
}

func TestEvaluateDeadlineLoss(t *testing.T) {
	sc, err := Parse([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	p := NewProgress(sc)

	// Day 30 is still within the deadline.
	Evaluate(sc, Metrics{Day: 30, Cash: 0, Condition: 0}, &p)
	if p.Status != StatusInProgress {
		t.Fatalf("status on deadline day = %v, want in progress", p.Status)
	}

	if changed := Evaluate(sc, Metrics{Day: 31, Cash: 0, Condition: 0}, &p); !changed {
		t.Error("missed deadline should report a change")
	}
	if p.Status != StatusLost {
		t.Errorf("status = %v, want lost", p.Status)
	}
}

func TestStatusName(t *testing.T) {
	if got := StatusName(StatusWon); got != "won" {
		t.Errorf("StatusName(won) = %q", got)
	}
	if got := StatusName(StatusInProgress); !strings.Contains(got, "progress") {
		t.Errorf("StatusName(in progress) = %q", got)
	}
}
