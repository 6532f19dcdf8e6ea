package persistence

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/hollybrook/fairway/internal/course"
	"github.com/hollybrook/fairway/internal/crew"
	"github.com/hollybrook/fairway/internal/econ"
	"github.com/hollybrook/fairway/internal/irrigation"
	"github.com/hollybrook/fairway/internal/sim"
	"github.com/hollybrook/fairway/internal/weather"
)

// midGameState builds a state with the awkward cases a restore must
// preserve: a worker mid-task, an active leak, and a tee day that has
// been generated but not yet played.
func midGameState(t *testing.T) (*sim.State, *course.Map) {
	t.Helper()
	terrain := course.Generate(course.SmallTestConfig())

	target := course.GridPos{X: 5, Y: 5}
	st := &sim.State{
		Clock:   sim.NewClock(),
		Weather: weather.State{Condition: weather.Rainy, HoursHeld: 2},
		Gates:   sim.NewHourGates(),
		Seed:    42,
		Ledger:  econ.NewLedger(10_000_00),
		Workers: []*crew.Worker{{
			ID:           7,
			Name:         "Sam Whitlow",
			Pos:          course.GridPos{X: 4, Y: 5},
			Task:         crew.TaskMow,
			Target:       &target,
			Path:         []course.GridPos{{X: 5, Y: 5}},
			WorkProgress: 37.5,
			Efficiency:   1.2,
			OnDuty:       true,
			HourlyWage:   18_00,
		}},
		Robots: []*crew.Robot{{
			Worker:  crew.Worker{ID: 8, Name: "mower unit 8", Pos: course.GridPos{X: 1, Y: 1}},
			Kind:    crew.RobotMower,
			Battery: 64.5,
			Home:    course.GridPos{X: 0, Y: 0},
		}},
		NextWorkerID: 8,
		Network: irrigation.Network{
			Sources: []irrigation.Source{{ID: 1, Pos: course.GridPos{X: 2, Y: 2}, UnitCost: 2}},
			Pipes: []irrigation.Pipe{
				{ID: 1, Pos: course.GridPos{X: 2, Y: 2}, Kind: irrigation.PipeMain, SourceID: 1, InstalledDay: 1},
				{ID: 2, Pos: course.GridPos{X: 3, Y: 2}, Kind: irrigation.PipeLateral, SourceID: 1, UpstreamID: 1, InstalledDay: 1, Leaking: true},
			},
			Sprinklers: []irrigation.Sprinkler{{
				ID: 1, Pos: course.GridPos{X: 3, Y: 2}, PipeID: 2, Active: true,
				Coverage: []irrigation.CoverageTile{{Pos: course.GridPos{X: 3, Y: 3}, Efficiency: 1}},
				Schedule: irrigation.Schedule{Enabled: true, Windows: []irrigation.TimeRange{{StartMinute: 240, EndMinute: 300}}, SkipRain: true},
			}},
		},
		TeeSheet:   sim.NewTeeSheet(),
		Prestige:   sim.PrestigeState{Score: 61.5, Amenities: 2},
		Reputation: 48,
		Excellence: []float64{55, 58, 60},
	}
	st.Ledger.AddIncome(1, 400, econ.CatGreenFees, 45_00, "green fees")

	// A generated-but-unfired tee day.
	st.TeeSheet.Days[3] = []sim.TeeSlot{
		{Minute: 360, Booked: true},
		{Minute: 370},
	}
	return st, terrain
}

func TestSnapshotRoundTripIsStable(t *testing.T) {
	st, terrain := midGameState(t)

	first, err := Capture(st, terrain)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}

	restoredState, restoredTerrain, err := Restore(first)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	second, err := Capture(restoredState, restoredTerrain)
	if err != nil {
		t.Fatalf("second Capture: %v", err)
	}

	a, err := json.Marshal(first)
	if err != nil {
		t.Fatal(err)
	}
	b, err := json.Marshal(second)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("capture -> restore -> capture is not byte-stable")
	}

	// Spot-check the awkward fields survived.
	w := restoredState.Workers[0]
	if w.Task != crew.TaskMow || w.Target == nil || w.WorkProgress != 37.5 {
		t.Errorf("mid-task worker mangled: task=%v target=%v progress=%.1f", w.Task, w.Target, w.WorkProgress)
	}
	if !restoredState.Network.Pipes[1].Leaking {
		t.Error("active leak lost")
	}
	slots := restoredState.TeeSheet.Days[3]
	if len(slots) != 2 || !slots[0].Booked {
		t.Errorf("unfired tee day mangled: %+v", slots)
	}
}

func TestCaptureIsADeepCopy(t *testing.T) {
	st, terrain := midGameState(t)
	snap, err := Capture(st, terrain)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}

	st.Workers[0].WorkProgress = 99
	st.Network.Pipes[1].Leaking = false

	if snap.State.Workers[0].WorkProgress == 99 {
		t.Error("snapshot shares worker state with the live simulation")
	}
	if !snap.State.Network.Pipes[1].Leaking {
		t.Error("snapshot shares network state with the live simulation")
	}
}

func TestSnapshotFileRoundTrip(t *testing.T) {
	st, terrain := midGameState(t)
	snap, err := Capture(st, terrain)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}

	path := filepath.Join(t.TempDir(), "saves", "day1.fws")
	if err := WriteSnapshot(path, snap); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	loaded, err := ReadSnapshot(path)
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}

	a, _ := json.Marshal(snap)
	b, _ := json.Marshal(loaded)
	if !bytes.Equal(a, b) {
		t.Error("snapshot changed across the file round trip")
	}
}

func TestRestoreRejectsBadSnapshots(t *testing.T) {
	if _, _, err := Restore(&Snapshot{Version: 99}); err == nil {
		t.Error("unknown version accepted")
	}
	if _, _, err := Restore(&Snapshot{Version: SnapshotVersion}); err == nil {
		t.Error("empty snapshot accepted")
	}
}

func TestTeeSheetLegacyMapFormAccepted(t *testing.T) {
	raw := []byte(`{"days": {"3": [{"minute": 360, "booked": true}]}, "bookings_today": 1}`)
	var sheet sim.TeeSheet
	if err := json.Unmarshal(raw, &sheet); err != nil {
		t.Fatalf("legacy form rejected: %v", err)
	}
	if len(sheet.Days[3]) != 1 || !sheet.Days[3][0].Booked {
		t.Errorf("legacy days mangled: %+v", sheet.Days)
	}
	if sheet.BookingsToday != 1 {
		t.Errorf("counters lost: %d", sheet.BookingsToday)
	}
}

func TestAutosaveToSQLite(t *testing.T) {
	st, _ := midGameState(t)

	db, err := Open(filepath.Join(t.TempDir(), "fairway.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	summaries := []sim.DaySummary{{
		Day: 1, Revenue: 45_00, Expenses: 20_00, Net: 25_00, Cash: 10_025_00,
		Rounds: 1, AvgSatisfaction: 72.5, Condition: 60, Prestige: 61.5, Weather: "rainy",
	}}
	if err := db.SaveState(st, summaries); err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	// Saving twice must not duplicate full-replace tables.
	if err := db.SaveState(st, summaries); err != nil {
		t.Fatalf("second SaveState: %v", err)
	}

	got, err := db.DaySummaries()
	if err != nil {
		t.Fatalf("DaySummaries: %v", err)
	}
	if len(got) != 1 || got[0].Day != 1 || got[0].Net != 25_00 {
		t.Errorf("summaries = %+v", got)
	}

	day, err := db.GetMeta("day")
	if err != nil || day != "1" {
		t.Errorf("meta day = %q, err %v", day, err)
	}
}
