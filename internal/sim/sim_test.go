package sim

import (
	"io"
	"log/slog"
	"testing"

	"github.com/hollybrook/fairway/internal/config"
	"github.com/hollybrook/fairway/internal/crew"
	"github.com/hollybrook/fairway/internal/econ"
)

func testTuning() config.Tuning {
	t := config.Default()
	t.Seed = 42
	t.CourseWidth = 24
	t.CourseHeight = 24
	t.Holes = 2
	return t
}

func testSim() *Simulation {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(testTuning(), nil, logger)
}

func countCategory(txs []econ.Transaction, cat econ.Category) int {
	n := 0
	for _, tx := range txs {
		if tx.Category == cat {
			n++
		}
	}
	return n
}

func TestPayrollFiresOncePerHour(t *testing.T) {
	s := testSim()
	workers := len(s.State.Workers)
	if workers == 0 {
		t.Fatal("no starter crew")
	}

	// 31 one-second frames at 1x = 62 sim-minutes starting at 06:00.
	// The payroll gate fires for hour 6 on the first frame and for
	// hour 7 at the boundary: exactly two firings.
	for i := 0; i < 31; i++ {
		s.Advance(1000)
	}

	got := countCategory(s.State.Ledger.Transactions, econ.CatPayroll)
	if got != 2*workers {
		t.Errorf("payroll transactions = %d, want %d (two hourly firings x %d workers)",
			got, 2*workers, workers)
	}
}

func TestSingleLargeAdvanceFiresHourlyHandlersOnce(t *testing.T) {
	s := testSim()
	workers := len(s.State.Workers)
	if workers == 0 {
		t.Fatal("no starter crew")
	}

	// One 30.5-second frame at 1x is 61 sim-minutes: 06:00 -> 07:01.
	// The payroll gate must fire exactly once, not once per hour mark
	// crossed and not zero times.
	s.Advance(30500)

	got := countCategory(s.State.Ledger.Transactions, econ.CatPayroll)
	if got != workers {
		t.Errorf("payroll transactions = %d, want %d (one firing x %d workers)",
			got, workers, workers)
	}
}

func TestEndOfDayBundleRunsExactlyOnce(t *testing.T) {
	s := testSim()
	s.State.Clock.MinuteOfDay = 21*60 + 50
	s.State.Clock.SetSpeed(1)

	// Run from 21:50 day 1 through 06:10 day 2.
	for i := 0; i < 250; i++ {
		s.Advance(1000)
	}

	if s.State.Clock.Day != 2 {
		t.Fatalf("day = %d, want 2", s.State.Clock.Day)
	}
	if len(s.DaySummaries) != 1 {
		t.Fatalf("day summaries = %d, want exactly 1", len(s.DaySummaries))
	}
	sum := s.DaySummaries[0]
	if sum.Day != 1 {
		t.Errorf("summary day = %d, want 1", sum.Day)
	}
	if sum.Net != sum.Revenue-sum.Expenses {
		t.Errorf("summary net %d != revenue %d - expenses %d", sum.Net, sum.Revenue, sum.Expenses)
	}

	// The bundle charged utilities exactly once.
	if got := countCategory(s.State.Ledger.Transactions, econ.CatUtilities); got != 1 {
		t.Errorf("utility charges = %d, want 1", got)
	}

	// Daily counters were reset for day 2.
	if s.State.Golfers.RoundsToday != 0 && s.State.Clock.Hour() < openHour {
		t.Errorf("rounds counter not reset: %d", s.State.Golfers.RoundsToday)
	}
}

func TestAutosaveRequestedHourly(t *testing.T) {
	s := testSim()
	s.Advance(1000)
	if !s.TakeAutosaveRequest() {
		t.Fatal("first tick should request an autosave")
	}
	if s.TakeAutosaveRequest() {
		t.Fatal("request flag was not cleared")
	}

	// Crossing into the next hour raises it again.
	for i := 0; i < 30; i++ {
		s.Advance(1000)
	}
	if !s.TakeAutosaveRequest() {
		t.Error("hour boundary did not request an autosave")
	}
}

func TestTeeSheetGeneratedAtHourFive(t *testing.T) {
	s := testSim()
	s.State.Clock.MinuteOfDay = 4*60 + 58

	for i := 0; i < 5; i++ {
		s.Advance(1000)
	}

	if _, ok := s.State.TeeSheet.Days[1]; !ok {
		t.Fatal("no tee slots generated for day 1 at hour 5")
	}
	slots := s.State.TeeSheet.Days[1]
	if len(slots) == 0 {
		t.Fatal("empty slot grid")
	}
	for _, slot := range slots {
		if slot.Minute < firstSlotHour*60 || slot.Minute >= (lastSlotHour+1)*60 {
			t.Errorf("slot minute %d outside tee hours", slot.Minute)
		}
	}
}

func TestSimulationIsDeterministicForFixedSeed(t *testing.T) {
	run := func() econ.Cents {
		s := testSim()
		s.State.Clock.SetSpeed(8)
		for i := 0; i < 400; i++ {
			s.Advance(1000)
		}
		return s.State.Ledger.Cash
	}
	a, b := run(), run()
	if a != b {
		t.Errorf("two seeded runs diverged: %s vs %s", a.Dollars(), b.Dollars())
	}
}

func TestHireWorkerRespectsRosterCap(t *testing.T) {
	s := testSim()
	s.Tuning.MaxRoster = len(s.State.Workers) + 1

	if _, err := s.HireWorker("Lane Porter"); err != nil {
		t.Fatalf("hire within cap: %v", err)
	}
	if _, err := s.HireWorker("Avery Stone"); err == nil {
		t.Fatal("hire beyond cap succeeded")
	}
	posted := countCategory(s.State.Ledger.Transactions, econ.CatHiring)
	if posted != 1 {
		t.Errorf("posting fees = %d, want 1", posted)
	}
}

func TestFireWorkerDiscardsState(t *testing.T) {
	s := testSim()
	id := s.State.Workers[0].ID
	before := len(s.State.Workers)

	if err := s.FireWorker(id); err != nil {
		t.Fatalf("FireWorker: %v", err)
	}
	if len(s.State.Workers) != before-1 {
		t.Errorf("roster = %d, want %d", len(s.State.Workers), before-1)
	}
	if err := s.FireWorker(id); err == nil {
		t.Error("firing a gone worker succeeded")
	}
}

func TestBuyRobotChargesLedger(t *testing.T) {
	s := testSim()
	cashBefore := s.State.Ledger.Cash

	r, err := s.BuyRobot(crew.RobotMower)
	if err != nil {
		t.Fatalf("BuyRobot: %v", err)
	}
	if s.State.Ledger.Cash != cashBefore-s.Tuning.RobotPrice {
		t.Errorf("cash = %s, want %s", s.State.Ledger.Cash.Dollars(), (cashBefore - s.Tuning.RobotPrice).Dollars())
	}
	if r.Battery != 100 || r.Home != s.spawn {
		t.Errorf("robot not initialized at station: battery %.1f home %v", r.Battery, r.Home)
	}

	// Drain the bank and the next purchase must fail.
	s.State.Ledger.Cash = s.Tuning.RobotPrice - 1
	if _, err := s.BuyRobot(crew.RobotSprayer); err == nil {
		t.Error("purchase with insufficient cash succeeded")
	}
}

func TestStartResearchAndCampaignPreconditions(t *testing.T) {
	s := testSim()

	if err := s.StartResearch(0); err != nil {
		t.Fatalf("StartResearch: %v", err)
	}
	if err := s.StartResearch(1); err == nil {
		t.Error("second concurrent research project accepted")
	}

	if err := s.StartCampaign(0); err != nil {
		t.Fatalf("StartCampaign: %v", err)
	}
	if err := s.StartCampaign(0); err == nil {
		t.Error("duplicate campaign accepted")
	}
	if s.State.Marketing.DemandMultiplier() <= 1.0 {
		t.Errorf("active campaign demand multiplier = %.2f, want > 1", s.State.Marketing.DemandMultiplier())
	}
}
