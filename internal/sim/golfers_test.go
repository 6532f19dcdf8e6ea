package sim

import (
	"math/rand"
	"testing"

	"github.com/hollybrook/fairway/internal/econ"
	"github.com/hollybrook/fairway/internal/weather"
)

func TestStochasticCountBracketsRate(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		n := stochasticCount(3.4, rng)
		if n != 3 && n != 4 {
			t.Fatalf("stochasticCount(3.4) = %d, want 3 or 4", n)
		}
	}
	if stochasticCount(0, rng) != 0 {
		t.Error("zero rate produced arrivals")
	}
	if stochasticCount(-2, rng) != 0 {
		t.Error("negative rate produced arrivals")
	}
}

func TestStochasticCountMeanConverges(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	const rate, runs = 2.7, 20000
	total := 0
	for i := 0; i < runs; i++ {
		total += stochasticCount(rate, rng)
	}
	mean := float64(total) / runs
	if mean < rate-0.05 || mean > rate+0.05 {
		t.Errorf("mean = %.3f, want about %.1f", mean, rate)
	}
}

func TestGolferProgressionDeparts(t *testing.T) {
	st := &State{Clock: NewClock()}
	st.Golfers.admit(1, 400, 9, 70, false)
	rng := rand.New(rand.NewSource(3))

	// 9 holes at ~4.5 holes/hour finishes inside 130 minutes.
	var departures []Departure
	for i := 0; i < 130 && len(departures) == 0; i++ {
		departures = st.progressGolfers(1, 70, weather.State{Condition: weather.Sunny}, rng)
	}
	if len(departures) != 1 {
		t.Fatalf("departures = %d, want 1", len(departures))
	}
	if len(st.Golfers.Active) != 0 {
		t.Errorf("pool still holds %d golfers", len(st.Golfers.Active))
	}
	if st.Golfers.RoundsToday != 1 {
		t.Errorf("rounds today = %d, want 1", st.Golfers.RoundsToday)
	}
	d := departures[0]
	if d.Satisfaction < 0 || d.Satisfaction > 100 {
		t.Errorf("satisfaction out of range: %.1f", d.Satisfaction)
	}
}

func TestRainSlowsPlay(t *testing.T) {
	dry := &State{Clock: NewClock()}
	wet := &State{Clock: NewClock()}
	dry.Golfers.admit(1, 400, 9, 50, false)
	wet.Golfers.admit(1, 400, 9, 50, false)
	rng := rand.New(rand.NewSource(1))

	dry.progressGolfers(30, 50, weather.State{Condition: weather.Sunny}, rng)
	wet.progressGolfers(30, 50, weather.State{Condition: weather.Rainy}, rng)

	if wet.Golfers.Active[0].HolesPlayed >= dry.Golfers.Active[0].HolesPlayed {
		t.Errorf("rain pace %.2f holes >= dry pace %.2f holes",
			wet.Golfers.Active[0].HolesPlayed, dry.Golfers.Active[0].HolesPlayed)
	}
}

func TestArrivalsRespectCapacityAndCountRejections(t *testing.T) {
	tuning := testTuning()
	tuning.MaxGolfersOnCourse = 2
	tuning.BaseArrivalsPerHour = 50 // force overflow

	st := &State{Clock: NewClock(), Weather: weather.State{Condition: weather.Sunny}}
	rng := rand.New(rand.NewSource(9))

	admitted, rejected := st.simulateArrivals(tuning, 1.0, 60, rng)
	if admitted != 2 {
		t.Errorf("admitted = %d, want capacity 2", admitted)
	}
	if rejected <= 0 {
		t.Error("overflow produced no rejections")
	}
	if st.Golfers.RejectionsToday != rejected {
		t.Errorf("rejection counter = %d, want %d", st.Golfers.RejectionsToday, rejected)
	}
	wantLost := tuning.GreenFee * econ.Cents(rejected)
	if st.Golfers.LostRevenueToday != wantLost {
		t.Errorf("lost revenue = %d, want %d (%d rejections x green fee)",
			st.Golfers.LostRevenueToday, wantLost, rejected)
	}

	st.Golfers.ResetDaily()
	if st.Golfers.LostRevenueToday != 0 {
		t.Errorf("lost revenue after reset = %d, want 0", st.Golfers.LostRevenueToday)
	}
}

func TestArrivalsOnlyDuringOpenHours(t *testing.T) {
	st := &State{Clock: NewClock(), Weather: weather.State{Condition: weather.Sunny}}
	st.Clock.MinuteOfDay = 3 * 60 // 03:00
	rng := rand.New(rand.NewSource(9))

	admitted, rejected := st.simulateArrivals(testTuning(), 1.0, 60, rng)
	if admitted != 0 || rejected != 0 {
		t.Errorf("pre-dawn arrivals: admitted %d rejected %d", admitted, rejected)
	}
}
