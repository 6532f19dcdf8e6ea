package sim

import (
	"github.com/hollybrook/fairway/internal/econ"
	"github.com/hollybrook/fairway/internal/weather"
)

// excellenceHistoryCap bounds the daily condition history carried in
// snapshots; prestige only ever reads the trailing window.
const excellenceHistoryCap = 30

// endOfDay runs the hour-22 bundle, strictly ordered: finalize revenue,
// marketing charges, utilities, condition snapshot, day summary,
// autosave request, then the daily counter resets. Later steps read
// figures produced by earlier ones, so the order is load-bearing.
func (s *Simulation) endOfDay(condition float64) {
	st := s.State
	day := st.Clock.Day
	minute := st.Clock.MinuteOfDay

	revenue := st.Ledger.Today.TotalIncome()

	for _, name := range st.Marketing.tickDaily(st.Ledger, day, minute) {
		s.notify("finance", "campaign ended: "+name, "")
	}

	if !st.Ledger.AddExpense(day, minute, econ.CatUtilities, s.Tuning.UtilityDaily, "daily utilities") {
		s.notify("finance", "could not cover utilities", "critical")
	}

	st.Excellence = append(st.Excellence, condition)
	if len(st.Excellence) > excellenceHistoryCap {
		st.Excellence = st.Excellence[len(st.Excellence)-excellenceHistoryCap:]
	}

	expenses := st.Ledger.Today.TotalExpense()
	summary := DaySummary{
		Day:             day,
		Revenue:         revenue,
		Expenses:        expenses,
		Net:             revenue - expenses,
		Cash:            st.Ledger.Cash,
		Rounds:          st.Golfers.RoundsToday,
		Rejections:      st.Golfers.RejectionsToday,
		LostRevenue:     st.Golfers.LostRevenueToday,
		NoShows:         st.TeeSheet.NoShowsToday,
		AvgSatisfaction: st.Golfers.AvgSatisfactionToday(),
		Condition:       condition,
		Prestige:        st.Prestige.Score,
		Weather:         weather.ConditionName(st.Weather.Condition),
	}
	s.DaySummaries = append(s.DaySummaries, summary)
	s.logger.Info("day summary",
		"day", summary.Day,
		"revenue", summary.Revenue.Dollars(),
		"expenses", summary.Expenses.Dollars(),
		"cash", summary.Cash.Dollars(),
		"rounds", summary.Rounds,
		"condition", summary.Condition,
	)

	s.autosaveWanted = true

	st.Ledger.ResetDaily()
	st.Golfers.ResetDaily()
	st.TeeSheet.ResetDaily(day)
}
