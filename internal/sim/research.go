package sim

import "github.com/hollybrook/fairway/internal/econ"

// ResearchProject is a purchasable crew improvement. Funding drains
// hourly until Cost is met; the effect applies once on completion.
type ResearchProject struct {
	Name            string     `json:"name"`
	Cost            econ.Cents `json:"cost"`
	HourlyFunding   econ.Cents `json:"hourly_funding"`
	EfficiencyBoost float64    `json:"efficiency_boost,omitempty"` // added to every worker
	RobotBoost      float64    `json:"robot_boost,omitempty"`      // added to every robot
}

// ResearchState tracks the active project and everything finished.
type ResearchState struct {
	Active    *ResearchProject `json:"active,omitempty"`
	Funded    econ.Cents       `json:"funded"`
	Completed []string         `json:"completed,omitempty"`
}

// ResearchCatalog lists the projects offered, in unlock order.
var ResearchCatalog = []ResearchProject{
	{Name: "agronomy training", Cost: 2_000_00, HourlyFunding: 25_00, EfficiencyBoost: 0.10},
	{Name: "precision mowing", Cost: 5_000_00, HourlyFunding: 40_00, EfficiencyBoost: 0.15},
	{Name: "autonomous routing firmware", Cost: 3_500_00, HourlyFunding: 30_00, RobotBoost: 0.20},
}

// done reports whether a named project has already completed.
func (r *ResearchState) done(name string) bool {
	for _, n := range r.Completed {
		if n == name {
			return true
		}
	}
	return false
}

// fundHourly moves one hour of funding from the ledger into the active
// project. Returns the completed project, or nil. Funding that the
// ledger rejects (insufficient cash) simply stalls the project.
func (r *ResearchState) fundHourly(ledger *econ.Ledger, day int, minute float64) *ResearchProject {
	if r.Active == nil {
		return nil
	}
	amount := r.Active.HourlyFunding
	if remaining := r.Active.Cost - r.Funded; amount > remaining {
		amount = remaining
	}
	if amount > 0 {
		if !ledger.AddExpense(day, minute, econ.CatResearch, amount, "research: "+r.Active.Name) {
			return nil
		}
		r.Funded += amount
	}
	if r.Funded < r.Active.Cost {
		return nil
	}
	finished := r.Active
	r.Completed = append(r.Completed, finished.Name)
	r.Active = nil
	r.Funded = 0
	return finished
}
