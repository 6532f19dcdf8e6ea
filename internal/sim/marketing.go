package sim

import "github.com/hollybrook/fairway/internal/econ"

// Campaign is a running marketing push: a daily charge for a fixed
// number of days, boosting demand while active.
type Campaign struct {
	Name          string     `json:"name"`
	DailyCost     econ.Cents `json:"daily_cost"`
	DaysRemaining int        `json:"days_remaining"`
	DemandBoost   float64    `json:"demand_boost"` // multiplier while active, e.g. 1.2
}

// MarketingState holds active campaigns. Multiple campaigns stack
// multiplicatively.
type MarketingState struct {
	Campaigns []Campaign `json:"campaigns,omitempty"`
}

// CampaignCatalog lists the campaigns on offer.
var CampaignCatalog = []Campaign{
	{Name: "local radio spots", DailyCost: 60_00, DaysRemaining: 7, DemandBoost: 1.15},
	{Name: "regional magazine feature", DailyCost: 140_00, DaysRemaining: 14, DemandBoost: 1.30},
	{Name: "tournament sponsorship", DailyCost: 300_00, DaysRemaining: 5, DemandBoost: 1.50},
}

// DemandMultiplier returns the combined boost from every active campaign.
func (m *MarketingState) DemandMultiplier() float64 {
	mult := 1.0
	for _, c := range m.Campaigns {
		mult *= c.DemandBoost
	}
	return mult
}

// tickDaily charges each campaign's daily cost and retires finished
// ones. A campaign whose charge the ledger rejects is cancelled early.
// Returns the names of campaigns that ended this day.
func (m *MarketingState) tickDaily(ledger *econ.Ledger, day int, minute float64) (ended []string) {
	kept := m.Campaigns[:0]
	for _, c := range m.Campaigns {
		if !ledger.AddExpense(day, minute, econ.CatMarketing, c.DailyCost, "marketing: "+c.Name) {
			ended = append(ended, c.Name)
			continue
		}
		c.DaysRemaining--
		if c.DaysRemaining <= 0 {
			ended = append(ended, c.Name)
			continue
		}
		kept = append(kept, c)
	}
	m.Campaigns = kept
	return ended
}
