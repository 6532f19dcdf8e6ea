// Package econ provides the course ledger: cash, the transaction log,
// and per-day revenue/expense accumulators.
// See DESIGN.md for the accounting decisions.
package econ

import (
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// Cents is a money amount in integer cents, so the conservation
// invariant (cash = initial + income - expenses) holds exactly.
type Cents int64

// Dollars formats an amount as a dollar string for logs and reports.
func (c Cents) Dollars() string {
	neg := ""
	if c < 0 {
		neg = "-"
		c = -c
	}
	return neg + "$" + humanize.Comma(int64(c/100)) + centsSuffix(c%100)
}

func centsSuffix(rem Cents) string {
	if rem == 0 {
		return ""
	}
	return "." + string([]byte{byte('0' + rem/10), byte('0' + rem%10)})
}

// Kind distinguishes money flowing in from money flowing out.
type Kind uint8

const (
	KindIncome  Kind = 0
	KindExpense Kind = 1
)

// Category buckets transactions for daily stats and summaries.
type Category uint8

const (
	CatGreenFees Category = iota // Golfer round fees
	CatTips                      // Departure tips
	CatAmenities                 // Pro shop, cart rental, concessions
	CatPayroll                   // Hourly wages
	CatWater                     // Irrigation usage
	CatUtilities                 // Fixed daily overhead
	CatSupplies                  // Task consumables (fertilizer, sand, fuel)
	CatRepairs                   // Pipe leak repairs, robot servicing
	CatMarketing                 // Campaign charges
	CatResearch                  // Research funding
	CatHiring                    // Job-posting fees
	CatEquipment                 // Robot purchase/sale
)

// NumCategories is the total number of transaction categories.
const NumCategories = 12

// CategoryName returns a human-readable label for a category.
func CategoryName(c Category) string {
	names := [NumCategories]string{
		"green fees", "tips", "amenities", "payroll", "water",
		"utilities", "supplies", "repairs", "marketing", "research",
		"hiring", "equipment",
	}
	if int(c) < len(names) {
		return names[c]
	}
	return "unknown"
}

// Transaction is one accepted ledger entry.
type Transaction struct {
	ID       string   `json:"id"`
	Day      int      `json:"day"`
	Minute   float64  `json:"minute"`
	Kind     Kind     `json:"kind"`
	Category Category `json:"category"`
	Amount   Cents    `json:"amount"`
	Note     string   `json:"note,omitempty"`
}

// DailyStats accumulates today's money flow by category.
// Fixed-size arrays instead of maps: inline, allocation-free, and
// they serialize losslessly.
type DailyStats struct {
	Income  [NumCategories]Cents `json:"income"`
	Expense [NumCategories]Cents `json:"expense"`
}

// TotalIncome sums all income categories.
func (d *DailyStats) TotalIncome() Cents {
	var t Cents
	for _, v := range d.Income {
		t += v
	}
	return t
}

// TotalExpense sums all expense categories.
func (d *DailyStats) TotalExpense() Cents {
	var t Cents
	for _, v := range d.Expense {
		t += v
	}
	return t
}

// Net returns today's income minus expenses.
func (d *DailyStats) Net() Cents {
	return d.TotalIncome() - d.TotalExpense()
}

// Ledger tracks cash and the full transaction history.
type Ledger struct {
	Cash         Cents         `json:"cash"`
	Transactions []Transaction `json:"transactions"`
	Today        DailyStats    `json:"today"`
}

// NewLedger creates a ledger with starting cash.
func NewLedger(startingCash Cents) *Ledger {
	return &Ledger{Cash: startingCash}
}

// CanAfford reports whether an expense of the given amount would be accepted.
func (l *Ledger) CanAfford(amount Cents) bool {
	return amount > 0 && l.Cash >= amount
}

// AddIncome records income. Returns false (ledger unchanged) for
// non-positive amounts; callers must check.
func (l *Ledger) AddIncome(day int, minute float64, cat Category, amount Cents, note string) bool {
	if amount <= 0 {
		return false
	}
	l.Cash += amount
	l.Today.Income[cat] += amount
	l.Transactions = append(l.Transactions, Transaction{
		ID:       uuid.NewString(),
		Day:      day,
		Minute:   minute,
		Kind:     KindIncome,
		Category: cat,
		Amount:   amount,
		Note:     note,
	})
	return true
}

// AddExpense records an expense. Returns false (ledger unchanged) for
// non-positive amounts or insufficient cash; callers must check.
func (l *Ledger) AddExpense(day int, minute float64, cat Category, amount Cents, note string) bool {
	if amount <= 0 || l.Cash < amount {
		return false
	}
	l.Cash -= amount
	l.Today.Expense[cat] += amount
	l.Transactions = append(l.Transactions, Transaction{
		ID:       uuid.NewString(),
		Day:      day,
		Minute:   minute,
		Kind:     KindExpense,
		Category: cat,
		Amount:   amount,
		Note:     note,
	})
	return true
}

// ResetDaily returns today's stats and zeroes the accumulators.
// Called at day rollover after the day summary has read them.
func (l *Ledger) ResetDaily() DailyStats {
	today := l.Today
	l.Today = DailyStats{}
	return today
}

// Range returns all transactions with fromDay <= Day <= toDay,
// in insertion (chronological) order.
func (l *Ledger) Range(fromDay, toDay int) []Transaction {
	var out []Transaction
	for _, tx := range l.Transactions {
		if tx.Day >= fromDay && tx.Day <= toDay {
			out = append(out, tx)
		}
	}
	return out
}

// Summary aggregates a day range into per-category totals.
type Summary struct {
	Income  [NumCategories]Cents
	Expense [NumCategories]Cents
}

// Summarize computes per-category totals over a day range.
func (l *Ledger) Summarize(fromDay, toDay int) Summary {
	var s Summary
	for _, tx := range l.Transactions {
		if tx.Day < fromDay || tx.Day > toDay {
			continue
		}
		if tx.Kind == KindIncome {
			s.Income[tx.Category] += tx.Amount
		} else {
			s.Expense[tx.Category] += tx.Amount
		}
	}
	return s
}
