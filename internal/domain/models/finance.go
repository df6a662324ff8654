package models

import (
	"strings"
	"time"
)

// EntryType separates income from expense.
type EntryType string

const (
	EntryIncome  EntryType = "income"
	EntryExpense EntryType = "expense"
)

// FinanceRecord is one ledger entry.
type FinanceRecord struct {
	ID          string    `bson:"_id" json:"id"`
	Date        time.Time `bson:"date" json:"date"`
	Type        EntryType `bson:"type" json:"type"`
	Category    string    `bson:"category" json:"category"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Amount      float64   `bson:"amount" json:"amount"`
	Reference   string    `bson:"reference,omitempty" json:"reference,omitempty"`
}

// Validate checks the required ledger fields.
func (f *FinanceRecord) Validate() error {
	f.Type = EntryType(strings.ToLower(string(f.Type)))
	if f.Type != EntryIncome && f.Type != EntryExpense {
		return invalid("type", "type must be income or expense")
	}
	if strings.TrimSpace(f.Category) == "" {
		return invalid("category", "category required")
	}
	if f.Amount < 0 {
		return invalid("amount", "amount must not be negative")
	}
	if f.Date.IsZero() {
		return invalid("date", "date required")
	}
	return nil
}

// BudgetRecord plans spending for one category in one month (YYYY-MM).
type BudgetRecord struct {
	ID       string  `bson:"_id" json:"id"`
	Category string  `bson:"category" json:"category"`
	Period   string  `bson:"period" json:"period"`
	Planned  float64 `bson:"planned" json:"planned"`
}

// PeriodLayout is the month format used by budgets.
const PeriodLayout = "2006-01"

// Validate checks the required budget fields.
func (b *BudgetRecord) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return invalid("category", "category required")
	}
	if _, err := time.Parse(PeriodLayout, b.Period); err != nil {
		return invalid("period", "period must be YYYY-MM")
	}
	if b.Planned < 0 {
		return invalid("planned", "planned amount must not be negative")
	}
	return nil
}

// LoanRecord is an outstanding farm loan.
type LoanRecord struct {
	ID             string    `bson:"_id" json:"id"`
	Lender         string    `bson:"lender" json:"lender"`
	Principal      float64   `bson:"principal" json:"principal"`
	AnnualRatePct  float64   `bson:"annual_rate_pct" json:"annualRatePct"`
	MonthlyPayment float64   `bson:"monthly_payment" json:"monthlyPayment"`
	TermMonths     int       `bson:"term_months,omitempty" json:"termMonths,omitempty"`
	StartDate      time.Time `bson:"start_date" json:"startDate"`
}

// Validate checks the required loan fields.
func (l *LoanRecord) Validate() error {
	if strings.TrimSpace(l.Lender) == "" {
		return invalid("lender", "lender required")
	}
	if l.Principal <= 0 {
		return invalid("principal", "principal must be positive")
	}
	if l.AnnualRatePct < 0 {
		return invalid("annualRatePct", "rate must not be negative")
	}
	if l.MonthlyPayment <= 0 && l.TermMonths <= 0 {
		return invalid("monthlyPayment", "monthly payment or term required")
	}
	return nil
}
