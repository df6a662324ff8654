package finance

import (
	"sort"
	"strings"

	"github.com/mamadbah2/farmstead/internal/domain/models"
)

// VarianceLine compares plan and actual spending for one category.
type VarianceLine struct {
	Category string  `json:"category"`
	Planned  float64 `json:"planned"`
	Actual   float64 `json:"actual"`
	Variance float64 `json:"variance"`
	UsedPct  float64 `json:"usedPct"`
	Over     bool    `json:"over"`
}

// BudgetVariance matches the budgets of period (YYYY-MM) against expense
// records dated in that month. Categories compare case-insensitively; spending
// without a budget shows up with Planned == 0.
func BudgetVariance(budgets []models.BudgetRecord, records []models.FinanceRecord, period string) []VarianceLine {
	lines := map[string]*VarianceLine{}
	get := func(category string) *VarianceLine {
		key := strings.ToLower(strings.TrimSpace(category))
		line, ok := lines[key]
		if !ok {
			line = &VarianceLine{Category: key}
			lines[key] = line
		}
		return line
	}

	for _, b := range budgets {
		if b.Period != period {
			continue
		}
		get(b.Category).Planned += b.Planned
	}
	for _, rec := range records {
		if rec.Type != models.EntryExpense || rec.Date.Format(models.PeriodLayout) != period {
			continue
		}
		get(rec.Category).Actual += rec.Amount
	}

	out := make([]VarianceLine, 0, len(lines))
	for _, line := range lines {
		line.Planned = roundCents(line.Planned)
		line.Actual = roundCents(line.Actual)
		line.Variance = roundCents(line.Planned - line.Actual)
		line.UsedPct = roundCents(safeDiv(line.Actual, line.Planned) * 100)
		line.Over = line.Actual > line.Planned
		out = append(out, *line)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}
