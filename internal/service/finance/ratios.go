package finance

import (
	"strings"
	"time"

	"github.com/mamadbah2/farmstead/internal/domain/models"
)

// Summary aggregates ledger entries over a period.
type Summary struct {
	From            time.Time          `json:"from,omitempty"`
	To              time.Time          `json:"to,omitempty"`
	Income          float64            `json:"income"`
	Expenses        float64            `json:"expenses"`
	Net             float64            `json:"net"`
	ProfitMarginPct float64            `json:"profitMarginPct"`
	ExpenseRatioPct float64            `json:"expenseRatioPct"`
	IncomeByCat     map[string]float64 `json:"incomeByCategory"`
	ExpenseByCat    map[string]float64 `json:"expenseByCategory"`
	Entries         int                `json:"entries"`
}

// Summarize totals the records dated within [from, to]. Zero bounds are open.
func Summarize(records []models.FinanceRecord, from, to time.Time) Summary {
	s := Summary{
		From:         from,
		To:           to,
		IncomeByCat:  map[string]float64{},
		ExpenseByCat: map[string]float64{},
	}
	for _, rec := range records {
		if !within(rec.Date, from, to) {
			continue
		}
		category := strings.ToLower(strings.TrimSpace(rec.Category))
		switch rec.Type {
		case models.EntryIncome:
			s.Income += rec.Amount
			s.IncomeByCat[category] += rec.Amount
		case models.EntryExpense:
			s.Expenses += rec.Amount
			s.ExpenseByCat[category] += rec.Amount
		default:
			continue
		}
		s.Entries++
	}
	s.Income = roundCents(s.Income)
	s.Expenses = roundCents(s.Expenses)
	s.Net = roundCents(s.Income - s.Expenses)
	s.ProfitMarginPct = roundCents(safeDiv(s.Net, s.Income) * 100)
	s.ExpenseRatioPct = roundCents(safeDiv(s.Expenses, s.Income) * 100)
	return s
}

// BalanceSheet holds the balances the ratio screen asks the farmer for.
type BalanceSheet struct {
	CurrentAssets      float64 `json:"currentAssets"`
	CurrentLiabilities float64 `json:"currentLiabilities"`
	TotalAssets        float64 `json:"totalAssets"`
	TotalLiabilities   float64 `json:"totalLiabilities"`
	NetIncome          float64 `json:"netIncome"`
	Revenue            float64 `json:"revenue"`
}

// Ratios are the standard farm solvency and profitability ratios.
type Ratios struct {
	CurrentRatio   float64 `json:"currentRatio"`
	WorkingCapital float64 `json:"workingCapital"`
	DebtToAsset    float64 `json:"debtToAsset"`
	DebtToEquity   float64 `json:"debtToEquity"`
	Equity         float64 `json:"equity"`
	ReturnOnAssets float64 `json:"returnOnAssetsPct"`
	NetMarginPct   float64 `json:"netMarginPct"`
	AssetTurnover  float64 `json:"assetTurnover"`
}

// ComputeRatios derives ratios from a balance sheet. A zero denominator yields 0.
func ComputeRatios(b BalanceSheet) Ratios {
	equity := b.TotalAssets - b.TotalLiabilities
	return Ratios{
		CurrentRatio:   roundCents(safeDiv(b.CurrentAssets, b.CurrentLiabilities)),
		WorkingCapital: roundCents(b.CurrentAssets - b.CurrentLiabilities),
		DebtToAsset:    roundCents(safeDiv(b.TotalLiabilities, b.TotalAssets)),
		DebtToEquity:   roundCents(safeDiv(b.TotalLiabilities, equity)),
		Equity:         roundCents(equity),
		ReturnOnAssets: roundCents(safeDiv(b.NetIncome, b.TotalAssets) * 100),
		NetMarginPct:   roundCents(safeDiv(b.NetIncome, b.Revenue) * 100),
		AssetTurnover:  roundCents(safeDiv(b.Revenue, b.TotalAssets)),
	}
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func within(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && t.After(to) {
		return false
	}
	return true
}
