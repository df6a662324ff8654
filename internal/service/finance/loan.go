// Package finance holds the farm's closed-form financial formulas and the
// ledger service that feeds them with recorded transactions.
package finance

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidInput marks a formula argument outside its domain.
	ErrInvalidInput = errors.New("invalid input")
	// ErrPaymentTooLow is returned when a payment never amortizes the principal.
	ErrPaymentTooLow = errors.New("payment does not cover monthly interest")
)

// maxScheduleMonths caps amortization schedules at 100 years.
const maxScheduleMonths = 1200

// epsilon absorbs float noise before rounding months up.
const epsilon = 1e-9

func monthlyRate(annualRatePct float64) float64 {
	return annualRatePct / 100 / 12
}

func badFloat(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return true
		}
	}
	return false
}

// Payment is the level monthly payment that retires principal in months.
func Payment(principal, annualRatePct float64, months int) (float64, error) {
	if badFloat(principal, annualRatePct) || months <= 0 {
		return 0, fmt.Errorf("payment for %d months: %w", months, ErrInvalidInput)
	}
	r := monthlyRate(annualRatePct)
	if r == 0 {
		return principal / float64(months), nil
	}
	return principal * r / (1 - math.Pow(1+r, -float64(months))), nil
}

// MonthsToPayoff returns the fractional number of months a payment needs to
// retire principal: -ln(1 - rP/M) / ln(1 + r).
func MonthsToPayoff(principal, annualRatePct, payment float64) (float64, error) {
	if badFloat(principal, annualRatePct, payment) {
		return 0, ErrInvalidInput
	}
	if principal == 0 {
		return 0, nil
	}
	if payment == 0 {
		return 0, ErrPaymentTooLow
	}
	r := monthlyRate(annualRatePct)
	if r == 0 {
		return principal / payment, nil
	}
	if payment <= r*principal {
		return 0, ErrPaymentTooLow
	}
	return -math.Log(1-r*principal/payment) / math.Log(1+r), nil
}

// PayoffPlan compares the base repayment with an accelerated one.
type PayoffPlan struct {
	BaseMonths          int     `json:"baseMonths"`
	AcceleratedMonths   int     `json:"acceleratedMonths"`
	MonthsSaved         int     `json:"monthsSaved"`
	BaseInterest        float64 `json:"baseInterest"`
	AcceleratedInterest float64 `json:"acceleratedInterest"`
	InterestSaved       float64 `json:"interestSaved"`
}

// PayoffAccelerator estimates the effect of adding extra to every monthly payment.
// MonthsSaved and InterestSaved are never negative.
func PayoffAccelerator(principal, annualRatePct, payment, extra float64) (PayoffPlan, error) {
	if badFloat(extra) {
		return PayoffPlan{}, fmt.Errorf("extra payment: %w", ErrInvalidInput)
	}

	base, err := MonthsToPayoff(principal, annualRatePct, payment)
	if err != nil {
		return PayoffPlan{}, fmt.Errorf("base schedule: %w", err)
	}
	accelerated, err := MonthsToPayoff(principal, annualRatePct, payment+extra)
	if err != nil {
		return PayoffPlan{}, fmt.Errorf("accelerated schedule: %w", err)
	}

	plan := PayoffPlan{
		BaseMonths:          ceilMonths(base),
		AcceleratedMonths:   ceilMonths(accelerated),
		BaseInterest:        roundCents(math.Max(0, payment*base-principal)),
		AcceleratedInterest: roundCents(math.Max(0, (payment+extra)*accelerated-principal)),
	}
	plan.MonthsSaved = max(0, plan.BaseMonths-plan.AcceleratedMonths)
	plan.InterestSaved = roundCents(math.Max(0, plan.BaseInterest-plan.AcceleratedInterest))
	return plan, nil
}

// ScheduleRow is one month of an amortization table.
type ScheduleRow struct {
	Month     int     `json:"month"`
	Payment   float64 `json:"payment"`
	Interest  float64 `json:"interest"`
	Principal float64 `json:"principal"`
	Balance   float64 `json:"balance"`
}

// Schedule lists every payment until the balance reaches zero. The final
// payment is reduced to the remaining balance plus interest.
func Schedule(principal, annualRatePct, payment float64) ([]ScheduleRow, error) {
	if _, err := MonthsToPayoff(principal, annualRatePct, payment); err != nil {
		return nil, err
	}

	r := monthlyRate(annualRatePct)
	balance := principal
	var rows []ScheduleRow
	for month := 1; balance > epsilon && month <= maxScheduleMonths; month++ {
		interest := balance * r
		pay := math.Min(payment, balance+interest)
		toPrincipal := pay - interest
		balance -= toPrincipal
		if balance < 0.005 {
			balance = 0
		}
		rows = append(rows, ScheduleRow{
			Month:     month,
			Payment:   roundCents(pay),
			Interest:  roundCents(interest),
			Principal: roundCents(toPrincipal),
			Balance:   roundCents(balance),
		})
	}
	return rows, nil
}

func ceilMonths(m float64) int {
	return int(math.Ceil(m - epsilon))
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
