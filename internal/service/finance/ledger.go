package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmstead/internal/domain/models"
	"github.com/mamadbah2/farmstead/internal/repository"
	"github.com/mamadbah2/farmstead/internal/repository/sheets"
)

// Service records ledger entries and runs the formulas over stored records.
type Service struct {
	records repository.Store[models.FinanceRecord]
	budgets repository.Store[models.BudgetRecord]
	loans   repository.Store[models.LoanRecord]
	mirror  sheets.Ledger
	logger  *zap.Logger
	now     func() time.Time
}

// NewService wires the ledger. mirror may be nil when no spreadsheet is configured.
func NewService(set *repository.Set, mirror sheets.Ledger, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		records: set.Finance,
		budgets: set.Budgets,
		loans:   set.Loans,
		mirror:  mirror,
		logger:  logger,
		now:     time.Now,
	}
}

// Record validates and stores a ledger entry, then mirrors it to the spreadsheet.
// Mirror failures are logged; the store remains the source of truth.
func (s *Service) Record(ctx context.Context, rec models.FinanceRecord) (models.FinanceRecord, error) {
	if rec.Date.IsZero() {
		rec.Date = s.now().UTC()
	}
	if err := rec.Validate(); err != nil {
		return models.FinanceRecord{}, err
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	if err := s.records.Save(ctx, rec.ID, rec); err != nil {
		return models.FinanceRecord{}, fmt.Errorf("save finance record: %w", err)
	}

	s.logger.Info("finance record saved",
		zap.String("id", rec.ID),
		zap.String("type", string(rec.Type)),
		zap.String("category", rec.Category),
		zap.Float64("amount", rec.Amount))

	if err := s.mirrorRecord(ctx, rec); err != nil {
		s.logger.Warn("ledger mirror failed", zap.String("id", rec.ID), zap.Error(err))
	}
	return rec, nil
}

func (s *Service) mirrorRecord(ctx context.Context, rec models.FinanceRecord) error {
	if s.mirror == nil {
		return nil
	}
	return s.mirror.AppendLedgerRow(ctx, sheets.LedgerRow{
		Date:        rec.Date,
		Type:        string(rec.Type),
		Category:    rec.Category,
		Description: rec.Description,
		Amount:      rec.Amount,
		Reference:   rec.Reference,
	})
}

// Summary totals the ledger over [from, to].
func (s *Service) Summary(ctx context.Context, from, to time.Time) (Summary, error) {
	records, err := s.records.List(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("load finance records: %w", err)
	}
	return Summarize(records, from, to), nil
}

// Tax estimates tax on the net profit of [from, to].
func (s *Service) Tax(ctx context.Context, from, to time.Time, bands []TaxBand) (TaxEstimate, error) {
	summary, err := s.Summary(ctx, from, to)
	if err != nil {
		return TaxEstimate{}, err
	}
	return EstimateTax(summary.Net, bands)
}

// BudgetVariance compares the period's budgets with recorded expenses.
func (s *Service) BudgetVariance(ctx context.Context, period string) ([]VarianceLine, error) {
	if _, err := time.Parse(models.PeriodLayout, period); err != nil {
		return nil, fmt.Errorf("period %q: %w", period, ErrInvalidInput)
	}
	budgets, err := s.budgets.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load budgets: %w", err)
	}
	records, err := s.records.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load finance records: %w", err)
	}
	return BudgetVariance(budgets, records, period), nil
}

// loanPayment is the loan's stated payment, or the level payment for its term.
func loanPayment(loan models.LoanRecord) (float64, error) {
	if loan.MonthlyPayment > 0 {
		return loan.MonthlyPayment, nil
	}
	return Payment(loan.Principal, loan.AnnualRatePct, loan.TermMonths)
}

// LoanPayoff runs the payoff accelerator on a stored loan.
func (s *Service) LoanPayoff(ctx context.Context, loanID string, extra float64) (PayoffPlan, error) {
	loan, err := s.loans.Get(ctx, loanID)
	if err != nil {
		return PayoffPlan{}, err
	}
	payment, err := loanPayment(loan)
	if err != nil {
		return PayoffPlan{}, err
	}
	return PayoffAccelerator(loan.Principal, loan.AnnualRatePct, payment, extra)
}

// LoanSchedule builds the amortization table of a stored loan.
func (s *Service) LoanSchedule(ctx context.Context, loanID string) ([]ScheduleRow, error) {
	loan, err := s.loans.Get(ctx, loanID)
	if err != nil {
		return nil, err
	}
	payment, err := loanPayment(loan)
	if err != nil {
		return nil, err
	}
	return Schedule(loan.Principal, loan.AnnualRatePct, payment)
}
