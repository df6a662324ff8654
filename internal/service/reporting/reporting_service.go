package reporting

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mamadbah2/farmstead/internal/domain/models"
	"github.com/mamadbah2/farmstead/internal/repository"
	"github.com/mamadbah2/farmstead/internal/service/finance"
	"github.com/mamadbah2/farmstead/internal/service/lineage"
	"github.com/mamadbah2/farmstead/internal/service/livestock"
	"github.com/mamadbah2/farmstead/internal/service/vet"
)

const dateLayout = "2006-01-02"

// ReportSink persists generated daily reports.
type ReportSink interface {
	SaveDailyReport(ctx context.Context, report models.DailyReport) error
}

// VaccinationSource lists boosters coming due.
type VaccinationSource interface {
	DueVaccinations(ctx context.Context, now time.Time, window time.Duration) ([]vet.DueVaccination, error)
}

// Service builds farm snapshots and the text summaries sent to the manager.
type Service struct {
	set          *repository.Set
	vaccinations VaccinationSource
	sink         ReportSink
	window       time.Duration
	logger       *zap.Logger
}

// NewService wires a new reporting service instance. sink may be nil when
// reports are not persisted.
func NewService(set *repository.Set, vaccinations VaccinationSource, sink ReportSink, window time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{set: set, vaccinations: vaccinations, sink: sink, window: window, logger: logger}
}

// snapshot is everything a report reads, loaded in one parallel pass.
type snapshot struct {
	pigs     []models.Pig
	feed     []models.FeedInventory
	finance  []models.FinanceRecord
	tasks    []models.Task
	dueShots []vet.DueVaccination
}

func (s *Service) load(ctx context.Context, now time.Time) (snapshot, error) {
	var snap snapshot
	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		pigs, err := s.set.Pigs.List(egCtx)
		if err != nil {
			return fmt.Errorf("load pigs: %w", err)
		}
		snap.pigs = pigs
		return nil
	})
	eg.Go(func() error {
		feed, err := s.set.Feed.List(egCtx)
		if err != nil {
			return fmt.Errorf("load feed: %w", err)
		}
		snap.feed = feed
		return nil
	})
	eg.Go(func() error {
		records, err := s.set.Finance.List(egCtx)
		if err != nil {
			return fmt.Errorf("load finance: %w", err)
		}
		snap.finance = records
		return nil
	})
	eg.Go(func() error {
		tasks, err := s.set.Tasks.List(egCtx)
		if err != nil {
			return fmt.Errorf("load tasks: %w", err)
		}
		snap.tasks = tasks
		return nil
	})
	if s.vaccinations != nil {
		eg.Go(func() error {
			due, err := s.vaccinations.DueVaccinations(egCtx, now, s.window)
			if err != nil {
				return fmt.Errorf("load vaccinations: %w", err)
			}
			snap.dueShots = due
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return snapshot{}, err
	}
	return snap, nil
}

// DailyReport aggregates the farm state for the calendar day containing now.
func (s *Service) DailyReport(ctx context.Context, now time.Time) (models.DailyReport, error) {
	snap, err := s.load(ctx, now)
	if err != nil {
		return models.DailyReport{}, err
	}
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return build(snap, dayStart, dayEnd, now), nil
}

func build(snap snapshot, from, to, now time.Time) models.DailyReport {
	herd := livestock.Count(snap.pigs)
	report := models.DailyReport{
		Date:            from,
		HerdSize:        herd.Active,
		HerdByStage:     herd.ByStage,
		Sold:            herd.ByStatus[string(models.StatusSold)],
		Deceased:        herd.ByStatus[string(models.StatusDeceased)],
		LowStockItems:   []string{},
		VaccinationsDue: len(snap.dueShots),
		CreatedAt:       now.UTC(),
	}

	for _, f := range snap.feed {
		report.FeedStockKg += f.QuantityKg
		if f.Low() {
			report.LowStockItems = append(report.LowStockItems, f.Name)
		}
	}

	summary := finance.Summarize(snap.finance, from, to)
	report.Income = summary.Income
	report.Expenses = summary.Expenses
	report.Profit = summary.Net

	for _, t := range snap.tasks {
		if t.Status != models.TaskPending {
			continue
		}
		report.OpenTasks++
		if t.Overdue(now) {
			report.OverdueTasks++
		}
	}

	ix := lineage.NewIndex(snap.pigs)
	for _, p := range snap.pigs {
		if p.Status == models.StatusActive && ix.CheckOverlap(p, lineage.DefaultDepth).Risk {
			report.InbreedingAlerts++
		}
	}
	return report
}

// GenerateAndStore builds today's report and hands it to the sink.
func (s *Service) GenerateAndStore(ctx context.Context, now time.Time) (models.DailyReport, error) {
	report, err := s.DailyReport(ctx, now)
	if err != nil {
		return models.DailyReport{}, err
	}
	if s.sink != nil {
		if err := s.sink.SaveDailyReport(ctx, report); err != nil {
			return report, fmt.Errorf("persist daily report: %w", err)
		}
	}
	s.logger.Info("daily report generated",
		zap.Time("date", report.Date),
		zap.Int("herd", report.HerdSize),
		zap.Float64("profit", report.Profit))
	return report, nil
}

// WeeklyDigest summarises the seven days ending at end as a chat message.
func (s *Service) WeeklyDigest(ctx context.Context, end time.Time) (string, error) {
	snap, err := s.load(ctx, end)
	if err != nil {
		return "", err
	}
	start := end.AddDate(0, 0, -7)
	report := build(snap, start, end, end)
	summary := finance.Summarize(snap.finance, start, end)

	var b strings.Builder
	fmt.Fprintf(&b, "Weekly digest (%s-%s)\n", start.Format(dateLayout), end.Format(dateLayout))
	fmt.Fprintf(&b, "Herd: %d active%s.\n", report.HerdSize, stageBreakdown(report.HerdByStage))
	if report.Sold > 0 || report.Deceased > 0 {
		fmt.Fprintf(&b, "Off-farm to date: %d sold, %d deceased.\n", report.Sold, report.Deceased)
	}
	if summary.Entries == 0 {
		b.WriteString("Finance: no records this week.\n")
	} else {
		fmt.Fprintf(&b, "Finance: income %.2f, expenses %.2f, net %.2f.\n", summary.Income, summary.Expenses, summary.Net)
		if cat, amount := largest(summary.ExpenseByCat); cat != "" {
			fmt.Fprintf(&b, "Largest expense: %s (%.2f).\n", cat, amount)
		}
	}
	fmt.Fprintf(&b, "Feed on hand: %.1f kg.", report.FeedStockKg)
	if len(report.LowStockItems) > 0 {
		fmt.Fprintf(&b, " Reorder: %s.", strings.Join(report.LowStockItems, ", "))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Tasks: %d open, %d overdue.\n", report.OpenTasks, report.OverdueTasks)
	fmt.Fprintf(&b, "Vaccinations due: %d.", report.VaccinationsDue)
	if report.InbreedingAlerts > 0 {
		fmt.Fprintf(&b, "\nInbreeding alerts: %d.", report.InbreedingAlerts)
	}
	return b.String(), nil
}

// Reminders lists today's actionable items: due tasks, boosters and low feed.
// It returns an empty string when there is nothing to send.
func (s *Service) Reminders(ctx context.Context, now time.Time) (string, error) {
	snap, err := s.load(ctx, now)
	if err != nil {
		return "", err
	}
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	endOfDay := dayStart.AddDate(0, 0, 1).Add(-time.Nanosecond)

	var lines []string
	for _, t := range snap.tasks {
		if t.Status != models.TaskPending || t.DueDate.IsZero() || t.DueDate.After(endOfDay) {
			continue
		}
		state := "due today"
		if t.DueDate.Before(dayStart) {
			state = "overdue since " + t.DueDate.Format(dateLayout)
		}
		lines = append(lines, fmt.Sprintf("- Task: %s (%s)", t.Title, state))
	}
	for _, v := range snap.dueShots {
		lines = append(lines, fmt.Sprintf("- Vaccinate %s: %s by %s", v.Label, v.Protocol, v.DueDate.Format(dateLayout)))
	}
	for _, f := range snap.feed {
		if f.Low() {
			lines = append(lines, fmt.Sprintf("- Reorder %s: %.1f kg left", f.Name, f.QuantityKg))
		}
	}
	if len(lines) == 0 {
		return "", nil
	}
	return fmt.Sprintf("Reminders for %s\n%s", now.Format(dateLayout), strings.Join(lines, "\n")), nil
}

func stageBreakdown(byStage map[string]int) string {
	if len(byStage) == 0 {
		return ""
	}
	keys := make([]string, 0, len(byStage))
	for k := range byStage {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%d %s", byStage[k], k))
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

func largest(m map[string]float64) (string, float64) {
	var best string
	var amount float64
	for k, v := range m {
		if v > amount || (v == amount && k < best) {
			best, amount = k, v
		}
	}
	return best, amount
}
