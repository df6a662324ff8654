package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/farmstead/internal/domain/models"
	"github.com/mamadbah2/farmstead/internal/repository"
	"github.com/mamadbah2/farmstead/internal/repository/memory"
	"github.com/mamadbah2/farmstead/internal/service/vet"
)

type fakeSink struct {
	saved []models.DailyReport
	err   error
}

func (f *fakeSink) SaveDailyReport(_ context.Context, report models.DailyReport) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, report)
	return nil
}

var now = time.Date(2024, 6, 14, 10, 0, 0, 0, time.UTC)

func at(d, h int) time.Time {
	return time.Date(2024, 6, d, h, 0, 0, 0, time.UTC)
}

func seedFarm(t *testing.T) *repository.Set {
	t.Helper()
	set := memory.NewSet()
	ctx := context.Background()

	pigs := []models.Pig{
		{ID: "boar", TagID: "B-01", Stage: models.StageBoar, Status: models.StatusActive},
		{ID: "sow", TagID: "S-01", Stage: models.StageSow, Status: models.StatusActive},
		{ID: "bro", TagID: "G-01", Stage: models.StageGrower, Status: models.StatusActive, SireID: "B-01", DamID: "S-01"},
		{ID: "sis", TagID: "G-02", Stage: models.StageGilt, Status: models.StatusActive, SireID: "boar", DamID: "sow"},
		{ID: "kid", TagID: "P-01", Stage: models.StagePiglet, Status: models.StatusActive, SireID: "G-01", DamID: "G-02"},
		{ID: "sold", TagID: "X-01", Stage: models.StageFinisher, Status: models.StatusSold},
		{ID: "dead", TagID: "X-02", Stage: models.StageWeaner, Status: models.StatusDeceased},
	}
	for _, p := range pigs {
		require.NoError(t, set.Pigs.Save(ctx, p.ID, p))
	}

	require.NoError(t, set.Feed.Save(ctx, "grower", models.FeedInventory{ID: "grower", Name: "Grower", QuantityKg: 500, ReorderLevelKg: 100}))
	require.NoError(t, set.Feed.Save(ctx, "starter", models.FeedInventory{ID: "starter", Name: "Starter", QuantityKg: 40, ReorderLevelKg: 50}))

	for i, rec := range []models.FinanceRecord{
		{Date: at(14, 8), Type: models.EntryIncome, Category: "sales", Amount: 1000},
		{Date: at(14, 9), Type: models.EntryExpense, Category: "feed", Amount: 300},
		{Date: at(10, 12), Type: models.EntryExpense, Category: "vet", Amount: 200},
		{Date: at(1, 12), Type: models.EntryIncome, Category: "sales", Amount: 500},
	} {
		rec.ID = string(rune('a' + i))
		require.NoError(t, set.Finance.Save(ctx, rec.ID, rec))
	}

	for _, task := range []models.Task{
		{ID: "t1", Title: "Clean pens", DueDate: at(13, 9), Status: models.TaskPending},
		{ID: "t2", Title: "Weigh growers", DueDate: at(14, 15), Status: models.TaskPending},
		{ID: "t3", Title: "Fix fence", DueDate: at(12, 9), Status: models.TaskDone},
		{ID: "t4", Title: "Order straw", DueDate: at(20, 9), Status: models.TaskPending},
	} {
		require.NoError(t, set.Tasks.Save(ctx, task.ID, task))
	}

	due := at(16, 0)
	require.NoError(t, set.HealthRecords.Save(ctx, "h1", models.HealthRecord{
		ID: "h1", PigID: "S-01", Date: at(1, 0), Kind: models.HealthVaccination, Protocol: "PCV2", NextDueDate: &due,
	}))
	return set
}

func newReporting(t *testing.T, sink ReportSink) *Service {
	set := seedFarm(t)
	return NewService(set, vet.NewService(set, nil), sink, 7*24*time.Hour, nil)
}

func TestDailyReport(t *testing.T) {
	svc := newReporting(t, nil)

	report, err := svc.DailyReport(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, at(14, 0), report.Date)
	assert.Equal(t, 5, report.HerdSize)
	assert.Equal(t, 1, report.HerdByStage["piglet"])
	assert.Equal(t, 1, report.Sold)
	assert.Equal(t, 1, report.Deceased)
	assert.Equal(t, 540.0, report.FeedStockKg)
	assert.Equal(t, []string{"Starter"}, report.LowStockItems)
	assert.Equal(t, 1000.0, report.Income)
	assert.Equal(t, 300.0, report.Expenses)
	assert.Equal(t, 700.0, report.Profit)
	assert.Equal(t, 3, report.OpenTasks)
	assert.Equal(t, 1, report.OverdueTasks)
	assert.Equal(t, 1, report.VaccinationsDue)
	assert.Equal(t, 1, report.InbreedingAlerts)
}

func TestGenerateAndStore(t *testing.T) {
	sink := &fakeSink{}
	svc := newReporting(t, sink)

	report, err := svc.GenerateAndStore(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, sink.saved, 1)
	assert.Equal(t, report.Profit, sink.saved[0].Profit)

	sink.err = errors.New("mongo unavailable")
	_, err = svc.GenerateAndStore(context.Background(), now)
	assert.ErrorContains(t, err, "persist daily report")
}

func TestWeeklyDigest(t *testing.T) {
	svc := newReporting(t, nil)

	text, err := svc.WeeklyDigest(context.Background(), now)
	require.NoError(t, err)

	assert.Contains(t, text, "Weekly digest (2024-06-07-2024-06-14)")
	assert.Contains(t, text, "Herd: 5 active (1 boar, 1 gilt, 1 grower, 1 piglet, 1 sow).")
	assert.Contains(t, text, "1 sold, 1 deceased")
	assert.Contains(t, text, "income 1000.00, expenses 500.00, net 500.00")
	assert.Contains(t, text, "Largest expense: feed (300.00).")
	assert.Contains(t, text, "Reorder: Starter.")
	assert.Contains(t, text, "Tasks: 3 open, 1 overdue.")
	assert.Contains(t, text, "Inbreeding alerts: 1.")
}

func TestWeeklyDigestEmptyFarm(t *testing.T) {
	set := memory.NewSet()
	svc := NewService(set, nil, nil, 0, nil)

	text, err := svc.WeeklyDigest(context.Background(), now)
	require.NoError(t, err)
	assert.Contains(t, text, "Herd: 0 active.")
	assert.Contains(t, text, "Finance: no records this week.")
	assert.NotContains(t, text, "Inbreeding")
}

func TestReminders(t *testing.T) {
	svc := newReporting(t, nil)

	text, err := svc.Reminders(context.Background(), now)
	require.NoError(t, err)
	assert.Contains(t, text, "Reminders for 2024-06-14")
	assert.Contains(t, text, "- Task: Clean pens (overdue since 2024-06-13)")
	assert.Contains(t, text, "- Task: Weigh growers (due today)")
	assert.NotContains(t, text, "Order straw")
	assert.NotContains(t, text, "Fix fence")
	assert.Contains(t, text, "- Vaccinate S-01: PCV2 by 2024-06-16")
	assert.Contains(t, text, "- Reorder Starter: 40.0 kg left")

	quiet := NewService(memory.NewSet(), nil, nil, 0, nil)
	text, err = quiet.Reminders(context.Background(), now)
	require.NoError(t, err)
	assert.Empty(t, text)
}
