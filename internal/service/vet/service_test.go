package vet

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/farmstead/internal/domain/models"
	"github.com/mamadbah2/farmstead/internal/repository/memory"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newVet(t *testing.T) *Service {
	t.Helper()
	set := memory.NewSet()
	ctx := context.Background()
	require.NoError(t, set.Pigs.Save(ctx, "p1", models.Pig{ID: "p1", TagID: "T-1", Status: models.StatusActive}))
	require.NoError(t, set.Pigs.Save(ctx, "p2", models.Pig{ID: "p2", TagID: "T-2", Name: "Rosie", Status: models.StatusActive}))
	require.NoError(t, set.Pigs.Save(ctx, "p3", models.Pig{ID: "p3", TagID: "T-3", Status: models.StatusSold}))
	return NewService(set, nil)
}

func TestSaveProtocolRequiresName(t *testing.T) {
	svc := newVet(t)
	_, err := svc.SaveProtocol(context.Background(), models.Protocol{Name: "   "})
	require.ErrorIs(t, err, models.ErrValidation)
	assert.Contains(t, err.Error(), "protocol name required")

	p, err := svc.SaveProtocol(context.Background(), models.Protocol{Name: " Mycoplasma ", Kind: models.HealthVaccination, IntervalDays: 21})
	require.NoError(t, err)
	assert.Equal(t, "Mycoplasma", p.Name)
	assert.NotEmpty(t, p.ID)
}

func TestRecordAppliesProtocol(t *testing.T) {
	svc := newVet(t)
	ctx := context.Background()
	_, err := svc.SaveProtocol(ctx, models.Protocol{Name: "Penicillin", Kind: models.HealthTreatment, WithdrawalDays: 10})
	require.NoError(t, err)
	_, err = svc.SaveProtocol(ctx, models.Protocol{Name: "Erysipelas", Kind: models.HealthVaccination, IntervalDays: 180})
	require.NoError(t, err)

	rec, err := svc.Record(ctx, models.HealthRecord{PigID: "T-1", Date: date(2024, 3, 1), Protocol: "penicillin"})
	require.NoError(t, err)
	assert.Equal(t, "Penicillin", rec.Protocol)
	assert.Equal(t, models.HealthTreatment, rec.Kind)
	assert.Equal(t, 10, rec.WithdrawalDays)
	assert.Nil(t, rec.NextDueDate)

	rec, err = svc.Record(ctx, models.HealthRecord{PigID: "p2", Date: date(2024, 3, 1), Protocol: "Erysipelas"})
	require.NoError(t, err)
	require.NotNil(t, rec.NextDueDate)
	assert.Equal(t, date(2024, 8, 28), *rec.NextDueDate)

	_, err = svc.Record(ctx, models.HealthRecord{PigID: "p1", Date: date(2024, 3, 1)})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestWithdrawalStatus(t *testing.T) {
	svc := newVet(t)
	ctx := context.Background()
	_, err := svc.Record(ctx, models.HealthRecord{PigID: "T-1", Date: date(2024, 3, 1), Kind: models.HealthTreatment, Medication: "Oxytet", WithdrawalDays: 14})
	require.NoError(t, err)
	_, err = svc.Record(ctx, models.HealthRecord{PigID: "p1", Date: date(2024, 3, 5), Kind: models.HealthTreatment, Medication: "Ivermectin", WithdrawalDays: 5})
	require.NoError(t, err)

	st, err := svc.WithdrawalStatus(ctx, "p1", date(2024, 3, 10))
	require.NoError(t, err)
	assert.False(t, st.Clear)
	require.NotNil(t, st.Until)
	assert.Equal(t, date(2024, 3, 15), *st.Until)
	assert.Equal(t, "Oxytet", st.Medication)

	st, err = svc.WithdrawalStatus(ctx, "T-1", date(2024, 3, 15))
	require.NoError(t, err)
	assert.True(t, st.Clear)
	assert.Nil(t, st.Until)

	st, err = svc.WithdrawalStatus(ctx, "T-2", date(2024, 3, 10))
	require.NoError(t, err)
	assert.True(t, st.Clear)
}

func TestDueVaccinations(t *testing.T) {
	svc := newVet(t)
	ctx := context.Background()
	now := date(2024, 6, 10)
	due := func(d time.Time) *time.Time { return &d }

	for _, rec := range []models.HealthRecord{
		// superseded by the later booster below
		{PigID: "p1", Date: date(2024, 1, 1), Kind: models.HealthVaccination, Protocol: "PCV2", NextDueDate: due(date(2024, 6, 1))},
		{PigID: "p1", Date: date(2024, 6, 1), Kind: models.HealthVaccination, Protocol: "PCV2", NextDueDate: due(date(2024, 12, 1))},
		{PigID: "p2", Date: date(2024, 1, 1), Kind: models.HealthVaccination, Protocol: "PCV2", NextDueDate: due(date(2024, 6, 12))},
		{PigID: "p2", Date: date(2024, 1, 1), Kind: models.HealthVaccination, Protocol: "Parvo", NextDueDate: due(date(2024, 6, 5))},
		{PigID: "p3", Date: date(2024, 1, 1), Kind: models.HealthVaccination, Protocol: "PCV2", NextDueDate: due(date(2024, 6, 11))},
		{PigID: "p2", Date: date(2024, 1, 1), Kind: models.HealthVaccination, Protocol: "Mange", NextDueDate: due(date(2024, 7, 30))},
	} {
		_, err := svc.Record(ctx, rec)
		require.NoError(t, err)
	}

	list, err := svc.DueVaccinations(ctx, now, 7*24*time.Hour)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Parvo", list[0].Protocol)
	assert.True(t, list[0].Overdue)
	assert.Equal(t, "T-2 (Rosie)", list[0].Label)
	assert.Equal(t, "PCV2", list[1].Protocol)
	assert.False(t, list[1].Overdue)
}

func TestHistoryMatchesTagAndID(t *testing.T) {
	svc := newVet(t)
	ctx := context.Background()
	_, err := svc.Record(ctx, models.HealthRecord{PigID: "T-1", Date: date(2024, 2, 1), Kind: models.HealthCheckup})
	require.NoError(t, err)
	_, err = svc.Record(ctx, models.HealthRecord{PigID: "p1", Date: date(2024, 1, 1), Kind: models.HealthCheckup})
	require.NoError(t, err)

	h, err := svc.History(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, h, 2)
	assert.Equal(t, date(2024, 1, 1), h[0].Date)
}
