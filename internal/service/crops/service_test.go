package crops

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
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func setup(t *testing.T) (*Service, *repository.Set) {
	t.Helper()
	set := memory.NewSet()
	ctx := context.Background()
	require.NoError(t, set.Fields.Save(ctx, "north", models.Field{ID: "north", Name: "North paddock", AreaHa: 2.5}))
	require.NoError(t, set.Crops.Save(ctx, "maize", models.Crop{ID: "maize", Name: "Maize", DaysToMaturity: 120}))
	return NewService(set, nil), set
}

func TestStartCycleComputesExpectedHarvest(t *testing.T) {
	svc, _ := setup(t)
	c, err := svc.StartCycle(context.Background(), models.CropCycle{FieldID: "north", CropID: "maize", PlantedOn: date(2024, 3, 1)})
	require.NoError(t, err)
	assert.Equal(t, date(2024, 6, 29), c.ExpectedHarvest)
	assert.Equal(t, models.CyclePlanted, c.Status)

	_, err = svc.StartCycle(context.Background(), models.CropCycle{FieldID: "north", CropID: "rice", PlantedOn: date(2024, 3, 1)})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = svc.StartCycle(context.Background(), models.CropCycle{FieldID: "north", CropID: "maize"})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestSummary(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	c, err := svc.StartCycle(ctx, models.CropCycle{FieldID: "north", CropID: "maize", PlantedOn: date(2024, 3, 1), SalePricePerKg: 0.5})
	require.NoError(t, err)

	_, err = svc.LogActivity(ctx, models.CropActivity{CycleID: c.ID, Type: "spraying", Date: date(2024, 4, 1), Cost: 150})
	require.NoError(t, err)
	_, err = svc.LogActivity(ctx, models.CropActivity{CycleID: c.ID, Type: "planting", Date: date(2024, 3, 1), Cost: 350})
	require.NoError(t, err)
	_, err = svc.LogActivity(ctx, models.CropActivity{CycleID: "ghost", Type: "weeding", Cost: 1})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = svc.Harvest(ctx, c.ID, 5000, date(2024, 7, 1))
	require.NoError(t, err)

	sum, err := svc.Summary(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "North paddock", sum.FieldName)
	assert.Equal(t, "Maize", sum.CropName)
	assert.Equal(t, 500.0, sum.TotalCost)
	assert.Equal(t, 200.0, sum.CostPerHa)
	assert.Equal(t, 2000.0, sum.YieldPerHa)
	assert.Equal(t, 0.1, sum.CostPerKg)
	assert.Equal(t, 2500.0, sum.Revenue)
	assert.Equal(t, 2000.0, sum.GrossMargin)
	require.Len(t, sum.Activities, 3)
	assert.Equal(t, "planting", sum.Activities[0].Type)
	assert.Equal(t, "harvest", sum.Activities[2].Type)
}

func TestSummaryUnknownField(t *testing.T) {
	svc, set := setup(t)
	ctx := context.Background()
	c, err := svc.StartCycle(ctx, models.CropCycle{FieldID: "north", CropID: "maize", PlantedOn: date(2024, 3, 1)})
	require.NoError(t, err)
	require.NoError(t, set.Fields.Delete(ctx, "north"))

	sum, err := svc.Summary(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "unknown", sum.FieldName)
	assert.Zero(t, sum.CostPerHa)
	assert.Empty(t, sum.Activities)
}

func TestUpcoming(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	soon, err := svc.StartCycle(ctx, models.CropCycle{FieldID: "north", CropID: "maize", PlantedOn: date(2024, 3, 1)})
	require.NoError(t, err)
	_, err = svc.StartCycle(ctx, models.CropCycle{FieldID: "north", CropID: "maize", PlantedOn: date(2024, 5, 1)})
	require.NoError(t, err)
	done, err := svc.StartCycle(ctx, models.CropCycle{FieldID: "north", CropID: "maize", PlantedOn: date(2024, 2, 1)})
	require.NoError(t, err)
	_, err = svc.Harvest(ctx, done.ID, 100, time.Time{})
	require.NoError(t, err)

	list, err := svc.Upcoming(ctx, date(2024, 6, 20), 14*24*time.Hour)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, soon.ID, list[0].ID)
}

type brokenFields struct {
	repository.Store[models.Field]
}

func (brokenFields) Get(context.Context, string) (models.Field, error) {
	return models.Field{}, errors.New("connection refused")
}

func TestSummaryReturnsStoreFailure(t *testing.T) {
	svc, set := setup(t)
	ctx := context.Background()
	c, err := svc.StartCycle(ctx, models.CropCycle{FieldID: "north", CropID: "maize", PlantedOn: date(2024, 3, 1)})
	require.NoError(t, err)

	svc.fields = brokenFields{Store: set.Fields}
	_, err = svc.Summary(ctx, c.ID)
	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrNotFound)
	assert.Contains(t, err.Error(), "connection refused")
}
