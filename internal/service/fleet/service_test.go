package fleet

import (
	"context"
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

func TestSummaryTotalsAndNextService(t *testing.T) {
	set := memory.NewSet()
	ctx := context.Background()
	require.NoError(t, set.Assets.Save(ctx, "tractor", models.Asset{ID: "tractor", Name: "Tractor", PurchaseDate: date(2023, 1, 1), ServiceIntervalDays: 90}))
	require.NoError(t, set.Assets.Save(ctx, "pump", models.Asset{ID: "pump", Name: "Water pump", PurchaseDate: date(2024, 1, 1), ServiceIntervalDays: 30}))
	require.NoError(t, set.Assets.Save(ctx, "trailer", models.Asset{ID: "trailer", Name: "Trailer"}))
	svc := NewService(set, nil)

	_, err := svc.LogMaintenance(ctx, models.MaintenanceLog{AssetID: "tractor", Date: date(2024, 2, 1), Description: "oil", Cost: 120})
	require.NoError(t, err)
	_, err = svc.LogMaintenance(ctx, models.MaintenanceLog{AssetID: "tractor", Date: date(2024, 4, 1), Description: "filters", Cost: 80})
	require.NoError(t, err)
	_, err = svc.LogFuel(ctx, models.FuelLog{AssetID: "tractor", Date: date(2024, 4, 2), Liters: 60, Cost: 90})
	require.NoError(t, err)
	_, err = svc.LogFuel(ctx, models.FuelLog{AssetID: "tractor", Date: date(2024, 4, 9), Liters: 40, Cost: 60})
	require.NoError(t, err)

	_, err = svc.LogFuel(ctx, models.FuelLog{AssetID: "bulldozer", Liters: 10})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = svc.LogMaintenance(ctx, models.MaintenanceLog{AssetID: "tractor"})
	assert.ErrorIs(t, err, models.ErrValidation)

	now := date(2024, 5, 1)
	sums, err := svc.Summary(ctx, now)
	require.NoError(t, err)
	require.Len(t, sums, 3)

	tractor := sums[0]
	assert.Equal(t, 200.0, tractor.MaintenanceCost)
	assert.Equal(t, 2, tractor.MaintenanceCount)
	assert.Equal(t, 100.0, tractor.FuelLiters)
	assert.Equal(t, 350.0, tractor.TotalCost)
	require.NotNil(t, tractor.NextService)
	assert.Equal(t, date(2024, 6, 30), *tractor.NextService)
	assert.False(t, tractor.ServiceOverdue)

	pump := sums[1]
	require.NotNil(t, pump.NextService)
	assert.Equal(t, date(2024, 1, 31), *pump.NextService)
	assert.True(t, pump.ServiceOverdue)

	assert.Nil(t, sums[2].NextService)

	due, err := svc.DueForService(ctx, now, 7*24*time.Hour)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "pump", due[0].Asset.ID)
}
