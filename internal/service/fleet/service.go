package fleet

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmstead/internal/domain/models"
	"github.com/mamadbah2/farmstead/internal/repository"
)

// Service records upkeep on farm machinery.
type Service struct {
	assets      repository.Store[models.Asset]
	maintenance repository.Store[models.MaintenanceLog]
	fuel        repository.Store[models.FuelLog]
	logger      *zap.Logger
}

func NewService(set *repository.Set, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		assets:      set.Assets,
		maintenance: set.Maintenance,
		fuel:        set.Fuel,
		logger:      logger,
	}
}

// LogMaintenance stores a service entry for an existing asset.
func (s *Service) LogMaintenance(ctx context.Context, m models.MaintenanceLog) (models.MaintenanceLog, error) {
	if err := m.Validate(); err != nil {
		return models.MaintenanceLog{}, err
	}
	if _, err := s.assets.Get(ctx, m.AssetID); err != nil {
		return models.MaintenanceLog{}, fmt.Errorf("asset %s: %w", m.AssetID, err)
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if err := s.maintenance.Save(ctx, m.ID, m); err != nil {
		return models.MaintenanceLog{}, fmt.Errorf("save maintenance: %w", err)
	}
	s.logger.Info("maintenance logged", zap.String("asset", m.AssetID), zap.Float64("cost", m.Cost))
	return m, nil
}

// LogFuel stores a fuel fill for an existing asset.
func (s *Service) LogFuel(ctx context.Context, f models.FuelLog) (models.FuelLog, error) {
	if err := f.Validate(); err != nil {
		return models.FuelLog{}, err
	}
	if _, err := s.assets.Get(ctx, f.AssetID); err != nil {
		return models.FuelLog{}, fmt.Errorf("asset %s: %w", f.AssetID, err)
	}
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.Date.IsZero() {
		f.Date = time.Now().UTC()
	}
	if err := s.fuel.Save(ctx, f.ID, f); err != nil {
		return models.FuelLog{}, fmt.Errorf("save fuel: %w", err)
	}
	return f, nil
}

// AssetSummary is the running cost of one asset.
type AssetSummary struct {
	Asset            models.Asset `json:"asset"`
	MaintenanceCost  float64      `json:"maintenanceCost"`
	MaintenanceCount int          `json:"maintenanceCount"`
	FuelLiters       float64      `json:"fuelLiters"`
	FuelCost         float64      `json:"fuelCost"`
	TotalCost        float64      `json:"totalCost"`
	LastService      *time.Time   `json:"lastService,omitempty"`
	NextService      *time.Time   `json:"nextService,omitempty"`
	ServiceOverdue   bool         `json:"serviceOverdue"`
}

// Summary totals upkeep for every asset. The next service is the last
// service (or purchase date) plus the asset's interval.
func (s *Service) Summary(ctx context.Context, now time.Time) ([]AssetSummary, error) {
	assets, err := s.assets.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	logs, err := s.maintenance.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list maintenance: %w", err)
	}
	fills, err := s.fuel.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list fuel: %w", err)
	}

	byID := make(map[string]*AssetSummary, len(assets))
	out := make([]AssetSummary, len(assets))
	for i, a := range assets {
		out[i] = AssetSummary{Asset: a}
		byID[a.ID] = &out[i]
	}
	for _, m := range logs {
		sum, ok := byID[m.AssetID]
		if !ok {
			continue
		}
		sum.MaintenanceCost += m.Cost
		sum.MaintenanceCount++
		if sum.LastService == nil || m.Date.After(*sum.LastService) {
			d := m.Date
			sum.LastService = &d
		}
	}
	for _, f := range fills {
		sum, ok := byID[f.AssetID]
		if !ok {
			continue
		}
		sum.FuelLiters += f.Liters
		sum.FuelCost += f.Cost
	}
	for i := range out {
		sum := &out[i]
		sum.TotalCost = sum.MaintenanceCost + sum.FuelCost
		if sum.Asset.ServiceIntervalDays <= 0 {
			continue
		}
		base := sum.Asset.PurchaseDate
		if sum.LastService != nil {
			base = *sum.LastService
		}
		if base.IsZero() {
			continue
		}
		next := base.AddDate(0, 0, sum.Asset.ServiceIntervalDays)
		sum.NextService = &next
		sum.ServiceOverdue = next.Before(now)
	}
	return out, nil
}

// DueForService lists assets whose next service falls within window of now.
func (s *Service) DueForService(ctx context.Context, now time.Time, window time.Duration) ([]AssetSummary, error) {
	all, err := s.Summary(ctx, now)
	if err != nil {
		return nil, err
	}
	horizon := now.Add(window)
	var out []AssetSummary
	for _, a := range all {
		if a.NextService != nil && !a.NextService.After(horizon) {
			out = append(out, a)
		}
	}
	return out, nil
}
