package crops

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmstead/internal/domain/models"
	"github.com/mamadbah2/farmstead/internal/repository"
)

const unknownField = "unknown"

// Service tracks planting cycles and their costs.
type Service struct {
	fields     repository.Store[models.Field]
	crops      repository.Store[models.Crop]
	cycles     repository.Store[models.CropCycle]
	activities repository.Store[models.CropActivity]
	logger     *zap.Logger
}

func NewService(set *repository.Set, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		fields:     set.Fields,
		crops:      set.Crops,
		cycles:     set.CropCycles,
		activities: set.CropActivities,
		logger:     logger,
	}
}

// StartCycle opens a cycle. The expected harvest follows from the crop's days
// to maturity unless the caller supplied one.
func (s *Service) StartCycle(ctx context.Context, c models.CropCycle) (models.CropCycle, error) {
	if err := c.Validate(); err != nil {
		return models.CropCycle{}, err
	}
	crop, err := s.crops.Get(ctx, c.CropID)
	if err != nil {
		return models.CropCycle{}, fmt.Errorf("crop %s: %w", c.CropID, err)
	}
	if c.ExpectedHarvest.IsZero() {
		c.ExpectedHarvest = c.PlantedOn.AddDate(0, 0, crop.DaysToMaturity)
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if err := s.cycles.Save(ctx, c.ID, c); err != nil {
		return models.CropCycle{}, fmt.Errorf("save cycle: %w", err)
	}
	s.logger.Info("crop cycle started",
		zap.String("cycle", c.ID),
		zap.String("crop", crop.Name),
		zap.Time("expectedHarvest", c.ExpectedHarvest))
	return c, nil
}

// Harvest closes a cycle with its yield.
func (s *Service) Harvest(ctx context.Context, cycleID string, yieldKg float64, on time.Time) (models.CropCycle, error) {
	c, err := s.cycles.Get(ctx, cycleID)
	if err != nil {
		return models.CropCycle{}, err
	}
	c.YieldKg = yieldKg
	c.Status = models.CycleHarvested
	if err := c.Validate(); err != nil {
		return models.CropCycle{}, err
	}
	if err := s.cycles.Save(ctx, c.ID, c); err != nil {
		return models.CropCycle{}, fmt.Errorf("save cycle: %w", err)
	}
	if !on.IsZero() {
		_, err = s.LogActivity(ctx, models.CropActivity{CycleID: c.ID, Type: "harvest", Date: on})
		if err != nil {
			return models.CropCycle{}, err
		}
	}
	return c, nil
}

// LogActivity records a costed operation on an existing cycle.
func (s *Service) LogActivity(ctx context.Context, a models.CropActivity) (models.CropActivity, error) {
	if err := a.Validate(); err != nil {
		return models.CropActivity{}, err
	}
	if _, err := s.cycles.Get(ctx, a.CycleID); err != nil {
		return models.CropActivity{}, fmt.Errorf("cycle %s: %w", a.CycleID, err)
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if err := s.activities.Save(ctx, a.ID, a); err != nil {
		return models.CropActivity{}, fmt.Errorf("save activity: %w", err)
	}
	return a, nil
}

// CycleSummary is the cost and yield view of one cycle.
type CycleSummary struct {
	Cycle       models.CropCycle      `json:"cycle"`
	FieldName   string                `json:"fieldName"`
	CropName    string                `json:"cropName"`
	AreaHa      float64               `json:"areaHa"`
	Activities  []models.CropActivity `json:"activities"`
	TotalCost   float64               `json:"totalCost"`
	CostPerHa   float64               `json:"costPerHa"`
	YieldPerHa  float64               `json:"yieldPerHa"`
	CostPerKg   float64               `json:"costPerKg"`
	Revenue     float64               `json:"revenue"`
	GrossMargin float64               `json:"grossMargin"`
}

// Summary totals a cycle. A cycle whose field is gone reports the field as
// "unknown" with no per-hectare figures.
func (s *Service) Summary(ctx context.Context, cycleID string) (CycleSummary, error) {
	c, err := s.cycles.Get(ctx, cycleID)
	if err != nil {
		return CycleSummary{}, err
	}
	activities, err := s.activities.List(ctx)
	if err != nil {
		return CycleSummary{}, fmt.Errorf("list activities: %w", err)
	}

	out := CycleSummary{Cycle: c, FieldName: unknownField, CropName: c.CropID, Activities: []models.CropActivity{}}
	f, err := s.fields.Get(ctx, c.FieldID)
	switch {
	case err == nil:
		out.FieldName = f.Name
		out.AreaHa = f.AreaHa
	case !errors.Is(err, repository.ErrNotFound):
		return CycleSummary{}, fmt.Errorf("field %s: %w", c.FieldID, err)
	}
	crop, err := s.crops.Get(ctx, c.CropID)
	switch {
	case err == nil:
		out.CropName = crop.Name
	case !errors.Is(err, repository.ErrNotFound):
		return CycleSummary{}, fmt.Errorf("crop %s: %w", c.CropID, err)
	}

	for _, a := range activities {
		if a.CycleID != c.ID {
			continue
		}
		out.Activities = append(out.Activities, a)
		out.TotalCost += a.Cost
	}
	sort.SliceStable(out.Activities, func(i, j int) bool {
		return out.Activities[i].Date.Before(out.Activities[j].Date)
	})

	if out.AreaHa > 0 {
		out.CostPerHa = out.TotalCost / out.AreaHa
		out.YieldPerHa = c.YieldKg / out.AreaHa
	}
	if c.YieldKg > 0 {
		out.CostPerKg = out.TotalCost / c.YieldKg
	}
	out.Revenue = c.YieldKg * c.SalePricePerKg
	out.GrossMargin = out.Revenue - out.TotalCost
	return out, nil
}

// Upcoming lists open cycles whose expected harvest falls before now+window.
func (s *Service) Upcoming(ctx context.Context, now time.Time, window time.Duration) ([]models.CropCycle, error) {
	cycles, err := s.cycles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cycles: %w", err)
	}
	horizon := now.Add(window)
	var out []models.CropCycle
	for _, c := range cycles {
		if c.Status == models.CycleHarvested || c.Status == models.CycleFailed {
			continue
		}
		if !c.ExpectedHarvest.After(horizon) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ExpectedHarvest.Before(out[j].ExpectedHarvest) })
	return out, nil
}
