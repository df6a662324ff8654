package commerce

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmstead/internal/domain/models"
	"github.com/mamadbah2/farmstead/internal/repository"
)

// FeedReceipt is a delivery of feed from a supplier.
type FeedReceipt struct {
	FeedID     string  `json:"feedId"`
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	QuantityKg float64 `json:"quantityKg" binding:"required"`
	UnitCost   float64 `json:"unitCost"`
	Supplier   string  `json:"supplier"`
}

// WeightedCost blends the cost of stock on hand with a new delivery.
func WeightedCost(onHandKg, onHandCost, addedKg, addedCost float64) float64 {
	total := onHandKg + addedKg
	if total <= 0 {
		return 0
	}
	return (onHandKg*onHandCost + addedKg*addedCost) / total
}

// ReceiveFeed adds a delivery to the inventory, matching an existing line by
// ID or case-insensitive name, and posts the purchase as an expense.
func (s *Service) ReceiveFeed(ctx context.Context, r FeedReceipt) (models.FeedInventory, error) {
	if r.QuantityKg <= 0 {
		return models.FeedInventory{}, invalidf("quantityKg", "quantity must be positive")
	}
	if r.UnitCost < 0 {
		return models.FeedInventory{}, invalidf("unitCost", "unit cost must not be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, found, err := s.findFeed(ctx, r.FeedID, r.Name)
	if err != nil {
		return models.FeedInventory{}, err
	}
	if !found {
		if r.FeedID != "" && strings.TrimSpace(r.Name) == "" {
			return models.FeedInventory{}, fmt.Errorf("feed %s: %w", r.FeedID, repository.ErrNotFound)
		}
		item = models.FeedInventory{ID: r.FeedID, Name: strings.TrimSpace(r.Name), Type: r.Type}
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
	}

	item.UnitCost = roundCents(WeightedCost(item.QuantityKg, item.UnitCost, r.QuantityKg, r.UnitCost))
	item.QuantityKg += r.QuantityKg
	if r.Supplier != "" {
		item.Supplier = r.Supplier
	}
	item.UpdatedAt = s.now().UTC()
	if err := item.Validate(); err != nil {
		return models.FeedInventory{}, err
	}
	if err := s.feed.Save(ctx, item.ID, item); err != nil {
		return models.FeedInventory{}, fmt.Errorf("save feed: %w", err)
	}

	s.logger.Info("feed received",
		zap.String("feed", item.Name),
		zap.Float64("kg", r.QuantityKg),
		zap.Float64("onHandKg", item.QuantityKg))

	if cost := roundCents(r.QuantityKg * r.UnitCost); cost > 0 {
		s.post(ctx, models.FinanceRecord{
			Date:        item.UpdatedAt,
			Type:        models.EntryExpense,
			Category:    "feed",
			Description: fmt.Sprintf("%.0f kg %s from %s", r.QuantityKg, item.Name, supplierOrUnknown(r.Supplier)),
			Amount:      cost,
			Reference:   item.ID,
		})
	}
	return item, nil
}

// ConsumeFeed draws stock down after feeding.
func (s *Service) ConsumeFeed(ctx context.Context, feedID string, kg float64) (models.FeedInventory, error) {
	if kg <= 0 {
		return models.FeedInventory{}, invalidf("quantityKg", "quantity must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.feed.Get(ctx, feedID)
	if err != nil {
		return models.FeedInventory{}, err
	}
	if item.QuantityKg < kg {
		return models.FeedInventory{}, fmt.Errorf("%s: %.1f kg on hand: %w", item.Name, item.QuantityKg, ErrInsufficientStock)
	}
	item.QuantityKg -= kg
	item.UpdatedAt = s.now().UTC()
	if err := s.feed.Save(ctx, item.ID, item); err != nil {
		return models.FeedInventory{}, fmt.Errorf("save feed: %w", err)
	}
	if item.Low() {
		s.logger.Warn("feed below reorder level", zap.String("feed", item.Name), zap.Float64("onHandKg", item.QuantityKg))
	}
	return item, nil
}

// LowFeed lists inventory lines at or below their reorder level.
func (s *Service) LowFeed(ctx context.Context) ([]models.FeedInventory, error) {
	all, err := s.feed.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list feed: %w", err)
	}
	var out []models.FeedInventory
	for _, f := range all {
		if f.Low() {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *Service) findFeed(ctx context.Context, id, name string) (models.FeedInventory, bool, error) {
	if id != "" {
		item, err := s.feed.Get(ctx, id)
		if err == nil {
			return item, true, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return models.FeedInventory{}, false, err
		}
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return models.FeedInventory{}, false, nil
	}
	all, err := s.feed.List(ctx)
	if err != nil {
		return models.FeedInventory{}, false, fmt.Errorf("list feed: %w", err)
	}
	for _, f := range all {
		if strings.EqualFold(f.Name, name) {
			return f, true, nil
		}
	}
	return models.FeedInventory{}, false, nil
}

func supplierOrUnknown(s string) string {
	if s == "" {
		return "unknown supplier"
	}
	return s
}
