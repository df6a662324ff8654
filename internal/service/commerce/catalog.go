package commerce

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmstead/internal/domain/models"
)

// SaveProduct creates or replaces a catalog entry. It shares the order lock so
// an edit cannot overwrite a stock decrement made by a concurrent checkout.
func (s *Service) SaveProduct(ctx context.Context, p models.Product) (models.Product, error) {
	p.Name = strings.TrimSpace(p.Name)
	if err := p.Validate(); err != nil {
		return models.Product{}, err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.products.Save(ctx, p.ID, p); err != nil {
		return models.Product{}, fmt.Errorf("save product: %w", err)
	}
	return p, nil
}

// UpdateProduct replaces an existing product.
func (s *Service) UpdateProduct(ctx context.Context, id string, p models.Product) (models.Product, error) {
	p.Name = strings.TrimSpace(p.Name)
	if err := p.Validate(); err != nil {
		return models.Product{}, err
	}
	p.ID = id

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.products.Get(ctx, id); err != nil {
		return models.Product{}, fmt.Errorf("product %s: %w", id, err)
	}
	if err := s.products.Save(ctx, id, p); err != nil {
		return models.Product{}, fmt.Errorf("save product: %w", err)
	}
	return p, nil
}

// DeleteProduct removes a product from the catalog.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products.Delete(ctx, id)
}

// ImportProducts upserts catalog rows. A row whose name matches an existing
// product (case-insensitive) updates it in place.
func (s *Service) ImportProducts(ctx context.Context, incoming []models.Product) (created, updated int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.products.List(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("list products: %w", err)
	}
	byName := make(map[string]string, len(existing))
	for _, p := range existing {
		byName[catalogKey(p.Name)] = p.ID
	}
	for _, p := range incoming {
		key := catalogKey(p.Name)
		if id, ok := byName[key]; ok {
			p.ID = id
			updated++
		} else {
			p.ID = uuid.NewString()
			byName[key] = p.ID
			created++
		}
		if err := s.products.Save(ctx, p.ID, p); err != nil {
			return created, updated, fmt.Errorf("save product %s: %w", p.Name, err)
		}
	}
	s.logger.Info("product catalog imported", zap.Int("created", created), zap.Int("updated", updated))
	return created, updated, nil
}

func catalogKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
