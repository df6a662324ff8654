package commerce

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmstead/internal/domain/models"
)

// OrderLine is a requested product and quantity.
type OrderLine struct {
	ProductID string  `json:"productId" binding:"required"`
	Quantity  float64 `json:"quantity" binding:"required"`
}

// OrderRequest is a checkout from the POS screen.
type OrderRequest struct {
	CustomerID string      `json:"customerId"`
	Lines      []OrderLine `json:"lines" binding:"required"`
	Discount   float64     `json:"discount"`
	TaxRatePct float64     `json:"taxRatePct"`
	PaidWith   string      `json:"paidWith"`
}

// Totals prices a set of items: subtotal, less discount, plus tax on the
// discounted amount. Amounts are rounded to cents.
func Totals(items []models.OrderItem, discount, taxRatePct float64) (subtotal, tax, total float64, err error) {
	if discount < 0 {
		return 0, 0, 0, invalidf("discount", "discount must not be negative")
	}
	if taxRatePct < 0 {
		return 0, 0, 0, invalidf("taxRatePct", "tax rate must not be negative")
	}
	for _, it := range items {
		subtotal += it.LineTotal()
	}
	subtotal = roundCents(subtotal)
	if discount > subtotal {
		return 0, 0, 0, invalidf("discount", "discount exceeds subtotal")
	}
	taxable := subtotal - discount
	tax = roundCents(taxable * taxRatePct / 100)
	total = roundCents(taxable + tax)
	return subtotal, tax, total, nil
}

// PlaceOrder prices the request against the catalog, decrements stock, stores
// the order and posts the sale to the ledger. Stock is checked for every line
// before any product is written, so a rejected order leaves the catalog untouched.
// When a later write fails, products already written are restored.
func (s *Service) PlaceOrder(ctx context.Context, req OrderRequest) (models.Order, error) {
	if len(req.Lines) == 0 {
		return models.Order{}, invalidf("lines", "order has no lines")
	}
	if req.CustomerID != "" {
		if _, err := s.customers.Get(ctx, req.CustomerID); err != nil {
			return models.Order{}, fmt.Errorf("customer %s: %w", req.CustomerID, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	original := make(map[string]models.Product)
	updated := make(map[string]models.Product)
	var productOrder []string
	items := make([]models.OrderItem, 0, len(req.Lines))
	for _, line := range req.Lines {
		if line.Quantity <= 0 {
			return models.Order{}, invalidf("quantity", "quantity must be positive")
		}
		p, seen := updated[line.ProductID]
		if !seen {
			var err error
			p, err = s.products.Get(ctx, line.ProductID)
			if err != nil {
				return models.Order{}, fmt.Errorf("product %s: %w", line.ProductID, err)
			}
			original[p.ID] = p
			productOrder = append(productOrder, p.ID)
		}
		if p.Stock < line.Quantity {
			return models.Order{}, fmt.Errorf("%s: %.2f on hand, %.2f requested: %w", p.Name, p.Stock, line.Quantity, ErrInsufficientStock)
		}
		p.Stock -= line.Quantity
		updated[p.ID] = p
		items = append(items, models.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  line.Quantity,
			UnitPrice: p.Price,
		})
	}

	subtotal, tax, total, err := Totals(items, req.Discount, req.TaxRatePct)
	if err != nil {
		return models.Order{}, err
	}

	order := models.Order{
		ID:         uuid.NewString(),
		CustomerID: req.CustomerID,
		Items:      items,
		Discount:   req.Discount,
		TaxRatePct: req.TaxRatePct,
		Subtotal:   subtotal,
		Tax:        tax,
		Total:      total,
		PaidWith:   req.PaidWith,
		CreatedAt:  s.now().UTC(),
	}

	for i, id := range productOrder {
		if err := s.products.Save(ctx, id, updated[id]); err != nil {
			s.restoreStock(ctx, productOrder[:i], original)
			return models.Order{}, fmt.Errorf("update stock: %w", err)
		}
	}
	if err := s.orders.Save(ctx, order.ID, order); err != nil {
		s.restoreStock(ctx, productOrder, original)
		return models.Order{}, fmt.Errorf("save order: %w", err)
	}

	s.logger.Info("order placed",
		zap.String("order", order.ID),
		zap.Int("lines", len(items)),
		zap.Float64("total", order.Total))

	s.post(ctx, models.FinanceRecord{
		Date:        order.CreatedAt,
		Type:        models.EntryIncome,
		Category:    "sales",
		Description: fmt.Sprintf("POS order (%d lines)", len(items)),
		Amount:      order.Total,
		Reference:   order.ID,
	})
	return order, nil
}

// restoreStock writes back the pre-order products after a failed checkout.
// Must be called with s.mu held.
func (s *Service) restoreStock(ctx context.Context, ids []string, original map[string]models.Product) {
	for _, id := range ids {
		if err := s.products.Save(ctx, id, original[id]); err != nil {
			s.logger.Error("stock rollback failed",
				zap.String("product", id),
				zap.Float64("stock", original[id].Stock),
				zap.Error(err))
		}
	}
}

// LowStockProducts lists catalog items at or below threshold units.
func (s *Service) LowStockProducts(ctx context.Context, threshold float64) ([]models.Product, error) {
	all, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	var out []models.Product
	for _, p := range all {
		if p.Stock <= threshold {
			out = append(out, p)
		}
	}
	return out, nil
}

// CustomerOrders lists the orders placed by one customer.
func (s *Service) CustomerOrders(ctx context.Context, customerID string) ([]models.Order, error) {
	if _, err := s.customers.Get(ctx, customerID); err != nil {
		return nil, err
	}
	all, err := s.orders.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	var out []models.Order
	for _, o := range all {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func invalidf(field, msg string) error {
	return &models.ValidationError{Field: field, Message: msg}
}
