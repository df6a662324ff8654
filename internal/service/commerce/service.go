// Package commerce runs the farm shop: POS orders against the product
// catalog and feed procurement against the inventory. Both post their
// money movements to the finance ledger.
package commerce

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/farmstead/internal/domain/models"
	"github.com/mamadbah2/farmstead/internal/repository"
)

// ErrInsufficientStock is returned when an order asks for more than is on hand.
var ErrInsufficientStock = errors.New("insufficient stock")

// Ledger receives the income and expense entries produced by sales and purchases.
type Ledger interface {
	Record(ctx context.Context, rec models.FinanceRecord) (models.FinanceRecord, error)
}

// Service owns stock movements. A single mutex serialises check-and-decrement
// so concurrent orders cannot oversell.
type Service struct {
	products  repository.Store[models.Product]
	orders    repository.Store[models.Order]
	customers repository.Store[models.Customer]
	feed      repository.Store[models.FeedInventory]
	ledger    Ledger
	logger    *zap.Logger
	now       func() time.Time

	mu sync.Mutex
}

// NewService wires the shop. ledger may be nil, in which case nothing is posted.
func NewService(set *repository.Set, ledger Ledger, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		products:  set.Products,
		orders:    set.Orders,
		customers: set.Customers,
		feed:      set.Feed,
		ledger:    ledger,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Service) post(ctx context.Context, rec models.FinanceRecord) {
	if s.ledger == nil {
		return
	}
	if _, err := s.ledger.Record(ctx, rec); err != nil {
		s.logger.Error("ledger posting failed",
			zap.String("reference", rec.Reference),
			zap.String("category", rec.Category),
			zap.Error(err))
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
