package repository

import (
	"context"
	"errors"

	"github.com/mamadbah2/farmstead/internal/domain/models"
)

// ErrNotFound is returned when no record matches the requested ID.
var ErrNotFound = errors.New("record not found")

// Store is a keyed collection of flat records. No referential integrity is
// enforced between stores; joins are resolved by the services.
type Store[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Save(ctx context.Context, id string, record T) error
	Delete(ctx context.Context, id string) error
}

// Set groups the stores backing every screen of the application.
type Set struct {
	Pigs           Store[models.Pig]
	HealthRecords  Store[models.HealthRecord]
	Protocols      Store[models.Protocol]
	Tasks          Store[models.Task]
	Feed           Store[models.FeedInventory]
	Finance        Store[models.FinanceRecord]
	Budgets        Store[models.BudgetRecord]
	Loans          Store[models.LoanRecord]
	Assets         Store[models.Asset]
	Maintenance    Store[models.MaintenanceLog]
	Fuel           Store[models.FuelLog]
	Fields         Store[models.Field]
	Crops          Store[models.Crop]
	CropCycles     Store[models.CropCycle]
	CropActivities Store[models.CropActivity]
	Products       Store[models.Product]
	Orders         Store[models.Order]
	Customers      Store[models.Customer]
}

// Collection names shared by every backend.
const (
	CollectionPigs           = "pigs"
	CollectionHealthRecords  = "health_records"
	CollectionProtocols      = "protocols"
	CollectionTasks          = "tasks"
	CollectionFeed           = "feed_inventory"
	CollectionFinance        = "finance_records"
	CollectionBudgets        = "budgets"
	CollectionLoans          = "loans"
	CollectionAssets         = "assets"
	CollectionMaintenance    = "maintenance_logs"
	CollectionFuel           = "fuel_logs"
	CollectionFields         = "fields"
	CollectionCrops          = "crops"
	CollectionCropCycles     = "crop_cycles"
	CollectionCropActivities = "crop_activities"
	CollectionProducts       = "products"
	CollectionOrders         = "orders"
	CollectionCustomers      = "customers"
)
