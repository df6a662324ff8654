package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/farmstead/internal/domain/models"
	"github.com/mamadbah2/farmstead/internal/repository"
)

const reportsCollection = "daily_reports"

// ReportRepository defines the interface for report storage.
type ReportRepository interface {
	SaveDailyReport(ctx context.Context, report models.DailyReport) error
	LatestDailyReports(ctx context.Context, limit int64) ([]models.DailyReport, error)
}

// MongoDBRepository owns the client connection and hands out typed collections.
type MongoDBRepository struct {
	client *mongo.Client
	dbName string
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client: client,
		dbName: dbName,
	}, nil
}

func (r *MongoDBRepository) collection(name string) *mongo.Collection {
	return r.client.Database(r.dbName).Collection(name)
}

// SaveDailyReport upserts the report for its calendar day.
func (r *MongoDBRepository) SaveDailyReport(ctx context.Context, report models.DailyReport) error {
	day := time.Date(report.Date.Year(), report.Date.Month(), report.Date.Day(), 0, 0, 0, 0, time.UTC)
	report.Date = day

	_, err := r.collection(reportsCollection).ReplaceOne(ctx, bson.M{"date": day}, report, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save daily report: %w", err)
	}
	return nil
}

// LatestDailyReports returns the most recent reports, newest first.
func (r *MongoDBRepository) LatestDailyReports(ctx context.Context, limit int64) ([]models.DailyReport, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}}).SetLimit(limit)
	cursor, err := r.collection(reportsCollection).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily reports: %w", err)
	}

	var reports []models.DailyReport
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, fmt.Errorf("failed to decode daily reports: %w", err)
	}
	return reports, nil
}

// NewSet builds a repository.Set backed by one MongoDB collection per record type.
func (r *MongoDBRepository) NewSet() *repository.Set {
	return &repository.Set{
		Pigs:           NewCollection[models.Pig](r, repository.CollectionPigs),
		HealthRecords:  NewCollection[models.HealthRecord](r, repository.CollectionHealthRecords),
		Protocols:      NewCollection[models.Protocol](r, repository.CollectionProtocols),
		Tasks:          NewCollection[models.Task](r, repository.CollectionTasks),
		Feed:           NewCollection[models.FeedInventory](r, repository.CollectionFeed),
		Finance:        NewCollection[models.FinanceRecord](r, repository.CollectionFinance),
		Budgets:        NewCollection[models.BudgetRecord](r, repository.CollectionBudgets),
		Loans:          NewCollection[models.LoanRecord](r, repository.CollectionLoans),
		Assets:         NewCollection[models.Asset](r, repository.CollectionAssets),
		Maintenance:    NewCollection[models.MaintenanceLog](r, repository.CollectionMaintenance),
		Fuel:           NewCollection[models.FuelLog](r, repository.CollectionFuel),
		Fields:         NewCollection[models.Field](r, repository.CollectionFields),
		Crops:          NewCollection[models.Crop](r, repository.CollectionCrops),
		CropCycles:     NewCollection[models.CropCycle](r, repository.CollectionCropCycles),
		CropActivities: NewCollection[models.CropActivity](r, repository.CollectionCropActivities),
		Products:       NewCollection[models.Product](r, repository.CollectionProducts),
		Orders:         NewCollection[models.Order](r, repository.CollectionOrders),
		Customers:      NewCollection[models.Customer](r, repository.CollectionCustomers),
	}
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
