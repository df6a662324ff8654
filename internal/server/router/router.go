package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmstead/internal/domain/models"
	"github.com/mamadbah2/farmstead/internal/repository"
	"github.com/mamadbah2/farmstead/internal/server/handlers"
)

// Handlers groups every HTTP adapter the router mounts.
type Handlers struct {
	Livestock     *handlers.LivestockHandler
	Vet           *handlers.VetHandler
	Finance       *handlers.FinanceHandler
	Crops         *handlers.CropsHandler
	Commerce      *handlers.CommerceHandler
	Fleet         *handlers.FleetHandler
	Reports       *handlers.ReportHandler
	Notifications *handlers.NotificationHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, set *repository.Set, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	h.Livestock.Register(api)
	h.Commerce.Register(api)
	h.Reports.Register(api)
	h.Vet.Register(api.Group("/vet"))
	h.Finance.Register(api.Group("/finance"))
	h.Crops.Register(api.Group("/cycles"))
	h.Fleet.Register(api.Group("/fleet"))
	h.Notifications.Register(api.Group("/notifications"))

	registerResources(api, set, logger)

	logger.Info("router initialized", zap.Int("routes", len(r.Routes())))
	return r
}

// registerResources mounts plain CRUD for records the services do not own.
// Records written through a service are exposed read-only here.
func registerResources(api *gin.RouterGroup, set *repository.Set, logger *zap.Logger) {
	handlers.NewResource(set.Tasks, func(t *models.Task) *string { return &t.ID }, logger).
		Register(api.Group("/tasks"), false)
	handlers.NewResource(set.Feed, func(f *models.FeedInventory) *string { return &f.ID }, logger).
		Register(api.Group("/feed"), false)
	handlers.NewResource(set.Budgets, func(b *models.BudgetRecord) *string { return &b.ID }, logger).
		Register(api.Group("/budgets"), false)
	handlers.NewResource(set.Loans, func(l *models.LoanRecord) *string { return &l.ID }, logger).
		Register(api.Group("/loans"), false)
	handlers.NewResource(set.Assets, func(a *models.Asset) *string { return &a.ID }, logger).
		Register(api.Group("/assets"), false)
	handlers.NewResource(set.Fields, func(f *models.Field) *string { return &f.ID }, logger).
		Register(api.Group("/fields"), false)
	handlers.NewResource(set.Crops, func(c *models.Crop) *string { return &c.ID }, logger).
		Register(api.Group("/crops"), false)
	handlers.NewResource(set.Customers, func(c *models.Customer) *string { return &c.ID }, logger).
		Register(api.Group("/customers"), false)

	handlers.NewResource(set.Products, func(p *models.Product) *string { return &p.ID }, logger).
		Register(api.Group("/products"), true)
	handlers.NewResource(set.Orders, func(o *models.Order) *string { return &o.ID }, logger).
		Register(api.Group("/orders"), true)
	handlers.NewResource(set.CropCycles, func(c *models.CropCycle) *string { return &c.ID }, logger).
		Register(api.Group("/cycles"), true)
	handlers.NewResource(set.CropActivities, func(a *models.CropActivity) *string { return &a.ID }, logger).
		Register(api.Group("/activities"), true)
	handlers.NewResource(set.HealthRecords, func(r *models.HealthRecord) *string { return &r.ID }, logger).
		Register(api.Group("/vet/records"), true)
	handlers.NewResource(set.Maintenance, func(m *models.MaintenanceLog) *string { return &m.ID }, logger).
		Register(api.Group("/fleet/maintenance"), true)
	handlers.NewResource(set.Fuel, func(f *models.FuelLog) *string { return &f.ID }, logger).
		Register(api.Group("/fleet/fuel"), true)
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
