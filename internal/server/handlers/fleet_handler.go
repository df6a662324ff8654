package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmstead/internal/domain/models"
	"github.com/mamadbah2/farmstead/internal/service/fleet"
)

// FleetHandler serves machinery upkeep.
type FleetHandler struct {
	svc    *fleet.Service
	logger *zap.Logger
}

func NewFleetHandler(svc *fleet.Service, logger *zap.Logger) *FleetHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FleetHandler{svc: svc, logger: logger}
}

// Register mounts the routes under group.
func (h *FleetHandler) Register(group *gin.RouterGroup) {
	group.POST("/maintenance", h.LogMaintenance)
	group.POST("/fuel", h.LogFuel)
	group.GET("/summary", h.Summary)
	group.GET("/due", h.Due)
}

func (h *FleetHandler) LogMaintenance(c *gin.Context) {
	var m models.MaintenanceLog
	if err := c.ShouldBindJSON(&m); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	saved, err := h.svc.LogMaintenance(c.Request.Context(), m)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (h *FleetHandler) LogFuel(c *gin.Context) {
	var f models.FuelLog
	if err := c.ShouldBindJSON(&f); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	saved, err := h.svc.LogFuel(c.Request.Context(), f)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (h *FleetHandler) Summary(c *gin.Context) {
	sums, err := h.svc.Summary(c.Request.Context(), time.Now().UTC())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, sums)
}

func (h *FleetHandler) Due(c *gin.Context) {
	window, ok := queryInt(c, "days", 7)
	if !ok {
		return
	}
	due, err := h.svc.DueForService(c.Request.Context(), time.Now().UTC(), days(window))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if due == nil {
		due = []fleet.AssetSummary{}
	}
	c.JSON(http.StatusOK, due)
}
