package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmstead/internal/domain/models"
	"github.com/mamadbah2/farmstead/internal/service/crops"
)

// CropsHandler serves crop cycles and their activities.
type CropsHandler struct {
	svc    *crops.Service
	logger *zap.Logger
}

func NewCropsHandler(svc *crops.Service, logger *zap.Logger) *CropsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CropsHandler{svc: svc, logger: logger}
}

// Register mounts the routes under the cycles group.
func (h *CropsHandler) Register(group *gin.RouterGroup) {
	group.POST("", h.StartCycle)
	group.GET("/upcoming", h.Upcoming)
	group.POST("/:id/activities", h.LogActivity)
	group.POST("/:id/harvest", h.Harvest)
	group.GET("/:id/summary", h.Summary)
}

func (h *CropsHandler) StartCycle(c *gin.Context) {
	var cycle models.CropCycle
	if err := c.ShouldBindJSON(&cycle); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	started, err := h.svc.StartCycle(c.Request.Context(), cycle)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, started)
}

func (h *CropsHandler) LogActivity(c *gin.Context) {
	var a models.CropActivity
	if err := c.ShouldBindJSON(&a); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	a.CycleID = c.Param("id")
	if a.Date.IsZero() {
		a.Date = time.Now().UTC()
	}
	saved, err := h.svc.LogActivity(c.Request.Context(), a)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

type harvestRequest struct {
	YieldKg float64   `json:"yieldKg"`
	Date    time.Time `json:"date"`
}

func (h *CropsHandler) Harvest(c *gin.Context) {
	var req harvestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	cycle, err := h.svc.Harvest(c.Request.Context(), c.Param("id"), req.YieldKg, req.Date)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cycle)
}

func (h *CropsHandler) Summary(c *gin.Context) {
	sum, err := h.svc.Summary(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (h *CropsHandler) Upcoming(c *gin.Context) {
	window, ok := queryInt(c, "days", 14)
	if !ok {
		return
	}
	cycles, err := h.svc.Upcoming(c.Request.Context(), time.Now().UTC(), days(window))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if cycles == nil {
		cycles = []models.CropCycle{}
	}
	c.JSON(http.StatusOK, cycles)
}
