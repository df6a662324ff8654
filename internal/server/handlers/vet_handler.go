package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmstead/internal/domain/models"
	"github.com/mamadbah2/farmstead/internal/service/vet"
)

// VetHandler serves the health book.
type VetHandler struct {
	svc           *vet.Service
	defaultWindow int
	logger        *zap.Logger
}

// NewVetHandler wires the handler. windowDays is the default look-ahead for due boosters.
func NewVetHandler(svc *vet.Service, windowDays int, logger *zap.Logger) *VetHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VetHandler{svc: svc, defaultWindow: windowDays, logger: logger}
}

// Register mounts the routes under group.
func (h *VetHandler) Register(group *gin.RouterGroup) {
	group.GET("/protocols", h.ListProtocols)
	group.POST("/protocols", h.SaveProtocol)
	group.POST("/records", h.Record)
	group.GET("/pigs/:id/history", h.History)
	group.GET("/pigs/:id/withdrawal", h.Withdrawal)
	group.GET("/due", h.Due)
}

func (h *VetHandler) ListProtocols(c *gin.Context) {
	protocols, err := h.svc.Protocols(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, protocols)
}

func (h *VetHandler) SaveProtocol(c *gin.Context) {
	var p models.Protocol
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	saved, err := h.svc.SaveProtocol(c.Request.Context(), p)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (h *VetHandler) Record(c *gin.Context) {
	var rec models.HealthRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if rec.Date.IsZero() {
		rec.Date = time.Now().UTC()
	}
	saved, err := h.svc.Record(c.Request.Context(), rec)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (h *VetHandler) History(c *gin.Context) {
	history, err := h.svc.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if history == nil {
		history = []models.HealthRecord{}
	}
	c.JSON(http.StatusOK, history)
}

func (h *VetHandler) Withdrawal(c *gin.Context) {
	at, ok := queryDate(c, "at")
	if !ok {
		return
	}
	if at.IsZero() {
		at = time.Now().UTC()
	}
	status, err := h.svc.WithdrawalStatus(c.Request.Context(), c.Param("id"), at)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *VetHandler) Due(c *gin.Context) {
	window, ok := queryInt(c, "days", h.defaultWindow)
	if !ok {
		return
	}
	due, err := h.svc.DueVaccinations(c.Request.Context(), time.Now().UTC(), days(window))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if due == nil {
		due = []vet.DueVaccination{}
	}
	c.JSON(http.StatusOK, due)
}
