package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmstead/internal/domain/models"
	"github.com/mamadbah2/farmstead/internal/service/livestock"
)

// LivestockHandler serves the pig registry and lineage explorer.
type LivestockHandler struct {
	svc    *livestock.Service
	logger *zap.Logger
}

func NewLivestockHandler(svc *livestock.Service, logger *zap.Logger) *LivestockHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LivestockHandler{svc: svc, logger: logger}
}

// Register mounts the routes under group.
func (h *LivestockHandler) Register(group *gin.RouterGroup) {
	group.GET("/pigs", h.List)
	group.POST("/pigs", h.Create)
	group.GET("/pigs/at-risk", h.AtRisk)
	group.GET("/pigs/:id", h.Get)
	group.PUT("/pigs/:id", h.Update)
	group.DELETE("/pigs/:id", h.Delete)
	group.GET("/pigs/:id/inbreeding", h.Inbreeding)
	group.GET("/pigs/:id/pedigree", h.Pedigree)
	group.GET("/pigs/:id/offspring", h.Offspring)
	group.GET("/herd/summary", h.Summary)
	group.POST("/breeding/check", h.MatingCheck)
}

func (h *LivestockHandler) List(c *gin.Context) {
	pigs, err := h.svc.List(c.Request.Context(), models.AnimalStatus(c.Query("status")))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, pigs)
}

func (h *LivestockHandler) Get(c *gin.Context) {
	pig, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, pig)
}

func (h *LivestockHandler) Create(c *gin.Context) {
	var pig models.Pig
	if err := c.ShouldBindJSON(&pig); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	created, err := h.svc.Register(c.Request.Context(), pig)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *LivestockHandler) Update(c *gin.Context) {
	var pig models.Pig
	if err := c.ShouldBindJSON(&pig); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	updated, err := h.svc.Update(c.Request.Context(), c.Param("id"), pig)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *LivestockHandler) Delete(c *gin.Context) {
	if err := h.svc.Remove(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *LivestockHandler) Inbreeding(c *gin.Context) {
	depth, ok := queryInt(c, "depth", 0)
	if !ok {
		return
	}
	res, err := h.svc.InbreedingCheck(c.Request.Context(), c.Param("id"), depth)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *LivestockHandler) Pedigree(c *gin.Context) {
	depth, ok := queryInt(c, "depth", 0)
	if !ok {
		return
	}
	tree, err := h.svc.Pedigree(c.Request.Context(), c.Param("id"), depth)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, tree)
}

func (h *LivestockHandler) Offspring(c *gin.Context) {
	kids, err := h.svc.Offspring(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if kids == nil {
		kids = []models.Pig{}
	}
	c.JSON(http.StatusOK, kids)
}

func (h *LivestockHandler) AtRisk(c *gin.Context) {
	pigs, err := h.svc.AtRisk(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if pigs == nil {
		pigs = []models.Pig{}
	}
	c.JSON(http.StatusOK, pigs)
}

func (h *LivestockHandler) Summary(c *gin.Context) {
	pigs, err := h.svc.List(c.Request.Context(), "")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, livestock.Count(pigs))
}

type matingRequest struct {
	Sire  string `json:"sire" binding:"required"`
	Dam   string `json:"dam" binding:"required"`
	Depth int    `json:"depth"`
}

func (h *LivestockHandler) MatingCheck(c *gin.Context) {
	var req matingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "sire and dam are required")
		return
	}
	res, err := h.svc.MatingCheck(c.Request.Context(), req.Sire, req.Dam, req.Depth)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
