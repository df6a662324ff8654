package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmstead/internal/repository"
)

type validator interface {
	Validate() error
}

// Resource serves plain CRUD for a record type with no behaviour beyond validation.
type Resource[T any] struct {
	store  repository.Store[T]
	id     func(*T) *string
	logger *zap.Logger
}

// NewResource builds a CRUD handler. id returns a pointer to the record's ID field.
func NewResource[T any](store repository.Store[T], id func(*T) *string, logger *zap.Logger) *Resource[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resource[T]{store: store, id: id, logger: logger}
}

// Register mounts the routes under group.
func (h *Resource[T]) Register(group *gin.RouterGroup, readOnly bool) {
	group.GET("", h.List)
	group.GET("/:id", h.Get)
	if readOnly {
		return
	}
	group.POST("", h.Create)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
}

func (h *Resource[T]) List(c *gin.Context) {
	records, err := h.store.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *Resource[T]) Get(c *gin.Context) {
	rec, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Resource[T]) Create(c *gin.Context) {
	var rec T
	if err := c.ShouldBindJSON(&rec); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	id := h.id(&rec)
	if *id == "" {
		*id = uuid.NewString()
	}
	h.save(c, *id, rec, http.StatusCreated)
}

func (h *Resource[T]) Update(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.store.Get(ctx, c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	var rec T
	if err := c.ShouldBindJSON(&rec); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	*h.id(&rec) = c.Param("id")
	h.save(c, c.Param("id"), rec, http.StatusOK)
}

func (h *Resource[T]) Delete(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Resource[T]) save(c *gin.Context, id string, rec T, status int) {
	if v, ok := any(&rec).(validator); ok {
		if err := v.Validate(); err != nil {
			respondError(c, h.logger, err)
			return
		}
	}
	if err := h.store.Save(c.Request.Context(), id, rec); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(status, rec)
}
