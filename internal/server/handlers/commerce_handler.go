package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmstead/internal/domain/models"
	"github.com/mamadbah2/farmstead/internal/export"
	"github.com/mamadbah2/farmstead/internal/service/commerce"
)

const maxImportBytes = 5 << 20

// CommerceHandler serves the POS and procurement flows.
type CommerceHandler struct {
	svc    *commerce.Service
	logger *zap.Logger
}

func NewCommerceHandler(svc *commerce.Service, logger *zap.Logger) *CommerceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommerceHandler{svc: svc, logger: logger}
}

// Register mounts the routes under group.
func (h *CommerceHandler) Register(group *gin.RouterGroup) {
	group.POST("/orders", h.PlaceOrder)
	group.GET("/customers/:id/orders", h.CustomerOrders)
	group.POST("/products", h.CreateProduct)
	group.PUT("/products/:id", h.UpdateProduct)
	group.DELETE("/products/:id", h.DeleteProduct)
	group.POST("/products/import", h.ImportProducts)
	group.GET("/stock/low", h.LowStock)
	group.POST("/procurement/feed", h.ReceiveFeed)
	group.POST("/feed/:id/consume", h.ConsumeFeed)
}

func (h *CommerceHandler) PlaceOrder(c *gin.Context) {
	var req commerce.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	order, err := h.svc.PlaceOrder(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *CommerceHandler) CustomerOrders(c *gin.Context) {
	orders, err := h.svc.CustomerOrders(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, orders)
}

func (h *CommerceHandler) LowStock(c *gin.Context) {
	threshold, ok := queryFloat(c, "threshold", 5)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	products, err := h.svc.LowStockProducts(ctx, threshold)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	feed, err := h.svc.LowFeed(ctx)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	if feed == nil {
		feed = []models.FeedInventory{}
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "feed": feed})
}

func (h *CommerceHandler) ReceiveFeed(c *gin.Context) {
	var r commerce.FeedReceipt
	if err := c.ShouldBindJSON(&r); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	item, err := h.svc.ReceiveFeed(c.Request.Context(), r)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

type consumeRequest struct {
	QuantityKg float64 `json:"quantityKg" binding:"required"`
}

func (h *CommerceHandler) ConsumeFeed(c *gin.Context) {
	var req consumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "quantityKg is required")
		return
	}
	item, err := h.svc.ConsumeFeed(c.Request.Context(), c.Param("id"), req.QuantityKg)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *CommerceHandler) CreateProduct(c *gin.Context) {
	var p models.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	saved, err := h.svc.SaveProduct(c.Request.Context(), p)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (h *CommerceHandler) UpdateProduct(c *gin.Context) {
	var p models.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	saved, err := h.svc.UpdateProduct(c.Request.Context(), c.Param("id"), p)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (h *CommerceHandler) DeleteProduct(c *gin.Context) {
	if err := h.svc.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ImportProducts loads catalog rows from an uploaded .xlsx file. Rows whose
// name matches an existing product update it in place.
func (h *CommerceHandler) ImportProducts(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file upload required")
		return
	}
	if fileHeader.Size > maxImportBytes {
		badRequest(c, "file too large")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	defer file.Close()

	res, err := export.ReadProducts(file)
	if err != nil {
		badRequest(c, "could not read workbook: "+err.Error())
		return
	}
	created, updated, err := h.svc.ImportProducts(c.Request.Context(), res.Products)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"created": created, "updated": updated, "skipped": res.Skipped})
}
