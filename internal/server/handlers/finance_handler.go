package handlers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmstead/internal/domain/models"
	"github.com/mamadbah2/farmstead/internal/export"
	"github.com/mamadbah2/farmstead/internal/repository"
	"github.com/mamadbah2/farmstead/internal/service/finance"
)

// FinanceHandler serves the ledger and the financial calculators.
type FinanceHandler struct {
	svc     *finance.Service
	records repository.Store[models.FinanceRecord]
	logger  *zap.Logger
}

func NewFinanceHandler(svc *finance.Service, records repository.Store[models.FinanceRecord], logger *zap.Logger) *FinanceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FinanceHandler{svc: svc, records: records, logger: logger}
}

// Register mounts the routes under group.
func (h *FinanceHandler) Register(group *gin.RouterGroup) {
	group.GET("/records", h.ListRecords)
	group.POST("/records", h.CreateRecord)
	group.GET("/summary", h.Summary)
	group.GET("/tax", h.Tax)
	group.GET("/budgets/variance", h.Variance)
	group.GET("/loans/:id/payoff", h.LoanPayoff)
	group.GET("/loans/:id/schedule", h.LoanSchedule)

	calc := group.Group("/calculators")
	calc.POST("/payment", h.Payment)
	calc.POST("/payoff", h.Payoff)
	calc.POST("/cost-curve", h.CostCurve)
	calc.POST("/tax", h.TaxCalculator)
	calc.POST("/ratios", h.Ratios)
	calc.POST("/feed-mix", h.FeedMix)
}

func (h *FinanceHandler) ListRecords(c *gin.Context) {
	from, to, ok := period(c)
	if !ok {
		return
	}
	all, err := h.records.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	out := make([]models.FinanceRecord, 0, len(all))
	for _, r := range all {
		if (from.IsZero() || !r.Date.Before(from)) && (to.IsZero() || !r.Date.After(to)) {
			out = append(out, r)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (h *FinanceHandler) CreateRecord(c *gin.Context) {
	var rec models.FinanceRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	saved, err := h.svc.Record(c.Request.Context(), rec)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// period reads from/to query dates; to covers the whole day.
func period(c *gin.Context) (time.Time, time.Time, bool) {
	from, ok := queryDate(c, "from")
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	to, ok := queryDate(c, "to")
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	if !to.IsZero() {
		to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return from, to, true
}

func (h *FinanceHandler) Summary(c *gin.Context) {
	from, to, ok := period(c)
	if !ok {
		return
	}
	summary, err := h.svc.Summary(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *FinanceHandler) Tax(c *gin.Context) {
	from, to, ok := period(c)
	if !ok {
		return
	}
	est, err := h.svc.Tax(c.Request.Context(), from, to, nil)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, est)
}

func (h *FinanceHandler) Variance(c *gin.Context) {
	lines, err := h.svc.BudgetVariance(c.Request.Context(), c.Query("period"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, lines)
}

func (h *FinanceHandler) LoanPayoff(c *gin.Context) {
	extra, ok := queryFloat(c, "extra", 0)
	if !ok {
		return
	}
	plan, err := h.svc.LoanPayoff(c.Request.Context(), c.Param("id"), extra)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *FinanceHandler) LoanSchedule(c *gin.Context) {
	rows, err := h.svc.LoanSchedule(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

type paymentRequest struct {
	Principal     float64 `json:"principal"`
	AnnualRatePct float64 `json:"annualRatePct"`
	Months        int     `json:"months"`
}

func (h *FinanceHandler) Payment(c *gin.Context) {
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	payment, err := finance.Payment(req.Principal, req.AnnualRatePct, req.Months)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": payment})
}

type payoffRequest struct {
	Principal     float64 `json:"principal"`
	AnnualRatePct float64 `json:"annualRatePct"`
	Payment       float64 `json:"payment"`
	Extra         float64 `json:"extra"`
}

func (h *FinanceHandler) Payoff(c *gin.Context) {
	var req payoffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	plan, err := finance.PayoffAccelerator(req.Principal, req.AnnualRatePct, req.Payment, req.Extra)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *FinanceHandler) CostCurve(c *gin.Context) {
	var in finance.CostCurveInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	curve, err := finance.SimulateCostCurve(in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if c.Query("format") != "xlsx" {
		c.JSON(http.StatusOK, curve)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, export.CostCurveDataset(curve)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="cost-curve.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

type taxRequest struct {
	Income float64           `json:"income"`
	Bands  []finance.TaxBand `json:"bands"`
}

func (h *FinanceHandler) TaxCalculator(c *gin.Context) {
	var req taxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	est, err := finance.EstimateTax(req.Income, req.Bands)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, est)
}

func (h *FinanceHandler) Ratios(c *gin.Context) {
	var b finance.BalanceSheet
	if err := c.ShouldBindJSON(&b); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	c.JSON(http.StatusOK, finance.ComputeRatios(b))
}

type feedMixRequest struct {
	Ingredients []finance.Ingredient `json:"ingredients"`
}

func (h *FinanceHandler) FeedMix(c *gin.Context) {
	var req feedMixRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	mix, err := finance.MixCost(req.Ingredients)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, mix)
}
