package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmstead/internal/domain/models"
	"github.com/mamadbah2/farmstead/internal/export"
	"github.com/mamadbah2/farmstead/internal/repository"
	"github.com/mamadbah2/farmstead/internal/service/finance"
	"github.com/mamadbah2/farmstead/internal/service/reporting"
)

const (
	pdfContentType  = "application/pdf"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ReportHistory lists stored daily snapshots.
type ReportHistory interface {
	LatestDailyReports(ctx context.Context, limit int64) ([]models.DailyReport, error)
}

// ReportHandler serves reports and document exports.
type ReportHandler struct {
	svc     *reporting.Service
	finance *finance.Service
	set     *repository.Set
	history ReportHistory
	logger  *zap.Logger
	now     func() time.Time
}

// NewReportHandler wires the handler. history may be nil when snapshots are not persisted.
func NewReportHandler(svc *reporting.Service, fin *finance.Service, set *repository.Set, history ReportHistory, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{svc: svc, finance: fin, set: set, history: history, logger: logger, now: time.Now}
}

// Register mounts the routes under group.
func (h *ReportHandler) Register(group *gin.RouterGroup) {
	group.GET("/reports/daily", h.Daily)
	group.GET("/reports/weekly", h.Weekly)
	group.GET("/reports/history", h.History)
	group.GET("/export/:dataset", h.Export)
}

func (h *ReportHandler) Daily(c *gin.Context) {
	report, err := h.svc.DailyReport(c.Request.Context(), h.now())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) Weekly(c *gin.Context) {
	text, err := h.svc.WeeklyDigest(c.Request.Context(), h.now())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}

func (h *ReportHandler) History(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "report history requires MongoDB"})
		return
	}
	limit, ok := queryInt(c, "limit", 30)
	if !ok {
		return
	}
	if limit <= 0 {
		badRequest(c, "limit must be positive")
		return
	}
	reports, err := h.history.LatestDailyReports(c.Request.Context(), int64(limit))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if reports == nil {
		reports = []models.DailyReport{}
	}
	c.JSON(http.StatusOK, reports)
}

// Export renders a dataset as PDF (default) or XLSX.
func (h *ReportHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "pdf")
	if format != "pdf" && format != "xlsx" {
		badRequest(c, "format must be pdf or xlsx")
		return
	}

	d, err := h.dataset(c.Request.Context(), c.Param("dataset"), c.Query("loan"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var buf bytes.Buffer
	contentType := pdfContentType
	if format == "xlsx" {
		contentType = xlsxContentType
		err = export.WriteXLSX(&buf, d)
	} else {
		err = export.WritePDF(&buf, d, h.now())
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	filename := fmt.Sprintf("%s-%s.%s", d.Sheet, h.now().Format(dateLayout), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

func (h *ReportHandler) dataset(ctx context.Context, name, loanID string) (export.Dataset, error) {
	switch name {
	case "pigs":
		pigs, err := h.set.Pigs.List(ctx)
		if err != nil {
			return export.Dataset{}, err
		}
		return export.PigsDataset(pigs), nil
	case "finance":
		records, err := h.set.Finance.List(ctx)
		if err != nil {
			return export.Dataset{}, err
		}
		return export.FinanceDataset(records), nil
	case "orders":
		orders, err := h.set.Orders.List(ctx)
		if err != nil {
			return export.Dataset{}, err
		}
		return export.OrdersDataset(orders), nil
	case "loan-schedule":
		if loanID == "" {
			return export.Dataset{}, &models.ValidationError{Field: "loan", Message: "is required"}
		}
		loan, err := h.set.Loans.Get(ctx, loanID)
		if err != nil {
			return export.Dataset{}, err
		}
		rows, err := h.finance.LoanSchedule(ctx, loanID)
		if err != nil {
			return export.Dataset{}, err
		}
		return export.ScheduleDataset(loan.Lender, rows), nil
	default:
		return export.Dataset{}, fmt.Errorf("dataset %q: %w", name, repository.ErrNotFound)
	}
}
