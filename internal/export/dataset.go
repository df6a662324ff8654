// Package export renders tabular farm data as PDF and XLSX documents.
package export

import (
	"fmt"
	"strconv"
	"time"

	"github.com/mamadbah2/farmstead/internal/domain/models"
	"github.com/mamadbah2/farmstead/internal/service/finance"
)

const dateLayout = "2006-01-02"

// Dataset is a titled table. Cells keep their Go type so spreadsheets get
// real numbers; PDF output formats them as text.
type Dataset struct {
	Title   string
	Sheet   string
	Headers []string
	Rows    [][]any
}

func cellText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', 2, 64)
	case int:
		return strconv.Itoa(x)
	case bool:
		if x {
			return "yes"
		}
		return "no"
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.Format(dateLayout)
	default:
		return fmt.Sprint(x)
	}
}

// PigsDataset is the herd register.
func PigsDataset(pigs []models.Pig) Dataset {
	d := Dataset{
		Title:   "Herd register",
		Sheet:   "Herd",
		Headers: []string{"Tag", "Name", "Breed", "Gender", "Stage", "Status", "Sire", "Dam", "Weight (kg)", "Born"},
	}
	for _, p := range pigs {
		d.Rows = append(d.Rows, []any{
			p.TagID, p.Name, p.Breed, string(p.Gender), string(p.Stage), string(p.Status),
			p.SireID, p.DamID, p.WeightKg, p.BirthDate,
		})
	}
	return d
}

// FinanceDataset is the ledger listing.
func FinanceDataset(records []models.FinanceRecord) Dataset {
	d := Dataset{
		Title:   "Finance ledger",
		Sheet:   "Ledger",
		Headers: []string{"Date", "Type", "Category", "Description", "Amount", "Reference"},
	}
	for _, r := range records {
		d.Rows = append(d.Rows, []any{r.Date, string(r.Type), r.Category, r.Description, r.Amount, r.Reference})
	}
	return d
}

// ScheduleDataset is a loan amortization table.
func ScheduleDataset(lender string, rows []finance.ScheduleRow) Dataset {
	d := Dataset{
		Title:   "Amortization schedule: " + lender,
		Sheet:   "Schedule",
		Headers: []string{"Month", "Payment", "Interest", "Principal", "Balance"},
	}
	for _, r := range rows {
		d.Rows = append(d.Rows, []any{r.Month, r.Payment, r.Interest, r.Principal, r.Balance})
	}
	return d
}

// CostCurveDataset is the daily cost and break-even table for a batch.
func CostCurveDataset(curve finance.CostCurve) Dataset {
	d := Dataset{
		Title:   "Cost curve",
		Sheet:   "Cost curve",
		Headers: []string{"Day", "Weight (kg)", "Feed (kg)", "Cumulative cost", "Break-even price/kg", "Margin"},
	}
	for _, p := range curve.Points {
		d.Rows = append(d.Rows, []any{p.Day, p.LiveWeightKg, p.FeedKg, p.CumulativeCost, p.BreakEvenPricePerKg, p.Margin})
	}
	return d
}

// OrdersDataset lists POS sales.
func OrdersDataset(orders []models.Order) Dataset {
	d := Dataset{
		Title:   "Sales",
		Sheet:   "Orders",
		Headers: []string{"Date", "Order", "Customer", "Lines", "Subtotal", "Discount", "Tax", "Total"},
	}
	for _, o := range orders {
		d.Rows = append(d.Rows, []any{o.CreatedAt, o.ID, o.CustomerID, len(o.Items), o.Subtotal, o.Discount, o.Tax, o.Total})
	}
	return d
}
