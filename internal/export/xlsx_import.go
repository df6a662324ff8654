package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/farmstead/internal/domain/models"
)

// ImportResult holds the products parsed from a catalog sheet and the rows
// that could not be used.
type ImportResult struct {
	Products []models.Product `json:"products"`
	Skipped  []string         `json:"skipped"`
}

// ReadProducts parses the first worksheet of an XLSX catalog. Columns are
// name, unit, price and stock; a leading header row is detected and skipped.
func ReadProducts(r io.Reader) (ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return ImportResult{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ImportResult{}, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return ImportResult{}, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}

	res := ImportResult{Products: []models.Product{}, Skipped: []string{}}
	for i, row := range rows {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		if i == 0 && isHeader(row[0]) {
			continue
		}
		p, err := productFromRow(row)
		if err != nil {
			res.Skipped = append(res.Skipped, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		res.Products = append(res.Products, p)
	}
	return res, nil
}

func isHeader(cell string) bool {
	c := strings.ToLower(strings.TrimSpace(cell))
	return c == "name" || c == "product" || strings.HasPrefix(c, "product name")
}

func productFromRow(row []string) (models.Product, error) {
	p := models.Product{Name: strings.TrimSpace(row[0])}
	if len(row) > 1 {
		p.Unit = strings.TrimSpace(row[1])
	}
	var err error
	if p.Price, err = number(row, 2); err != nil {
		return models.Product{}, fmt.Errorf("price: %w", err)
	}
	if p.Stock, err = number(row, 3); err != nil {
		return models.Product{}, fmt.Errorf("stock: %w", err)
	}
	if err := p.Validate(); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

func number(row []string, i int) (float64, error) {
	if i >= len(row) {
		return 0, nil
	}
	s := strings.TrimSpace(strings.ReplaceAll(row[i], ",", "."))
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
