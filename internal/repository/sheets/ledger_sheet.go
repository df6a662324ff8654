package sheets

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/farmstead/internal/config"
)

const (
	// LedgerTab is the worksheet the finance ledger is mirrored to.
	LedgerTab = "Finance"

	dateLayout = "2006-01-02"
)

// LedgerHeader is the first row of the mirrored ledger.
var LedgerHeader = []interface{}{"Date", "Type", "Category", "Description", "Amount", "Reference"}

// LedgerRow is one finance entry as it appears in the spreadsheet.
type LedgerRow struct {
	Date        time.Time
	Type        string
	Category    string
	Description string
	Amount      float64
	Reference   string
}

// Values renders the row in LedgerHeader column order.
func (r LedgerRow) Values() []interface{} {
	return []interface{}{
		r.Date.Format(dateLayout),
		r.Type,
		r.Category,
		r.Description,
		strconv.FormatFloat(r.Amount, 'f', 2, 64),
		r.Reference,
	}
}

// Ledger appends finance entries to a spreadsheet.
type Ledger interface {
	AppendLedgerRow(ctx context.Context, row LedgerRow) error
}

// LedgerSheet mirrors the finance ledger into a Google Sheet through the Sheets API.
type LedgerSheet struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger

	headerMu    sync.Mutex
	headerReady bool
}

// NewLedgerSheet connects to the configured spreadsheet. Extra client options
// (endpoint, HTTP client) are appended after the credentials file.
func NewLedgerSheet(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger, opts ...option.ClientOption) (*LedgerSheet, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOpts := []option.ClientOption{option.WithScopes(sheetsapi.SpreadsheetsScope)}
	if cfg.CredentialsPath != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsPath))
	}
	clientOpts = append(clientOpts, opts...)

	service, err := sheetsapi.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &LedgerSheet{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendLedgerRow writes the header on first use when the tab is empty, then
// appends the row below the existing entries.
func (l *LedgerSheet) AppendLedgerRow(ctx context.Context, row LedgerRow) error {
	if err := l.ensureHeader(ctx); err != nil {
		return err
	}
	if err := l.appendValues(ctx, row.Values()); err != nil {
		return err
	}
	l.logger.Debug("ledger row appended",
		zap.String("reference", row.Reference),
		zap.String("category", row.Category))
	return nil
}

func (l *LedgerSheet) ensureHeader(ctx context.Context) error {
	l.headerMu.Lock()
	defer l.headerMu.Unlock()

	if l.headerReady {
		return nil
	}
	headerRange := LedgerTab + "!A1:F1"
	resp, err := l.service.Spreadsheets.Values.Get(l.spreadsheetID, headerRange).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read ledger header %s: %w", headerRange, err)
	}
	if len(resp.Values) == 0 {
		if err := l.appendValues(ctx, LedgerHeader); err != nil {
			return fmt.Errorf("write ledger header: %w", err)
		}
	}
	l.headerReady = true
	return nil
}

func (l *LedgerSheet) appendValues(ctx context.Context, values []interface{}) error {
	ledgerRange := LedgerTab + "!A:F"
	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := l.service.Spreadsheets.Values.Append(l.spreadsheetID, ledgerRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append row into range %s: %w", ledgerRange, err)
	}
	return nil
}
