// Package sheets reads the staff roster from a Google Sheets spreadsheet.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/spec-kit/staff-directory/internal/config"
)

// DefaultSheetTitle is used when the spreadsheet metadata lists no sheets.
const DefaultSheetTitle = "Sheet1"

// dataColumns covers columns A..L, starting below the header row.
const dataColumns = "A2:L"

var (
	// ErrNotConfigured is returned by FetchRows when no spreadsheet id is set.
	ErrNotConfigured = errors.New("sheets: spreadsheet id not configured")
	// ErrNoCredentials is returned by FetchRows when no API key is set and
	// no default credentials could be found.
	ErrNoCredentials = errors.New("sheets: no credentials")
	// ErrNotInitialized is returned by FetchRows before Init.
	ErrNotInitialized = errors.New("sheets: client not initialized")
)

// Client fetches raw rows from the first sheet of a spreadsheet.
type Client struct {
	cfg    config.SheetsConfig
	opts   []option.ClientOption
	logger *zap.Logger

	mu       sync.Mutex
	svc      *gsheets.Service
	fetchErr error
}

// NewClient builds a client. Extra options are appended after the ones
// derived from cfg.
func NewClient(cfg config.SheetsConfig, logger *zap.Logger, opts ...option.ClientOption) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{cfg: cfg, opts: opts, logger: logger}
}

// Init creates the underlying API service once. A missing spreadsheet id
// or missing credentials do not fail Init; FetchRows reports them so the
// caller can treat the sheet as unavailable. Only a client that cannot be
// built from explicit options is an error here.
func (c *Client) Init(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.svc != nil {
		return nil
	}
	if c.cfg.SpreadsheetID == "" {
		c.fetchErr = ErrNotConfigured
		c.logger.Warn("GOOGLE_SHEETS_ID not set; sheet source unavailable")
		return nil
	}
	// Without an API key or caller options the only thing NewService can
	// fail on is the default credential lookup.
	implicitAuth := c.cfg.APIKey == "" && len(c.opts) == 0

	var opts []option.ClientOption
	if c.cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(c.cfg.APIKey))
	}
	if c.cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.cfg.Endpoint))
	}
	opts = append(opts, c.opts...)

	svc, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		if implicitAuth {
			c.fetchErr = fmt.Errorf("%w: %v", ErrNoCredentials, err)
			c.logger.Warn("no sheets credentials; sheet source unavailable", zap.Error(err))
			return nil
		}
		return fmt.Errorf("sheets: init service: %w", err)
	}
	c.svc = svc
	c.fetchErr = nil
	c.logger.Info("sheets client initialized", zap.String("spreadsheet_id", c.cfg.SpreadsheetID))
	return nil
}

func (c *Client) service() (*gsheets.Service, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.svc != nil {
		return c.svc, nil
	}
	if c.fetchErr != nil {
		return nil, c.fetchErr
	}
	return nil, ErrNotInitialized
}

// FetchRows returns every data row of the first sheet as text cells.
func (c *Client) FetchRows(ctx context.Context) ([][]string, error) {
	svc, err := c.service()
	if err != nil {
		return nil, err
	}

	meta, err := svc.Spreadsheets.Get(c.cfg.SpreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("sheets: get spreadsheet: %w", err)
	}

	title := DefaultSheetTitle
	if len(meta.Sheets) > 0 && meta.Sheets[0].Properties != nil && meta.Sheets[0].Properties.Title != "" {
		title = meta.Sheets[0].Properties.Title
	}
	rng := DataRange(title)

	resp, err := svc.Spreadsheets.Values.Get(c.cfg.SpreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets: get values %s: %w", rng, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			if cell != nil {
				row[i] = fmt.Sprint(cell)
			}
		}
		rows = append(rows, row)
	}
	c.logger.Debug("fetched sheet rows", zap.String("range", rng), zap.Int("rows", len(rows)))
	return rows, nil
}

// DataRange builds the A1 range covering the data rows of a sheet.
func DataRange(title string) string {
	return quoteTitle(title) + "!" + dataColumns
}

func quoteTitle(title string) string {
	for _, r := range title {
		if !(r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return "'" + strings.ReplaceAll(title, "'", "''") + "'"
		}
	}
	return title
}
