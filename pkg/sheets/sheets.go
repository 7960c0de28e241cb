// Package sheets provides a Google Sheets client over one worksheet, treating
// row 1 as the header and every following row as a record.
package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/saksham0021/mira-astrology-review/pkg/lifecycle"
)

const (
	inputRaw        = "RAW"
	renderFormatted = "FORMATTED_VALUE"
	lastColumn      = "ZZZ"
)

// System reads and writes one worksheet. Rows and columns are 1-based.
type System interface {
	// Start registers a startup hook that resolves the worksheet.
	Start(lc *lifecycle.Coordinator) error
	// Title returns the worksheet title, resolving the first worksheet when
	// no sheet name is configured.
	Title(ctx context.Context) (string, error)
	// Header returns row 1.
	Header(ctx context.Context) ([]string, error)
	// Records returns one map per data row keyed by header, including blank
	// rows, so record i lives in row i+2.
	Records(ctx context.Context) ([]map[string]string, error)
	WriteHeader(ctx context.Context, header []string) error
	WriteRow(ctx context.Context, row int, values []string) error
	// WriteRows writes rows starting at row startRow.
	WriteRows(ctx context.Context, startRow int, rows [][]string) error
	AppendRow(ctx context.Context, values []string) error
	// WriteCells writes the given columns of a single row in one batch.
	WriteCells(ctx context.Context, row int, cells map[int]string) error
	// ClearFrom clears every row from row onward.
	ClearFrom(ctx context.Context, row int) error
}

type client struct {
	svc     *gsheets.Service
	id      string
	name    string
	timeout time.Duration
	logger  *slog.Logger

	mu    sync.Mutex
	title string
}

// New creates a Sheets client from the given configuration. Extra options are
// appended after the credential options.
func New(ctx context.Context, cfg *Config, logger *slog.Logger, opts ...option.ClientOption) (System, error) {
	all := append(credentialOptions(cfg.Credentials), option.WithScopes(gsheets.SpreadsheetsScope))
	all = append(all, opts...)

	svc, err := gsheets.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &client{
		svc:     svc,
		id:      cfg.ID(),
		name:    cfg.SheetName,
		timeout: cfg.TimeoutDuration(),
		logger:  logger.With("system", "sheets"),
	}, nil
}

func credentialOptions(creds string) []option.ClientOption {
	creds = strings.TrimSpace(creds)
	if creds == "" {
		return nil
	}
	if strings.HasPrefix(creds, "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	}
	return []option.ClientOption{option.WithCredentialsFile(creds)}
}

func (c *client) Start(lc *lifecycle.Coordinator) error {
	c.logger.Info("starting sheets client")

	lc.OnStartup(func() {
		title, err := c.Title(lc.Context())
		if err != nil {
			c.logger.Error("worksheet resolution failed", "error", err)
			return
		}
		c.logger.Info("worksheet ready", "spreadsheet", c.id, "sheet", title)
	})

	return nil
}

func (c *client) Title(ctx context.Context) (string, error) {
	if c.name != "" {
		return c.name, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.title != "" {
		return c.title, nil
	}

	ctx, cancel := c.bound(ctx)
	defer cancel()

	ss, err := c.svc.Spreadsheets.Get(c.id).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("get spreadsheet %s: %w", c.id, err)
	}
	if len(ss.Sheets) == 0 || ss.Sheets[0].Properties == nil {
		return "", fmt.Errorf("spreadsheet %s has no worksheets", c.id)
	}

	c.title = ss.Sheets[0].Properties.Title
	return c.title, nil
}

func (c *client) Header(ctx context.Context) ([]string, error) {
	rows, err := c.read(ctx, func(title string) string {
		return fmt.Sprintf("%s!1:1", quoteTitle(title))
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []string{}, nil
	}
	return rows[0], nil
}

func (c *client) Records(ctx context.Context) ([]map[string]string, error) {
	rows, err := c.read(ctx, quoteTitle)
	if err != nil {
		return nil, err
	}
	return toRecords(rows), nil
}

func toRecords(rows [][]string) []map[string]string {
	if len(rows) == 0 {
		return []map[string]string{}
	}

	header := rows[0]
	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(map[string]string, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			if _, seen := rec[name]; seen {
				continue
			}
			if i < len(row) {
				rec[name] = row[i]
			} else {
				rec[name] = ""
			}
		}
		records = append(records, rec)
	}
	return records
}

func (c *client) WriteHeader(ctx context.Context, header []string) error {
	return c.WriteRow(ctx, 1, header)
}

func (c *client) WriteRow(ctx context.Context, row int, values []string) error {
	return c.update(ctx, func(title string) string {
		return RowRange(title, row, max(len(values), 1))
	}, [][]string{values})
}

func (c *client) WriteRows(ctx context.Context, startRow int, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	return c.update(ctx, func(title string) string {
		return fmt.Sprintf("%s!A%d", quoteTitle(title), startRow)
	}, rows)
}

func (c *client) AppendRow(ctx context.Context, values []string) error {
	title, err := c.Title(ctx)
	if err != nil {
		return err
	}

	ctx, cancel := c.bound(ctx)
	defer cancel()

	_, err = c.svc.Spreadsheets.Values.
		Append(c.id, quoteTitle(title)+"!A1", valueRange("", [][]string{values})).
		ValueInputOption(inputRaw).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	return nil
}

func (c *client) WriteCells(ctx context.Context, row int, cells map[int]string) error {
	if len(cells) == 0 {
		return nil
	}

	title, err := c.Title(ctx)
	if err != nil {
		return err
	}

	data := make([]*gsheets.ValueRange, 0, len(cells))
	for col, value := range cells {
		rng := CellRange(title, row, col)
		data = append(data, valueRange(rng, [][]string{{value}}))
	}

	ctx, cancel := c.bound(ctx)
	defer cancel()

	_, err = c.svc.Spreadsheets.Values.
		BatchUpdate(c.id, &gsheets.BatchUpdateValuesRequest{
			ValueInputOption: inputRaw,
			Data:             data,
		}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("write cells in row %d: %w", row, err)
	}
	return nil
}

func (c *client) ClearFrom(ctx context.Context, row int) error {
	title, err := c.Title(ctx)
	if err != nil {
		return err
	}

	ctx, cancel := c.bound(ctx)
	defer cancel()

	rng := fmt.Sprintf("%s!A%d:%s", quoteTitle(title), row, lastColumn)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.id, rng, &gsheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear from row %d: %w", row, err)
	}
	return nil
}

func (c *client) read(ctx context.Context, rangeOf func(title string) string) ([][]string, error) {
	title, err := c.Title(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := c.bound(ctx)
	defer cancel()

	rng := rangeOf(title)
	resp, err := c.svc.Spreadsheets.Values.
		Get(c.id, rng).
		ValueRenderOption(renderFormatted).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}

	rows := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		rows[i] = make([]string, len(row))
		for j, cell := range row {
			rows[i][j] = fmt.Sprint(cell)
		}
	}
	return rows, nil
}

func (c *client) update(ctx context.Context, rangeOf func(title string) string, rows [][]string) error {
	title, err := c.Title(ctx)
	if err != nil {
		return err
	}

	ctx, cancel := c.bound(ctx)
	defer cancel()

	rng := rangeOf(title)
	_, err = c.svc.Spreadsheets.Values.
		Update(c.id, rng, valueRange(rng, rows)).
		ValueInputOption(inputRaw).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("write %s: %w", rng, err)
	}
	return nil
}

func (c *client) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

func valueRange(rng string, rows [][]string) *gsheets.ValueRange {
	values := make([][]any, len(rows))
	for i, row := range rows {
		values[i] = make([]any, len(row))
		for j, cell := range row {
			values[i][j] = cell
		}
	}
	return &gsheets.ValueRange{Range: rng, Values: values}
}
