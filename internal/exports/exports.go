// Package exports renders the ledger projection as CSV snapshots kept in
// blob storage.
package exports

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/saksham0021/mira-astrology-review/internal/ledger"
	"github.com/saksham0021/mira-astrology-review/internal/reviews"
	"github.com/saksham0021/mira-astrology-review/internal/sessions"
	"github.com/saksham0021/mira-astrology-review/pkg/formatting"
	"github.com/saksham0021/mira-astrology-review/pkg/storage"
)

// Prefix is the storage prefix every export key lives under.
const Prefix = "exports/"

const (
	contentType     = "text/csv; charset=utf-8"
	timestampLayout = "20060102_150405"
)

// SessionSource lists sessions in store order.
type SessionSource interface {
	All(ctx context.Context) ([]sessions.Session, error)
}

// ReviewSource lists stored reviews.
type ReviewSource interface {
	All(ctx context.Context) ([]reviews.Review, error)
}

// Export describes one stored snapshot.
type Export struct {
	Key       string    `json:"key"`
	Rows      int       `json:"rows"`
	Size      int       `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// System defines the public contract for export operations.
type System interface {
	Handler() *Handler
	// Create renders every session with its review and uploads the CSV.
	Create(ctx context.Context) (*Export, error)
	// Download opens a stored export. The caller must close Body.
	Download(ctx context.Context, key string) (*storage.Blob, error)
	// List returns one page of stored exports.
	List(ctx context.Context, marker string, maxResults int32) (*storage.BlobList, error)
}

type exporter struct {
	sessions    SessionSource
	reviews     ReviewSource
	store       storage.System
	logger      *slog.Logger
	maxListSize int32
	now         func() time.Time
}

// Option configures an exporter.
type Option func(*exporter)

// WithClock replaces the clock used to stamp export keys.
func WithClock(now func() time.Time) Option {
	return func(e *exporter) { e.now = now }
}

// New creates an export system writing to store.
func New(
	sessions SessionSource,
	reviews ReviewSource,
	store storage.System,
	logger *slog.Logger,
	maxListSize int32,
	opts ...Option,
) System {
	e := &exporter{
		sessions:    sessions,
		reviews:     reviews,
		store:       store,
		logger:      logger.With("system", "exports"),
		maxListSize: maxListSize,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *exporter) Handler() *Handler {
	return NewHandler(e, e.logger, e.maxListSize)
}

func (e *exporter) Create(ctx context.Context) (*Export, error) {
	all, err := e.sessions.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}

	rvs, err := e.reviews.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load reviews: %w", err)
	}
	byID := make(map[string]*reviews.Review, len(rvs))
	for i := range rvs {
		byID[rvs[i].SessionID] = &rvs[i]
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(ledger.Columns); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for _, s := range all {
		if err := w.Write(ledger.Project(s, byID[s.SessionID])); err != nil {
			return nil, fmt.Errorf("write session %s: %w", s.SessionID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	now := e.now()
	key := Key(now)
	size := buf.Len()

	if err := e.store.Upload(ctx, key, &buf, contentType); err != nil {
		return nil, err
	}

	e.logger.Info(
		"export created",
		"key", key,
		"rows", len(all),
		"size", formatting.FormatBytes(int64(size), 1),
	)
	return &Export{Key: key, Rows: len(all), Size: size, CreatedAt: now}, nil
}

func (e *exporter) Download(ctx context.Context, key string) (*storage.Blob, error) {
	if err := storage.ValidateKey(key); err != nil {
		return nil, err
	}
	if !strings.HasPrefix(key, Prefix) {
		return nil, storage.ErrNotFound
	}
	return e.store.Download(ctx, key)
}

func (e *exporter) List(ctx context.Context, marker string, maxResults int32) (*storage.BlobList, error) {
	return e.store.List(ctx, Prefix, marker, maxResults)
}

// Key returns the storage key of an export created at t.
func Key(t time.Time) string {
	return Prefix + "mira_reviewed_data_" + t.Format(timestampLayout) + ".csv"
}
