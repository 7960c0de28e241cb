// Package ledger keeps the relational store and the ledger spreadsheet
// consistent. The store owns the key space; the sheet is a flat projection
// of sessions joined with their reviews that reviewers may also edit.
//
// Row lookups followed by writes are not atomic with respect to concurrent
// edits of the sheet; the last writer wins.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/saksham0021/mira-astrology-review/internal/reviews"
	"github.com/saksham0021/mira-astrology-review/internal/sessions"
)

// Sheet is the spreadsheet the ledger is kept in. Rows and columns are
// 1-based and row 1 holds the header.
type Sheet interface {
	Header(ctx context.Context) ([]string, error)
	// Records returns one map per data row, blank rows included, so record i
	// lives in row i+2.
	Records(ctx context.Context) ([]map[string]string, error)
	WriteHeader(ctx context.Context, header []string) error
	WriteRow(ctx context.Context, row int, values []string) error
	WriteRows(ctx context.Context, startRow int, rows [][]string) error
	AppendRow(ctx context.Context, values []string) error
	WriteCells(ctx context.Context, row int, cells map[int]string) error
	ClearFrom(ctx context.Context, row int) error
}

// SessionStore is the part of the session system the engine uses.
type SessionStore interface {
	All(ctx context.Context) ([]sessions.Session, error)
	Find(ctx context.Context, id string) (*sessions.Session, error)
	Save(ctx context.Context, s sessions.Session) (bool, error)
	Delete(ctx context.Context, ids ...string) (int, error)
	Count(ctx context.Context) (int, error)
}

// ReviewStore is the part of the review system the engine uses.
type ReviewStore interface {
	All(ctx context.Context) ([]reviews.Review, error)
	Find(ctx context.Context, sessionID string) (*reviews.Review, error)
	Delete(ctx context.Context, sessionID string) error
	DeleteAll(ctx context.Context) (int, error)
	Count(ctx context.Context) (int, error)
}

// Outcome reports what a sync operation did.
type Outcome struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	Inserted       int    `json:"inserted,omitempty"`
	Updated        int    `json:"updated,omitempty"`
	Unchanged      int    `json:"unchanged,omitempty"`
	Skipped        int    `json:"skipped,omitempty"`
	Deleted        int    `json:"deleted,omitempty"`
	ReviewsRemoved int    `json:"reviews_removed,omitempty"`
	RowsWritten    int    `json:"rows_written,omitempty"`
	Row            int    `json:"row,omitempty"`
	Appended       bool   `json:"appended,omitempty"`
}

// ReviewFields are the values written by a review-only patch.
type ReviewFields struct {
	AstrologerName string
	OverallStatus  string
	Comments       string
	Status         string
	Date           string
}

// ReviewFieldsFrom converts a stored review.
func ReviewFieldsFrom(r reviews.Review) ReviewFields {
	return ReviewFields{
		AstrologerName: r.AstrologerName,
		OverallStatus:  r.OverallStatus,
		Comments:       r.Comments,
		Status:         r.Status,
		Date:           r.UpdatedAt.Format(DateLayout),
	}
}

// Engine runs ledger sync operations against one sheet.
type Engine struct {
	sheet    Sheet
	locator  RowLocator
	sessions SessionStore
	reviews  ReviewStore
	cache    *Cache[[]map[string]string]
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLocator replaces the scanning row locator.
func WithLocator(l RowLocator) Option {
	return func(e *Engine) { e.locator = l }
}

// WithClock replaces the clock used by the read cache and review dates.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an Engine.
func New(
	sheet Sheet,
	sessions SessionStore,
	reviews ReviewStore,
	cfg *Config,
	logger *slog.Logger,
	opts ...Option,
) *Engine {
	e := &Engine{
		sheet:    sheet,
		sessions: sessions,
		reviews:  reviews,
		logger:   logger.With("system", "ledger"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.locator == nil {
		e.locator = NewRowLocator(sheet)
	}
	e.cache = NewCache(sheet.Records, cfg.CacheTTL(), e.now, e.logger)
	return e
}

// Pull upserts every sheet row into the store, deletes sessions no longer in
// the sheet together with their reviews, and removes local reviews whose
// sheet row no longer carries review data. Rows are committed one at a time;
// a failure leaves earlier rows applied.
func (e *Engine) Pull(ctx context.Context) (Outcome, error) {
	defer e.cache.Invalidate()

	records, err := e.sheet.Records(ctx)
	if err != nil {
		return Outcome{}, fmt.Errorf("read sheet: %w", err)
	}

	if len(records) == 0 {
		e.logger.Info("pull skipped, sheet is empty")
		return Outcome{Success: true, Message: "No records to sync"}, nil
	}

	stored, err := e.sessions.All(ctx)
	if err != nil {
		return Outcome{}, fmt.Errorf("load sessions: %w", err)
	}
	existing := make(map[string]*sessions.Session, len(stored))
	for i := range stored {
		existing[stored[i].SessionID] = &stored[i]
	}

	var out Outcome
	seen := make(map[string]sessions.SheetReview, len(records))

	for i, rec := range records {
		s, ok := FromRecord(rec)
		if !ok {
			out.Skipped++
			e.logger.Warn("skipping sheet row without session id", "row", i+2)
			continue
		}
		seen[s.SessionID] = ReviewFromRecord(rec)

		if prev, ok := existing[s.SessionID]; ok {
			s.KundliJSON = prev.KundliJSON
			s.DoshaJSON = prev.DoshaJSON
			if prev.SameContent(&s) {
				out.Unchanged++
				continue
			}
		}

		inserted, err := e.sessions.Save(ctx, s)
		if errors.Is(err, sessions.ErrInvalid) {
			out.Skipped++
			e.logger.Warn("skipping invalid sheet row", "row", i+2, "session_id", s.SessionID, "error", err)
			continue
		}
		if err != nil {
			return out, fmt.Errorf("save session %s: %w", s.SessionID, err)
		}
		if inserted {
			out.Inserted++
		} else {
			out.Updated++
		}
		existing[s.SessionID] = &s
	}

	if len(seen) > 0 {
		var stale []string
		for _, s := range stored {
			if _, ok := seen[s.SessionID]; !ok {
				stale = append(stale, s.SessionID)
			}
		}

		n, err := e.sessions.Delete(ctx, stale...)
		if err != nil {
			return out, fmt.Errorf("delete stale sessions: %w", err)
		}
		out.Deleted = n
	}

	local, err := e.reviews.All(ctx)
	if err != nil {
		return out, fmt.Errorf("load reviews: %w", err)
	}
	for _, r := range local {
		sheetReview, ok := seen[r.SessionID]
		if !ok || !r.Reviewed() || HasReviewData(sheetReview) {
			continue
		}
		if err := e.reviews.Delete(ctx, r.SessionID); err != nil && !errors.Is(err, reviews.ErrNotFound) {
			return out, fmt.Errorf("remove review %s: %w", r.SessionID, err)
		}
		out.ReviewsRemoved++
		e.logger.Info("review removed, no longer marked in sheet", "session_id", r.SessionID)
	}

	out.Success = true
	out.Message = fmt.Sprintf(
		"Sync complete: %d new, %d updated, %d deleted, %d reviews removed",
		out.Inserted, out.Updated, out.Deleted, out.ReviewsRemoved,
	)
	e.logger.Info(
		"pull complete",
		"inserted", out.Inserted,
		"updated", out.Updated,
		"unchanged", out.Unchanged,
		"skipped", out.Skipped,
		"deleted", out.Deleted,
		"reviews_removed", out.ReviewsRemoved,
	)
	return out, nil
}

// Push overwrites the sheet data region with one row per session, in store
// order, and clears any rows past the new end. The header is rewritten when
// it differs from Columns. An empty store leaves the sheet untouched.
func (e *Engine) Push(ctx context.Context) (Outcome, error) {
	defer e.cache.Invalidate()

	all, err := e.sessions.All(ctx)
	if err != nil {
		return Outcome{}, fmt.Errorf("load sessions: %w", err)
	}
	if len(all) == 0 {
		e.logger.Info("push skipped, store is empty")
		return Outcome{Success: true, Message: "No sessions to sync"}, nil
	}

	byID, err := e.reviewIndex(ctx)
	if err != nil {
		return Outcome{}, err
	}

	if err := e.ensureHeader(ctx); err != nil {
		return Outcome{}, err
	}

	rows := make([][]string, len(all))
	for i, s := range all {
		rows[i] = Project(s, byID[s.SessionID])
	}

	if err := e.sheet.WriteRows(ctx, 2, rows); err != nil {
		return Outcome{}, fmt.Errorf("write rows: %w", err)
	}
	if err := e.sheet.ClearFrom(ctx, len(rows)+2); err != nil {
		return Outcome{}, fmt.Errorf("clear trailing rows: %w", err)
	}

	e.logger.Info("push complete", "rows", len(rows))
	return Outcome{
		Success:     true,
		Message:     fmt.Sprintf("Synced %d sessions to sheet", len(rows)),
		RowsWritten: len(rows),
	}, nil
}

// FullSync pulls the sheet into the store, then pushes the store back.
func (e *Engine) FullSync(ctx context.Context) (Outcome, error) {
	pulled, err := e.Pull(ctx)
	if err != nil {
		return pulled, err
	}

	pushed, err := e.Push(ctx)
	if err != nil {
		return pulled, err
	}

	pulled.RowsWritten = pushed.RowsWritten
	pulled.Message = "Full sync complete: " + pulled.Message + "; " + pushed.Message
	return pulled, nil
}

// ClearReviews deletes every local review, then pulls the sheet.
func (e *Engine) ClearReviews(ctx context.Context) (Outcome, error) {
	n, err := e.reviews.DeleteAll(ctx)
	if err != nil {
		return Outcome{}, fmt.Errorf("clear reviews: %w", err)
	}
	e.logger.Info("local reviews cleared", "count", n)

	out, err := e.Pull(ctx)
	if err != nil {
		return out, err
	}
	out.ReviewsRemoved += n
	out.Message = "Reviews cleared and re-synced from sheet"
	return out, nil
}

// UpdateRow overwrites the sheet row of one session with its current
// projection. A session missing from the sheet is appended with a warning;
// an existing row is never duplicated.
func (e *Engine) UpdateRow(ctx context.Context, sessionID string) (Outcome, error) {
	defer e.cache.Invalidate()

	s, err := e.sessions.Find(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			return Outcome{}, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		}
		return Outcome{}, fmt.Errorf("load session: %w", err)
	}

	r, err := e.reviews.Find(ctx, sessionID)
	if err != nil && !errors.Is(err, reviews.ErrNotFound) {
		return Outcome{}, fmt.Errorf("load review: %w", err)
	}

	values := Project(*s, r)

	row, err := e.locator.Locate(ctx, sessionID)
	switch {
	case errors.Is(err, ErrRowNotFound):
		e.logger.Warn("session missing from sheet, appending", "session_id", sessionID)
		if err := e.ensureHeader(ctx); err != nil {
			return Outcome{}, err
		}
		if err := e.sheet.AppendRow(ctx, values); err != nil {
			return Outcome{}, fmt.Errorf("append row: %w", err)
		}
		return Outcome{
			Success:     true,
			Message:     fmt.Sprintf("Added session %s as new row", sessionID),
			RowsWritten: 1,
			Appended:    true,
		}, nil

	case err != nil:
		return Outcome{}, err
	}

	if err := e.sheet.WriteRow(ctx, row, values); err != nil {
		return Outcome{}, fmt.Errorf("write row %d: %w", row, err)
	}

	e.logger.Info("sheet row updated", "session_id", sessionID, "row", row)
	return Outcome{
		Success:     true,
		Message:     fmt.Sprintf("Updated session %s at row %d", sessionID, row),
		RowsWritten: 1,
		Row:         row,
	}, nil
}

// PatchReview writes only the review columns of one session's row, leaving
// every other cell untouched. Empty reviewer, status and date default to
// DefaultReviewer, completed and the current time.
func (e *Engine) PatchReview(ctx context.Context, sessionID string, f ReviewFields) (Outcome, error) {
	if f.AstrologerName == "" {
		f.AstrologerName = reviews.DefaultReviewer
	}
	if f.Status == "" {
		f.Status = reviews.StatusCompleted
	}
	if f.Date == "" {
		f.Date = e.now().Format(DateLayout)
	}

	return e.patch(ctx, sessionID, f)
}

func (e *Engine) patch(ctx context.Context, sessionID string, f ReviewFields) (Outcome, error) {
	defer e.cache.Invalidate()

	row, err := e.locator.Locate(ctx, sessionID)
	if err != nil {
		return Outcome{}, err
	}

	header, err := e.sheet.Header(ctx)
	if err != nil {
		return Outcome{}, fmt.Errorf("read header: %w", err)
	}

	values := map[string]string{
		ColReviewedBy:    f.AstrologerName,
		ColOverallStatus: f.OverallStatus,
		ColComments:      f.Comments,
		ColReviewStatus:  f.Status,
		ColReviewDate:    f.Date,
	}

	cells := make(map[int]string, len(values))
	for _, name := range ReviewColumns {
		idx := slices.Index(header, name)
		if idx < 0 {
			e.logger.Warn("review column missing from sheet header", "column", name)
			continue
		}
		cells[idx+1] = values[name]
	}

	if len(cells) == 0 {
		return Outcome{}, fmt.Errorf("%w: session %s", ErrNoReviewColumns, sessionID)
	}

	if err := e.sheet.WriteCells(ctx, row, cells); err != nil {
		return Outcome{}, fmt.Errorf("write review cells in row %d: %w", row, err)
	}

	e.logger.Info("review columns patched", "session_id", sessionID, "row", row, "columns", len(cells))
	return Outcome{
		Success: true,
		Message: fmt.Sprintf("Updated %d review columns for session %s", len(cells), sessionID),
		Updated: len(cells),
		Row:     row,
	}, nil
}

// ReviewSaved mirrors a stored review into the sheet, patching the review
// columns and falling back to a full row update when the patch fails.
func (e *Engine) ReviewSaved(ctx context.Context, r reviews.Review) error {
	e.cache.Invalidate()

	_, err := e.PatchReview(ctx, r.SessionID, ReviewFieldsFrom(r))
	if err == nil {
		return nil
	}
	e.logger.Warn("review patch failed, updating full row", "session_id", r.SessionID, "error", err)

	_, err = e.UpdateRow(ctx, r.SessionID)
	return err
}

// ReviewCleared blanks the review columns of a session whose review was
// deleted, falling back to a full row update.
func (e *Engine) ReviewCleared(ctx context.Context, sessionID string) error {
	e.cache.Invalidate()

	_, err := e.patch(ctx, sessionID, ReviewFields{})
	if err == nil {
		return nil
	}
	e.logger.Warn("review clear failed, updating full row", "session_id", sessionID, "error", err)

	_, err = e.UpdateRow(ctx, sessionID)
	return err
}

// Records returns the sheet records through the read cache.
func (e *Engine) Records(ctx context.Context) ([]map[string]string, error) {
	return e.cache.Get(ctx)
}

// Invalidate drops the cached sheet read.
func (e *Engine) Invalidate() {
	e.cache.Invalidate()
}

// CacheAge reports how old the cached sheet read is.
func (e *Engine) CacheAge() (time.Duration, bool) {
	return e.cache.Age()
}

// SheetReviews returns the review state of every sheet row carrying review
// data, keyed by session id, read through the cache.
func (e *Engine) SheetReviews(ctx context.Context) (map[string]sessions.SheetReview, error) {
	records, err := e.Records(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[string]sessions.SheetReview)
	for _, rec := range records {
		id := Identity(rec)
		if id == "" {
			continue
		}
		if r := ReviewFromRecord(rec); HasReviewData(r) {
			if _, dup := out[id]; !dup {
				out[id] = r
			}
		}
	}
	return out, nil
}

func (e *Engine) reviewIndex(ctx context.Context) (map[string]*reviews.Review, error) {
	all, err := e.reviews.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load reviews: %w", err)
	}

	byID := make(map[string]*reviews.Review, len(all))
	for i := range all {
		byID[all[i].SessionID] = &all[i]
	}
	return byID, nil
}

func (e *Engine) ensureHeader(ctx context.Context) error {
	header, err := e.sheet.Header(ctx)
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	if slices.Equal(header, Columns) {
		return nil
	}

	if err := e.sheet.WriteHeader(ctx, Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	e.logger.Info("sheet header rewritten")
	return nil
}
