package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/saksham0021/mira-astrology-review/internal/reviews"
	"github.com/saksham0021/mira-astrology-review/internal/sessions"
)

// Stat sources.
const (
	SourceSheet = "sheet"
	SourceStore = "store"
)

// Stats summarizes review progress.
type Stats struct {
	Total    int    `json:"total"`
	Reviewed int    `json:"reviewed"`
	Pending  int    `json:"pending"`
	Source   string `json:"source"`
}

// Stats counts rows and reviewed rows in the cached sheet. When the sheet
// cannot be read the counts come from the store instead.
func (e *Engine) Stats(ctx context.Context) (Stats, error) {
	records, err := e.Records(ctx)
	if err == nil {
		st := Stats{Source: SourceSheet}
		for _, rec := range records {
			if Identity(rec) == "" {
				continue
			}
			st.Total++
			if IsReviewed(ReviewFromRecord(rec)) {
				st.Reviewed++
			}
		}
		st.Pending = st.Total - st.Reviewed
		return st, nil
	}

	e.logger.Warn("sheet unavailable, counting store", "error", err)

	total, err := e.sessions.Count(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("count sessions: %w", err)
	}
	reviewed, err := e.reviews.Count(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("count reviews: %w", err)
	}

	return Stats{
		Total:    total,
		Reviewed: reviewed,
		Pending:  max(total-reviewed, 0),
		Source:   SourceStore,
	}, nil
}

// Inspection compares the review state of one session in the store and in
// the sheet.
type Inspection struct {
	SessionID     string                `json:"session_id"`
	InStore       bool                  `json:"in_store"`
	LocalReview   *reviews.Review       `json:"local_review"`
	InSheet       bool                  `json:"in_sheet"`
	Row           int                   `json:"row,omitempty"`
	SheetReview   *sessions.SheetReview `json:"sheet_review"`
	SheetReviewed bool                  `json:"sheet_has_review"`
	CacheAge      string                `json:"cache_age,omitempty"`
}

// Inspect reports where a session and its review live. The sheet side is
// read through the cache.
func (e *Engine) Inspect(ctx context.Context, sessionID string) (Inspection, error) {
	in := Inspection{SessionID: sessionID}

	if _, err := e.sessions.Find(ctx, sessionID); err == nil {
		in.InStore = true
	} else if !errors.Is(err, sessions.ErrNotFound) {
		return in, fmt.Errorf("load session: %w", err)
	}

	r, err := e.reviews.Find(ctx, sessionID)
	if err != nil && !errors.Is(err, reviews.ErrNotFound) {
		return in, fmt.Errorf("load review: %w", err)
	}
	in.LocalReview = r

	records, err := e.Records(ctx)
	if err != nil {
		return in, fmt.Errorf("read sheet: %w", err)
	}
	for i, rec := range records {
		if Identity(rec) != sessionID {
			continue
		}
		sr := ReviewFromRecord(rec)
		in.InSheet = true
		in.Row = i + 2
		in.SheetReview = &sr
		in.SheetReviewed = HasReviewData(sr)
		break
	}

	if age, ok := e.CacheAge(); ok {
		in.CacheAge = age.String()
	}
	return in, nil
}
