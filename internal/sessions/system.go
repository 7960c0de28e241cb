package sessions

import (
	"context"

	"github.com/saksham0021/mira-astrology-review/pkg/pagination"
)

// System defines the public contract for session domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Session], error)

	// All returns every session in store iteration order (seq ascending).
	All(ctx context.Context) ([]Session, error)
	// IDs returns every session_id in store iteration order.
	IDs(ctx context.Context) ([]string, error)
	Find(ctx context.Context, id string) (*Session, error)
	// Save inserts s or overwrites every stored column of the existing
	// session. It reports whether a new session was inserted.
	Save(ctx context.Context, s Session) (bool, error)
	// Delete removes the sessions and their reviews in one transaction and
	// returns the number of sessions removed.
	Delete(ctx context.Context, ids ...string) (int, error)
	Count(ctx context.Context) (int, error)
}

// ReviewSource reports the review state of sessions as the ledger sheet
// shows it. It is optional for the session handler.
type ReviewSource interface {
	SheetReviews(ctx context.Context) (map[string]SheetReview, error)
}
