package reviews

import (
	"context"

	"github.com/saksham0021/mira-astrology-review/pkg/pagination"
)

// System defines the public contract for review domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Review], error)

	All(ctx context.Context) ([]Review, error)
	Find(ctx context.Context, sessionID string) (*Review, error)
	// Submit inserts the review for cmd.SessionID or updates it in place.
	// It reports whether a review was created.
	Submit(ctx context.Context, cmd SubmitCommand) (*Review, bool, error)
	Delete(ctx context.Context, sessionID string) error
	DeleteAll(ctx context.Context) (int, error)
	Count(ctx context.Context) (int, error)
}

// Syncer propagates review changes to the ledger sheet.
type Syncer interface {
	ReviewSaved(ctx context.Context, r Review) error
	ReviewCleared(ctx context.Context, sessionID string) error
}
