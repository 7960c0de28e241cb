package api

import (
	"github.com/saksham0021/mira-astrology-review/internal/exports"
	"github.com/saksham0021/mira-astrology-review/internal/ledger"
	"github.com/saksham0021/mira-astrology-review/internal/reviews"
	"github.com/saksham0021/mira-astrology-review/internal/sessions"
)

// Domain holds all domain systems that comprise the API. Ledger is nil when
// no sheet is configured and Exports is nil when storage is disabled.
type Domain struct {
	Sessions sessions.System
	Reviews  reviews.System
	Ledger   *ledger.Engine
	Exports  exports.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	db := runtime.Database.Connection()

	sessionStore := sessions.New(db, runtime.Logger, runtime.Pagination)
	reviewStore := reviews.New(db, runtime.Logger, runtime.Pagination)

	d := &Domain{
		Sessions: sessionStore,
		Reviews:  reviewStore,
	}

	// The engine works on the plain stores; the handler-facing stores call
	// back into it.
	if runtime.Sheets != nil {
		d.Ledger = ledger.New(
			runtime.Sheets,
			sessionStore,
			reviewStore,
			runtime.Ledger,
			runtime.Logger,
		)
		d.Sessions = sessions.New(
			db, runtime.Logger, runtime.Pagination,
			sessions.WithReviewSource(d.Ledger),
		)
		d.Reviews = reviews.New(
			db, runtime.Logger, runtime.Pagination,
			reviews.WithSyncer(d.Ledger),
		)
	}

	if runtime.Storage != nil {
		d.Exports = exports.New(
			d.Sessions,
			d.Reviews,
			runtime.Storage,
			runtime.Logger,
			runtime.MaxListSize,
		)
	}

	return d
}
