package reviews

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/saksham0021/mira-astrology-review/pkg/pagination"
	"github.com/saksham0021/mira-astrology-review/pkg/query"
	"github.com/saksham0021/mira-astrology-review/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
	validate   *validator.Validate
	sync       Syncer
	now        func() time.Time
}

// Option configures a review repository.
type Option func(*repo)

// WithClock replaces the clock used for created_at and updated_at.
func WithClock(now func() time.Time) Option {
	return func(r *repo) { r.now = now }
}

// WithSyncer mirrors submitted and cleared reviews into the ledger sheet.
func WithSyncer(s Syncer) Option {
	return func(r *repo) { r.sync = s }
}

// New creates a review repository implementing the System interface.
func New(
	db *sql.DB,
	logger *slog.Logger,
	pagination pagination.Config,
	opts ...Option,
) System {
	r := &repo{
		db:         db,
		logger:     logger.With("system", "reviews"),
		pagination: pagination,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.sync, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Review], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "SessionID", "AstrologerName", "Comments")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count reviews: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanReview)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) All(ctx context.Context) ([]Review, error) {
	q, args := query.NewBuilder(projection, defaultSort).Build()

	items, err := repository.QueryMany(ctx, r.db, q, args, scanReview)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	return items, nil
}

func (r *repo) Find(ctx context.Context, sessionID string) (*Review, error) {
	q, args := query.NewBuilder(projection).BuildSingle("SessionID", sessionID)

	rv, err := repository.QueryOne(ctx, r.db, q, args, scanReview)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &rv, nil
}

func (r *repo) Submit(ctx context.Context, cmd SubmitCommand) (*Review, bool, error) {
	cmd.normalize()
	if err := r.validate.Struct(cmd); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	now := r.now().UTC()

	created, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (bool, error) {
		var sessions int
		if err := tx.QueryRowContext(
			ctx,
			"SELECT COUNT(*) FROM sessions WHERE session_id = $1",
			cmd.SessionID,
		).Scan(&sessions); err != nil {
			return false, err
		}
		if sessions == 0 {
			return false, ErrSessionNotFound
		}

		updated, err := repository.ExecCount(ctx, tx, `
			UPDATE reviews SET
				astrologer_name = $2, overall_status = $3, comments = $4,
				status = $5, updated_at = $6
			WHERE session_id = $1`,
			cmd.SessionID, cmd.AstrologerName, cmd.OverallStatus,
			cmd.Comments, cmd.Status, now,
		)
		if err != nil {
			return false, err
		}
		if updated > 0 {
			return false, nil
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO reviews (
				id, session_id, astrologer_name, overall_status,
				comments, status, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
			uuid.New(), cmd.SessionID, cmd.AstrologerName, cmd.OverallStatus,
			cmd.Comments, cmd.Status, now,
		)
		return err == nil, err
	})

	if err != nil {
		return nil, false, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	rv, err := r.Find(ctx, cmd.SessionID)
	if err != nil {
		return nil, false, err
	}

	r.logger.Info(
		"review submitted",
		"session_id", rv.SessionID,
		"status", rv.Status,
		"created", created,
	)
	return rv, created, nil
}

func (r *repo) Delete(ctx context.Context, sessionID string) error {
	if err := repository.ExecExpectOne(
		ctx, r.db,
		"DELETE FROM reviews WHERE session_id = $1",
		sessionID,
	); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("review deleted", "session_id", sessionID)
	return nil
}

func (r *repo) DeleteAll(ctx context.Context) (int, error) {
	n, err := repository.ExecCount(ctx, r.db, "DELETE FROM reviews")
	if err != nil {
		return 0, fmt.Errorf("delete reviews: %w", err)
	}

	r.logger.Info("reviews cleared", "count", n)
	return n, nil
}

func (r *repo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reviews").Scan(&n); err != nil {
		return 0, fmt.Errorf("count reviews: %w", err)
	}
	return n, nil
}
