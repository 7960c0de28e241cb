package sessions

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/saksham0021/mira-astrology-review/pkg/pagination"
	"github.com/saksham0021/mira-astrology-review/pkg/query"
	"github.com/saksham0021/mira-astrology-review/pkg/repository"
)

const deleteBatch = 500

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
	validate   *validator.Validate
	reviews    ReviewSource
	now        func() time.Time
}

// Option configures a session repository.
type Option func(*repo)

// WithClock replaces the clock used for created_at and updated_at.
func WithClock(now func() time.Time) Option {
	return func(r *repo) { r.now = now }
}

// WithReviewSource lets the session list fall back to sheet review state.
func WithReviewSource(src ReviewSource) Option {
	return func(r *repo) { r.reviews = src }
}

// New creates a session repository implementing the System interface.
func New(
	db *sql.DB,
	logger *slog.Logger,
	pagination pagination.Config,
	opts ...Option,
) System {
	r := &repo{
		db:         db,
		logger:     logger.With("system", "sessions"),
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
	return NewHandler(r, r.reviews, r.validate, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Session], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "SessionID", "UserID")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count sessions: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanSession)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) All(ctx context.Context) ([]Session, error) {
	q, args := query.NewBuilder(projection, defaultSort).Build()

	items, err := repository.QueryMany(ctx, r.db, q, args, scanSession)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	return items, nil
}

func (r *repo) IDs(ctx context.Context) ([]string, error) {
	ids, err := repository.QueryMany(
		ctx, r.db,
		"SELECT session_id FROM sessions ORDER BY seq",
		nil,
		func(s repository.Scanner) (string, error) {
			var id string
			err := s.Scan(&id)
			return id, err
		},
	)
	if err != nil {
		return nil, fmt.Errorf("query session ids: %w", err)
	}
	return ids, nil
}

func (r *repo) Find(ctx context.Context, id string) (*Session, error) {
	q, args := query.NewBuilder(projection).BuildSingle("SessionID", id)

	s, err := repository.QueryOne(ctx, r.db, q, args, scanSession)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &s, nil
}

func (r *repo) Save(ctx context.Context, s Session) (bool, error) {
	s.SessionID = strings.TrimSpace(s.SessionID)
	if err := r.validate.Struct(s); err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	now := r.now().UTC()

	inserted, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (bool, error) {
		var n int
		if err := tx.QueryRowContext(
			ctx,
			"SELECT COUNT(*) FROM sessions WHERE session_id = $1",
			s.SessionID,
		).Scan(&n); err != nil {
			return false, err
		}

		if n > 0 {
			return false, repository.ExecExpectOne(ctx, tx, `
				UPDATE sessions SET
					user_id = $2, age = $3, gender = $4, rating = $5,
					summary = $6, kundli = $7, kundli_json = $8, dosha_json = $9,
					major_dasha = $10, minor_dasha = $11, sub_minor_dasha = $12,
					manglik_dosha = $13, pitra_dosha = $14, chat = $15,
					saurabh_analysis = $16, original_marking = $17, updated_at = $18
				WHERE session_id = $1`,
				append(columnArgs(s), now)...,
			)
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO sessions (
				session_id, user_id, age, gender, rating,
				summary, kundli, kundli_json, dosha_json,
				major_dasha, minor_dasha, sub_minor_dasha,
				manglik_dosha, pitra_dosha, chat,
				saurabh_analysis, original_marking,
				created_at, updated_at, seq
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
				$18, $18, (SELECT COALESCE(MAX(seq), 0) + 1 FROM sessions)
			)`,
			append(columnArgs(s), now)...,
		)
		return err == nil, err
	})

	if err != nil {
		return false, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if inserted {
		r.logger.Info("session created", "session_id", s.SessionID)
	} else {
		r.logger.Debug("session updated", "session_id", s.SessionID)
	}
	return inserted, nil
}

func (r *repo) Delete(ctx context.Context, ids ...string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	removed, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (int, error) {
		total := 0
		for start := 0; start < len(ids); start += deleteBatch {
			batch := ids[start:min(start+deleteBatch, len(ids))]
			in, args := placeholders(batch)

			if _, err := tx.ExecContext(ctx, "DELETE FROM reviews WHERE session_id IN ("+in+")", args...); err != nil {
				return 0, fmt.Errorf("delete reviews: %w", err)
			}

			n, err := repository.ExecCount(ctx, tx, "DELETE FROM sessions WHERE session_id IN ("+in+")", args...)
			if err != nil {
				return 0, fmt.Errorf("delete sessions: %w", err)
			}
			total += n
		}
		return total, nil
	})

	if err != nil {
		return 0, err
	}

	r.logger.Info("sessions deleted", "count", removed)
	return removed, nil
}

func (r *repo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sessions").Scan(&n); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}

func columnArgs(s Session) []any {
	return []any{
		s.SessionID,
		s.UserID,
		s.Age,
		s.Gender,
		s.Rating,
		s.Summary,
		s.Kundli,
		s.KundliJSON,
		s.DoshaJSON,
		s.MajorDasha,
		s.MinorDasha,
		s.SubMinorDasha,
		s.ManglikDosha,
		s.PitraDosha,
		s.Chat,
		s.SaurabhAnalysis,
		s.OriginalMarking,
	}
}

func placeholders(ids []string) (string, []any) {
	marks := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		marks[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	return strings.Join(marks, ", "), args
}
