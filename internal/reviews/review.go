// Package reviews implements reviewer verdicts: at most one review per
// session, created or updated in place by review submission.
package reviews

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Review statuses.
const (
	StatusNotStarted = "not_started"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// DefaultReviewer is recorded when a submission names no astrologer.
const DefaultReviewer = "System Reviewer"

// Review is a reviewer verdict on one session.
type Review struct {
	ID             uuid.UUID `json:"id"`
	SessionID      string    `json:"session_id"`
	AstrologerName string    `json:"astrologer_name"`
	OverallStatus  string    `json:"overall_status"`
	Comments       string    `json:"comments"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Reviewed reports whether the review carries a verdict: any status past
// not_started, an overall status or comments.
func (r *Review) Reviewed() bool {
	return r.Status != StatusNotStarted || r.OverallStatus != "" || r.Comments != ""
}

// SubmitCommand carries a review submission. Empty AstrologerName and
// Status fall back to DefaultReviewer and StatusInProgress.
type SubmitCommand struct {
	SessionID      string `json:"session_id" validate:"required,max=128"`
	AstrologerName string `json:"astrologer_name" validate:"max=128"`
	OverallStatus  string `json:"overall_status" validate:"max=64"`
	Comments       string `json:"comments" validate:"max=10000"`
	Status         string `json:"status" validate:"omitempty,oneof=not_started in_progress completed"`
}

func (c *SubmitCommand) normalize() {
	c.SessionID = strings.TrimSpace(c.SessionID)
	c.AstrologerName = strings.TrimSpace(c.AstrologerName)
	if c.AstrologerName == "" {
		c.AstrologerName = DefaultReviewer
	}
	if c.Status == "" {
		c.Status = StatusInProgress
	}
}

// SubmitResult reports a stored submission and whether the sheet was updated.
type SubmitResult struct {
	Review  *Review `json:"review"`
	Created bool    `json:"created"`
	Message string  `json:"message"`
	Synced  bool    `json:"sheet_synced"`
}
