package reviews

import (
	"net/url"

	"github.com/saksham0021/mira-astrology-review/pkg/query"
	"github.com/saksham0021/mira-astrology-review/pkg/repository"
)

var projection = query.
	NewProjectionMap("", "reviews", "r").
	Project("id", "ID").
	Project("session_id", "SessionID").
	Project("astrologer_name", "AstrologerName").
	Project("overall_status", "OverallStatus").
	Project("comments", "Comments").
	Project("status", "Status").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "UpdatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for review queries.
type Filters struct {
	Status         *string `json:"status,omitempty"`
	OverallStatus  *string `json:"overall_status,omitempty"`
	AstrologerName *string `json:"astrologer_name,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("OverallStatus", f.OverallStatus).
		WhereContains("AstrologerName", f.AstrologerName)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if os := values.Get("overall_status"); os != "" {
		f.OverallStatus = &os
	}

	if an := values.Get("astrologer_name"); an != "" {
		f.AstrologerName = &an
	}

	return f
}

func scanReview(s repository.Scanner) (Review, error) {
	var r Review
	err := s.Scan(
		&r.ID,
		&r.SessionID,
		&r.AstrologerName,
		&r.OverallStatus,
		&r.Comments,
		&r.Status,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	return r, err
}
