package sessions

import (
	"net/url"

	"github.com/saksham0021/mira-astrology-review/pkg/query"
	"github.com/saksham0021/mira-astrology-review/pkg/repository"
)

var projection = query.
	NewProjectionMap("", "sessions", "s").
	Project("session_id", "SessionID").
	Project("seq", "Seq").
	Project("user_id", "UserID").
	Project("age", "Age").
	Project("gender", "Gender").
	Project("rating", "Rating").
	Project("summary", "Summary").
	Project("kundli", "Kundli").
	Project("kundli_json", "KundliJSON").
	Project("dosha_json", "DoshaJSON").
	Project("major_dasha", "MajorDasha").
	Project("minor_dasha", "MinorDasha").
	Project("sub_minor_dasha", "SubMinorDasha").
	Project("manglik_dosha", "ManglikDosha").
	Project("pitra_dosha", "PitraDosha").
	Project("chat", "Chat").
	Project("saurabh_analysis", "SaurabhAnalysis").
	Project("original_marking", "OriginalMarking").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt").
	Join("", "reviews", "r", "LEFT JOIN", "s.session_id = r.session_id").
	Project("status", "ReviewStatus").
	Project("astrologer_name", "ReviewedBy")

var defaultSort = query.SortField{Field: "Seq"}

// Filters contains optional filtering criteria for session queries.
// Gender and UserID use exact matching, OriginalMarking case-insensitive
// contains matching. ReviewStatus "not_started" also matches sessions
// without a review.
type Filters struct {
	Gender          *string `json:"gender,omitempty"`
	UserID          *string `json:"user_id,omitempty"`
	OriginalMarking *string `json:"original_marking,omitempty"`
	ReviewStatus    *string `json:"review_status,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	b.
		WhereEquals("Gender", f.Gender).
		WhereEquals("UserID", f.UserID).
		WhereContains("OriginalMarking", f.OriginalMarking)

	if f.ReviewStatus != nil && *f.ReviewStatus == "not_started" {
		return b.WhereEqualsOrNull("ReviewStatus", f.ReviewStatus)
	}
	return b.WhereEquals("ReviewStatus", f.ReviewStatus)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if g := values.Get("gender"); g != "" {
		f.Gender = &g
	}

	if u := values.Get("user_id"); u != "" {
		f.UserID = &u
	}

	if m := values.Get("original_marking"); m != "" {
		f.OriginalMarking = &m
	}

	if rs := values.Get("review_status"); rs != "" {
		f.ReviewStatus = &rs
	}

	return f
}

func scanSession(s repository.Scanner) (Session, error) {
	var ss Session
	err := s.Scan(
		&ss.SessionID,
		&ss.Seq,
		&ss.UserID,
		&ss.Age,
		&ss.Gender,
		&ss.Rating,
		&ss.Summary,
		&ss.Kundli,
		&ss.KundliJSON,
		&ss.DoshaJSON,
		&ss.MajorDasha,
		&ss.MinorDasha,
		&ss.SubMinorDasha,
		&ss.ManglikDosha,
		&ss.PitraDosha,
		&ss.Chat,
		&ss.SaurabhAnalysis,
		&ss.OriginalMarking,
		&ss.CreatedAt,
		&ss.UpdatedAt,
		&ss.ReviewStatus,
		&ss.ReviewedBy,
	)
	return ss, err
}
