package ledger

import (
	"strconv"
	"strings"

	"github.com/saksham0021/mira-astrology-review/internal/reviews"
	"github.com/saksham0021/mira-astrology-review/internal/sessions"
)

// Ledger column names.
const (
	ColSessionID       = "Session ID"
	ColUserID          = "User ID"
	ColAge             = "Age"
	ColGender          = "Gender"
	ColRating          = "Rating"
	ColSummary         = "Summary"
	ColKundli          = "Kundli"
	ColMajorDasha      = "Major Dasha"
	ColMinorDasha      = "Minor Dasha"
	ColSubMinorDasha   = "Sub Minor Dasha"
	ColManglikDosha    = "Manglik Dosha"
	ColPitraDosha      = "Pitra Dosha"
	ColChat            = "Chat"
	ColSaurabhAnalysis = "Saurabh Analysis"
	ColOriginalMarking = "Original Marking"
	ColReviewedBy      = "Reviewed By"
	ColOverallStatus   = "Overall Status"
	ColComments        = "Comments"
	ColReviewStatus    = "Review Status"
	ColReviewDate      = "Review Date"
)

// Columns is the fixed ledger header, in sheet order.
var Columns = []string{
	ColSessionID, ColUserID, ColAge, ColGender, ColRating, ColSummary,
	ColKundli, ColMajorDasha, ColMinorDasha, ColSubMinorDasha,
	ColManglikDosha, ColPitraDosha, ColChat, ColSaurabhAnalysis,
	ColOriginalMarking, ColReviewedBy, ColOverallStatus, ColComments,
	ColReviewStatus, ColReviewDate,
}

// ReviewColumns are the columns written by a review-only patch.
var ReviewColumns = []string{
	ColReviewedBy, ColOverallStatus, ColComments, ColReviewStatus, ColReviewDate,
}

// identityHeaders are the header spellings accepted for the session id.
var identityHeaders = []string{ColSessionID, "session_id", "SessionID", "session id"}

// DateLayout formats the Review Date column.
const DateLayout = "2006-01-02 15:04:05"

// Project renders one ledger row for s and its review, which may be nil.
func Project(s sessions.Session, r *reviews.Review) []string {
	row := []string{
		s.SessionID,
		s.UserID,
		formatInt(s.Age),
		s.Gender,
		formatFloat(s.Rating),
		s.Summary,
		s.Kundli,
		s.MajorDasha,
		s.MinorDasha,
		s.SubMinorDasha,
		s.ManglikDosha,
		s.PitraDosha,
		s.Chat,
		s.SaurabhAnalysis,
		s.OriginalMarking,
		"", "", "", "", "",
	}

	if r != nil {
		copy(row[15:], []string{
			r.AstrologerName,
			r.OverallStatus,
			r.Comments,
			r.Status,
			r.UpdatedAt.Format(DateLayout),
		})
	}
	return row
}

// Identity returns the session id of a sheet record, checking every
// accepted header spelling.
func Identity(rec map[string]string) string {
	return strings.TrimSpace(field(rec, identityHeaders...))
}

// FromRecord reads the sheet-sourced columns of a record. It reports false
// when the record has no session id. Age and Rating that do not parse are
// stored as unknown.
func FromRecord(rec map[string]string) (sessions.Session, bool) {
	id := Identity(rec)
	if id == "" {
		return sessions.Session{}, false
	}

	return sessions.Session{
		SessionID:       id,
		UserID:          field(rec, ColUserID, "user_id"),
		Age:             parseInt(strings.TrimSpace(field(rec, ColAge, "age"))),
		Gender:          field(rec, ColGender, "gender"),
		Rating:          parseFloat(strings.TrimSpace(field(rec, ColRating, "rating"))),
		Summary:         field(rec, ColSummary, "summary"),
		Kundli:          field(rec, ColKundli, "kundli"),
		MajorDasha:      field(rec, ColMajorDasha, "major_dasha"),
		MinorDasha:      field(rec, ColMinorDasha, "minor_dasha"),
		SubMinorDasha:   field(rec, ColSubMinorDasha, "sub_minor_dasha"),
		ManglikDosha:    field(rec, ColManglikDosha, "manglik_dosha"),
		PitraDosha:      field(rec, ColPitraDosha, "pitra_dosha"),
		Chat:            field(rec, ColChat, "chat"),
		SaurabhAnalysis: field(rec, ColSaurabhAnalysis, "saurabh_analysis"),
		OriginalMarking: field(rec, ColOriginalMarking, "original_marking"),
	}, true
}

// ReviewFromRecord reads the review columns of a record.
func ReviewFromRecord(rec map[string]string) sessions.SheetReview {
	return sessions.SheetReview{
		Status:         field(rec, ColReviewStatus, "review_status"),
		OverallStatus:  field(rec, ColOverallStatus, "overall_status"),
		Comments:       field(rec, ColComments, "comments"),
		AstrologerName: field(rec, ColReviewedBy, "reviewed_by"),
	}
}

// HasReviewData reports whether a sheet review carries a meaningful verdict.
// Placeholder values written for unreviewed rows do not count.
func HasReviewData(r sessions.SheetReview) bool {
	return !oneOf(r.Status, "", "not_started") ||
		!oneOf(r.OverallStatus, "", "none") ||
		strings.TrimSpace(r.Comments) != "" ||
		!oneOf(r.AstrologerName, "", "none", "system reviewer")
}

// IsReviewed reports whether the Review Status column marks a row reviewed.
func IsReviewed(r sessions.SheetReview) bool {
	return !oneOf(r.Status, "", "not_started", "none")
}

// field returns the first non-empty value under keys, untrimmed so that a
// push then pull round trip leaves text columns unchanged.
func field(rec map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := rec[k]; v != "" {
			return v
		}
	}
	return ""
}

func oneOf(s string, values ...string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, v := range values {
		if s == v {
			return true
		}
	}
	return false
}

func formatInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func formatFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func parseInt(s string) *int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

func parseFloat(s string) *float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}
