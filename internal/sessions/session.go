// Package sessions implements the session domain: one astrology consultation
// with its raw chart columns, stored relationally and keyed by session_id.
package sessions

import (
	"strings"
	"time"

	"github.com/saksham0021/mira-astrology-review/internal/astro"
)

// Marking statuses derived from the original_marking column.
const (
	MarkingMarked    = "marked"
	MarkingNotMarked = "not_marked"
	MarkingCantJudge = "cant_judge"
)

// Session is one consultation record. ReviewStatus and ReviewedBy are read
// from the joined review and are never written through Save.
type Session struct {
	SessionID       string    `json:"session_id" validate:"required,max=128"`
	Seq             int64     `json:"seq"`
	UserID          string    `json:"user_id" validate:"max=128"`
	Age             *int      `json:"age" validate:"omitempty,gte=0,lte=150"`
	Gender          string    `json:"gender"`
	Rating          *float64  `json:"rating" validate:"omitempty,gte=0,lte=5"`
	Summary         string    `json:"summary"`
	Kundli          string    `json:"kundli"`
	KundliJSON      string    `json:"kundli_json"`
	DoshaJSON       string    `json:"dosha_json"`
	MajorDasha      string    `json:"major_dasha"`
	MinorDasha      string    `json:"minor_dasha"`
	SubMinorDasha   string    `json:"sub_minor_dasha"`
	ManglikDosha    string    `json:"manglik_dosha"`
	PitraDosha      string    `json:"pitra_dosha"`
	Chat            string    `json:"chat"`
	SaurabhAnalysis string    `json:"saurabh_analysis"`
	OriginalMarking string    `json:"original_marking"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	ReviewStatus    *string   `json:"review_status,omitempty"`
	ReviewedBy      *string   `json:"reviewed_by,omitempty"`
}

// Fields returns the raw astrology columns for aggregation.
func (s *Session) Fields() astro.Fields {
	return astro.Fields{
		Summary:       s.Summary,
		Kundli:        s.Kundli,
		KundliJSON:    s.KundliJSON,
		DoshaJSON:     s.DoshaJSON,
		MajorDasha:    s.MajorDasha,
		MinorDasha:    s.MinorDasha,
		SubMinorDasha: s.SubMinorDasha,
		ManglikDosha:  s.ManglikDosha,
		PitraDosha:    s.PitraDosha,
		Chat:          s.Chat,
	}
}

// Parsed aggregates the session's astrology columns.
func (s *Session) Parsed() astro.Document {
	return astro.Aggregate(s.Fields())
}

// MarkingStatus classifies original_marking. Anything unrecognized, including
// an empty marking, counts as cant_judge.
func (s *Session) MarkingStatus() string {
	switch strings.ToLower(strings.TrimSpace(s.OriginalMarking)) {
	case "marked", "correct", "good", "yes", "1":
		return MarkingMarked
	case "not marked", "incorrect", "wrong", "bad", "no", "0":
		return MarkingNotMarked
	}
	return MarkingCantJudge
}

// SameContent reports whether every stored column other than the identity,
// ordering and timestamps matches other.
func (s *Session) SameContent(other *Session) bool {
	return s.UserID == other.UserID &&
		equalPtr(s.Age, other.Age) &&
		s.Gender == other.Gender &&
		equalPtr(s.Rating, other.Rating) &&
		s.Summary == other.Summary &&
		s.Kundli == other.Kundli &&
		s.KundliJSON == other.KundliJSON &&
		s.DoshaJSON == other.DoshaJSON &&
		s.MajorDasha == other.MajorDasha &&
		s.MinorDasha == other.MinorDasha &&
		s.SubMinorDasha == other.SubMinorDasha &&
		s.ManglikDosha == other.ManglikDosha &&
		s.PitraDosha == other.PitraDosha &&
		s.Chat == other.Chat &&
		s.SaurabhAnalysis == other.SaurabhAnalysis &&
		s.OriginalMarking == other.OriginalMarking
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Detail is a session with its parsed astrology document.
type Detail struct {
	Session
	MarkingStatus string         `json:"marking_status"`
	ParsedAstro   astro.Document `json:"parsed_astro"`
}

// NewDetail parses s into a Detail.
func NewDetail(s Session) Detail {
	return Detail{
		Session:       s,
		MarkingStatus: s.MarkingStatus(),
		ParsedAstro:   s.Parsed(),
	}
}

// SheetReview is the review state a session shows in the ledger sheet.
type SheetReview struct {
	Status         string `json:"review_status"`
	OverallStatus  string `json:"overall_status"`
	Comments       string `json:"comments"`
	AstrologerName string `json:"astrologer_name"`
}

// Entry is one row of the review queue: the session with the review state
// resolved from the local store first, then the sheet.
type Entry struct {
	Session
	MarkingStatus string `json:"marking_status"`
	Reviewed      bool   `json:"reviewed"`
	ReviewSource  string `json:"review_source,omitempty"`
}

// Review sources for Entry.ReviewSource.
const (
	SourceLocal = "local"
	SourceSheet = "sheet"
)

// NewEntry resolves the review state of s. A local review wins; otherwise a
// sheet review, when present, fills the status and reviewer.
func NewEntry(s Session, sheet map[string]SheetReview) Entry {
	e := Entry{Session: s, MarkingStatus: s.MarkingStatus()}

	if s.ReviewStatus != nil {
		e.Reviewed = true
		e.ReviewSource = SourceLocal
		return e
	}

	if r, ok := sheet[s.SessionID]; ok {
		status, name := r.Status, r.AstrologerName
		e.ReviewStatus = &status
		e.ReviewedBy = &name
		e.Reviewed = true
		e.ReviewSource = SourceSheet
		return e
	}

	notStarted := "not_started"
	e.ReviewStatus = &notStarted
	return e
}
