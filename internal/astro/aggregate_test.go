package astro_test

import (
	"reflect"
	"testing"

	"github.com/saksham0021/mira-astrology-review/internal/astro"
)

func TestParseSummary(t *testing.T) {
	raw := `{"naksahtra": "Rohini", "naksahtralord": "Moon", "sign": "Taurus", "signlord": "Venus", "lucky_number": 6, "gan": "Manushya"}`

	s := astro.ParseSummary(raw)

	if s.PersonalDetails.Nakshatra != "Rohini" || s.PersonalDetails.NakshatraLord != "Moon" {
		t.Errorf("personal_details = %+v", s.PersonalDetails)
	}
	if s.AstrologicalInfo.Sign != "Taurus" || s.AstrologicalInfo.SignLord != "Venus" {
		t.Errorf("astrological_info = %+v", s.AstrologicalInfo)
	}
	if s.AdditionalInfo.LuckyNumber != "6" {
		t.Errorf("lucky_number = %q, want 6", s.AdditionalInfo.LuckyNumber)
	}
	if s.AdditionalInfo.LuckyColor != astro.Unknown {
		t.Errorf("lucky_color = %q, want %q", s.AdditionalInfo.LuckyColor, astro.Unknown)
	}
}

func TestParseSummaryBlank(t *testing.T) {
	if got := astro.ParseSummary("N/A"); got != astro.DefaultSummary() {
		t.Errorf("ParseSummary(N/A) = %+v, want default", got)
	}
}

func TestAggregateEmpty(t *testing.T) {
	doc := astro.Aggregate(astro.Fields{})

	want := astro.Document{
		Kundli: astro.DefaultKundli(),
		Doshas: astro.DoshasFromFlags("", ""),
		Dasha: astro.DashaTiers{
			Major:    astro.DefaultDashaPeriod(),
			Minor:    astro.DefaultDashaPeriod(),
			SubMinor: astro.DefaultDashaPeriod(),
		},
		Summary: astro.DefaultSummary(),
		Chat:    astro.EmptyChat(),
	}
	if !reflect.DeepEqual(doc, want) {
		t.Errorf("Aggregate(empty) = %+v, want defaults", doc)
	}
	for name, d := range doc.Doshas {
		if d.Present {
			t.Errorf("%s present on empty session", name)
		}
	}
}

func TestAggregateFieldPrecedence(t *testing.T) {
	tests := []struct {
		name    string
		fields  astro.Fields
		asc     string
		manglik bool
	}{
		{
			name: "kundli json preferred",
			fields: astro.Fields{
				Kundli:     `{"ascendant": "Gemini"}`,
				KundliJSON: `{"ascendant": "Scorpio"}`,
			},
			asc: "Scorpio",
		},
		{
			name:   "kundli text used without json",
			fields: astro.Fields{Kundli: `{"ascendant": "Gemini"}`},
			asc:    "Gemini",
		},
		{
			name: "dosha json preferred over flags",
			fields: astro.Fields{
				DoshaJSON:    `{"manglik_dosha": {"present": false}}`,
				ManglikDosha: "Yes, severe",
			},
			asc: astro.Unknown,
		},
		{
			name: "sentinel kundli json ignored",
			fields: astro.Fields{
				Kundli:     `{"ascendant": "Gemini"}`,
				KundliJSON: "N/A",
			},
			asc: "Gemini",
		},
		{
			name: "sentinel dosha json ignored",
			fields: astro.Fields{
				DoshaJSON:    " null ",
				ManglikDosha: "Yes, severe",
			},
			asc:     astro.Unknown,
			manglik: true,
		},
		{
			name:    "flags classified without dosha json",
			fields:  astro.Fields{ManglikDosha: "Yes, severe"},
			asc:     astro.Unknown,
			manglik: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := astro.Aggregate(tt.fields)
			if got := doc.Kundli.BasicInfo.Ascendant; got != tt.asc {
				t.Errorf("ascendant = %q, want %q", got, tt.asc)
			}
			if got := doc.Doshas["manglik_dosha"].Present; got != tt.manglik {
				t.Errorf("manglik present = %v, want %v", got, tt.manglik)
			}
		})
	}
}

func TestAggregateDomainsIndependent(t *testing.T) {
	doc := astro.Aggregate(astro.Fields{
		Kundli:        "[[[ broken",
		MajorDasha:    "Saturn (2019-2038)",
		MinorDasha:    "{not json",
		SubMinorDasha: `{"planet": "Moon"}`,
		Chat:          `{"user":"hi"},{"bot":"hello"}`,
		Summary:       "sign: Leo",
	})

	if !reflect.DeepEqual(doc.Kundli, astro.DefaultKundli()) {
		t.Error("broken kundli did not fall back to the default chart")
	}
	if doc.Dasha.Major.Planet != "Saturn" {
		t.Errorf("major planet = %q", doc.Dasha.Major.Planet)
	}
	if doc.Dasha.Minor.Planet != "{not json" {
		t.Errorf("minor planet = %q", doc.Dasha.Minor.Planet)
	}
	if doc.Dasha.SubMinor.Planet != "Moon" {
		t.Errorf("sub_minor planet = %q", doc.Dasha.SubMinor.Planet)
	}
	if doc.Chat.TotalMessages != 2 {
		t.Errorf("chat messages = %d, want 2", doc.Chat.TotalMessages)
	}
	if doc.Summary.AstrologicalInfo.Sign != "Leo" {
		t.Errorf("summary sign = %q, want Leo", doc.Summary.AstrologicalInfo.Sign)
	}
}
