package astro_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/saksham0021/mira-astrology-review/internal/astro"
)

func TestPresentAndSeverity(t *testing.T) {
	tests := []struct {
		text     string
		present  bool
		severity string
	}{
		{"No dosha found", false, astro.SeverityMedium},
		{"Mild Manglik dosha present", true, astro.SeverityMedium},
		{"Severe pitra dosha", true, astro.SeverityHigh},
		{"Severe but partial", true, astro.SeverityHigh},
		{"yes", true, astro.SeverityMedium},
		{"Partial", true, astro.SeverityMedium},
		{"absent", false, astro.SeverityLow},
		{"Not present", false, astro.SeverityMedium},
		{"Dosha is clear", false, astro.SeverityLow},
		{"None", false, astro.SeverityLow},
		{"nil", false, astro.SeverityLow},
		{"N/A", false, astro.SeverityLow},
		{"", false, astro.SeverityLow},
		{"Saturn aspect on lagna", true, astro.SeverityLow},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := astro.Present(tt.text); got != tt.present {
				t.Errorf("Present(%q) = %v, want %v", tt.text, got, tt.present)
			}
			if got := astro.Severity(tt.text); got != tt.severity {
				t.Errorf("Severity(%q) = %q, want %q", tt.text, got, tt.severity)
			}
		})
	}
}

func TestDoshaFromText(t *testing.T) {
	tests := []struct {
		text     string
		present  bool
		severity string
	}{
		{"No dosha found", false, astro.SeverityLow},
		{"Not present", false, astro.SeverityLow},
		{"Mild Manglik dosha present", true, astro.SeverityMedium},
		{"Severe pitra dosha", true, astro.SeverityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			d := astro.DoshaFromText(tt.text)
			if d.Present != tt.present || d.Severity != tt.severity {
				t.Errorf("DoshaFromText(%q) = %v/%s, want %v/%s", tt.text, d.Present, d.Severity, tt.present, tt.severity)
			}
			if d.Description != tt.text {
				t.Errorf("description = %q", d.Description)
			}
		})
	}
}

func TestDefaultDoshas(t *testing.T) {
	d := astro.DefaultDoshas()

	if len(d) != len(astro.DoshaTypes) || len(d) != 8 {
		t.Fatalf("dosha types = %d, want 8", len(d))
	}
	for _, name := range astro.DoshaTypes {
		entry, ok := d[name]
		if !ok {
			t.Errorf("%s missing", name)
			continue
		}
		if entry.Present || entry.Severity != astro.SeverityLow {
			t.Errorf("%s = %+v, want absent and low", name, entry)
		}
	}
}

func TestParseDoshasBlank(t *testing.T) {
	for _, raw := range []string{"", "null", "N/A"} {
		if got := astro.ParseDoshas(raw); !reflect.DeepEqual(got, astro.DefaultDoshas()) {
			t.Errorf("ParseDoshas(%q) is not the default report", raw)
		}
	}
}

func TestParseDoshas(t *testing.T) {
	raw := `{
		"manglik": "Mild manglik present",
		"kaal_sarp_dosha": true,
		"shani_dosha": {"present": "detected", "severity": "Strong", "remedies": ["Hanuman Chalisa"], "planets_involved": ["Saturn"]},
		"rahu_dosha": {"present": false, "severity": "low", "description": "Rahu well placed"}
	}`

	d := astro.ParseDoshas(raw)

	if len(d) != 8 {
		t.Fatalf("dosha types = %d, want 8", len(d))
	}

	manglik := d["manglik_dosha"]
	if !manglik.Present || manglik.Severity != astro.SeverityMedium || manglik.Description != "Mild manglik present" {
		t.Errorf("manglik_dosha = %+v", manglik)
	}

	if ks := d["kaal_sarp_dosha"]; !ks.Present || ks.Severity != astro.SeverityMedium {
		t.Errorf("kaal_sarp_dosha = %+v", ks)
	}

	shani := d["shani_dosha"]
	if !shani.Present || shani.Severity != astro.SeverityHigh {
		t.Errorf("shani_dosha = %+v", shani)
	}
	if !reflect.DeepEqual(shani.Remedies, []string{"Hanuman Chalisa"}) || !reflect.DeepEqual(shani.PlanetsInvolved, []string{"Saturn"}) {
		t.Errorf("shani_dosha lists = %+v", shani)
	}

	if rahu := d["rahu_dosha"]; rahu.Present || rahu.Description != "Rahu well placed" {
		t.Errorf("rahu_dosha = %+v", rahu)
	}

	if got := d["angarak_dosha"]; !reflect.DeepEqual(got, astro.DefaultDosha()) {
		t.Errorf("angarak_dosha = %+v, want default", got)
	}
}

func TestParseDoshasRoundTrip(t *testing.T) {
	d := astro.DefaultDoshas()
	d["pitra_dosha"] = astro.Dosha{
		Present:         true,
		Severity:        astro.SeverityHigh,
		Description:     "Sun afflicted in ninth house",
		Remedies:        []string{"Tarpan", "Feed crows"},
		PlanetsInvolved: []string{"Sun", "Rahu"},
		HousesAffected:  []string{"9"},
	}

	b, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}

	if got := astro.ParseDoshas(string(b)); !reflect.DeepEqual(got, d) {
		t.Errorf("round trip changed report:\n got %+v\nwant %+v", got, d)
	}
}

func TestDoshasFromFlags(t *testing.T) {
	d := astro.DoshasFromFlags("Yes, high", "No")

	if m := d["manglik_dosha"]; !m.Present || m.Severity != astro.SeverityHigh {
		t.Errorf("manglik_dosha = %+v", m)
	}
	if p := d["pitra_dosha"]; p.Present {
		t.Errorf("pitra_dosha = %+v, want absent", p)
	}
	if len(d) != 8 {
		t.Errorf("dosha types = %d, want 8", len(d))
	}
}
