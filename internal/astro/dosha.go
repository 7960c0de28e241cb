package astro

import (
	"strings"
)

// DoshaTypes are the doshas every normalized report carries.
var DoshaTypes = []string{
	"manglik_dosha",
	"pitra_dosha",
	"kaal_sarp_dosha",
	"shani_dosha",
	"rahu_dosha",
	"ketu_dosha",
	"guru_chandal_dosha",
	"angarak_dosha",
}

const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Doshas maps each entry of DoshaTypes to its assessment.
type Doshas map[string]Dosha

type Dosha struct {
	Present         bool     `json:"present"`
	Severity        string   `json:"severity"`
	Description     string   `json:"description"`
	Remedies        []string `json:"remedies"`
	PlanetsInvolved []string `json:"planets_involved"`
	HousesAffected  []string `json:"houses_affected"`
}

var (
	negativeIndicators = []string{"no", "absent", "false", "not found", "clear", "not present", "nil"}
	positiveIndicators = []string{"yes", "present", "true", "found", "detected", "partial", "mild", "moderate", "severe", "high", "low", "medium"}
	highWords          = []string{"severe", "high", "strong", "major", "intense", "extreme"}
	mediumWords        = []string{"moderate", "medium", "partial", "mild"}
	presenceWords      = []string{"yes", "present", "found", "detected"}
)

// Present classifies free text describing a dosha. Negative phrasings win
// over positive keywords; otherwise any substantive text counts as present.
func Present(text string) bool {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" || s == "n/a" {
		return false
	}

	for _, ind := range negativeIndicators {
		if s == ind || strings.HasPrefix(s, ind+" ") || strings.HasSuffix(s, " "+ind) {
			return false
		}
	}

	if containsAny(s, positiveIndicators) {
		return true
	}

	switch s {
	case "no", "nil", "none":
		return false
	}
	return len(s) > 3
}

// Severity grades free text: high keywords first, then medium keywords,
// then bare presence words (medium), else low.
func Severity(text string) string {
	s := strings.ToLower(text)
	switch {
	case strings.TrimSpace(s) == "":
		return SeverityLow
	case containsAny(s, highWords):
		return SeverityHigh
	case containsAny(s, mediumWords):
		return SeverityMedium
	case containsAny(s, presenceWords):
		return SeverityMedium
	}
	return SeverityLow
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// DefaultDosha is the assessment of a dosha nobody reported.
func DefaultDosha() Dosha {
	return Dosha{
		Severity:        SeverityLow,
		Description:     Unknown,
		Remedies:        []string{},
		PlanetsInvolved: []string{},
		HousesAffected:  []string{},
	}
}

// DefaultDoshas returns every dosha type as absent.
func DefaultDoshas() Doshas {
	d := make(Doshas, len(DoshaTypes))
	for _, t := range DoshaTypes {
		d[t] = DefaultDosha()
	}
	return d
}

// DoshaFromText classifies a free-text dosha description. An absent dosha
// is always graded low.
func DoshaFromText(text string) Dosha {
	d := DefaultDosha()
	d.Present = Present(text)
	if d.Present {
		d.Severity = Severity(text)
	}
	if s := strings.TrimSpace(text); s != "" {
		d.Description = s
	}
	return d
}

// ParseDoshas normalizes a raw dosha field.
func ParseDoshas(raw string) Doshas {
	return DoshasFrom(Decode(raw, DomainDosha).Value)
}

// DoshasFrom normalizes an already decoded dosha value. Entries may be keyed
// with or without the _dosha suffix.
func DoshasFrom(v Value) Doshas {
	m, ok := v.(Map)
	if !ok || len(m) == 0 {
		return DefaultDoshas()
	}

	d := make(Doshas, len(DoshaTypes))
	for _, t := range DoshaTypes {
		entry, ok := m.Lookup(t)
		if !ok {
			entry, _ = m.Lookup(strings.TrimSuffix(t, "_dosha"))
		}
		d[t] = doshaFrom(entry)
	}
	return d
}

// DoshasFromFlags builds a report from the manglik and pitra text columns.
func DoshasFromFlags(manglik, pitra string) Doshas {
	d := DefaultDoshas()
	d["manglik_dosha"] = DoshaFromText(manglik)
	d["pitra_dosha"] = DoshaFromText(pitra)
	return d
}

func doshaFrom(entry any) Dosha {
	switch t := entry.(type) {
	case string:
		return DoshaFromText(t)
	case bool:
		d := DefaultDosha()
		d.Present = t
		if t {
			d.Severity = SeverityMedium
		}
		return d
	case map[string]any:
		return doshaFromMap(t)
	}
	return DefaultDosha()
}

func doshaFromMap(m Map) Dosha {
	d := DefaultDosha()
	d.Description = m.Text(Unknown, "description")

	switch p := m["present"].(type) {
	case bool:
		d.Present = p
	case string:
		d.Present = Present(p)
	case nil:
	default:
		d.Present = flag(p)
	}

	sev := strings.ToLower(m.Text("", "severity"))
	switch sev {
	case SeverityLow, SeverityMedium, SeverityHigh:
		d.Severity = sev
	case "":
	default:
		d.Severity = Severity(sev)
	}

	d.Remedies = m.List("remedies").Strings()
	d.PlanetsInvolved = m.List("planets_involved").Strings()
	d.HousesAffected = m.List("houses_affected").Strings()
	return d
}
