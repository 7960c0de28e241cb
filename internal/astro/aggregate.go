// Package astro turns the loosely structured astrology columns of a session
// into normalized documents. Every parser in this package is total: malformed
// input degrades to a default structure instead of an error.
package astro

// Fields carries the raw astrology columns of one session.
type Fields struct {
	Summary       string
	Kundli        string
	KundliJSON    string
	DoshaJSON     string
	MajorDasha    string
	MinorDasha    string
	SubMinorDasha string
	ManglikDosha  string
	PitraDosha    string
	Chat          string
}

// Document is the parsed view of a session's astrology data.
type Document struct {
	Kundli  Kundli     `json:"kundli"`
	Doshas  Doshas     `json:"doshas"`
	Dasha   DashaTiers `json:"dasha"`
	Summary Summary    `json:"summary"`
	Chat    ChatLog    `json:"chat"`
}

// Aggregate parses every domain of a session independently. The explicit
// kundli_json and dosha_json columns take precedence over the text columns;
// without dosha_json the manglik and pitra columns are classified.
func Aggregate(f Fields) Document {
	kundliSource := f.KundliJSON
	if IsBlank(kundliSource) {
		kundliSource = f.Kundli
	}

	return Document{
		Kundli: guard(DefaultKundli, func() Kundli { return ParseKundli(kundliSource) }),
		Doshas: guard(DefaultDoshas, func() Doshas {
			if !IsBlank(f.DoshaJSON) {
				return ParseDoshas(f.DoshaJSON)
			}
			return DoshasFromFlags(f.ManglikDosha, f.PitraDosha)
		}),
		Dasha: DashaTiers{
			Major:    guard(DefaultDashaPeriod, func() DashaPeriod { return ParseDashaPeriod(f.MajorDasha) }),
			Minor:    guard(DefaultDashaPeriod, func() DashaPeriod { return ParseDashaPeriod(f.MinorDasha) }),
			SubMinor: guard(DefaultDashaPeriod, func() DashaPeriod { return ParseDashaPeriod(f.SubMinorDasha) }),
		},
		Summary: guard(DefaultSummary, func() Summary { return ParseSummary(f.Summary) }),
		Chat:    guard(EmptyChat, func() ChatLog { return ParseChat(f.Chat) }),
	}
}

// Parse normalizes a single raw field for domain and returns the domain document.
func Parse(raw string, domain Domain) any {
	switch domain {
	case DomainKundli:
		return guard(DefaultKundli, func() Kundli { return ParseKundli(raw) })
	case DomainDosha:
		return guard(DefaultDoshas, func() Doshas { return ParseDoshas(raw) })
	case DomainDasha:
		return guard(DefaultDasha, func() Dasha { return ParseDasha(raw) })
	case DomainDashaPeriod:
		return guard(DefaultDashaPeriod, func() DashaPeriod { return ParseDashaPeriod(raw) })
	case DomainSummary:
		return guard(DefaultSummary, func() Summary { return ParseSummary(raw) })
	case DomainChat:
		return guard(EmptyChat, func() ChatLog { return ParseChat(raw) })
	}
	return nil
}

// guard isolates one domain: a panic inside parse yields that domain's default.
func guard[T any](fallback func() T, parse func() T) (out T) {
	defer func() {
		if recover() != nil {
			out = fallback()
		}
	}()
	return parse()
}
