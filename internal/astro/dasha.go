package astro

import (
	"regexp"
	"strings"
)

// DashaPeriod describes one dasha tier.
type DashaPeriod struct {
	Planet          string `json:"planet"`
	Period          string `json:"period"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	PlanetID        string `json:"planet_id,omitempty"`
	RemainingYears  string `json:"remaining_years,omitempty"`
	RemainingMonths string `json:"remaining_months,omitempty"`
}

// Dasha is the full dasha document: running periods, upcoming periods and balance.
type Dasha struct {
	Mahadasha       DashaPeriod    `json:"current_mahadasha"`
	Antardasha      DashaPeriod    `json:"current_antardasha"`
	Pratyantardasha DashaPeriod    `json:"current_pratyantardasha"`
	Upcoming        []any          `json:"upcoming_periods"`
	Balance         map[string]any `json:"dasha_balance"`
}

// DashaTiers are the three running periods stored on a session.
type DashaTiers struct {
	Major    DashaPeriod `json:"major"`
	Minor    DashaPeriod `json:"minor"`
	SubMinor DashaPeriod `json:"sub_minor"`
}

var planetPeriod = regexp.MustCompile(`^([^(]+)(?:\s*\(([^)]+)\))?`)

// DefaultDashaPeriod returns a period with every field set to Unknown.
func DefaultDashaPeriod() DashaPeriod {
	return DashaPeriod{
		Planet:    Unknown,
		Period:    Unknown,
		StartDate: Unknown,
		EndDate:   Unknown,
	}
}

// DefaultDasha returns an empty dasha document.
func DefaultDasha() Dasha {
	return Dasha{
		Mahadasha:       DefaultDashaPeriod(),
		Antardasha:      DefaultDashaPeriod(),
		Pratyantardasha: DefaultDashaPeriod(),
		Upcoming:        []any{},
		Balance:         map[string]any{},
	}
}

// ParseDashaPeriod normalizes one dasha tier given as a JSON object or as
// "<planet> (<period>)" text.
func ParseDashaPeriod(raw string) DashaPeriod {
	if IsBlank(raw) {
		return DefaultDashaPeriod()
	}

	s := strings.TrimSpace(raw)
	if v, ok := decodeJSON(Clean(s)); ok {
		if m, ok := v.(Map); ok {
			return dashaPeriodFromMap(m)
		}
	}

	match := planetPeriod.FindStringSubmatch(s)
	if match == nil {
		return DefaultDashaPeriod()
	}

	p := DefaultDashaPeriod()
	if planet := strings.TrimSpace(match[1]); planet != "" {
		p.Planet = planet
	}
	if period := strings.TrimSpace(match[2]); period != "" {
		p.Period = period
	}
	return p
}

// DashaPeriodFrom normalizes a tier nested inside an already decoded document.
func DashaPeriodFrom(v any) DashaPeriod {
	switch t := v.(type) {
	case map[string]any:
		return dashaPeriodFromMap(t)
	case string:
		return ParseDashaPeriod(t)
	}
	return DefaultDashaPeriod()
}

func dashaPeriodFromMap(m Map) DashaPeriod {
	if len(m) == 0 {
		return DefaultDashaPeriod()
	}

	p := DashaPeriod{
		Planet:          m.Text(Unknown, "planet"),
		StartDate:       m.Text(Unknown, "start_date", "start"),
		EndDate:         m.Text(Unknown, "end_date", "end"),
		PlanetID:        m.Text("", "planet_id"),
		RemainingYears:  m.Text("", "remaining_years"),
		RemainingMonths: m.Text("", "remaining_months"),
	}

	p.Period = m.Text("", "period")
	if p.Period == "" {
		if p.StartDate != Unknown || p.EndDate != Unknown {
			p.Period = p.StartDate + " to " + p.EndDate
		} else {
			p.Period = Unknown
		}
	}
	return p
}

// ParseDasha normalizes a full dasha document.
func ParseDasha(raw string) Dasha {
	return DashaFrom(Decode(raw, DomainDasha).Value)
}

// DashaFrom normalizes an already decoded dasha document.
func DashaFrom(v Value) Dasha {
	m, ok := v.(Map)
	if !ok || len(m) == 0 {
		return DefaultDasha()
	}

	d := Dasha{
		Mahadasha:       DashaPeriodFrom(m["mahadasha"]),
		Antardasha:      DashaPeriodFrom(m["antardasha"]),
		Pratyantardasha: DashaPeriodFrom(m["pratyantardasha"]),
		Upcoming:        listOrEmpty(m.List("upcoming")),
		Balance:         m.Map("balance"),
	}
	if d.Balance == nil {
		d.Balance = map[string]any{}
	}
	return d
}
