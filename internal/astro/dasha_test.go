package astro_test

import (
	"reflect"
	"testing"

	"github.com/saksham0021/mira-astrology-review/internal/astro"
)

func TestParseDashaPeriod(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want astro.DashaPeriod
	}{
		{
			name: "blank",
			raw:  "",
			want: astro.DefaultDashaPeriod(),
		},
		{
			name: "sentinel",
			raw:  "N/A",
			want: astro.DefaultDashaPeriod(),
		},
		{
			name: "planet with range",
			raw:  "Venus (2020-2030)",
			want: astro.DashaPeriod{Planet: "Venus", Period: "2020-2030", StartDate: astro.Unknown, EndDate: astro.Unknown},
		},
		{
			name: "planet only",
			raw:  "  Rahu ",
			want: astro.DashaPeriod{Planet: "Rahu", Period: astro.Unknown, StartDate: astro.Unknown, EndDate: astro.Unknown},
		},
		{
			name: "json object",
			raw:  `{"planet": "Saturn", "period": "19 years", "start_date": "2019-01-01", "end_date": "2038-01-01"}`,
			want: astro.DashaPeriod{Planet: "Saturn", Period: "19 years", StartDate: "2019-01-01", EndDate: "2038-01-01"},
		},
		{
			name: "period derived from dates",
			raw:  `{'planet': 'Mars', 'start': '2021-03-01', 'end': '2028-03-01', 'planet_id': 4}`,
			want: astro.DashaPeriod{Planet: "Mars", Period: "2021-03-01 to 2028-03-01", StartDate: "2021-03-01", EndDate: "2028-03-01", PlanetID: "4"},
		},
		{
			name: "empty object",
			raw:  `{}`,
			want: astro.DefaultDashaPeriod(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := astro.ParseDashaPeriod(tt.raw); got != tt.want {
				t.Errorf("ParseDashaPeriod(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseDasha(t *testing.T) {
	raw := `{
		"mahadasha": "Jupiter (2015-2031)",
		"antardasha": {"planet": "Mercury", "start_date": "2024-01-01", "end_date": "2026-05-01"},
		"upcoming": [{"planet": "Ketu"}],
		"balance": {"years": 3}
	}`

	d := astro.ParseDasha(raw)

	if d.Mahadasha.Planet != "Jupiter" || d.Mahadasha.Period != "2015-2031" {
		t.Errorf("mahadasha = %+v", d.Mahadasha)
	}
	if d.Antardasha.Period != "2024-01-01 to 2026-05-01" {
		t.Errorf("antardasha period = %q", d.Antardasha.Period)
	}
	if d.Pratyantardasha != astro.DefaultDashaPeriod() {
		t.Errorf("pratyantardasha = %+v, want default", d.Pratyantardasha)
	}
	if len(d.Upcoming) != 1 {
		t.Errorf("upcoming = %v", d.Upcoming)
	}
	if len(d.Balance) != 1 {
		t.Errorf("balance = %v", d.Balance)
	}
}

func TestParseDashaBlank(t *testing.T) {
	if got := astro.ParseDasha("null"); !reflect.DeepEqual(got, astro.DefaultDasha()) {
		t.Errorf("ParseDasha(null) = %+v, want default", got)
	}
}
