package astro_test

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/saksham0021/mira-astrology-review/internal/astro"
)

var zodiac = []string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

// houseList renders the positional export format with the given occupants
// per house index.
func houseList(occupants map[int][]string) string {
	parts := make([]string, 0, len(zodiac))
	for i, sign := range zodiac {
		planets := make([]string, 0)
		for _, p := range occupants[i] {
			planets = append(planets, fmt.Sprintf(`{"value":%q}`, p))
		}
		parts = append(parts, fmt.Sprintf(`{"value":{"sign_name":%q,"planet":[%s]}}`, sign, strings.Join(planets, ",")))
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func TestDefaultKundli(t *testing.T) {
	k := astro.DefaultKundli()

	if len(k.Houses) != 12 {
		t.Errorf("houses = %d, want 12", len(k.Houses))
	}
	if len(k.PlanetaryPositions) != 9 {
		t.Errorf("planets = %d, want 9", len(k.PlanetaryPositions))
	}
	if k.BasicInfo.Ascendant != astro.Unknown {
		t.Errorf("ascendant = %q, want %q", k.BasicInfo.Ascendant, astro.Unknown)
	}
	if h := k.Houses[astro.HouseKey(7)]; h.Sign != astro.Unknown || h.Planets == nil {
		t.Errorf("house_7 = %+v", h)
	}
}

func TestParseKundliBlank(t *testing.T) {
	for _, raw := range []string{"", "N/A", "null", "garbage"} {
		t.Run(raw, func(t *testing.T) {
			if got := astro.ParseKundli(raw); !reflect.DeepEqual(got, astro.DefaultKundli()) {
				t.Errorf("ParseKundli(%q) is not the default chart", raw)
			}
		})
	}
}

func TestParseKundliHouseList(t *testing.T) {
	raw := houseList(map[int][]string{
		0: {"SUN", "MERCURY"},
		3: {"MOON"},
		6: {"SUN"},
	})

	k := astro.ParseKundli(raw)

	if k.BasicInfo.Ascendant != "Aries" {
		t.Errorf("ascendant = %q, want Aries", k.BasicInfo.Ascendant)
	}
	if k.BasicInfo.SunSign != "Aries" {
		t.Errorf("sun_sign = %q, want Aries", k.BasicInfo.SunSign)
	}
	if k.BasicInfo.MoonSign != "Cancer" {
		t.Errorf("moon_sign = %q, want Cancer", k.BasicInfo.MoonSign)
	}
	if k.BasicInfo.BirthNakshatra != astro.Unknown {
		t.Errorf("birth_nakshatra = %q, want %q", k.BasicInfo.BirthNakshatra, astro.Unknown)
	}

	sun, ok := k.PlanetaryPositions["SUN"]
	if !ok {
		t.Fatal("SUN missing from planetary positions")
	}
	if sun.House != "1" {
		t.Errorf("SUN house = %q, want first occurrence 1", sun.House)
	}
	if k.PlanetaryPositions["MOON"].House != "4" {
		t.Errorf("MOON house = %q, want 4", k.PlanetaryPositions["MOON"].House)
	}

	if len(k.Houses) != 12 {
		t.Errorf("houses = %d, want 12", len(k.Houses))
	}
	if got := k.Houses["house_1"].Planets; !reflect.DeepEqual(got, []string{"SUN", "MERCURY"}) {
		t.Errorf("house_1 planets = %v", got)
	}
	if got := k.Houses["house_7"]; got.Sign != "Libra" || got.Lord != astro.Unknown {
		t.Errorf("house_7 = %+v", got)
	}
}

func TestParseKundliPartialHouseList(t *testing.T) {
	raw := `[{"value":{"sign_name":"Leo","planet":[]}},{"value":{"planet":[{"value":"Moon"}]}}]`

	k := astro.ParseKundli(raw)

	if len(k.Houses) != 2 {
		t.Fatalf("houses = %d, want 2", len(k.Houses))
	}
	if got := k.Houses["house_2"].Sign; got != "House 2" {
		t.Errorf("house_2 sign = %q, want positional placeholder", got)
	}
	if k.BasicInfo.MoonSign != "House 2" {
		t.Errorf("moon_sign = %q", k.BasicInfo.MoonSign)
	}
	if k.BasicInfo.SunSign != astro.Unknown {
		t.Errorf("sun_sign = %q, want %q", k.BasicInfo.SunSign, astro.Unknown)
	}
}

func TestParseKundliMapping(t *testing.T) {
	raw := `{
		"ascendant": "Virgo",
		"basic_info": {"moon_sign": "Pisces"},
		"nakshatra": "Revati",
		"planets": {"Sun": "Leo", "mars": {"sign": "Aries", "degree": 12.5, "house": 8, "retrograde": "R"}},
		"houses": {"1": {"sign": "Virgo", "lord": "Mercury", "planets": ["Ketu"]}, "house_10": "Gemini"}
	}`

	k := astro.ParseKundli(raw)

	want := astro.BasicInfo{
		Ascendant:      "Virgo",
		MoonSign:       "Pisces",
		SunSign:        astro.Unknown,
		BirthNakshatra: "Revati",
	}
	if k.BasicInfo != want {
		t.Errorf("basic_info = %+v, want %+v", k.BasicInfo, want)
	}

	if got := k.PlanetaryPositions["Sun"]; got.Sign != "Leo" || got.House != astro.Unknown {
		t.Errorf("Sun = %+v", got)
	}
	mars := astro.Planet{Sign: "Aries", Degree: "12.5", House: "8", Retrograde: true}
	if got := k.PlanetaryPositions["Mars"]; got != mars {
		t.Errorf("Mars = %+v, want %+v", got, mars)
	}
	if got := k.PlanetaryPositions["Venus"]; got.Sign != astro.Unknown {
		t.Errorf("Venus = %+v, want default", got)
	}

	if len(k.Houses) != 12 {
		t.Errorf("houses = %d, want 12", len(k.Houses))
	}
	if got := k.Houses["house_1"]; got.Lord != "Mercury" || !reflect.DeepEqual(got.Planets, []string{"Ketu"}) {
		t.Errorf("house_1 = %+v", got)
	}
	if got := k.Houses["house_10"].Sign; got != "Gemini" {
		t.Errorf("house_10 sign = %q, want Gemini", got)
	}
	if got := k.Houses["house_5"].Sign; got != astro.Unknown {
		t.Errorf("house_5 sign = %q, want default", got)
	}
}

func TestParseKundliRoundTrip(t *testing.T) {
	k := astro.DefaultKundli()
	k.BasicInfo = astro.BasicInfo{Ascendant: "Leo", MoonSign: "Aries", SunSign: "Virgo", BirthNakshatra: "Ashwini"}
	for i, name := range astro.Planets {
		k.PlanetaryPositions[name] = astro.Planet{
			Sign:       zodiac[i],
			Degree:     fmt.Sprintf("%d.25", i+1),
			House:      fmt.Sprint(i + 1),
			Retrograde: name == "Saturn",
		}
	}
	for i := 1; i <= 12; i++ {
		k.Houses[astro.HouseKey(i)] = astro.House{Sign: zodiac[i-1], Lord: "Mars", Planets: []string{}}
	}
	k.Houses["house_3"] = astro.House{Sign: "Gemini", Lord: "Mercury", Planets: []string{"Sun", "Venus"}}
	k.Yogas = []any{"Gaja Kesari"}

	b, err := json.Marshal(k)
	if err != nil {
		t.Fatal(err)
	}

	if got := astro.ParseKundli(string(b)); !reflect.DeepEqual(got, k) {
		t.Errorf("round trip changed chart:\n got %+v\nwant %+v", got, k)
	}
}
