package astro

import (
	"strconv"
	"strings"
)

// Planets are the nine grahas every mapping-shaped kundli reports.
var Planets = []string{"Sun", "Moon", "Mars", "Mercury", "Jupiter", "Venus", "Saturn", "Rahu", "Ketu"}

const houseCount = 12

// Kundli is the normalized birth chart.
type Kundli struct {
	BasicInfo          BasicInfo         `json:"basic_info"`
	PlanetaryPositions map[string]Planet `json:"planetary_positions"`
	Houses             map[string]House  `json:"houses"`
	Aspects            []any             `json:"aspects"`
	Yogas              []any             `json:"yogas"`
}

type BasicInfo struct {
	Ascendant      string `json:"ascendant"`
	MoonSign       string `json:"moon_sign"`
	SunSign        string `json:"sun_sign"`
	BirthNakshatra string `json:"birth_nakshatra"`
}

type Planet struct {
	Sign       string `json:"sign"`
	Degree     string `json:"degree"`
	House      string `json:"house"`
	Retrograde bool   `json:"retrograde"`
}

type House struct {
	Sign    string   `json:"sign"`
	Lord    string   `json:"lord"`
	Planets []string `json:"planets"`
}

// HouseKey returns the key used for house n in Kundli.Houses.
func HouseKey(n int) string {
	return "house_" + strconv.Itoa(n)
}

// DefaultKundli returns a chart with every field set to Unknown.
func DefaultKundli() Kundli {
	k := Kundli{
		BasicInfo: BasicInfo{
			Ascendant:      Unknown,
			MoonSign:       Unknown,
			SunSign:        Unknown,
			BirthNakshatra: Unknown,
		},
		PlanetaryPositions: make(map[string]Planet, len(Planets)),
		Houses:             make(map[string]House, houseCount),
		Aspects:            []any{},
		Yogas:              []any{},
	}
	for _, p := range Planets {
		k.PlanetaryPositions[p] = defaultPlanet()
	}
	for i := 1; i <= houseCount; i++ {
		k.Houses[HouseKey(i)] = defaultHouse()
	}
	return k
}

func defaultPlanet() Planet {
	return Planet{Sign: Unknown, Degree: Unknown, House: Unknown}
}

func defaultHouse() House {
	return House{Sign: Unknown, Lord: Unknown, Planets: []string{}}
}

// ParseKundli normalizes a raw kundli field. Lists are read as positional
// house objects, mappings as a keyed chart; anything else yields DefaultKundli.
func ParseKundli(raw string) Kundli {
	return KundliFrom(Decode(raw, DomainKundli).Value)
}

// KundliFrom normalizes an already decoded kundli value.
func KundliFrom(v Value) Kundli {
	switch t := v.(type) {
	case List:
		if len(t) > 0 {
			return kundliFromHouses(t)
		}
	case Map:
		if len(t) > 0 {
			return kundliFromMap(t)
		}
	}
	return DefaultKundli()
}

// kundliFromHouses reads the export format where element i describes house i+1:
// {"value": {"sign_name": ..., "planet": [{"value": "<planet>"}, ...]}}.
// A flattened {"sign_name": ..., "value": [...]} element is read the same way.
func kundliFromHouses(list List) Kundli {
	k := Kundli{
		PlanetaryPositions: map[string]Planet{},
		Houses:             map[string]House{},
		Aspects:            []any{},
		Yogas:              []any{},
	}

	for i, el := range list {
		entry, ok := el.(map[string]any)
		if !ok {
			continue
		}
		info, occupants, ok := houseInfo(entry)
		if !ok {
			continue
		}

		num := strconv.Itoa(i + 1)
		sign := info.Text("House "+num, "sign_name")

		names := []string{}
		for _, p := range occupants {
			pm, ok := p.(map[string]any)
			if !ok {
				continue
			}
			name := Map(pm).Text("", "value")
			if name == "" {
				continue
			}
			names = append(names, name)
			if _, seen := k.PlanetaryPositions[name]; !seen {
				k.PlanetaryPositions[name] = Planet{Sign: sign, Degree: Unknown, House: num}
			}
		}

		k.Houses[HouseKey(i+1)] = House{Sign: sign, Lord: Unknown, Planets: names}
	}

	k.BasicInfo = BasicInfo{
		Ascendant:      Unknown,
		MoonSign:       signOf(k.PlanetaryPositions, "moon"),
		SunSign:        signOf(k.PlanetaryPositions, "sun"),
		BirthNakshatra: Unknown,
	}
	if first, ok := k.Houses[HouseKey(1)]; ok {
		k.BasicInfo.Ascendant = first.Sign
	}

	return k
}

func houseInfo(entry Map) (Map, List, bool) {
	switch v := entry["value"].(type) {
	case map[string]any:
		return v, Map(v).List("planet"), true
	case []any:
		return entry, v, true
	}
	return nil, nil, false
}

func signOf(positions map[string]Planet, planet string) string {
	for name, p := range positions {
		if strings.EqualFold(name, planet) {
			return p.Sign
		}
	}
	return Unknown
}

func kundliFromMap(m Map) Kundli {
	basic := m.Map("basic_info")
	if basic == nil {
		basic = Map{}
	}

	k := Kundli{
		BasicInfo: BasicInfo{
			Ascendant:      firstText(basic, m, "ascendant"),
			MoonSign:       firstText(basic, m, "moon_sign"),
			SunSign:        firstText(basic, m, "sun_sign"),
			BirthNakshatra: firstText(basic, m, "birth_nakshatra", "nakshatra"),
		},
		PlanetaryPositions: make(map[string]Planet, len(Planets)),
		Houses:             make(map[string]House, houseCount),
		Aspects:            listOrEmpty(m.List("aspects")),
		Yogas:              listOrEmpty(m.List("yogas")),
	}

	planets := m.Map("planets")
	if planets == nil {
		planets = m.Map("planetary_positions")
	}
	for _, name := range Planets {
		var entry any
		if planets != nil {
			entry, _ = planets.Lookup(name)
		}
		k.PlanetaryPositions[name] = planetFrom(entry)
	}

	for i := 1; i <= houseCount; i++ {
		k.Houses[HouseKey(i)] = houseFrom(houseEntry(m, i))
	}

	return k
}

func firstText(basic, top Map, keys ...string) string {
	if s := basic.Text("", keys...); s != "" {
		return s
	}
	return top.Text(Unknown, keys...)
}

func planetFrom(entry any) Planet {
	switch t := entry.(type) {
	case string:
		p := defaultPlanet()
		if s := strings.TrimSpace(t); s != "" {
			p.Sign = s
		}
		return p
	case map[string]any:
		pm := Map(t)
		return Planet{
			Sign:       pm.Text(Unknown, "sign"),
			Degree:     pm.Text(Unknown, "degree"),
			House:      pm.Text(Unknown, "house"),
			Retrograde: flag(pm["retrograde"]),
		}
	}
	return defaultPlanet()
}

func houseEntry(m Map, n int) any {
	switch houses := m["houses"].(type) {
	case map[string]any:
		if v, ok := houses[strconv.Itoa(n)]; ok {
			return v
		}
		return houses[HouseKey(n)]
	case []any:
		if n <= len(houses) {
			return houses[n-1]
		}
	}
	return nil
}

func houseFrom(entry any) House {
	switch t := entry.(type) {
	case string:
		h := defaultHouse()
		if s := strings.TrimSpace(t); s != "" {
			h.Sign = s
		}
		return h
	case map[string]any:
		hm := Map(t)
		return House{
			Sign:    hm.Text(Unknown, "sign"),
			Lord:    hm.Text(Unknown, "lord"),
			Planets: hm.List("planets").Strings(),
		}
	}
	return defaultHouse()
}

func listOrEmpty(l List) []any {
	if l == nil {
		return []any{}
	}
	return l
}
