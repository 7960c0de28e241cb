package astro

// Summary groups the astrological details recorded with a session.
type Summary struct {
	PersonalDetails  PersonalDetails  `json:"personal_details"`
	AstrologicalInfo AstrologicalInfo `json:"astrological_info"`
	AdditionalInfo   AdditionalInfo   `json:"additional_info"`
}

type PersonalDetails struct {
	Nakshatra     string `json:"nakshatra"`
	NakshatraLord string `json:"nakshatra_lord"`
	Varna         string `json:"varna"`
	Paya          string `json:"paya"`
	NameAlphabet  string `json:"name_alphabet"`
	Tatva         string `json:"tatva"`
	Charan        string `json:"charan"`
	Gan           string `json:"gan"`
}

type AstrologicalInfo struct {
	Sign          string `json:"sign"`
	SignLord      string `json:"sign_lord"`
	Ascendant     string `json:"ascendant"`
	AscendantLord string `json:"ascendant_lord"`
	Karan         string `json:"karan"`
	Yog           string `json:"yog"`
	Yunja         string `json:"yunja"`
	Tithi         string `json:"tithi"`
}

type AdditionalInfo struct {
	Vashya         string `json:"vashya"`
	Yoni           string `json:"yoni"`
	Nadi           string `json:"nadi"`
	MoonSign       string `json:"moon_sign"`
	BirthNumber    string `json:"birth_number"`
	LifePathNumber string `json:"life_path_number"`
	LuckyNumber    string `json:"lucky_number"`
	LuckyColor     string `json:"lucky_color"`
	LuckyDay       string `json:"lucky_day"`
}

// DefaultSummary returns a summary with every field set to Unknown.
func DefaultSummary() Summary {
	return SummaryFrom(nil)
}

// ParseSummary normalizes a raw summary field.
func ParseSummary(raw string) Summary {
	return SummaryFrom(Decode(raw, DomainSummary).Value)
}

// SummaryFrom normalizes an already decoded summary. The source exports spell
// nakshatra as "naksahtra"; both spellings are accepted.
func SummaryFrom(v Value) Summary {
	m, _ := v.(Map)
	if m == nil {
		m = Map{}
	}

	return Summary{
		PersonalDetails: PersonalDetails{
			Nakshatra:     m.Text(Unknown, "naksahtra", "nakshatra"),
			NakshatraLord: m.Text(Unknown, "naksahtralord", "nakshatralord", "nakshatra_lord"),
			Varna:         m.Text(Unknown, "varna"),
			Paya:          m.Text(Unknown, "paya"),
			NameAlphabet:  m.Text(Unknown, "name_alphabet"),
			Tatva:         m.Text(Unknown, "tatva"),
			Charan:        m.Text(Unknown, "charan"),
			Gan:           m.Text(Unknown, "gan"),
		},
		AstrologicalInfo: AstrologicalInfo{
			Sign:          m.Text(Unknown, "sign"),
			SignLord:      m.Text(Unknown, "signlord", "sign_lord"),
			Ascendant:     m.Text(Unknown, "ascendant"),
			AscendantLord: m.Text(Unknown, "ascendant_lord"),
			Karan:         m.Text(Unknown, "karan"),
			Yog:           m.Text(Unknown, "yog"),
			Yunja:         m.Text(Unknown, "yunja"),
			Tithi:         m.Text(Unknown, "tithi"),
		},
		AdditionalInfo: AdditionalInfo{
			Vashya:         m.Text(Unknown, "vashya"),
			Yoni:           m.Text(Unknown, "yoni"),
			Nadi:           m.Text(Unknown, "nadi"),
			MoonSign:       m.Text(Unknown, "moon_sign"),
			BirthNumber:    m.Text(Unknown, "birth_number"),
			LifePathNumber: m.Text(Unknown, "life_path_number"),
			LuckyNumber:    m.Text(Unknown, "lucky_number"),
			LuckyColor:     m.Text(Unknown, "lucky_color"),
			LuckyDay:       m.Text(Unknown, "lucky_day"),
		},
	}
}
