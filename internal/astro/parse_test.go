package astro_test

import (
	"testing"

	"github.com/saksham0021/mira-astrology-review/internal/astro"
)

func TestDecodeBlank(t *testing.T) {
	for _, d := range astro.Domains {
		for _, raw := range []string{"", "  ", "N/A", "null"} {
			r := astro.Decode(raw, d)
			if r.Value != nil {
				t.Errorf("Decode(%q, %s) value = %v, want nil", raw, d, r.Value)
			}
			if r.Method != astro.MethodNone {
				t.Errorf("Decode(%q, %s) method = %s, want none", raw, d, r.Method)
			}
		}
	}
}

func TestDecodeTiers(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		method astro.Method
		key    string
		want   string
	}{
		{
			name:   "json",
			raw:    `{"sign": "Leo"}`,
			method: astro.MethodJSON,
			key:    "sign",
			want:   "Leo",
		},
		{
			name:   "repaired json",
			raw:    `{'sign': 'Leo', 'retro': False}`,
			method: astro.MethodJSON,
			key:    "sign",
			want:   "Leo",
		},
		{
			name:   "colon lines",
			raw:    "sign: Leo\nlord: Sun",
			method: astro.MethodLines,
			key:    "lord",
			want:   "Sun",
		},
		{
			name:   "equals pairs",
			raw:    "sign = 'Leo', lord = Sun",
			method: astro.MethodLines,
			key:    "sign",
			want:   "Leo",
		},
		{
			name:   "broken json falls to pairs",
			raw:    `{"sign": "Leo", "lord": }`,
			method: astro.MethodLines,
			key:    "sign",
			want:   "Leo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := astro.Decode(tt.raw, astro.DomainSummary)
			if r.Method != tt.method {
				t.Fatalf("method = %s, want %s", r.Method, tt.method)
			}

			m, ok := r.Value.(astro.Map)
			if !ok {
				t.Fatalf("value = %T, want astro.Map", r.Value)
			}
			if got := m.Text("", tt.key); got != tt.want {
				t.Errorf("%s = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestDecodeUnrecognizable(t *testing.T) {
	r := astro.Decode("just some words", astro.DomainKundli)
	if r.Value != nil || r.Method != astro.MethodNone {
		t.Errorf("Decode() = %+v, want empty result", r)
	}
}

func TestDecodeTrailingDataRejected(t *testing.T) {
	r := astro.Decode(`{"a": "b"} {"c": "d"}`, astro.DomainDosha)
	if r.Method == astro.MethodJSON {
		t.Error("trailing object accepted as JSON")
	}
}

func TestDecodeChatTiers(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		method   astro.Method
		fallback bool
		count    int
	}{
		{
			name:   "array",
			raw:    `[{"user":"hi"},{"bot":"hello"}]`,
			method: astro.MethodJSON,
			count:  2,
		},
		{
			name:   "concatenated objects",
			raw:    `{"user":"hi"},{"bot":"hello"},{"user":"bye"}`,
			method: astro.MethodJSON,
			count:  3,
		},
		{
			name:     "broken fragment rescued",
			raw:      `{"user":"hi"},{"bot":"hel"lo"},{"user":"bye"}`,
			method:   astro.MethodFragments,
			fallback: true,
			count:    3,
		},
		{
			name:     "speaker lines",
			raw:      "User: hi\nBot: hello",
			method:   astro.MethodLines,
			fallback: true,
			count:    2,
		},
		{
			name:     "objects buried in text",
			raw:      `log start {"user": "hi"} noise {"bot": "hello", "x": 1} end`,
			method:   astro.MethodRegex,
			fallback: true,
			count:    2,
		},
		{
			name:   "no messages",
			raw:    "nothing to see",
			method: astro.MethodNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := astro.Decode(tt.raw, astro.DomainChat)
			if r.Method != tt.method {
				t.Fatalf("method = %s, want %s", r.Method, tt.method)
			}
			if r.Fallback() != tt.fallback {
				t.Errorf("Fallback() = %v, want %v", r.Fallback(), tt.fallback)
			}

			l, _ := r.Value.(astro.List)
			if len(l) != tt.count {
				t.Errorf("messages = %d, want %d", len(l), tt.count)
			}
		})
	}
}

func TestParseDispatch(t *testing.T) {
	tests := []struct {
		domain astro.Domain
		check  func(any) bool
	}{
		{astro.DomainKundli, func(v any) bool { _, ok := v.(astro.Kundli); return ok }},
		{astro.DomainDosha, func(v any) bool { _, ok := v.(astro.Doshas); return ok }},
		{astro.DomainDasha, func(v any) bool { _, ok := v.(astro.Dasha); return ok }},
		{astro.DomainDashaPeriod, func(v any) bool { _, ok := v.(astro.DashaPeriod); return ok }},
		{astro.DomainSummary, func(v any) bool { _, ok := v.(astro.Summary); return ok }},
		{astro.DomainChat, func(v any) bool { _, ok := v.(astro.ChatLog); return ok }},
	}

	for _, tt := range tests {
		t.Run(string(tt.domain), func(t *testing.T) {
			if got := astro.Parse("{{{ not json", tt.domain); !tt.check(got) {
				t.Errorf("Parse() = %T", got)
			}
		})
	}

	if got := astro.Parse("x", astro.Domain("planets")); got != nil {
		t.Errorf("Parse(unknown domain) = %v, want nil", got)
	}
}
