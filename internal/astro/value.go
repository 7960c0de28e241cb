package astro

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Value is the decoded form of a raw field. It is one of Text, Map or List;
// a nil Value means the field carried nothing recognizable.
type Value interface {
	value()
}

// Text is a scalar text value.
type Text string

// Map is a structured mapping decoded from JSON or key/value extraction.
type Map map[string]any

// List is a structured list decoded from JSON or message extraction.
type List []any

func (Text) value() {}
func (Map) value()  {}
func (List) value() {}

// wrap classifies a decoded JSON value.
func wrap(v any) Value {
	switch t := v.(type) {
	case nil:
		return nil
	case map[string]any:
		return Map(t)
	case []any:
		return List(t)
	default:
		return Text(text(t))
	}
}

func empty(v Value) bool {
	switch t := v.(type) {
	case Text:
		return strings.TrimSpace(string(t)) == ""
	case Map:
		return len(t) == 0
	case List:
		return len(t) == 0
	}
	return true
}

// text renders a decoded JSON value as text. Numbers keep their JSON spelling,
// nested structures are re-encoded.
func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	}
	if b, err := json.Marshal(v); err == nil {
		return string(b)
	}
	return fmt.Sprint(v)
}

// Text returns the first present, non-empty value among keys rendered as text,
// or def when none is set.
func (m Map) Text(def string, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if s := strings.TrimSpace(text(v)); s != "" {
				return s
			}
		}
	}
	return def
}

// Map returns the nested mapping at key, or nil.
func (m Map) Map(key string) Map {
	if v, ok := m[key].(map[string]any); ok {
		return v
	}
	return nil
}

// List returns the nested list at key, or nil.
func (m Map) List(key string) List {
	if v, ok := m[key].([]any); ok {
		return v
	}
	return nil
}

// Lookup finds key exactly, then case-insensitively.
func (m Map) Lookup(key string) (any, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

// Strings renders every element as text, dropping empty ones.
func (l List) Strings() []string {
	out := make([]string, 0, len(l))
	for _, v := range l {
		if s := strings.TrimSpace(text(v)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func flag(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "y", "r", "1":
			return true
		}
	case json.Number:
		return t.String() != "0"
	}
	return false
}
