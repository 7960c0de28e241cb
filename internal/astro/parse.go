package astro

import (
	"encoding/json"
	"errors"
	"io"
	"regexp"
	"sort"
	"strings"
)

// Domain selects the normalizer applied to a raw field.
type Domain string

const (
	DomainKundli      Domain = "kundli"
	DomainDosha       Domain = "dosha"
	DomainDasha       Domain = "dasha"
	DomainDashaPeriod Domain = "dasha_period"
	DomainSummary     Domain = "summary"
	DomainChat        Domain = "chat"
)

// Domains lists every supported domain.
var Domains = []Domain{
	DomainKundli,
	DomainDosha,
	DomainDasha,
	DomainDashaPeriod,
	DomainSummary,
	DomainChat,
}

// Method records which decoding tier produced a Result.
type Method int

const (
	MethodNone Method = iota
	MethodJSON
	MethodFragments
	MethodLines
	MethodRegex
)

func (m Method) String() string {
	switch m {
	case MethodJSON:
		return "json"
	case MethodFragments:
		return "fragments"
	case MethodLines:
		return "lines"
	case MethodRegex:
		return "regex"
	}
	return "none"
}

// Result is the structural decoding of one raw field.
type Result struct {
	Value  Value
	Method Method
}

// Fallback reports whether a tier past direct JSON decoding produced the value.
func (r Result) Fallback() bool {
	return r.Method > MethodJSON
}

var (
	colonPair    = regexp.MustCompile(`"?(\w+)"?\s*:\s*([^,\n]+)`)
	equalsPair   = regexp.MustCompile(`"?(\w+)"?\s*=\s*([^,\n]+)`)
	chatLine     = regexp.MustCompile(`(?im)^\s*(user|bot)\s*[:=]\s*(.+?)\s*$`)
	fragmentEdge = regexp.MustCompile(`\}\s*,\s*\{`)
	userField    = regexp.MustCompile(`"user"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	botField     = regexp.MustCompile(`"bot"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	userObject   = regexp.MustCompile(`\{\s*"user"\s*:\s*"((?:[^"\\]|\\.)*)"[^}]*\}`)
	botObject    = regexp.MustCompile(`\{\s*"bot"\s*:\s*"((?:[^"\\]|\\.)*)"[^}]*\}`)
	edgeTrim     = " \t\"'{}[]"
)

// Decode turns a raw field into a structure, trying each tier in order until
// one yields something recognizable. It never fails: an unrecognizable field
// decodes to a nil Value with MethodNone.
func Decode(raw string, domain Domain) Result {
	if IsBlank(raw) {
		return Result{}
	}
	if domain == DomainChat {
		return decodeChat(raw)
	}

	if v, ok := decodeJSON(Clean(raw)); ok && !empty(v) {
		return Result{Value: v, Method: MethodJSON}
	}

	if m := extractPairs(raw); len(m) > 0 {
		return Result{Value: m, Method: MethodLines}
	}

	return Result{}
}

func decodeJSON(s string) (Value, bool) {
	if !strings.HasPrefix(s, "{") && !strings.HasPrefix(s, "[") {
		return nil, false
	}

	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, false
	}
	return wrap(v), true
}

func extractPairs(raw string) Map {
	m := Map{}
	for _, pattern := range []*regexp.Regexp{colonPair, equalsPair} {
		for _, match := range pattern.FindAllStringSubmatch(raw, -1) {
			key := strings.Trim(match[1], edgeTrim)
			value := strings.Trim(match[2], edgeTrim)
			if key != "" && value != "" {
				m[key] = value
			}
		}
	}
	return m
}

func decodeChat(raw string) Result {
	cleaned := CleanChat(raw)

	if v, ok := decodeJSON(cleaned); ok {
		if l, ok := v.(List); ok && hasMessages(l) {
			return Result{Value: l, Method: MethodJSON}
		}
	}

	if l := chatFragments(cleaned); len(l) > 0 {
		return Result{Value: l, Method: MethodFragments}
	}

	if l := chatLines(raw); len(l) > 0 {
		return Result{Value: l, Method: MethodLines}
	}

	if l := chatScan(raw); len(l) > 0 {
		return Result{Value: l, Method: MethodRegex}
	}

	return Result{}
}

func hasMessages(l List) bool {
	for _, item := range l {
		if m, ok := item.(map[string]any); ok {
			if _, ok := m["user"]; ok {
				return true
			}
			if _, ok := m["bot"]; ok {
				return true
			}
		}
	}
	return false
}

// chatFragments splits a brace-delimited concatenation at every },{ boundary
// and decodes each fragment on its own, rescuing undecodable fragments with a
// field-level pattern. Text without a boundary is not a concatenation.
func chatFragments(cleaned string) List {
	body := strings.TrimSpace(cleaned)
	body = strings.TrimPrefix(body, "[")
	body = strings.TrimSuffix(body, "]")
	if !fragmentEdge.MatchString(body) {
		return nil
	}

	var out List
	for _, part := range fragmentEdge.Split(body, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !strings.HasPrefix(part, "{") {
			part = "{" + part
		}
		if !strings.HasSuffix(part, "}") {
			part += "}"
		}

		if v, ok := decodeJSON(part); ok {
			if m, ok := v.(Map); ok && hasMessages(List{map[string]any(m)}) {
				out = append(out, map[string]any(m))
				continue
			}
		}

		if match := userField.FindStringSubmatch(part); match != nil {
			out = append(out, map[string]any{"user": unescape(match[1])})
		} else if match := botField.FindStringSubmatch(part); match != nil {
			out = append(out, map[string]any{"bot": unescape(match[1])})
		}
	}
	return out
}

func chatLines(raw string) List {
	var out List
	for _, match := range chatLine.FindAllStringSubmatch(raw, -1) {
		out = append(out, map[string]any{strings.ToLower(match[1]): match[2]})
	}
	return out
}

// chatScan finds every user or bot object anywhere in the raw text and
// orders them by where they occur.
func chatScan(raw string) List {
	type hit struct {
		pos  int
		kind string
		msg  string
	}

	var hits []hit
	for kind, pattern := range map[string]*regexp.Regexp{"user": userObject, "bot": botObject} {
		for _, idx := range pattern.FindAllStringSubmatchIndex(raw, -1) {
			hits = append(hits, hit{
				pos:  idx[0],
				kind: kind,
				msg:  unescape(raw[idx[2]:idx[3]]),
			})
		}
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	out := make(List, 0, len(hits))
	for _, h := range hits {
		out = append(out, map[string]any{h.kind: h.msg})
	}
	return out
}

func unescape(s string) string {
	r := strings.NewReplacer(`\n`, "\n", `\r`, "\r", `\t`, "\t", `\"`, `"`, `\\`, `\`)
	return r.Replace(s)
}
