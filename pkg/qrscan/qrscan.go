// Package qrscan normalizes the output of third-party QR decoders into a
// canonical appointment code. Decoder result shapes vary by platform and
// library version: a plain string, an object with a text/data/rawValue
// property, or an array of either. Rather than probing properties at
// runtime, the payload is modelled as a small tagged union.
package qrscan

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/wexxqt/ecatsulta-api/pkg/apptcode"
)

// Kind discriminates the payload union.
type Kind int

const (
	KindText Kind = iota
	KindSequence
	KindKeyed
)

// Payload is a tagged union over the shapes a QR decoder may hand back.
type Payload struct {
	Kind     Kind
	Text     string
	Sequence []Payload
	Keyed    map[string]string
}

// NewText wraps a plain decoded string.
func NewText(s string) Payload {
	return Payload{Kind: KindText, Text: s}
}

// NewSequence wraps a list of decoder results.
func NewSequence(items ...Payload) Payload {
	return Payload{Kind: KindSequence, Sequence: items}
}

// NewKeyed wraps an object-shaped decoder result.
func NewKeyed(fields map[string]string) Payload {
	return Payload{Kind: KindKeyed, Keyed: fields}
}

// keyed object properties checked in precedence order
var keyedProps = []string{"text", "data", "rawValue"}

// FromJSON folds an arbitrary JSON value from a scanner client into the
// payload union. Arrays become sequences, objects become keyed payloads
// with values coerced to strings, everything else becomes text. It never
// fails: undecodable input degrades to the raw bytes as text.
func FromJSON(raw json.RawMessage) Payload {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return NewText(strings.TrimSpace(string(raw)))
	}
	return fromValue(v)
}

func fromValue(v interface{}) Payload {
	switch t := v.(type) {
	case string:
		return NewText(t)
	case []interface{}:
		items := make([]Payload, 0, len(t))
		for _, item := range t {
			items = append(items, fromValue(item))
		}
		return NewSequence(items...)
	case map[string]interface{}:
		fields := make(map[string]string, len(t))
		for k, val := range t {
			fields[k] = coerceString(val)
		}
		return NewKeyed(fields)
	case nil:
		return NewText("")
	default:
		return NewText(coerceString(t))
	}
}

func coerceString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		// JSON numbers: render integers without the trailing ".000000"
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Normalize resolves a payload to a single candidate appointment code.
// It never fails: input that matches no heuristic passes through as-is and
// the subsequent lookup reports not-found.
func Normalize(p Payload) string {
	return extractCode(resolveText(p))
}

// NormalizeJSON is FromJSON followed by Normalize.
func NormalizeJSON(raw json.RawMessage) string {
	return Normalize(FromJSON(raw))
}

func resolveText(p Payload) string {
	switch p.Kind {
	case KindSequence:
		if len(p.Sequence) == 0 {
			return ""
		}
		return resolveText(p.Sequence[0])
	case KindKeyed:
		for _, prop := range keyedProps {
			if v, ok := p.Keyed[prop]; ok {
				return v
			}
		}
		return serializeKeyed(p.Keyed)
	default:
		return p.Text
	}
}

// serializeKeyed is the last-resort rendering of an object payload with
// none of the known properties. Keys are sorted so the fallback string is
// stable across calls.
func serializeKeyed(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte(':')
		b.WriteString(fields[k])
	}
	b.WriteByte('}')
	return b.String()
}

func extractCode(s string) string {
	s = strings.TrimSpace(s)

	if idx := strings.Index(s, "code="); idx >= 0 {
		return cutCodeValue(s[idx+len("code="):])
	}

	if looksLikeURL(s) {
		if u, err := url.Parse(s); err == nil {
			if code := u.Query().Get("code"); code != "" {
				return code
			}
		}
		return s
	}

	if apptcode.IsValid(s) {
		return s
	}

	return s
}

func looksLikeURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http") || strings.Contains(lower, "://")
}

// cutCodeValue takes everything up to the next delimiter that could not be
// part of a code embedded in a URL or free text.
func cutCodeValue(s string) string {
	end := len(s)
	for i, r := range s {
		if r == '&' || r == '"' || r == '\'' || r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			end = i
			break
		}
	}
	return s[:end]
}
