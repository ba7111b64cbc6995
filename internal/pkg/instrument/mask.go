package instrument

import (
	"encoding/json"
	"log/slog"
	"strings"
)

const masked = "***"

// Masker hides the values of sensitive keys (codes, emails, tokens) in log
// attributes and decoded JSON payloads. Keys compare case-insensitively.
type Masker map[string]struct{}

// NewMasker builds a Masker from field names; blanks are skipped.
func NewMasker(fields []string) Masker {
	m := make(Masker, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(strings.ToLower(f))
		if f != "" {
			m[f] = struct{}{}
		}
	}
	return m
}

// Has reports whether key should be masked.
func (m Masker) Has(key string) bool {
	_, ok := m[strings.ToLower(key)]
	return ok
}

// Data walks maps and slices produced by encoding/json and masks matching keys.
func (m Masker) Data(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			if m.Has(k) {
				out[k] = masked
				continue
			}
			out[k] = m.Data(inner)
		}
		return out
	case map[string]string:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			if m.Has(k) {
				out[k] = masked
				continue
			}
			out[k] = inner
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = m.Data(inner)
		}
		return out
	default:
		return v
	}
}

// JSON masks a JSON document. ok is false when payload is not an object or array.
func (m Masker) JSON(payload []byte) (string, bool) {
	if len(payload) == 0 || (payload[0] != '{' && payload[0] != '[') {
		return "", false
	}

	var doc any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return "", false
	}

	out, err := json.Marshal(m.Data(doc))
	if err != nil {
		return "", false
	}
	return string(out), true
}

// Attr masks a single slog attribute, descending into groups.
func (m Masker) Attr(a slog.Attr) slog.Attr {
	if m.Has(a.Key) {
		return slog.String(a.Key, masked)
	}

	switch a.Value.Kind() {
	case slog.KindGroup:
		group := a.Value.Group()
		out := make([]slog.Attr, len(group))
		for i, ga := range group {
			out[i] = m.Attr(ga)
		}
		a.Value = slog.GroupValue(out...)
	case slog.KindString:
		if s, ok := m.JSON([]byte(a.Value.String())); ok {
			a.Value = slog.StringValue(s)
		}
	case slog.KindAny:
		switch v := a.Value.Any().(type) {
		case map[string]any, map[string]string, []any:
			a.Value = slog.AnyValue(m.Data(v))
		case []byte:
			if s, ok := m.JSON(v); ok {
				a.Value = slog.StringValue(s)
			}
		}
	}

	return a
}
