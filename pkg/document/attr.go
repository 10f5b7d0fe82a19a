package document

import (
	"strconv"
	"strings"
)

// Attributes is a string-keyed bag of raw attribute values as delivered by
// the parser: numbers, strings, colour tokens, and lists of either. Typed
// accessors convert on demand; a failed conversion reads as "not present".
type Attributes map[string]any

// Has reports whether key is present.
func (a Attributes) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// Float returns the value of key as a float64.
func (a Attributes) Float(key string) (float64, bool) {
	v, ok := a[key]
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

// FloatOr returns the value of key as a float64, or def when absent.
func (a Attributes) FloatOr(key string, def float64) float64 {
	if f, ok := a.Float(key); ok {
		return f
	}
	return def
}

// Floats returns the value of key as a slice of float64. Scalars become a
// one-element slice; space-separated strings are split and parsed.
func (a Attributes) Floats(key string) ([]float64, bool) {
	v, ok := a[key]
	if !ok {
		return nil, false
	}
	switch t := v.(type) {
	case []any:
		out := make([]float64, 0, len(t))
		for _, e := range t {
			f, ok := toFloat(e)
			if !ok {
				return nil, false
			}
			out = append(out, f)
		}
		return out, true
	case string:
		fields := strings.Fields(t)
		out := make([]float64, 0, len(fields))
		for _, f := range fields {
			n, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, false
			}
			out = append(out, n)
		}
		return out, len(out) > 0
	default:
		f, ok := toFloat(v)
		if !ok {
			return nil, false
		}
		return []float64{f}, true
	}
}

// Ints returns the value of key as a slice of int.
func (a Attributes) Ints(key string) ([]int, bool) {
	fs, ok := a.Floats(key)
	if !ok {
		return nil, false
	}
	out := make([]int, len(fs))
	for i, f := range fs {
		out[i] = int(f)
	}
	return out, true
}

// String returns the value of key as a string.
func (a Attributes) String(key string) (string, bool) {
	v, ok := a[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// StringOr returns the value of key as a string, or def when absent.
func (a Attributes) StringOr(key, def string) string {
	if s, ok := a.String(key); ok {
		return s
	}
	return def
}

// Strings returns the value of key as a list of strings. A scalar string
// becomes a one-element list; this is how multi-line text is carried.
func (a Attributes) Strings(key string) ([]string, bool) {
	v, ok := a[key]
	if !ok {
		return nil, false
	}
	switch t := v.(type) {
	case string:
		return []string{t}, true
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

// Clone returns an independent shallow copy of the attribute bag. Values
// that are lists are copied as well, so mutation of one copy never shows
// through another.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	out := make(Attributes, len(a))
	for k, v := range a {
		if lst, ok := v.([]any); ok {
			cp := make([]any, len(lst))
			copy(cp, lst)
			out[k] = cp
			continue
		}
		out[k] = v
	}
	return out
}

// Merged returns a new bag containing a's entries overridden by over's on
// identical keys. Neither input is modified.
func (a Attributes) Merged(over Attributes) Attributes {
	out := a.Clone()
	if out == nil {
		out = Attributes{}
	}
	for k, v := range over.Clone() {
		out[k] = v
	}
	return out
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
