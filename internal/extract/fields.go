package extract

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Fields is a decoded JSON object with type-checked accessors. Every accessor
// returns the supplied default when the key is missing or has the wrong type.
type Fields map[string]any

func (f Fields) Has(key string) bool {
	_, ok := f[key]
	return ok
}

// String returns a non-empty string value or def.
func (f Fields) String(key, def string) string {
	s, ok := f[key].(string)
	if !ok || s == "" {
		return def
	}
	return s
}

// OneOf returns the string value if it is one of allowed, else def.
func (f Fields) OneOf(key, def string, allowed ...string) string {
	s, ok := f[key].(string)
	if !ok {
		return def
	}
	for _, a := range allowed {
		if s == a {
			return s
		}
	}
	return def
}

func (f Fields) Bool(key string, def bool) bool {
	b, ok := f[key].(bool)
	if !ok {
		return def
	}
	return b
}

// Number accepts JSON numbers and numeric strings.
func (f Fields) Number(key string, def float64) float64 {
	switch v := f[key].(type) {
	case float64:
		return v
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err == nil {
			return n
		}
	}
	return def
}

// Decimal accepts JSON numbers and numeric strings.
func (f Fields) Decimal(key string, def decimal.Decimal) decimal.Decimal {
	switch v := f[key].(type) {
	case float64:
		return decimal.NewFromFloat(v)
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err == nil {
			return d
		}
	}
	return def
}

// Strings returns the string elements of an array value. Non-string elements
// are dropped; a missing or non-array value yields def.
func (f Fields) Strings(key string, def []string) []string {
	list, ok := f[key].([]any)
	if !ok {
		return def
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func (f Fields) Fields(key string) Fields {
	m, ok := f[key].(map[string]any)
	if !ok {
		return Fields{}
	}
	return Fields(m)
}

// List returns the object elements of an array value.
func (f Fields) List(key string) []Fields {
	list, ok := f[key].([]any)
	if !ok {
		return nil
	}
	return objects(list)
}
