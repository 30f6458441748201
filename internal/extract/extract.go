// Package extract pulls a JSON payload out of free model text.
package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
)

var (
	ErrNoJSON = errors.New("no JSON found")
	ErrParse  = errors.New("parse failed")
	ErrShape  = errors.New("unexpected JSON shape")
)

// Greedy spans: first opening bracket to last closing bracket.
var (
	objectSpan = regexp.MustCompile(`\{[\s\S]*\}`)
	arraySpan  = regexp.MustCompile(`\[[\s\S]*\]`)
	anySpan    = regexp.MustCompile(`[\[{][\s\S]*[\]}]`)
)

// Object extracts the widest {...} span and decodes it as an object.
func Object(text string) Result[Fields] {
	span := objectSpan.FindString(text)
	if span == "" {
		return Fail[Fields](ErrNoJSON)
	}
	v, err := decode(span)
	if err != nil {
		return Fail[Fields](err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return Fail[Fields](fmt.Errorf("%w: want object, got %T", ErrShape, v))
	}
	return Ok(Fields(obj))
}

// Array extracts the widest [...] span and decodes it as an array of objects.
// Non-object elements are skipped.
func Array(text string) Result[[]Fields] {
	span := arraySpan.FindString(text)
	if span == "" {
		return Fail[[]Fields](ErrNoJSON)
	}
	v, err := decode(span)
	if err != nil {
		return Fail[[]Fields](err)
	}
	list, ok := v.([]any)
	if !ok {
		return Fail[[]Fields](fmt.Errorf("%w: want array, got %T", ErrShape, v))
	}
	return Ok(objects(list))
}

// Any extracts the widest span opened by [ or { and closed by ] or }.
func Any(text string) Result[any] {
	span := anySpan.FindString(text)
	if span == "" {
		return Fail[any](ErrNoJSON)
	}
	v, err := decode(span)
	if err != nil {
		return Fail[any](err)
	}
	return Ok(v)
}

// Into decodes the widest object or array span into a typed value.
func Into[T any](text string) Result[T] {
	span := anySpan.FindString(text)
	if span == "" {
		return Fail[T](ErrNoJSON)
	}
	var out T
	if err := json.Unmarshal([]byte(span), &out); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return Fail[T](fmt.Errorf("%w: %v", ErrShape, err))
		}
		return Fail[T](fmt.Errorf("%w: %v", ErrParse, err))
	}
	return Ok(out)
}

func decode(span string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(span), &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return v, nil
}

func objects(list []any) []Fields {
	out := make([]Fields, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			out = append(out, Fields(m))
		}
	}
	return out
}
