package validation

import (
	"encoding/json"
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jinzhu/now"
	"github.com/spf13/cast"
)

// Violations maps a field name to a user-facing message.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Add records msg for field unless the field already failed.
func (v Violations) Add(field, msg string) {
	if _, ok := v[field]; !ok {
		v[field] = msg
	}
}

// Fields returns the failing field names, sorted.
func (v Violations) Fields() []string {
	out := make([]string, 0, len(v))
	for f := range v {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Messages returns the messages ordered by field name.
func (v Violations) Messages() []string {
	out := make([]string, 0, len(v))
	for _, f := range v.Fields() {
		out = append(out, v[f])
	}
	return out
}

// Blank reports whether a raw input value carries nothing.
func Blank(raw any) bool {
	switch x := raw.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	}
	return false
}

// plain trims strings and turns decoded JSON numbers into their text so the
// numeric casts see a single shape.
func plain(raw any) any {
	switch x := raw.(type) {
	case string:
		return strings.TrimSpace(x)
	case json.Number:
		return x.String()
	}
	return raw
}

// Integer reads a whole number. Strings and JSON numbers are parsed in base
// 10 so "010" is 10 and "0x2A" is rejected; floats must have no fraction.
func Integer(raw any) (int, error) {
	switch x := plain(raw).(type) {
	case nil, bool:
		return 0, errors.New("not_a_number")
	case string:
		return strconv.Atoi(x)
	case float64:
		if math.IsInf(x, 0) || x != math.Trunc(x) {
			return 0, errors.New("not_a_whole_number")
		}
	case float32:
		if float64(x) != math.Trunc(float64(x)) {
			return 0, errors.New("not_a_whole_number")
		}
	}
	return cast.ToIntE(raw)
}

// Basic validators
func Required(field string, raw any, msg string, v Violations) bool {
	if Blank(raw) {
		v.Add(field, msg)
		return false
	}
	return true
}

// ID parses a positive integer identifier from any numeric-like input.
func ID(field string, raw any, msg string, v Violations) (int, bool) {
	id, err := ParseID(raw)
	if err != nil {
		v.Add(field, msg)
		return 0, false
	}
	return id, true
}

// ParseID coerces ints, integral floats and base-10 numeric strings to a
// positive int.
func ParseID(raw any) (int, error) {
	id, err := Integer(raw)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, errors.New("must_be_positive")
	}
	return id, nil
}

// PositiveFloat parses raw as a float greater than zero.
func PositiveFloat(field string, raw any, invalidMsg, nonPositiveMsg string, v Violations) (float64, bool) {
	if _, ok := raw.(bool); ok {
		v.Add(field, invalidMsg)
		return 0, false
	}
	raw = plain(raw)
	f, err := cast.ToFloat64E(raw)
	if err != nil {
		v.Add(field, invalidMsg)
		return 0, false
	}
	if f <= 0 {
		v.Add(field, nonPositiveMsg)
		return 0, false
	}
	return f, true
}

// NonNegativeInt parses raw as an integer >= 0.
func NonNegativeInt(field string, raw any, msg string, v Violations) (int, bool) {
	n, err := Integer(raw)
	if err != nil || n < 0 {
		v.Add(field, msg)
		return 0, false
	}
	return n, true
}

// Date parses raw as a calendar date or timestamp.
func Date(field string, raw any, msg string, v Violations) (time.Time, bool) {
	s, ok := raw.(string)
	if !ok {
		v.Add(field, msg)
		return time.Time{}, false
	}
	t, err := ParseTime(s)
	if err != nil {
		v.Add(field, msg)
		return time.Time{}, false
	}
	return t, true
}

// After requires end to be strictly later than start.
func After(field string, start, end time.Time, msg string, v Violations) {
	if !end.After(start) {
		v.Add(field, msg)
	}
}

// OneOf requires value to be one of allowed.
func OneOf(field, value string, allowed []string, msg string, v Violations) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	v.Add(field, msg)
}

// ParseTime accepts RFC3339 timestamps and the looser layouts understood by jinzhu/now.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty_date")
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, s, time.UTC); err == nil {
		return t, nil
	}
	return now.Parse(s)
}
