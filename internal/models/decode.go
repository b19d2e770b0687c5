package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/diewo77/go-crm/internal/records"
	"github.com/diewo77/go-crm/validation"
	"github.com/spf13/cast"
)

// DateLayout is the calendar-date format the backend stores.
const DateLayout = "2006-01-02"

// first returns the value of the first present key among alternate spellings.
func first(r records.Record, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func str(r records.Record, keys ...string) string {
	v, ok := first(r, keys...)
	if !ok {
		return ""
	}
	if s, isStr := v.(string); isStr {
		return s
	}
	return fmt.Sprint(v)
}

func num(r records.Record, keys ...string) float64 {
	v, ok := first(r, keys...)
	if !ok {
		return 0
	}
	return cast.ToFloat64(v)
}

// ref resolves a reference that may arrive as a bare id or as a lookup
// object {"Id": 3, "Name": "Acme"}.
func ref(r records.Record, keys ...string) (id int, name string) {
	v, ok := first(r, keys...)
	if !ok {
		return 0, ""
	}
	if m, isMap := v.(map[string]any); isMap {
		return cast.ToInt(m["Id"]), cast.ToString(m["Name"])
	}
	if rec, isRec := v.(records.Record); isRec {
		return cast.ToInt(rec["Id"]), cast.ToString(rec["Name"])
	}
	return cast.ToInt(v), ""
}

// stamp parses a date or timestamp field; nil when absent or unparsable.
func stamp(r records.Record, keys ...string) *time.Time {
	s := strings.TrimSpace(str(r, keys...))
	if s == "" {
		return nil
	}
	t, err := validation.ParseTime(s)
	if err != nil {
		return nil
	}
	return &t
}
