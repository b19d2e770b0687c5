package store

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/diewo77/go-crm/internal/records"
	"github.com/diewo77/go-crm/validation"
	"github.com/spf13/cast"
)

// check validates one incoming record against the table schema and returns
// the coerced column values. On update "Id" is the key and is skipped.
func (s *Store) check(ctx context.Context, sch *schema, in records.Record, partial bool) (records.Record, []records.FieldError) {
	var errs []records.FieldError
	out := records.Record{}
	for name, raw := range in {
		if partial && name == "Id" {
			continue
		}
		c, ok := sch.column(name)
		if !ok {
			errs = append(errs, records.FieldError{FieldLabel: name, Message: "Field does not exist"})
			continue
		}
		if c.readonly {
			errs = append(errs, records.FieldError{FieldLabel: c.label, Message: "Field is read-only"})
			continue
		}
		v, msg := coerce(c, raw)
		if msg != "" {
			errs = append(errs, records.FieldError{FieldLabel: c.label, Message: msg})
			continue
		}
		if c.kind == kindRef && v != nil {
			found, err := s.exists(ctx, c.ref, v.(int))
			if err != nil {
				errs = append(errs, records.FieldError{FieldLabel: c.label, Message: err.Error()})
				continue
			}
			if !found {
				errs = append(errs, records.FieldError{FieldLabel: c.label, Message: "Referenced record does not exist"})
				continue
			}
		}
		out[name] = v
	}
	for _, c := range sch.columns {
		if !c.required {
			continue
		}
		raw, present := in[c.name]
		if partial && !present {
			continue
		}
		if validation.Blank(raw) {
			errs = append(errs, records.FieldError{FieldLabel: c.label, Message: "Field is required"})
		}
	}
	return out, errs
}

// coerce converts raw to the column's storage type. A non-empty message
// reports a type mismatch.
func coerce(c column, raw any) (any, string) {
	if raw == nil {
		return nil, ""
	}
	switch c.kind {
	case kindText:
		s, ok := raw.(string)
		if !ok {
			return nil, "Expected a text value"
		}
		if len(c.enum) > 0 && s != "" {
			for _, e := range c.enum {
				if s == e {
					return s, ""
				}
			}
			return nil, "Invalid picklist value: " + s
		}
		return s, ""
	case kindInt, kindRef:
		n, ok := integer(raw)
		if !ok {
			return nil, "Expected a whole number"
		}
		if c.kind == kindRef && n <= 0 {
			return nil, "Invalid reference"
		}
		return n, ""
	case kindFloat:
		if !isNumber(raw) {
			return nil, "Expected a number"
		}
		return cast.ToFloat64(raw), ""
	case kindDate, kindDateTime:
		s, ok := raw.(string)
		if !ok {
			return nil, "Expected a date"
		}
		if strings.TrimSpace(s) == "" {
			return nil, ""
		}
		t, err := validation.ParseTime(s)
		if err != nil {
			return nil, "Invalid date format"
		}
		if c.kind == kindDate {
			return t.Format(time.DateOnly), ""
		}
		return t.UTC().Format(time.RFC3339), ""
	}
	return raw, ""
}

func isNumber(raw any) bool {
	switch raw.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, json.Number:
		return true
	}
	return false
}

// integer accepts integral numbers only; strings and booleans are mismatches.
func integer(raw any) (int, bool) {
	if !isNumber(raw) {
		return 0, false
	}
	f := cast.ToFloat64(raw)
	if f != math.Trunc(f) {
		return 0, false
	}
	return cast.ToInt(raw), true
}

// recordID reads an id as the database returns it.
func recordID(raw any) (int, bool) {
	id, err := validation.ParseID(raw)
	return id, err == nil
}
