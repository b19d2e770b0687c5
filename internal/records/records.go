// Package records defines the wire contract shared by every record backend:
// the request parameter objects and the two-tier response envelope.
package records

import (
	"context"
	"encoding/json"
	"fmt"
)

// Record is a single backend row keyed by backend field name.
type Record map[string]any

// Backend is the record store the access layer talks to.
// Every call maps to exactly one round trip.
type Backend interface {
	FetchRecords(ctx context.Context, table string, params FetchParams) (*Envelope, error)
	GetRecordByID(ctx context.Context, table string, id int, params FetchParams) (*Envelope, error)
	CreateRecord(ctx context.Context, table string, params WriteParams) (*Envelope, error)
	UpdateRecord(ctx context.Context, table string, params WriteParams) (*Envelope, error)
	DeleteRecord(ctx context.Context, table string, params DeleteParams) (*Envelope, error)
}

// Field names one stored field to return.
type Field struct {
	Field FieldName `json:"field"`
}

// FieldName wraps the name the way the backend expects it: {"field":{"Name":"email"}}.
type FieldName struct {
	Name string `json:"Name"`
}

// Operators supported in Condition.
const (
	OpEqualTo     = "EqualTo"
	OpNotEqualTo  = "NotEqualTo"
	OpGreaterThan = "GreaterThan"
	OpLessThan    = "LessThan"
)

// Condition filters fetched records. Values are OR-ed together.
type Condition struct {
	FieldName string `json:"FieldName"`
	Operator  string `json:"Operator"`
	Values    []any  `json:"Values"`
}

// Order sorts fetched records.
type Order struct {
	FieldName string `json:"fieldName"`
	SortType  string `json:"sorttype"` // ASC or DESC
}

// Paging limits fetched records.
type Paging struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// FetchParams is the read-path descriptor.
type FetchParams struct {
	Fields     []Field     `json:"fields"`
	Where      []Condition `json:"where,omitempty"`
	OrderBy    []Order     `json:"orderBy,omitempty"`
	PagingInfo *Paging     `json:"pagingInfo,omitempty"`
}

// Select builds a FetchParams selecting the given fields.
func Select(names ...string) FetchParams {
	fields := make([]Field, 0, len(names))
	for _, n := range names {
		fields = append(fields, Field{Field: FieldName{Name: n}})
	}
	return FetchParams{Fields: fields}
}

// FieldNames returns the selected field names in order.
func (p FetchParams) FieldNames() []string {
	out := make([]string, 0, len(p.Fields))
	for _, f := range p.Fields {
		out = append(out, f.Field.Name)
	}
	return out
}

// WriteParams is the create/update payload.
type WriteParams struct {
	Records []Record `json:"records"`
}

// DeleteParams lists the ids to delete.
type DeleteParams struct {
	RecordIDs []int `json:"RecordIds"`
}

// FieldError is a per-field failure inside a Result.
type FieldError struct {
	FieldLabel string `json:"fieldLabel"`
	Message    string `json:"message"`
}

// Result is the outcome for one record of a write or delete call.
type Result struct {
	Success bool         `json:"success"`
	Data    Record       `json:"data,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
	Message string       `json:"message,omitempty"`
}

// Envelope is returned by every backend call.
// Data is a list on fetch, a single object (or null) on get.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Results []Result        `json:"results,omitempty"`
}

// Failure builds a top-level failed envelope.
func Failure(msg string) *Envelope {
	return &Envelope{Success: false, Message: msg}
}

// WithData builds a successful envelope carrying v as data.
func WithData(v any) (*Envelope, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode data: %w", err)
	}
	return &Envelope{Success: true, Data: raw}, nil
}

// Records decodes Data as a list. Missing or null data is an empty list.
func (e *Envelope) Records() ([]Record, error) {
	if isNull(e.Data) {
		return []Record{}, nil
	}
	var out []Record
	if err := json.Unmarshal(e.Data, &out); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return out, nil
}

// Record decodes Data as one record; ok is false when data is absent or empty.
func (e *Envelope) Record() (rec Record, ok bool, err error) {
	if isNull(e.Data) {
		return nil, false, nil
	}
	if err := json.Unmarshal(e.Data, &rec); err != nil {
		return nil, false, fmt.Errorf("decode record: %w", err)
	}
	return rec, len(rec) > 0, nil
}

// Split separates successful and failed results.
func (e *Envelope) Split() (succeeded, failed []Result) {
	for _, r := range e.Results {
		if r.Success {
			succeeded = append(succeeded, r)
		} else {
			failed = append(failed, r)
		}
	}
	return succeeded, failed
}

func isNull(raw json.RawMessage) bool {
	s := string(raw)
	return len(raw) == 0 || s == "null" || s == "{}" || s == "[]"
}
