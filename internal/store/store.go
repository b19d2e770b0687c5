// Package store is a records.Backend on gorm. It reproduces the hosted
// backend's envelope, including per-record field errors, so the services
// can run against SQLite or PostgreSQL.
package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/diewo77/go-crm/auth"
	"github.com/diewo77/go-crm/internal/records"
	"github.com/mitchellh/mapstructure"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store implements records.Backend.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

func New(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

var _ records.Backend = (*Store)(nil)

func (s *Store) schema(table string) (*schema, *records.Envelope) {
	sch, ok := schemas[table]
	if !ok {
		return nil, records.Failure(fmt.Sprintf("Table %s does not exist", table))
	}
	return sch, nil
}

func (s *Store) FetchRecords(ctx context.Context, table string, params records.FetchParams) (*records.Envelope, error) {
	sch, fail := s.schema(table)
	if fail != nil {
		return fail, nil
	}
	cols, fail := selection(sch, params)
	if fail != nil {
		return fail, nil
	}
	q := s.db.WithContext(ctx).Model(sch.model()).Select(cols)
	q, fail = where(q, sch, params.Where)
	if fail != nil {
		return fail, nil
	}
	for _, o := range params.OrderBy {
		if _, ok := sch.column(o.FieldName); !ok {
			return unknownField(sch, o.FieldName), nil
		}
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: o.FieldName}, Desc: isDesc(o.SortType)})
	}
	if len(params.OrderBy) == 0 {
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: "Id"}})
	}
	if p := params.PagingInfo; p != nil {
		if p.Limit > 0 {
			q = q.Limit(p.Limit)
		}
		if p.Offset > 0 {
			q = q.Offset(p.Offset)
		}
	}

	var rows []map[string]any
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("fetch %s: %w", table, err)
	}
	out, err := s.expand(ctx, sch, rows)
	if err != nil {
		return nil, err
	}
	return records.WithData(out)
}

func (s *Store) GetRecordByID(ctx context.Context, table string, id int, params records.FetchParams) (*records.Envelope, error) {
	sch, fail := s.schema(table)
	if fail != nil {
		return fail, nil
	}
	cols, fail := selection(sch, params)
	if fail != nil {
		return fail, nil
	}
	rec, err := s.load(ctx, sch, id, cols)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return records.WithData(nil)
	}
	return records.WithData(rec)
}

func (s *Store) CreateRecord(ctx context.Context, table string, params records.WriteParams) (*records.Envelope, error) {
	sch, fail := s.schema(table)
	if fail != nil {
		return fail, nil
	}
	if len(params.Records) == 0 {
		return records.Failure("No records provided"), nil
	}
	env := &records.Envelope{Success: true}
	for _, in := range params.Records {
		env.Results = append(env.Results, s.create(ctx, sch, in))
	}
	return env, nil
}

func (s *Store) UpdateRecord(ctx context.Context, table string, params records.WriteParams) (*records.Envelope, error) {
	sch, fail := s.schema(table)
	if fail != nil {
		return fail, nil
	}
	if len(params.Records) == 0 {
		return records.Failure("No records provided"), nil
	}
	env := &records.Envelope{Success: true}
	for _, in := range params.Records {
		env.Results = append(env.Results, s.update(ctx, sch, in))
	}
	return env, nil
}

func (s *Store) DeleteRecord(ctx context.Context, table string, params records.DeleteParams) (*records.Envelope, error) {
	sch, fail := s.schema(table)
	if fail != nil {
		return fail, nil
	}
	if len(params.RecordIDs) == 0 {
		return records.Failure("No records provided"), nil
	}
	env := &records.Envelope{Success: true}
	for _, id := range params.RecordIDs {
		res := s.db.WithContext(ctx).Where(clause.Eq{Column: clause.Column{Name: "Id"}, Value: id}).Delete(sch.model())
		switch {
		case res.Error != nil:
			log.Printf("[store] delete %s %d: %v", sch.table, id, res.Error)
			env.Results = append(env.Results, records.Result{Success: false, Message: res.Error.Error()})
		case res.RowsAffected == 0:
			env.Results = append(env.Results, records.Result{Success: false, Message: "Record does not exist"})
		default:
			env.Results = append(env.Results, records.Result{Success: true, Data: records.Record{"Id": id}})
		}
	}
	return env, nil
}

func (s *Store) create(ctx context.Context, sch *schema, in records.Record) records.Result {
	values, errs := s.check(ctx, sch, in, false)
	if len(errs) > 0 {
		return records.Result{Success: false, Errors: errs}
	}
	stamp := s.now().UTC().Format(time.RFC3339)
	values["CreatedOn"] = stamp
	values["ModifiedOn"] = stamp
	if uid, ok := auth.UserIDFromContext(ctx); ok {
		values["Owner"] = uid
	}

	r := sch.model()
	if err := mapstructure.Decode(map[string]any(values), r); err != nil {
		return records.Result{Success: false, Message: err.Error()}
	}
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		log.Printf("[store] create %s: %v", sch.table, err)
		return records.Result{Success: false, Message: err.Error()}
	}
	return s.written(ctx, sch, r.key())
}

func (s *Store) update(ctx context.Context, sch *schema, in records.Record) records.Result {
	id, ok := recordID(in["Id"])
	if !ok {
		return records.Result{Success: false, Errors: []records.FieldError{{FieldLabel: "Id", Message: "Record Id is required"}}}
	}
	var n int64
	if err := s.db.WithContext(ctx).Model(sch.model()).Where(clause.Eq{Column: clause.Column{Name: "Id"}, Value: id}).Count(&n).Error; err != nil {
		return records.Result{Success: false, Message: err.Error()}
	}
	if n == 0 {
		return records.Result{Success: false, Message: "Record does not exist"}
	}

	values, errs := s.check(ctx, sch, in, true)
	if len(errs) > 0 {
		return records.Result{Success: false, Errors: errs}
	}
	values["ModifiedOn"] = s.now().UTC().Format(time.RFC3339)

	err := s.db.WithContext(ctx).Model(sch.model()).
		Where(clause.Eq{Column: clause.Column{Name: "Id"}, Value: id}).
		Updates(map[string]any(values)).Error
	if err != nil {
		log.Printf("[store] update %s %d: %v", sch.table, id, err)
		return records.Result{Success: false, Message: err.Error()}
	}
	return s.written(ctx, sch, id)
}

func (s *Store) written(ctx context.Context, sch *schema, id int) records.Result {
	rec, err := s.load(ctx, sch, id, sch.names())
	if err != nil {
		return records.Result{Success: false, Message: err.Error()}
	}
	if rec == nil {
		return records.Result{Success: false, Message: "Record does not exist"}
	}
	return records.Result{Success: true, Data: rec}
}

// load returns the record or nil when it does not exist.
func (s *Store) load(ctx context.Context, sch *schema, id int, cols []string) (records.Record, error) {
	var rows []map[string]any
	err := s.db.WithContext(ctx).Model(sch.model()).Select(cols).
		Where(clause.Eq{Column: clause.Column{Name: "Id"}, Value: id}).
		Limit(1).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("get %s %d: %w", sch.table, id, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	out, err := s.expand(ctx, sch, rows)
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// expand turns reference ids into lookup objects {"Id", "Name"}.
func (s *Store) expand(ctx context.Context, sch *schema, rows []map[string]any) ([]records.Record, error) {
	out := make([]records.Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, records.Record(r))
	}
	for _, c := range sch.columns {
		if c.kind != kindRef {
			continue
		}
		ids := map[int]bool{}
		for _, r := range out {
			if id, ok := recordID(r[c.name]); ok {
				ids[id] = true
			}
		}
		if len(ids) == 0 {
			continue
		}
		names, err := s.names(ctx, schemas[c.ref], ids)
		if err != nil {
			return nil, err
		}
		for _, r := range out {
			if id, ok := recordID(r[c.name]); ok {
				r[c.name] = map[string]any{"Id": id, "Name": names[id]}
			}
		}
	}
	return out, nil
}

func (s *Store) names(ctx context.Context, sch *schema, ids map[int]bool) (map[int]string, error) {
	values := make([]any, 0, len(ids))
	for id := range ids {
		values = append(values, id)
	}
	var rows []map[string]any
	err := s.db.WithContext(ctx).Model(sch.model()).Select([]string{"Id", "Name"}).
		Where(clause.IN{Column: clause.Column{Name: "Id"}, Values: values}).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", sch.table, err)
	}
	out := make(map[int]string, len(rows))
	for _, r := range rows {
		id, _ := recordID(r["Id"])
		name, _ := r["Name"].(string)
		out[id] = name
	}
	return out, nil
}

func (s *Store) exists(ctx context.Context, table string, id int) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(schemas[table].model()).
		Where(clause.Eq{Column: clause.Column{Name: "Id"}, Value: id}).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("lookup %s %d: %w", table, id, err)
	}
	return n > 0, nil
}

func selection(sch *schema, params records.FetchParams) ([]string, *records.Envelope) {
	names := params.FieldNames()
	if len(names) == 0 {
		return sch.names(), nil
	}
	seen := map[string]bool{"Id": true}
	cols := []string{"Id"}
	for _, n := range names {
		if _, ok := sch.column(n); !ok {
			return nil, unknownField(sch, n)
		}
		if !seen[n] {
			seen[n] = true
			cols = append(cols, n)
		}
	}
	return cols, nil
}

func unknownField(sch *schema, name string) *records.Envelope {
	return records.Failure(fmt.Sprintf("Field %s does not exist on table %s", name, sch.table))
}
