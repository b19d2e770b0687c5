package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/diewo77/go-crm/internal/notify"
	"github.com/diewo77/go-crm/internal/records"
	"github.com/diewo77/go-crm/validation"
)

const (
	opFetch  = "fetch"
	opGet    = "get"
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"
)

// Fields is the loosely shaped input coming from a form or a JSON body.
// Each entity adapts it into a backend record exactly once.
type Fields map[string]any

// lookup returns the first present key among alternate spellings.
func (f Fields) lookup(keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := f[k]; ok {
			return v, true
		}
	}
	return nil, false
}

// text returns the first present key as a trimmed string.
func (f Fields) text(keys ...string) (string, bool) {
	v, ok := f.lookup(keys...)
	if !ok || v == nil {
		return "", ok
	}
	if s, isStr := v.(string); isStr {
		return strings.TrimSpace(s), true
	}
	return strings.TrimSpace(fmt.Sprint(v)), true
}

// table describes one backend table as seen by the access layer.
type table struct {
	name   string
	entity string
	fields []string
}

// access holds what every entity service shares: the injected backend,
// the fallback notifier and the clock.
type access struct {
	backend  records.Backend
	notifier notify.Notifier
	now      func() time.Time
}

func (a *access) notify(ctx context.Context) notify.Notifier {
	return notify.From(ctx, a.notifier)
}

// fail reports err to the user and returns it unchanged.
// Per-record write messages are reported while results are walked.
func (a *access) fail(ctx context.Context, t table, err error) error {
	log.Printf("[%s] %v", t.name, err)
	n := a.notify(ctx)
	var (
		ve *ValidationError
		te *TransportError
		nf *NotFoundError
		we *WriteError
	)
	switch {
	case errors.As(err, &ve):
		for _, msg := range ve.Violations.Messages() {
			n.Error(msg)
		}
	case errors.As(err, &te), errors.As(err, &nf):
		n.Error(err.Error())
	case errors.As(err, &we):
		if len(we.Messages) == 0 {
			n.Error(we.Error())
		}
	case errors.Is(err, ErrTimerRunning), errors.Is(err, ErrNoActiveTimer):
		n.Error(timerMessage(err))
	}
	return err
}

// checkCall applies the top-level tier of the envelope.
func (a *access) checkCall(ctx context.Context, op string, t table, env *records.Envelope, err error) error {
	if err != nil {
		return a.fail(ctx, t, &TransportError{Op: op, Table: t.name, Message: err.Error(), Err: err})
	}
	if env == nil {
		return a.fail(ctx, t, &TransportError{Op: op, Table: t.name, Message: "empty response from backend"})
	}
	if !env.Success {
		return a.fail(ctx, t, &TransportError{Op: op, Table: t.name, Message: env.Message})
	}
	return nil
}

func (a *access) parseID(ctx context.Context, t table, raw any) (int, error) {
	v := make(validation.Violations)
	id, ok := validation.ID("Id", raw, "Invalid "+strings.ToLower(t.entity)+" ID", v)
	if !ok {
		return 0, a.fail(ctx, t, &ValidationError{Entity: t.entity, Violations: v})
	}
	return id, nil
}

func (a *access) fetch(ctx context.Context, t table, params records.FetchParams) ([]records.Record, error) {
	if len(params.Fields) == 0 {
		params.Fields = records.Select(t.fields...).Fields
	}
	env, err := a.backend.FetchRecords(ctx, t.name, params)
	if err := a.checkCall(ctx, opFetch, t, env, err); err != nil {
		return nil, err
	}
	recs, err := env.Records()
	if err != nil {
		return nil, a.fail(ctx, t, &TransportError{Op: opFetch, Table: t.name, Message: err.Error(), Err: err})
	}
	return recs, nil
}

func (a *access) getRecord(ctx context.Context, t table, id int) (records.Record, error) {
	env, err := a.backend.GetRecordByID(ctx, t.name, id, records.Select(t.fields...))
	if err := a.checkCall(ctx, opGet, t, env, err); err != nil {
		return nil, err
	}
	rec, ok, err := env.Record()
	if err != nil {
		return nil, a.fail(ctx, t, &TransportError{Op: opGet, Table: t.name, Message: err.Error(), Err: err})
	}
	if !ok {
		return nil, a.fail(ctx, t, &NotFoundError{Entity: t.entity, ID: id})
	}
	return rec, nil
}

// write sends recs and applies the per-record tier. Failed records have each
// field error and message reported. It returns the successful records; err is
// a WriteError when none succeeded, a PartialWriteError when some failed.
func (a *access) write(ctx context.Context, op string, t table, recs []records.Record) ([]records.Record, error) {
	params := records.WriteParams{Records: recs}
	var (
		env *records.Envelope
		err error
	)
	if op == opCreate {
		env, err = a.backend.CreateRecord(ctx, t.name, params)
	} else {
		env, err = a.backend.UpdateRecord(ctx, t.name, params)
	}
	if err := a.checkCall(ctx, op, t, env, err); err != nil {
		return nil, err
	}

	succeeded, failed := env.Split()
	messages := a.reportFailed(ctx, t, op, failed)

	out := make([]records.Record, 0, len(succeeded))
	for _, r := range succeeded {
		out = append(out, r.Data)
	}
	if len(out) == 0 {
		return nil, a.fail(ctx, t, &WriteError{Op: op, Entity: t.entity, Messages: messages})
	}
	if len(failed) > 0 {
		return out, &PartialWriteError{Op: op, Entity: t.entity, Failed: len(failed), Total: len(env.Results), Messages: messages}
	}
	return out, nil
}

func (a *access) reportFailed(ctx context.Context, t table, op string, failed []records.Result) []string {
	if len(failed) == 0 {
		return nil
	}
	log.Printf("[%s] failed to %s %d records", t.name, op, len(failed))
	n := a.notify(ctx)
	var messages []string
	for _, r := range failed {
		for _, fe := range r.Errors {
			msg := fe.FieldLabel + ": " + fe.Message
			messages = append(messages, msg)
			n.Error(msg)
		}
		if r.Message != "" {
			messages = append(messages, r.Message)
			n.Error(r.Message)
		}
	}
	return messages
}

// remove deletes ids and reports true when at least one deletion succeeded.
func (a *access) remove(ctx context.Context, t table, ids []int) (bool, error) {
	env, err := a.backend.DeleteRecord(ctx, t.name, records.DeleteParams{RecordIDs: ids})
	if err := a.checkCall(ctx, opDelete, t, env, err); err != nil {
		return false, err
	}
	if env.Results == nil {
		return false, nil
	}
	succeeded, failed := env.Split()
	a.reportFailed(ctx, t, opDelete, failed)
	return len(succeeded) > 0, nil
}

// crud is the uniform record-access contract for one entity.
type crud[T any] struct {
	*access
	table     table
	decode    func(records.Record) T
	normalize func(f Fields, partial bool) (records.Record, validation.Violations)
}

// List returns every record of the entity, normalized.
func (c *crud[T]) List(ctx context.Context) ([]T, error) {
	return c.query(ctx, records.FetchParams{})
}

func (c *crud[T]) query(ctx context.Context, params records.FetchParams) ([]T, error) {
	recs, err := c.fetch(ctx, c.table, params)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(recs))
	for _, r := range recs {
		out = append(out, c.decode(r))
	}
	return out, nil
}

// Get returns one record by id; id may be any numeric-like value.
func (c *crud[T]) Get(ctx context.Context, id any) (*T, error) {
	n, err := c.parseID(ctx, c.table, id)
	if err != nil {
		return nil, err
	}
	rec, err := c.getRecord(ctx, c.table, n)
	if err != nil {
		return nil, err
	}
	v := c.decode(rec)
	return &v, nil
}

// Create validates f locally and writes exactly one record.
func (c *crud[T]) Create(ctx context.Context, f Fields) (*T, error) {
	rec, err := c.prepare(ctx, f, false)
	if err != nil {
		return nil, err
	}
	out, err := c.write(ctx, opCreate, c.table, []records.Record{rec})
	if len(out) == 0 {
		return nil, err
	}
	c.notify(ctx).Success(c.table.entity + " created successfully")
	v := c.decode(out[0])
	return &v, nil
}

// CreateMany writes several records in one call. With a PartialWriteError the
// successful records are still returned.
func (c *crud[T]) CreateMany(ctx context.Context, batch []Fields) ([]T, error) {
	recs := make([]records.Record, 0, len(batch))
	for _, f := range batch {
		rec, err := c.prepare(ctx, f, false)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	out, err := c.write(ctx, opCreate, c.table, recs)
	items := make([]T, 0, len(out))
	for _, r := range out {
		items = append(items, c.decode(r))
	}
	return items, err
}

// Update sends only the fields present in f, keyed by id.
func (c *crud[T]) Update(ctx context.Context, id any, f Fields) (*T, error) {
	n, err := c.parseID(ctx, c.table, id)
	if err != nil {
		return nil, err
	}
	rec, err := c.prepare(ctx, f, true)
	if err != nil {
		return nil, err
	}
	rec["Id"] = n
	out, err := c.write(ctx, opUpdate, c.table, []records.Record{rec})
	if len(out) == 0 {
		return nil, err
	}
	c.notify(ctx).Success(c.table.entity + " updated successfully")
	v := c.decode(out[0])
	return &v, nil
}

// Delete removes one record; see access.remove for the result semantics.
func (c *crud[T]) Delete(ctx context.Context, id any) (bool, error) {
	n, err := c.parseID(ctx, c.table, id)
	if err != nil {
		return false, err
	}
	ok, err := c.remove(ctx, c.table, []int{n})
	if ok {
		c.notify(ctx).Success(c.table.entity + " deleted successfully")
	}
	return ok, err
}

func (c *crud[T]) prepare(ctx context.Context, f Fields, partial bool) (records.Record, error) {
	rec, v := c.normalize(f, partial)
	if !v.Empty() {
		return nil, c.fail(ctx, c.table, &ValidationError{Entity: c.table.entity, Violations: v})
	}
	return rec, nil
}

// dateField parses an optional date among keys. A blank or absent value is
// not an error; an unparsable one records invalidMsg under field.
func dateField(f Fields, v validation.Violations, field, invalidMsg string, keys ...string) (time.Time, bool) {
	raw, ok := f.lookup(keys...)
	if !ok || validation.Blank(raw) {
		return time.Time{}, false
	}
	if t, isTime := raw.(time.Time); isTime {
		return t, true
	}
	return validation.Date(field, raw, invalidMsg, v)
}
