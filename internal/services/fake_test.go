package services

import (
	"context"
	"sync"

	"github.com/diewo77/go-crm/internal/records"
)

type call struct {
	method string
	table  string
	fetch  records.FetchParams
	write  records.WriteParams
	del    records.DeleteParams
	id     int
}

// fakeBackend records every call and replies with the scripted envelope.
type fakeBackend struct {
	mu    sync.Mutex
	calls []call
	env   *records.Envelope
	err   error
}

func (f *fakeBackend) reply(c call) (*records.Envelope, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	return f.env, f.err
}

func (f *fakeBackend) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeBackend) last() call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func (f *fakeBackend) FetchRecords(_ context.Context, table string, p records.FetchParams) (*records.Envelope, error) {
	return f.reply(call{method: "fetch", table: table, fetch: p})
}

func (f *fakeBackend) GetRecordByID(_ context.Context, table string, id int, p records.FetchParams) (*records.Envelope, error) {
	return f.reply(call{method: "get", table: table, id: id, fetch: p})
}

func (f *fakeBackend) CreateRecord(_ context.Context, table string, p records.WriteParams) (*records.Envelope, error) {
	return f.reply(call{method: "create", table: table, write: p})
}

func (f *fakeBackend) UpdateRecord(_ context.Context, table string, p records.WriteParams) (*records.Envelope, error) {
	return f.reply(call{method: "update", table: table, write: p})
}

func (f *fakeBackend) DeleteRecord(_ context.Context, table string, p records.DeleteParams) (*records.Envelope, error) {
	return f.reply(call{method: "delete", table: table, del: p})
}

func ok(data records.Record) *records.Envelope {
	return &records.Envelope{Success: true, Results: []records.Result{{Success: true, Data: data}}}
}
