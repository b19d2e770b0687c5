package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/diewo77/go-crm/auth"
	"github.com/diewo77/go-crm/internal/records"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(Models()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	s := New(db)
	s.now = func() time.Time { return time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC) }
	return s
}

func createOne(t *testing.T, s *Store, table string, rec records.Record) records.Record {
	t.Helper()
	env, err := s.CreateRecord(context.Background(), table, records.WriteParams{Records: []records.Record{rec}})
	if err != nil {
		t.Fatalf("create %s: %v", table, err)
	}
	if !env.Success || len(env.Results) != 1 || !env.Results[0].Success {
		t.Fatalf("create %s failed: %+v", table, env)
	}
	return env.Results[0].Data
}

func TestCreateAndGetClient(t *testing.T) {
	s := setupStore(t)
	ctx := auth.WithUserID(context.Background(), 7)
	env, err := s.CreateRecord(ctx, "client", records.WriteParams{Records: []records.Record{{"Name": "Acme", "email": "a@acme.com", "status": "active"}}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	created := env.Results[0].Data
	id, ok := recordID(created["Id"])
	if !ok {
		t.Fatalf("expected id in %+v", created)
	}
	if owner, _ := recordID(created["Owner"]); owner != 7 {
		t.Fatalf("expected owner 7 got %v", created["Owner"])
	}
	if created["CreatedOn"] != "2024-03-05T10:00:00Z" {
		t.Fatalf("unexpected CreatedOn %v", created["CreatedOn"])
	}

	got, err := s.GetRecordByID(context.Background(), "client", id, records.Select("Name", "email", "status"))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	rec, found, err := got.Record()
	if err != nil || !found {
		t.Fatalf("expected record, found=%v err=%v", found, err)
	}
	if rec["Name"] != "Acme" || rec["email"] != "a@acme.com" || rec["status"] != "active" {
		t.Fatalf("unexpected record %+v", rec)
	}
	if _, ok := rec["notes"]; ok {
		t.Fatalf("unselected field returned: %+v", rec)
	}
}

func TestGetMissingReturnsNullData(t *testing.T) {
	s := setupStore(t)
	env, err := s.GetRecordByID(context.Background(), "client", 99, records.FetchParams{})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !env.Success {
		t.Fatalf("expected success envelope")
	}
	if _, found, _ := env.Record(); found {
		t.Fatalf("expected no data")
	}
}

func TestCreateReportsFieldErrors(t *testing.T) {
	s := setupStore(t)
	env, err := s.CreateRecord(context.Background(), "project", records.WriteParams{Records: []records.Record{
		{"Name": "Site", "client_id": 404, "status": "archived", "budget": "lots", "Owner": 1, "colour": "red"},
	}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !env.Success {
		t.Fatalf("call-level failure not expected: %s", env.Message)
	}
	res := env.Results[0]
	if res.Success {
		t.Fatalf("expected record failure")
	}
	want := map[string]string{
		"Client": "Referenced record does not exist",
		"Status": "Invalid picklist value: archived",
		"Budget": "Expected a number",
		"Owner":  "Field is read-only",
		"colour": "Field does not exist",
	}
	got := map[string]string{}
	for _, fe := range res.Errors {
		got[fe.FieldLabel] = fe.Message
	}
	for label, msg := range want {
		if got[label] != msg {
			t.Fatalf("field %s: expected %q got %q (all: %+v)", label, msg, got[label], res.Errors)
		}
	}
}

func TestCreateMissingRequired(t *testing.T) {
	s := setupStore(t)
	env, _ := s.CreateRecord(context.Background(), "client", records.WriteParams{Records: []records.Record{{"email": "x@y.z"}}})
	res := env.Results[0]
	if res.Success || len(res.Errors) != 1 || res.Errors[0].FieldLabel != "Name" || res.Errors[0].Message != "Field is required" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestBatchCreatePartial(t *testing.T) {
	s := setupStore(t)
	env, err := s.CreateRecord(context.Background(), "client", records.WriteParams{Records: []records.Record{
		{"Name": "Good"},
		{"Name": ""},
	}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	ok, failed := env.Split()
	if len(ok) != 1 || len(failed) != 1 {
		t.Fatalf("expected 1 success 1 failure got %d/%d", len(ok), len(failed))
	}
}

func TestEmptyWriteIsCallFailure(t *testing.T) {
	s := setupStore(t)
	env, err := s.CreateRecord(context.Background(), "client", records.WriteParams{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if env.Success || env.Message != "No records provided" {
		t.Fatalf("unexpected envelope %+v", env)
	}
}

func TestUnknownTable(t *testing.T) {
	s := setupStore(t)
	env, err := s.FetchRecords(context.Background(), "nope", records.FetchParams{})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if env.Success || env.Message != "Table nope does not exist" {
		t.Fatalf("unexpected envelope %+v", env)
	}
}

func TestUpdateIsPartialAndStampsModifiedOn(t *testing.T) {
	s := setupStore(t)
	created := createOne(t, s, "client", records.Record{"Name": "Acme", "company": "Acme Inc"})
	id, _ := recordID(created["Id"])

	s.now = func() time.Time { return time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC) }
	env, err := s.UpdateRecord(context.Background(), "client", records.WriteParams{Records: []records.Record{{"Id": id, "status": "inactive"}}})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	res := env.Results[0]
	if !res.Success {
		t.Fatalf("update failed: %+v", res)
	}
	if res.Data["status"] != "inactive" || res.Data["company"] != "Acme Inc" {
		t.Fatalf("unexpected data %+v", res.Data)
	}
	if res.Data["ModifiedOn"] != "2024-03-06T09:00:00Z" || res.Data["CreatedOn"] != "2024-03-05T10:00:00Z" {
		t.Fatalf("unexpected stamps %+v", res.Data)
	}
}

func TestUpdateMissingRecord(t *testing.T) {
	s := setupStore(t)
	env, _ := s.UpdateRecord(context.Background(), "client", records.WriteParams{Records: []records.Record{{"Id": 5, "Name": "X"}}})
	if env.Results[0].Success || env.Results[0].Message != "Record does not exist" {
		t.Fatalf("unexpected result %+v", env.Results[0])
	}
}

func TestDeleteResults(t *testing.T) {
	s := setupStore(t)
	created := createOne(t, s, "client", records.Record{"Name": "Acme"})
	id, _ := recordID(created["Id"])
	env, err := s.DeleteRecord(context.Background(), "client", records.DeleteParams{RecordIDs: []int{id, id + 100}})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	ok, failed := env.Split()
	if len(ok) != 1 || len(failed) != 1 || failed[0].Message != "Record does not exist" {
		t.Fatalf("unexpected results %+v", env.Results)
	}
}

func TestFetchWhereOrderPaging(t *testing.T) {
	s := setupStore(t)
	client := createOne(t, s, "client", records.Record{"Name": "Acme"})
	cid, _ := recordID(client["Id"])
	for i, status := range []string{"planning", "active", "active", "completed"} {
		createOne(t, s, "project", records.Record{"Name": fmt.Sprintf("P%d", i), "client_id": cid, "status": status, "budget": float64(100 * (i + 1))})
	}
	env, err := s.FetchRecords(context.Background(), "project", records.FetchParams{
		Fields:     records.Select("Name", "budget", "client_id").Fields,
		Where:      []records.Condition{{FieldName: "status", Operator: records.OpNotEqualTo, Values: []any{"completed"}}},
		OrderBy:    []records.Order{{FieldName: "budget", SortType: "DESC"}},
		PagingInfo: &records.Paging{Limit: 2},
	})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	recs, err := env.Records()
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	if len(recs) != 2 || recs[0]["Name"] != "P2" || recs[1]["Name"] != "P1" {
		t.Fatalf("unexpected records %+v", recs)
	}
	ref, ok := recs[0]["client_id"].(map[string]any)
	if !ok || ref["Name"] != "Acme" {
		t.Fatalf("expected lookup object, got %+v", recs[0]["client_id"])
	}

	env, _ = s.FetchRecords(context.Background(), "project", records.FetchParams{
		Where: []records.Condition{{FieldName: "budget", Operator: records.OpGreaterThan, Values: []any{250}}},
	})
	recs, _ = env.Records()
	if len(recs) != 2 {
		t.Fatalf("expected 2 projects over 250 got %d", len(recs))
	}
}

func TestFetchUnknownField(t *testing.T) {
	s := setupStore(t)
	env, err := s.FetchRecords(context.Background(), "client", records.Select("Name", "phone"))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if env.Success || env.Message != "Field phone does not exist on table client" {
		t.Fatalf("unexpected envelope %+v", env)
	}
}

func TestDatesAreNormalized(t *testing.T) {
	s := setupStore(t)
	client := createOne(t, s, "client", records.Record{"Name": "Acme"})
	cid, _ := recordID(client["Id"])
	p := createOne(t, s, "project", records.Record{"Name": "Site", "client_id": cid, "startDate": "2024-02-01T15:04:05Z"})
	if p["startDate"] != "2024-02-01" {
		t.Fatalf("expected date only got %v", p["startDate"])
	}
}
