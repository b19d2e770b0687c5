package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/diewo77/go-crm/internal/notify"
	"github.com/diewo77/go-crm/internal/services"
	"github.com/diewo77/go-crm/internal/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var fixedNow = time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

func identity(h http.Handler) http.Handler { return h }

func setupMux(t *testing.T) *http.ServeMux {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(store.Models()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	svc := services.New(store.New(db), notify.Discard, services.WithClock(func() time.Time { return fixedNow }))

	mux := http.NewServeMux()
	NewClientHandler(svc.Clients).Register(mux, "/api/clients", identity)
	NewProjectHandler(svc.Projects).Register(mux, "/api/projects", identity)
	NewTaskHandler(svc.Tasks, svc.Timer).Register(mux, "/api/tasks", identity)
	NewInvoiceHandler(svc.Invoices).Register(mux, "/api/invoices", identity)
	ia := NewInvoiceActions(svc.Invoices)
	mux.HandleFunc("POST /api/invoices/{id}/paid", ia.MarkPaid)
	ta := NewTaskActions(svc.Tasks, svc.Timer)
	mux.HandleFunc("POST /api/tasks/{id}/status", ta.UpdateStatus)
	mux.HandleFunc("POST /api/tasks/{id}/timer/start", ta.StartTimer)
	mux.HandleFunc("POST /api/tasks/{id}/timer/stop", ta.StopTimer)
	mux.HandleFunc("GET /api/tasks/{id}/time-logs", ta.TimeLogs)
	mux.HandleFunc("GET /api/dashboard", NewDashboardHandler(svc.Dashboard).Summary)
	return mux
}

type reply struct {
	Data          json.RawMessage `json:"data"`
	Notifications []notify.Note   `json:"notifications"`
	Error         string          `json:"error"`
	Details       json.RawMessage `json:"details"`
}

func do(t *testing.T, mux http.Handler, method, path, body string) (int, reply) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	var out reply
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("%s %s: invalid json %q: %v", method, path, rr.Body.String(), err)
	}
	return rr.Code, out
}

func decodeData(t *testing.T, r reply, dst any) {
	t.Helper()
	if err := json.Unmarshal(r.Data, dst); err != nil {
		t.Fatalf("decode data %s: %v", r.Data, err)
	}
}

func createClient(t *testing.T, mux http.Handler) int {
	t.Helper()
	code, r := do(t, mux, http.MethodPost, "/api/clients", `{"Name":"Acme","email":"a@acme.com"}`)
	if code != http.StatusCreated {
		t.Fatalf("create client: %d %s", code, r.Error)
	}
	var c struct{ ID int }
	decodeData(t, r, &c)
	return c.ID
}

func createProject(t *testing.T, mux http.Handler, clientID int) int {
	t.Helper()
	code, r := do(t, mux, http.MethodPost, "/api/projects", fmt.Sprintf(`{"name":"Site","clientId":%d}`, clientID))
	if code != http.StatusCreated {
		t.Fatalf("create project: %d %s %s", code, r.Error, r.Details)
	}
	var p struct{ ID int }
	decodeData(t, r, &p)
	return p.ID
}

func TestClientCRUD(t *testing.T) {
	mux := setupMux(t)
	code, r := do(t, mux, http.MethodPost, "/api/clients", `{"Name":"Acme","email":"a@acme.com"}`)
	if code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", code)
	}
	if len(r.Notifications) != 1 || r.Notifications[0].Message != "Client created successfully" {
		t.Fatalf("unexpected notifications %+v", r.Notifications)
	}
	var c struct {
		ID     int    `json:"id"`
		Status string `json:"status"`
	}
	decodeData(t, r, &c)
	if c.ID == 0 || c.Status != "active" {
		t.Fatalf("unexpected client %+v", c)
	}

	path := fmt.Sprintf("/api/clients/%d", c.ID)
	if code, _ := do(t, mux, http.MethodGet, path, ""); code != http.StatusOK {
		t.Fatalf("view: %d", code)
	}
	code, r = do(t, mux, http.MethodPut, path, `{"company":"Acme Inc"}`)
	if code != http.StatusOK {
		t.Fatalf("update: %d %s", code, r.Error)
	}
	code, r = do(t, mux, http.MethodGet, "/api/clients", "")
	var list []struct {
		Company string `json:"company"`
	}
	decodeData(t, r, &list)
	if code != http.StatusOK || len(list) != 1 || list[0].Company != "Acme Inc" {
		t.Fatalf("unexpected list %d %+v", code, list)
	}

	if code, _ := do(t, mux, http.MethodDelete, path, ""); code != http.StatusOK {
		t.Fatalf("delete: %d", code)
	}
	code, r = do(t, mux, http.MethodDelete, path, "")
	var del map[string]bool
	decodeData(t, r, &del)
	if code != http.StatusUnprocessableEntity || del["deleted"] {
		t.Fatalf("second delete: %d %v", code, del)
	}
}

func TestValidationIs400(t *testing.T) {
	mux := setupMux(t)
	code, r := do(t, mux, http.MethodPost, "/api/clients", `{"email":"nope"}`)
	if code != http.StatusBadRequest || r.Error != "validation_failed" {
		t.Fatalf("expected validation_failed got %d %s", code, r.Error)
	}
	var details map[string]string
	if err := json.Unmarshal(r.Details, &details); err != nil {
		t.Fatalf("details: %v", err)
	}
	if details["Name"] != "Client name is required" || details["email"] != "Invalid email address" {
		t.Fatalf("unexpected details %v", details)
	}
	if len(r.Notifications) != 2 {
		t.Fatalf("expected 2 notifications got %+v", r.Notifications)
	}
}

func TestBadInputs(t *testing.T) {
	mux := setupMux(t)
	if code, r := do(t, mux, http.MethodGet, "/api/clients/99", ""); code != http.StatusNotFound || r.Error != "not_found" {
		t.Fatalf("expected 404 got %d %s", code, r.Error)
	}
	if code, _ := do(t, mux, http.MethodGet, "/api/clients/abc", ""); code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id got %d", code)
	}
	if code, r := do(t, mux, http.MethodPost, "/api/clients", `{"Name":`); code != http.StatusBadRequest || r.Error != "invalid_json" {
		t.Fatalf("expected invalid_json got %d %s", code, r.Error)
	}
	if code, r := do(t, mux, http.MethodPost, "/api/clients/batch", `{"records":[]}`); code != http.StatusBadRequest || r.Error != "no_records" {
		t.Fatalf("expected no_records got %d %s", code, r.Error)
	}
}

func TestBatchPartialIs207(t *testing.T) {
	mux := setupMux(t)
	clientID := createClient(t, mux)
	body := fmt.Sprintf(`{"records":[{"name":"Ok","clientId":%d},{"name":"Dangling","clientId":999}]}`, clientID)
	code, r := do(t, mux, http.MethodPost, "/api/projects/batch", body)
	if code != http.StatusMultiStatus || r.Error != "partial_write" {
		t.Fatalf("expected 207 partial_write got %d %s", code, r.Error)
	}
	var created []struct {
		Name string `json:"name"`
	}
	decodeData(t, r, &created)
	if len(created) != 1 || created[0].Name != "Ok" {
		t.Fatalf("unexpected created %+v", created)
	}
}

func TestProjectFilterByClient(t *testing.T) {
	mux := setupMux(t)
	a := createClient(t, mux)
	b := createClient(t, mux)
	createProject(t, mux, a)
	createProject(t, mux, b)
	createProject(t, mux, b)

	_, r := do(t, mux, http.MethodGet, fmt.Sprintf("/api/projects?client_id=%d", b), "")
	var list []struct {
		ClientID int `json:"clientId"`
	}
	decodeData(t, r, &list)
	if len(list) != 2 || list[0].ClientID != b || list[1].ClientID != b {
		t.Fatalf("unexpected filtered list %+v", list)
	}
}

func TestInvoiceMarkPaid(t *testing.T) {
	mux := setupMux(t)
	projectID := createProject(t, mux, createClient(t, mux))
	code, r := do(t, mux, http.MethodPost, "/api/invoices", fmt.Sprintf(`{"project_id":%d,"amount":"250","dueDate":"2024-03-31"}`, projectID))
	if code != http.StatusCreated {
		t.Fatalf("create invoice: %d %s %s", code, r.Error, r.Details)
	}
	var inv struct {
		ID     int    `json:"id"`
		Status string `json:"status"`
	}
	decodeData(t, r, &inv)
	if inv.Status != "draft" {
		t.Fatalf("expected draft got %q", inv.Status)
	}

	path := fmt.Sprintf("/api/invoices/%d/paid", inv.ID)
	if code, _ := do(t, mux, http.MethodPost, path, `{}`); code != http.StatusBadRequest {
		t.Fatalf("expected 400 without payment date got %d", code)
	}
	code, r = do(t, mux, http.MethodPost, path, `{"paymentDate":"2024-03-04"}`)
	if code != http.StatusOK {
		t.Fatalf("mark paid: %d %s", code, r.Error)
	}
	decodeData(t, r, &inv)
	if inv.Status != "paid" {
		t.Fatalf("expected paid got %q", inv.Status)
	}
}

func TestTaskTimerRoutes(t *testing.T) {
	mux := setupMux(t)
	projectID := createProject(t, mux, createClient(t, mux))
	code, r := do(t, mux, http.MethodPost, "/api/tasks", fmt.Sprintf(`{"title":"Build","projectId":%d,"dueDate":"2024-03-20"}`, projectID))
	if code != http.StatusCreated {
		t.Fatalf("create task: %d %s %s", code, r.Error, r.Details)
	}
	var task struct{ ID int }
	decodeData(t, r, &task)
	base := fmt.Sprintf("/api/tasks/%d", task.ID)

	if code, _ := do(t, mux, http.MethodPost, base+"/timer/stop", ""); code != http.StatusConflict {
		t.Fatalf("stop without timer: expected 409 got %d", code)
	}
	if code, _ := do(t, mux, http.MethodPost, base+"/timer/start", ""); code != http.StatusCreated {
		t.Fatalf("start: %d", code)
	}
	code, r = do(t, mux, http.MethodPost, base+"/timer/start", "")
	if code != http.StatusConflict || r.Error != "timer_conflict" {
		t.Fatalf("second start: expected 409 got %d %s", code, r.Error)
	}

	_, r = do(t, mux, http.MethodGet, base, "")
	var view struct {
		TimeTracking struct {
			ActiveTimer *struct{ ID int } `json:"activeTimer"`
		} `json:"timeTracking"`
	}
	decodeData(t, r, &view)
	if view.TimeTracking.ActiveTimer == nil {
		t.Fatalf("expected an active timer on the task view")
	}

	if code, _ := do(t, mux, http.MethodPost, base+"/timer/stop", ""); code != http.StatusOK {
		t.Fatalf("stop: %d", code)
	}
	_, r = do(t, mux, http.MethodGet, base+"/time-logs", "")
	var logs []struct{ ID int }
	decodeData(t, r, &logs)
	if len(logs) != 1 {
		t.Fatalf("expected 1 log got %d", len(logs))
	}

	code, r = do(t, mux, http.MethodPost, base+"/status", `{"status":"done"}`)
	var updated struct {
		Status string `json:"status"`
	}
	decodeData(t, r, &updated)
	if code != http.StatusOK || updated.Status != "done" {
		t.Fatalf("status: %d %+v", code, updated)
	}
}

func TestDashboardRoute(t *testing.T) {
	mux := setupMux(t)
	createProject(t, mux, createClient(t, mux))
	code, r := do(t, mux, http.MethodGet, "/api/dashboard", "")
	if code != http.StatusOK {
		t.Fatalf("dashboard: %d %s", code, r.Error)
	}
	var d struct {
		Summary struct {
			TotalClients int `json:"totalClients"`
		} `json:"summary"`
	}
	decodeData(t, r, &d)
	if d.Summary.TotalClients != 1 {
		t.Fatalf("expected 1 client got %+v", d.Summary)
	}
}
