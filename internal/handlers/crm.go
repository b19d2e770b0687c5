package handlers

import (
	"context"
	"net/http"

	"github.com/diewo77/go-crm/httpx"
	"github.com/diewo77/go-crm/internal/models"
	"github.com/diewo77/go-crm/internal/services"
)

func NewClientHandler(s *services.ClientService) *EntityHandler[models.Client] {
	return &EntityHandler[models.Client]{svc: s}
}

// NewProjectHandler lists by client when ?client_id is given.
func NewProjectHandler(s *services.ProjectService) *EntityHandler[models.Project] {
	return &EntityHandler[models.Project]{
		svc: s,
		filter: func(ctx context.Context, r *http.Request) ([]models.Project, bool, error) {
			id := r.URL.Query().Get("client_id")
			if id == "" {
				return nil, false, nil
			}
			items, err := s.ForClient(ctx, id)
			return items, true, err
		},
	}
}

// NewTaskHandler lists by project when ?project_id is given and attaches
// time tracking to single tasks.
func NewTaskHandler(s *services.TaskService, timer *services.TimerService) *EntityHandler[models.Task] {
	return &EntityHandler[models.Task]{
		svc: s,
		filter: func(ctx context.Context, r *http.Request) ([]models.Task, bool, error) {
			id := r.URL.Query().Get("project_id")
			if id == "" {
				return nil, false, nil
			}
			items, err := s.ForProject(ctx, id)
			return items, true, err
		},
		enrich: timer.Track,
	}
}

// NewInvoiceHandler lists by client when ?client_id is given.
func NewInvoiceHandler(s *services.InvoiceService) *EntityHandler[models.Invoice] {
	return &EntityHandler[models.Invoice]{
		svc: s,
		filter: func(ctx context.Context, r *http.Request) ([]models.Invoice, bool, error) {
			id := r.URL.Query().Get("client_id")
			if id == "" {
				return nil, false, nil
			}
			items, err := s.ForClient(ctx, id)
			return items, true, err
		},
	}
}

// InvoiceActions serves the invoice status verbs.
type InvoiceActions struct {
	svc *services.InvoiceService
}

func NewInvoiceActions(s *services.InvoiceService) *InvoiceActions {
	return &InvoiceActions{svc: s}
}

// MarkPaid expects {"paymentDate": "..."}.
func (h *InvoiceActions) MarkPaid(w http.ResponseWriter, r *http.Request) {
	f, ok := readFields(w, r)
	if !ok {
		return
	}
	ctx, rec := notes(r)
	inv, err := h.svc.MarkAsPaid(ctx, r.PathValue("id"), f["paymentDate"])
	if err != nil {
		writeError(w, err, rec)
		return
	}
	writeData(w, http.StatusOK, inv, rec)
}

func (h *InvoiceActions) MarkSent(w http.ResponseWriter, r *http.Request) {
	ctx, rec := notes(r)
	inv, err := h.svc.MarkAsSent(ctx, r.PathValue("id"))
	if err != nil {
		writeError(w, err, rec)
		return
	}
	writeData(w, http.StatusOK, inv, rec)
}

// TaskActions serves the task status and timer verbs.
type TaskActions struct {
	tasks *services.TaskService
	timer *services.TimerService
}

func NewTaskActions(tasks *services.TaskService, timer *services.TimerService) *TaskActions {
	return &TaskActions{tasks: tasks, timer: timer}
}

// UpdateStatus expects {"status": "..."}.
func (h *TaskActions) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	f, ok := readFields(w, r)
	if !ok {
		return
	}
	status, _ := f["status"].(string)
	ctx, rec := notes(r)
	task, err := h.tasks.UpdateStatus(ctx, r.PathValue("id"), status)
	if err != nil {
		writeError(w, err, rec)
		return
	}
	writeData(w, http.StatusOK, task, rec)
}

func (h *TaskActions) StartTimer(w http.ResponseWriter, r *http.Request) {
	ctx, rec := notes(r)
	l, err := h.timer.Start(ctx, r.PathValue("id"))
	if err != nil {
		writeError(w, err, rec)
		return
	}
	writeData(w, http.StatusCreated, l, rec)
}

func (h *TaskActions) StopTimer(w http.ResponseWriter, r *http.Request) {
	ctx, rec := notes(r)
	l, err := h.timer.Stop(ctx, r.PathValue("id"))
	if err != nil {
		writeError(w, err, rec)
		return
	}
	writeData(w, http.StatusOK, l, rec)
}

func (h *TaskActions) TimeLogs(w http.ResponseWriter, r *http.Request) {
	ctx, rec := notes(r)
	logs, err := h.timer.Logs(ctx, r.PathValue("id"))
	if err != nil {
		writeError(w, err, rec)
		return
	}
	writeData(w, http.StatusOK, logs, rec)
}

// DashboardHandler serves the aggregate view.
type DashboardHandler struct {
	svc *services.DashboardService
}

func NewDashboardHandler(s *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: s}
}

func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ctx, rec := notes(r)
	d, err := h.svc.Summary(ctx)
	if err != nil {
		writeError(w, err, rec)
		return
	}
	writeData(w, http.StatusOK, d, rec)
}

// Health is the public liveness probe.
func Health(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
