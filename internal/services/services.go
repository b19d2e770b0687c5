// Package services is the record-access layer: one service per entity, each
// translating calls into a single backend round trip and reporting outcomes
// through a notifier.
package services

import (
	"time"

	"github.com/diewo77/go-crm/internal/notify"
	"github.com/diewo77/go-crm/internal/records"
)

// Services bundles every entity service over one backend.
type Services struct {
	Clients   *ClientService
	Projects  *ProjectService
	Tasks     *TaskService
	Invoices  *InvoiceService
	Timer     *TimerService
	Dashboard *DashboardService
}

// Option customizes the shared access core.
type Option func(*access)

// WithClock replaces time.Now, mainly for tests.
func WithClock(clock func() time.Time) Option {
	return func(a *access) { a.now = clock }
}

// New wires the services. A nil notifier discards notifications unless a
// request carries its own (see notify.WithNotifier).
func New(backend records.Backend, notifier notify.Notifier, opts ...Option) *Services {
	if notifier == nil {
		notifier = notify.Discard
	}
	a := &access{backend: backend, notifier: notifier, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	s := &Services{
		Clients:  NewClientService(a),
		Projects: NewProjectService(a),
		Tasks:    NewTaskService(a),
		Invoices: NewInvoiceService(a),
		Timer:    NewTimerService(a),
	}
	s.Dashboard = &DashboardService{access: a, clients: s.Clients, projects: s.Projects, tasks: s.Tasks, invoices: s.Invoices}
	return s
}
