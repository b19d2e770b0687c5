package services

import (
	"context"
	"sort"
	"time"

	"github.com/diewo77/go-crm/internal/models"
	"github.com/diewo77/go-crm/internal/records"
	"github.com/jinzhu/now"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const recentActivityLimit = 5

// DashboardService aggregates the other entities into read-only counters.
type DashboardService struct {
	*access
	clients  *ClientService
	projects *ProjectService
	tasks    *TaskService
	invoices *InvoiceService
}

// Summary loads every entity concurrently and aggregates them. The first
// failing list cancels the others.
func (s *DashboardService) Summary(ctx context.Context) (*models.Dashboard, error) {
	var (
		clients  []models.Client
		projects []models.Project
		tasks    []models.Task
		invoices []models.Invoice
		logs     []models.TimeLog
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		clients, err = s.clients.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		projects, err = s.projects.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		tasks, err = s.tasks.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		invoices, err = s.invoices.List(gctx)
		return err
	})
	g.Go(func() error {
		recs, err := s.fetch(gctx, timeLogTable, records.FetchParams{})
		for _, r := range recs {
			logs = append(logs, models.TimeLogFromRecord(r))
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return aggregate(s.now(), clients, projects, tasks, invoices, logs), nil
}

func aggregate(at time.Time, clients []models.Client, projects []models.Project, tasks []models.Task, invoices []models.Invoice, logs []models.TimeLog) *models.Dashboard {
	clock := now.With(at)
	today := clock.BeginningOfDay()
	weekStart := clock.BeginningOfWeek()
	monthStart, monthEnd := clock.BeginningOfMonth(), clock.EndOfMonth()

	d := &models.Dashboard{RecentActivity: []models.Activity{}}
	d.Summary.TotalClients = len(clients)
	d.QuickStats.WeekStart = weekStart

	clientNames := make(map[int]string, len(clients))
	var feed []models.Activity
	for _, c := range clients {
		clientNames[c.ID] = c.Name
		if c.CreatedAt != nil {
			feed = append(feed, models.Activity{Type: "client", ID: c.ID, Title: c.Name, Client: c.Name, Time: *c.CreatedAt})
		}
	}

	for _, p := range projects {
		if p.Status == models.ProjectStatusActive {
			d.Summary.ActiveProjects++
		}
		started := p.StartDate
		if started == nil {
			started = p.CreatedAt
		}
		if within(started, weekStart, at) {
			d.QuickStats.ProjectsThisWeek++
		}
		if p.CreatedAt != nil {
			feed = append(feed, models.Activity{Type: "project", ID: p.ID, Title: p.Name, Client: nameOf(clientNames, p.ClientID, p.ClientName), Time: *p.CreatedAt})
		}
	}

	for _, t := range tasks {
		if t.IsDone() {
			d.Summary.CompletedTasks++
			if within(t.ModifiedAt, weekStart, at) {
				d.QuickStats.TasksCompleted++
			}
		} else {
			d.Summary.PendingTasks++
			if t.DueDate != nil && t.DueDate.Before(today) {
				d.Summary.OverdueItems++
			}
		}
		if t.CreatedAt != nil {
			feed = append(feed, models.Activity{Type: "task", ID: t.ID, Title: t.Title, Time: *t.CreatedAt})
		}
	}

	revenue := decimal.Zero
	for _, inv := range invoices {
		if inv.IsOverdue(today) {
			d.Summary.OverdueItems++
		}
		if inv.IsPaid() && within(inv.PaymentDate, monthStart, monthEnd) {
			revenue = revenue.Add(decimal.NewFromFloat(inv.Amount))
		}
		if inv.Status == models.InvoiceStatusSent && within(inv.ModifiedAt, weekStart, at) {
			d.QuickStats.InvoicesSent++
		}
		client := nameOf(clientNames, inv.ClientID, inv.ClientName)
		if inv.CreatedAt != nil {
			feed = append(feed, models.Activity{Type: "invoice", ID: inv.ID, Title: inv.Name, Client: client, Time: *inv.CreatedAt})
		}
		if inv.IsPaid() && inv.PaymentDate != nil {
			feed = append(feed, models.Activity{Type: "payment", ID: inv.ID, Title: inv.Name, Client: client, Time: *inv.PaymentDate})
		}
	}
	d.Summary.MonthlyRevenue = revenue.Round(2).InexactFloat64()

	seconds := decimal.Zero
	for _, l := range logs {
		if within(l.StartTime, weekStart, at) {
			seconds = seconds.Add(decimal.NewFromInt(int64(l.Duration)))
		}
	}
	d.QuickStats.HoursTracked = seconds.Div(decimal.NewFromInt(3600)).Round(2).InexactFloat64()

	sort.SliceStable(feed, func(i, j int) bool { return feed[i].Time.After(feed[j].Time) })
	if len(feed) > recentActivityLimit {
		feed = feed[:recentActivityLimit]
	}
	d.RecentActivity = append(d.RecentActivity, feed...)
	return d
}

func within(t *time.Time, from, to time.Time) bool {
	return t != nil && !t.Before(from) && !t.After(to)
}

func nameOf(names map[int]string, id int, fallback string) string {
	if n, ok := names[id]; ok {
		return n
	}
	return fallback
}
