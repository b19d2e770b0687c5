package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/diewo77/go-crm/internal/models"
	"github.com/diewo77/go-crm/internal/services"
)

// Seed creates a small demo data set through the services. It does nothing
// when clients already exist.
func Seed(ctx context.Context, svc *services.Services, today time.Time) error {
	existing, err := svc.Clients.List(ctx)
	if err != nil {
		return fmt.Errorf("seed: list clients: %w", err)
	}
	if len(existing) > 0 {
		log.Printf("[DB] seed skipped: %d clients present", len(existing))
		return nil
	}

	clients, err := svc.Clients.CreateMany(ctx, []services.Fields{
		{"Name": "Acme Corp", "email": "contact@acme.test", "company": "Acme", "status": "active"},
		{"Name": "Globex", "email": "hello@globex.test", "company": "Globex", "status": "prospect"},
	})
	if err != nil {
		return fmt.Errorf("seed clients: %w", err)
	}

	day := func(offset int) string { return today.AddDate(0, 0, offset).Format(models.DateLayout) }
	projects, err := svc.Projects.CreateMany(ctx, []services.Fields{
		{"Name": "Website redesign", "client_id": clients[0].ID, "status": "active", "budget": 12000, "startDate": day(-14), "endDate": day(30)},
		{"Name": "Mobile app", "client_id": clients[1].ID, "status": "planning", "budget": 30000, "startDate": day(7), "endDate": day(120)},
	})
	if err != nil {
		return fmt.Errorf("seed projects: %w", err)
	}

	if _, err := svc.Tasks.CreateMany(ctx, []services.Fields{
		{"title": "Wireframes", "project_id": projects[0].ID, "priority": "high", "status": "done", "dueDate": day(-7)},
		{"title": "Implement landing page", "project_id": projects[0].ID, "status": "in-progress", "dueDate": day(5)},
		{"title": "Kickoff meeting", "project_id": projects[1].ID, "priority": "low", "dueDate": day(7)},
	}); err != nil {
		return fmt.Errorf("seed tasks: %w", err)
	}

	if _, err := svc.Invoices.CreateMany(ctx, []services.Fields{
		{"Name": "INV-0001", "project_id": projects[0].ID, "client_id": clients[0].ID, "amount": 4000, "dueDate": day(-3), "status": "sent"},
		{"Name": "INV-0002", "project_id": projects[0].ID, "client_id": clients[0].ID, "amount": 2500, "dueDate": day(20)},
	}); err != nil {
		return fmt.Errorf("seed invoices: %w", err)
	}
	log.Printf("[DB] seeded %d clients, %d projects", len(clients), len(projects))
	return nil
}
