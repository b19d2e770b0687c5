package models

import (
	"time"

	"github.com/diewo77/go-crm/internal/records"
)

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectStatusPlanning  ProjectStatus = "planning"
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusOnHold    ProjectStatus = "on-hold"
	ProjectStatusCompleted ProjectStatus = "completed"
)

// ProjectStatuses lists the accepted project statuses.
var ProjectStatuses = []string{string(ProjectStatusPlanning), string(ProjectStatusActive), string(ProjectStatusOnHold), string(ProjectStatusCompleted)}

// Project is a piece of work done for a client.
type Project struct {
	ID          int           `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	ClientID    int           `json:"clientId,omitempty"`
	ClientName  string        `json:"clientName,omitempty"`
	Status      ProjectStatus `json:"status"`
	Budget      float64       `json:"budget,omitempty"`
	StartDate   *time.Time    `json:"startDate,omitempty"`
	EndDate     *time.Time    `json:"endDate,omitempty"`
	Tags        string        `json:"tags,omitempty"`
	CreatedAt   *time.Time    `json:"createdAt,omitempty"`
}

// ProjectFromRecord maps a backend record to a Project.
func ProjectFromRecord(r records.Record) Project {
	clientID, clientName := ref(r, "client_id", "clientId")
	return Project{
		ID:          int(num(r, "Id", "id")),
		Name:        str(r, "Name", "name"),
		Description: str(r, "description", "Description"),
		ClientID:    clientID,
		ClientName:  clientName,
		Status:      ProjectStatus(str(r, "status", "Status")),
		Budget:      num(r, "budget", "Budget"),
		StartDate:   stamp(r, "startDate", "start_date"),
		EndDate:     stamp(r, "endDate", "end_date"),
		Tags:        str(r, "Tags", "tags"),
		CreatedAt:   stamp(r, "CreatedOn", "createdAt"),
	}
}
