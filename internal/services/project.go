package services

import (
	"context"

	"github.com/diewo77/go-crm/internal/models"
	"github.com/diewo77/go-crm/internal/records"
	"github.com/diewo77/go-crm/validation"
)

var projectTable = table{
	name:   "project",
	entity: "Project",
	fields: []string{"Id", "Name", "description", "client_id", "status", "budget", "startDate", "endDate", "Tags", "Owner", "CreatedOn", "ModifiedOn"},
}

// ProjectService reads and writes project records.
type ProjectService struct {
	*crud[models.Project]
}

func NewProjectService(a *access) *ProjectService {
	s := &ProjectService{}
	s.crud = &crud[models.Project]{access: a, table: projectTable, decode: models.ProjectFromRecord, normalize: s.normalize}
	return s
}

// ForClient lists the projects of one client.
func (s *ProjectService) ForClient(ctx context.Context, clientID any) ([]models.Project, error) {
	id, err := s.parseID(ctx, clientTable, clientID)
	if err != nil {
		return nil, err
	}
	return s.query(ctx, records.FetchParams{
		Where: []records.Condition{{FieldName: "client_id", Operator: records.OpEqualTo, Values: []any{id}}},
	})
}

func (s *ProjectService) normalize(f Fields, partial bool) (records.Record, validation.Violations) {
	v := make(validation.Violations)
	rec := records.Record{}

	if name, ok := f.text("Name", "name"); ok || !partial {
		if validation.Required("Name", name, "Project name is required", v) {
			rec["Name"] = name
		}
	}
	if desc, ok := f.text("description", "Description"); ok {
		rec["description"] = desc
	}
	if tags, ok := f.text("Tags", "tags"); ok {
		rec["Tags"] = tags
	}

	raw, ok := f.lookup("client_id", "clientId")
	if ok || !partial {
		if validation.Required("client_id", raw, "Client selection is required", v) {
			if id, valid := validation.ID("client_id", raw, "Invalid client ID", v); valid {
				rec["client_id"] = id
			}
		}
	}

	status, ok := f.text("status", "Status")
	switch {
	case ok && status != "":
		validation.OneOf("status", status, models.ProjectStatuses, "Invalid project status", v)
		rec["status"] = status
	case !partial:
		rec["status"] = string(models.ProjectStatusPlanning)
	}

	if raw, ok := f.lookup("budget", "Budget"); ok && !validation.Blank(raw) {
		if budget, valid := validation.PositiveFloat("budget", raw, "Budget must be a valid number", "Budget must be greater than 0", v); valid {
			rec["budget"] = budget
		}
	}

	start, hasStart := dateField(f, v, "startDate", "Invalid start date", "startDate", "start_date")
	end, hasEnd := dateField(f, v, "endDate", "Invalid end date", "endDate", "end_date")
	if hasStart {
		rec["startDate"] = start.Format(models.DateLayout)
	}
	if hasEnd {
		rec["endDate"] = end.Format(models.DateLayout)
	}
	if hasStart && hasEnd {
		validation.After("endDate", start, end, "End date must be after start date", v)
	}
	return rec, v
}
