package services

import (
	"context"

	"github.com/diewo77/go-crm/internal/models"
	"github.com/diewo77/go-crm/internal/records"
	"github.com/diewo77/go-crm/validation"
)

var taskTable = table{
	name:   "task",
	entity: "Task",
	fields: []string{"Id", "Name", "title", "priority", "status", "dueDate", "total_time", "project_id", "Tags", "Owner", "CreatedOn", "ModifiedOn"},
}

// TaskService reads and writes task records.
type TaskService struct {
	*crud[models.Task]
}

func NewTaskService(a *access) *TaskService {
	s := &TaskService{}
	s.crud = &crud[models.Task]{access: a, table: taskTable, decode: models.TaskFromRecord, normalize: s.normalize}
	return s
}

// UpdateStatus moves a task to status.
func (s *TaskService) UpdateStatus(ctx context.Context, id any, status string) (*models.Task, error) {
	return s.Update(ctx, id, Fields{"status": status})
}

// ForProject lists the tasks of one project.
func (s *TaskService) ForProject(ctx context.Context, projectID any) ([]models.Task, error) {
	id, err := s.parseID(ctx, projectTable, projectID)
	if err != nil {
		return nil, err
	}
	return s.query(ctx, records.FetchParams{
		Where: []records.Condition{{FieldName: "project_id", Operator: records.OpEqualTo, Values: []any{id}}},
	})
}

func (s *TaskService) normalize(f Fields, partial bool) (records.Record, validation.Violations) {
	v := make(validation.Violations)
	rec := records.Record{}

	if title, ok := f.text("title", "Title", "Name", "name"); ok || !partial {
		if validation.Required("title", title, "Please enter a task title", v) {
			rec["title"] = title
			rec["Name"] = title
		}
	}

	raw, ok := f.lookup("project_id", "projectId")
	if ok || !partial {
		if validation.Required("project_id", raw, "Please select a project", v) {
			if id, valid := validation.ID("project_id", raw, "Invalid project ID", v); valid {
				rec["project_id"] = id
			}
		}
	}

	if raw, _ := f.lookup("dueDate", "due_date"); !partial && validation.Blank(raw) {
		v.Add("dueDate", "Please select a due date")
	} else if due, ok := dateField(f, v, "dueDate", "Invalid due date", "dueDate", "due_date"); ok {
		rec["dueDate"] = due.Format(models.DateLayout)
	}

	priority, ok := f.text("priority", "Priority")
	switch {
	case ok && priority != "":
		validation.OneOf("priority", priority, models.TaskPriorities, "Invalid task priority", v)
		rec["priority"] = priority
	case !partial:
		rec["priority"] = "medium"
	}

	status, ok := f.text("status", "Status")
	switch {
	case ok && status != "":
		validation.OneOf("status", status, models.TaskStatuses, "Invalid task status", v)
		rec["status"] = status
	case ok && partial:
		v.Add("status", "Invalid task status")
	case !partial:
		rec["status"] = string(models.TaskStatusTodo)
	}

	if raw, ok := f.lookup("total_time", "totalTime"); ok && !validation.Blank(raw) {
		if n, valid := validation.NonNegativeInt("total_time", raw, "Total time must be a whole number of seconds", v); valid {
			rec["total_time"] = n
		}
	} else if !partial {
		rec["total_time"] = 0
	}

	if tags, ok := f.text("Tags", "tags"); ok {
		rec["Tags"] = tags
	}
	return rec, v
}
