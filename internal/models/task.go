package models

import (
	"time"

	"github.com/diewo77/go-crm/internal/records"
)

// TaskStatus is the workflow state of a task.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusReview     TaskStatus = "review"
	TaskStatusDone       TaskStatus = "done"
)

// TaskStatuses lists the accepted task statuses.
var TaskStatuses = []string{string(TaskStatusTodo), string(TaskStatusInProgress), string(TaskStatusReview), string(TaskStatusDone)}

// TaskPriorities lists the accepted task priorities.
var TaskPriorities = []string{"low", "medium", "high"}

// Task is a unit of work inside a project.
type Task struct {
	ID           int          `json:"id"`
	Title        string       `json:"title"`
	Priority     string       `json:"priority"`
	Status       TaskStatus   `json:"status"`
	DueDate      *time.Time   `json:"dueDate,omitempty"`
	ProjectID    int          `json:"projectId,omitempty"`
	ProjectName  string       `json:"projectName,omitempty"`
	Tags         string       `json:"tags,omitempty"`
	CreatedAt    *time.Time   `json:"createdAt,omitempty"`
	ModifiedAt   *time.Time   `json:"modifiedAt,omitempty"`
	TimeTracking TimeTracking `json:"timeTracking"`
}

// TimeTracking summarizes tracked time on a task. TotalTime is in seconds.
type TimeTracking struct {
	TotalTime   int       `json:"totalTime"`
	ActiveTimer *TimeLog  `json:"activeTimer"`
	TimeLogs    []TimeLog `json:"timeLogs"`
}

// IsDone reports whether the task is finished.
func (t *Task) IsDone() bool {
	return t.Status == TaskStatusDone
}

// TaskFromRecord maps a backend record to a Task.
func TaskFromRecord(r records.Record) Task {
	projectID, projectName := ref(r, "project_id", "projectId")
	title := str(r, "title", "Title")
	if title == "" {
		title = str(r, "Name", "name")
	}
	return Task{
		ID:          int(num(r, "Id", "id")),
		Title:       title,
		Priority:    str(r, "priority", "Priority"),
		Status:      TaskStatus(str(r, "status", "Status")),
		DueDate:     stamp(r, "dueDate", "due_date"),
		ProjectID:   projectID,
		ProjectName: projectName,
		Tags:        str(r, "Tags", "tags"),
		CreatedAt:   stamp(r, "CreatedOn", "createdAt"),
		ModifiedAt:  stamp(r, "ModifiedOn", "updatedAt"),
		TimeTracking: TimeTracking{
			TotalTime: int(num(r, "total_time", "totalTime")),
			TimeLogs:  []TimeLog{},
		},
	}
}
