package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/diewo77/go-crm/internal/models"
	"github.com/diewo77/go-crm/internal/records"
	"github.com/spf13/cast"
)

var timeLogTable = table{
	name:   "time_log",
	entity: "TimeLog",
	fields: []string{"Id", "Name", "task_id", "startTime", "endTime", "duration", "date", "CreatedOn"},
}

// TimerService tracks time spent on tasks. At most one open log exists per task.
type TimerService struct {
	*access
}

func NewTimerService(a *access) *TimerService {
	return &TimerService{access: a}
}

func timerMessage(err error) string {
	switch {
	case errors.Is(err, ErrTimerRunning):
		return "A timer is already running for this task"
	case errors.Is(err, ErrNoActiveTimer):
		return "No active timer for this task"
	}
	return err.Error()
}

// Start opens a time log on the task.
func (s *TimerService) Start(ctx context.Context, taskID any) (*models.TimeLog, error) {
	id, err := s.parseID(ctx, taskTable, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := s.getRecord(ctx, taskTable, id); err != nil {
		return nil, err
	}
	open, err := s.active(ctx, id)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, s.fail(ctx, timeLogTable, fmt.Errorf("task %d: %w", id, ErrTimerRunning))
	}

	start := s.now().UTC()
	out, err := s.write(ctx, opCreate, timeLogTable, []records.Record{{
		"Name":      fmt.Sprintf("Task %d timer", id),
		"task_id":   id,
		"startTime": start.Format(time.RFC3339),
		"date":      start.Format(models.DateLayout),
	}})
	if len(out) == 0 {
		return nil, err
	}
	l := models.TimeLogFromRecord(out[0])
	return &l, nil
}

// Stop closes the open time log and adds its duration to the task's total.
func (s *TimerService) Stop(ctx context.Context, taskID any) (*models.TimeLog, error) {
	id, err := s.parseID(ctx, taskTable, taskID)
	if err != nil {
		return nil, err
	}
	open, err := s.active(ctx, id)
	if err != nil {
		return nil, err
	}
	if open == nil {
		return nil, s.fail(ctx, timeLogTable, fmt.Errorf("task %d: %w", id, ErrNoActiveTimer))
	}

	end := s.now().UTC()
	duration := 0
	if open.StartTime != nil && end.After(*open.StartTime) {
		duration = int(end.Sub(*open.StartTime) / time.Second)
	}
	out, err := s.write(ctx, opUpdate, timeLogTable, []records.Record{{
		"Id":       open.ID,
		"endTime":  end.Format(time.RFC3339),
		"duration": duration,
	}})
	if len(out) == 0 {
		return nil, err
	}

	task, err := s.getRecord(ctx, taskTable, id)
	if err != nil {
		return nil, err
	}
	total := cast.ToInt(task["total_time"]) + duration
	if _, err := s.write(ctx, opUpdate, taskTable, []records.Record{{"Id": id, "total_time": total}}); err != nil {
		return nil, err
	}
	l := models.TimeLogFromRecord(out[0])
	return &l, nil
}

// Logs returns the task's time logs, newest first.
func (s *TimerService) Logs(ctx context.Context, taskID any) ([]models.TimeLog, error) {
	id, err := s.parseID(ctx, taskTable, taskID)
	if err != nil {
		return nil, err
	}
	return s.logs(ctx, id)
}

// Track fills t.TimeTracking with the task's logs and open timer.
func (s *TimerService) Track(ctx context.Context, t *models.Task) error {
	logs, err := s.logs(ctx, t.ID)
	if err != nil {
		return err
	}
	t.TimeTracking.TimeLogs = logs
	t.TimeTracking.ActiveTimer = nil
	for i := range logs {
		if logs[i].Running() {
			t.TimeTracking.ActiveTimer = &logs[i]
			break
		}
	}
	return nil
}

func (s *TimerService) logs(ctx context.Context, taskID int) ([]models.TimeLog, error) {
	recs, err := s.fetch(ctx, timeLogTable, records.FetchParams{
		Where:   []records.Condition{{FieldName: "task_id", Operator: records.OpEqualTo, Values: []any{taskID}}},
		OrderBy: []records.Order{{FieldName: "startTime", SortType: "DESC"}},
	})
	if err != nil {
		return nil, err
	}
	out := make([]models.TimeLog, 0, len(recs))
	for _, r := range recs {
		out = append(out, models.TimeLogFromRecord(r))
	}
	return out, nil
}

func (s *TimerService) active(ctx context.Context, taskID int) (*models.TimeLog, error) {
	logs, err := s.logs(ctx, taskID)
	if err != nil {
		return nil, err
	}
	for i := range logs {
		if logs[i].Running() {
			return &logs[i], nil
		}
	}
	return nil, nil
}
