package models

import (
	"time"

	"github.com/diewo77/go-crm/internal/records"
)

// TimeLog is one tracked interval on a task. Duration is in seconds.
type TimeLog struct {
	ID        int        `json:"id"`
	TaskID    int        `json:"taskId"`
	StartTime *time.Time `json:"startTime,omitempty"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	Duration  int        `json:"duration"`
	Date      string     `json:"date,omitempty"`
}

// Running reports whether the interval is still open.
func (l *TimeLog) Running() bool {
	return l.EndTime == nil
}

// TimeLogFromRecord maps a backend record to a TimeLog.
func TimeLogFromRecord(r records.Record) TimeLog {
	taskID, _ := ref(r, "task_id", "taskId")
	return TimeLog{
		ID:        int(num(r, "Id", "id")),
		TaskID:    taskID,
		StartTime: stamp(r, "startTime", "start_time"),
		EndTime:   stamp(r, "endTime", "end_time"),
		Duration:  int(num(r, "duration", "Duration")),
		Date:      str(r, "date", "Date"),
	}
}
