package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/diewo77/go-crm/validation"
)

// Sentinel errors returned by the timer verbs.
var (
	ErrTimerRunning  = errors.New("timer_already_running")
	ErrNoActiveTimer = errors.New("no_active_timer")
)

// ValidationError is a local failure; the backend was never called.
type ValidationError struct {
	Entity     string
	Violations validation.Violations
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", strings.ToLower(e.Entity), strings.Join(e.Violations.Messages(), "; "))
}

// Field returns the message recorded for field, if any.
func (e *ValidationError) Field(name string) (string, bool) {
	msg, ok := e.Violations[name]
	return msg, ok
}

// TransportError is a call-level failure: success:false in the envelope, or
// the backend could not be reached at all.
type TransportError struct {
	Op      string
	Table   string
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s failed", e.Op, e.Table)
}

func (e *TransportError) Unwrap() error { return e.Err }

// NotFoundError is a by-id read that returned no data.
type NotFoundError struct {
	Entity string
	ID     int
}

func (e *NotFoundError) Error() string { return e.Entity + " not found" }

// WriteError means no record of a write call succeeded.
type WriteError struct {
	Op       string
	Entity   string
	Messages []string
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("No records were %s successfully", pastTense(e.Op))
}

// PartialWriteError means some records of a batch failed while others succeeded.
type PartialWriteError struct {
	Op       string
	Entity   string
	Failed   int
	Total    int
	Messages []string
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("failed to %s %d of %d %s records", e.Op, e.Failed, e.Total, strings.ToLower(e.Entity))
}

func pastTense(op string) string {
	switch op {
	case opCreate:
		return "created"
	case opUpdate:
		return "updated"
	case opDelete:
		return "deleted"
	}
	return op
}
