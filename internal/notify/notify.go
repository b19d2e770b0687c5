// Package notify carries user-facing, non-blocking notifications out of the
// record-access layer.
package notify

import (
	"context"
	"log"
	"sync"
)

// Notifier receives user-facing messages.
type Notifier interface {
	Error(msg string)
	Success(msg string)
}

type ctxKey struct{}

// WithNotifier returns a context whose notifications go to n.
func WithNotifier(ctx context.Context, n Notifier) context.Context {
	return context.WithValue(ctx, ctxKey{}, n)
}

// From returns the context notifier, or fallback when none is set.
func From(ctx context.Context, fallback Notifier) Notifier {
	if n, ok := ctx.Value(ctxKey{}).(Notifier); ok && n != nil {
		return n
	}
	if fallback == nil {
		return Discard
	}
	return fallback
}

// Log writes notifications to the standard logger.
type Log struct{}

func (Log) Error(msg string)   { log.Printf("[notify] error: %s", msg) }
func (Log) Success(msg string) { log.Printf("[notify] success: %s", msg) }

type discard struct{}

func (discard) Error(string)   {}
func (discard) Success(string) {}

// Discard drops every notification.
var Discard Notifier = discard{}

// Level tells errors and successes apart in a Recorder.
type Level string

const (
	LevelError   Level = "error"
	LevelSuccess Level = "success"
)

// Note is one recorded notification.
type Note struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Recorder keeps notifications in order. Safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	notes []Note
}

func (r *Recorder) Error(msg string)   { r.add(LevelError, msg) }
func (r *Recorder) Success(msg string) { r.add(LevelSuccess, msg) }

func (r *Recorder) add(l Level, msg string) {
	r.mu.Lock()
	r.notes = append(r.notes, Note{Level: l, Message: msg})
	r.mu.Unlock()
}

// Notes returns a copy of everything recorded so far.
func (r *Recorder) Notes() []Note {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Note, len(r.notes))
	copy(out, r.notes)
	return out
}

// Errors returns only the error messages.
func (r *Recorder) Errors() []string {
	var out []string
	for _, n := range r.Notes() {
		if n.Level == LevelError {
			out = append(out, n.Message)
		}
	}
	return out
}
