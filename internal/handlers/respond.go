// Package handlers is the JSON presentation layer over the record services.
package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/diewo77/go-crm/httpx"
	"github.com/diewo77/go-crm/internal/notify"
	"github.com/diewo77/go-crm/internal/services"
)

// response wraps every successful body.
type response struct {
	Data          any           `json:"data"`
	Notifications []notify.Note `json:"notifications"`
}

// notes installs a per-request recorder so the reply can carry every
// notification raised while serving it.
func notes(r *http.Request) (context.Context, *notify.Recorder) {
	rec := &notify.Recorder{}
	return notify.WithNotifier(r.Context(), rec), rec
}

func noteList(rec *notify.Recorder) []notify.Note {
	n := rec.Notes()
	if n == nil {
		return []notify.Note{}
	}
	return n
}

func writeData(w http.ResponseWriter, status int, data any, rec *notify.Recorder) {
	httpx.JSON(w, status, response{Data: data, Notifications: noteList(rec)})
}

// writeError maps the service error taxonomy to HTTP statuses.
func writeError(w http.ResponseWriter, err error, rec *notify.Recorder) {
	var (
		ve *services.ValidationError
		nf *services.NotFoundError
		we *services.WriteError
		pe *services.PartialWriteError
		te *services.TransportError
	)
	status, code := http.StatusInternalServerError, "internal_error"
	var details any
	switch {
	case errors.As(err, &ve):
		status, code, details = http.StatusBadRequest, "validation_failed", ve.Violations
	case errors.As(err, &nf):
		status, code = http.StatusNotFound, "not_found"
	case errors.As(err, &we):
		status, code, details = http.StatusUnprocessableEntity, "write_failed", we.Messages
	case errors.As(err, &pe):
		status, code, details = http.StatusUnprocessableEntity, "partial_write", pe.Messages
	case errors.As(err, &te):
		status, code = http.StatusBadGateway, "backend_error"
	case errors.Is(err, services.ErrTimerRunning), errors.Is(err, services.ErrNoActiveTimer):
		status, code = http.StatusConflict, "timer_conflict"
	default:
		log.Printf("[handlers] unexpected error: %v", err)
	}
	httpx.JSON(w, status, httpx.ErrorResponse{Error: code, Details: details, Notifications: noteList(rec)})
}

// readFields decodes the JSON body into loosely shaped fields.
func readFields(w http.ResponseWriter, r *http.Request) (services.Fields, bool) {
	f := services.Fields{}
	if err := httpx.Decode(r, &f); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return nil, false
	}
	return f, true
}
