package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/diewo77/go-crm/httpx"
	"github.com/diewo77/go-crm/internal/services"
)

// entityService is the uniform record-access contract every entity service
// satisfies.
type entityService[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id any) (*T, error)
	Create(ctx context.Context, f services.Fields) (*T, error)
	CreateMany(ctx context.Context, batch []services.Fields) ([]T, error)
	Update(ctx context.Context, id any, f services.Fields) (*T, error)
	Delete(ctx context.Context, id any) (bool, error)
}

// EntityHandler serves the CRUD routes of one entity.
type EntityHandler[T any] struct {
	svc entityService[T]
	// filter, when set, answers List requests carrying a query filter.
	filter func(ctx context.Context, r *http.Request) ([]T, bool, error)
	// enrich decorates single records before they are written out.
	enrich func(ctx context.Context, v *T) error
}

func (h *EntityHandler[T]) List(w http.ResponseWriter, r *http.Request) {
	ctx, rec := notes(r)
	if h.filter != nil {
		items, handled, err := h.filter(ctx, r)
		if handled {
			if err != nil {
				writeError(w, err, rec)
				return
			}
			writeData(w, http.StatusOK, items, rec)
			return
		}
	}
	items, err := h.svc.List(ctx)
	if err != nil {
		writeError(w, err, rec)
		return
	}
	writeData(w, http.StatusOK, items, rec)
}

func (h *EntityHandler[T]) View(w http.ResponseWriter, r *http.Request) {
	ctx, rec := notes(r)
	v, err := h.svc.Get(ctx, r.PathValue("id"))
	if err == nil && h.enrich != nil {
		err = h.enrich(ctx, v)
	}
	if err != nil {
		writeError(w, err, rec)
		return
	}
	writeData(w, http.StatusOK, v, rec)
}

func (h *EntityHandler[T]) Create(w http.ResponseWriter, r *http.Request) {
	f, ok := readFields(w, r)
	if !ok {
		return
	}
	ctx, rec := notes(r)
	v, err := h.svc.Create(ctx, f)
	if err != nil {
		writeError(w, err, rec)
		return
	}
	writeData(w, http.StatusCreated, v, rec)
}

// CreateBatch accepts {"records": [...]}. Partial success answers 207 with
// the created records.
func (h *EntityHandler[T]) CreateBatch(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Records []services.Fields `json:"records"`
	}
	if err := httpx.Decode(r, &body); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if len(body.Records) == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "no_records", nil)
		return
	}
	ctx, rec := notes(r)
	items, err := h.svc.CreateMany(ctx, body.Records)
	var pe *services.PartialWriteError
	switch {
	case errors.As(err, &pe) && len(items) > 0:
		httpx.JSON(w, http.StatusMultiStatus, struct {
			response
			Error   string   `json:"error"`
			Details []string `json:"details"`
		}{response{Data: items, Notifications: noteList(rec)}, "partial_write", pe.Messages})
	case err != nil:
		writeError(w, err, rec)
	default:
		writeData(w, http.StatusCreated, items, rec)
	}
}

func (h *EntityHandler[T]) Update(w http.ResponseWriter, r *http.Request) {
	f, ok := readFields(w, r)
	if !ok {
		return
	}
	ctx, rec := notes(r)
	v, err := h.svc.Update(ctx, r.PathValue("id"), f)
	if err != nil {
		writeError(w, err, rec)
		return
	}
	writeData(w, http.StatusOK, v, rec)
}

func (h *EntityHandler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, rec := notes(r)
	deleted, err := h.svc.Delete(ctx, r.PathValue("id"))
	if err != nil {
		writeError(w, err, rec)
		return
	}
	status := http.StatusOK
	if !deleted {
		status = http.StatusUnprocessableEntity
	}
	writeData(w, status, map[string]bool{"deleted": deleted}, rec)
}

// Register mounts the entity routes under prefix, e.g. "/api/clients".
func (h *EntityHandler[T]) Register(mux *http.ServeMux, prefix string, wrap func(http.Handler) http.Handler) {
	mux.Handle("GET "+prefix, wrap(http.HandlerFunc(h.List)))
	mux.Handle("POST "+prefix, wrap(http.HandlerFunc(h.Create)))
	mux.Handle("POST "+prefix+"/batch", wrap(http.HandlerFunc(h.CreateBatch)))
	mux.Handle("GET "+prefix+"/{id}", wrap(http.HandlerFunc(h.View)))
	mux.Handle("POST "+prefix+"/{id}", wrap(http.HandlerFunc(h.Update)))
	mux.Handle("PUT "+prefix+"/{id}", wrap(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE "+prefix+"/{id}", wrap(http.HandlerFunc(h.Delete)))
}
