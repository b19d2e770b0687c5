package apper

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/diewo77/go-crm/httpx"
	"github.com/diewo77/go-crm/internal/records"
)

// NewHandler serves any records.Backend over the same routes the Client
// calls, so a store-backed instance can act as the hosted backend.
// Requests must carry publicKey; with an empty key every request is refused.
func NewHandler(backend records.Backend, publicKey string) http.Handler {
	h := &handler{backend: backend, publicKey: publicKey}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/tables/{table}/records/query", h.fetch)
	mux.HandleFunc("POST /v1/tables/{table}/records/{id}/query", h.get)
	mux.HandleFunc("POST /v1/tables/{table}/records", h.create)
	mux.HandleFunc("PUT /v1/tables/{table}/records", h.update)
	mux.HandleFunc("DELETE /v1/tables/{table}/records", h.remove)
	return h.authorize(mux)
}

type handler struct {
	backend   records.Backend
	publicKey string
}

func (h *handler) authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.publicKey == "" || r.Header.Get(publicKeyHeader) != h.publicKey {
			reply(w, http.StatusUnauthorized, records.Failure("Invalid public key"), nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *handler) fetch(w http.ResponseWriter, r *http.Request) {
	var p records.FetchParams
	if !decode(w, r, &p) {
		return
	}
	env, err := h.backend.FetchRecords(r.Context(), r.PathValue("table"), p)
	reply(w, http.StatusOK, env, err)
}

func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		reply(w, http.StatusBadRequest, records.Failure("Invalid record id"), nil)
		return
	}
	var p records.FetchParams
	if !decode(w, r, &p) {
		return
	}
	env, err := h.backend.GetRecordByID(r.Context(), r.PathValue("table"), id, p)
	reply(w, http.StatusOK, env, err)
}

func (h *handler) create(w http.ResponseWriter, r *http.Request) {
	var p records.WriteParams
	if !decode(w, r, &p) {
		return
	}
	env, err := h.backend.CreateRecord(r.Context(), r.PathValue("table"), p)
	reply(w, http.StatusOK, env, err)
}

func (h *handler) update(w http.ResponseWriter, r *http.Request) {
	var p records.WriteParams
	if !decode(w, r, &p) {
		return
	}
	env, err := h.backend.UpdateRecord(r.Context(), r.PathValue("table"), p)
	reply(w, http.StatusOK, env, err)
}

func (h *handler) remove(w http.ResponseWriter, r *http.Request) {
	var p records.DeleteParams
	if !decode(w, r, &p) {
		return
	}
	env, err := h.backend.DeleteRecord(r.Context(), r.PathValue("table"), p)
	reply(w, http.StatusOK, env, err)
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(dst); err != nil && err != io.EOF {
		reply(w, http.StatusBadRequest, records.Failure("Malformed request body"), nil)
		return false
	}
	return true
}

// reply writes env. A backend error becomes a 500 failure envelope.
func reply(w http.ResponseWriter, status int, env *records.Envelope, err error) {
	if err != nil {
		log.Printf("[apper] backend error: %v", err)
		status, env = http.StatusInternalServerError, records.Failure(err.Error())
	}
	if !env.Success && status == http.StatusOK {
		status = http.StatusBadRequest
	}
	httpx.JSON(w, status, env)
}
