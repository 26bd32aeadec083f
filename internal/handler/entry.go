// Package handler contains the HTTP request handlers for the journal.
//
// Handlers are the glue between HTTP and the application: parse the request,
// call the service, write the response. Business rules (required fields,
// rating bounds, empty-to-absent normalisation) live in the service layer —
// a handler never decides whether an entry is valid, only how to say so in HTTP.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/coffee-journal/internal/apperror"
	"github.com/sakif/coffee-journal/internal/model"
	"github.com/sakif/coffee-journal/internal/service"
)

// EntryService is what the handler needs from the service layer.
// Declared here (at the consumer) so tests can inject a mock without
// touching the real service or a database.
type EntryService interface {
	Create(ctx context.Context, input service.EntryInput) (*model.CoffeeEntry, error)
	GetByID(ctx context.Context, id string) (*model.CoffeeEntry, error)
	List(ctx context.Context) ([]model.CoffeeEntry, error)
	Delete(ctx context.Context, id string) error
}

// EntryHandler manages CRUD operations for coffee entries.
type EntryHandler struct {
	service EntryService
	logger  *slog.Logger
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(service EntryService, logger *slog.Logger) *EntryHandler {
	return &EntryHandler{
		service: service,
		logger:  logger,
	}
}

// HandleList returns all entries, newest first.
//
// HTTP: GET /coffee-entries
func (h *EntryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list coffee entries", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

// HandleGetByID returns a single entry.
//
// HTTP: GET /coffee-entries/{id}
func (h *EntryHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	entry, err := h.service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

// HandleCreate saves a new entry.
//
// HTTP: POST /coffee-entries
// REQUEST BODY: {"coffee_name":"Ethiopian Keramo","roaster":"Rowan","rating":8.5,...}
//
// Success is 201 with the created record (including its assigned id) echoed
// back; a missing or empty coffee_name is a 400 validation_error.
func (h *EntryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input service.EntryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.logger.Warn("invalid coffee entry JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_json",
			Message: "request body must be a JSON coffee entry",
		})
		return
	}

	entry, err := h.service.Create(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

// HandleDelete removes an entry.
//
// HTTP: DELETE /coffee-entries/{id}
//
// 204 on success, 404 if the id doesn't exist. The 404 is deliberate and
// consistent across layers — deleting an unknown id is never a silent no-op.
func (h *EntryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		if !isExpected(err) {
			h.logger.Error("failed to delete coffee entry",
				slog.String("id", r.PathValue("id")),
				slog.String("error", err.Error()),
			)
		}
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// isExpected reports whether err is a routine domain outcome (not found,
// bad input) rather than a failure worth an error-level log line.
func isExpected(err error) bool {
	var appErr *apperror.AppError
	return errors.As(err, &appErr)
}
