package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/heartmarshall/gkgfeed/internal/domain"
)

const maxRunsLimit = 100

// RunReader is the read side of the ingest run log.
type RunReader interface {
	GetRun(ctx context.Context, id uuid.UUID) (*domain.IngestRun, error)
	ListRuns(ctx context.Context, limit int) ([]domain.IngestRun, error)
}

// RunHandler serves the ingest run log.
type RunHandler struct {
	store RunReader
	log   *slog.Logger
}

// NewRunHandler creates a RunHandler.
func NewRunHandler(store RunReader, log *slog.Logger) *RunHandler {
	return &RunHandler{store: store, log: log}
}

// List handles GET /runs. The optional limit parameter caps the result.
func (h *RunHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxRunsLimit {
			writeError(w, r, h.log, domain.NewValidationError("limit", "must be between 1 and "+strconv.Itoa(maxRunsLimit)))
			return
		}
		limit = n
	}

	runs, err := h.store.ListRuns(r.Context(), limit)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

// Get handles GET /runs/{id}.
func (h *RunHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.log, domain.NewValidationError("id", "must be a UUID"))
		return
	}

	run, err := h.store.GetRun(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}
