package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/heartmarshall/gkgfeed/internal/domain"
)

func newRunsRouter(store RunReader) http.Handler {
	h := NewRunHandler(store, discardLogger())
	r := chi.NewRouter()
	r.Get("/runs", h.List)
	r.Get("/runs/{id}", h.Get)
	return r
}

func TestRunList(t *testing.T) {
	t.Parallel()

	store := &fakeRuns{runs: []domain.IngestRun{
		{ID: uuid.New(), Source: "a.gkg.csv", Status: domain.RunSucceeded, Stored: 3, StartedAt: time.Now()},
	}}
	h := newRunsRouter(store)

	rec := serve(t, h, "/runs?limit=5")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if store.lastLimit != 5 {
		t.Errorf("limit = %d, want 5", store.lastLimit)
	}
	var runs []domain.IngestRun
	if err := json.NewDecoder(rec.Body).Decode(&runs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(runs) != 1 || runs[0].Stored != 3 {
		t.Errorf("unexpected runs: %+v", runs)
	}

	for _, bad := range []string{"0", "101", "many"} {
		if rec := serve(t, h, "/runs?limit="+bad); rec.Code != http.StatusBadRequest {
			t.Errorf("limit=%s: expected 400, got %d", bad, rec.Code)
		}
	}
}

func TestRunList_StoreError(t *testing.T) {
	t.Parallel()

	rec := serve(t, newRunsRouter(&fakeRuns{err: errors.New("boom")}), "/runs")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestRunGet(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	h := newRunsRouter(&fakeRuns{runs: []domain.IngestRun{{ID: id, Status: domain.RunRunning}}})

	if rec := serve(t, h, "/runs/"+id.String()); rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if rec := serve(t, h, "/runs/"+uuid.NewString()); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if rec := serve(t, h, "/runs/not-a-uuid"); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
