package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/heartmarshall/gkgfeed/internal/adapter/postgres/gkgrecord"
	"github.com/heartmarshall/gkgfeed/internal/domain"
	"github.com/heartmarshall/gkgfeed/internal/filter"
	"github.com/heartmarshall/gkgfeed/internal/output"
)

// RecordReader is the read side of the record store.
type RecordReader interface {
	Search(ctx context.Context, q gkgrecord.Query) ([]domain.Record, error)
	Count(ctx context.Context, q gkgrecord.Query) (int64, error)
	GetByID(ctx context.Context, id string) (*domain.Record, error)
}

// RecordHandler serves stored GKG records.
type RecordHandler struct {
	store RecordReader
	log   *slog.Logger
}

// NewRecordHandler creates a RecordHandler.
func NewRecordHandler(store RecordReader, log *slog.Logger) *RecordHandler {
	return &RecordHandler{store: store, log: log}
}

// RecordPage is the response of GET /records.
type RecordPage struct {
	Total   int64             `json:"total"`
	Limit   int               `json:"limit"`
	Offset  int               `json:"offset"`
	Records []json.RawMessage `json:"records"`
}

// List handles GET /records.
func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	q, err := parseRecordQuery(params)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if err := q.Validate(); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if q.Limit == 0 {
		q.Limit = gkgrecord.DefaultLimit
	}

	total, err := h.store.Count(r.Context(), q)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	records, err := h.store.Search(r.Context(), q)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	fields := splitFields(params.Get("fields"))
	page := RecordPage{
		Total:   total,
		Limit:   q.Limit,
		Offset:  q.Offset,
		Records: make([]json.RawMessage, 0, len(records)),
	}
	for i := range records {
		doc, err := encodeRecord(&records[i], fields)
		if err != nil {
			writeError(w, r, h.log, err)
			return
		}
		page.Records = append(page.Records, doc)
	}

	writeJSON(w, http.StatusOK, page)
}

// Get handles GET /records/{id}.
func (h *RecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.store.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	doc, err := encodeRecord(rec, splitFields(r.URL.Query().Get("fields")))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func encodeRecord(rec *domain.Record, fields []string) (json.RawMessage, error) {
	if len(fields) == 0 {
		return json.Marshal(rec)
	}
	return output.Project(rec, fields)
}

// parseRecordQuery maps query parameters onto a store query. Every malformed
// parameter is reported, not just the first.
func parseRecordQuery(params url.Values) (gkgrecord.Query, error) {
	q := gkgrecord.Query{
		Country: strings.TrimSpace(params.Get("country")),
		Theme:   strings.TrimSpace(params.Get("theme")),
		Person:  strings.TrimSpace(params.Get("person")),
		Source:  strings.TrimSpace(params.Get("source")),
	}

	var errs []domain.FieldError
	fail := func(field, msg string) {
		errs = append(errs, domain.FieldError{Field: field, Message: msg})
	}

	if v := params.Get("tone_min"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			fail("tone_min", "must be a number")
		} else {
			q.ToneMin = &f
		}
	}
	if v := params.Get("tone_max"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			fail("tone_max", "must be a number")
		} else {
			q.ToneMax = &f
		}
	}
	if v := params.Get("date_from"); v != "" {
		d, err := filter.ParseDateBound(v, false)
		if err != nil {
			fail("date_from", "must be YYYYMMDD or YYYYMMDDHHMMSS")
		} else {
			q.DateFrom = &d
		}
	}
	if v := params.Get("date_to"); v != "" {
		d, err := filter.ParseDateBound(v, true)
		if err != nil {
			fail("date_to", "must be YYYYMMDD or YYYYMMDDHHMMSS")
		} else {
			q.DateTo = &d
		}
	}
	if v := params.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			fail("limit", "must be an integer")
		} else {
			q.Limit = n
		}
	}
	if v := params.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			fail("offset", "must be an integer")
		} else {
			q.Offset = n
		}
	}

	if len(errs) > 0 {
		return q, domain.NewValidationErrors(errs)
	}
	return q, nil
}

func splitFields(s string) []string {
	var fields []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}
