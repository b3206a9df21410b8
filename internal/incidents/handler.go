package incidents

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"

	"safetyboard/internal/metrics"
)

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, fields map[string]string) {
	writeJSON(w, status, errorBody{Error: msg, Fields: fields})
}

// filterFromQuery overlays severity/sort query parameters on base.
func filterFromQuery(r *http.Request, base FilterState) (FilterState, bool) {
	q := r.URL.Query()
	f := base
	changed := false
	if sev := q.Get("severity"); sev != "" {
		f.Severity = Severity(sev)
		changed = true
	}
	if dir := q.Get("sort"); dir != "" {
		f.SortDirection = SortDirection(dir)
		changed = true
	}
	return f, changed
}

// ListHandler serves the derived incident view and accepts new reports.
type ListHandler struct {
	Store  *Store
	Logger *slog.Logger
	// SubmitDelay holds a report back before it is stored.
	SubmitDelay time.Duration
}

func (h *ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *ListHandler) list(w http.ResponseWriter, r *http.Request) {
	if f, changed := filterFromQuery(r, h.Store.Filter()); changed {
		if err := f.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error(), nil)
			return
		}
		h.Store.SetFilter(f)
		metrics.ObserveFilterChange()
	}
	writeJSON(w, http.StatusOK, h.Store.Visible())
}

// validateReport mirrors the dashboard form checks: both text fields are
// required and severity defaults to Medium.
func validateReport(in *NewIncident) map[string]string {
	fields := map[string]string{}
	if strings.TrimSpace(in.Title) == "" {
		fields["title"] = "Title is required"
	}
	if strings.TrimSpace(in.Description) == "" {
		fields["description"] = "Description is required"
	}
	if in.Severity == "" {
		in.Severity = SeverityMedium
	} else if !in.Severity.Valid() {
		fields["severity"] = "Severity must be Low, Medium or High"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func (h *ListHandler) create(w http.ResponseWriter, r *http.Request) {
	var in NewIncident
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body", nil)
		return
	}
	if fields := validateReport(&in); fields != nil {
		writeError(w, http.StatusBadRequest, "All fields are required", fields)
		return
	}

	if h.SubmitDelay > 0 {
		timer := time.NewTimer(h.SubmitDelay)
		select {
		case <-r.Context().Done():
			timer.Stop()
			h.Logger.Warn("incident report abandoned", "err", r.Context().Err())
			return
		case <-timer.C:
		}
	}

	inc, err := h.Store.Add(in)
	if err != nil {
		if errors.Is(err, ErrInvalidIncident) {
			writeError(w, http.StatusBadRequest, err.Error(), nil)
			return
		}
		h.Logger.Error("add incident", "err", err)
		writeError(w, http.StatusInternalServerError, "Something went wrong", nil)
		return
	}
	metrics.ObserveIncidentCreated(string(inc.Severity))
	h.Logger.Info("incident reported", "id", inc.ID, "severity", inc.Severity)
	writeJSON(w, http.StatusCreated, inc)
}

// DetailHandler serves a single incident.
type DetailHandler struct {
	Store  *Store
	Logger *slog.Logger
}

func (h *DetailHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id := chi.URLParam(r, "id")
	inc, ok := h.Store.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "incident not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, inc)
}

// ToggleHandler flips the detail expansion of one incident. Unknown ids are
// accepted and ignored.
type ToggleHandler struct {
	Store  *Store
	Logger *slog.Logger
}

func (h *ToggleHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id := chi.URLParam(r, "id")
	found := h.Store.ToggleExpansion(id)
	metrics.ObserveToggle(found)
	if !found {
		h.Logger.Debug("toggle for unknown incident", "id", id)
	}
	w.WriteHeader(http.StatusNoContent)
}

// FilterHandler reads and replaces the active filter.
type FilterHandler struct {
	Store  *Store
	Logger *slog.Logger
}

func (h *FilterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.Store.Filter())
	case http.MethodPut:
		var f FilterState
		if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
			writeError(w, http.StatusBadRequest, "malformed request body", nil)
			return
		}
		if err := f.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error(), nil)
			return
		}
		h.Store.SetFilter(f)
		metrics.ObserveFilterChange()
		h.Logger.Info("filter changed", "severity", f.Severity, "sort", f.SortDirection)
		writeJSON(w, http.StatusOK, f)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
