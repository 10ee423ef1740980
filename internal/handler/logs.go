package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/micahlt/scratchverifier/internal/httputil"
	"github.com/micahlt/scratchverifier/internal/model"
	"github.com/micahlt/scratchverifier/internal/service"
	"github.com/micahlt/scratchverifier/internal/store"
)

const (
	DefaultLogLimit = 100
	MaxLogLimit     = 500
)

// LogsHandler exposes the audit log for querying; it never accepts writes.
type LogsHandler struct {
	audit *service.AuditService
}

func NewLogsHandler(audit *service.AuditService) *LogsHandler {
	return &LogsHandler{audit: audit}
}

func (h *LogsHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Query)
	r.Get("/{id}", h.GetByID)

	return r
}

// GET /usage/logs: filter params: start (log_id <), before (log_time <=),
// end (log_id >), after (log_time >=), client_id, username, type, limit.
func (h *LogsHandler) Query(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var filter store.LogFilter
	parseErr := false

	parseInt := func(name string) *int64 {
		raw := q.Get(name)
		if raw == "" {
			return nil
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			parseErr = true
			return nil
		}
		return &v
	}

	filter.IDBefore = parseInt("start")
	filter.TimeBefore = parseInt("before")
	filter.IDAfter = parseInt("end")
	filter.TimeAfter = parseInt("after")
	filter.ClientID = parseInt("client_id")

	if username := q.Get("username"); username != "" {
		filter.Username = &username
	}
	if rawType := q.Get("type"); rawType != "" {
		v, err := strconv.Atoi(rawType)
		if err != nil || v < int(model.LogStart) || v > int(model.LogSuccess) {
			parseErr = true
		} else {
			logType := model.LogType(v)
			filter.Type = &logType
		}
	}

	if parseErr {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid filter parameter"})
		return
	}

	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit <= 0 {
		limit = DefaultLogLimit
	} else if limit > MaxLogLimit {
		limit = MaxLogLimit
	}

	entries, err := h.audit.Query(r.Context(), filter, limit)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// GET /usage/logs/{id}
func (h *LogsHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	logID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid log id"})
		return
	}

	entry, err := h.audit.GetByID(r.Context(), logID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if entry == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Log entry not found"})
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
