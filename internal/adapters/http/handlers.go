package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"roster/internal/adapters/http/middleware"
	"roster/internal/application/orchestrators"
	"roster/internal/application/projections"
	"roster/internal/domain/participation"
)

// maxSaveBody bounds the save payload.
const maxSaveBody = 1 << 20

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("internal_error", "error", err.Error(), "request_id", middleware.RequestIDFrom(r.Context()))
	writeError(w, http.StatusInternalServerError, "internal server error")
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// requiredRoom parses the mandatory ?room= parameter.
func requiredRoom(r *http.Request) (int, error) {
	v := r.URL.Query().Get("room")
	if v == "" {
		return 0, errors.New("room is required")
	}
	room, err := strconv.Atoi(v)
	if err != nil || room <= 0 {
		return 0, fmt.Errorf("room must be a positive integer, got %q", v)
	}
	return room, nil
}

func activityID(r *http.Request) (int64, error) {
	v := r.PathValue("id")
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("activity id must be a positive integer, got %q", v)
	}
	return id, nil
}

// handleHealth handles GET /health
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "roster-api"})
}

// handleYears handles GET /years
func handleYears(w http.ResponseWriter, r *http.Request) {
	years, err := projections.QueryGetYears(r.Context(), lookupDeps())
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(years))
}

// handleRooms handles GET /rooms?school_year=
func handleRooms(w http.ResponseWriter, r *http.Request) {
	query := projections.GetRoomsQuery{SchoolYear: r.URL.Query().Get("school_year")}
	rooms, err := projections.QueryGetRooms(r.Context(), query, lookupDeps())
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(rooms))
}

// handleActivities handles GET /activities
func handleActivities(w http.ResponseWriter, r *http.Request) {
	acts, err := projections.QueryGetActivities(r.Context(), lookupDeps())
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(acts))
}

func lookupDeps() projections.GetLookupsDeps {
	return projections.GetLookupsDeps{
		StudentStore:  stores.StudentStore,
		ActivityStore: stores.ActivityStore,
	}
}

// handleStudents handles GET /students?room=&school_year=
func handleStudents(w http.ResponseWriter, r *http.Request) {
	room, err := requiredRoom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	query := projections.GetRosterQuery{Room: room, SchoolYear: r.URL.Query().Get("school_year")}
	deps := projections.GetRosterDeps{StudentStore: stores.StudentStore}

	students, err := projections.QueryGetRoster(r.Context(), query, deps)
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, students)
}

// handleGetParticipants handles GET /activities/{id}/participants?room=&school_year=
func handleGetParticipants(w http.ResponseWriter, r *http.Request) {
	id, err := activityID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	room, err := requiredRoom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	query := projections.GetParticipantsQuery{
		ActivityID: id,
		Room:       room,
		SchoolYear: r.URL.Query().Get("school_year"),
	}
	deps := projections.GetParticipantsDeps{ParticipantStore: stores.ParticipantStore}

	rows, err := projections.QueryGetParticipants(r.Context(), query, deps)
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// handleSaveParticipants handles POST /activities/{id}/participants
func handleSaveParticipants(w http.ResponseWriter, r *http.Request) {
	id, err := activityID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req participation.SaveRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxSaveBody)
	if err := strictDecode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Room <= 0 {
		writeError(w, http.StatusBadRequest, "room must be a positive integer")
		return
	}

	input := orchestrators.SaveParticipantsInput{ActivityID: id, Request: req}
	deps := orchestrators.SaveParticipantsDeps{
		ActivityStore:    stores.ActivityStore,
		StudentStore:     stores.StudentStore,
		ParticipantStore: stores.ParticipantStore,
		Publisher:        publisher,
	}

	res, err := orchestrators.ExecuteSaveParticipants(r.Context(), input, deps)
	var rowErr *participation.RowError
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, res)
	case errors.Is(err, orchestrators.ErrActivityNotFound):
		writeError(w, http.StatusNotFound, "activity not found")
	case errors.As(err, &rowErr):
		writeError(w, http.StatusUnprocessableEntity, rowErr.Error())
	default:
		internalError(w, r, err)
	}
}

// handlePerf handles GET /debug/perf?window=5m
func handlePerf(w http.ResponseWriter, r *http.Request) {
	if perfCollector == nil {
		writeError(w, http.StatusNotFound, "perf collector disabled")
		return
	}
	window := 5 * time.Minute
	if v := r.URL.Query().Get("window"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			writeError(w, http.StatusBadRequest, "window must be a positive duration")
			return
		}
		window = d
	}
	writeJSON(w, http.StatusOK, perfCollector.Snapshot(time.Now().Add(-window), 10))
}
