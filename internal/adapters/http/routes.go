package web

import "net/http"

func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", handleHealth)
	mux.HandleFunc("GET /years", handleYears)
	mux.HandleFunc("GET /rooms", handleRooms)
	mux.HandleFunc("GET /activities", handleActivities)
	mux.HandleFunc("GET /students", handleStudents)
	mux.HandleFunc("GET /activities/{id}/participants", handleGetParticipants)
	mux.HandleFunc("POST /activities/{id}/participants", handleSaveParticipants)
	mux.HandleFunc("GET /debug/perf", handlePerf)
}
