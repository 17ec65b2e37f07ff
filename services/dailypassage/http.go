package dailypassage

import (
	"dailyreading-backend/lib/daykey"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

type errorResponse struct {
	Error string `json:"error"`
}

type listDaysResponse struct {
	DayKeys []string    `json:"dayKeys"`
	Days    []CachedDay `json:"days"`
}

type listReflectionsResponse struct {
	Reflections []Reflection `json:"reflections"`
}

type addReflectionRequest struct {
	Content string `json:"content"`
}

// Register mounts the service's routes onto mux.
func (s Service) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/get-passage", s.handleGetPassage)
	mux.HandleFunc("GET /api/days", s.handleListDays)
	mux.HandleFunc("GET /api/passages/{dayKey}", s.handleGetArchived)
	mux.HandleFunc("GET /api/reflections/{readingId}", s.handleListReflections)
	mux.HandleFunc("POST /api/reflections/{readingId}", s.handleAddReflection)
}

func writeJson(w http.ResponseWriter, status int, value any) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	err := enc.Encode(value)
	if err != nil {
		slog.Warn("write json response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJson(w, status, errorResponse{Error: err.Error()})
}

func (s Service) handleGetPassage(w http.ResponseWriter, r *http.Request) {
	result, err := s.GetPassage(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJson(w, http.StatusOK, result)
}

func (s Service) handleListDays(w http.ResponseWriter, r *http.Request) {
	days, err := s.ListDays(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	keys := make([]string, len(days))
	for i, day := range days {
		keys[i] = day.DayKey
	}
	writeJson(w, http.StatusOK, listDaysResponse{DayKeys: keys, Days: days})
}

func (s Service) handleGetArchived(w http.ResponseWriter, r *http.Request) {
	result, err := s.GetArchived(r.Context(), r.PathValue("dayKey"))
	var parseErr *daykey.ParseError
	switch {
	case errors.As(err, &parseErr):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, ErrNotCached):
		writeError(w, http.StatusNotFound, err)
	case err != nil:
		writeError(w, http.StatusInternalServerError, err)
	default:
		writeJson(w, http.StatusOK, result)
	}
}

func (s Service) handleListReflections(w http.ResponseWriter, r *http.Request) {
	reflections, err := s.ListReflections(r.Context(), r.PathValue("readingId"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJson(w, http.StatusOK, listReflectionsResponse{Reflections: reflections})
}

func (s Service) handleAddReflection(w http.ResponseWriter, r *http.Request) {
	var req addReflectionRequest
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	reflection, err := s.AddReflection(r.Context(), r.PathValue("readingId"), req.Content)
	if errors.Is(err, ErrEmptyReflection) {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJson(w, http.StatusCreated, reflection)
}
