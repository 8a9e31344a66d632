package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edusight/reportgen/internal/model"
	"github.com/edusight/reportgen/internal/report"
	"github.com/edusight/reportgen/internal/similarity"
	"github.com/edusight/reportgen/internal/store"
)

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	similarity *similarity.Service
	store      *store.Store
}

// New creates a new Handler.
func New(sim *similarity.Service, st *store.Store) *Handler {
	return &Handler{similarity: sim, store: st}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/healthcheck", h.handleHealthcheck)
	r.Get("/similarity", h.handleSimilarity)
	r.Get("/student/report", h.handleStudentReport)
	r.Get("/student/report/{studentID}", h.handleStoredReport)
}

func (h *Handler) handleHealthcheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleSimilarity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	// Empty strings are legal inputs; only absent parameters are an error.
	if !q.Has("text1") || !q.Has("text2") {
		writeError(w, http.StatusBadRequest, "text1 and text2 query parameters are required")
		return
	}

	score, err := h.similarity.Compute(r.Context(), q.Get("text1"), q.Get("text2"))
	if err != nil {
		slog.Error("similarity computation failed", "error", err)
		writeError(w, http.StatusBadGateway, "embedding service unavailable")
		return
	}

	writeJSON(w, http.StatusOK, map[string]float64{"similarity": score})
}

func (h *Handler) handleStudentReport(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("data")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "data query parameter is required")
		return
	}

	req, err := report.ParseRequest([]byte(raw))
	if err != nil {
		switch {
		case errors.Is(err, report.ErrDerivation):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	result, err := report.Generate(*req)
	if err != nil {
		slog.Error("report generation failed", "student_id", req.ID, "error", err)
		writeError(w, http.StatusBadGateway, "report generation failed")
		return
	}

	_, err = h.store.SaveArtifact(model.ReportArtifact{
		StudentID:   result.StudentID,
		Token:       result.Token,
		Filename:    result.Filename,
		ContentType: "application/pdf",
		Data:        result.PDF,
	})
	if err != nil {
		slog.Error("store artifact failed", "student_id", result.StudentID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to persist report")
		return
	}

	serveArtifact(w, result.Filename, result.PDF)
}

func (h *Handler) handleStoredReport(w http.ResponseWriter, r *http.Request) {
	studentID := chi.URLParam(r, "studentID")

	a, err := h.store.LatestArtifact(studentID)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "no report stored for student")
		return
	}
	if err != nil {
		slog.Error("load artifact failed", "student_id", studentID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load report")
		return
	}

	serveArtifact(w, a.Filename, a.Data)
}

func serveArtifact(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		slog.Error("write artifact response", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
