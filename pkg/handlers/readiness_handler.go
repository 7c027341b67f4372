package handlers

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/infradyn/delivery-engine/pkg/apperrors"
	"github.com/infradyn/delivery-engine/pkg/readiness"
	"github.com/infradyn/delivery-engine/pkg/services"
)

// ReadinessHandler serves the three-level readiness rollup.
type ReadinessHandler struct {
	svc    services.ReadinessService
	logger *zap.Logger
}

// NewReadinessHandler creates a new ReadinessHandler.
func NewReadinessHandler(svc services.ReadinessService, logger *zap.Logger) *ReadinessHandler {
	return &ReadinessHandler{svc: svc, logger: logger.Named("readiness-handler")}
}

// RegisterRoutes registers the readiness routes on the given mux.
func (h *ReadinessHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/projects/{pid}/readiness/disciplines", h.Disciplines)
	mux.HandleFunc("GET /api/projects/{pid}/readiness/disciplines/{discipline}/classes", h.MaterialClasses)
	mux.HandleFunc("GET /api/projects/{pid}/readiness/disciplines/{discipline}/weeks", h.WeeklyBatches)
}

type disciplinesResponse struct {
	AsOf time.Time                       `json:"asOf"`
	Rows []readiness.DisciplineSummaryRow `json:"rows"`
}

type materialClassesResponse struct {
	AsOf time.Time                  `json:"asOf"`
	Rows []readiness.MaterialClassRow `json:"rows"`
}

type weeklyBatchesResponse struct {
	AsOf time.Time                 `json:"asOf"`
	Rows []readiness.WeeklyBatchRow `json:"rows"`
}

// Disciplines handles GET /api/projects/{pid}/readiness/disciplines.
func (h *ReadinessHandler) Disciplines(w http.ResponseWriter, r *http.Request) {
	projectID, ok := ParseProjectID(w, r, h.logger)
	if !ok {
		return
	}
	asOf, ok := ParseAsOf(w, r, h.logger)
	if !ok {
		return
	}

	rows, err := h.svc.DisciplineSummary(r.Context(), projectID, asOf)
	if err != nil {
		h.writeServiceError(w, err, "Failed to compute discipline summary")
		return
	}

	if err := WriteJSON(w, http.StatusOK, disciplinesResponse{AsOf: asOf, Rows: rows}); err != nil {
		h.logger.Error("Failed to encode discipline summary", zap.Error(err))
	}
}

// MaterialClasses handles GET /api/projects/{pid}/readiness/disciplines/{discipline}/classes.
func (h *ReadinessHandler) MaterialClasses(w http.ResponseWriter, r *http.Request) {
	projectID, ok := ParseProjectID(w, r, h.logger)
	if !ok {
		return
	}
	asOf, ok := ParseAsOf(w, r, h.logger)
	if !ok {
		return
	}

	rows, err := h.svc.MaterialClassSummary(r.Context(), projectID, r.PathValue("discipline"), asOf)
	if err != nil {
		h.writeServiceError(w, err, "Failed to compute material class summary")
		return
	}

	if err := WriteJSON(w, http.StatusOK, materialClassesResponse{AsOf: asOf, Rows: rows}); err != nil {
		h.logger.Error("Failed to encode material class summary", zap.Error(err))
	}
}

// WeeklyBatches handles GET /api/projects/{pid}/readiness/disciplines/{discipline}/weeks.
// The optional class query parameter selects the material class; empty
// selects the uncategorised bucket.
func (h *ReadinessHandler) WeeklyBatches(w http.ResponseWriter, r *http.Request) {
	projectID, ok := ParseProjectID(w, r, h.logger)
	if !ok {
		return
	}
	asOf, ok := ParseAsOf(w, r, h.logger)
	if !ok {
		return
	}

	class := r.URL.Query().Get("class")
	rows, err := h.svc.WeeklyBatches(r.Context(), projectID, r.PathValue("discipline"), class, asOf)
	if err != nil {
		h.writeServiceError(w, err, "Failed to compute weekly batches")
		return
	}

	if err := WriteJSON(w, http.StatusOK, weeklyBatchesResponse{AsOf: asOf, Rows: rows}); err != nil {
		h.logger.Error("Failed to encode weekly batches", zap.Error(err))
	}
}

func (h *ReadinessHandler) writeServiceError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, apperrors.ErrUnknownDiscipline):
		_ = ErrorResponse(w, http.StatusNotFound, "unknown_discipline", err.Error())
	case errors.Is(err, apperrors.ErrInvalidInput):
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_input", err.Error())
	default:
		h.logger.Error(logMsg, zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}
