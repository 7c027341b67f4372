package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/infradyn/delivery-engine/pkg/services"
)

// DashboardHandler serves the project KPI endpoints.
type DashboardHandler struct {
	svc    services.DashboardService
	logger *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(svc services.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{svc: svc, logger: logger.Named("dashboard-handler")}
}

// RegisterRoutes registers the KPI routes on the given mux.
func (h *DashboardHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/projects/{pid}/kpis/dashboard", h.Dashboard)
	mux.HandleFunc("GET /api/projects/{pid}/kpis/financial", h.Financial)
	mux.HandleFunc("GET /api/projects/{pid}/kpis/logistics", h.Logistics)
}

type kpiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// Dashboard handles GET /api/projects/{pid}/kpis/dashboard.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	projectID, ok := ParseProjectID(w, r, h.logger)
	if !ok {
		return
	}
	asOf, ok := ParseAsOf(w, r, h.logger)
	if !ok {
		return
	}

	kpis, err := h.svc.Dashboard(r.Context(), projectID, asOf)
	if err != nil {
		h.logger.Error("Failed to compute dashboard KPIs", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Internal server error")
		return
	}

	if err := WriteJSON(w, http.StatusOK, kpiResponse{Success: true, Data: kpis}); err != nil {
		h.logger.Error("Failed to encode dashboard KPIs", zap.Error(err))
	}
}

// Financial handles GET /api/projects/{pid}/kpis/financial.
func (h *DashboardHandler) Financial(w http.ResponseWriter, r *http.Request) {
	projectID, ok := ParseProjectID(w, r, h.logger)
	if !ok {
		return
	}
	asOf, ok := ParseAsOf(w, r, h.logger)
	if !ok {
		return
	}

	kpis, err := h.svc.Financial(r.Context(), projectID, asOf)
	if err != nil {
		h.logger.Error("Failed to compute financial KPIs", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Internal server error")
		return
	}

	if err := WriteJSON(w, http.StatusOK, kpiResponse{Success: true, Data: kpis}); err != nil {
		h.logger.Error("Failed to encode financial KPIs", zap.Error(err))
	}
}

// Logistics handles GET /api/projects/{pid}/kpis/logistics.
func (h *DashboardHandler) Logistics(w http.ResponseWriter, r *http.Request) {
	projectID, ok := ParseProjectID(w, r, h.logger)
	if !ok {
		return
	}

	kpis, err := h.svc.Logistics(r.Context(), projectID)
	if err != nil {
		h.logger.Error("Failed to compute logistics KPIs", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Internal server error")
		return
	}

	if err := WriteJSON(w, http.StatusOK, kpiResponse{Success: true, Data: kpis}); err != nil {
		h.logger.Error("Failed to encode logistics KPIs", zap.Error(err))
	}
}
