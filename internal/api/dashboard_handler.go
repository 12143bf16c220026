package api

import (
	"log/slog"
	"net/http"

	"github.com/tourvisto/tourvisto-api/internal/api/shared"
	"github.com/tourvisto/tourvisto-api/internal/service"
)

// DashboardHandler serves admin statistics.
type DashboardHandler struct {
	dashboard service.DashboardService
	logger    *slog.Logger
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboard service.DashboardService, logger *slog.Logger) *DashboardHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for DashboardHandler")
	}
	return &DashboardHandler{
		dashboard: dashboard,
		logger:    logger.With(slog.String("component", "dashboard_handler")),
	}
}

// GetStats handles GET /api/admin/dashboard.
func (h *DashboardHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboard.GetStats(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to load dashboard", err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}
