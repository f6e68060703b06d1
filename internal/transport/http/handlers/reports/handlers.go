package reportshandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"laportal/internal/domain/auth"
	"laportal/internal/domain/reports"
	"laportal/internal/transport/http/api"
	"laportal/internal/transport/http/middleware"
	"laportal/internal/transport/http/shared"
)

type DashboardSource interface {
	Dashboard(ctx context.Context) (reports.Dashboard, error)
}

type Handler struct {
	Reports DashboardSource
	Perms   middleware.PermissionStore
}

func NewHandler(svc DashboardSource, perms middleware.PermissionStore) *Handler {
	return &Handler{Reports: svc, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequirePermission(auth.PermDashboardRead, h.Perms)).Get("/dashboard", h.handleDashboard)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.Reports.Dashboard(r.Context())
	if err != nil {
		shared.WriteError(w, r, err, "dashboard_failed")
		return
	}
	api.Success(w, dashboard, middleware.GetRequestID(r.Context()))
}
