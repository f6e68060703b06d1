package adminhandler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"laportal/internal/domain/activity"
	"laportal/internal/domain/auth"
	"laportal/internal/platform/metrics"
	"laportal/internal/transport/http/api"
	"laportal/internal/transport/http/middleware"
	"laportal/internal/transport/http/shared"
)

type ActivityLog interface {
	List(ctx context.Context, filter activity.Filter, includeDetails bool, limit, offset int) ([]activity.Event, error)
	Count(ctx context.Context, filter activity.Filter) (int, error)
}

type Handler struct {
	Activity ActivityLog
	Metrics  *metrics.Collector
	Perms    middleware.PermissionStore
}

func NewHandler(log ActivityLog, collector *metrics.Collector, perms middleware.PermissionStore) *Handler {
	return &Handler{Activity: log, Metrics: collector, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequirePermission(auth.PermActivityRead, h.Perms)).Get("/activity", h.handleActivity)
	r.With(middleware.RequirePermission(auth.PermMetricsRead, h.Perms)).Get("/metrics", h.handleMetrics)
}

// handleActivity lists activity events newest first. Before/after snapshots
// are only loaded with ?details=true.
func (h *Handler) handleActivity(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := activity.Filter{
		Action:     query.Get("action"),
		EntityType: query.Get("entityType"),
		ActorUser:  query.Get("actorId"),
	}
	details, _ := strconv.ParseBool(query.Get("details"))
	page := shared.ParsePagination(r, shared.DefaultPageSize, shared.MaxPageSize)

	total, err := h.Activity.Count(r.Context(), filter)
	if err != nil {
		shared.WriteError(w, r, err, "activity_list_failed")
		return
	}
	events, err := h.Activity.List(r.Context(), filter, details, page.Limit, page.Offset)
	if err != nil {
		shared.WriteError(w, r, err, "activity_list_failed")
		return
	}
	if events == nil {
		events = []activity.Event{}
	}
	api.Success(w, page.Page(events, total), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if h.Metrics == nil {
		api.Fail(w, http.StatusNotFound, "metrics_disabled", "metrics are disabled", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, h.Metrics.Snapshot(), middleware.GetRequestID(r.Context()))
}
