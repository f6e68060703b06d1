package adminhandler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"laportal/internal/domain/activity"
	"laportal/internal/domain/auth"
	"laportal/internal/platform/metrics"
	"laportal/internal/transport/http/middleware"
)

type fakeLog struct {
	filter  activity.Filter
	details bool
	limit   int
	offset  int
}

func (f *fakeLog) List(_ context.Context, filter activity.Filter, includeDetails bool, limit, offset int) ([]activity.Event, error) {
	f.filter, f.details, f.limit, f.offset = filter, includeDetails, limit, offset
	return []activity.Event{{ID: "ev-1", Action: activity.ActionImport}}, nil
}

func (f *fakeLog) Count(context.Context, activity.Filter) (int, error) { return 7, nil }

func serve(h *Handler, role, path string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req = req.WithContext(middleware.WithUser(req.Context(), auth.UserContext{UserID: "u-1", RoleName: role}))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestActivityFiltersAndPaginates(t *testing.T) {
	log := &fakeLog{}
	h := NewHandler(log, nil, auth.NewStaticPermissions())

	rec := serve(h, auth.RoleAdmin, "/activity?action=import&entityType=courier_audit&details=true&limit=5&offset=10")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, activity.Filter{Action: "import", EntityType: activity.EntityAudit}, log.filter)
	require.True(t, log.details)
	require.Equal(t, 5, log.limit)
	require.Equal(t, 10, log.offset)
	require.Contains(t, rec.Body.String(), `"total":7`)

	require.Equal(t, http.StatusForbidden, serve(h, auth.RoleEmployee, "/activity").Code)
}

func TestMetrics(t *testing.T) {
	collector := metrics.New()
	collector.Record(http.StatusOK, 10*time.Millisecond)
	collector.Record(http.StatusNotFound, 10*time.Millisecond)

	rec := serve(NewHandler(&fakeLog{}, collector, auth.NewStaticPermissions()), auth.RoleAdmin, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"requestsTotal":2`)
	require.Contains(t, rec.Body.String(), `"clientErrorsTotal":1`)

	rec = serve(NewHandler(&fakeLog{}, nil, auth.NewStaticPermissions()), auth.RoleAdmin, "/metrics")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(NewHandler(&fakeLog{}, collector, auth.NewStaticPermissions()), auth.RoleEmployee, "/metrics")
	require.Equal(t, http.StatusForbidden, rec.Code)
}
