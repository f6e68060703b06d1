package sellerhandler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"laportal/internal/domain/auth"
	"laportal/internal/domain/sellers"
	"laportal/internal/platform/jobs"
	"laportal/internal/transport/http/middleware"
)

type fakeSellers struct {
	created  []sellers.LabelInput
	terms    []string
	applied  int
	deleted  []string
	existing map[string]bool
}

func (f *fakeSellers) Create(_ context.Context, _ string, in sellers.LabelInput) (sellers.SaveResult, error) {
	if f.existing[in.SellerID] {
		return sellers.SaveResult{}, sellers.ErrDuplicateSeller
	}
	f.created = append(f.created, in)
	return sellers.SaveResult{Label: sellers.SellerLabel{ID: "l-1", SellerID: in.SellerID, ShopName: in.ShopName}}, nil
}

func (f *fakeSellers) Update(_ context.Context, _, id string, in sellers.LabelInput) (sellers.SaveResult, error) {
	if id != "l-1" {
		return sellers.SaveResult{}, sellers.ErrNotFound
	}
	return sellers.SaveResult{Label: sellers.SellerLabel{ID: id, SellerID: in.SellerID, ShopName: in.ShopName}}, nil
}

func (f *fakeSellers) Delete(_ context.Context, _, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeSellers) List(context.Context) ([]sellers.SellerLabel, error) {
	return []sellers.SellerLabel{{ID: "l-1", SellerID: "S-1", ShopName: "Juan Store"}}, nil
}

func (f *fakeSellers) Search(_ context.Context, term string) ([]sellers.Suggestion, error) {
	f.terms = append(f.terms, term)
	return []sellers.Suggestion{{SellerID: "S-1", ShopName: "Juan Store"}}, nil
}

func (f *fakeSellers) ApplyLabels(context.Context, string) (sellers.ApplyResult, error) {
	f.applied++
	return sellers.ApplyResult{LabelsProcessed: 1, Total: 3}, nil
}

func newRouter(svc *fakeSellers, role string) http.Handler {
	h := NewHandler(svc, jobs.New(nil), auth.NewStaticPermissions())
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			user := auth.UserContext{UserID: "u-1", RoleName: role}
			next.ServeHTTP(w, req.WithContext(middleware.WithUser(req.Context(), user)))
		})
	})
	h.RegisterRoutes(r)
	return r
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestEmployeesCanReadButNotWrite(t *testing.T) {
	svc := &fakeSellers{}
	router := newRouter(svc, auth.RoleEmployee)

	require.Equal(t, http.StatusOK, do(router, http.MethodGet, "/sellers", "").Code)
	require.Equal(t, http.StatusOK, do(router, http.MethodGet, "/sellers/search?q=juan", "").Code)
	require.Equal(t, []string{"juan"}, svc.terms)

	rec := do(router, http.MethodPost, "/sellers", `{"sellerId":"S-2","shopName":"Maria"}`)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Empty(t, svc.created)
}

func TestCreateUpdateDelete(t *testing.T) {
	svc := &fakeSellers{existing: map[string]bool{"S-9": true}}
	router := newRouter(svc, auth.RoleAdmin)

	rec := do(router, http.MethodPost, "/sellers", `{"sellerId":"S-2","shopName":"Maria"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Contains(t, rec.Body.String(), `"sellerLabel"`)

	rec = do(router, http.MethodPost, "/sellers", `{"sellerId":"S-9","shopName":"Dup"}`)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = do(router, http.MethodPost, "/sellers", `{"sellerId":"S-3"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "shopName")

	rec = do(router, http.MethodPut, "/sellers/missing", `{"sellerId":"S-2","shopName":"Maria"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(router, http.MethodDelete, "/sellers/l-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []string{"l-1"}, svc.deleted)
}

func TestApplyInlineAndQueued(t *testing.T) {
	svc := &fakeSellers{}
	router := newRouter(svc, auth.RoleAdmin)

	rec := do(router, http.MethodPost, "/sellers/apply", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"totalEntriesUpdated":3`)
	require.Equal(t, 1, svc.applied)

	rec = do(router, http.MethodPost, "/sellers/apply?async=true", "")
	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Contains(t, rec.Body.String(), "queued")
	require.Equal(t, 1, svc.applied)
}
