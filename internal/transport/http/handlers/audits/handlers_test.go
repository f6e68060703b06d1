package audithandler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"laportal/internal/domain/audits"
	"laportal/internal/domain/auth"
	"laportal/internal/domain/earnings"
	"laportal/internal/domain/reports"
	"laportal/internal/platform/jobs"
	"laportal/internal/transport/http/middleware"
)

type memoryAudits struct {
	mu      sync.Mutex
	records map[string]audits.AuditRecord
	seq     int
}

func (m *memoryAudits) Create(_ context.Context, rec audits.AuditRecord) (audits.AuditRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	rec.ID = fmt.Sprintf("a-%d", m.seq)
	m.records[rec.ID] = rec
	return rec, nil
}

func (m *memoryAudits) Update(_ context.Context, rec audits.AuditRecord) (audits.AuditRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[rec.ID]; !ok {
		return audits.AuditRecord{}, audits.ErrNotFound
	}
	m.records[rec.ID] = rec
	return rec, nil
}

func (m *memoryAudits) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return audits.ErrNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *memoryAudits) Get(_ context.Context, id string) (audits.AuditRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return audits.AuditRecord{}, audits.ErrNotFound
	}
	return rec, nil
}

func (m *memoryAudits) List(_ context.Context, filter audits.ListFilter) ([]audits.AuditRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]audits.AuditRecord, 0, len(m.records))
	for _, rec := range m.records {
		if filter.Start != nil && rec.Date.Before(*filter.Start) {
			continue
		}
		if filter.End != nil && rec.Date.After(*filter.End) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (m *memoryAudits) Recent(ctx context.Context, limit int) ([]audits.AuditRecord, error) {
	return m.List(ctx, audits.ListFilter{})
}

func (m *memoryAudits) ExistsForTaskSellerDay(_ context.Context, taskID, sellerID string, day time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.records {
		if rec.TaskID == taskID && rec.SellerID == sellerID && rec.Date.Equal(day) {
			return true, nil
		}
	}
	return false, nil
}

type testEnv struct {
	router http.Handler
	store  *memoryAudits
}

func newEnv(t *testing.T, role string) testEnv {
	t.Helper()
	calc, err := earnings.NewCalculator(earnings.DefaultRateTable())
	require.NoError(t, err)
	store := &memoryAudits{records: map[string]audits.AuditRecord{}}
	svc := audits.NewService(store, calc, nil, nil, nil)
	reportSvc := reports.NewService(svc, nil, nil, reports.Branding{CompanyName: "Test Co", Currency: "PHP"})
	h := NewHandler(svc, reportSvc, jobs.New(nil), reports.Branding{CompanyName: "Test Co", Currency: "PHP"}, auth.NewStaticPermissions())

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			user := auth.UserContext{UserID: "u-1", RoleName: role}
			next.ServeHTTP(w, req.WithContext(middleware.WithUser(req.Context(), user)))
		})
	})
	h.RegisterRoutes(r)
	return testEnv{router: r, store: store}
}

func (e testEnv) do(t *testing.T, method, path, contentType string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NoError(t, json.Unmarshal(env.Data, dst))
}

const spxBody = `{"courier":"SPX","date":"2025-03-14","taskId":"T-1","sellerId":"S-1","shopId":"SHOP-1","numberOfParcels":75,"handedOverWithinSLA":true}`

func TestCreateAndList(t *testing.T) {
	env := newEnv(t, auth.RoleEmployee)

	rec := env.do(t, http.MethodPost, "/audits", "application/json", []byte(spxBody))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created audits.AuditRecord
	decodeData(t, rec, &created)
	require.Equal(t, "75", created.CalculatedEarnings.String())

	rec = env.do(t, http.MethodPost, "/audits", "application/json",
		[]byte(`{"courier":"Flash","date":"2025-03-15","sellerId":"S-2","numberOfParcels":45}`))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/audits?startDate=2025-03-01&endDate=2025-03-31", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var result audits.ListResult
	decodeData(t, rec, &result)
	require.Len(t, result.Records, 2)
	require.Equal(t, 2, result.Summary.TotalEntries)
	require.Equal(t, "165", result.Summary.TotalEarnings.String())
	require.Equal(t, "2025-03-01", result.Filter.StartDate)
}

func TestCreateValidation(t *testing.T) {
	env := newEnv(t, auth.RoleEmployee)

	rec := env.do(t, http.MethodPost, "/audits", "application/json", []byte(`{"courier":"SPX","date":"14/03/2025"}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "sellerId")
	require.Contains(t, body, "date")

	rec = env.do(t, http.MethodPost, "/audits", "application/json",
		[]byte(`{"courier":"LBC","date":"2025-03-14","sellerId":"S-1","numberOfParcels":3}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "courier")

	rec = env.do(t, http.MethodPost, "/audits", "application/json", []byte(`{"courier":"SPX","unknown":1}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid_payload")

	rec = env.do(t, http.MethodGet, "/audits?startDate=2025-03-31&endDate=2025-03-01", "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestManageRequiresAdmin(t *testing.T) {
	env := newEnv(t, auth.RoleEmployee)
	rec := env.do(t, http.MethodPost, "/audits", "application/json", []byte(spxBody))
	var created audits.AuditRecord
	decodeData(t, rec, &created)

	rec = env.do(t, http.MethodDelete, "/audits/"+created.ID, "", nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	rec = env.do(t, http.MethodPost, "/audits/import/spx", "application/json", []byte(`[]`))
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpdateAndDelete(t *testing.T) {
	env := newEnv(t, auth.RoleAdmin)
	rec := env.do(t, http.MethodPost, "/audits", "application/json", []byte(spxBody))
	var created audits.AuditRecord
	decodeData(t, rec, &created)

	update := strings.Replace(spxBody, `"numberOfParcels":75`, `"numberOfParcels":120`, 1)
	update = strings.Replace(update, `"handedOverWithinSLA":true`, `"handedOverWithinSLA":false`, 1)
	rec = env.do(t, http.MethodPut, "/audits/"+created.ID, "application/json", []byte(update))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated audits.AuditRecord
	decodeData(t, rec, &updated)
	require.Equal(t, "50", updated.CalculatedEarnings.String())
	require.Equal(t, 100, updated.IncentivizedParcels)

	rec = env.do(t, http.MethodDelete, "/audits/"+created.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodGet, "/audits/"+created.ID, "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

const spxExport = `[
  {"receive_task_id":"RT-1","status":"Done","complete_time":"2025-03-14 10:00:00","sender_data":{"S-1":"12","S-2":8}},
  {"receive_task_id":"RT-2","status":"Pending","sender_data":{"S-3":4}}
]`

func TestImportSPXRawAndMultipart(t *testing.T) {
	env := newEnv(t, auth.RoleAdmin)

	rec := env.do(t, http.MethodPost, "/audits/import/spx", "application/json", []byte(spxExport))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var result audits.ImportResult
	decodeData(t, rec, &result)
	require.Equal(t, 2, result.TotalTasks)
	require.Equal(t, 2, result.ImportedCount)

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", "export.json")
	require.NoError(t, err)
	_, err = part.Write([]byte(spxExport))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	rec = env.do(t, http.MethodPost, "/audits/import/spx", form.FormDataContentType(), buf.Bytes())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodeData(t, rec, &result)
	require.Equal(t, 0, result.ImportedCount)
	require.Len(t, result.Duplicates, 2)

	rec = env.do(t, http.MethodPost, "/audits/import/spx", "application/json", []byte(`{"tasks":[]}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid_import")
}

func TestExports(t *testing.T) {
	env := newEnv(t, auth.RoleEmployee)
	rec := env.do(t, http.MethodPost, "/audits", "application/json", []byte(spxBody))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/audits/export/pdf?startDate=2025-03-14&endDate=2025-03-14", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, contentTypePDF, rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Header().Get("Content-Disposition"), "Daily-Audit-Report")
	require.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	rec = env.do(t, http.MethodGet, "/audits/export/xlsx", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, contentTypeXLSX, rec.Header().Get("Content-Type"))
	require.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))
}

func TestPeriodReport(t *testing.T) {
	env := newEnv(t, auth.RoleEmployee)
	rec := env.do(t, http.MethodPost, "/audits", "application/json", []byte(spxBody))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/audits/reports?startDate=2025-03-01&endDate=2025-03-31&type=spx", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var report reports.PeriodReport
	decodeData(t, rec, &report)
	require.Equal(t, "Monthly Report - March 2025", report.Title)
	require.Equal(t, "spx", report.Type)
	require.Len(t, report.Daily, 1)

	rec = env.do(t, http.MethodGet, "/audits/reports?startDate=2025-03-01&endDate=2025-03-31&export=pdf", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}
