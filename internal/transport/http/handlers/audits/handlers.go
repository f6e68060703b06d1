package audithandler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"laportal/internal/domain/audits"
	"laportal/internal/domain/auth"
	"laportal/internal/domain/earnings"
	"laportal/internal/domain/reports"
	"laportal/internal/platform/jobs"
	"laportal/internal/transport/http/api"
	"laportal/internal/transport/http/middleware"
	"laportal/internal/transport/http/shared"
)

const (
	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	importMemoryLimit = 8 << 20
)

type AuditService interface {
	Create(ctx context.Context, actorID string, in audits.Input) (audits.AuditRecord, error)
	Update(ctx context.Context, actorID, id string, in audits.Input) (audits.AuditRecord, error)
	Delete(ctx context.Context, actorID, id string) error
	Get(ctx context.Context, id string) (audits.AuditRecord, error)
	List(ctx context.Context, filter audits.ListFilter) (audits.ListResult, error)
	ImportSPX(ctx context.Context, actorID string, entries []json.RawMessage) (audits.ImportResult, error)
	Rates() earnings.RateTable
	Now() time.Time
}

type ReportService interface {
	PeriodReport(ctx context.Context, courier string, start, end *time.Time) (reports.PeriodReport, error)
}

type JobRunner interface {
	RunNow(ctx context.Context, jobType, requestedBy string, run jobs.RunFunc) (any, error)
}

type Handler struct {
	Audits  AuditService
	Reports ReportService
	Jobs    JobRunner
	Brand   reports.Branding
	Perms   middleware.PermissionStore
}

func NewHandler(svc AuditService, reportSvc ReportService, runner JobRunner, brand reports.Branding, perms middleware.PermissionStore) *Handler {
	return &Handler{Audits: svc, Reports: reportSvc, Jobs: runner, Brand: brand, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/audits", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermAuditsRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermAuditsWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermAuditsRead, h.Perms)).Get("/rates", h.handleRates)
		r.With(middleware.RequirePermission(auth.PermAuditsImport, h.Perms)).Post("/import/spx", h.handleImportSPX)
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/export/pdf", h.handleExportPDF)
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/export/xlsx", h.handleExportXLSX)
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/reports", h.handleReport)
		r.With(middleware.RequirePermission(auth.PermAuditsRead, h.Perms)).Get("/{auditID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermAuditsManage, h.Perms)).Put("/{auditID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermAuditsManage, h.Perms)).Delete("/{auditID}", h.handleDelete)
	})
}

type auditRequest struct {
	Courier             string          `json:"courier" validate:"required"`
	Date                string          `json:"date" validate:"required"`
	TaskID              string          `json:"taskId"`
	SellerID            string          `json:"sellerId" validate:"required"`
	ShopID              string          `json:"shopId"`
	ShopName            string          `json:"shopName"`
	NumberOfParcels     int             `json:"numberOfParcels"`
	HandedOverWithinSLA bool            `json:"handedOverWithinSLA"`
	Penalties           decimal.Decimal `json:"penalties"`
	Amount              decimal.Decimal `json:"amount"`
	Notes               string          `json:"notes"`
}

// decodeAudit reads and validates an audit payload, writing the failure
// response itself.
func decodeAudit(w http.ResponseWriter, r *http.Request) (audits.Input, bool) {
	reqID := middleware.GetRequestID(r.Context())
	var payload auditRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return audits.Input{}, false
	}
	v := shared.NewValidator()
	v.Struct(payload)
	var date time.Time
	if strings.TrimSpace(payload.Date) != "" {
		date, _ = v.Date("date", payload.Date)
	}
	if v.Reject(w, reqID) {
		return audits.Input{}, false
	}
	return audits.Input{
		Courier:             payload.Courier,
		Date:                date,
		TaskID:              payload.TaskID,
		SellerID:            payload.SellerID,
		ShopID:              payload.ShopID,
		ShopName:            payload.ShopName,
		NumberOfParcels:     payload.NumberOfParcels,
		HandedOverWithinSLA: payload.HandedOverWithinSLA,
		Penalties:           payload.Penalties,
		Amount:              payload.Amount,
		Notes:               payload.Notes,
	}, true
}

// listQuery holds the raw list parameters shared by the list and export
// endpoints.
type listQuery struct {
	courier string
	start   *time.Time
	end     *time.Time
	search  string
}

func parseListQuery(w http.ResponseWriter, r *http.Request) (listQuery, bool) {
	v := shared.NewValidator()
	q := listQuery{
		courier: r.URL.Query().Get("type"),
		start:   shared.OptionalDateQuery(r, v, "startDate"),
		end:     shared.OptionalDateQuery(r, v, "endDate"),
		search:  strings.TrimSpace(r.URL.Query().Get("search")),
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return listQuery{}, false
	}
	return q, true
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) (listQuery, audits.ListResult, bool) {
	q, ok := parseListQuery(w, r)
	if !ok {
		return listQuery{}, audits.ListResult{}, false
	}
	filter, err := audits.BuildFilter(q.courier, q.start, q.end, q.search, h.Audits.Now())
	if err != nil {
		shared.WriteError(w, r, err, "audit_list_failed")
		return listQuery{}, audits.ListResult{}, false
	}
	result, err := h.Audits.List(r.Context(), filter)
	if err != nil {
		shared.WriteError(w, r, err, "audit_list_failed")
		return listQuery{}, audits.ListResult{}, false
	}
	return q, result, true
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	_, result, ok := h.list(w, r)
	if !ok {
		return
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	in, ok := decodeAudit(w, r)
	if !ok {
		return
	}
	created, err := h.Audits.Create(r.Context(), user.UserID, in)
	if err != nil {
		shared.WriteError(w, r, err, "audit_create_failed")
		return
	}
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	record, err := h.Audits.Get(r.Context(), chi.URLParam(r, "auditID"))
	if err != nil {
		shared.WriteError(w, r, err, "audit_get_failed")
		return
	}
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	in, ok := decodeAudit(w, r)
	if !ok {
		return
	}
	updated, err := h.Audits.Update(r.Context(), user.UserID, chi.URLParam(r, "auditID"), in)
	if err != nil {
		shared.WriteError(w, r, err, "audit_update_failed")
		return
	}
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	if err := h.Audits.Delete(r.Context(), user.UserID, chi.URLParam(r, "auditID")); err != nil {
		shared.WriteError(w, r, err, "audit_delete_failed")
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRates(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Audits.Rates(), middleware.GetRequestID(r.Context()))
}

// handleImportSPX accepts the automation export either as the "file" field of
// a multipart form or as the raw request body.
func (h *Handler) handleImportSPX(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	data, err := readImport(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", reqID)
			return
		}
		api.Fail(w, http.StatusBadRequest, "invalid_import", err.Error(), reqID)
		return
	}
	entries, err := audits.ParseSPXExport(data)
	if err != nil {
		shared.WriteError(w, r, err, "import_failed")
		return
	}

	result, err := h.Jobs.RunNow(r.Context(), jobs.JobSPXImport, user.UserID, func(ctx context.Context) (any, error) {
		return h.Audits.ImportSPX(ctx, user.UserID, entries)
	})
	if err != nil {
		shared.WriteError(w, r, err, "import_failed")
		return
	}
	api.Success(w, result, reqID)
}

func readImport(r *http.Request) ([]byte, error) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return io.ReadAll(r.Body)
	}
	if err := r.ParseMultipartForm(importMemoryLimit); err != nil {
		return nil, err
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, errors.New("missing file field")
	}
	defer file.Close()
	return io.ReadAll(file)
}

func (h *Handler) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	q, result, ok := h.list(w, r)
	if !ok {
		return
	}
	now := h.Audits.Now()
	title := reports.ListTitle(q.start, q.end, q.search)

	var buf bytes.Buffer
	if err := reports.ListPDF(&buf, title, result, h.Brand, now); err != nil {
		shared.WriteError(w, r, err, "export_failed")
		return
	}
	api.Attachment(w, contentTypePDF, reports.Filename(title, now, "pdf"), buf.Bytes())
}

func (h *Handler) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	q, result, ok := h.list(w, r)
	if !ok {
		return
	}
	now := h.Audits.Now()
	title := reports.ListTitle(q.start, q.end, q.search)

	var buf bytes.Buffer
	if err := reports.ListXLSX(&buf, title, result); err != nil {
		shared.WriteError(w, r, err, "export_failed")
		return
	}
	api.Attachment(w, contentTypeXLSX, reports.Filename(title, now, "xlsx"), buf.Bytes())
}

// handleReport returns the period report as JSON, or as a PDF with
// ?export=pdf.
func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	q, ok := parseListQuery(w, r)
	if !ok {
		return
	}
	report, err := h.Reports.PeriodReport(r.Context(), q.courier, q.start, q.end)
	if err != nil {
		shared.WriteError(w, r, err, "report_failed")
		return
	}
	if r.URL.Query().Get("export") != "pdf" {
		api.Success(w, report, middleware.GetRequestID(r.Context()))
		return
	}

	now := h.Audits.Now()
	var buf bytes.Buffer
	if err := reports.ReportPDF(&buf, report, h.Brand, now); err != nil {
		shared.WriteError(w, r, err, "export_failed")
		return
	}
	api.Attachment(w, contentTypePDF, reports.Filename(report.Title, now, "pdf"), buf.Bytes())
}
