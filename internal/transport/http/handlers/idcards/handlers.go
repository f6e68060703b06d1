package idcardhandler

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"laportal/internal/domain/auth"
	"laportal/internal/domain/idcards"
	"laportal/internal/domain/reports"
	"laportal/internal/transport/http/api"
	"laportal/internal/transport/http/middleware"
	"laportal/internal/transport/http/shared"
)

const contentTypePDF = "application/pdf"

type CardService interface {
	Issue(ctx context.Context, viewer auth.UserContext, employeeID, qrData string) (idcards.IssueResult, error)
	Get(ctx context.Context, employeeID string) (idcards.IDCard, error)
	Render(ctx context.Context, viewer auth.UserContext, employeeID string, w io.Writer) (idcards.IDCard, error)
	Now() time.Time
}

type Handler struct {
	Cards CardService
	Perms middleware.PermissionStore
}

func NewHandler(svc CardService, perms middleware.PermissionStore) *Handler {
	return &Handler{Cards: svc, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/id-cards", func(r chi.Router) {
		r.Use(middleware.RequirePermission(auth.PermIDCardsManage, h.Perms))
		r.Post("/{employeeID}", h.handleIssue)
		r.Get("/{employeeID}", h.handleGet)
		r.Get("/{employeeID}/pdf", h.handlePDF)
	})
}

type issueRequest struct {
	QRData string `json:"qrData" validate:"omitempty,max=1000"`
}

// handleIssue accepts an empty body, in which case the payload is derived
// from the employee profile.
func (h *Handler) handleIssue(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload issueRequest
	if r.ContentLength != 0 {
		if !shared.DecodeJSON(w, r, &payload, reqID) {
			return
		}
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, reqID) {
		return
	}

	result, err := h.Cards.Issue(r.Context(), user, chi.URLParam(r, "employeeID"), payload.QRData)
	if err != nil {
		shared.WriteError(w, r, err, "id_card_issue_failed")
		return
	}
	if result.Created {
		api.Created(w, result.Card, reqID)
		return
	}
	api.Success(w, result.Card, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	card, err := h.Cards.Get(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		shared.WriteError(w, r, err, "id_card_get_failed")
		return
	}
	api.Success(w, card, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePDF(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var buf bytes.Buffer
	card, err := h.Cards.Render(r.Context(), user, chi.URLParam(r, "employeeID"), &buf)
	if err != nil {
		shared.WriteError(w, r, err, "id_card_render_failed")
		return
	}
	title := "ID Card " + card.EmployeeName
	api.Attachment(w, contentTypePDF, reports.Filename(title, h.Cards.Now(), "pdf"), buf.Bytes())
}
