package sellerhandler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"laportal/internal/domain/auth"
	"laportal/internal/domain/sellers"
	"laportal/internal/platform/jobs"
	"laportal/internal/transport/http/api"
	"laportal/internal/transport/http/middleware"
	"laportal/internal/transport/http/shared"
)

type SellerService interface {
	Create(ctx context.Context, actorID string, in sellers.LabelInput) (sellers.SaveResult, error)
	Update(ctx context.Context, actorID, id string, in sellers.LabelInput) (sellers.SaveResult, error)
	Delete(ctx context.Context, actorID, id string) error
	List(ctx context.Context) ([]sellers.SellerLabel, error)
	Search(ctx context.Context, term string) ([]sellers.Suggestion, error)
	ApplyLabels(ctx context.Context, actorID string) (sellers.ApplyResult, error)
}

type JobRunner interface {
	RunNow(ctx context.Context, jobType, requestedBy string, run jobs.RunFunc) (any, error)
	Enqueue(jobType, requestedBy string, run jobs.RunFunc) bool
}

type Handler struct {
	Sellers SellerService
	Jobs    JobRunner
	Perms   middleware.PermissionStore
}

func NewHandler(svc SellerService, runner JobRunner, perms middleware.PermissionStore) *Handler {
	return &Handler{Sellers: svc, Jobs: runner, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/sellers", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermSellersRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermSellersWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermSellersRead, h.Perms)).Get("/search", h.handleSearch)
		r.With(middleware.RequirePermission(auth.PermSellersWrite, h.Perms)).Post("/apply", h.handleApply)
		r.With(middleware.RequirePermission(auth.PermSellersWrite, h.Perms)).Put("/{labelID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermSellersWrite, h.Perms)).Delete("/{labelID}", h.handleDelete)
	})
}

type labelRequest struct {
	SellerID string `json:"sellerId" validate:"required"`
	ShopName string `json:"shopName" validate:"required"`
	Notes    string `json:"notes"`
}

func decodeLabel(w http.ResponseWriter, r *http.Request) (sellers.LabelInput, bool) {
	reqID := middleware.GetRequestID(r.Context())
	var payload labelRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return sellers.LabelInput{}, false
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, reqID) {
		return sellers.LabelInput{}, false
	}
	return sellers.LabelInput{SellerID: payload.SellerID, ShopName: payload.ShopName, Notes: payload.Notes}, true
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	labels, err := h.Sellers.List(r.Context())
	if err != nil {
		shared.WriteError(w, r, err, "seller_list_failed")
		return
	}
	api.Success(w, labels, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	in, ok := decodeLabel(w, r)
	if !ok {
		return
	}
	result, err := h.Sellers.Create(r.Context(), user.UserID, in)
	if err != nil {
		shared.WriteError(w, r, err, "seller_create_failed")
		return
	}
	api.Created(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	in, ok := decodeLabel(w, r)
	if !ok {
		return
	}
	result, err := h.Sellers.Update(r.Context(), user.UserID, chi.URLParam(r, "labelID"), in)
	if err != nil {
		shared.WriteError(w, r, err, "seller_update_failed")
		return
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	if err := h.Sellers.Delete(r.Context(), user.UserID, chi.URLParam(r, "labelID")); err != nil {
		shared.WriteError(w, r, err, "seller_delete_failed")
		return
	}
	api.Success(w, map[string]string{"status": "deactivated"}, middleware.GetRequestID(r.Context()))
}

// handleSearch backs the seller autocomplete. An empty q lists the first
// active labels.
func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	hits, err := h.Sellers.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		shared.WriteError(w, r, err, "seller_search_failed")
		return
	}
	api.Success(w, hits, middleware.GetRequestID(r.Context()))
}

// handleApply runs label propagation inline, or queues it with ?async=true.
func (h *Handler) handleApply(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	run := func(ctx context.Context) (any, error) {
		return h.Sellers.ApplyLabels(ctx, user.UserID)
	}

	if async, _ := strconv.ParseBool(r.URL.Query().Get("async")); async {
		if !h.Jobs.Enqueue(jobs.JobApplyLabels, user.UserID, run) {
			api.Fail(w, http.StatusServiceUnavailable, "queue_full", "job queue is full", reqID)
			return
		}
		api.WriteJSON(w, http.StatusAccepted, api.Envelope{Success: true, Data: map[string]string{"status": "queued"}, RequestID: reqID})
		return
	}

	result, err := h.Jobs.RunNow(r.Context(), jobs.JobApplyLabels, user.UserID, run)
	if err != nil {
		shared.WriteError(w, r, err, "seller_apply_failed")
		return
	}
	api.Success(w, result, reqID)
}
