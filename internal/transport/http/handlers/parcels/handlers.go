package parcelhandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"laportal/internal/domain/auth"
	"laportal/internal/domain/parcels"
	"laportal/internal/transport/http/api"
	"laportal/internal/transport/http/middleware"
	"laportal/internal/transport/http/shared"
)

type ParcelService interface {
	Create(ctx context.Context, actorID string, in parcels.Input) (parcels.LostParcel, error)
	Update(ctx context.Context, actorID, id string, in parcels.Input) (parcels.LostParcel, error)
	Delete(ctx context.Context, actorID, id string) error
	Get(ctx context.Context, id string) (parcels.LostParcel, error)
	List(ctx context.Context, limit, offset int) ([]parcels.LostParcel, int, error)
}

type Handler struct {
	Parcels ParcelService
	Perms   middleware.PermissionStore
}

func NewHandler(svc ParcelService, perms middleware.PermissionStore) *Handler {
	return &Handler{Parcels: svc, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/lost-parcels", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermParcelsRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermParcelsWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermParcelsRead, h.Perms)).Get("/{parcelID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermParcelsManage, h.Perms)).Put("/{parcelID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermParcelsManage, h.Perms)).Delete("/{parcelID}", h.handleDelete)
	})
}

type parcelRequest struct {
	TrackingNumber    string          `json:"trackingNumber" validate:"required"`
	DateTimeScanned   string          `json:"dateTimeScanned" validate:"required"`
	Courier           string          `json:"courier" validate:"required"`
	SenderName        string          `json:"senderName" validate:"required"`
	CustomerPhone     string          `json:"customerPhone"`
	CustomerAddress   string          `json:"customerAddress"`
	LastKnownLocation string          `json:"lastKnownLocation"`
	EstimatedValue    decimal.Decimal `json:"estimatedValue"`
	Status            string          `json:"status"`
	Description       string          `json:"description"`
	Notes             string          `json:"notes"`
}

func decodeParcel(w http.ResponseWriter, r *http.Request) (parcels.Input, bool) {
	reqID := middleware.GetRequestID(r.Context())
	var payload parcelRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return parcels.Input{}, false
	}
	v := shared.NewValidator()
	v.Struct(payload)
	in := parcels.Input{
		TrackingNumber:    payload.TrackingNumber,
		Courier:           payload.Courier,
		SenderName:        payload.SenderName,
		CustomerPhone:     payload.CustomerPhone,
		CustomerAddress:   payload.CustomerAddress,
		LastKnownLocation: payload.LastKnownLocation,
		EstimatedValue:    payload.EstimatedValue,
		Status:            payload.Status,
		Description:       payload.Description,
		Notes:             payload.Notes,
	}
	if payload.DateTimeScanned != "" {
		in.DateTimeScanned, _ = v.Date("dateTimeScanned", payload.DateTimeScanned)
	}
	if v.Reject(w, reqID) {
		return parcels.Input{}, false
	}
	return in, true
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, shared.DefaultPageSize, shared.MaxPageSize)
	items, total, err := h.Parcels.List(r.Context(), page.Limit, page.Offset)
	if err != nil {
		shared.WriteError(w, r, err, "parcel_list_failed")
		return
	}
	api.Success(w, page.Page(items, total), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	in, ok := decodeParcel(w, r)
	if !ok {
		return
	}
	created, err := h.Parcels.Create(r.Context(), user.UserID, in)
	if err != nil {
		shared.WriteError(w, r, err, "parcel_create_failed")
		return
	}
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	parcel, err := h.Parcels.Get(r.Context(), chi.URLParam(r, "parcelID"))
	if err != nil {
		shared.WriteError(w, r, err, "parcel_get_failed")
		return
	}
	api.Success(w, parcel, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	in, ok := decodeParcel(w, r)
	if !ok {
		return
	}
	updated, err := h.Parcels.Update(r.Context(), user.UserID, chi.URLParam(r, "parcelID"), in)
	if err != nil {
		shared.WriteError(w, r, err, "parcel_update_failed")
		return
	}
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	if err := h.Parcels.Delete(r.Context(), user.UserID, chi.URLParam(r, "parcelID")); err != nil {
		shared.WriteError(w, r, err, "parcel_delete_failed")
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}
