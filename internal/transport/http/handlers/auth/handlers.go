package authhandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"laportal/internal/domain/activity"
	"laportal/internal/domain/auth"
	"laportal/internal/domain/employees"
	"laportal/internal/transport/http/api"
	"laportal/internal/transport/http/middleware"
	"laportal/internal/transport/http/shared"
)

type Authenticator interface {
	Login(ctx context.Context, email, password string) (auth.LoginResult, error)
	Logout(ctx context.Context, user auth.UserContext) error
}

type Accounts interface {
	Create(ctx context.Context, actorID string, in employees.CreateInput) (employees.Employee, error)
	Get(ctx context.Context, viewer auth.UserContext, id string) (employees.Employee, error)
}

type Handler struct {
	Auth     Authenticator
	Accounts Accounts
	Perms    middleware.PermissionStore
	Activity activity.Recorder
}

func NewHandler(authSvc Authenticator, accounts Accounts, perms middleware.PermissionStore, rec activity.Recorder) *Handler {
	return &Handler{Auth: authSvc, Accounts: accounts, Perms: perms, Activity: rec}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.handleLogin)
		r.With(middleware.RequireUser).Post("/logout", h.handleLogout)
		r.With(middleware.RequireUser).Get("/me", h.handleMe)
		r.With(middleware.RequirePermission(auth.PermUsersRegister, h.Perms)).Post("/register", h.handleRegister)
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=admin employee"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload loginRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, reqID) {
		return
	}

	result, err := h.Auth.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		shared.WriteError(w, r, err, "login_failed")
		return
	}

	activity.Log(r.Context(), h.Activity, activity.Entry{
		ActorID:    result.User.ID,
		Action:     activity.ActionLogin,
		EntityType: activity.EntitySession,
		EntityID:   result.User.ID,
	})
	api.Success(w, result, reqID)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	if err := h.Auth.Logout(r.Context(), user); err != nil {
		shared.WriteError(w, r, err, "logout_failed")
		return
	}
	activity.Log(r.Context(), h.Activity, activity.Entry{
		ActorID:    user.UserID,
		Action:     activity.ActionLogout,
		EntityType: activity.EntitySession,
		EntityID:   user.UserID,
	})
	api.Success(w, map[string]string{"status": "logged_out"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	account, err := h.Accounts.Get(r.Context(), user, user.UserID)
	if err != nil {
		shared.WriteError(w, r, err, "profile_failed")
		return
	}
	api.Success(w, account, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload registerRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, reqID) {
		return
	}

	created, err := h.Accounts.Create(r.Context(), user.UserID, employees.CreateInput{
		Name:     payload.Name,
		Email:    payload.Email,
		Password: payload.Password,
		Role:     payload.Role,
	})
	if err != nil {
		shared.WriteError(w, r, err, "register_failed")
		return
	}
	api.Created(w, created, reqID)
}
