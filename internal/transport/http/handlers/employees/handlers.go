package employeehandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"laportal/internal/domain/auth"
	"laportal/internal/domain/employees"
	"laportal/internal/transport/http/api"
	"laportal/internal/transport/http/middleware"
	"laportal/internal/transport/http/shared"
)

type EmployeeService interface {
	Create(ctx context.Context, actorID string, in employees.CreateInput) (employees.Employee, error)
	List(ctx context.Context) ([]employees.Employee, error)
	Get(ctx context.Context, viewer auth.UserContext, id string) (employees.Employee, error)
	UpdateProfile(ctx context.Context, viewer auth.UserContext, id string, in employees.ProfileUpdate) (employees.Employee, error)
	Delete(ctx context.Context, actorID, id string) error
}

type Handler struct {
	Employees EmployeeService
	Perms     middleware.PermissionStore
}

func NewHandler(svc EmployeeService, perms middleware.PermissionStore) *Handler {
	return &Handler{Employees: svc, Perms: perms}
}

// RegisterRoutes mounts the employee directory. Reading and updating a single
// profile only needs a session; the service allows admins or the owner.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermProfileReadSelf, h.Perms)).Get("/{employeeID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermProfileReadSelf, h.Perms)).Put("/{employeeID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Delete("/{employeeID}", h.handleDelete)
	})
}

type createRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type personalRequest struct {
	Birthdate   string `json:"birthdate"`
	Gender      string `json:"gender"`
	CivilStatus string `json:"civilStatus"`
	Nationality string `json:"nationality"`
}

type profileRequest struct {
	Name            string                `json:"name"`
	Email           string                `json:"email" validate:"omitempty,email"`
	Phone           string                `json:"phone"`
	Position        string                `json:"position"`
	Department      string                `json:"department"`
	Address         string                `json:"address"`
	DateEmployed    string                `json:"dateEmployed"`
	PrimaryIDType   string                `json:"primaryIdType"`
	PrimaryIDRef    string                `json:"primaryIdRef"`
	SecondaryIDType string                `json:"secondaryIdType"`
	SecondaryIDRef  string                `json:"secondaryIdRef"`
	TINID           string                `json:"tinId"`
	Background      *employees.Background `json:"background"`
	Personal        *personalRequest      `json:"personal"`
	Social          *employees.Social     `json:"social"`
	Parents         *employees.Parents    `json:"parents"`
}

func (p profileRequest) toUpdate(v *shared.Validator) employees.ProfileUpdate {
	out := employees.ProfileUpdate{
		Name:            p.Name,
		Email:           p.Email,
		Phone:           p.Phone,
		Position:        p.Position,
		Department:      p.Department,
		Address:         p.Address,
		PrimaryIDType:   p.PrimaryIDType,
		PrimaryIDRef:    p.PrimaryIDRef,
		SecondaryIDType: p.SecondaryIDType,
		SecondaryIDRef:  p.SecondaryIDRef,
		TINID:           p.TINID,
		Background:      p.Background,
		Social:          p.Social,
		Parents:         p.Parents,
	}
	if p.DateEmployed != "" {
		if parsed, ok := v.Date("dateEmployed", p.DateEmployed); ok {
			out.DateEmployed = &parsed
		}
	}
	if p.Personal != nil {
		personal := employees.Personal{
			Gender:      p.Personal.Gender,
			CivilStatus: p.Personal.CivilStatus,
			Nationality: p.Personal.Nationality,
		}
		if p.Personal.Birthdate != "" {
			if parsed, ok := v.Date("personal.birthdate", p.Personal.Birthdate); ok {
				personal.Birthdate = &parsed
			}
		}
		out.Personal = &personal
	}
	return out
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.Employees.List(r.Context())
	if err != nil {
		shared.WriteError(w, r, err, "employee_list_failed")
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload createRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, reqID) {
		return
	}

	created, err := h.Employees.Create(r.Context(), user.UserID, employees.CreateInput{
		Name:     payload.Name,
		Email:    payload.Email,
		Password: payload.Password,
		Role:     auth.RoleEmployee,
	})
	if err != nil {
		shared.WriteError(w, r, err, "employee_create_failed")
		return
	}
	api.Created(w, created, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	employee, err := h.Employees.Get(r.Context(), user, chi.URLParam(r, "employeeID"))
	if err != nil {
		shared.WriteError(w, r, err, "employee_get_failed")
		return
	}
	api.Success(w, employee, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	var payload profileRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	update := payload.toUpdate(v)
	if v.Reject(w, reqID) {
		return
	}

	updated, err := h.Employees.UpdateProfile(r.Context(), user, chi.URLParam(r, "employeeID"), update)
	if err != nil {
		shared.WriteError(w, r, err, "employee_update_failed")
		return
	}
	api.Success(w, updated, reqID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	if err := h.Employees.Delete(r.Context(), user.UserID, chi.URLParam(r, "employeeID")); err != nil {
		shared.WriteError(w, r, err, "employee_delete_failed")
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}
