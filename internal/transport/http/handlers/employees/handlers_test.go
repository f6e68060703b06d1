package employeehandler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"laportal/internal/domain/auth"
	"laportal/internal/domain/employees"
	"laportal/internal/transport/http/middleware"
)

type memoryUsers struct {
	users map[string]employees.Employee
	seq   int
}

func (m *memoryUsers) Create(_ context.Context, u employees.NewUser) (employees.Employee, error) {
	m.seq++
	emp := employees.Employee{
		ID:             fmt.Sprintf("u%d", m.seq),
		EmployeeNumber: u.EmployeeNumber,
		Name:           u.Name,
		Email:          u.Email,
		Role:           u.Role,
		Profile:        &employees.Profile{},
	}
	m.users[emp.ID] = emp
	return emp, nil
}

func (m *memoryUsers) Get(_ context.Context, id string) (employees.Employee, error) {
	emp, ok := m.users[id]
	if !ok {
		return employees.Employee{}, employees.ErrNotFound
	}
	return emp, nil
}

func (m *memoryUsers) ListByRole(_ context.Context, role string) ([]employees.Employee, error) {
	out := []employees.Employee{}
	for i := 1; i <= m.seq; i++ {
		if emp, ok := m.users[fmt.Sprintf("u%d", i)]; ok && emp.Role == role {
			out = append(out, emp)
		}
	}
	return out, nil
}

func (m *memoryUsers) CountByRole(ctx context.Context, role string) (int, error) {
	list, _ := m.ListByRole(ctx, role)
	return len(list), nil
}

func (m *memoryUsers) EmailTaken(_ context.Context, email, excludeID string) (bool, error) {
	for id, emp := range m.users {
		if strings.EqualFold(emp.Email, email) && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryUsers) Update(_ context.Context, e employees.Employee) (employees.Employee, error) {
	m.users[e.ID] = e
	return e, nil
}

func (m *memoryUsers) Delete(_ context.Context, id string) error {
	if _, ok := m.users[id]; !ok {
		return employees.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func newRouter(svc *employees.Service, user auth.UserContext) http.Handler {
	h := NewHandler(svc, auth.NewStaticPermissions())
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
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

func createEmployee(t *testing.T, router http.Handler, email string) employees.Employee {
	t.Helper()
	rec := do(router, http.MethodPost, "/employees", fmt.Sprintf(`{"name":"Ana Cruz","email":%q,"password":"Passw0rd!"}`, email))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var env struct {
		Data employees.Employee `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env.Data
}

func TestAdminManagesEmployees(t *testing.T) {
	svc := employees.NewService(&memoryUsers{users: map[string]employees.Employee{}}, nil)
	admin := newRouter(svc, auth.UserContext{UserID: "admin-1", RoleName: auth.RoleAdmin})

	created := createEmployee(t, admin, "ana@example.com")
	require.Equal(t, auth.RoleEmployee, created.Role)
	require.True(t, strings.HasPrefix(created.EmployeeNumber, "LA"))

	rec := do(admin, http.MethodPost, "/employees", `{"name":"Dup","email":"ANA@example.com","password":"Passw0rd!"}`)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = do(admin, http.MethodGet, "/employees", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "ana@example.com")

	rec = do(admin, http.MethodDelete, "/employees/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(admin, http.MethodGet, "/employees/"+created.ID, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEmployeeSelfService(t *testing.T) {
	store := &memoryUsers{users: map[string]employees.Employee{}}
	svc := employees.NewService(store, nil)
	admin := newRouter(svc, auth.UserContext{UserID: "admin-1", RoleName: auth.RoleAdmin})
	self := createEmployee(t, admin, "ana@example.com")
	other := createEmployee(t, admin, "ben@example.com")

	router := newRouter(svc, auth.UserContext{UserID: self.ID, RoleName: auth.RoleEmployee})
	require.Equal(t, http.StatusForbidden, do(router, http.MethodGet, "/employees", "").Code)
	require.Equal(t, http.StatusForbidden, do(router, http.MethodGet, "/employees/"+other.ID, "").Code)
	require.Equal(t, http.StatusForbidden, do(router, http.MethodPost, "/employees", `{"name":"X","email":"x@example.com","password":"Passw0rd!"}`).Code)

	rec := do(router, http.MethodPut, "/employees/"+self.ID,
		`{"phone":"0917","dateEmployed":"2024-06-01","personal":{"birthdate":"1995-02-10","gender":"female"}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	saved := store.users[self.ID]
	require.Equal(t, "0917", saved.Profile.Phone)
	require.Equal(t, "female", saved.Profile.Personal.Gender)
	require.NotNil(t, saved.Profile.Personal.Birthdate)

	rec = do(router, http.MethodPut, "/employees/"+self.ID, `{"dateEmployed":"June 1"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "dateEmployed")

	rec = do(router, http.MethodPut, "/employees/"+other.ID, `{"phone":"1"}`)
	require.Equal(t, http.StatusForbidden, rec.Code)
}
