package auth

import "time"

// UserContext is what the auth middleware stores on the request context.
type UserContext struct {
	UserID    string
	RoleName  string
	SessionID string
}

func (u UserContext) IsAdmin() bool {
	return u.RoleName == RoleAdmin
}

type AuthUser struct {
	ID             string
	EmployeeNumber string
	Name           string
	Email          string
	RoleName       string
	Password       string
}

type LoginResult struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
	User      PublicUser `json:"user"`
}

type PublicUser struct {
	ID             string `json:"id"`
	EmployeeNumber string `json:"employeeNumber,omitempty"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Role           string `json:"role"`
}
