package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

type Service struct {
	Store  StoreAPI
	Secret string
	TTL    time.Duration
	now    func() time.Time
}

func NewService(store StoreAPI, secret string, ttl time.Duration) *Service {
	return &Service{Store: store, Secret: secret, TTL: ttl, now: time.Now}
}

// Login checks credentials, opens a session and returns a signed token bound
// to it. Unknown emails and wrong passwords are indistinguishable.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	user, err := s.Store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}
	if err := CheckPassword(user.Password, password); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	sessionID, err := NewSessionID()
	if err != nil {
		return LoginResult{}, err
	}
	expires := s.now().Add(s.TTL)
	if err := s.Store.CreateSession(ctx, user.ID, HashToken(sessionID), expires); err != nil {
		return LoginResult{}, err
	}
	token, err := GenerateToken(s.Secret, Claims{UserID: user.ID, RoleName: user.RoleName, SessionID: sessionID}, s.TTL)
	if err != nil {
		return LoginResult{}, err
	}
	if err := s.Store.UpdateLastLogin(ctx, user.ID); err != nil {
		slog.Warn("update last_login failed", "userId", user.ID, "err", err)
	}

	return LoginResult{
		Token:     token,
		ExpiresAt: expires,
		User: PublicUser{
			ID:             user.ID,
			EmployeeNumber: user.EmployeeNumber,
			Name:           user.Name,
			Email:          user.Email,
			Role:           user.RoleName,
		},
	}, nil
}

func (s *Service) Logout(ctx context.Context, user UserContext) error {
	if user.SessionID == "" {
		return nil
	}
	return s.Store.RevokeSession(ctx, user.UserID, HashToken(user.SessionID))
}

// SessionActive is used by the auth middleware. Tokens without a session id
// are rejected.
func (s *Service) SessionActive(ctx context.Context, userID, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}
	return s.Store.SessionValid(ctx, userID, HashToken(sessionID))
}
