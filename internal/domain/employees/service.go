package employees

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"laportal/internal/domain/activity"
	"laportal/internal/domain/auth"
)

type Service struct {
	Store    StoreAPI
	Activity activity.Recorder
	now      func() time.Time
}

func NewService(store StoreAPI, rec activity.Recorder) *Service {
	return &Service{Store: store, Activity: rec, now: time.Now}
}

// EmployeeNumber renders LA<YYYY>-<MM><last four digits of unix millis>.
func EmployeeNumber(now time.Time) string {
	return fmt.Sprintf("LA%04d-%02d%04d", now.Year(), int(now.Month()), now.UnixMilli()%10000)
}

// Create registers a user with a blank profile. Only the employee role gets an
// employee number.
func (s *Service) Create(ctx context.Context, actorID string, in CreateInput) (Employee, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = auth.RoleEmployee
	}
	if name == "" {
		return Employee{}, &ValidationError{Field: "name", Reason: "is required"}
	}
	if err := validEmail(email); err != nil {
		return Employee{}, err
	}
	if in.Password == "" {
		return Employee{}, &ValidationError{Field: "password", Reason: "is required"}
	}
	if !auth.ValidRole(role) {
		return Employee{}, &ValidationError{Field: "role", Reason: "must be admin or employee"}
	}

	taken, err := s.Store.EmailTaken(ctx, email, "")
	if err != nil {
		return Employee{}, err
	}
	if taken {
		return Employee{}, ErrDuplicateEmail
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return Employee{}, err
	}

	now := s.now()
	user := NewUser{Name: name, Email: email, PasswordHash: hash, Role: role, DateEmployed: now}
	if role == auth.RoleEmployee {
		user.EmployeeNumber = EmployeeNumber(now)
	}
	created, err := s.Store.Create(ctx, user)
	if err != nil {
		return Employee{}, err
	}
	activity.Log(ctx, s.Activity, activity.Entry{
		ActorID:    actorID,
		Action:     activity.ActionCreate,
		EntityType: activity.EntityEmployee,
		EntityID:   created.ID,
		After:      map[string]string{"name": created.Name, "email": created.Email, "role": created.Role},
	})
	return created, nil
}

func (s *Service) List(ctx context.Context) ([]Employee, error) {
	return s.Store.ListByRole(ctx, auth.RoleEmployee)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.Store.CountByRole(ctx, auth.RoleEmployee)
}

func (s *Service) Get(ctx context.Context, viewer auth.UserContext, id string) (Employee, error) {
	if !canAccess(viewer, id) {
		return Employee{}, ErrForbidden
	}
	return s.Store.Get(ctx, id)
}

func (s *Service) UpdateProfile(ctx context.Context, viewer auth.UserContext, id string, in ProfileUpdate) (Employee, error) {
	if !canAccess(viewer, id) {
		return Employee{}, ErrForbidden
	}
	existing, err := s.Store.Get(ctx, id)
	if err != nil {
		return Employee{}, err
	}

	updated := existing
	updated.Name = keep(existing.Name, in.Name)
	if email := strings.ToLower(strings.TrimSpace(in.Email)); email != "" && email != existing.Email {
		if err := validEmail(email); err != nil {
			return Employee{}, err
		}
		taken, err := s.Store.EmailTaken(ctx, email, id)
		if err != nil {
			return Employee{}, err
		}
		if taken {
			return Employee{}, ErrDuplicateEmail
		}
		updated.Email = email
	}
	updated.Profile = mergeProfile(existing.Profile, in)

	saved, err := s.Store.Update(ctx, updated)
	if err != nil {
		return Employee{}, err
	}
	activity.Log(ctx, s.Activity, activity.Entry{
		ActorID:    viewer.UserID,
		Action:     activity.ActionUpdate,
		EntityType: activity.EntityEmployee,
		EntityID:   id,
	})
	return saved, nil
}

func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	existing, err := s.Store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, id); err != nil {
		return err
	}
	activity.Log(ctx, s.Activity, activity.Entry{
		ActorID:    actorID,
		Action:     activity.ActionDelete,
		EntityType: activity.EntityEmployee,
		EntityID:   id,
		Before:     map[string]string{"name": existing.Name, "email": existing.Email},
	})
	return nil
}

func canAccess(viewer auth.UserContext, id string) bool {
	return viewer.IsAdmin() || viewer.UserID == id
}

func validEmail(email string) error {
	if email == "" {
		return &ValidationError{Field: "email", Reason: "is required"}
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return &ValidationError{Field: "email", Reason: "must be a valid email address"}
	}
	return nil
}

func keep(current, next string) string {
	if v := strings.TrimSpace(next); v != "" {
		return v
	}
	return current
}

func mergeProfile(current *Profile, in ProfileUpdate) *Profile {
	out := Profile{}
	if current != nil {
		out = *current
	}
	out.Phone = keep(out.Phone, in.Phone)
	out.Position = keep(out.Position, in.Position)
	out.Department = keep(out.Department, in.Department)
	out.Address = keep(out.Address, in.Address)
	out.PrimaryIDType = keep(out.PrimaryIDType, in.PrimaryIDType)
	out.PrimaryIDRef = keep(out.PrimaryIDRef, in.PrimaryIDRef)
	out.SecondaryIDType = keep(out.SecondaryIDType, in.SecondaryIDType)
	out.SecondaryIDRef = keep(out.SecondaryIDRef, in.SecondaryIDRef)
	out.TINID = keep(out.TINID, in.TINID)
	if in.DateEmployed != nil {
		out.DateEmployed = in.DateEmployed
	}
	if in.Background != nil {
		out.Background = *in.Background
	}
	if in.Personal != nil {
		out.Personal = *in.Personal
	}
	if in.Social != nil {
		out.Social = *in.Social
	}
	if in.Parents != nil {
		out.Parents = *in.Parents
	}
	return &out
}
