package idcards

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"laportal/internal/domain/activity"
	"laportal/internal/domain/auth"
	"laportal/internal/domain/employees"
	"laportal/internal/domain/reports"
)

// EmployeeLookup is the slice of the employees service a card needs.
type EmployeeLookup interface {
	Get(ctx context.Context, viewer auth.UserContext, id string) (employees.Employee, error)
}

type Service struct {
	Store     StoreAPI
	Employees EmployeeLookup
	Activity  activity.Recorder
	Brand     reports.Branding

	now func() time.Time
}

func NewService(store StoreAPI, people EmployeeLookup, rec activity.Recorder, brand reports.Branding) *Service {
	return &Service{Store: store, Employees: people, Activity: rec, Brand: brand, now: time.Now}
}

// Payload is the text encoded on the card: the employee name, the last four
// characters of the employee number and the start date.
func Payload(name, employeeNumber string, started time.Time) string {
	id := employeeNumber
	if len(id) > 4 {
		id = id[len(id)-4:]
	}
	return fmt.Sprintf("Name: %s, ID: %s, Start Date: %s", name, id, started.Format("2006-01-02"))
}

// Issue creates or replaces the card of employeeID. A non-empty qrData is
// stored verbatim instead of the derived payload.
func (s *Service) Issue(ctx context.Context, viewer auth.UserContext, employeeID, qrData string) (IssueResult, error) {
	emp, err := s.Employees.Get(ctx, viewer, employeeID)
	if err != nil {
		return IssueResult{}, err
	}
	data := strings.TrimSpace(qrData)
	if data == "" {
		if emp.EmployeeNumber == "" {
			return IssueResult{}, &ValidationError{Field: "employeeNumber", Reason: "is required to issue an id card"}
		}
		data = Payload(emp.Name, emp.EmployeeNumber, startDate(emp))
	}

	before, err := s.Store.GetByEmployee(ctx, employeeID)
	hadCard := err == nil
	if err != nil && !errors.Is(err, ErrNotFound) {
		return IssueResult{}, err
	}

	card, created, err := s.Store.Upsert(ctx, IDCard{
		EmployeeID:  employeeID,
		QRCodeData:  data,
		GeneratedBy: viewer.UserID,
		GeneratedAt: s.now().UTC(),
	})
	if err != nil {
		return IssueResult{}, err
	}

	entry := activity.Entry{
		ActorID:    viewer.UserID,
		Action:     activity.ActionCreate,
		EntityType: activity.EntityIDCard,
		EntityID:   card.ID,
		After:      card,
	}
	if hadCard {
		entry.Action = activity.ActionUpdate
		entry.Before = before
	}
	activity.Log(ctx, s.Activity, entry)
	return IssueResult{Card: card, Created: created}, nil
}

func (s *Service) Get(ctx context.Context, employeeID string) (IDCard, error) {
	return s.Store.GetByEmployee(ctx, employeeID)
}

// Render writes the card document for an already issued card and stamps the
// render time.
func (s *Service) Render(ctx context.Context, viewer auth.UserContext, employeeID string, w io.Writer) (IDCard, error) {
	card, err := s.Store.GetByEmployee(ctx, employeeID)
	if err != nil {
		return IDCard{}, err
	}
	emp, err := s.Employees.Get(ctx, viewer, employeeID)
	if err != nil {
		return IDCard{}, err
	}
	if err := CardPDF(w, card, emp, s.Brand); err != nil {
		return IDCard{}, fmt.Errorf("render id card: %w", err)
	}
	at := s.now().UTC()
	if err := s.Store.MarkRendered(ctx, card.ID, at); err != nil {
		return IDCard{}, err
	}
	card.RenderedAt = &at
	return card, nil
}

// Now is the clock used for file names.
func (s *Service) Now() time.Time {
	return s.now()
}

func startDate(emp employees.Employee) time.Time {
	if emp.Profile != nil && emp.Profile.DateEmployed != nil {
		return *emp.Profile.DateEmployed
	}
	return emp.CreatedAt
}
