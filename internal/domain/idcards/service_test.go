package idcards

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"laportal/internal/domain/activity"
	"laportal/internal/domain/auth"
	"laportal/internal/domain/employees"
	"laportal/internal/domain/reports"
)

type memoryStore struct {
	cards map[string]IDCard
	seq   int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{cards: map[string]IDCard{}}
}

func (m *memoryStore) Upsert(_ context.Context, card IDCard) (IDCard, bool, error) {
	existing, ok := m.cards[card.EmployeeID]
	if ok {
		card.ID = existing.ID
	} else {
		m.seq++
		card.ID = fmt.Sprintf("c%d", m.seq)
	}
	card.RenderedAt = nil
	m.cards[card.EmployeeID] = card
	return card, !ok, nil
}

func (m *memoryStore) GetByEmployee(_ context.Context, employeeID string) (IDCard, error) {
	card, ok := m.cards[employeeID]
	if !ok {
		return IDCard{}, ErrNotFound
	}
	return card, nil
}

func (m *memoryStore) MarkRendered(_ context.Context, id string, at time.Time) error {
	for key, card := range m.cards {
		if card.ID == id {
			card.RenderedAt = &at
			m.cards[key] = card
			return nil
		}
	}
	return ErrNotFound
}

type staticEmployees map[string]employees.Employee

func (s staticEmployees) Get(_ context.Context, _ auth.UserContext, id string) (employees.Employee, error) {
	emp, ok := s[id]
	if !ok {
		return employees.Employee{}, employees.ErrNotFound
	}
	return emp, nil
}

type recorder struct {
	entries []activity.Entry
}

func (r *recorder) Record(_ context.Context, entry activity.Entry) error {
	r.entries = append(r.entries, entry)
	return nil
}

var admin = auth.UserContext{UserID: "admin-1", RoleName: auth.RoleAdmin}

func newTestService(people staticEmployees) (*Service, *memoryStore, *recorder) {
	store := newMemoryStore()
	rec := &recorder{}
	svc := NewService(store, people, rec, reports.Branding{CompanyName: "Last Mile Logistics", CompanyAddress: "Quezon City"})
	svc.now = func() time.Time { return time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC) }
	return svc, store, rec
}

func hired(emp employees.Employee, day time.Time) employees.Employee {
	emp.Profile = &employees.Profile{Position: "Rider", DateEmployed: &day}
	return emp
}

func TestPayload(t *testing.T) {
	started := time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)
	require.Equal(t, "Name: Ana Cruz, ID: 0042, Start Date: 2023-01-15", Payload("Ana Cruz", "EMP-2023-0042", started))
	require.Equal(t, "Name: Bo, ID: 7, Start Date: 2023-01-15", Payload("Bo", "7", started))
}

func TestIssueDerivesPayloadFromProfile(t *testing.T) {
	ana := hired(employees.Employee{ID: "u1", Name: "Ana Cruz", EmployeeNumber: "EMP-0042"}, time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC))
	svc, _, rec := newTestService(staticEmployees{"u1": ana})

	result, err := svc.Issue(context.Background(), admin, "u1", "")
	require.NoError(t, err)
	require.True(t, result.Created)
	require.Equal(t, "Name: Ana Cruz, ID: 0042, Start Date: 2023-01-15", result.Card.QRCodeData)
	require.Equal(t, "admin-1", result.Card.GeneratedBy)
	require.Len(t, rec.entries, 1)
	require.Equal(t, activity.ActionCreate, rec.entries[0].Action)
	require.Equal(t, activity.EntityIDCard, rec.entries[0].EntityType)
}

func TestIssueFallsBackToAccountCreation(t *testing.T) {
	created := time.Date(2022, 11, 2, 8, 0, 0, 0, time.UTC)
	svc, _, _ := newTestService(staticEmployees{"u1": {ID: "u1", Name: "Bo", EmployeeNumber: "EMP-0007", CreatedAt: created}})

	result, err := svc.Issue(context.Background(), admin, "u1", "")
	require.NoError(t, err)
	require.Contains(t, result.Card.QRCodeData, "Start Date: 2022-11-02")
}

func TestReissueReplacesCard(t *testing.T) {
	ana := hired(employees.Employee{ID: "u1", Name: "Ana Cruz", EmployeeNumber: "EMP-0042"}, time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC))
	svc, store, rec := newTestService(staticEmployees{"u1": ana})
	ctx := context.Background()

	first, err := svc.Issue(ctx, admin, "u1", "")
	require.NoError(t, err)

	second, err := svc.Issue(ctx, admin, "u1", "  custom badge text  ")
	require.NoError(t, err)
	require.False(t, second.Created)
	require.Equal(t, first.Card.ID, second.Card.ID)
	require.Equal(t, "custom badge text", second.Card.QRCodeData)
	require.Len(t, store.cards, 1)

	require.Len(t, rec.entries, 2)
	require.Equal(t, activity.ActionUpdate, rec.entries[1].Action)
	require.Equal(t, first.Card, rec.entries[1].Before)
}

func TestIssueRequiresEmployeeNumber(t *testing.T) {
	svc, store, _ := newTestService(staticEmployees{"u1": {ID: "u1", Name: "No Number"}})

	_, err := svc.Issue(context.Background(), admin, "u1", "")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "employeeNumber", ve.Field)
	require.ErrorIs(t, err, ErrValidation)
	require.Empty(t, store.cards)

	// An explicit payload does not need the number.
	_, err = svc.Issue(context.Background(), admin, "u1", "visitor")
	require.NoError(t, err)
}

func TestIssueUnknownEmployee(t *testing.T) {
	svc, _, _ := newTestService(staticEmployees{})
	_, err := svc.Issue(context.Background(), admin, "ghost", "")
	require.ErrorIs(t, err, employees.ErrNotFound)
}

func TestRender(t *testing.T) {
	ana := hired(employees.Employee{ID: "u1", Name: "Ana Cruz", EmployeeNumber: "EMP-0042"}, time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC))
	svc, store, _ := newTestService(staticEmployees{"u1": ana})
	ctx := context.Background()

	var buf bytes.Buffer
	_, err := svc.Render(ctx, admin, "u1", &buf)
	require.ErrorIs(t, err, ErrNotFound)
	require.Zero(t, buf.Len())

	_, err = svc.Issue(ctx, admin, "u1", "")
	require.NoError(t, err)

	card, err := svc.Render(ctx, admin, "u1", &buf)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	require.NotNil(t, card.RenderedAt)
	require.NotNil(t, store.cards["u1"].RenderedAt)

	// Reissuing clears the render stamp.
	result, err := svc.Issue(ctx, admin, "u1", "")
	require.NoError(t, err)
	require.Nil(t, result.Card.RenderedAt)
}

func TestCardPDFDefaultsPosition(t *testing.T) {
	var buf bytes.Buffer
	emp := employees.Employee{Name: "Bo", EmployeeNumber: "EMP-0007"}
	require.NoError(t, CardPDF(&buf, IDCard{QRCodeData: "Name: Bo, ID: 0007, Start Date: 2022-11-02"}, emp, reports.Branding{CompanyName: "Last Mile Logistics"}))
	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	require.Equal(t, defaultPosition, position(emp))
	require.Equal(t, "Rider", position(hired(emp, time.Now())))
}
