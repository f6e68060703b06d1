package idcards

import (
	"context"
	"time"
)

type StoreAPI interface {
	// Upsert stores the card for card.EmployeeID and reports whether a new row
	// was inserted.
	Upsert(ctx context.Context, card IDCard) (IDCard, bool, error)
	GetByEmployee(ctx context.Context, employeeID string) (IDCard, error)
	MarkRendered(ctx context.Context, id string, at time.Time) error
}

var _ StoreAPI = (*Store)(nil)
