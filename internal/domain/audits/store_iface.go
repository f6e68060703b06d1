package audits

import (
	"context"
	"time"
)

type StoreAPI interface {
	Create(ctx context.Context, rec AuditRecord) (AuditRecord, error)
	Update(ctx context.Context, rec AuditRecord) (AuditRecord, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (AuditRecord, error)
	List(ctx context.Context, filter ListFilter) ([]AuditRecord, error)
	Recent(ctx context.Context, limit int) ([]AuditRecord, error)
	ExistsForTaskSellerDay(ctx context.Context, taskID, sellerID string, day time.Time) (bool, error)
}

// LabelLookup resolves the active shop name registered for a seller id.
type LabelLookup interface {
	ActiveShopName(ctx context.Context, sellerID string) (string, bool, error)
}

var _ StoreAPI = (*Store)(nil)
