package employees

import "context"

type StoreAPI interface {
	Create(ctx context.Context, u NewUser) (Employee, error)
	Get(ctx context.Context, id string) (Employee, error)
	ListByRole(ctx context.Context, role string) ([]Employee, error)
	CountByRole(ctx context.Context, role string) (int, error)
	EmailTaken(ctx context.Context, email, excludeID string) (bool, error)
	Update(ctx context.Context, e Employee) (Employee, error)
	Delete(ctx context.Context, id string) error
}

var _ StoreAPI = (*Store)(nil)
