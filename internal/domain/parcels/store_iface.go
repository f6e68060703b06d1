package parcels

import "context"

type StoreAPI interface {
	Create(ctx context.Context, p LostParcel) (LostParcel, error)
	Update(ctx context.Context, p LostParcel) (LostParcel, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (LostParcel, error)
	List(ctx context.Context, limit, offset int) ([]LostParcel, int, error)
	TrackingTaken(ctx context.Context, trackingNumber, excludeID string) (bool, error)
	Count(ctx context.Context) (int, error)
}

var _ StoreAPI = (*Store)(nil)
