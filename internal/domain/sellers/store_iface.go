package sellers

import "context"

type StoreAPI interface {
	Create(ctx context.Context, label SellerLabel) (SellerLabel, error)
	Update(ctx context.Context, label SellerLabel) (SellerLabel, error)
	Deactivate(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (SellerLabel, error)
	ListActive(ctx context.Context) ([]SellerLabel, error)
	Search(ctx context.Context, term string, limit int) ([]Suggestion, error)
	SellerIDTaken(ctx context.Context, sellerID, excludeID string) (bool, error)
	ActiveBySellerID(ctx context.Context, sellerID string) (SellerLabel, error)
}

// ShopNameWriter propagates a label to the audit records of its seller.
type ShopNameWriter interface {
	ApplyShopName(ctx context.Context, sellerID, shopName string, onlyEmpty bool) (spx int, flash int, err error)
}

var _ StoreAPI = (*Store)(nil)
