package sellers

import "time"

type SellerLabel struct {
	ID            string    `json:"id"`
	SellerID      string    `json:"sellerId"`
	ShopName      string    `json:"shopName"`
	Notes         string    `json:"notes"`
	IsActive      bool      `json:"isActive"`
	CreatedBy     string    `json:"createdBy,omitempty"`
	CreatedByName string    `json:"createdByName,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type LabelInput struct {
	SellerID string `json:"sellerId"`
	ShopName string `json:"shopName"`
	Notes    string `json:"notes"`
}

// Suggestion is the compact search hit used for autocomplete.
type Suggestion struct {
	SellerID string `json:"sellerId"`
	ShopName string `json:"shopName"`
}

type ApplyCounts struct {
	SPX   int `json:"spxUpdated"`
	Flash int `json:"flashUpdated"`
	Total int `json:"totalUpdated"`
}

func newApplyCounts(spx, flash int) ApplyCounts {
	return ApplyCounts{SPX: spx, Flash: flash, Total: spx + flash}
}

type SaveResult struct {
	Label   SellerLabel `json:"sellerLabel"`
	Applied ApplyCounts `json:"auditEntriesUpdated"`
}

type LabelApplication struct {
	SellerID string `json:"sellerId"`
	ShopName string `json:"shopName"`
	ApplyCounts
}

type ApplyResult struct {
	LabelsProcessed int                `json:"labelsProcessed"`
	TotalSPX        int                `json:"totalSpxUpdated"`
	TotalFlash      int                `json:"totalFlashUpdated"`
	Total           int                `json:"totalEntriesUpdated"`
	Results         []LabelApplication `json:"updateResults"`
}
