package audits

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"laportal/internal/domain/earnings"
)

// AuditRecord is one courier task/seller/day with its computed earnings.
type AuditRecord struct {
	ID                  string           `json:"id"`
	Courier             earnings.Courier `json:"courier"`
	Date                time.Time        `json:"date"`
	TaskID              string           `json:"taskId"`
	SellerID            string           `json:"sellerId"`
	ShopID              string           `json:"shopId"`
	ShopName            string           `json:"shopName"`
	NumberOfParcels     int              `json:"numberOfParcels"`
	HandedOverWithinSLA bool             `json:"handedOverWithinSLA"`
	Penalties           decimal.Decimal  `json:"penalties"`
	Amount              decimal.Decimal  `json:"amount"`
	IncentivizedParcels int              `json:"incentivizedParcels"`
	BaseRate            decimal.Decimal  `json:"baseRate"`
	BonusRate           decimal.Decimal  `json:"bonusRate"`
	CalculatedEarnings  decimal.Decimal  `json:"calculatedEarnings"`
	RateVersion         string           `json:"rateVersion"`
	Notes               string           `json:"notes"`
	CreatedBy           string           `json:"createdBy,omitempty"`
	CreatedByName       string           `json:"createdByName,omitempty"`
	CreatedAt           time.Time        `json:"createdAt"`
	UpdatedAt           time.Time        `json:"updatedAt"`
}

func (r AuditRecord) Item() earnings.Item {
	return earnings.Item{
		Courier:            r.Courier,
		Date:               r.Date,
		NumberOfParcels:    r.NumberOfParcels,
		CalculatedEarnings: r.CalculatedEarnings,
	}
}

func (r AuditRecord) engineRecord() earnings.Record {
	return earnings.Record{
		Courier:             r.Courier,
		Date:                r.Date,
		TaskID:              r.TaskID,
		SellerID:            r.SellerID,
		ShopID:              r.ShopID,
		NumberOfParcels:     r.NumberOfParcels,
		HandedOverWithinSLA: r.HandedOverWithinSLA,
		Penalties:           r.Penalties,
	}
}

// Input carries the caller-supplied fields of a record. Derived fields are
// never accepted from callers.
type Input struct {
	Courier             string          `json:"courier"`
	Date                time.Time       `json:"-"`
	TaskID              string          `json:"taskId"`
	SellerID            string          `json:"sellerId"`
	ShopID              string          `json:"shopId"`
	ShopName            string          `json:"shopName"`
	NumberOfParcels     int             `json:"numberOfParcels"`
	HandedOverWithinSLA bool            `json:"handedOverWithinSLA"`
	Penalties           decimal.Decimal `json:"penalties"`
	Amount              decimal.Decimal `json:"amount"`
	Notes               string          `json:"notes"`
}

func Items(records []AuditRecord) []earnings.Item {
	out := make([]earnings.Item, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.Item())
	}
	return out
}

type ListResult struct {
	Records []AuditRecord    `json:"records"`
	Summary earnings.Summary `json:"summary"`
	Filter  FilterEcho       `json:"filter"`
}

type FilterEcho struct {
	Type      string `json:"type"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
	Search    string `json:"search,omitempty"`
}

// SPXTask is one entry of the SPX automation export. sender_data maps sender
// (seller) ids to tracking counts, which arrive as numbers or strings.
type SPXTask struct {
	ReceiveTaskID string                     `json:"receive_task_id"`
	Status        string                     `json:"status"`
	SenderData    map[string]json.RawMessage `json:"sender_data"`
	CompleteTime  string                     `json:"complete_time"`
}

type ImportResult struct {
	TotalTasks        int      `json:"totalTasks"`
	ImportedCount     int      `json:"importedCount"`
	SkippedCount      int      `json:"skippedCount"`
	ErrorCount        int      `json:"errorCount"`
	Errors            []string `json:"errors"`
	Duplicates        []string `json:"duplicates"`
	HasMoreErrors     bool     `json:"hasMoreErrors"`
	HasMoreDuplicates bool     `json:"hasMoreDuplicates"`
}
