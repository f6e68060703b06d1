package earnings

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SPXTerms are the SPX commercial terms. The daily cap unit is (shopId, date).
type SPXTerms struct {
	BaseRatePerParcel  decimal.Decimal `json:"baseRatePerParcel"`
	BonusRatePerParcel decimal.Decimal `json:"bonusRatePerParcel"`
	DailyCapPerUnit    int             `json:"dailyCapPerUnit"`
	// OverflowRatePerParcel is only paid when PayOverflow is set. With the
	// default absolute cap, parcels beyond DailyCapPerUnit earn nothing.
	OverflowRatePerParcel decimal.Decimal `json:"overflowRatePerParcel"`
	PayOverflow           bool            `json:"payOverflow"`
}

// FlashTerms are the Flash Express terms. The daily cap unit is (sellerId, date).
type FlashTerms struct {
	RatePerParcel   decimal.Decimal `json:"ratePerParcel"`
	DailyCapPerUnit int             `json:"dailyCapPerUnit"`
}

// RateTable holds versioned commercial terms as plain data.
type RateTable struct {
	Version string     `json:"version"`
	SPX     SPXTerms   `json:"spx"`
	Flash   FlashTerms `json:"flash"`
}

const DefaultVersion = "2025"

func DefaultRateTable() RateTable {
	return RateTable{
		Version: DefaultVersion,
		SPX: SPXTerms{
			BaseRatePerParcel:     decimal.RequireFromString("0.50"),
			BonusRatePerParcel:    decimal.RequireFromString("0.50"),
			DailyCapPerUnit:       100,
			OverflowRatePerParcel: decimal.RequireFromString("1.00"),
		},
		Flash: FlashTerms{
			RatePerParcel:   decimal.RequireFromString("3.00"),
			DailyCapPerUnit: 30,
		},
	}
}

func (t RateTable) Validate() error {
	checks := []struct {
		field string
		value decimal.Decimal
	}{
		{"spx.baseRatePerParcel", t.SPX.BaseRatePerParcel},
		{"spx.bonusRatePerParcel", t.SPX.BonusRatePerParcel},
		{"spx.overflowRatePerParcel", t.SPX.OverflowRatePerParcel},
		{"flash.ratePerParcel", t.Flash.RatePerParcel},
	}
	for _, c := range checks {
		if c.value.IsNegative() {
			return &ValidationError{Field: c.field, Reason: "must not be negative"}
		}
	}
	if t.SPX.DailyCapPerUnit < 1 {
		return &ValidationError{Field: "spx.dailyCapPerUnit", Reason: "must be at least 1"}
	}
	if t.Flash.DailyCapPerUnit < 1 {
		return &ValidationError{Field: "flash.dailyCapPerUnit", Reason: "must be at least 1"}
	}
	return nil
}

func (t RateTable) String() string {
	return fmt.Sprintf("rates %s: spx base=%s bonus=%s cap=%d, flash rate=%s cap=%d",
		t.Version,
		t.SPX.BaseRatePerParcel.StringFixed(2), t.SPX.BonusRatePerParcel.StringFixed(2), t.SPX.DailyCapPerUnit,
		t.Flash.RatePerParcel.StringFixed(2), t.Flash.DailyCapPerUnit)
}
