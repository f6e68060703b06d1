package earnings

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Record is the normalized input for one task/seller/day.
type Record struct {
	Courier             Courier
	Date                time.Time
	TaskID              string
	SellerID            string
	ShopID              string
	NumberOfParcels     int
	HandedOverWithinSLA bool
	Penalties           decimal.Decimal
}

// Breakdown holds the derived fields of a record. Amounts carry two decimal
// places. CalculatedEarnings may be negative when penalties exceed gross.
type Breakdown struct {
	TotalParcels        int             `json:"totalParcels"`
	IncentivizedParcels int             `json:"incentivizedParcels"`
	BaseRate            decimal.Decimal `json:"baseRate"`
	BonusRate           decimal.Decimal `json:"bonusRate"`
	Gross               decimal.Decimal `json:"gross"`
	Penalties           decimal.Decimal `json:"penalties"`
	CalculatedEarnings  decimal.Decimal `json:"calculatedEarnings"`
	Note                string          `json:"note,omitempty"`
}

type Calculator struct {
	rates RateTable
}

func NewCalculator(rates RateTable) (*Calculator, error) {
	if err := rates.Validate(); err != nil {
		return nil, err
	}
	return &Calculator{rates: rates}, nil
}

// Calculate validates the rate table on every call; prefer a Calculator when
// computing many records.
func Calculate(rates RateTable, rec Record) (Breakdown, error) {
	calc, err := NewCalculator(rates)
	if err != nil {
		return Breakdown{}, err
	}
	return calc.Calculate(rec)
}

func (c *Calculator) Rates() RateTable {
	return c.rates
}

func (c *Calculator) Calculate(rec Record) (Breakdown, error) {
	if rec.NumberOfParcels < 1 {
		return Breakdown{}, &ValidationError{Field: "numberOfParcels", Reason: "must be at least 1"}
	}
	switch rec.Courier {
	case CourierSPX:
		return c.spx(rec)
	case CourierFlash:
		return c.flash(rec)
	}
	return Breakdown{}, &ValidationError{Field: "courier", Reason: "must be SPX or FlashExpress"}
}

func (c *Calculator) spx(rec Record) (Breakdown, error) {
	penalties := rec.Penalties.Round(2)
	if penalties.IsNegative() {
		return Breakdown{}, &ValidationError{Field: "penalties", Reason: "must not be negative"}
	}

	terms := c.rates.SPX
	incentivized, base := spxComponent(rec.NumberOfParcels, terms, terms.BaseRatePerParcel)
	bonus := decimal.Zero
	if rec.HandedOverWithinSLA {
		_, bonus = spxComponent(rec.NumberOfParcels, terms, terms.BonusRatePerParcel)
	}
	gross := base.Add(bonus)

	out := Breakdown{
		TotalParcels:        rec.NumberOfParcels,
		IncentivizedParcels: incentivized,
		BaseRate:            base,
		BonusRate:           bonus,
		Gross:               gross,
		Penalties:           penalties,
		CalculatedEarnings:  gross.Sub(penalties),
	}
	if rec.NumberOfParcels > terms.DailyCapPerUnit {
		if terms.PayOverflow {
			out.Note = fmt.Sprintf("Total parcels: %d, %d beyond cap of %d paid at overflow rate", rec.NumberOfParcels, rec.NumberOfParcels-terms.DailyCapPerUnit, terms.DailyCapPerUnit)
		} else {
			out.Note = fmt.Sprintf("Total parcels: %d, Incentivized: %d (capped per Shop ID)", rec.NumberOfParcels, incentivized)
		}
	}
	if err := checkBreakdown(out); err != nil {
		return Breakdown{}, err
	}
	return out, nil
}

// spxComponent applies the tiered formula shared by the base and bonus
// components. With an absolute cap the overflow tier is never reached.
func spxComponent(parcels int, terms SPXTerms, rate decimal.Decimal) (int, decimal.Decimal) {
	limit := terms.DailyCapPerUnit
	if !terms.PayOverflow {
		incentivized := min(parcels, limit)
		return incentivized, rate.Mul(decimal.NewFromInt(int64(incentivized))).Round(2)
	}
	if parcels <= limit {
		return parcels, rate.Mul(decimal.NewFromInt(int64(parcels))).Round(2)
	}
	capped := rate.Mul(decimal.NewFromInt(int64(limit)))
	overflow := terms.OverflowRatePerParcel.Mul(decimal.NewFromInt(int64(parcels - limit)))
	return parcels, capped.Add(overflow).Round(2)
}

func (c *Calculator) flash(rec Record) (Breakdown, error) {
	terms := c.rates.Flash
	capped := min(rec.NumberOfParcels, terms.DailyCapPerUnit)
	amount := terms.RatePerParcel.Mul(decimal.NewFromInt(int64(capped))).Round(2)
	out := Breakdown{
		TotalParcels:        rec.NumberOfParcels,
		IncentivizedParcels: capped,
		BaseRate:            amount,
		BonusRate:           decimal.Zero,
		Gross:               amount,
		Penalties:           decimal.Zero,
		CalculatedEarnings:  amount,
	}
	if err := checkBreakdown(out); err != nil {
		return Breakdown{}, err
	}
	return out, nil
}

func checkBreakdown(b Breakdown) error {
	if b.IncentivizedParcels < 0 || b.IncentivizedParcels > b.TotalParcels {
		return &InvariantError{Detail: fmt.Sprintf("incentivized parcels %d outside [0, %d]", b.IncentivizedParcels, b.TotalParcels)}
	}
	if b.BaseRate.IsNegative() || b.BonusRate.IsNegative() {
		return &InvariantError{Detail: "negative rate component"}
	}
	if !b.BaseRate.Add(b.BonusRate).Equal(b.Gross) {
		return &InvariantError{Detail: "base plus bonus does not equal gross"}
	}
	if !b.Gross.Sub(b.Penalties).Equal(b.CalculatedEarnings) {
		return &InvariantError{Detail: "gross minus penalties does not equal earnings"}
	}
	return nil
}
