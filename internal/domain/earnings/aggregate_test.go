package earnings

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestAggregateEmpty(t *testing.T) {
	summary := Aggregate(nil)
	if summary.TotalEntries != 0 || summary.TotalParcels != 0 {
		t.Fatalf("expected zero counts, got %+v", summary)
	}
	if !summary.TotalEarnings.IsZero() || !summary.SPX.Earnings.IsZero() || !summary.Flash.Earnings.IsZero() {
		t.Fatalf("expected zero earnings, got %+v", summary)
	}
	if days := GroupByDay(nil); len(days) != 0 {
		t.Fatalf("expected no days, got %d", len(days))
	}
}

func TestAggregateSplitsByCourier(t *testing.T) {
	day := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	items := []Item{
		{Courier: CourierFlash, Date: day.AddDate(0, 0, 1), NumberOfParcels: 45, CalculatedEarnings: dec("90.00")},
		{Courier: CourierSPX, Date: day, NumberOfParcels: 75, CalculatedEarnings: dec("75.00")},
		{Courier: CourierSPX, Date: day, NumberOfParcels: 120, CalculatedEarnings: dec("45.00")},
	}

	summary := Aggregate(items)
	if summary.TotalEntries != 3 || summary.TotalParcels != 240 {
		t.Fatalf("unexpected totals: %+v", summary)
	}
	if !summary.TotalEarnings.Equal(dec("210.00")) {
		t.Fatalf("expected 210.00 total, got %s", summary.TotalEarnings)
	}
	if summary.SPX.Entries != 2 || summary.SPX.Parcels != 195 || !summary.SPX.Earnings.Equal(dec("120.00")) {
		t.Fatalf("unexpected spx totals: %+v", summary.SPX)
	}
	if summary.Flash.Entries != 1 || !summary.Flash.Earnings.Equal(dec("90.00")) {
		t.Fatalf("unexpected flash totals: %+v", summary.Flash)
	}

	// caller order is preserved
	if items[0].Courier != CourierFlash {
		t.Fatalf("input was reordered: %+v", items)
	}
}

func TestAggregateIncludesNegativeEarnings(t *testing.T) {
	items := []Item{
		{Courier: CourierSPX, NumberOfParcels: 2, CalculatedEarnings: dec("-5.00")},
		{Courier: CourierSPX, NumberOfParcels: 10, CalculatedEarnings: dec("10.00")},
	}
	if total := Aggregate(items).TotalEarnings; !total.Equal(dec("5.00")) {
		t.Fatalf("expected 5.00, got %s", total)
	}
}

func TestGroupByDay(t *testing.T) {
	manila := time.FixedZone("PHT", 8*60*60)
	items := []Item{
		{Courier: CourierSPX, Date: time.Date(2025, 5, 3, 18, 0, 0, 0, manila), NumberOfParcels: 10, CalculatedEarnings: dec("10")},
		{Courier: CourierFlash, Date: time.Date(2025, 5, 1, 9, 0, 0, 0, manila), NumberOfParcels: 5, CalculatedEarnings: dec("15")},
		{Courier: CourierSPX, Date: time.Date(2025, 5, 3, 7, 30, 0, 0, manila), NumberOfParcels: 20, CalculatedEarnings: dec("10")},
	}

	days := GroupByDay(items)
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	if !days[0].Date.Equal(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)) || days[0].Parcels != 5 {
		t.Fatalf("unexpected first day: %+v", days[0])
	}
	if !days[1].Date.Equal(time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC)) || days[1].Parcels != 30 {
		t.Fatalf("unexpected second day: %+v", days[1])
	}
	if !days[1].Earnings.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected 20 on second day, got %s", days[1].Earnings)
	}
}
