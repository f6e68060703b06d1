package earnings

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Item is the slice of an audit record the aggregator needs.
type Item struct {
	Courier            Courier
	Date               time.Time
	NumberOfParcels    int
	CalculatedEarnings decimal.Decimal
}

type Totals struct {
	Entries  int             `json:"entries"`
	Parcels  int             `json:"parcels"`
	Earnings decimal.Decimal `json:"earnings"`
}

type Summary struct {
	TotalEntries  int             `json:"totalEntries"`
	TotalParcels  int             `json:"totalParcels"`
	TotalEarnings decimal.Decimal `json:"totalEarnings"`
	SPX           Totals          `json:"spx"`
	Flash         Totals          `json:"flash"`
}

type DayTotal struct {
	Date     time.Time       `json:"date"`
	Parcels  int             `json:"parcels"`
	Earnings decimal.Decimal `json:"earnings"`
}

func (t *Totals) add(item Item) {
	t.Entries++
	t.Parcels += item.NumberOfParcels
	t.Earnings = t.Earnings.Add(item.CalculatedEarnings)
}

// Aggregate folds items into totals. Input is never mutated; items are summed
// in ascending date order so the result does not depend on caller ordering.
func Aggregate(items []Item) Summary {
	var all, spx, flash Totals
	for _, item := range sortedByDate(items) {
		all.add(item)
		switch item.Courier {
		case CourierSPX:
			spx.add(item)
		case CourierFlash:
			flash.add(item)
		}
	}
	return Summary{
		TotalEntries:  all.Entries,
		TotalParcels:  all.Parcels,
		TotalEarnings: all.Earnings,
		SPX:           spx,
		Flash:         flash,
	}
}

// GroupByDay buckets items by the calendar day of their date, in the date's own
// location, and returns the buckets in ascending date order.
func GroupByDay(items []Item) []DayTotal {
	buckets := map[time.Time]*DayTotal{}
	for _, item := range sortedByDate(items) {
		day := CalendarDay(item.Date)
		bucket, ok := buckets[day]
		if !ok {
			bucket = &DayTotal{Date: day}
			buckets[day] = bucket
		}
		bucket.Parcels += item.NumberOfParcels
		bucket.Earnings = bucket.Earnings.Add(item.CalculatedEarnings)
	}

	out := make([]DayTotal, 0, len(buckets))
	for _, bucket := range buckets {
		out = append(out, *bucket)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// CalendarDay truncates t to midnight UTC of its local calendar date.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sortedByDate(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}
