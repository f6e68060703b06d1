package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"laportal/internal/domain/audits"
	"laportal/internal/domain/earnings"
	"laportal/internal/domain/parcels"
)

type AuditSource interface {
	List(ctx context.Context, filter audits.ListFilter) (audits.ListResult, error)
	Recent(ctx context.Context, limit int) ([]audits.AuditRecord, error)
}

type ParcelSource interface {
	Count(ctx context.Context) (int, error)
	Recent(ctx context.Context, limit int) ([]parcels.LostParcel, error)
}

type EmployeeCounter interface {
	Count(ctx context.Context) (int, error)
}

type Service struct {
	Audits    AuditSource
	Parcels   ParcelSource
	Employees EmployeeCounter
	Branding  Branding
	now       func() time.Time
}

func NewService(audits AuditSource, parcels ParcelSource, employees EmployeeCounter, branding Branding) *Service {
	return &Service{Audits: audits, Parcels: parcels, Employees: employees, Branding: branding, now: time.Now}
}

func (s *Service) Now() time.Time {
	return s.now()
}

func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	var out Dashboard
	var err error
	if out.EmployeeCount, err = s.Employees.Count(ctx); err != nil {
		return Dashboard{}, err
	}
	if out.LostParcelCount, err = s.Parcels.Count(ctx); err != nil {
		return Dashboard{}, err
	}

	now := s.now()
	today := earnings.CalendarDay(now)
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)
	if out.TodayEarnings, err = s.earningsBetween(ctx, today, today); err != nil {
		return Dashboard{}, err
	}
	if out.MonthEarnings, err = s.earningsBetween(ctx, monthStart, monthEnd); err != nil {
		return Dashboard{}, err
	}

	if out.RecentParcels, err = s.Parcels.Recent(ctx, parcels.RecentLimit); err != nil {
		return Dashboard{}, err
	}
	if out.RecentAudits, err = s.Audits.Recent(ctx, audits.RecentLimit); err != nil {
		return Dashboard{}, err
	}
	return out, nil
}

func (s *Service) earningsBetween(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	result, err := s.Audits.List(ctx, audits.ListFilter{Start: &start, End: &end})
	if err != nil {
		return decimal.Zero, err
	}
	return result.Summary.TotalEarnings, nil
}

// PeriodReport summarises the audits of a period, optionally restricted to a
// courier, with one series point per day that has records.
func (s *Service) PeriodReport(ctx context.Context, courier string, start, end *time.Time) (PeriodReport, error) {
	period, err := ResolvePeriod(start, end, s.now())
	if err != nil {
		return PeriodReport{}, err
	}
	filter, err := audits.BuildFilter(courier, &period.Start, &period.End, "", s.now())
	if err != nil {
		return PeriodReport{}, err
	}
	result, err := s.Audits.List(ctx, filter)
	if err != nil {
		return PeriodReport{}, err
	}
	return PeriodReport{
		Title:     period.Title,
		StartDate: period.Start.Format("2006-01-02"),
		EndDate:   period.End.Format("2006-01-02"),
		Type:      filter.CourierLabel(),
		Summary:   result.Summary,
		Daily:     earnings.GroupByDay(audits.Items(result.Records)),
		start:     period.Start,
		end:       period.End,
	}, nil
}
