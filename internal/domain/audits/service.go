package audits

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"laportal/internal/domain/activity"
	"laportal/internal/domain/earnings"
	"laportal/internal/platform/metrics"
)

type Service struct {
	Store    StoreAPI
	Calc     *earnings.Calculator
	Labels   LabelLookup
	Activity activity.Recorder
	Metrics  *metrics.Collector
	now      func() time.Time
}

func NewService(store StoreAPI, calc *earnings.Calculator, labels LabelLookup, rec activity.Recorder, m *metrics.Collector) *Service {
	return &Service{Store: store, Calc: calc, Labels: labels, Activity: rec, Metrics: m, now: time.Now}
}

func (s *Service) Rates() earnings.RateTable {
	return s.Calc.Rates()
}

// GenerateTaskID returns LA-YYYYMMDD-XXXXXX where the suffix is the last six
// digits of the millisecond clock.
func GenerateTaskID(now time.Time) string {
	millis := fmt.Sprintf("%06d", now.UnixMilli()%1_000_000)
	return TaskIDPrefix + now.Format("20060102") + "-" + millis
}

func (s *Service) Create(ctx context.Context, actorID string, in Input) (AuditRecord, error) {
	rec, err := s.build(ctx, in)
	if err != nil {
		return AuditRecord{}, err
	}
	rec.CreatedBy = actorID

	created, err := s.Store.Create(ctx, rec)
	if err != nil {
		return AuditRecord{}, err
	}
	s.Metrics.Add(metricAuditsComputed, 1)
	activity.Log(ctx, s.Activity, activity.Entry{
		ActorID:    actorID,
		Action:     activity.ActionCreate,
		EntityType: activity.EntityAudit,
		EntityID:   created.ID,
		After:      created,
	})
	return created, nil
}

// Update replaces the caller-supplied fields of an existing record and always
// recomputes the derived fields.
func (s *Service) Update(ctx context.Context, actorID, id string, in Input) (AuditRecord, error) {
	existing, err := s.Store.Get(ctx, id)
	if err != nil {
		return AuditRecord{}, err
	}
	rec, err := s.build(ctx, in)
	if err != nil {
		return AuditRecord{}, err
	}
	rec.ID = existing.ID
	rec.CreatedBy = existing.CreatedBy
	rec.CreatedAt = existing.CreatedAt

	updated, err := s.Store.Update(ctx, rec)
	if err != nil {
		return AuditRecord{}, err
	}
	s.Metrics.Add(metricAuditsComputed, 1)
	activity.Log(ctx, s.Activity, activity.Entry{
		ActorID:    actorID,
		Action:     activity.ActionUpdate,
		EntityType: activity.EntityAudit,
		EntityID:   id,
		Before:     existing,
		After:      updated,
	})
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	existing, err := s.Store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, id); err != nil {
		return err
	}
	activity.Log(ctx, s.Activity, activity.Entry{
		ActorID:    actorID,
		Action:     activity.ActionDelete,
		EntityType: activity.EntityAudit,
		EntityID:   id,
		Before:     existing,
	})
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (AuditRecord, error) {
	return s.Store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) (ListResult, error) {
	records, err := s.Store.List(ctx, filter)
	if err != nil {
		return ListResult{}, err
	}
	return ListResult{
		Records: records,
		Summary: earnings.Aggregate(Items(records)),
		Filter:  filter.Echo(),
	}, nil
}

func (s *Service) Recent(ctx context.Context, limit int) ([]AuditRecord, error) {
	if limit <= 0 {
		limit = RecentLimit
	}
	return s.Store.Recent(ctx, limit)
}

func (s *Service) Now() time.Time {
	return s.now()
}

// build validates input, fills defaults and runs the engine.
func (s *Service) build(ctx context.Context, in Input) (AuditRecord, error) {
	courier, err := earnings.ParseCourier(in.Courier)
	if err != nil {
		return AuditRecord{}, err
	}
	if in.Date.IsZero() {
		return AuditRecord{}, &earnings.ValidationError{Field: "date", Reason: "is required"}
	}

	rec := AuditRecord{
		Courier:             courier,
		Date:                earnings.CalendarDay(in.Date),
		TaskID:              strings.TrimSpace(in.TaskID),
		SellerID:            strings.TrimSpace(in.SellerID),
		ShopID:              strings.TrimSpace(in.ShopID),
		ShopName:            strings.TrimSpace(in.ShopName),
		NumberOfParcels:     in.NumberOfParcels,
		HandedOverWithinSLA: in.HandedOverWithinSLA,
		Penalties:           in.Penalties,
		Amount:              in.Amount.Round(2),
		Notes:               strings.TrimSpace(in.Notes),
	}
	if rec.TaskID == "" {
		rec.TaskID = GenerateTaskID(s.now())
	}
	if rec.SellerID == "" {
		return AuditRecord{}, &earnings.ValidationError{Field: "sellerId", Reason: "is required"}
	}
	if courier == earnings.CourierSPX && rec.ShopID == "" {
		return AuditRecord{}, &earnings.ValidationError{Field: "shopId", Reason: "is required for SPX"}
	}

	breakdown, err := s.Calc.Calculate(rec.engineRecord())
	if err != nil {
		return AuditRecord{}, err
	}
	rec.Penalties = breakdown.Penalties
	rec.IncentivizedParcels = breakdown.IncentivizedParcels
	rec.BaseRate = breakdown.BaseRate
	rec.BonusRate = breakdown.BonusRate
	rec.CalculatedEarnings = breakdown.CalculatedEarnings
	rec.RateVersion = s.Calc.Rates().Version
	if breakdown.Note != "" {
		rec.Notes = breakdown.Note
	}

	if rec.ShopName == "" && s.Labels != nil {
		name, ok, err := s.Labels.ActiveShopName(ctx, rec.SellerID)
		if err != nil {
			slog.Warn("seller label lookup failed", "sellerId", rec.SellerID, "err", err)
		} else if ok {
			rec.ShopName = name
		}
	}
	return rec, nil
}
