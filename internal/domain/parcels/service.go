package parcels

import (
	"context"
	"strings"

	"laportal/internal/domain/activity"
	"laportal/internal/domain/earnings"
)

type Service struct {
	Store    StoreAPI
	Activity activity.Recorder
}

func NewService(store StoreAPI, rec activity.Recorder) *Service {
	return &Service{Store: store, Activity: rec}
}

func (s *Service) Create(ctx context.Context, actorID string, in Input) (LostParcel, error) {
	p, err := normalize(in)
	if err != nil {
		return LostParcel{}, err
	}
	taken, err := s.Store.TrackingTaken(ctx, p.TrackingNumber, "")
	if err != nil {
		return LostParcel{}, err
	}
	if taken {
		return LostParcel{}, ErrDuplicateTracking
	}
	p.CreatedBy = actorID

	created, err := s.Store.Create(ctx, p)
	if err != nil {
		return LostParcel{}, err
	}
	activity.Log(ctx, s.Activity, activity.Entry{
		ActorID:    actorID,
		Action:     activity.ActionCreate,
		EntityType: activity.EntityLostParcel,
		EntityID:   created.ID,
		After:      created,
	})
	return created, nil
}

func (s *Service) Update(ctx context.Context, actorID, id string, in Input) (LostParcel, error) {
	existing, err := s.Store.Get(ctx, id)
	if err != nil {
		return LostParcel{}, err
	}
	p, err := normalize(in)
	if err != nil {
		return LostParcel{}, err
	}
	taken, err := s.Store.TrackingTaken(ctx, p.TrackingNumber, id)
	if err != nil {
		return LostParcel{}, err
	}
	if taken {
		return LostParcel{}, ErrDuplicateTracking
	}
	p.ID = existing.ID
	p.CreatedBy = existing.CreatedBy

	updated, err := s.Store.Update(ctx, p)
	if err != nil {
		return LostParcel{}, err
	}
	activity.Log(ctx, s.Activity, activity.Entry{
		ActorID:    actorID,
		Action:     activity.ActionUpdate,
		EntityType: activity.EntityLostParcel,
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
		EntityType: activity.EntityLostParcel,
		EntityID:   id,
		Before:     existing,
	})
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (LostParcel, error) {
	return s.Store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]LostParcel, int, error) {
	return s.Store.List(ctx, limit, offset)
}

func (s *Service) Recent(ctx context.Context, limit int) ([]LostParcel, error) {
	if limit <= 0 {
		limit = RecentLimit
	}
	out, _, err := s.Store.List(ctx, limit, 0)
	return out, err
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.Store.Count(ctx)
}

func normalize(in Input) (LostParcel, error) {
	p := LostParcel{
		TrackingNumber:    strings.TrimSpace(in.TrackingNumber),
		DateTimeScanned:   in.DateTimeScanned,
		SenderName:        strings.TrimSpace(in.SenderName),
		CustomerPhone:     strings.TrimSpace(in.CustomerPhone),
		CustomerAddress:   strings.TrimSpace(in.CustomerAddress),
		LastKnownLocation: strings.TrimSpace(in.LastKnownLocation),
		EstimatedValue:    in.EstimatedValue.Round(2),
		Status:            strings.ToLower(strings.TrimSpace(in.Status)),
		Description:       strings.TrimSpace(in.Description),
		Notes:             strings.TrimSpace(in.Notes),
	}
	if p.TrackingNumber == "" {
		return LostParcel{}, &ValidationError{Field: "trackingNumber", Reason: "is required"}
	}
	if p.DateTimeScanned.IsZero() {
		return LostParcel{}, &ValidationError{Field: "dateTimeScanned", Reason: "is required"}
	}
	courier, err := earnings.ParseCourier(in.Courier)
	if err != nil {
		return LostParcel{}, &ValidationError{Field: "courier", Reason: "must be SPX or Flash Express"}
	}
	p.Courier = courier.DisplayName()
	if p.SenderName == "" {
		return LostParcel{}, &ValidationError{Field: "senderName", Reason: "is required"}
	}
	if p.EstimatedValue.IsNegative() {
		return LostParcel{}, &ValidationError{Field: "estimatedValue", Reason: "must not be negative"}
	}
	if p.Status == "" {
		p.Status = StatusReported
	}
	return p, nil
}
