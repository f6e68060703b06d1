package sellers

import (
	"context"
	"errors"
	"strings"

	"laportal/internal/domain/activity"
)

type Service struct {
	Store    StoreAPI
	Audits   ShopNameWriter
	Activity activity.Recorder
}

func NewService(store StoreAPI, audits ShopNameWriter, rec activity.Recorder) *Service {
	return &Service{Store: store, Audits: audits, Activity: rec}
}

func normalize(in LabelInput) (LabelInput, error) {
	out := LabelInput{
		SellerID: strings.TrimSpace(in.SellerID),
		ShopName: strings.TrimSpace(in.ShopName),
		Notes:    strings.TrimSpace(in.Notes),
	}
	if out.SellerID == "" {
		return LabelInput{}, &ValidationError{Field: "sellerId", Reason: "is required"}
	}
	if out.ShopName == "" {
		return LabelInput{}, &ValidationError{Field: "shopName", Reason: "is required"}
	}
	return out, nil
}

// Create registers a label and writes its shop name to every existing audit
// record of the seller.
func (s *Service) Create(ctx context.Context, actorID string, in LabelInput) (SaveResult, error) {
	in, err := normalize(in)
	if err != nil {
		return SaveResult{}, err
	}
	taken, err := s.Store.SellerIDTaken(ctx, in.SellerID, "")
	if err != nil {
		return SaveResult{}, err
	}
	if taken {
		return SaveResult{}, ErrDuplicateSeller
	}

	label, err := s.Store.Create(ctx, SellerLabel{SellerID: in.SellerID, ShopName: in.ShopName, Notes: in.Notes, IsActive: true, CreatedBy: actorID})
	if err != nil {
		return SaveResult{}, err
	}
	counts, err := s.propagate(ctx, label, false)
	if err != nil {
		return SaveResult{}, err
	}
	activity.Log(ctx, s.Activity, activity.Entry{
		ActorID:    actorID,
		Action:     activity.ActionCreate,
		EntityType: activity.EntitySeller,
		EntityID:   label.ID,
		After:      label,
	})
	return SaveResult{Label: label, Applied: counts}, nil
}

func (s *Service) Update(ctx context.Context, actorID, id string, in LabelInput) (SaveResult, error) {
	in, err := normalize(in)
	if err != nil {
		return SaveResult{}, err
	}
	existing, err := s.Store.Get(ctx, id)
	if err != nil {
		return SaveResult{}, err
	}
	taken, err := s.Store.SellerIDTaken(ctx, in.SellerID, id)
	if err != nil {
		return SaveResult{}, err
	}
	if taken {
		return SaveResult{}, ErrDuplicateSeller
	}

	updated := existing
	updated.SellerID = in.SellerID
	updated.ShopName = in.ShopName
	updated.Notes = in.Notes
	label, err := s.Store.Update(ctx, updated)
	if err != nil {
		return SaveResult{}, err
	}
	counts, err := s.propagate(ctx, label, false)
	if err != nil {
		return SaveResult{}, err
	}
	activity.Log(ctx, s.Activity, activity.Entry{
		ActorID:    actorID,
		Action:     activity.ActionUpdate,
		EntityType: activity.EntitySeller,
		EntityID:   id,
		Before:     existing,
		After:      label,
	})
	return SaveResult{Label: label, Applied: counts}, nil
}

// Delete deactivates the label; audit records keep the shop name they have.
func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	if err := s.Store.Deactivate(ctx, id); err != nil {
		return err
	}
	activity.Log(ctx, s.Activity, activity.Entry{
		ActorID:    actorID,
		Action:     activity.ActionDelete,
		EntityType: activity.EntitySeller,
		EntityID:   id,
	})
	return nil
}

func (s *Service) List(ctx context.Context) ([]SellerLabel, error) {
	return s.Store.ListActive(ctx)
}

func (s *Service) Search(ctx context.Context, term string) ([]Suggestion, error) {
	return s.Store.Search(ctx, term, SearchLimit)
}

// ActiveShopName satisfies the audits label lookup.
func (s *Service) ActiveShopName(ctx context.Context, sellerID string) (string, bool, error) {
	label, err := s.Store.ActiveBySellerID(ctx, strings.TrimSpace(sellerID))
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return label.ShopName, true, nil
}

// ApplyLabels fills the shop name of audit records that have none from every
// active label.
func (s *Service) ApplyLabels(ctx context.Context, actorID string) (ApplyResult, error) {
	labels, err := s.Store.ListActive(ctx)
	if err != nil {
		return ApplyResult{}, err
	}
	result := ApplyResult{LabelsProcessed: len(labels), Results: []LabelApplication{}}
	for _, label := range labels {
		counts, err := s.propagate(ctx, label, true)
		if err != nil {
			return result, err
		}
		result.TotalSPX += counts.SPX
		result.TotalFlash += counts.Flash
		result.Results = append(result.Results, LabelApplication{SellerID: label.SellerID, ShopName: label.ShopName, ApplyCounts: counts})
	}
	result.Total = result.TotalSPX + result.TotalFlash
	activity.Log(ctx, s.Activity, activity.Entry{
		ActorID:    actorID,
		Action:     activity.ActionApply,
		EntityType: activity.EntitySeller,
		After:      map[string]int{"labelsProcessed": result.LabelsProcessed, "totalEntriesUpdated": result.Total},
	})
	return result, nil
}

func (s *Service) propagate(ctx context.Context, label SellerLabel, onlyEmpty bool) (ApplyCounts, error) {
	if s.Audits == nil {
		return ApplyCounts{}, nil
	}
	spx, flash, err := s.Audits.ApplyShopName(ctx, label.SellerID, label.ShopName, onlyEmpty)
	if err != nil {
		return ApplyCounts{}, err
	}
	return newApplyCounts(spx, flash), nil
}
