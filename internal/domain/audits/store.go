package audits

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"laportal/internal/domain/earnings"
	"laportal/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const auditSelect = `
    SELECT a.id, a.courier, a.audit_date, a.task_id, a.seller_id, a.shop_id, a.shop_name,
           a.number_of_parcels, a.handed_over_within_sla, a.penalties, a.amount,
           a.incentivized_parcels, a.base_rate, a.bonus_rate, a.calculated_earnings,
           a.rate_version, a.notes, COALESCE(a.created_by::text, ''), COALESCE(u.name, ''),
           a.created_at, a.updated_at
    FROM courier_audits a
    LEFT JOIN users u ON u.id = a.created_by`

func scanRecord(row pgx.Row) (AuditRecord, error) {
	var rec AuditRecord
	var courier string
	err := row.Scan(
		&rec.ID, &courier, &rec.Date, &rec.TaskID, &rec.SellerID, &rec.ShopID, &rec.ShopName,
		&rec.NumberOfParcels, &rec.HandedOverWithinSLA, &rec.Penalties, &rec.Amount,
		&rec.IncentivizedParcels, &rec.BaseRate, &rec.BonusRate, &rec.CalculatedEarnings,
		&rec.RateVersion, &rec.Notes, &rec.CreatedBy, &rec.CreatedByName,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	rec.Courier = earnings.Courier(courier)
	return rec, err
}

func nullableUUID(id string) any {
	if id == "" {
		return nil
	}
	return id
}

func (s *Store) Create(ctx context.Context, rec AuditRecord) (AuditRecord, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO courier_audits (
      courier, audit_date, task_id, seller_id, shop_id, shop_name, number_of_parcels,
      handed_over_within_sla, penalties, amount, incentivized_parcels, base_rate, bonus_rate,
      calculated_earnings, rate_version, notes, created_by
    ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
    RETURNING id
  `, string(rec.Courier), rec.Date, rec.TaskID, rec.SellerID, rec.ShopID, rec.ShopName, rec.NumberOfParcels,
		rec.HandedOverWithinSLA, rec.Penalties, rec.Amount, rec.IncentivizedParcels, rec.BaseRate, rec.BonusRate,
		rec.CalculatedEarnings, rec.RateVersion, rec.Notes, nullableUUID(rec.CreatedBy)).Scan(&id)
	if err != nil {
		return AuditRecord{}, err
	}
	return s.Get(ctx, id)
}

func (s *Store) Update(ctx context.Context, rec AuditRecord) (AuditRecord, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE courier_audits
    SET courier = $1, audit_date = $2, task_id = $3, seller_id = $4, shop_id = $5, shop_name = $6,
        number_of_parcels = $7, handed_over_within_sla = $8, penalties = $9, amount = $10,
        incentivized_parcels = $11, base_rate = $12, bonus_rate = $13, calculated_earnings = $14,
        rate_version = $15, notes = $16, updated_at = now()
    WHERE id = $17
  `, string(rec.Courier), rec.Date, rec.TaskID, rec.SellerID, rec.ShopID, rec.ShopName,
		rec.NumberOfParcels, rec.HandedOverWithinSLA, rec.Penalties, rec.Amount,
		rec.IncentivizedParcels, rec.BaseRate, rec.BonusRate, rec.CalculatedEarnings,
		rec.RateVersion, rec.Notes, rec.ID)
	if err != nil {
		return AuditRecord{}, err
	}
	if tag.RowsAffected() == 0 {
		return AuditRecord{}, ErrNotFound
	}
	return s.Get(ctx, rec.ID)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM courier_audits WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (AuditRecord, error) {
	rec, err := scanRecord(s.DB.QueryRow(ctx, auditSelect+" WHERE a.id::text = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return AuditRecord{}, ErrNotFound
	}
	return rec, err
}

func (s *Store) List(ctx context.Context, filter ListFilter) ([]AuditRecord, error) {
	where, args := filter.where()
	return s.query(ctx, auditSelect+where+" ORDER BY a.audit_date DESC, a.created_at DESC", args...)
}

func (s *Store) Recent(ctx context.Context, limit int) ([]AuditRecord, error) {
	return s.query(ctx, auditSelect+" ORDER BY a.created_at DESC LIMIT $1", limit)
}

func (s *Store) ExistsForTaskSellerDay(ctx context.Context, taskID, sellerID string, day time.Time) (bool, error) {
	var exists bool
	err := s.DB.QueryRow(ctx, `
    SELECT EXISTS (
      SELECT 1 FROM courier_audits
      WHERE courier = $1 AND task_id = $2 AND seller_id = $3 AND audit_date = $4
    )
  `, string(earnings.CourierSPX), taskID, sellerID, earnings.CalendarDay(day)).Scan(&exists)
	return exists, err
}

// ApplyShopName writes shopName to records of sellerID, optionally only those
// with an empty shop name, and reports the rows touched per courier.
func (s *Store) ApplyShopName(ctx context.Context, sellerID, shopName string, onlyEmpty bool) (int, int, error) {
	query := `
    UPDATE courier_audits SET shop_name = $1, updated_at = now()
    WHERE seller_id = $2`
	if onlyEmpty {
		query += " AND shop_name = ''"
	}
	query += " RETURNING courier"

	rows, err := s.DB.Query(ctx, query, shopName, sellerID)
	if err != nil {
		return 0, 0, err
	}
	defer rows.Close()

	var spx, flash int
	for rows.Next() {
		var courier string
		if err := rows.Scan(&courier); err != nil {
			return 0, 0, err
		}
		switch earnings.Courier(courier) {
		case earnings.CourierSPX:
			spx++
		case earnings.CourierFlash:
			flash++
		}
	}
	return spx, flash, rows.Err()
}

func (s *Store) query(ctx context.Context, sql string, args ...any) ([]AuditRecord, error) {
	rows, err := s.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []AuditRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
