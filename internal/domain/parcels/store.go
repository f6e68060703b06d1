package parcels

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"laportal/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const parcelSelect = `
    SELECT p.id, p.tracking_number, p.date_time_scanned, p.courier, p.sender_name, p.customer_phone,
           p.customer_address, p.last_known_location, p.estimated_value, p.status, p.description, p.notes,
           COALESCE(p.created_by::text, ''), COALESCE(u.name, ''), p.created_at, p.updated_at
    FROM lost_parcels p
    LEFT JOIN users u ON u.id = p.created_by`

func scanParcel(row pgx.Row) (LostParcel, error) {
	var p LostParcel
	err := row.Scan(&p.ID, &p.TrackingNumber, &p.DateTimeScanned, &p.Courier, &p.SenderName, &p.CustomerPhone,
		&p.CustomerAddress, &p.LastKnownLocation, &p.EstimatedValue, &p.Status, &p.Description, &p.Notes,
		&p.CreatedBy, &p.CreatedByName, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (s *Store) Create(ctx context.Context, p LostParcel) (LostParcel, error) {
	var createdBy any
	if p.CreatedBy != "" {
		createdBy = p.CreatedBy
	}
	var id string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO lost_parcels (
      tracking_number, date_time_scanned, courier, sender_name, customer_phone, customer_address,
      last_known_location, estimated_value, status, description, notes, created_by
    ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
    RETURNING id
  `, p.TrackingNumber, p.DateTimeScanned, p.Courier, p.SenderName, p.CustomerPhone, p.CustomerAddress,
		p.LastKnownLocation, p.EstimatedValue, p.Status, p.Description, p.Notes, createdBy).Scan(&id); err != nil {
		return LostParcel{}, err
	}
	return s.Get(ctx, id)
}

func (s *Store) Update(ctx context.Context, p LostParcel) (LostParcel, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE lost_parcels
    SET tracking_number = $1, date_time_scanned = $2, courier = $3, sender_name = $4, customer_phone = $5,
        customer_address = $6, last_known_location = $7, estimated_value = $8, status = $9,
        description = $10, notes = $11, updated_at = now()
    WHERE id = $12
  `, p.TrackingNumber, p.DateTimeScanned, p.Courier, p.SenderName, p.CustomerPhone,
		p.CustomerAddress, p.LastKnownLocation, p.EstimatedValue, p.Status,
		p.Description, p.Notes, p.ID)
	if err != nil {
		return LostParcel{}, err
	}
	if tag.RowsAffected() == 0 {
		return LostParcel{}, ErrNotFound
	}
	return s.Get(ctx, p.ID)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM lost_parcels WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (LostParcel, error) {
	p, err := scanParcel(s.DB.QueryRow(ctx, parcelSelect+" WHERE p.id::text = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return LostParcel{}, ErrNotFound
	}
	return p, err
}

func (s *Store) List(ctx context.Context, limit, offset int) ([]LostParcel, int, error) {
	total, err := s.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	rows, err := s.DB.Query(ctx, parcelSelect+" ORDER BY p.created_at DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []LostParcel{}
	for rows.Next() {
		p, err := scanParcel(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (s *Store) TrackingTaken(ctx context.Context, trackingNumber, excludeID string) (bool, error) {
	var taken bool
	err := s.DB.QueryRow(ctx, `
    SELECT EXISTS (SELECT 1 FROM lost_parcels WHERE tracking_number = $1 AND id::text <> $2)
  `, trackingNumber, excludeID).Scan(&taken)
	return taken, err
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var total int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM lost_parcels").Scan(&total)
	return total, err
}
