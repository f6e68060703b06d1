package idcards

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"laportal/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const cardSelect = `
    SELECT c.id, c.employee_id, u.name, COALESCE(u.employee_number, ''), c.qr_code_data,
           COALESCE(c.generated_by::text, ''), c.generated_at, c.rendered_at
    FROM id_cards c
    JOIN users u ON u.id = c.employee_id`

func scanCard(row pgx.Row) (IDCard, error) {
	var c IDCard
	err := row.Scan(&c.ID, &c.EmployeeID, &c.EmployeeName, &c.EmployeeNumber, &c.QRCodeData,
		&c.GeneratedBy, &c.GeneratedAt, &c.RenderedAt)
	return c, err
}

func (s *Store) Upsert(ctx context.Context, card IDCard) (IDCard, bool, error) {
	var generatedBy any
	if card.GeneratedBy != "" {
		generatedBy = card.GeneratedBy
	}
	var inserted bool
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO id_cards (employee_id, qr_code_data, generated_by, generated_at)
    VALUES ($1, $2, $3, $4)
    ON CONFLICT (employee_id) DO UPDATE
    SET qr_code_data = EXCLUDED.qr_code_data,
        generated_by = EXCLUDED.generated_by,
        generated_at = EXCLUDED.generated_at,
        rendered_at = NULL
    RETURNING (xmax = 0)
  `, card.EmployeeID, card.QRCodeData, generatedBy, card.GeneratedAt).Scan(&inserted); err != nil {
		return IDCard{}, false, err
	}
	saved, err := s.GetByEmployee(ctx, card.EmployeeID)
	return saved, inserted, err
}

func (s *Store) GetByEmployee(ctx context.Context, employeeID string) (IDCard, error) {
	card, err := scanCard(s.DB.QueryRow(ctx, cardSelect+" WHERE c.employee_id = $1", employeeID))
	if errors.Is(err, pgx.ErrNoRows) {
		return IDCard{}, ErrNotFound
	}
	return card, err
}

func (s *Store) MarkRendered(ctx context.Context, id string, at time.Time) error {
	tag, err := s.DB.Exec(ctx, "UPDATE id_cards SET rendered_at = $1 WHERE id = $2", at, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
