package sellers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"laportal/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const labelSelect = `
    SELECT l.id, l.seller_id, l.shop_name, l.notes, l.is_active, COALESCE(l.created_by::text, ''),
           COALESCE(u.name, ''), l.created_at, l.updated_at
    FROM seller_labels l
    LEFT JOIN users u ON u.id = l.created_by`

func scanLabel(row pgx.Row) (SellerLabel, error) {
	var l SellerLabel
	err := row.Scan(&l.ID, &l.SellerID, &l.ShopName, &l.Notes, &l.IsActive, &l.CreatedBy, &l.CreatedByName, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

func (s *Store) Create(ctx context.Context, label SellerLabel) (SellerLabel, error) {
	var createdBy any
	if label.CreatedBy != "" {
		createdBy = label.CreatedBy
	}
	var id string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO seller_labels (seller_id, shop_name, notes, created_by)
    VALUES ($1,$2,$3,$4)
    RETURNING id
  `, label.SellerID, label.ShopName, label.Notes, createdBy).Scan(&id); err != nil {
		return SellerLabel{}, err
	}
	return s.Get(ctx, id)
}

func (s *Store) Update(ctx context.Context, label SellerLabel) (SellerLabel, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE seller_labels
    SET seller_id = $1, shop_name = $2, notes = $3, updated_at = now()
    WHERE id = $4
  `, label.SellerID, label.ShopName, label.Notes, label.ID)
	if err != nil {
		return SellerLabel{}, err
	}
	if tag.RowsAffected() == 0 {
		return SellerLabel{}, ErrNotFound
	}
	return s.Get(ctx, label.ID)
}

func (s *Store) Deactivate(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "UPDATE seller_labels SET is_active = false, updated_at = now() WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (SellerLabel, error) {
	label, err := scanLabel(s.DB.QueryRow(ctx, labelSelect+" WHERE l.id::text = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return SellerLabel{}, ErrNotFound
	}
	return label, err
}

func (s *Store) ListActive(ctx context.Context) ([]SellerLabel, error) {
	rows, err := s.DB.Query(ctx, labelSelect+" WHERE l.is_active ORDER BY l.shop_name ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []SellerLabel{}
	for rows.Next() {
		label, err := scanLabel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, label)
	}
	return out, rows.Err()
}

func (s *Store) Search(ctx context.Context, term string, limit int) ([]Suggestion, error) {
	query := "SELECT seller_id, shop_name FROM seller_labels WHERE is_active"
	args := []any{}
	if term = strings.TrimSpace(term); term != "" {
		args = append(args, "%"+term+"%")
		query += " AND (seller_id ILIKE $1 OR shop_name ILIKE $1)"
	}
	args = append(args, limit)
	query += " ORDER BY shop_name ASC LIMIT $" + strconv.Itoa(len(args))

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Suggestion{}
	for rows.Next() {
		var sug Suggestion
		if err := rows.Scan(&sug.SellerID, &sug.ShopName); err != nil {
			return nil, err
		}
		out = append(out, sug)
	}
	return out, rows.Err()
}

func (s *Store) SellerIDTaken(ctx context.Context, sellerID, excludeID string) (bool, error) {
	var taken bool
	err := s.DB.QueryRow(ctx, `
    SELECT EXISTS (SELECT 1 FROM seller_labels WHERE seller_id = $1 AND id::text <> $2)
  `, sellerID, excludeID).Scan(&taken)
	return taken, err
}

func (s *Store) ActiveBySellerID(ctx context.Context, sellerID string) (SellerLabel, error) {
	label, err := scanLabel(s.DB.QueryRow(ctx, labelSelect+" WHERE l.seller_id = $1 AND l.is_active", sellerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return SellerLabel{}, ErrNotFound
	}
	return label, err
}
