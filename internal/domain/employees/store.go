package employees

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"laportal/internal/platform/crypto"
	"laportal/internal/platform/querier"
)

type Store struct {
	DB     querier.Querier
	Cipher *crypto.FieldCipher
}

func NewStore(db querier.Querier, cipher *crypto.FieldCipher) *Store {
	return &Store{DB: db, Cipher: cipher}
}

// Create inserts the user and its blank profile in one statement.
func (s *Store) Create(ctx context.Context, u NewUser) (Employee, error) {
	var number any
	if u.EmployeeNumber != "" {
		number = u.EmployeeNumber
	}
	var id string
	if err := s.DB.QueryRow(ctx, `
    WITH inserted AS (
      INSERT INTO users (employee_number, name, email, password_hash, role)
      VALUES ($1,$2,$3,$4,$5)
      RETURNING id
    )
    INSERT INTO employee_profiles (user_id, date_employed)
    SELECT id, $6 FROM inserted
    RETURNING user_id
  `, number, u.Name, u.Email, u.PasswordHash, u.Role, u.DateEmployed).Scan(&id); err != nil {
		return Employee{}, err
	}
	return s.Get(ctx, id)
}

func (s *Store) Get(ctx context.Context, id string) (Employee, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT u.id, COALESCE(u.employee_number, ''), u.name, u.email, u.role, u.last_login, u.created_at,
           p.user_id IS NOT NULL,
           COALESCE(p.phone, ''), COALESCE(p.position, ''), COALESCE(p.department, ''), COALESCE(p.address, ''),
           p.date_employed,
           COALESCE(p.primary_id_type, ''), COALESCE(p.primary_id_ref, ''),
           COALESCE(p.secondary_id_type, ''), COALESCE(p.secondary_id_ref, ''),
           p.tin_enc,
           COALESCE(p.background, '{}'::jsonb), COALESCE(p.personal, '{}'::jsonb),
           COALESCE(p.social, '{}'::jsonb), COALESCE(p.parents, '{}'::jsonb),
           COALESCE(p.updated_at, u.updated_at)
    FROM users u
    LEFT JOIN employee_profiles p ON p.user_id = u.id
    WHERE u.id::text = $1
  `, id)

	var emp Employee
	var prof Profile
	var hasProfile bool
	var tinEnc []byte
	err := row.Scan(
		&emp.ID, &emp.EmployeeNumber, &emp.Name, &emp.Email, &emp.Role, &emp.LastLogin, &emp.CreatedAt,
		&hasProfile,
		&prof.Phone, &prof.Position, &prof.Department, &prof.Address,
		&prof.DateEmployed,
		&prof.PrimaryIDType, &prof.PrimaryIDRef,
		&prof.SecondaryIDType, &prof.SecondaryIDRef,
		&tinEnc,
		&prof.Background, &prof.Personal,
		&prof.Social, &prof.Parents,
		&prof.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	if err != nil {
		return Employee{}, err
	}
	if hasProfile {
		tin, err := s.Cipher.Open(tinEnc)
		if err != nil {
			return Employee{}, err
		}
		prof.TINID = tin
		emp.Profile = &prof
	}
	return emp, nil
}

func (s *Store) ListByRole(ctx context.Context, role string) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT u.id, COALESCE(u.employee_number, ''), u.name, u.email, u.role, u.last_login, u.created_at,
           COALESCE(p.position, ''), COALESCE(p.department, ''), COALESCE(p.phone, '')
    FROM users u
    LEFT JOIN employee_profiles p ON p.user_id = u.id
    WHERE u.role = $1
    ORDER BY u.name ASC
  `, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Employee{}
	for rows.Next() {
		var emp Employee
		var prof Profile
		if err := rows.Scan(&emp.ID, &emp.EmployeeNumber, &emp.Name, &emp.Email, &emp.Role, &emp.LastLogin, &emp.CreatedAt,
			&prof.Position, &prof.Department, &prof.Phone); err != nil {
			return nil, err
		}
		emp.Profile = &prof
		out = append(out, emp)
	}
	return out, rows.Err()
}

func (s *Store) CountByRole(ctx context.Context, role string) (int, error) {
	var total int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM users WHERE role = $1", role).Scan(&total)
	return total, err
}

func (s *Store) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	var taken bool
	err := s.DB.QueryRow(ctx, `
    SELECT EXISTS (SELECT 1 FROM users WHERE lower(email) = lower($1) AND id::text <> $2)
  `, email, excludeID).Scan(&taken)
	return taken, err
}

// Update writes the user columns and upserts the profile row.
func (s *Store) Update(ctx context.Context, e Employee) (Employee, error) {
	tag, err := s.DB.Exec(ctx, "UPDATE users SET name = $1, email = $2, updated_at = now() WHERE id = $3", e.Name, e.Email, e.ID)
	if err != nil {
		return Employee{}, err
	}
	if tag.RowsAffected() == 0 {
		return Employee{}, ErrNotFound
	}

	prof := Profile{}
	if e.Profile != nil {
		prof = *e.Profile
	}
	tinEnc, err := s.Cipher.Seal(prof.TINID)
	if err != nil {
		return Employee{}, err
	}
	if _, err := s.DB.Exec(ctx, `
    INSERT INTO employee_profiles (
      user_id, phone, position, department, address, date_employed,
      primary_id_type, primary_id_ref, secondary_id_type, secondary_id_ref, tin_enc,
      background, personal, social, parents, updated_at
    ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15, now())
    ON CONFLICT (user_id) DO UPDATE SET
      phone = EXCLUDED.phone,
      position = EXCLUDED.position,
      department = EXCLUDED.department,
      address = EXCLUDED.address,
      date_employed = EXCLUDED.date_employed,
      primary_id_type = EXCLUDED.primary_id_type,
      primary_id_ref = EXCLUDED.primary_id_ref,
      secondary_id_type = EXCLUDED.secondary_id_type,
      secondary_id_ref = EXCLUDED.secondary_id_ref,
      tin_enc = EXCLUDED.tin_enc,
      background = EXCLUDED.background,
      personal = EXCLUDED.personal,
      social = EXCLUDED.social,
      parents = EXCLUDED.parents,
      updated_at = now()
  `, e.ID, prof.Phone, prof.Position, prof.Department, prof.Address, prof.DateEmployed,
		prof.PrimaryIDType, prof.PrimaryIDRef, prof.SecondaryIDType, prof.SecondaryIDRef, tinEnc,
		prof.Background, prof.Personal, prof.Social, prof.Parents); err != nil {
		return Employee{}, err
	}
	return s.Get(ctx, e.ID)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
