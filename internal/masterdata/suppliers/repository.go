package suppliers

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gaia-project/gaia/internal/platform/db"
	"github.com/gaia-project/gaia/internal/shared"
)

const entity = "supplier"

var constraints = map[string]string{"suppliers_name_key": "name"}

// Repository persists suppliers. Create must report a code collision when
// the code is taken.
type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Supplier, int, error)
	Get(ctx context.Context, code string) (Supplier, error)
	Create(ctx context.Context, supplier Supplier) (Supplier, error)
	Update(ctx context.Context, supplier Supplier) error
	Delete(ctx context.Context, code string) error
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository returns the PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const columns = `code, name, address_line1, address_line2, city, country_code, email, phone, website, is_manufacturer, is_active, created_at, updated_at`

func scan(row pgx.Row) (Supplier, error) {
	var s Supplier
	err := row.Scan(&s.Code, &s.Name, &s.AddressLine1, &s.AddressLine2, &s.City, &s.CountryCode, &s.Email, &s.Phone, &s.Website, &s.IsManufacturer, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Supplier, int, error) {
	conn := db.Conn(ctx, r.db)
	search := "%" + filters.Search + "%"

	var total int
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM suppliers WHERE name ILIKE $1 OR code ILIKE $1`, search).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := conn.Query(ctx, `SELECT `+columns+` FROM suppliers WHERE name ILIKE $1 OR code ILIKE $1 ORDER BY name LIMIT $2 OFFSET $3`, search, filters.PerPage, filters.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var suppliers []Supplier
	for rows.Next() {
		s, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, code string) (Supplier, error) {
	s, err := scan(db.Conn(ctx, r.db).QueryRow(ctx, `SELECT `+columns+` FROM suppliers WHERE code = $1`, code))
	return s, db.Translate(err, entity, constraints)
}

func (r *repository) Create(ctx context.Context, s Supplier) (Supplier, error) {
	query := `INSERT INTO suppliers (code, name, address_line1, address_line2, city, country_code, email, phone, website, is_manufacturer, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (code) DO NOTHING
		RETURNING created_at, updated_at`
	err := db.Conn(ctx, r.db).QueryRow(ctx, query, s.Code, s.Name, s.AddressLine1, s.AddressLine2, s.City, s.CountryCode, s.Email, s.Phone, s.Website, s.IsManufacturer, s.IsActive).Scan(&s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Supplier{}, shared.Duplicate(entity, shared.FieldCode)
	}
	if err != nil {
		return Supplier{}, db.Translate(err, entity, constraints)
	}
	return s, nil
}

func (r *repository) Update(ctx context.Context, s Supplier) error {
	query := `UPDATE suppliers SET name = $2, address_line1 = $3, address_line2 = $4, city = $5, country_code = $6,
		email = $7, phone = $8, website = $9, is_manufacturer = $10, is_active = $11, updated_at = NOW()
		WHERE code = $1`
	tag, err := db.Conn(ctx, r.db).Exec(ctx, query, s.Code, s.Name, s.AddressLine1, s.AddressLine2, s.City, s.CountryCode, s.Email, s.Phone, s.Website, s.IsManufacturer, s.IsActive)
	if err != nil {
		return db.Translate(err, entity, constraints)
	}
	if tag.RowsAffected() == 0 {
		return db.Translate(pgx.ErrNoRows, entity, nil)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, code string) error {
	tag, err := db.Conn(ctx, r.db).Exec(ctx, `DELETE FROM suppliers WHERE code = $1`, code)
	if err != nil {
		return db.Translate(err, entity, constraints)
	}
	if tag.RowsAffected() == 0 {
		return db.Translate(pgx.ErrNoRows, entity, nil)
	}
	return nil
}
