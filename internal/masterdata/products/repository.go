package products

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gaia-project/gaia/internal/platform/db"
	"github.com/gaia-project/gaia/internal/shared"
)

const entity = "product"

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Product, int, error)
	Get(ctx context.Context, code string) (Product, error)
	Create(ctx context.Context, product Product) (Product, error)
	Update(ctx context.Context, product Product) error
	Delete(ctx context.Context, code string) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const columns = `code, name, supplier_code, manufacturer_code, price, unit, description, is_active, created_at, updated_at`

func scan(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.Code, &p.Name, &p.SupplierCode, &p.ManufacturerCode, &p.Price, &p.Unit, &p.Description, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Product, int, error) {
	conn := db.Conn(ctx, r.db)
	search := "%" + filters.Search + "%"

	var total int
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE name ILIKE $1 OR code ILIKE $1`, search).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := conn.Query(ctx, `SELECT `+columns+` FROM products WHERE name ILIKE $1 OR code ILIKE $1 ORDER BY name LIMIT $2 OFFSET $3`, search, filters.PerPage, filters.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, code string) (Product, error) {
	p, err := scan(db.Conn(ctx, r.db).QueryRow(ctx, `SELECT `+columns+` FROM products WHERE code = $1`, code))
	return p, db.Translate(err, entity, nil)
}

func (r *repository) Create(ctx context.Context, p Product) (Product, error) {
	query := `INSERT INTO products (code, name, supplier_code, manufacturer_code, price, unit, description, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (code) DO NOTHING
		RETURNING created_at, updated_at`
	err := db.Conn(ctx, r.db).QueryRow(ctx, query, p.Code, p.Name, p.SupplierCode, p.ManufacturerCode, p.Price, p.Unit, p.Description, p.IsActive).Scan(&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, shared.Duplicate(entity, shared.FieldCode)
	}
	if err != nil {
		return Product{}, db.Translate(err, entity, nil)
	}
	return p, nil
}

func (r *repository) Update(ctx context.Context, p Product) error {
	query := `UPDATE products SET name = $2, supplier_code = $3, manufacturer_code = $4, price = $5, unit = $6,
		description = $7, is_active = $8, updated_at = NOW()
		WHERE code = $1`
	tag, err := db.Conn(ctx, r.db).Exec(ctx, query, p.Code, p.Name, p.SupplierCode, p.ManufacturerCode, p.Price, p.Unit, p.Description, p.IsActive)
	if err != nil {
		return db.Translate(err, entity, nil)
	}
	if tag.RowsAffected() == 0 {
		return db.Translate(pgx.ErrNoRows, entity, nil)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, code string) error {
	tag, err := db.Conn(ctx, r.db).Exec(ctx, `DELETE FROM products WHERE code = $1`, code)
	if err != nil {
		return db.Translate(err, entity, nil)
	}
	if tag.RowsAffected() == 0 {
		return db.Translate(pgx.ErrNoRows, entity, nil)
	}
	return nil
}
