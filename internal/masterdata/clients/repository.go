package clients

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gaia-project/gaia/internal/platform/db"
	"github.com/gaia-project/gaia/internal/shared"
)

const entity = "client"

var constraints = map[string]string{"clients_name_key": "name"}

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Client, int, error)
	Get(ctx context.Context, code string) (Client, error)
	Create(ctx context.Context, client Client) (Client, error)
	Update(ctx context.Context, client Client) error
	Delete(ctx context.Context, code string) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const columns = `code, name, user_id, email, phone, address_line1, address_line2, city, country_code, created_at, updated_at`

func scan(row pgx.Row) (Client, error) {
	var c Client
	err := row.Scan(&c.Code, &c.Name, &c.UserID, &c.Email, &c.Phone, &c.AddressLine1, &c.AddressLine2, &c.City, &c.CountryCode, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Client, int, error) {
	conn := db.Conn(ctx, r.db)
	search := "%" + filters.Search + "%"

	var total int
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM clients WHERE name ILIKE $1 OR code ILIKE $1`, search).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn.Query(ctx, `SELECT `+columns+` FROM clients WHERE name ILIKE $1 OR code ILIKE $1 ORDER BY name LIMIT $2 OFFSET $3`, search, filters.PerPage, filters.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var clients []Client
	for rows.Next() {
		c, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		clients = append(clients, c)
	}
	return clients, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, code string) (Client, error) {
	c, err := scan(db.Conn(ctx, r.db).QueryRow(ctx, `SELECT `+columns+` FROM clients WHERE code = $1`, code))
	return c, db.Translate(err, entity, constraints)
}

func (r *repository) Create(ctx context.Context, c Client) (Client, error) {
	query := `INSERT INTO clients (code, name, user_id, email, phone, address_line1, address_line2, city, country_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (code) DO NOTHING
		RETURNING created_at, updated_at`
	err := db.Conn(ctx, r.db).QueryRow(ctx, query, c.Code, c.Name, c.UserID, c.Email, c.Phone, c.AddressLine1, c.AddressLine2, c.City, c.CountryCode).Scan(&c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Client{}, shared.Duplicate(entity, shared.FieldCode)
	}
	if err != nil {
		return Client{}, db.Translate(err, entity, constraints)
	}
	return c, nil
}

func (r *repository) Update(ctx context.Context, c Client) error {
	query := `UPDATE clients SET name = $2, user_id = $3, email = $4, phone = $5, address_line1 = $6,
		address_line2 = $7, city = $8, country_code = $9, updated_at = NOW()
		WHERE code = $1`
	tag, err := db.Conn(ctx, r.db).Exec(ctx, query, c.Code, c.Name, c.UserID, c.Email, c.Phone, c.AddressLine1, c.AddressLine2, c.City, c.CountryCode)
	if err != nil {
		return db.Translate(err, entity, constraints)
	}
	if tag.RowsAffected() == 0 {
		return db.Translate(pgx.ErrNoRows, entity, nil)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, code string) error {
	tag, err := db.Conn(ctx, r.db).Exec(ctx, `DELETE FROM clients WHERE code = $1`, code)
	if err != nil {
		return db.Translate(err, entity, constraints)
	}
	if tag.RowsAffected() == 0 {
		return db.Translate(pgx.ErrNoRows, entity, nil)
	}
	return nil
}
