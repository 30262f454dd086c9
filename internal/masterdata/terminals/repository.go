package terminals

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gaia-project/gaia/internal/platform/db"
)

const entity = "terminal"

type Repository interface {
	List(ctx context.Context) ([]Terminal, error)
	Get(ctx context.Context, id int64) (Terminal, error)
	Create(ctx context.Context, terminal Terminal) (Terminal, error)
	Update(ctx context.Context, terminal Terminal) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]Terminal, error) {
	rows, err := db.Conn(ctx, r.db).Query(ctx, `SELECT id, name, product_code FROM terminals ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Terminal, error) {
		var t Terminal
		err := row.Scan(&t.ID, &t.Name, &t.ProductCode)
		return t, err
	})
}

func (r *repository) Get(ctx context.Context, id int64) (Terminal, error) {
	var t Terminal
	err := db.Conn(ctx, r.db).QueryRow(ctx, `SELECT id, name, product_code FROM terminals WHERE id = $1`, id).Scan(&t.ID, &t.Name, &t.ProductCode)
	return t, db.Translate(err, entity, nil)
}

func (r *repository) Create(ctx context.Context, t Terminal) (Terminal, error) {
	err := db.Conn(ctx, r.db).QueryRow(ctx, `INSERT INTO terminals (name, product_code) VALUES ($1, $2) RETURNING id`, t.Name, t.ProductCode).Scan(&t.ID)
	if err != nil {
		return Terminal{}, db.Translate(err, entity, nil)
	}
	return t, nil
}

func (r *repository) Update(ctx context.Context, t Terminal) error {
	tag, err := db.Conn(ctx, r.db).Exec(ctx, `UPDATE terminals SET name = $2, product_code = $3 WHERE id = $1`, t.ID, t.Name, t.ProductCode)
	if err != nil {
		return db.Translate(err, entity, nil)
	}
	if tag.RowsAffected() == 0 {
		return db.Translate(pgx.ErrNoRows, entity, nil)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := db.Conn(ctx, r.db).Exec(ctx, `DELETE FROM terminals WHERE id = $1`, id)
	if err != nil {
		return db.Translate(err, entity, nil)
	}
	if tag.RowsAffected() == 0 {
		return db.Translate(pgx.ErrNoRows, entity, nil)
	}
	return nil
}
