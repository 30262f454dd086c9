package cables

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gaia-project/gaia/internal/platform/db"
)

const entity = "cable"

var constraints = map[string]string{"cables_product_code_key": "product_code"}

type Repository interface {
	List(ctx context.Context) ([]Cable, error)
	Get(ctx context.Context, id int64) (Cable, error)
	Create(ctx context.Context, cable Cable) (Cable, error)
	Update(ctx context.Context, cable Cable) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const columns = `id, name, type, product_code, colour_id, gbps, mbps`

func scan(row pgx.Row) (Cable, error) {
	var c Cable
	err := row.Scan(&c.ID, &c.Name, &c.Type, &c.ProductCode, &c.ColourID, &c.Gbps, &c.Mbps)
	return c, err
}

func (r *repository) List(ctx context.Context) ([]Cable, error) {
	rows, err := db.Conn(ctx, r.db).Query(ctx, `SELECT `+columns+` FROM cables ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var cables []Cable
	for rows.Next() {
		c, err := scan(rows)
		if err != nil {
			return nil, err
		}
		cables = append(cables, c)
	}
	return cables, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Cable, error) {
	c, err := scan(db.Conn(ctx, r.db).QueryRow(ctx, `SELECT `+columns+` FROM cables WHERE id = $1`, id))
	return c, db.Translate(err, entity, constraints)
}

func (r *repository) Create(ctx context.Context, c Cable) (Cable, error) {
	err := db.Conn(ctx, r.db).QueryRow(ctx,
		`INSERT INTO cables (name, type, product_code, colour_id, gbps, mbps) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		c.Name, c.Type, c.ProductCode, c.ColourID, c.Gbps, c.Mbps).Scan(&c.ID)
	if err != nil {
		return Cable{}, db.Translate(err, entity, constraints)
	}
	return c, nil
}

func (r *repository) Update(ctx context.Context, c Cable) error {
	tag, err := db.Conn(ctx, r.db).Exec(ctx,
		`UPDATE cables SET name = $2, type = $3, product_code = $4, colour_id = $5, gbps = $6, mbps = $7 WHERE id = $1`,
		c.ID, c.Name, c.Type, c.ProductCode, c.ColourID, c.Gbps, c.Mbps)
	if err != nil {
		return db.Translate(err, entity, constraints)
	}
	if tag.RowsAffected() == 0 {
		return db.Translate(pgx.ErrNoRows, entity, nil)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := db.Conn(ctx, r.db).Exec(ctx, `DELETE FROM cables WHERE id = $1`, id)
	if err != nil {
		return db.Translate(err, entity, constraints)
	}
	if tag.RowsAffected() == 0 {
		return db.Translate(pgx.ErrNoRows, entity, nil)
	}
	return nil
}
