package colours

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gaia-project/gaia/internal/platform/db"
)

var constraints = map[string]string{
	"colour_codes_name_key":       "name",
	"colour_codes_rgb_key":        "rgb",
	"rj45_pinouts_name_pin_key":    "pin_number",
	"rj45_pinouts_name_colour_key": "colour",
}

type Repository interface {
	ListColours(ctx context.Context) ([]ColourCode, error)
	GetColour(ctx context.Context, id int64) (ColourCode, error)
	CreateColour(ctx context.Context, colour ColourCode) (ColourCode, error)
	UpdateColour(ctx context.Context, colour ColourCode) error
	DeleteColour(ctx context.Context, id int64) error

	ListPins(ctx context.Context) ([]Pin, error)
	PinsByName(ctx context.Context, name string) ([]Pin, error)
	CreatePin(ctx context.Context, pin Pin) (Pin, error)
	DeletePinout(ctx context.Context, name string) (int64, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) ListColours(ctx context.Context) ([]ColourCode, error) {
	rows, err := db.Conn(ctx, r.db).Query(ctx, `SELECT id, name, rgb, hex FROM colour_codes ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[ColourCode])
}

func (r *repository) GetColour(ctx context.Context, id int64) (ColourCode, error) {
	var c ColourCode
	err := db.Conn(ctx, r.db).QueryRow(ctx, `SELECT id, name, rgb, hex FROM colour_codes WHERE id = $1`, id).Scan(&c.ID, &c.Name, &c.RGB, &c.Hex)
	return c, db.Translate(err, "colour", constraints)
}

func (r *repository) CreateColour(ctx context.Context, c ColourCode) (ColourCode, error) {
	err := db.Conn(ctx, r.db).QueryRow(ctx, `INSERT INTO colour_codes (name, rgb, hex) VALUES ($1, $2, $3) RETURNING id`, c.Name, c.RGB, c.Hex).Scan(&c.ID)
	if err != nil {
		return ColourCode{}, db.Translate(err, "colour", constraints)
	}
	return c, nil
}

func (r *repository) UpdateColour(ctx context.Context, c ColourCode) error {
	tag, err := db.Conn(ctx, r.db).Exec(ctx, `UPDATE colour_codes SET name = $2, rgb = $3, hex = $4 WHERE id = $1`, c.ID, c.Name, c.RGB, c.Hex)
	if err != nil {
		return db.Translate(err, "colour", constraints)
	}
	if tag.RowsAffected() == 0 {
		return db.Translate(pgx.ErrNoRows, "colour", nil)
	}
	return nil
}

func (r *repository) DeleteColour(ctx context.Context, id int64) error {
	tag, err := db.Conn(ctx, r.db).Exec(ctx, `DELETE FROM colour_codes WHERE id = $1`, id)
	if err != nil {
		return db.Translate(err, "colour", constraints)
	}
	if tag.RowsAffected() == 0 {
		return db.Translate(pgx.ErrNoRows, "colour", nil)
	}
	return nil
}

func (r *repository) ListPins(ctx context.Context) ([]Pin, error) {
	rows, err := db.Conn(ctx, r.db).Query(ctx, `SELECT id, name, pin_number, colour FROM rj45_pinouts ORDER BY name, pin_number`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[Pin])
}

func (r *repository) PinsByName(ctx context.Context, name string) ([]Pin, error) {
	rows, err := db.Conn(ctx, r.db).Query(ctx, `SELECT id, name, pin_number, colour FROM rj45_pinouts WHERE name = $1 ORDER BY pin_number`, name)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[Pin])
}

func (r *repository) CreatePin(ctx context.Context, p Pin) (Pin, error) {
	err := db.Conn(ctx, r.db).QueryRow(ctx, `INSERT INTO rj45_pinouts (name, pin_number, colour) VALUES ($1, $2, $3) RETURNING id`, p.Name, p.PinNumber, p.Colour).Scan(&p.ID)
	if err != nil {
		return Pin{}, db.Translate(err, "pinout", constraints)
	}
	return p, nil
}

func (r *repository) DeletePinout(ctx context.Context, name string) (int64, error) {
	tag, err := db.Conn(ctx, r.db).Exec(ctx, `DELETE FROM rj45_pinouts WHERE name = $1`, name)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
