// Package countries keeps the country reference list used by addresses.
package countries

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gaia-project/gaia/internal/platform/db"
	"github.com/gaia-project/gaia/internal/shared"
)

type Country struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	ISOCode string `json:"iso_code"`
}

// Row is one entry of a bulk import.
type Row struct {
	Name    string `json:"name" validate:"required,max=100"`
	ISOCode string `json:"iso_code" validate:"required,alpha,min=2,max=3"`
}

type Repository interface {
	List(ctx context.Context) ([]Country, error)
	// GetOrCreate inserts the pair unless it already exists and reports
	// whether a row was created.
	GetOrCreate(ctx context.Context, name, isoCode string) (Country, bool, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]Country, error) {
	rows, err := db.Conn(ctx, r.db).Query(ctx, `SELECT id, name, iso_code FROM countries ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[Country])
}

func (r *repository) GetOrCreate(ctx context.Context, name, isoCode string) (Country, bool, error) {
	conn := db.Conn(ctx, r.db)
	c := Country{Name: name, ISOCode: isoCode}
	err := conn.QueryRow(ctx, `INSERT INTO countries (name, iso_code) VALUES ($1, $2)
		ON CONFLICT (name, iso_code) DO NOTHING RETURNING id`, name, isoCode).Scan(&c.ID)
	if err == nil {
		return c, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Country{}, false, db.Translate(err, "country", nil)
	}
	err = conn.QueryRow(ctx, `SELECT id FROM countries WHERE name = $1 AND iso_code = $2`, name, isoCode).Scan(&c.ID)
	return c, false, db.Translate(err, "country", nil)
}

type Service struct {
	repo Repository
	tx   shared.Transactor
}

func NewService(repo Repository, tx shared.Transactor) *Service {
	return &Service{repo: repo, tx: tx}
}

func (s *Service) List(ctx context.Context) ([]Country, error) {
	return s.repo.List(ctx)
}

// Import upserts rows in one transaction and returns how many were new.
// Blank rows are skipped; any invalid row aborts the whole import.
func (s *Service) Import(ctx context.Context, rows []Row) (int, error) {
	clean := make([]Row, 0, len(rows))
	for i, row := range rows {
		row.Name = strings.TrimSpace(row.Name)
		row.ISOCode = strings.ToUpper(strings.TrimSpace(row.ISOCode))
		if row.Name == "" && row.ISOCode == "" {
			continue
		}
		if err := shared.Validate(row); err != nil {
			return 0, fmt.Errorf("row %d: %w", i+1, err)
		}
		clean = append(clean, row)
	}

	created := 0
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		created = 0
		for _, row := range clean {
			_, isNew, err := s.repo.GetOrCreate(ctx, row.Name, row.ISOCode)
			if err != nil {
				return err
			}
			if isNew {
				created++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}
