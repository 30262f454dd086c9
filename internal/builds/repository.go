package builds

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gaia-project/gaia/internal/platform/db"
	"github.com/gaia-project/gaia/internal/shared"
)

var connectionConstraints = map[string]string{"connections_build_code_key": shared.FieldCode}

// RepositoryPort describes persistence used by Service and the cascade.
type RepositoryPort interface {
	CreateBuild(ctx context.Context, build SystemBuild) (SystemBuild, error)
	GetBuild(ctx context.Context, code string) (SystemBuild, error)
	ListBuilds(ctx context.Context, filters shared.ListFilters) ([]SystemBuild, int, error)
	UpdateBuild(ctx context.Context, build SystemBuild) error
	DeleteBuild(ctx context.Context, code string) error
	CreateConnection(ctx context.Context, conn Connection) (Connection, error)
	ListConnections(ctx context.Context, buildCode string) ([]Connection, error)
	DeleteConnection(ctx context.Context, buildCode string, id int64) error
}

// Repository is the PostgreSQL RepositoryPort.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const buildColumns = `code, client_code, is_complete, is_active, designer_id, notes, description, created_at`

func scanBuild(row pgx.Row) (SystemBuild, error) {
	var b SystemBuild
	err := row.Scan(&b.Code, &b.ClientCode, &b.IsComplete, &b.IsActive, &b.DesignerID, &b.Notes, &b.Description, &b.CreatedAt)
	return b, err
}

func (r *Repository) CreateBuild(ctx context.Context, b SystemBuild) (SystemBuild, error) {
	query := `INSERT INTO system_builds (code, client_code, is_complete, is_active, designer_id, notes, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (code) DO NOTHING
		RETURNING created_at`
	err := db.Conn(ctx, r.pool).QueryRow(ctx, query, b.Code, b.ClientCode, b.IsComplete, b.IsActive, b.DesignerID, b.Notes, b.Description).Scan(&b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return SystemBuild{}, shared.Duplicate("build", shared.FieldCode)
	}
	if err != nil {
		return SystemBuild{}, db.Translate(err, "build", nil)
	}
	return b, nil
}

func (r *Repository) GetBuild(ctx context.Context, code string) (SystemBuild, error) {
	b, err := scanBuild(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+buildColumns+` FROM system_builds WHERE code = $1`, code))
	return b, db.Translate(err, "build", nil)
}

func (r *Repository) ListBuilds(ctx context.Context, filters shared.ListFilters) ([]SystemBuild, int, error) {
	conn := db.Conn(ctx, r.pool)
	search := "%" + filters.Search + "%"

	var total int
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM system_builds WHERE code ILIKE $1 OR client_code ILIKE $1`, search).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn.Query(ctx, `SELECT `+buildColumns+` FROM system_builds WHERE code ILIKE $1 OR client_code ILIKE $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, search, filters.PerPage, filters.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var builds []SystemBuild
	for rows.Next() {
		b, err := scanBuild(rows)
		if err != nil {
			return nil, 0, err
		}
		builds = append(builds, b)
	}
	return builds, total, rows.Err()
}

func (r *Repository) UpdateBuild(ctx context.Context, b SystemBuild) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `UPDATE system_builds SET is_complete = $2, is_active = $3, designer_id = $4,
		notes = $5, description = $6 WHERE code = $1`, b.Code, b.IsComplete, b.IsActive, b.DesignerID, b.Notes, b.Description)
	if err != nil {
		return db.Translate(err, "build", nil)
	}
	if tag.RowsAffected() == 0 {
		return db.Translate(pgx.ErrNoRows, "build", nil)
	}
	return nil
}

func (r *Repository) DeleteBuild(ctx context.Context, code string) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM system_builds WHERE code = $1`, code)
	if err != nil {
		return db.Translate(err, "build", nil)
	}
	if tag.RowsAffected() == 0 {
		return db.Translate(pgx.ErrNoRows, "build", nil)
	}
	return nil
}

func (r *Repository) CreateConnection(ctx context.Context, c Connection) (Connection, error) {
	query := `INSERT INTO connections (build_code, code, terminal_a_id, terminal_b_id, cable_id, label)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (build_code, code) DO NOTHING
		RETURNING id`
	err := db.Conn(ctx, r.pool).QueryRow(ctx, query, c.BuildCode, c.Code, c.TerminalAID, c.TerminalBID, c.CableID, c.Label).Scan(&c.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Connection{}, shared.Duplicate("connection", shared.FieldCode)
	}
	if err != nil {
		return Connection{}, db.Translate(err, "connection", connectionConstraints)
	}
	return c, nil
}

func (r *Repository) ListConnections(ctx context.Context, buildCode string) ([]Connection, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `SELECT id, build_code, code, terminal_a_id, terminal_b_id, cable_id, label
		FROM connections WHERE build_code = $1 ORDER BY id`, buildCode)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[Connection])
}

func (r *Repository) DeleteConnection(ctx context.Context, buildCode string, id int64) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM connections WHERE build_code = $1 AND id = $2`, buildCode, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return db.Translate(pgx.ErrNoRows, "connection", nil)
	}
	return nil
}
