package invoicing

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gaia-project/gaia/internal/platform/db"
	"github.com/gaia-project/gaia/internal/shared"
)

const entity = "invoice"

var constraints = map[string]string{"client_invoices_build_code_key": "build_code"}

type RepositoryPort interface {
	CreateInvoice(ctx context.Context, inv ClientInvoice) (ClientInvoice, error)
	GetInvoice(ctx context.Context, code string) (ClientInvoice, error)
	GetInvoiceByBuild(ctx context.Context, buildCode string) (ClientInvoice, error)
	ListInvoices(ctx context.Context, filters shared.ListFilters) ([]ClientInvoice, int, error)
	UpdateInvoice(ctx context.Context, inv ClientInvoice) error
	AddItem(ctx context.Context, item Item) (Item, error)
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const invoiceColumns = `code, client_code, build_code, order_code, is_sent, created_at`

func scanInvoice(row pgx.Row) (ClientInvoice, error) {
	var inv ClientInvoice
	err := row.Scan(&inv.Code, &inv.ClientCode, &inv.BuildCode, &inv.OrderCode, &inv.IsSent, &inv.CreatedAt)
	return inv, err
}

func (r *Repository) CreateInvoice(ctx context.Context, inv ClientInvoice) (ClientInvoice, error) {
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `INSERT INTO client_invoices (code, client_code, build_code, order_code, is_sent)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (code) DO NOTHING
		RETURNING created_at`, inv.Code, inv.ClientCode, inv.BuildCode, inv.OrderCode, inv.IsSent).Scan(&inv.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ClientInvoice{}, shared.Duplicate(entity, shared.FieldCode)
	}
	if err != nil {
		return ClientInvoice{}, db.Translate(err, entity, constraints)
	}
	inv.Items = nil
	return inv, nil
}

func (r *Repository) GetInvoice(ctx context.Context, code string) (ClientInvoice, error) {
	return r.getInvoice(ctx, `SELECT `+invoiceColumns+` FROM client_invoices WHERE code = $1`, code)
}

func (r *Repository) GetInvoiceByBuild(ctx context.Context, buildCode string) (ClientInvoice, error) {
	return r.getInvoice(ctx, `SELECT `+invoiceColumns+` FROM client_invoices WHERE build_code = $1`, buildCode)
}

func (r *Repository) getInvoice(ctx context.Context, query, arg string) (ClientInvoice, error) {
	conn := db.Conn(ctx, r.pool)
	inv, err := scanInvoice(conn.QueryRow(ctx, query, arg))
	if err != nil {
		return ClientInvoice{}, db.Translate(err, entity, nil)
	}
	rows, err := conn.Query(ctx, `SELECT id, invoice_code, product_code, supplier_code, description, amount, unit_price, cable_length, unit
		FROM client_invoice_items WHERE invoice_code = $1 ORDER BY id`, inv.Code)
	if err != nil {
		return ClientInvoice{}, err
	}
	inv.Items, err = pgx.CollectRows(rows, pgx.RowToStructByPos[Item])
	if err != nil {
		return ClientInvoice{}, err
	}
	return inv, nil
}

func (r *Repository) ListInvoices(ctx context.Context, filters shared.ListFilters) ([]ClientInvoice, int, error) {
	conn := db.Conn(ctx, r.pool)
	search := "%" + filters.Search + "%"

	var total int
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM client_invoices WHERE code ILIKE $1 OR client_code ILIKE $1`, search).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn.Query(ctx, `SELECT `+invoiceColumns+` FROM client_invoices WHERE code ILIKE $1 OR client_code ILIKE $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, search, filters.PerPage, filters.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var invoices []ClientInvoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, total, rows.Err()
}

func (r *Repository) UpdateInvoice(ctx context.Context, inv ClientInvoice) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `UPDATE client_invoices SET is_sent = $2 WHERE code = $1`, inv.Code, inv.IsSent)
	if err != nil {
		return db.Translate(err, entity, constraints)
	}
	if tag.RowsAffected() == 0 {
		return db.Translate(pgx.ErrNoRows, entity, nil)
	}
	return nil
}

func (r *Repository) AddItem(ctx context.Context, item Item) (Item, error) {
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `INSERT INTO client_invoice_items
		(invoice_code, product_code, supplier_code, description, amount, unit_price, cable_length, unit)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		item.InvoiceCode, item.ProductCode, item.SupplierCode, item.Description, item.Amount, item.UnitPrice, item.CableLength, item.Unit).Scan(&item.ID)
	if err != nil {
		return Item{}, db.Translate(err, "invoice item", nil)
	}
	return item, nil
}
