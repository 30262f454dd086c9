package procurement

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gaia-project/gaia/internal/platform/db"
	"github.com/gaia-project/gaia/internal/shared"
)

const entity = "purchase order"

var constraints = map[string]string{"purchase_orders_build_code_key": "build_code"}

// RepositoryPort describes repository operations used by Service and the cascade.
type RepositoryPort interface {
	CreateOrder(ctx context.Context, po PurchaseOrder) (PurchaseOrder, error)
	GetOrder(ctx context.Context, code string) (PurchaseOrder, error)
	GetOrderByBuild(ctx context.Context, buildCode string) (PurchaseOrder, error)
	ListOrders(ctx context.Context, filters shared.ListFilters) ([]PurchaseOrder, int, error)
	UpdateOrder(ctx context.Context, po PurchaseOrder) error
	AddItem(ctx context.Context, item Item) (Item, error)
}

// Repository is the PostgreSQL RepositoryPort.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const orderColumns = `code, build_code, is_ordered, created_by, created_at`

func (r *Repository) CreateOrder(ctx context.Context, po PurchaseOrder) (PurchaseOrder, error) {
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `INSERT INTO purchase_orders (code, build_code, is_ordered, created_by)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (code) DO NOTHING
		RETURNING created_at`, po.Code, po.BuildCode, po.IsOrdered, po.CreatedBy).Scan(&po.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return PurchaseOrder{}, shared.Duplicate(entity, shared.FieldCode)
	}
	if err != nil {
		return PurchaseOrder{}, db.Translate(err, entity, constraints)
	}
	po.Items = nil
	return po, nil
}

func (r *Repository) GetOrder(ctx context.Context, code string) (PurchaseOrder, error) {
	return r.getOrder(ctx, `SELECT `+orderColumns+` FROM purchase_orders WHERE code = $1`, code)
}

func (r *Repository) GetOrderByBuild(ctx context.Context, buildCode string) (PurchaseOrder, error) {
	return r.getOrder(ctx, `SELECT `+orderColumns+` FROM purchase_orders WHERE build_code = $1`, buildCode)
}

func (r *Repository) getOrder(ctx context.Context, query, arg string) (PurchaseOrder, error) {
	conn := db.Conn(ctx, r.pool)
	var po PurchaseOrder
	err := conn.QueryRow(ctx, query, arg).Scan(&po.Code, &po.BuildCode, &po.IsOrdered, &po.CreatedBy, &po.CreatedAt)
	if err != nil {
		return PurchaseOrder{}, db.Translate(err, entity, nil)
	}
	rows, err := conn.Query(ctx, `SELECT id, order_code, product_code, supplier_code, description, amount, unit_price, cable_length, unit
		FROM purchase_order_items WHERE order_code = $1 ORDER BY id`, po.Code)
	if err != nil {
		return PurchaseOrder{}, err
	}
	po.Items, err = pgx.CollectRows(rows, pgx.RowToStructByPos[Item])
	if err != nil {
		return PurchaseOrder{}, err
	}
	return po, nil
}

func (r *Repository) ListOrders(ctx context.Context, filters shared.ListFilters) ([]PurchaseOrder, int, error) {
	conn := db.Conn(ctx, r.pool)
	search := "%" + filters.Search + "%"

	var total int
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM purchase_orders WHERE code ILIKE $1 OR build_code ILIKE $1`, search).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := conn.Query(ctx, `SELECT `+orderColumns+` FROM purchase_orders WHERE code ILIKE $1 OR build_code ILIKE $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, search, filters.PerPage, filters.Offset())
	if err != nil {
		return nil, 0, err
	}
	orders, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (PurchaseOrder, error) {
		var po PurchaseOrder
		err := row.Scan(&po.Code, &po.BuildCode, &po.IsOrdered, &po.CreatedBy, &po.CreatedAt)
		return po, err
	})
	return orders, total, err
}

func (r *Repository) UpdateOrder(ctx context.Context, po PurchaseOrder) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `UPDATE purchase_orders SET is_ordered = $2, created_by = $3 WHERE code = $1`, po.Code, po.IsOrdered, po.CreatedBy)
	if err != nil {
		return db.Translate(err, entity, constraints)
	}
	if tag.RowsAffected() == 0 {
		return db.Translate(pgx.ErrNoRows, entity, nil)
	}
	return nil
}

func (r *Repository) AddItem(ctx context.Context, item Item) (Item, error) {
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `INSERT INTO purchase_order_items
		(order_code, product_code, supplier_code, description, amount, unit_price, cable_length, unit)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		item.OrderCode, item.ProductCode, item.SupplierCode, item.Description, item.Amount, item.UnitPrice, item.CableLength, item.Unit).Scan(&item.ID)
	if err != nil {
		return Item{}, db.Translate(err, "purchase order item", nil)
	}
	return item, nil
}
