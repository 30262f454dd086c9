package ledger

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gaia-project/gaia/internal/platform/db"
)

var constraints = map[string]string{
	"accounts_name_key":                    "name",
	"account_transactions_pkey":            "id",
	"account_transactions_kind_order_key":   "order_code",
	"account_transactions_kind_invoice_key": "invoice_code",
}

type RepositoryPort interface {
	// EnsureAccount returns the account called name, creating it if absent.
	EnsureAccount(ctx context.Context, name string) (Account, error)
	GetAccount(ctx context.Context, id int64) (Account, error)
	ListAccounts(ctx context.Context) ([]Account, error)
	CreateTransaction(ctx context.Context, tx Transaction) (Transaction, error)
	HasTransaction(ctx context.Context, kind Kind, ref Reference) (bool, error)
	ListTransactions(ctx context.Context, accountID int64) ([]Transaction, error)
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) EnsureAccount(ctx context.Context, name string) (Account, error) {
	conn := db.Conn(ctx, r.pool)
	acc := Account{Name: name}
	err := conn.QueryRow(ctx, `INSERT INTO accounts (name) VALUES ($1) ON CONFLICT (name) DO NOTHING RETURNING id, created_at`, name).Scan(&acc.ID, &acc.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		err = conn.QueryRow(ctx, `SELECT id, created_at FROM accounts WHERE name = $1`, name).Scan(&acc.ID, &acc.CreatedAt)
	}
	if err != nil {
		return Account{}, db.Translate(err, "account", constraints)
	}
	return acc, nil
}

func (r *Repository) GetAccount(ctx context.Context, id int64) (Account, error) {
	var acc Account
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT id, name, created_at FROM accounts WHERE id = $1`, id).Scan(&acc.ID, &acc.Name, &acc.CreatedAt)
	return acc, db.Translate(err, "account", nil)
}

func (r *Repository) ListAccounts(ctx context.Context) ([]Account, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `SELECT id, name, created_at FROM accounts ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[Account])
}

func (r *Repository) CreateTransaction(ctx context.Context, tx Transaction) (Transaction, error) {
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `INSERT INTO account_transactions
		(id, account_id, kind, amount, occurred_at, invoice_code, order_code, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING occurred_at`,
		tx.ID, tx.AccountID, tx.Kind, tx.Amount, tx.OccurredAt, tx.InvoiceCode, tx.OrderCode, tx.Description).Scan(&tx.OccurredAt)
	if err != nil {
		return Transaction{}, db.Translate(err, "account transaction", constraints)
	}
	return tx, nil
}

func (r *Repository) HasTransaction(ctx context.Context, kind Kind, ref Reference) (bool, error) {
	var exists bool
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT EXISTS (
		SELECT 1 FROM account_transactions
		WHERE kind = $1 AND (($2 <> '' AND invoice_code = $2) OR ($3 <> '' AND order_code = $3)))`,
		kind, ref.InvoiceCode, ref.OrderCode).Scan(&exists)
	return exists, err
}

func (r *Repository) ListTransactions(ctx context.Context, accountID int64) ([]Transaction, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `SELECT id, account_id, kind, amount, occurred_at, invoice_code, order_code, description
		FROM account_transactions WHERE account_id = $1 ORDER BY occurred_at, id`, accountID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[Transaction])
}

var _ RepositoryPort = (*Repository)(nil)
