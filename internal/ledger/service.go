package ledger

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/gaia-project/gaia/internal/shared"
)

// AccountBalance is the computed balance of one account.
type AccountBalance struct {
	Account Account         `json:"account"`
	Balance decimal.Decimal `json:"balance"`
	AsOf    time.Time       `json:"as_of"`
}

// RecordInput describes a manual CREDIT or BILL entry.
type RecordInput struct {
	AccountID   int64           `json:"account_id" validate:"required,gt=0"`
	Kind        Kind            `json:"kind" validate:"required,oneof=CREDIT BILL"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" validate:"max=500"`
}

// Service reads balances and records manual entries. Document postings are
// made by the cascade.
type Service struct {
	repo  RepositoryPort
	group singleflight.Group
	now   func() time.Time
}

// NewService constructs the ledger service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) ListAccounts(ctx context.Context) ([]Account, error) {
	return s.repo.ListAccounts(ctx)
}

func (s *Service) Transactions(ctx context.Context, accountID int64) ([]Transaction, error) {
	if _, err := s.repo.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}
	return s.repo.ListTransactions(ctx, accountID)
}

// Balance computes the account balance from its transactions on every call.
// Concurrent calls for the same account share one computation.
func (s *Service) Balance(ctx context.Context, accountID int64) (AccountBalance, error) {
	v, err, _ := s.group.Do(balanceKey(accountID), func() (any, error) {
		acc, err := s.repo.GetAccount(ctx, accountID)
		if err != nil {
			return AccountBalance{}, err
		}
		txs, err := s.repo.ListTransactions(ctx, accountID)
		if err != nil {
			return AccountBalance{}, err
		}
		return AccountBalance{Account: acc, Balance: Balance(txs).Round(2), AsOf: s.now()}, nil
	})
	if err != nil {
		return AccountBalance{}, err
	}
	return v.(AccountBalance), nil
}

// Record posts a manual entry.
func (s *Service) Record(ctx context.Context, in RecordInput) (Transaction, error) {
	in.Kind = Kind(strings.ToUpper(string(in.Kind)))
	in.Description = strings.TrimSpace(in.Description)
	if err := shared.Validate(in); err != nil {
		return Transaction{}, err
	}
	if !in.Amount.IsPositive() {
		return Transaction{}, shared.Invalid("amount must be positive")
	}
	if _, err := s.repo.GetAccount(ctx, in.AccountID); err != nil {
		return Transaction{}, err
	}
	tx, err := s.repo.CreateTransaction(ctx, Transaction{
		ID:          uuid.New(),
		AccountID:   in.AccountID,
		Kind:        in.Kind,
		Amount:      in.Amount.Round(2),
		OccurredAt:  s.now(),
		Description: in.Description,
	})
	if err != nil {
		return Transaction{}, err
	}
	s.Invalidate(ctx, in.AccountID)
	return tx, nil
}

// Invalidate detaches any in-flight balance computation for accountID so
// callers arriving after a posting read the log again.
func (s *Service) Invalidate(_ context.Context, accountID int64) {
	s.group.Forget(balanceKey(accountID))
}

func balanceKey(accountID int64) string {
	return "balance:" + strconv.FormatInt(accountID, 10)
}
