package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind classifies an account transaction.
type Kind string

const (
	KindInvoicePayment       Kind = "INVOICE_PAYMENT"
	KindPurchaseOrderPayment Kind = "PURCHASE_ORDER_PAYMENT"
	KindCredit               Kind = "CREDIT"
	KindBill                 Kind = "BILL"
)

// Credit reports whether the kind increases the balance.
func (k Kind) Credit() bool {
	return k == KindInvoicePayment || k == KindCredit
}

func (k Kind) Valid() bool {
	switch k {
	case KindInvoicePayment, KindPurchaseOrderPayment, KindCredit, KindBill:
		return true
	}
	return false
}

type Account struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Transaction is an immutable ledger entry. Amounts are never negative; the
// kind carries the sign.
type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	AccountID   int64           `json:"account_id"`
	Kind        Kind            `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	OccurredAt  time.Time       `json:"occurred_at"`
	InvoiceCode *string         `json:"invoice_code,omitempty"`
	OrderCode   *string         `json:"order_code,omitempty"`
	Description string          `json:"description"`
}

// Reference points a transaction at the document it settles.
type Reference struct {
	InvoiceCode string
	OrderCode   string
}

// Balance sums credits minus debits.
func Balance(txs []Transaction) decimal.Decimal {
	balance := decimal.Zero
	for _, tx := range txs {
		if tx.Kind.Credit() {
			balance = balance.Add(tx.Amount)
		} else {
			balance = balance.Sub(tx.Amount)
		}
	}
	return balance
}

// DocumentTransactionID derives a stable transaction id for a document
// posting, so the same posting always gets the same key.
func DocumentTransactionID(kind Kind, documentCode string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(string(kind)+":"+documentCode))
}
