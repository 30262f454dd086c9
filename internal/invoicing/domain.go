package invoicing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/gaia-project/gaia/internal/shared"
)

// ClientInvoice bills a client for a build. It is produced from the build's
// purchase order and there is at most one per build.
type ClientInvoice struct {
	Code       string    `json:"code"`
	ClientCode string    `json:"client_code"`
	BuildCode  string    `json:"build_code"`
	OrderCode  string    `json:"order_code"`
	IsSent     bool      `json:"is_sent"`
	CreatedAt  time.Time `json:"created_at"`
	Items      []Item    `json:"items"`
}

func (inv ClientInvoice) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range inv.Items {
		total = total.Add(item.Total())
	}
	return total
}

// Item mirrors a purchase order line.
type Item struct {
	ID           int64               `json:"id"`
	InvoiceCode  string              `json:"invoice_code"`
	ProductCode  string              `json:"product_code"`
	SupplierCode *string             `json:"supplier_code,omitempty"`
	Description  string              `json:"description"`
	Amount       int                 `json:"amount"`
	UnitPrice    decimal.Decimal     `json:"unit_price"`
	CableLength  decimal.NullDecimal `json:"cable_length"`
	Unit         string              `json:"unit"`
}

func (i Item) Total() decimal.Decimal {
	return shared.LineTotal(i.UnitPrice, i.Amount, i.CableLength, i.Unit)
}

type View struct {
	ClientInvoice
	Total decimal.Decimal `json:"total"`
}

func NewView(inv ClientInvoice) View {
	return View{ClientInvoice: inv, Total: inv.Total().Round(2)}
}

// Change describes an invoice mutation.
type Change struct {
	Previous ClientInvoice
	Current  ClientInvoice
	Created  bool
}
