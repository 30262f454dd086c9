package procurement

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/gaia-project/gaia/internal/shared"
)

// PurchaseOrder is the supplier order synthesised from a completed build.
// Each build has at most one.
type PurchaseOrder struct {
	Code      string    `json:"code"`
	BuildCode string    `json:"build_code"`
	IsOrdered bool      `json:"is_ordered"`
	CreatedBy *int64    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Items     []Item    `json:"items"`
}

// Total sums the item totals.
func (po PurchaseOrder) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range po.Items {
		total = total.Add(item.Total())
	}
	return total
}

// Item is one purchase order line.
type Item struct {
	ID           int64               `json:"id"`
	OrderCode    string              `json:"order_code"`
	ProductCode  string              `json:"product_code"`
	SupplierCode *string             `json:"supplier_code,omitempty"`
	Description  string              `json:"description"`
	Amount       int                 `json:"amount"`
	UnitPrice    decimal.Decimal     `json:"unit_price"`
	CableLength  decimal.NullDecimal `json:"cable_length"`
	Unit         string              `json:"unit"`
}

// Total prices the line, by the meter when the product is sold that way.
func (i Item) Total() decimal.Decimal {
	return shared.LineTotal(i.UnitPrice, i.Amount, i.CableLength, i.Unit)
}

// View is the JSON shape of an order with its computed total.
type View struct {
	PurchaseOrder
	Total decimal.Decimal `json:"total"`
}

// NewView attaches the total to po.
func NewView(po PurchaseOrder) View {
	return View{PurchaseOrder: po, Total: po.Total().Round(2)}
}
