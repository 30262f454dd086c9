package products

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalogue item that can be ordered from a supplier.
type Product struct {
	Code             string          `json:"code"`
	Name             string          `json:"name"`
	SupplierCode     *string         `json:"supplier_code,omitempty"`
	ManufacturerCode *string         `json:"manufacturer_code,omitempty"`
	Price            decimal.Decimal `json:"price"`
	Unit             string          `json:"unit"`
	Description      string          `json:"description"`
	IsActive         bool            `json:"is_active"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
