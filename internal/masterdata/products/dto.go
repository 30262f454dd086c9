package products

import "github.com/shopspring/decimal"

type Input struct {
	Name             string          `json:"name" validate:"required,max=200"`
	SupplierCode     *string         `json:"supplier_code" validate:"omitempty,len=14"`
	ManufacturerCode *string         `json:"manufacturer_code" validate:"omitempty,len=14"`
	Price            decimal.Decimal `json:"price"`
	Unit             string          `json:"unit" validate:"omitempty,oneof=pcs meter box roll set"`
	Description      string          `json:"description" validate:"max=2000"`
	IsActive         *bool           `json:"is_active"`
}

func (in Input) apply(p *Product) {
	p.Name = in.Name
	p.SupplierCode = in.SupplierCode
	p.ManufacturerCode = in.ManufacturerCode
	p.Price = in.Price.Round(2)
	p.Unit = in.Unit
	p.Description = in.Description
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
}
