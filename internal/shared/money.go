package shared

import "github.com/shopspring/decimal"

// Units a product can be sold in.
const (
	UnitPieces = "pcs"
	UnitMeter  = "meter"
)

// LineTotal prices a document line. Lines sold by the meter multiply by the
// cable length when one is recorded.
func LineTotal(unitPrice decimal.Decimal, amount int, cableLength decimal.NullDecimal, unit string) decimal.Decimal {
	total := unitPrice.Mul(decimal.NewFromInt(int64(amount)))
	if unit == UnitMeter && cableLength.Valid {
		total = total.Mul(cableLength.Decimal)
	}
	return total.Round(2)
}
