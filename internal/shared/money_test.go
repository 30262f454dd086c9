package shared

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestLineTotal(t *testing.T) {
	price := decimal.RequireFromString("2.50")

	require.True(t, decimal.RequireFromString("5.00").Equal(LineTotal(price, 2, decimal.NullDecimal{}, UnitPieces)))

	length := decimal.NewNullDecimal(decimal.RequireFromString("3.5"))
	require.True(t, decimal.RequireFromString("17.50").Equal(LineTotal(price, 2, length, UnitMeter)))

	// length is ignored for piece goods
	require.True(t, decimal.RequireFromString("5.00").Equal(LineTotal(price, 2, length, UnitPieces)))

	// meter goods without a recorded length price per amount
	require.True(t, decimal.RequireFromString("2.50").Equal(LineTotal(price, 1, decimal.NullDecimal{}, UnitMeter)))
}
