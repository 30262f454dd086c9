package cables

import "errors"

// Type is the cable category rating.
type Type string

const (
	TypeCat5  Type = "CAT5"
	TypeCat5e Type = "CAT5E"
	TypeCat6  Type = "CAT6"
	TypeCat6a Type = "CAT6A"
	TypeCat7  Type = "CAT7"
	TypeCat8  Type = "CAT8"
)

// ErrSpeedRequired is returned when neither speed is given.
var ErrSpeedRequired = errors.New("cables: gbps or mbps is required")

// Cable is an inventory cable bound to exactly one product.
type Cable struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Type        Type     `json:"type"`
	ProductCode string   `json:"product_code"`
	ColourID    *int64   `json:"colour_id,omitempty"`
	Gbps        *float64 `json:"gbps"`
	Mbps        *float64 `json:"mbps"`
}

// NormalizeSpeed derives the missing speed unit. A set Gbps always wins and
// overwrites Mbps, even when both were supplied.
func (c *Cable) NormalizeSpeed() error {
	switch {
	case c.Gbps != nil:
		mbps := *c.Gbps * 1000
		c.Mbps = &mbps
	case c.Mbps != nil:
		gbps := *c.Mbps / 1000
		c.Gbps = &gbps
	default:
		return ErrSpeedRequired
	}
	return nil
}

type Input struct {
	Name        string   `json:"name" validate:"required,max=100"`
	Type        Type     `json:"type" validate:"required,oneof=CAT5 CAT5E CAT6 CAT6A CAT7 CAT8"`
	ProductCode string   `json:"product_code" validate:"required,len=14"`
	ColourID    *int64   `json:"colour_id" validate:"omitempty,gt=0"`
	Gbps        *float64 `json:"gbps" validate:"omitempty,gt=0"`
	Mbps        *float64 `json:"mbps" validate:"omitempty,gt=0"`
}
