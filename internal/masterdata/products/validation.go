package products

import (
	"strings"

	"github.com/gaia-project/gaia/internal/shared"
)

func (s *Service) validate(in *Input) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Unit == "" {
		in.Unit = shared.UnitPieces
	}
	if err := shared.Validate(in); err != nil {
		return err
	}
	if in.Price.IsNegative() {
		return shared.Invalid("product price must not be negative")
	}
	return nil
}
