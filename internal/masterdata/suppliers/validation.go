package suppliers

import (
	"strings"

	"github.com/gaia-project/gaia/internal/shared"
)

func (s *Service) validate(in *Input) error {
	in.Name = strings.TrimSpace(in.Name)
	in.CountryCode = strings.ToUpper(strings.TrimSpace(in.CountryCode))
	return shared.Validate(in)
}
