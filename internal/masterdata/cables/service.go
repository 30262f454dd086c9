package cables

import (
	"context"
	"fmt"
	"strings"

	"github.com/gaia-project/gaia/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Cable, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Cable, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (Cable, error) {
	cable, err := build(in)
	if err != nil {
		return Cable{}, err
	}
	return s.repo.Create(ctx, cable)
}

// Update applies in to the stored cable. Speeds are re-derived on every save.
func (s *Service) Update(ctx context.Context, id int64, in Input) (Cable, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return Cable{}, err
	}
	cable, err := build(in)
	if err != nil {
		return Cable{}, err
	}
	cable.ID = id
	if err := s.repo.Update(ctx, cable); err != nil {
		return Cable{}, err
	}
	return cable, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func build(in Input) (Cable, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Type = Type(strings.ToUpper(string(in.Type)))
	if err := shared.Validate(in); err != nil {
		return Cable{}, err
	}
	cable := Cable{
		Name:        in.Name,
		Type:        in.Type,
		ProductCode: in.ProductCode,
		ColourID:    in.ColourID,
		Gbps:        in.Gbps,
		Mbps:        in.Mbps,
	}
	if err := cable.NormalizeSpeed(); err != nil {
		return Cable{}, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}
	return cable, nil
}
