package suppliers

import (
	"context"

	"github.com/gaia-project/gaia/internal/codes"
	"github.com/gaia-project/gaia/internal/shared"
)

type Service struct {
	repo  Repository
	codes codes.Generator
}

func NewService(repo Repository, gen codes.Generator) *Service {
	return &Service{repo: repo, codes: gen}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Supplier, int, error) {
	return s.repo.List(ctx, filters.Normalize())
}

func (s *Service) Get(ctx context.Context, code string) (Supplier, error) {
	return s.repo.Get(ctx, code)
}

func (s *Service) Create(ctx context.Context, in Input) (Supplier, error) {
	if err := s.validate(&in); err != nil {
		return Supplier{}, err
	}
	supplier := Supplier{IsActive: true}
	in.apply(&supplier)

	var created Supplier
	_, err := codes.Assign(ctx, s.codes, func(ctx context.Context, code string) error {
		supplier.Code = code
		var err error
		created, err = s.repo.Create(ctx, supplier)
		return err
	})
	if err != nil {
		return Supplier{}, err
	}
	return created, nil
}

func (s *Service) Update(ctx context.Context, code string, in Input) (Supplier, error) {
	if err := s.validate(&in); err != nil {
		return Supplier{}, err
	}
	supplier, err := s.repo.Get(ctx, code)
	if err != nil {
		return Supplier{}, err
	}
	in.apply(&supplier)
	if err := s.repo.Update(ctx, supplier); err != nil {
		return Supplier{}, err
	}
	return supplier, nil
}

func (s *Service) Delete(ctx context.Context, code string) error {
	return s.repo.Delete(ctx, code)
}
