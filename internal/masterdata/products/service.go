package products

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

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Product, int, error) {
	return s.repo.List(ctx, filters.Normalize())
}

func (s *Service) Get(ctx context.Context, code string) (Product, error) {
	return s.repo.Get(ctx, code)
}

// Create validates the input and stores the product under a freshly assigned code.
func (s *Service) Create(ctx context.Context, in Input) (Product, error) {
	if err := s.validate(&in); err != nil {
		return Product{}, err
	}
	product := Product{IsActive: true}
	in.apply(&product)

	var created Product
	_, err := codes.Assign(ctx, s.codes, func(ctx context.Context, code string) error {
		product.Code = code
		var err error
		created, err = s.repo.Create(ctx, product)
		return err
	})
	if err != nil {
		return Product{}, err
	}
	return created, nil
}

func (s *Service) Update(ctx context.Context, code string, in Input) (Product, error) {
	if err := s.validate(&in); err != nil {
		return Product{}, err
	}
	product, err := s.repo.Get(ctx, code)
	if err != nil {
		return Product{}, err
	}
	in.apply(&product)
	if err := s.repo.Update(ctx, product); err != nil {
		return Product{}, err
	}
	return product, nil
}

func (s *Service) Delete(ctx context.Context, code string) error {
	return s.repo.Delete(ctx, code)
}
