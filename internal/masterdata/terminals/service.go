package terminals

import (
	"context"
	"strings"

	"github.com/gaia-project/gaia/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Terminal, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Terminal, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (Terminal, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := shared.Validate(in); err != nil {
		return Terminal{}, err
	}
	return s.repo.Create(ctx, Terminal{Name: in.Name, ProductCode: in.ProductCode})
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (Terminal, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := shared.Validate(in); err != nil {
		return Terminal{}, err
	}
	t := Terminal{ID: id, Name: in.Name, ProductCode: in.ProductCode}
	if err := s.repo.Update(ctx, t); err != nil {
		return Terminal{}, err
	}
	return t, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
