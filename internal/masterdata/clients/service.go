package clients

import (
	"context"
	"strings"

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

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Client, int, error) {
	return s.repo.List(ctx, filters.Normalize())
}

func (s *Service) Get(ctx context.Context, code string) (Client, error) {
	return s.repo.Get(ctx, code)
}

func (s *Service) Create(ctx context.Context, in Input) (Client, error) {
	if err := validate(&in); err != nil {
		return Client{}, err
	}
	var client Client
	in.apply(&client)

	var created Client
	_, err := codes.Assign(ctx, s.codes, func(ctx context.Context, code string) error {
		client.Code = code
		var err error
		created, err = s.repo.Create(ctx, client)
		return err
	})
	return created, err
}

func (s *Service) Update(ctx context.Context, code string, in Input) (Client, error) {
	if err := validate(&in); err != nil {
		return Client{}, err
	}
	client, err := s.repo.Get(ctx, code)
	if err != nil {
		return Client{}, err
	}
	in.apply(&client)
	if err := s.repo.Update(ctx, client); err != nil {
		return Client{}, err
	}
	return client, nil
}

func (s *Service) Delete(ctx context.Context, code string) error {
	return s.repo.Delete(ctx, code)
}

func validate(in *Input) error {
	in.Name = strings.TrimSpace(in.Name)
	in.CountryCode = strings.ToUpper(strings.TrimSpace(in.CountryCode))
	return shared.Validate(in)
}
