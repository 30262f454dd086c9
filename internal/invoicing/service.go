package invoicing

import (
	"context"

	"github.com/gaia-project/gaia/internal/shared"
)

type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

type Service struct {
	repo     RepositoryPort
	observer Observer
	audit    AuditPort
}

func NewService(repo RepositoryPort, observer Observer, audit AuditPort) *Service {
	return &Service{repo: repo, observer: observer, audit: audit}
}

func (s *Service) Get(ctx context.Context, code string) (ClientInvoice, error) {
	return s.repo.GetInvoice(ctx, code)
}

func (s *Service) GetByBuild(ctx context.Context, buildCode string) (ClientInvoice, error) {
	return s.repo.GetInvoiceByBuild(ctx, buildCode)
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]ClientInvoice, int, error) {
	return s.repo.ListInvoices(ctx, filters.Normalize())
}

// SetSent flips the sent flag and notifies the observer.
func (s *Service) SetSent(ctx context.Context, code string, sent bool) (ClientInvoice, error) {
	prev, err := s.repo.GetInvoice(ctx, code)
	if err != nil {
		return ClientInvoice{}, err
	}
	cur := prev
	cur.IsSent = sent
	if err := s.repo.UpdateInvoice(ctx, cur); err != nil {
		return ClientInvoice{}, err
	}
	if s.observer != nil {
		s.observer.OnInvoiceUpdated(ctx, Change{Previous: prev, Current: cur})
	}
	if s.audit != nil && !prev.IsSent && sent {
		_ = s.audit.Record(ctx, shared.AuditLog{Action: "INVOICE_SENT", Entity: "client_invoice", EntityID: code,
			Meta: map[string]any{"client": cur.ClientCode, "total": cur.Total().StringFixed(2)}})
	}
	return cur, nil
}
