package procurement

import (
	"context"

	"github.com/gaia-project/gaia/internal/shared"
)

// AuditPort reused from shared.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service exposes purchase orders and their ordered transition. Orders are
// created by the cascade, never directly.
type Service struct {
	repo     RepositoryPort
	observer Observer
	audit    AuditPort
}

// NewService constructs procurement service.
func NewService(repo RepositoryPort, observer Observer, audit AuditPort) *Service {
	return &Service{repo: repo, observer: observer, audit: audit}
}

func (s *Service) Get(ctx context.Context, code string) (PurchaseOrder, error) {
	return s.repo.GetOrder(ctx, code)
}

func (s *Service) GetByBuild(ctx context.Context, buildCode string) (PurchaseOrder, error) {
	return s.repo.GetOrderByBuild(ctx, buildCode)
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]PurchaseOrder, int, error) {
	return s.repo.ListOrders(ctx, filters.Normalize())
}

// SetOrdered flips the ordered flag and notifies the observer.
func (s *Service) SetOrdered(ctx context.Context, code string, ordered bool) (PurchaseOrder, error) {
	prev, err := s.repo.GetOrder(ctx, code)
	if err != nil {
		return PurchaseOrder{}, err
	}
	cur := prev
	cur.IsOrdered = ordered
	if err := s.repo.UpdateOrder(ctx, cur); err != nil {
		return PurchaseOrder{}, err
	}
	if s.observer != nil {
		s.observer.OnPurchaseOrderUpdated(ctx, Change{Previous: prev, Current: cur})
	}
	if !prev.IsOrdered && ordered {
		s.recordAudit(ctx, "PO_ORDERED", code, map[string]any{"total": cur.Total().StringFixed(2)})
	}
	return cur, nil
}

func (s *Service) recordAudit(ctx context.Context, action, code string, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{Action: action, Entity: "purchase_order", EntityID: code, Meta: meta})
}
