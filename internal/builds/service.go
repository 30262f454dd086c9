package builds

import (
	"context"
	"strings"

	"github.com/gaia-project/gaia/internal/codes"
	"github.com/gaia-project/gaia/internal/shared"
)

// AuditPort reused from shared.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service manages system builds and their connections.
type Service struct {
	repo     RepositoryPort
	codes    codes.Generator
	observer Observer
	audit    AuditPort
}

// NewService constructs the build service. observer and audit may be nil.
func NewService(repo RepositoryPort, gen codes.Generator, observer Observer, audit AuditPort) *Service {
	return &Service{repo: repo, codes: gen, observer: observer, audit: audit}
}

// Create stores a new draft build under a freshly assigned code.
func (s *Service) Create(ctx context.Context, in CreateInput) (SystemBuild, error) {
	in.ClientCode = strings.TrimSpace(in.ClientCode)
	if err := shared.Validate(in); err != nil {
		return SystemBuild{}, err
	}
	build := SystemBuild{
		ClientCode:  in.ClientCode,
		IsActive:    true,
		DesignerID:  in.DesignerID,
		Notes:       in.Notes,
		Description: in.Description,
	}
	var created SystemBuild
	_, err := codes.Assign(ctx, s.codes, func(ctx context.Context, code string) error {
		build.Code = code
		var err error
		created, err = s.repo.CreateBuild(ctx, build)
		return err
	})
	if err != nil {
		return SystemBuild{}, err
	}
	s.notify(ctx, Change{Current: created, Created: true})
	s.recordAudit(ctx, "BUILD_CREATE", created.Code, map[string]any{"client": created.ClientCode})
	return created, nil
}

func (s *Service) Get(ctx context.Context, code string) (SystemBuild, error) {
	return s.repo.GetBuild(ctx, code)
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]SystemBuild, int, error) {
	return s.repo.ListBuilds(ctx, filters.Normalize())
}

// Update saves the changed fields and notifies the observer with the
// before and after state.
func (s *Service) Update(ctx context.Context, code string, in UpdateInput) (SystemBuild, error) {
	if err := shared.Validate(in); err != nil {
		return SystemBuild{}, err
	}
	prev, err := s.repo.GetBuild(ctx, code)
	if err != nil {
		return SystemBuild{}, err
	}
	cur := prev
	if in.DesignerID != nil {
		cur.DesignerID = in.DesignerID
	}
	if in.Notes != nil {
		cur.Notes = *in.Notes
	}
	if in.Description != nil {
		cur.Description = *in.Description
	}
	if in.IsActive != nil {
		cur.IsActive = *in.IsActive
	}
	if in.IsComplete != nil {
		if prev.IsComplete && !*in.IsComplete {
			return SystemBuild{}, shared.Precondition("build %s is complete and cannot be reopened", code)
		}
		cur.IsComplete = *in.IsComplete
	}
	if err := s.repo.UpdateBuild(ctx, cur); err != nil {
		return SystemBuild{}, err
	}
	s.notify(ctx, Change{Previous: prev, Current: cur})
	if !prev.IsComplete && cur.IsComplete {
		s.recordAudit(ctx, "BUILD_COMPLETE", cur.Code, nil)
	}
	return cur, nil
}

// Complete marks the build complete.
func (s *Service) Complete(ctx context.Context, code string) (SystemBuild, error) {
	complete := true
	return s.Update(ctx, code, UpdateInput{IsComplete: &complete})
}

func (s *Service) Delete(ctx context.Context, code string) error {
	return s.repo.DeleteBuild(ctx, code)
}

// AddConnection attaches a connection with a code unique within the build.
func (s *Service) AddConnection(ctx context.Context, buildCode string, in ConnectionInput) (Connection, error) {
	in.Label = strings.TrimSpace(in.Label)
	if err := shared.Validate(in); err != nil {
		return Connection{}, err
	}
	if _, err := s.editableBuild(ctx, buildCode); err != nil {
		return Connection{}, err
	}
	conn := Connection{
		BuildCode:   buildCode,
		TerminalAID: in.TerminalAID,
		TerminalBID: in.TerminalBID,
		CableID:     in.CableID,
		Label:       in.Label,
	}
	var created Connection
	_, err := codes.AssignConnection(ctx, func(ctx context.Context, code string) error {
		conn.Code = code
		var err error
		created, err = s.repo.CreateConnection(ctx, conn)
		return err
	})
	if err != nil {
		return Connection{}, err
	}
	return created, nil
}

func (s *Service) ListConnections(ctx context.Context, buildCode string) ([]Connection, error) {
	if _, err := s.repo.GetBuild(ctx, buildCode); err != nil {
		return nil, err
	}
	return s.repo.ListConnections(ctx, buildCode)
}

func (s *Service) DeleteConnection(ctx context.Context, buildCode string, id int64) error {
	if _, err := s.editableBuild(ctx, buildCode); err != nil {
		return err
	}
	return s.repo.DeleteConnection(ctx, buildCode, id)
}

// editableBuild loads a build whose connections may still change.
func (s *Service) editableBuild(ctx context.Context, code string) (SystemBuild, error) {
	build, err := s.repo.GetBuild(ctx, code)
	if err != nil {
		return SystemBuild{}, err
	}
	if build.IsComplete {
		return SystemBuild{}, shared.Precondition("build %s is complete", code)
	}
	return build, nil
}

func (s *Service) notify(ctx context.Context, change Change) {
	if s.observer == nil {
		return
	}
	s.observer.OnSystemBuildUpdated(ctx, change)
}

func (s *Service) recordAudit(ctx context.Context, action, code string, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{Action: action, Entity: "build", EntityID: code, Meta: meta})
}
