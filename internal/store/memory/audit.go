package memory

import (
	"context"
	"slices"

	"github.com/gaia-project/gaia/internal/shared"
)

// Audit returns a recorder that appends to the store's audit trail.
func (s *Store) Audit() AuditRecorder { return AuditRecorder{s} }

// AuditRecorder records audit entries in memory.
type AuditRecorder struct{ s *Store }

func (a AuditRecorder) Record(_ context.Context, log shared.AuditLog) error {
	return a.s.write(func(d *state) error {
		if log.At.IsZero() {
			log.At = a.s.now()
		}
		d.audit = append(d.audit, log)
		return nil
	})
}

// Entries returns the recorded audit trail in insertion order.
func (a AuditRecorder) Entries() []shared.AuditLog {
	var out []shared.AuditLog
	a.s.read(func(d *state) { out = slices.Clone(d.audit) })
	return out
}
