// Package memory is an in-process record store. It enforces the same
// uniqueness and reference rules as the PostgreSQL schema and rolls back
// WithinTx blocks by restoring a snapshot.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gaia-project/gaia/internal/builds"
	"github.com/gaia-project/gaia/internal/invoicing"
	"github.com/gaia-project/gaia/internal/ledger"
	"github.com/gaia-project/gaia/internal/masterdata/cables"
	"github.com/gaia-project/gaia/internal/masterdata/clients"
	"github.com/gaia-project/gaia/internal/masterdata/colours"
	"github.com/gaia-project/gaia/internal/masterdata/countries"
	"github.com/gaia-project/gaia/internal/masterdata/products"
	"github.com/gaia-project/gaia/internal/masterdata/suppliers"
	"github.com/gaia-project/gaia/internal/masterdata/terminals"
	"github.com/gaia-project/gaia/internal/procurement"
	"github.com/gaia-project/gaia/internal/shared"
)

type table[K cmp.Ordered, V any] map[K]V

// values returns rows ordered by key.
func (t table[K, V]) values() []V {
	out := make([]V, 0, len(t))
	for _, k := range slices.Sorted(maps.Keys(t)) {
		out = append(out, t[k])
	}
	return out
}

func (t table[K, V]) any(match func(V) bool) bool {
	for _, v := range t {
		if match(v) {
			return true
		}
	}
	return false
}

type state struct {
	suppliers    table[string, suppliers.Supplier]
	products     table[string, products.Product]
	clients      table[string, clients.Client]
	cables       table[int64, cables.Cable]
	terminals    table[int64, terminals.Terminal]
	colours      table[int64, colours.ColourCode]
	pins         table[int64, colours.Pin]
	countries    table[int64, countries.Country]
	builds       table[string, builds.SystemBuild]
	connections  table[int64, builds.Connection]
	orders       table[string, procurement.PurchaseOrder]
	orderItems   table[int64, procurement.Item]
	invoices     table[string, invoicing.ClientInvoice]
	invoiceItems table[int64, invoicing.Item]
	accounts     table[int64, ledger.Account]
	transactions table[string, ledger.Transaction]
	audit        []shared.AuditLog
}

func newState() *state {
	return &state{
		suppliers:    table[string, suppliers.Supplier]{},
		products:     table[string, products.Product]{},
		clients:      table[string, clients.Client]{},
		cables:       table[int64, cables.Cable]{},
		terminals:    table[int64, terminals.Terminal]{},
		colours:      table[int64, colours.ColourCode]{},
		pins:         table[int64, colours.Pin]{},
		countries:    table[int64, countries.Country]{},
		builds:       table[string, builds.SystemBuild]{},
		connections:  table[int64, builds.Connection]{},
		orders:       table[string, procurement.PurchaseOrder]{},
		orderItems:   table[int64, procurement.Item]{},
		invoices:     table[string, invoicing.ClientInvoice]{},
		invoiceItems: table[int64, invoicing.Item]{},
		accounts:     table[int64, ledger.Account]{},
		transactions: table[string, ledger.Transaction]{},
	}
}

func (s *state) clone() *state {
	return &state{
		suppliers:    maps.Clone(s.suppliers),
		products:     maps.Clone(s.products),
		clients:      maps.Clone(s.clients),
		cables:       maps.Clone(s.cables),
		terminals:    maps.Clone(s.terminals),
		colours:      maps.Clone(s.colours),
		pins:         maps.Clone(s.pins),
		countries:    maps.Clone(s.countries),
		builds:       maps.Clone(s.builds),
		connections:  maps.Clone(s.connections),
		orders:       maps.Clone(s.orders),
		orderItems:   maps.Clone(s.orderItems),
		invoices:     maps.Clone(s.invoices),
		invoiceItems: maps.Clone(s.invoiceItems),
		accounts:     maps.Clone(s.accounts),
		transactions: maps.Clone(s.transactions),
		audit:        slices.Clone(s.audit),
	}
}

// Store holds every table. Repositories returned by its accessors share it.
type Store struct {
	mu     sync.Mutex
	txMu   sync.Mutex
	data   *state
	nextID atomic.Int64
	now    func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{data: newState(), now: time.Now}
}

type txKey struct{}

var _ shared.Transactor = (*Store)(nil)

// WithinTx runs fn with exclusive write access. If fn fails every change it
// made is discarded. Nested calls join the outer block.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.data.clone()
	s.mu.Unlock()

	defer func() {
		if p := recover(); p != nil {
			s.restore(snapshot)
			panic(p)
		}
		if err != nil {
			s.restore(snapshot)
		}
	}()
	return fn(context.WithValue(ctx, txKey{}, true))
}

func (s *Store) restore(snapshot *state) {
	s.mu.Lock()
	s.data = snapshot
	s.mu.Unlock()
}

func (s *Store) read(fn func(d *state)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.data)
}

func (s *Store) write(fn func(d *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

func (s *Store) id() int64 {
	return s.nextID.Add(1)
}

func notFound(entity string) error {
	return fmt.Errorf("%s: %w", entity, shared.ErrNotFound)
}

func missingRef(entity, field string, value any) error {
	return shared.Invalid("%s: %s %v does not exist", entity, field, value)
}

func stillReferenced(entity, by string) error {
	return shared.Invalid("%s: still referenced from %s", entity, by)
}

func matches(search string, fields ...string) bool {
	if search == "" {
		return true
	}
	search = strings.ToLower(search)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}

// page filters, sorts and slices rows the way the SQL list queries do.
func page[T any](rows []T, filters shared.ListFilters, keep func(T) bool, less func(a, b T) int) ([]T, int) {
	kept := rows[:0:0]
	for _, r := range rows {
		if keep(r) {
			kept = append(kept, r)
		}
	}
	slices.SortStableFunc(kept, less)
	return shared.Paginate(kept, filters), len(kept)
}
