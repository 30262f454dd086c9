package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/gaia-project/gaia/internal/builds"
	"github.com/gaia-project/gaia/internal/invoicing"
	"github.com/gaia-project/gaia/internal/ledger"
	"github.com/gaia-project/gaia/internal/procurement"
	"github.com/gaia-project/gaia/internal/shared"
)

func newestFirst[T any](created func(T) int64) func(a, b T) int {
	return func(a, b T) int {
		ca, cb := created(a), created(b)
		switch {
		case ca > cb:
			return -1
		case ca < cb:
			return 1
		}
		return 0
	}
}

// Builds returns the system build repository.
func (s *Store) Builds() builds.RepositoryPort { return buildRepo{s} }

type buildRepo struct{ s *Store }

func (r buildRepo) CreateBuild(_ context.Context, b builds.SystemBuild) (builds.SystemBuild, error) {
	err := r.s.write(func(d *state) error {
		if _, ok := d.builds[b.Code]; ok {
			return shared.Duplicate("build", shared.FieldCode)
		}
		if _, ok := d.clients[b.ClientCode]; !ok {
			return missingRef("build", "client_code", b.ClientCode)
		}
		b.CreatedAt = r.s.now()
		d.builds[b.Code] = b
		return nil
	})
	return b, err
}

func (r buildRepo) GetBuild(_ context.Context, code string) (b builds.SystemBuild, err error) {
	r.s.read(func(d *state) {
		var ok bool
		if b, ok = d.builds[code]; !ok {
			err = notFound("build")
		}
	})
	return b, err
}

func (r buildRepo) ListBuilds(_ context.Context, f shared.ListFilters) (out []builds.SystemBuild, total int, err error) {
	r.s.read(func(d *state) {
		out, total = page(d.builds.values(), f,
			func(b builds.SystemBuild) bool { return matches(f.Search, b.Code, b.ClientCode) },
			newestFirst(func(b builds.SystemBuild) int64 { return b.CreatedAt.UnixNano() }))
	})
	return out, total, nil
}

func (r buildRepo) UpdateBuild(_ context.Context, b builds.SystemBuild) error {
	return r.s.write(func(d *state) error {
		cur, ok := d.builds[b.Code]
		if !ok {
			return notFound("build")
		}
		cur.IsComplete = b.IsComplete
		cur.IsActive = b.IsActive
		cur.DesignerID = b.DesignerID
		cur.Notes = b.Notes
		cur.Description = b.Description
		d.builds[b.Code] = cur
		return nil
	})
}

// DeleteBuild removes the build and its connections. Builds that already
// have documents cannot be deleted.
func (r buildRepo) DeleteBuild(_ context.Context, code string) error {
	return r.s.write(func(d *state) error {
		if _, ok := d.builds[code]; !ok {
			return notFound("build")
		}
		if d.orders.any(func(po procurement.PurchaseOrder) bool { return po.BuildCode == code }) {
			return stillReferenced("build", "purchase orders")
		}
		if d.invoices.any(func(inv invoicing.ClientInvoice) bool { return inv.BuildCode == code }) {
			return stillReferenced("build", "client invoices")
		}
		delete(d.builds, code)
		for id, c := range d.connections {
			if c.BuildCode == code {
				delete(d.connections, id)
			}
		}
		return nil
	})
}

func (r buildRepo) CreateConnection(_ context.Context, c builds.Connection) (builds.Connection, error) {
	err := r.s.write(func(d *state) error {
		if _, ok := d.builds[c.BuildCode]; !ok {
			return missingRef("connection", "build_code", c.BuildCode)
		}
		if d.connections.any(func(o builds.Connection) bool { return o.BuildCode == c.BuildCode && o.Code == c.Code }) {
			return shared.Duplicate("connection", shared.FieldCode)
		}
		for field, id := range map[string]int64{"terminal_a_id": c.TerminalAID, "terminal_b_id": c.TerminalBID} {
			if _, ok := d.terminals[id]; !ok {
				return missingRef("connection", field, id)
			}
		}
		if _, ok := d.cables[c.CableID]; !ok {
			return missingRef("connection", "cable_id", c.CableID)
		}
		c.ID = r.s.id()
		d.connections[c.ID] = c
		return nil
	})
	return c, err
}

func (r buildRepo) ListConnections(_ context.Context, buildCode string) (out []builds.Connection, err error) {
	r.s.read(func(d *state) {
		for _, c := range d.connections.values() {
			if c.BuildCode == buildCode {
				out = append(out, c)
			}
		}
	})
	return out, nil
}

func (r buildRepo) DeleteConnection(_ context.Context, buildCode string, id int64) error {
	return r.s.write(func(d *state) error {
		c, ok := d.connections[id]
		if !ok || c.BuildCode != buildCode {
			return notFound("connection")
		}
		delete(d.connections, id)
		return nil
	})
}

// Orders returns the purchase order repository.
func (s *Store) Orders() procurement.RepositoryPort { return orderRepo{s} }

type orderRepo struct{ s *Store }

func (r orderRepo) CreateOrder(_ context.Context, po procurement.PurchaseOrder) (procurement.PurchaseOrder, error) {
	err := r.s.write(func(d *state) error {
		if _, ok := d.orders[po.Code]; ok {
			return shared.Duplicate("purchase order", shared.FieldCode)
		}
		if _, ok := d.builds[po.BuildCode]; !ok {
			return missingRef("purchase order", "build_code", po.BuildCode)
		}
		if d.orders.any(func(o procurement.PurchaseOrder) bool { return o.BuildCode == po.BuildCode }) {
			return shared.Duplicate("purchase order", "build_code")
		}
		po.CreatedAt = r.s.now()
		po.Items = nil
		d.orders[po.Code] = po
		return nil
	})
	return po, err
}

func (r orderRepo) GetOrder(_ context.Context, code string) (po procurement.PurchaseOrder, err error) {
	r.s.read(func(d *state) {
		var ok bool
		if po, ok = d.orders[code]; !ok {
			err = notFound("purchase order")
			return
		}
		po.Items = orderItems(d, po.Code)
	})
	return po, err
}

func (r orderRepo) GetOrderByBuild(_ context.Context, buildCode string) (po procurement.PurchaseOrder, err error) {
	r.s.read(func(d *state) {
		for _, o := range d.orders {
			if o.BuildCode == buildCode {
				po = o
				po.Items = orderItems(d, po.Code)
				return
			}
		}
		err = notFound("purchase order")
	})
	return po, err
}

func orderItems(d *state, code string) []procurement.Item {
	var items []procurement.Item
	for _, it := range d.orderItems.values() {
		if it.OrderCode == code {
			items = append(items, it)
		}
	}
	return items
}

func (r orderRepo) ListOrders(_ context.Context, f shared.ListFilters) (out []procurement.PurchaseOrder, total int, err error) {
	r.s.read(func(d *state) {
		out, total = page(d.orders.values(), f,
			func(po procurement.PurchaseOrder) bool { return matches(f.Search, po.Code, po.BuildCode) },
			newestFirst(func(po procurement.PurchaseOrder) int64 { return po.CreatedAt.UnixNano() }))
	})
	return out, total, nil
}

func (r orderRepo) UpdateOrder(_ context.Context, po procurement.PurchaseOrder) error {
	return r.s.write(func(d *state) error {
		cur, ok := d.orders[po.Code]
		if !ok {
			return notFound("purchase order")
		}
		cur.IsOrdered = po.IsOrdered
		cur.CreatedBy = po.CreatedBy
		d.orders[po.Code] = cur
		return nil
	})
}

func (r orderRepo) AddItem(_ context.Context, item procurement.Item) (procurement.Item, error) {
	err := r.s.write(func(d *state) error {
		if _, ok := d.orders[item.OrderCode]; !ok {
			return missingRef("purchase order item", "order_code", item.OrderCode)
		}
		if _, ok := d.products[item.ProductCode]; !ok {
			return missingRef("purchase order item", "product_code", item.ProductCode)
		}
		if item.Amount < 1 || item.UnitPrice.IsNegative() {
			return shared.Invalid("purchase order item: amount must be at least 1 and price not negative")
		}
		item.ID = r.s.id()
		d.orderItems[item.ID] = item
		return nil
	})
	return item, err
}

// Invoices returns the client invoice repository.
func (s *Store) Invoices() invoicing.RepositoryPort { return invoiceRepo{s} }

type invoiceRepo struct{ s *Store }

func (r invoiceRepo) CreateInvoice(_ context.Context, inv invoicing.ClientInvoice) (invoicing.ClientInvoice, error) {
	err := r.s.write(func(d *state) error {
		if _, ok := d.invoices[inv.Code]; ok {
			return shared.Duplicate("invoice", shared.FieldCode)
		}
		if _, ok := d.builds[inv.BuildCode]; !ok {
			return missingRef("invoice", "build_code", inv.BuildCode)
		}
		if _, ok := d.clients[inv.ClientCode]; !ok {
			return missingRef("invoice", "client_code", inv.ClientCode)
		}
		if _, ok := d.orders[inv.OrderCode]; !ok {
			return missingRef("invoice", "order_code", inv.OrderCode)
		}
		if d.invoices.any(func(o invoicing.ClientInvoice) bool { return o.BuildCode == inv.BuildCode }) {
			return shared.Duplicate("invoice", "build_code")
		}
		inv.CreatedAt = r.s.now()
		inv.Items = nil
		d.invoices[inv.Code] = inv
		return nil
	})
	return inv, err
}

func (r invoiceRepo) GetInvoice(_ context.Context, code string) (inv invoicing.ClientInvoice, err error) {
	r.s.read(func(d *state) {
		var ok bool
		if inv, ok = d.invoices[code]; !ok {
			err = notFound("invoice")
			return
		}
		inv.Items = invoiceItems(d, inv.Code)
	})
	return inv, err
}

func (r invoiceRepo) GetInvoiceByBuild(_ context.Context, buildCode string) (inv invoicing.ClientInvoice, err error) {
	r.s.read(func(d *state) {
		for _, o := range d.invoices {
			if o.BuildCode == buildCode {
				inv = o
				inv.Items = invoiceItems(d, inv.Code)
				return
			}
		}
		err = notFound("invoice")
	})
	return inv, err
}

func invoiceItems(d *state, code string) []invoicing.Item {
	var items []invoicing.Item
	for _, it := range d.invoiceItems.values() {
		if it.InvoiceCode == code {
			items = append(items, it)
		}
	}
	return items
}

func (r invoiceRepo) ListInvoices(_ context.Context, f shared.ListFilters) (out []invoicing.ClientInvoice, total int, err error) {
	r.s.read(func(d *state) {
		out, total = page(d.invoices.values(), f,
			func(inv invoicing.ClientInvoice) bool {
				return matches(f.Search, inv.Code, inv.BuildCode, inv.ClientCode)
			},
			newestFirst(func(inv invoicing.ClientInvoice) int64 { return inv.CreatedAt.UnixNano() }))
	})
	return out, total, nil
}

func (r invoiceRepo) UpdateInvoice(_ context.Context, inv invoicing.ClientInvoice) error {
	return r.s.write(func(d *state) error {
		cur, ok := d.invoices[inv.Code]
		if !ok {
			return notFound("invoice")
		}
		cur.IsSent = inv.IsSent
		d.invoices[inv.Code] = cur
		return nil
	})
}

func (r invoiceRepo) AddItem(_ context.Context, item invoicing.Item) (invoicing.Item, error) {
	err := r.s.write(func(d *state) error {
		if _, ok := d.invoices[item.InvoiceCode]; !ok {
			return missingRef("invoice item", "invoice_code", item.InvoiceCode)
		}
		if _, ok := d.products[item.ProductCode]; !ok {
			return missingRef("invoice item", "product_code", item.ProductCode)
		}
		if item.Amount < 1 || item.UnitPrice.IsNegative() {
			return shared.Invalid("invoice item: amount must be at least 1 and price not negative")
		}
		item.ID = r.s.id()
		d.invoiceItems[item.ID] = item
		return nil
	})
	return item, err
}

// Ledger returns the account and transaction repository.
func (s *Store) Ledger() ledger.RepositoryPort { return ledgerRepo{s} }

type ledgerRepo struct{ s *Store }

func (r ledgerRepo) EnsureAccount(_ context.Context, name string) (acc ledger.Account, err error) {
	err = r.s.write(func(d *state) error {
		for _, a := range d.accounts {
			if a.Name == name {
				acc = a
				return nil
			}
		}
		acc = ledger.Account{ID: r.s.id(), Name: name, CreatedAt: r.s.now()}
		d.accounts[acc.ID] = acc
		return nil
	})
	return acc, err
}

func (r ledgerRepo) GetAccount(_ context.Context, id int64) (acc ledger.Account, err error) {
	r.s.read(func(d *state) {
		var ok bool
		if acc, ok = d.accounts[id]; !ok {
			err = notFound("account")
		}
	})
	return acc, err
}

func (r ledgerRepo) ListAccounts(context.Context) (out []ledger.Account, err error) {
	r.s.read(func(d *state) {
		out = d.accounts.values()
		slices.SortStableFunc(out, func(a, b ledger.Account) int { return strings.Compare(a.Name, b.Name) })
	})
	return out, nil
}

func sameRef(a, b *string) bool {
	return a != nil && b != nil && *a == *b
}

func (r ledgerRepo) CreateTransaction(_ context.Context, tx ledger.Transaction) (ledger.Transaction, error) {
	err := r.s.write(func(d *state) error {
		if _, ok := d.accounts[tx.AccountID]; !ok {
			return missingRef("account transaction", "account_id", tx.AccountID)
		}
		if tx.OrderCode != nil {
			if _, ok := d.orders[*tx.OrderCode]; !ok {
				return missingRef("account transaction", "order_code", *tx.OrderCode)
			}
		}
		if tx.InvoiceCode != nil {
			if _, ok := d.invoices[*tx.InvoiceCode]; !ok {
				return missingRef("account transaction", "invoice_code", *tx.InvoiceCode)
			}
		}
		if tx.Amount.IsNegative() {
			return shared.Invalid("account transaction: amount must not be negative")
		}
		if _, ok := d.transactions[tx.ID.String()]; ok {
			return shared.Duplicate("account transaction", "id")
		}
		for _, o := range d.transactions {
			if o.Kind != tx.Kind {
				continue
			}
			if sameRef(o.OrderCode, tx.OrderCode) {
				return shared.Duplicate("account transaction", "order_code")
			}
			if sameRef(o.InvoiceCode, tx.InvoiceCode) {
				return shared.Duplicate("account transaction", "invoice_code")
			}
		}
		if tx.OccurredAt.IsZero() {
			tx.OccurredAt = r.s.now()
		}
		d.transactions[tx.ID.String()] = tx
		return nil
	})
	return tx, err
}

func (r ledgerRepo) HasTransaction(_ context.Context, kind ledger.Kind, ref ledger.Reference) (found bool, err error) {
	r.s.read(func(d *state) {
		found = d.transactions.any(func(o ledger.Transaction) bool {
			if o.Kind != kind {
				return false
			}
			return (ref.InvoiceCode != "" && o.InvoiceCode != nil && *o.InvoiceCode == ref.InvoiceCode) ||
				(ref.OrderCode != "" && o.OrderCode != nil && *o.OrderCode == ref.OrderCode)
		})
	})
	return found, nil
}

func (r ledgerRepo) ListTransactions(_ context.Context, accountID int64) (out []ledger.Transaction, err error) {
	r.s.read(func(d *state) {
		for _, tx := range d.transactions.values() {
			if tx.AccountID == accountID {
				out = append(out, tx)
			}
		}
	})
	slices.SortStableFunc(out, func(a, b ledger.Transaction) int { return a.OccurredAt.Compare(b.OccurredAt) })
	return out, nil
}
