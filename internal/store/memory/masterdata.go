package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/gaia-project/gaia/internal/builds"
	"github.com/gaia-project/gaia/internal/invoicing"
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

// Suppliers returns the supplier repository.
func (s *Store) Suppliers() suppliers.Repository { return supplierRepo{s} }

type supplierRepo struct{ s *Store }

func (r supplierRepo) List(_ context.Context, f shared.ListFilters) (out []suppliers.Supplier, total int, err error) {
	r.s.read(func(d *state) {
		out, total = page(d.suppliers.values(), f,
			func(v suppliers.Supplier) bool { return matches(f.Search, v.Name, v.Code) },
			func(a, b suppliers.Supplier) int { return strings.Compare(a.Name, b.Name) })
	})
	return out, total, nil
}

func (r supplierRepo) Get(_ context.Context, code string) (v suppliers.Supplier, err error) {
	r.s.read(func(d *state) {
		var ok bool
		if v, ok = d.suppliers[code]; !ok {
			err = notFound("supplier")
		}
	})
	return v, err
}

func (r supplierRepo) Create(_ context.Context, v suppliers.Supplier) (suppliers.Supplier, error) {
	err := r.s.write(func(d *state) error {
		if _, ok := d.suppliers[v.Code]; ok {
			return shared.Duplicate("supplier", shared.FieldCode)
		}
		if d.suppliers.any(func(o suppliers.Supplier) bool { return o.Name == v.Name }) {
			return shared.Duplicate("supplier", "name")
		}
		v.CreatedAt = r.s.now()
		v.UpdatedAt = v.CreatedAt
		d.suppliers[v.Code] = v
		return nil
	})
	return v, err
}

func (r supplierRepo) Update(_ context.Context, v suppliers.Supplier) error {
	return r.s.write(func(d *state) error {
		cur, ok := d.suppliers[v.Code]
		if !ok {
			return notFound("supplier")
		}
		if d.suppliers.any(func(o suppliers.Supplier) bool { return o.Name == v.Name && o.Code != v.Code }) {
			return shared.Duplicate("supplier", "name")
		}
		v.CreatedAt = cur.CreatedAt
		v.UpdatedAt = r.s.now()
		d.suppliers[v.Code] = v
		return nil
	})
}

// Delete nulls weak references held by products and document lines.
func (r supplierRepo) Delete(_ context.Context, code string) error {
	return r.s.write(func(d *state) error {
		if _, ok := d.suppliers[code]; !ok {
			return notFound("supplier")
		}
		delete(d.suppliers, code)
		for k, p := range d.products {
			if p.SupplierCode != nil && *p.SupplierCode == code {
				p.SupplierCode = nil
			}
			if p.ManufacturerCode != nil && *p.ManufacturerCode == code {
				p.ManufacturerCode = nil
			}
			d.products[k] = p
		}
		for k, it := range d.orderItems {
			if it.SupplierCode != nil && *it.SupplierCode == code {
				it.SupplierCode = nil
				d.orderItems[k] = it
			}
		}
		for k, it := range d.invoiceItems {
			if it.SupplierCode != nil && *it.SupplierCode == code {
				it.SupplierCode = nil
				d.invoiceItems[k] = it
			}
		}
		return nil
	})
}

// Products returns the product repository.
func (s *Store) Products() products.Repository { return productRepo{s} }

type productRepo struct{ s *Store }

func (r productRepo) List(_ context.Context, f shared.ListFilters) (out []products.Product, total int, err error) {
	r.s.read(func(d *state) {
		out, total = page(d.products.values(), f,
			func(v products.Product) bool { return matches(f.Search, v.Name, v.Code) },
			func(a, b products.Product) int { return strings.Compare(a.Name, b.Name) })
	})
	return out, total, nil
}

func (r productRepo) Get(_ context.Context, code string) (v products.Product, err error) {
	r.s.read(func(d *state) {
		var ok bool
		if v, ok = d.products[code]; !ok {
			err = notFound("product")
		}
	})
	return v, err
}

func checkSupplierRefs(d *state, v products.Product) error {
	for field, ref := range map[string]*string{"supplier_code": v.SupplierCode, "manufacturer_code": v.ManufacturerCode} {
		if ref == nil {
			continue
		}
		if _, ok := d.suppliers[*ref]; !ok {
			return missingRef("product", field, *ref)
		}
	}
	return nil
}

func (r productRepo) Create(_ context.Context, v products.Product) (products.Product, error) {
	err := r.s.write(func(d *state) error {
		if _, ok := d.products[v.Code]; ok {
			return shared.Duplicate("product", shared.FieldCode)
		}
		if err := checkSupplierRefs(d, v); err != nil {
			return err
		}
		v.CreatedAt = r.s.now()
		v.UpdatedAt = v.CreatedAt
		d.products[v.Code] = v
		return nil
	})
	return v, err
}

func (r productRepo) Update(_ context.Context, v products.Product) error {
	return r.s.write(func(d *state) error {
		cur, ok := d.products[v.Code]
		if !ok {
			return notFound("product")
		}
		if err := checkSupplierRefs(d, v); err != nil {
			return err
		}
		v.CreatedAt = cur.CreatedAt
		v.UpdatedAt = r.s.now()
		d.products[v.Code] = v
		return nil
	})
}

func (r productRepo) Delete(_ context.Context, code string) error {
	return r.s.write(func(d *state) error {
		if _, ok := d.products[code]; !ok {
			return notFound("product")
		}
		switch {
		case d.cables.any(func(c cables.Cable) bool { return c.ProductCode == code }):
			return stillReferenced("product", "cables")
		case d.terminals.any(func(t terminals.Terminal) bool { return t.ProductCode == code }):
			return stillReferenced("product", "terminals")
		case d.orderItems.any(func(it procurement.Item) bool { return it.ProductCode == code }):
			return stillReferenced("product", "purchase order items")
		case d.invoiceItems.any(func(it invoicing.Item) bool { return it.ProductCode == code }):
			return stillReferenced("product", "invoice items")
		}
		delete(d.products, code)
		return nil
	})
}

// Clients returns the client repository.
func (s *Store) Clients() clients.Repository { return clientRepo{s} }

type clientRepo struct{ s *Store }

func (r clientRepo) List(_ context.Context, f shared.ListFilters) (out []clients.Client, total int, err error) {
	r.s.read(func(d *state) {
		out, total = page(d.clients.values(), f,
			func(v clients.Client) bool { return matches(f.Search, v.Name, v.Code) },
			func(a, b clients.Client) int { return strings.Compare(a.Name, b.Name) })
	})
	return out, total, nil
}

func (r clientRepo) Get(_ context.Context, code string) (v clients.Client, err error) {
	r.s.read(func(d *state) {
		var ok bool
		if v, ok = d.clients[code]; !ok {
			err = notFound("client")
		}
	})
	return v, err
}

func (r clientRepo) Create(_ context.Context, v clients.Client) (clients.Client, error) {
	err := r.s.write(func(d *state) error {
		if _, ok := d.clients[v.Code]; ok {
			return shared.Duplicate("client", shared.FieldCode)
		}
		if d.clients.any(func(o clients.Client) bool { return o.Name == v.Name }) {
			return shared.Duplicate("client", "name")
		}
		v.CreatedAt = r.s.now()
		v.UpdatedAt = v.CreatedAt
		d.clients[v.Code] = v
		return nil
	})
	return v, err
}

func (r clientRepo) Update(_ context.Context, v clients.Client) error {
	return r.s.write(func(d *state) error {
		cur, ok := d.clients[v.Code]
		if !ok {
			return notFound("client")
		}
		if d.clients.any(func(o clients.Client) bool { return o.Name == v.Name && o.Code != v.Code }) {
			return shared.Duplicate("client", "name")
		}
		v.CreatedAt = cur.CreatedAt
		v.UpdatedAt = r.s.now()
		d.clients[v.Code] = v
		return nil
	})
}

func (r clientRepo) Delete(_ context.Context, code string) error {
	return r.s.write(func(d *state) error {
		if _, ok := d.clients[code]; !ok {
			return notFound("client")
		}
		if d.builds.any(func(b builds.SystemBuild) bool { return b.ClientCode == code }) {
			return stillReferenced("client", "system builds")
		}
		delete(d.clients, code)
		return nil
	})
}

// Cables returns the cable repository.
func (s *Store) Cables() cables.Repository { return cableRepo{s} }

type cableRepo struct{ s *Store }

func (r cableRepo) List(context.Context) (out []cables.Cable, err error) {
	r.s.read(func(d *state) { out = d.cables.values() })
	return out, nil
}

func (r cableRepo) Get(_ context.Context, id int64) (v cables.Cable, err error) {
	r.s.read(func(d *state) {
		var ok bool
		if v, ok = d.cables[id]; !ok {
			err = notFound("cable")
		}
	})
	return v, err
}

func checkCable(d *state, v cables.Cable) error {
	if _, ok := d.products[v.ProductCode]; !ok {
		return missingRef("cable", "product_code", v.ProductCode)
	}
	if v.ColourID != nil {
		if _, ok := d.colours[*v.ColourID]; !ok {
			return missingRef("cable", "colour_id", *v.ColourID)
		}
	}
	if d.cables.any(func(o cables.Cable) bool { return o.ProductCode == v.ProductCode && o.ID != v.ID }) {
		return shared.Duplicate("cable", "product_code")
	}
	return nil
}

func (r cableRepo) Create(_ context.Context, v cables.Cable) (cables.Cable, error) {
	err := r.s.write(func(d *state) error {
		v.ID = 0
		if err := checkCable(d, v); err != nil {
			return err
		}
		v.ID = r.s.id()
		d.cables[v.ID] = v
		return nil
	})
	return v, err
}

func (r cableRepo) Update(_ context.Context, v cables.Cable) error {
	return r.s.write(func(d *state) error {
		if _, ok := d.cables[v.ID]; !ok {
			return notFound("cable")
		}
		if err := checkCable(d, v); err != nil {
			return err
		}
		d.cables[v.ID] = v
		return nil
	})
}

func (r cableRepo) Delete(_ context.Context, id int64) error {
	return r.s.write(func(d *state) error {
		if _, ok := d.cables[id]; !ok {
			return notFound("cable")
		}
		if d.connections.any(func(c builds.Connection) bool { return c.CableID == id }) {
			return stillReferenced("cable", "connections")
		}
		delete(d.cables, id)
		return nil
	})
}

// Terminals returns the terminal repository.
func (s *Store) Terminals() terminals.Repository { return terminalRepo{s} }

type terminalRepo struct{ s *Store }

func (r terminalRepo) List(context.Context) (out []terminals.Terminal, err error) {
	r.s.read(func(d *state) { out = d.terminals.values() })
	return out, nil
}

func (r terminalRepo) Get(_ context.Context, id int64) (v terminals.Terminal, err error) {
	r.s.read(func(d *state) {
		var ok bool
		if v, ok = d.terminals[id]; !ok {
			err = notFound("terminal")
		}
	})
	return v, err
}

func (r terminalRepo) Create(_ context.Context, v terminals.Terminal) (terminals.Terminal, error) {
	err := r.s.write(func(d *state) error {
		if _, ok := d.products[v.ProductCode]; !ok {
			return missingRef("terminal", "product_code", v.ProductCode)
		}
		v.ID = r.s.id()
		d.terminals[v.ID] = v
		return nil
	})
	return v, err
}

func (r terminalRepo) Update(_ context.Context, v terminals.Terminal) error {
	return r.s.write(func(d *state) error {
		if _, ok := d.terminals[v.ID]; !ok {
			return notFound("terminal")
		}
		if _, ok := d.products[v.ProductCode]; !ok {
			return missingRef("terminal", "product_code", v.ProductCode)
		}
		d.terminals[v.ID] = v
		return nil
	})
}

func (r terminalRepo) Delete(_ context.Context, id int64) error {
	return r.s.write(func(d *state) error {
		if _, ok := d.terminals[id]; !ok {
			return notFound("terminal")
		}
		if d.connections.any(func(c builds.Connection) bool { return c.TerminalAID == id || c.TerminalBID == id }) {
			return stillReferenced("terminal", "connections")
		}
		delete(d.terminals, id)
		return nil
	})
}

// Colours returns the colour code and pinout repository.
func (s *Store) Colours() colours.Repository { return colourRepo{s} }

type colourRepo struct{ s *Store }

func (r colourRepo) ListColours(context.Context) (out []colours.ColourCode, err error) {
	r.s.read(func(d *state) {
		out = d.colours.values()
		slices.SortStableFunc(out, func(a, b colours.ColourCode) int { return strings.Compare(a.Name, b.Name) })
	})
	return out, nil
}

func (r colourRepo) GetColour(_ context.Context, id int64) (v colours.ColourCode, err error) {
	r.s.read(func(d *state) {
		var ok bool
		if v, ok = d.colours[id]; !ok {
			err = notFound("colour")
		}
	})
	return v, err
}

func checkColour(d *state, v colours.ColourCode) error {
	if d.colours.any(func(o colours.ColourCode) bool { return o.Name == v.Name && o.ID != v.ID }) {
		return shared.Duplicate("colour", "name")
	}
	if d.colours.any(func(o colours.ColourCode) bool { return o.RGB == v.RGB && o.ID != v.ID }) {
		return shared.Duplicate("colour", "rgb")
	}
	return nil
}

func (r colourRepo) CreateColour(_ context.Context, v colours.ColourCode) (colours.ColourCode, error) {
	err := r.s.write(func(d *state) error {
		v.ID = 0
		if err := checkColour(d, v); err != nil {
			return err
		}
		v.ID = r.s.id()
		d.colours[v.ID] = v
		return nil
	})
	return v, err
}

func (r colourRepo) UpdateColour(_ context.Context, v colours.ColourCode) error {
	return r.s.write(func(d *state) error {
		if _, ok := d.colours[v.ID]; !ok {
			return notFound("colour")
		}
		if err := checkColour(d, v); err != nil {
			return err
		}
		d.colours[v.ID] = v
		return nil
	})
}

func (r colourRepo) DeleteColour(_ context.Context, id int64) error {
	return r.s.write(func(d *state) error {
		if _, ok := d.colours[id]; !ok {
			return notFound("colour")
		}
		delete(d.colours, id)
		for k, c := range d.cables {
			if c.ColourID != nil && *c.ColourID == id {
				c.ColourID = nil
				d.cables[k] = c
			}
		}
		return nil
	})
}

func sortPins(pins []colours.Pin) {
	slices.SortStableFunc(pins, func(a, b colours.Pin) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return a.PinNumber - b.PinNumber
	})
}

func (r colourRepo) ListPins(context.Context) (out []colours.Pin, err error) {
	r.s.read(func(d *state) {
		out = d.pins.values()
		sortPins(out)
	})
	return out, nil
}

func (r colourRepo) PinsByName(_ context.Context, name string) (out []colours.Pin, err error) {
	r.s.read(func(d *state) {
		for _, p := range d.pins.values() {
			if p.Name == name {
				out = append(out, p)
			}
		}
		sortPins(out)
	})
	return out, nil
}

func (r colourRepo) CreatePin(_ context.Context, v colours.Pin) (colours.Pin, error) {
	err := r.s.write(func(d *state) error {
		if v.PinNumber < 1 || v.PinNumber > colours.PinsPerJack {
			return shared.Invalid("pinout: pin number %d out of range", v.PinNumber)
		}
		if d.pins.any(func(o colours.Pin) bool { return o.Name == v.Name && o.PinNumber == v.PinNumber }) {
			return shared.Duplicate("pinout", "pin_number")
		}
		if d.pins.any(func(o colours.Pin) bool { return o.Name == v.Name && o.Colour == v.Colour }) {
			return shared.Duplicate("pinout", "colour")
		}
		v.ID = r.s.id()
		d.pins[v.ID] = v
		return nil
	})
	return v, err
}

func (r colourRepo) DeletePinout(_ context.Context, name string) (n int64, err error) {
	err = r.s.write(func(d *state) error {
		for k, p := range d.pins {
			if p.Name == name {
				delete(d.pins, k)
				n++
			}
		}
		return nil
	})
	return n, err
}

// Countries returns the country repository.
func (s *Store) Countries() countries.Repository { return countryRepo{s} }

type countryRepo struct{ s *Store }

func (r countryRepo) List(context.Context) (out []countries.Country, err error) {
	r.s.read(func(d *state) {
		out = d.countries.values()
		slices.SortStableFunc(out, func(a, b countries.Country) int { return strings.Compare(a.Name, b.Name) })
	})
	return out, nil
}

func (r countryRepo) GetOrCreate(_ context.Context, name, isoCode string) (c countries.Country, created bool, err error) {
	err = r.s.write(func(d *state) error {
		for _, existing := range d.countries {
			if existing.Name == name && existing.ISOCode == isoCode {
				c = existing
				return nil
			}
		}
		c = countries.Country{ID: r.s.id(), Name: name, ISOCode: isoCode}
		d.countries[c.ID] = c
		created = true
		return nil
	})
	return c, created, err
}
