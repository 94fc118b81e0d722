package contracts

// FactRow is one aggregated, verified trade fact for the reference country:
// one row per (year, product_code, partner_country).
// SSOT: every downstream value derives from these fields, never from the raw
// snapshot directly.
type FactRow struct {
	Year        int    `json:"year"`
	ProductCode string `json:"product_code"`
	Partner     string `json:"partner_country"`

	// Bilateral export value reference -> partner.
	ExportRefToPartner float64 `json:"export_ref_to_partner"`
	// Partner's total import value for this product, all origins.
	ImportPartnerTotal float64 `json:"import_partner_total"`
	// Reference country's global export value for this product.
	// Recomputed from the bilateral rows, never read from the snapshot.
	ExportRefGlobal float64 `json:"export_ref_global_for_product"`
}

// FactKey identifies a fact row within a year.
type FactKey struct {
	ProductCode string
	Partner     string
}

// Key returns the (product, partner) key of the row.
func (r *FactRow) Key() FactKey {
	return FactKey{ProductCode: r.ProductCode, Partner: r.Partner}
}

// FactTable groups one year's fact rows with lookup by key.
type FactTable struct {
	Year int
	Rows []FactRow

	index map[FactKey]int
}

// NewFactTable builds a table and its key index.
func NewFactTable(year int, rows []FactRow) *FactTable {
	t := &FactTable{
		Year:  year,
		Rows:  rows,
		index: make(map[FactKey]int, len(rows)),
	}
	for i := range rows {
		t.index[rows[i].Key()] = i
	}
	return t
}

// Get returns the fact row for a (product, partner) key.
func (t *FactTable) Get(key FactKey) (*FactRow, bool) {
	if t == nil {
		return nil, false
	}
	i, ok := t.index[key]
	if !ok {
		return nil, false
	}
	return &t.Rows[i], true
}

// Count returns the number of rows in the table.
func (t *FactTable) Count() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}
