package contracts

// MetricsRow is a FactRow plus derived ratios. 1:1 with current-year fact
// rows, computed once.
//
// Nullable ratios are pointers: nil means "undefined", which is distinct
// from zero everywhere in the pipeline (a zero prior year does not make
// growth infinite, it makes it unknown).
type MetricsRow struct {
	FactRow

	// Reference country's share of the partner's imports (0-1).
	ShareInPartnerImport *float64 `json:"share_in_partner_import"`
	// YoY change in bilateral export value, as a ratio of the prior year.
	YoYExportChange *float64 `json:"yoy_export_change"`
	// Partner's share of the reference country's global exports (0-1).
	PartnerShareInRefExports *float64 `json:"partner_share_in_ref_exports"`
	// YoY change in the partner share, as a ratio of the prior share.
	YoYPartnerShareChange *float64 `json:"yoy_partner_share_change"`
}

// MetricsTable groups one year's metrics rows with lookup by fact key.
type MetricsTable struct {
	Year int
	Rows []MetricsRow

	index map[FactKey]int
}

// NewMetricsTable builds a table and its key index.
func NewMetricsTable(year int, rows []MetricsRow) *MetricsTable {
	t := &MetricsTable{
		Year:  year,
		Rows:  rows,
		index: make(map[FactKey]int, len(rows)),
	}
	for i := range rows {
		t.index[rows[i].Key()] = i
	}
	return t
}

// Get returns the metrics row for a (product, partner) key.
func (t *MetricsTable) Get(key FactKey) (*MetricsRow, bool) {
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
func (t *MetricsTable) Count() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Float64Ptr is a small helper for building nullable metric values.
func Float64Ptr(v float64) *float64 { return &v }
