package contracts

// PeerMedianRow is the median of the reference country's peers' market
// shares in one partner's import market for one product, under one
// methodology.
//
// Peers with no recorded trade in (product, partner) are excluded from the
// median input, not counted as zero. When no peer trades the product with
// the partner at all, no row exists.
type PeerMedianRow struct {
	Year            int         `json:"year"`
	ProductCode     string      `json:"product_code"`
	Partner         string      `json:"partner_country"`
	Methodology     Methodology `json:"methodology"`
	PeerMedianShare float64     `json:"peer_median_share"`
	PeerCount       int         `json:"peer_count"`
	// Peers is the full peer set of the reference country under the
	// methodology (not just the ones that entered the median), sorted.
	Peers []string `json:"peer_countries"`
}

// MedianKey identifies a peer-median row within a year.
type MedianKey struct {
	ProductCode string
	Partner     string
	Methodology Methodology
}

// Key returns the (product, partner, methodology) key of the row.
func (r *PeerMedianRow) Key() MedianKey {
	return MedianKey{ProductCode: r.ProductCode, Partner: r.Partner, Methodology: r.Methodology}
}

// PeerMedianTable groups one year's peer medians with lookup by key.
type PeerMedianTable struct {
	Year int
	Rows []PeerMedianRow

	index map[MedianKey]int
}

// NewPeerMedianTable builds a table and its key index.
func NewPeerMedianTable(year int, rows []PeerMedianRow) *PeerMedianTable {
	t := &PeerMedianTable{
		Year:  year,
		Rows:  rows,
		index: make(map[MedianKey]int, len(rows)),
	}
	for i := range rows {
		t.index[rows[i].Key()] = i
	}
	return t
}

// Get returns the median row for a (product, partner, methodology) key.
func (t *PeerMedianTable) Get(key MedianKey) (*PeerMedianRow, bool) {
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
func (t *PeerMedianTable) Count() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}
