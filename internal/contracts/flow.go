package contracts

// FlowDirection distinguishes the two reported sides of a bilateral flow.
type FlowDirection string

const (
	FlowExport FlowDirection = "export"
	FlowImport FlowDirection = "import"
)

// BilateralFlow is one raw trade record from the input snapshot.
// SSOT: source of truth for the whole pipeline; never mutated downstream.
type BilateralFlow struct {
	Year        int           `json:"year"`
	ProductCode string        `json:"product_code"` // zero-padded HS6
	Reporter    string        `json:"reporter_country"`
	Partner     string        `json:"partner_country"`
	Direction   FlowDirection `json:"flow_direction"`
	Value       float64       `json:"value"` // USD
}

// Key identifies the aggregation bucket a flow belongs to.
func (f *BilateralFlow) Key() FlowKey {
	return FlowKey{
		Year:        f.Year,
		ProductCode: f.ProductCode,
		Reporter:    f.Reporter,
		Partner:     f.Partner,
		Direction:   f.Direction,
	}
}

// FlowKey is the grouping key for raw flow aggregation.
type FlowKey struct {
	Year        int
	ProductCode string
	Reporter    string
	Partner     string
	Direction   FlowDirection
}
