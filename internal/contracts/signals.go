package contracts

// SignalType identifies what a signal is telling the dashboard.
type SignalType string

const (
	// Peer-gap signals: the reference country's market share is below its
	// peer group's median. One type per methodology so the service layer
	// can present them separately.
	SignalPeerGapCurated        SignalType = "peer_gap_curated"
	SignalPeerGapTradeStructure SignalType = "peer_gap_trade_structure"
	SignalPeerGapOpportunity    SignalType = "peer_gap_opportunity"

	// SignalYoYExport: large year-over-year change in bilateral export value.
	SignalYoYExport SignalType = "yoy_export_change"
	// SignalYoYPartnerShare: large change in the partner's share of the
	// reference country's exports.
	SignalYoYPartnerShare SignalType = "yoy_partner_share_change"
)

// GapSignalType returns the peer-gap signal type for a methodology.
func GapSignalType(m Methodology) SignalType {
	switch m {
	case MethodologyCurated:
		return SignalPeerGapCurated
	case MethodologyTradeStructure:
		return SignalPeerGapTradeStructure
	case MethodologyOpportunity:
		return SignalPeerGapOpportunity
	}
	return SignalType("peer_gap_" + string(m))
}

// Signal is one candidate opportunity signal.
//
// Invariant: Value, YoY and PeerMedian are copied verbatim from the
// MetricsRow/PeerMedianRow that justified the signal. There is no second
// computation path that could diverge in scale from the fact layer.
type Signal struct {
	Type        SignalType  `json:"type"`
	Year        int         `json:"year"`
	ProductCode string      `json:"product_code"`
	Partner     string      `json:"partner_country"`
	Methodology Methodology `json:"methodology,omitempty"` // empty for YoY signals

	// Intensity is the methodology-specific ranking score.
	Intensity float64 `json:"intensity"`
	// Value is the supporting metric: market share for gap and share
	// signals, export value for YoY export signals.
	Value float64 `json:"value"`

	YoY        *float64 `json:"yoy"`
	PeerMedian *float64 `json:"peer_median"`
	Peers      []string `json:"peer_countries"` // nil for YoY signals

	// Explanation is a short human-readable note on the methodology.
	Explanation string `json:"methodology_explanation,omitempty"`
}

// SignalKey is the deduplication key: no two signals in a ranked list may
// share it.
type SignalKey struct {
	ProductCode string
	Partner     string
	Type        SignalType
}

// Key returns the deduplication key of the signal.
func (s *Signal) Key() SignalKey {
	return SignalKey{ProductCode: s.ProductCode, Partner: s.Partner, Type: s.Type}
}

// IsGap reports whether the signal is a peer-gap signal.
func (s *Signal) IsGap() bool {
	switch s.Type {
	case SignalPeerGapCurated, SignalPeerGapTradeStructure, SignalPeerGapOpportunity:
		return true
	}
	return false
}
