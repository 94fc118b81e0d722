package contracts

// Methodology tags the three independent peer-grouping approaches.
// All three share one capability (assign a country to a cluster for a year);
// they differ only in how the cluster assignment is produced.
type Methodology string

const (
	// MethodologyCurated is the expert-maintained geographic/economic grouping.
	MethodologyCurated Methodology = "curated"
	// MethodologyTradeStructure clusters countries on import-share-by-HS2 vectors.
	MethodologyTradeStructure Methodology = "trade_structure"
	// MethodologyOpportunity clusters countries on compressed export-share,
	// export-growth and openness features.
	MethodologyOpportunity Methodology = "opportunity"
)

// Methodologies lists all methodologies in a fixed, deterministic order.
func Methodologies() []Methodology {
	return []Methodology{MethodologyCurated, MethodologyTradeStructure, MethodologyOpportunity}
}

// Valid reports whether m is one of the known methodologies.
func (m Methodology) Valid() bool {
	switch m {
	case MethodologyCurated, MethodologyTradeStructure, MethodologyOpportunity:
		return true
	}
	return false
}

// PeerAssignment maps a (country, methodology, year) to a cluster and the
// ordered peer set sharing it.
//
// Invariant: the peer set is a property of (country, methodology, year) only,
// never product-specific, and never contains the country itself.
type PeerAssignment struct {
	Country     string      `json:"country"`
	Methodology Methodology `json:"methodology"`
	Year        int         `json:"year"`
	ClusterID   int         `json:"cluster_id"`
	// Peers is sorted ascending by ISO3 code, self excluded.
	Peers []string `json:"peer_countries"`
}

// PeerAssignmentSet holds one year's assignments across all methodologies.
type PeerAssignmentSet struct {
	Year        int
	Assignments []PeerAssignment

	index map[peerKey]int
}

type peerKey struct {
	country     string
	methodology Methodology
}

// NewPeerAssignmentSet builds a set and its lookup index.
func NewPeerAssignmentSet(year int, assignments []PeerAssignment) *PeerAssignmentSet {
	s := &PeerAssignmentSet{
		Year:        year,
		Assignments: assignments,
		index:       make(map[peerKey]int, len(assignments)),
	}
	for i := range assignments {
		a := &assignments[i]
		s.index[peerKey{country: a.Country, methodology: a.Methodology}] = i
	}
	return s
}

// Get returns the assignment for a country under one methodology.
func (s *PeerAssignmentSet) Get(country string, m Methodology) (*PeerAssignment, bool) {
	if s == nil {
		return nil, false
	}
	i, ok := s.index[peerKey{country: country, methodology: m}]
	if !ok {
		return nil, false
	}
	return &s.Assignments[i], true
}

// Count returns the number of assignments in the set.
func (s *PeerAssignmentSet) Count() int {
	if s == nil {
		return 0
	}
	return len(s.Assignments)
}
