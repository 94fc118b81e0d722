package contracts

// RankedSignal is a signal that survived deduplication and capping, with its
// 1-based position in the final list.
type RankedSignal struct {
	Signal
	Rank int `json:"rank"`
}

// IsTopRanked reports whether the signal sits in the top n positions.
func (r *RankedSignal) IsTopRanked(n int) bool {
	return r.Rank > 0 && r.Rank <= n
}

// RankedSet is the bounded, deduplicated output of the ranking stage.
type RankedSet struct {
	Year int `json:"year"`
	// Top is the balanced mixed top-N list for display.
	Top []RankedSignal `json:"top"`
	// Bulk is the larger per-partner balanced set for precomputed output.
	Bulk []RankedSignal `json:"bulk"`
}
