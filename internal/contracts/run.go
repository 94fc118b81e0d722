package contracts

import "time"

// RunOutput is the complete output set of one pipeline run. It is written
// wholesale; partial output is never persisted.
type RunOutput struct {
	Year        int
	Fingerprint string

	Facts       []FactRow
	Metrics     []MetricsRow
	Assignments []PeerAssignment
	Medians     []PeerMedianRow
	Signals     []Signal
	Ranked      RankedSet

	Summary RunSummary
}

// RunSummary is the run-level record surfaced to operators.
type RunSummary struct {
	Year        int       `json:"year"`
	Fingerprint string    `json:"fingerprint"`
	Seed        int64     `json:"seed"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`

	// Row counts per stage.
	FactRows       int `json:"fact_rows"`
	MetricsRows    int `json:"metrics_rows"`
	AssignmentRows int `json:"assignment_rows"`
	MedianRows     int `json:"median_rows"`
	SignalRows     int `json:"signal_rows"`
	RankedRows     int `json:"ranked_rows"`

	// Data-quality counters from ingestion.
	RecordsRead     int     `json:"records_read"`
	RecordsExcluded int     `json:"records_excluded"`
	ExcludedShare   float64 `json:"excluded_share"`
}
