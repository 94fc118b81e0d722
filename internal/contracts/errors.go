package contracts

import (
	"errors"
	"fmt"
)

// Error taxonomy for the pipeline. Structural violations abort the run;
// data-quality issues on individual records are recovered by exclusion.
var (
	// ErrAggregationInconsistency: the fact verification pass found a
	// product whose summed bilateral exports disagree with the computed
	// global total. Fatal.
	ErrAggregationInconsistency = errors.New("aggregation inconsistency")

	// ErrUnassignedCountry: a country required downstream has no cluster
	// under some methodology. Fatal.
	ErrUnassignedCountry = errors.New("unassigned country")

	// ErrInvalidCountryCode: a record references a country token that
	// cannot be resolved to ISO3. Recovered by excluding the record unless
	// the excluded volume exceeds the sanity threshold.
	ErrInvalidCountryCode = errors.New("invalid country code")

	// ErrDuplicateKey: an aggregate key resolved to more than one row.
	// Structurally unreachable after grouping; fatal if it ever triggers.
	ErrDuplicateKey = errors.New("duplicate key")
)

// AggregationError carries the product whose totals disagree.
type AggregationError struct {
	Year        int
	ProductCode string
	Computed    float64
	Resummed    float64
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("aggregation inconsistency: year=%d product=%s computed=%.2f resummed=%.2f",
		e.Year, e.ProductCode, e.Computed, e.Resummed)
}

func (e *AggregationError) Unwrap() error { return ErrAggregationInconsistency }

// UnassignedCountryError names the country and methodology missing a cluster.
type UnassignedCountryError struct {
	Country     string
	Methodology Methodology
	Year        int
}

func (e *UnassignedCountryError) Error() string {
	return fmt.Sprintf("unassigned country: %s has no cluster under %s for %d",
		e.Country, e.Methodology, e.Year)
}

func (e *UnassignedCountryError) Unwrap() error { return ErrUnassignedCountry }

// InvalidCountryCodeError carries the unresolvable token.
type InvalidCountryCodeError struct {
	Token string
}

func (e *InvalidCountryCodeError) Error() string {
	return fmt.Sprintf("invalid country code: %q", e.Token)
}

func (e *InvalidCountryCodeError) Unwrap() error { return ErrInvalidCountryCode }

// DuplicateKeyError names the colliding aggregate key.
type DuplicateKeyError struct {
	Key FlowKey
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key: year=%d product=%s reporter=%s partner=%s direction=%s",
		e.Key.Year, e.Key.ProductCode, e.Key.Reporter, e.Key.Partner, e.Key.Direction)
}

func (e *DuplicateKeyError) Unwrap() error { return ErrDuplicateKey }
