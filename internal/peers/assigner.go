// Package peers assigns every country to a peer group under three
// independent methodologies: a curated expert grouping and two computed
// clusterings over trade structure and export-opportunity features.
package peers

import (
	"fmt"
	"sort"

	"github.com/exportlens/backend/internal/contracts"
)

// Input is the shared input of all assigners: the target year plus the raw
// flow window the computed methodologies derive their features from.
type Input struct {
	Year int
	// Flows spans [Year-WindowYears+1, Year]; curated assignment ignores it.
	Flows []contracts.BilateralFlow
}

// Assigner produces one year's peer assignments under a single methodology.
type Assigner interface {
	Methodology() contracts.Methodology
	Assign(in Input) ([]contracts.PeerAssignment, error)
}

// AssignAll runs every assigner and combines the results into one set.
// Assigners run in the fixed methodology order so the combined slice is
// deterministic.
func AssignAll(in Input, assigners []Assigner) (*contracts.PeerAssignmentSet, error) {
	var all []contracts.PeerAssignment
	for _, a := range assigners {
		assignments, err := a.Assign(in)
		if err != nil {
			return nil, fmt.Errorf("assign %s peers: %w", a.Methodology(), err)
		}
		all = append(all, assignments...)
	}
	return contracts.NewPeerAssignmentSet(in.Year, all), nil
}

// RequireAssigned verifies that every listed country has an assignment under
// every methodology. Missing coverage for a country the pipeline needs is
// fatal, never silently skipped.
func RequireAssigned(set *contracts.PeerAssignmentSet, countries []string) error {
	for _, country := range countries {
		for _, m := range contracts.Methodologies() {
			if _, ok := set.Get(country, m); !ok {
				return &contracts.UnassignedCountryError{
					Country:     country,
					Methodology: m,
					Year:        set.Year,
				}
			}
		}
	}
	return nil
}

// materialize turns per-country cluster labels into assignments with the
// peer lists expanded: everyone sharing the cluster, self excluded, sorted
// ascending by ISO3.
func materialize(year int, m contracts.Methodology, countries []string, labels []int) []contracts.PeerAssignment {
	members := make(map[int][]string)
	for i, country := range countries {
		members[labels[i]] = append(members[labels[i]], country)
	}

	assignments := make([]contracts.PeerAssignment, 0, len(countries))
	for i, country := range countries {
		cluster := labels[i]
		peers := make([]string, 0, len(members[cluster])-1)
		for _, other := range members[cluster] {
			if other != country {
				peers = append(peers, other)
			}
		}
		sort.Strings(peers)

		assignments = append(assignments, contracts.PeerAssignment{
			Country:     country,
			Methodology: m,
			Year:        year,
			ClusterID:   cluster,
			Peers:       peers,
		})
	}
	return assignments
}
