package peers

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/exportlens/backend/internal/contracts"
	"github.com/exportlens/backend/internal/country"
)

// curatedFile is the YAML layout of the expert-maintained grouping.
type curatedFile struct {
	Groups map[string][]string `yaml:"groups"`
}

// CuratedAssigner assigns countries from a hand-maintained grouping table.
// Cluster IDs follow the sorted group-name order so re-runs over the same
// file always produce identical assignments.
type CuratedAssigner struct {
	groupNames []string
	// country -> index into groupNames
	membership map[string]int
}

// NewCuratedAssigner validates the grouping: every entry must normalize to a
// known ISO3 code and belong to exactly one group.
func NewCuratedAssigner(groups map[string][]string) (*CuratedAssigner, error) {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	membership := make(map[string]int)
	for idx, name := range names {
		for _, token := range groups[name] {
			iso3, err := country.Normalize(token)
			if err != nil {
				return nil, fmt.Errorf("curated group %s: %w", name, err)
			}
			if prev, dup := membership[iso3]; dup {
				return nil, fmt.Errorf("curated groups: %s belongs to both %s and %s",
					iso3, names[prev], name)
			}
			membership[iso3] = idx
		}
	}

	if len(membership) == 0 {
		return nil, fmt.Errorf("curated groups: no countries defined")
	}

	return &CuratedAssigner{groupNames: names, membership: membership}, nil
}

// LoadCuratedAssigner reads the grouping from a YAML file.
func LoadCuratedAssigner(path string) (*CuratedAssigner, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read peer groups: %w", err)
	}

	var f curatedFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode peer groups: %w", err)
	}

	return NewCuratedAssigner(f.Groups)
}

func (a *CuratedAssigner) Methodology() contracts.Methodology {
	return contracts.MethodologyCurated
}

// GroupName returns the group label behind a cluster ID.
func (a *CuratedAssigner) GroupName(clusterID int) string {
	if clusterID < 0 || clusterID >= len(a.groupNames) {
		return ""
	}
	return a.groupNames[clusterID]
}

// Assign emits one assignment per country in the grouping table. The flow
// window is ignored; curated membership does not depend on observed trade.
func (a *CuratedAssigner) Assign(in Input) ([]contracts.PeerAssignment, error) {
	countries := make([]string, 0, len(a.membership))
	for iso3 := range a.membership {
		countries = append(countries, iso3)
	}
	sort.Strings(countries)

	labels := make([]int, len(countries))
	for i, iso3 := range countries {
		labels[i] = a.membership[iso3]
	}

	return materialize(in.Year, contracts.MethodologyCurated, countries, labels), nil
}
