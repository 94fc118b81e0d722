package peers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exportlens/backend/internal/contracts"
)

func TestCuratedAssignExpandsPeers(t *testing.T) {
	a, err := NewCuratedAssigner(map[string][]string{
		"central_europe": {"CZE", "SVK", "POL", "HUN"},
		"baltics":        {"EST", "LVA", "LTU"},
	})
	require.NoError(t, err)

	assignments, err := a.Assign(Input{Year: 2024})
	require.NoError(t, err)
	require.Len(t, assignments, 7)

	set := contracts.NewPeerAssignmentSet(2024, assignments)
	cze, ok := set.Get("CZE", contracts.MethodologyCurated)
	require.True(t, ok)
	assert.Equal(t, []string{"HUN", "POL", "SVK"}, cze.Peers)
	assert.NotContains(t, cze.Peers, "CZE")

	est, ok := set.Get("EST", contracts.MethodologyCurated)
	require.True(t, ok)
	assert.Equal(t, []string{"LTU", "LVA"}, est.Peers)
	assert.NotEqual(t, cze.ClusterID, est.ClusterID)
}

func TestCuratedRejectsDoubleMembership(t *testing.T) {
	_, err := NewCuratedAssigner(map[string][]string{
		"a": {"CZE", "SVK"},
		"b": {"SVK", "POL"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SVK")
}

func TestCuratedRejectsUnknownCountry(t *testing.T) {
	_, err := NewCuratedAssigner(map[string][]string{
		"a": {"CZE", "XXX"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, contracts.ErrInvalidCountryCode)
}

func TestCuratedNormalizesTokens(t *testing.T) {
	a, err := NewCuratedAssigner(map[string][]string{
		"a": {"Czechia", "sk"},
	})
	require.NoError(t, err)

	assignments, err := a.Assign(Input{Year: 2024})
	require.NoError(t, err)

	set := contracts.NewPeerAssignmentSet(2024, assignments)
	cze, ok := set.Get("CZE", contracts.MethodologyCurated)
	require.True(t, ok)
	assert.Equal(t, []string{"SVK"}, cze.Peers)
}

func TestRequireAssignedReportsGap(t *testing.T) {
	a, err := NewCuratedAssigner(map[string][]string{"a": {"CZE", "SVK"}})
	require.NoError(t, err)

	assignments, err := a.Assign(Input{Year: 2024})
	require.NoError(t, err)
	set := contracts.NewPeerAssignmentSet(2024, assignments)

	// Curated only: the computed methodologies are missing for everyone.
	err = RequireAssigned(set, []string{"CZE"})
	require.Error(t, err)
	assert.ErrorIs(t, err, contracts.ErrUnassignedCountry)

	var uerr *contracts.UnassignedCountryError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "CZE", uerr.Country)
}
