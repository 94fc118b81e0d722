package country

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exportlens/backend/internal/contracts"
)

func TestNormalizeAcceptedForms(t *testing.T) {
	cases := []struct {
		token string
		want  string
	}{
		{"CZE", "CZE"},
		{"cze", "CZE"},
		{"CZ", "CZE"},
		{"203", "CZE"},
		{"Czechia", "CZE"},
		{"Czech Republic", "CZE"},
		{"DE", "DEU"},
		{"276", "DEU"},
		{"Germany", "DEU"},
		{"  POL  ", "POL"},
		{"8", "ALB"}, // unpadded numeric
		{"South Korea", "KOR"},
		{"Vietnam", "VNM"},
	}

	for _, c := range cases {
		got, err := Normalize(c.token)
		require.NoError(t, err, "token %q", c.token)
		assert.Equal(t, c.want, got, "token %q", c.token)
	}
}

func TestNormalizeRejectsUnknownTokens(t *testing.T) {
	for _, token := range []string{"", "XX", "XXX", "999", "Atlantis", "C1E"} {
		_, err := Normalize(token)
		require.Error(t, err, "token %q", token)
		assert.ErrorIs(t, err, contracts.ErrInvalidCountryCode)

		var cerr *contracts.InvalidCountryCodeError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, token, cerr.Token)
	}
}

func TestIsValidISO3(t *testing.T) {
	assert.True(t, IsValidISO3("CZE"))
	assert.True(t, IsValidISO3("DEU"))
	assert.False(t, IsValidISO3("XXX"))
	assert.False(t, IsValidISO3("cz"))
}

func TestName(t *testing.T) {
	assert.Equal(t, "Czechia", Name("CZE"))
	assert.Equal(t, "XYZ", Name("XYZ"))
}
