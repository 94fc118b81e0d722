// Package country is the single conversion boundary for country
// identifiers. Raw snapshots arrive with a mix of alpha-3, alpha-2, numeric
// ISO codes and free-text names; everything is normalized to ISO3 here, at
// ingestion, and no internal component accepts any other representation.
package country

import (
	"strconv"
	"strings"

	"github.com/exportlens/backend/internal/contracts"
)

// Normalize resolves a raw country token to its ISO3 code.
// Accepted forms: alpha-3 ("CZE"), alpha-2 ("CZ"), numeric ISO with or
// without zero padding ("203", "8"), and known English names
// ("Czechia", "Czech Republic"). Unresolvable tokens return
// *contracts.InvalidCountryCodeError.
func Normalize(token string) (string, error) {
	t := strings.TrimSpace(token)
	if t == "" {
		return "", &contracts.InvalidCountryCodeError{Token: token}
	}

	upper := strings.ToUpper(t)

	if len(upper) == 3 && isAlpha(upper) {
		if _, ok := byAlpha3[upper]; ok {
			return upper, nil
		}
	}

	if len(upper) == 2 && isAlpha(upper) {
		if iso3, ok := byAlpha2[upper]; ok {
			return iso3, nil
		}
	}

	if isDigits(t) {
		n, err := strconv.Atoi(t)
		if err == nil {
			if iso3, ok := byNumeric[pad3(n)]; ok {
				return iso3, nil
			}
		}
		return "", &contracts.InvalidCountryCodeError{Token: token}
	}

	if iso3, ok := byName[strings.ToLower(t)]; ok {
		return iso3, nil
	}

	return "", &contracts.InvalidCountryCodeError{Token: token}
}

// IsValidISO3 reports whether code is a known alpha-3 country code.
func IsValidISO3(code string) bool {
	_, ok := byAlpha3[code]
	return ok
}

// Name returns the English short name for an ISO3 code, or the code itself
// when unknown.
func Name(iso3 string) string {
	if r, ok := byAlpha3[iso3]; ok {
		return r.name
	}
	return iso3
}

func pad3(n int) string {
	s := strconv.Itoa(n)
	for len(s) < 3 {
		s = "0" + s
	}
	return s
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
