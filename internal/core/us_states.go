package core

import "strings"

// usStateCodes maps lowercase US state names to postal codes.
var usStateCodes = map[string]string{
	"alabama": "AL", "alaska": "AK", "arizona": "AZ", "arkansas": "AR",
	"california": "CA", "colorado": "CO", "connecticut": "CT", "delaware": "DE",
	"district of columbia": "DC", "florida": "FL", "georgia": "GA", "hawaii": "HI",
	"idaho": "ID", "illinois": "IL", "indiana": "IN", "iowa": "IA",
	"kansas": "KS", "kentucky": "KY", "louisiana": "LA", "maine": "ME",
	"maryland": "MD", "massachusetts": "MA", "michigan": "MI", "minnesota": "MN",
	"mississippi": "MS", "missouri": "MO", "montana": "MT", "nebraska": "NE",
	"nevada": "NV", "new hampshire": "NH", "new jersey": "NJ", "new mexico": "NM",
	"new york": "NY", "north carolina": "NC", "north dakota": "ND", "ohio": "OH",
	"oklahoma": "OK", "oregon": "OR", "pennsylvania": "PA", "rhode island": "RI",
	"south carolina": "SC", "south dakota": "SD", "tennessee": "TN", "texas": "TX",
	"utah": "UT", "vermont": "VT", "virginia": "VA", "washington": "WA",
	"west virginia": "WV", "wisconsin": "WI", "wyoming": "WY",
}

var usCountryNames = map[string]struct{}{
	"us": {}, "usa": {}, "u.s.": {}, "u.s.a.": {},
	"united states": {}, "united states of america": {},
}

// IsUSCountry reports whether a country cell names the United States.
func IsUSCountry(country string) bool {
	_, ok := usCountryNames[strings.ToLower(strings.TrimSpace(country))]
	return ok
}

// USStateCode returns the postal code for a US state name or code.
// Unrecognized values are returned trimmed and otherwise unchanged.
func USStateCode(state string) string {
	state = strings.TrimSpace(state)
	if code, ok := usStateCodes[strings.ToLower(state)]; ok {
		return code
	}
	if len(state) == 2 {
		upper := strings.ToUpper(state)
		for _, code := range usStateCodes {
			if code == upper {
				return upper
			}
		}
	}
	return state
}
