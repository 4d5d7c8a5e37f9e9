package enabler

import "strings"

const CategoryVenue = "venue"

var venueCategories = map[string]struct{}{
	"venue":        {},
	"venues":       {},
	"event_venue":  {},
	"event_space":  {},
	"banquet_hall": {},
}

// Categories whose service is delivered without attending the event location.
var remoteCategories = map[string]struct{}{
	"invitations":   {},
	"stationery":    {},
	"printing":      {},
	"gifts":         {},
	"favors":        {},
	"online":        {},
	"event_planner": {},
}

// NormalizeCategory lower-cases a category and folds separators to underscores.
func NormalizeCategory(category string) string {
	c := strings.ToLower(strings.TrimSpace(category))
	c = strings.ReplaceAll(c, "-", "_")
	return strings.ReplaceAll(c, " ", "_")
}

func IsVenueCategory(category string) bool {
	_, ok := venueCategories[NormalizeCategory(category)]
	return ok
}

// IsLocationDependent reports whether the service needs a known event location.
func IsLocationDependent(category string) bool {
	c := NormalizeCategory(category)
	if c == "" {
		return false
	}
	if _, ok := venueCategories[c]; ok {
		return false
	}
	_, remote := remoteCategories[c]
	return !remote
}
