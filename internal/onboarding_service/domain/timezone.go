package domain

import "strings"

const defaultTimePlace = "New_York"

var timePlaces = map[string]string{
	"eastern":  "New_York",
	"central":  "Chicago",
	"mountain": "Denver",
	"pacific":  "Los_Angeles",
	"alaska":   "Anchorage",
	"hawaii":   "Honolulu",
}

var timeLabels = map[string]string{
	"New_York":    "Eastern",
	"Chicago":     "Central",
	"Denver":      "Mountain",
	"Los_Angeles": "Pacific",
	"Anchorage":   "Alaska",
	"Honolulu":    "Hawaii",
}

// ResolveTimeZone maps a label ("Pacific", "pacific time") or an
// "America/<City>" identifier to its display label and IANA place.
// Unknown input falls back to Eastern / New_York.
func ResolveTimeZone(input string) (label, place string) {
	s := strings.TrimSpace(input)
	if rest, ok := strings.CutPrefix(s, "America/"); ok && rest != "" {
		if l, known := timeLabels[rest]; known {
			return l, rest
		}
		return rest, rest
	}

	key := strings.ToLower(s)
	key = strings.TrimSuffix(key, " time")
	if p, ok := timePlaces[key]; ok {
		return timeLabels[p], p
	}
	return timeLabels[defaultTimePlace], defaultTimePlace
}
