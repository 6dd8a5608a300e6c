package match

import (
	"strings"

	"maitred/internal/models"
)

// MatchMenu decides whether a restaurant can serve a free-text food query.
// An item matches when its name contains the query as a case-insensitive
// substring, or any of the restaurant's cuisine tags contains the query; the
// item also has to honor the requested dietary flag (nil means don't care)
// and be available. Returns the matching subset and whether the restaurant
// qualifies at all.
//
// An empty query matches nothing.
func MatchMenu(query string, veg *bool, r models.Restaurant) ([]models.MenuItem, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, false
	}

	cuisineHit := false
	for _, cuisine := range r.Cuisines {
		if strings.Contains(strings.ToLower(cuisine), q) {
			cuisineHit = true
			break
		}
	}

	var matched []models.MenuItem
	for _, item := range r.Menu {
		nameHit := strings.Contains(strings.ToLower(item.Name), q)
		if !nameHit && !cuisineHit {
			continue
		}
		if veg != nil && item.Veg != *veg {
			continue
		}
		if !item.IsAvailable() {
			continue
		}
		matched = append(matched, item)
	}

	return matched, len(matched) > 0
}
