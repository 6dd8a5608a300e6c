package match

import (
	"math"
	"sort"

	"maitred/internal/models"
)

// Rank finds the restaurants able to serve a food query and orders them by
// rank. Each qualifying restaurant is annotated with its distance from the
// user; restaurants farther than their own delivery radius are dropped.
// Restaurants with no location bypass the radius filter and carry no
// distance, so an unset-location restaurant stays visible rather than being
// silently excluded. A nil user coordinate skips geo-filtering entirely.
// Deliverable is set only when the radius check actually ran and passed;
// candidates that bypassed it report false.
//
// Candidates are sorted by rating descending, ties broken by feedback count
// descending; remaining ties keep the input order. Pure: no side effects,
// deterministic for a given input.
func Rank(restaurants []models.Restaurant, query string, veg *bool, user *models.Coordinate) []models.CandidateRestaurant {
	var candidates []models.CandidateRestaurant

	for _, r := range restaurants {
		items, ok := MatchMenu(query, veg, r)
		if !ok {
			continue
		}

		var distance *float64
		deliverable := false
		if user != nil && r.Location != nil {
			d := user.DistanceKm(*r.Location)
			if d > r.EffectiveRadiusKm() {
				continue
			}
			// Round only for display, after the radius comparison.
			rounded := math.Round(d*10) / 10
			distance = &rounded
			deliverable = true
		}

		candidates = append(candidates, models.CandidateRestaurant{
			ID:            r.ID,
			Name:          r.Name,
			DistanceKm:    distance,
			Rating:        r.EffectiveRating(),
			FeedbackCount: r.FeedbackCount,
			Deliverable:   deliverable,
			Items:         items,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Rating != candidates[j].Rating {
			return candidates[i].Rating > candidates[j].Rating
		}
		return candidates[i].FeedbackCount > candidates[j].FeedbackCount
	})

	return candidates
}
