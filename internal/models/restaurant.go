package models

import "math"

// Defaults applied when a restaurant omits optional rank-relevant fields.
const (
	DefaultDeliveryRadiusKm = 10.0
	DefaultRating           = 4.0
)

// Restaurant is a read-only snapshot of a restaurant and its menu, supplied
// wholesale by the catalog per ranking request. The engine never mutates it.
type Restaurant struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	Location         *Coordinate `json:"location,omitempty"`
	DeliveryRadiusKm *float64    `json:"delivery_radius_km,omitempty"`
	Rating           *float64    `json:"rating,omitempty"`
	FeedbackCount    int         `json:"feedback_count"`
	Menu             []MenuItem  `json:"menu"`
	Cuisines         []string    `json:"cuisines,omitempty"`
}

// EffectiveRadiusKm returns the delivery radius, defaulting when unset.
func (r *Restaurant) EffectiveRadiusKm() float64 {
	if r.DeliveryRadiusKm == nil {
		return DefaultDeliveryRadiusKm
	}
	return *r.DeliveryRadiusKm
}

// EffectiveRating returns the rating clamped to [0, 5], defaulting when unset.
func (r *Restaurant) EffectiveRating() float64 {
	if r.Rating == nil {
		return DefaultRating
	}
	return math.Max(0, math.Min(5, *r.Rating))
}

// CandidateRestaurant is a restaurant eligible to serve a food request,
// annotated with rank-relevant metadata. Derived and ephemeral; recomputed
// on every ranking call.
type CandidateRestaurant struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	DistanceKm    *float64 `json:"distance_km,omitempty"`
	Rating        float64  `json:"rating"`
	FeedbackCount int      `json:"feedback_count"`
	// Deliverable reports whether the delivery-radius check ran and passed.
	// It is false when either coordinate was missing and the check was
	// skipped.
	Deliverable bool       `json:"deliverable"`
	Items       []MenuItem `json:"items"`
}
