package models

// ConversationSlots holds the pieces of order information collected across
// conversation turns. A nil pointer means the slot has not been filled yet;
// the Veg slot is tri-state (nil = unspecified).
type ConversationSlots struct {
	Food     *string     `json:"food,omitempty"`
	Veg      *bool       `json:"veg,omitempty"`
	Quantity *int        `json:"quantity,omitempty"`
	Location *Coordinate `json:"location,omitempty"`
}

// Saturated reports whether all four slots are filled
func (s ConversationSlots) Saturated() bool {
	return s.Food != nil && s.Veg != nil && s.Quantity != nil && s.Location != nil
}
