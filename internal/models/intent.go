package models

import "strings"

// Action represents the kind of request a validated order intent carries
type Action string

const (
	ActionOrder   Action = "order"
	ActionCancel  Action = "cancel"
	ActionBill    Action = "bill"
	ActionRepeat  Action = "repeat"
	ActionUnknown Action = "unknown"
)

// ParseAction normalizes a free-form action string to one of the allowed
// values. Anything unrecognized or empty maps to ActionUnknown.
func ParseAction(raw string) Action {
	switch Action(strings.ToLower(strings.TrimSpace(raw))) {
	case ActionOrder:
		return ActionOrder
	case ActionCancel:
		return ActionCancel
	case ActionBill:
		return ActionBill
	case ActionRepeat:
		return ActionRepeat
	default:
		return ActionUnknown
	}
}

// OrderItemRef references a menu item inside an order intent. ItemID and
// Price are zero when the item could not be resolved against a real menu.
type OrderItemRef struct {
	ItemID   string  `json:"item_id,omitempty"`
	Name     string  `json:"name"`
	Price    float64 `json:"price,omitempty"`
	Quantity int     `json:"quantity"`
}

// OrderIntent is the terminal, validated artifact the engine produces: a
// schema-conformant description of what the customer wants. Items is never
// nil and Reply is never empty.
type OrderIntent struct {
	Action Action         `json:"action"`
	Items  []OrderItemRef `json:"items"`
	Table  string         `json:"table"`
	Reply  string         `json:"reply"`
}
