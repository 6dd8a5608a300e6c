package repair

import (
	"encoding/json"
	"strconv"
	"strings"

	"maitred/internal/models"
)

// FallbackReply is substituted when a payload carries no usable reply text.
const FallbackReply = "Got it. Anything else I can help you with?"

// Repair coerces a raw, possibly malformed structured-order payload into a
// schema-valid OrderIntent. It is a total function: whatever the input —
// empty object, null items, unknown action strings, wrong field types — the
// result always satisfies the intent invariants and no error is ever
// returned. Item names are resolved against the supplied menu by fuzzy
// matching; unresolvable names pass through with a default quantity of 1.
func Repair(raw []byte, menu []models.MenuItem) models.OrderIntent {
	intent := models.OrderIntent{
		Action: models.ActionUnknown,
		Items:  []models.OrderItemRef{},
		Reply:  FallbackReply,
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return intent
	}

	if action, ok := payload["action"].(string); ok {
		intent.Action = models.ParseAction(action)
	}

	if rawItems, ok := payload["items"].([]any); ok {
		for _, ri := range rawItems {
			item, ok := ri.(map[string]any)
			if !ok {
				continue
			}
			name, _ := item["name"].(string)
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			qty := 1
			if q, ok := item["quantity"].(float64); ok && q >= 1 {
				qty = int(q)
			}
			intent.Items = append(intent.Items, resolveItem(name, qty, menu))
		}
	}

	switch table := payload["table"].(type) {
	case string:
		intent.Table = table
	case float64:
		intent.Table = strconv.FormatFloat(table, 'f', -1, 64)
	}

	if reply, ok := payload["reply"].(string); ok && strings.TrimSpace(reply) != "" {
		intent.Reply = reply
	}

	return intent
}

// resolveItem maps a free-text item name onto a real menu entry: exact
// case-insensitive match, then substring in either direction, then first
// shared word. A name matching nothing passes through unresolved.
func resolveItem(name string, qty int, menu []models.MenuItem) models.OrderItemRef {
	lower := strings.ToLower(name)

	for i := range menu {
		if strings.ToLower(menu[i].Name) == lower {
			return refFor(&menu[i], qty)
		}
	}

	for i := range menu {
		menuLower := strings.ToLower(menu[i].Name)
		if strings.Contains(menuLower, lower) || strings.Contains(lower, menuLower) {
			return refFor(&menu[i], qty)
		}
	}

	words := strings.Fields(lower)
	for i := range menu {
		menuWords := strings.Fields(strings.ToLower(menu[i].Name))
		for _, w := range words {
			for _, mw := range menuWords {
				if w == mw {
					return refFor(&menu[i], qty)
				}
			}
		}
	}

	return models.OrderItemRef{Name: name, Quantity: qty}
}

func refFor(item *models.MenuItem, qty int) models.OrderItemRef {
	return models.OrderItemRef{
		ItemID:   item.ID,
		Name:     item.Name,
		Price:    item.Price,
		Quantity: qty,
	}
}
