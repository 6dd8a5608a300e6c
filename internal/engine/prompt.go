package engine

import (
	"fmt"
	"strings"

	"maitred/internal/models"
	"maitred/internal/session"
)

// BuildContext assembles the system prompt for the model call: who the
// assistant is, what slots the conversation has collected so far, and which
// restaurants can serve the request. When an order can be finalized the
// model is told to embed a strict JSON payload the repairer can parse.
func BuildContext(snap session.Session, candidates []models.CandidateRestaurant) string {
	var b strings.Builder

	b.WriteString("You are a food-ordering assistant. Be brief and friendly.\n\n")

	b.WriteString("Collected order details so far:\n")
	writeSlot(&b, "food", snap.Slots.Food != nil, func() string { return *snap.Slots.Food })
	writeSlot(&b, "dietary", snap.Slots.Veg != nil, func() string {
		if *snap.Slots.Veg {
			return "vegetarian"
		}
		return "non-vegetarian"
	})
	writeSlot(&b, "quantity", snap.Slots.Quantity != nil, func() string {
		return fmt.Sprintf("%d", *snap.Slots.Quantity)
	})
	writeSlot(&b, "location", snap.Slots.Location != nil, func() string { return "provided" })
	b.WriteString("\nAsk for missing details one at a time. Do not re-ask for details already collected.\n")

	if snap.Slots.Saturated() && len(candidates) == 0 {
		b.WriteString("\nNo restaurant nearby can serve this order right now. Tell the customer so and suggest trying a different dish.\n")
	}

	if len(candidates) > 0 {
		b.WriteString("\nRestaurants that can serve this order, best first:\n")
		for i, c := range candidates {
			b.WriteString(fmt.Sprintf("%d. %s (rating %.1f", i+1, c.Name, c.Rating))
			if c.DistanceKm != nil {
				b.WriteString(fmt.Sprintf(", %.1f km away", *c.DistanceKm))
			}
			b.WriteString(")\n")
			for _, item := range c.Items {
				b.WriteString(fmt.Sprintf("   - %s: %.0f\n", item.Name, item.Price))
			}
		}

		b.WriteString("\nWhen the customer confirms the order, respond with a short confirmation")
		b.WriteString(" followed by exactly one fenced JSON block in this schema and nothing else inside it:\n")
		b.WriteString("```json\n")
		b.WriteString(`{"action": "order | cancel | bill | repeat", "items": [{"name": "string", "quantity": 1}], "table": "string", "reply": "string"}`)
		b.WriteString("\n```\n")
		b.WriteString("Item names must come from the menus above. No explanations inside the block.\n")
	}

	return b.String()
}

func writeSlot(b *strings.Builder, name string, filled bool, value func() string) {
	if filled {
		b.WriteString(fmt.Sprintf("- %s: %s\n", name, value()))
	} else {
		b.WriteString(fmt.Sprintf("- %s: not provided yet\n", name))
	}
}
