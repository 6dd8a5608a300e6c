package slots

import (
	"reflect"
	"testing"

	"maitred/internal/models"
)

func TestExtractVegPizzaScenario(t *testing.T) {
	got := Extract("I want two veg pizzas", models.ConversationSlots{})

	if got.Food == nil || *got.Food != "pizza" {
		t.Errorf("food = %v, want pizza", got.Food)
	}
	if got.Veg == nil || !*got.Veg {
		t.Errorf("veg = %v, want true", got.Veg)
	}
	if got.Quantity == nil || *got.Quantity != 2 {
		t.Errorf("quantity = %v, want 2", got.Quantity)
	}
}

func TestExtractCompoundAliases(t *testing.T) {
	tests := []struct {
		text string
		food string
		veg  *bool
	}{
		{"one butter chicken please", "chicken", boolPtr(false)},
		{"a margherita for me", "pizza", nil},
		{"masala dosa and filter coffee", "dosa", nil},
		{"non veg thali", "thali", boolPtr(false)},
	}
	for _, tt := range tests {
		got := Extract(tt.text, models.ConversationSlots{})
		if got.Food == nil || *got.Food != tt.food {
			t.Errorf("Extract(%q) food = %v, want %q", tt.text, got.Food, tt.food)
		}
		if !reflect.DeepEqual(got.Veg, tt.veg) {
			t.Errorf("Extract(%q) veg = %v, want %v", tt.text, got.Veg, tt.veg)
		}
	}
}

func TestExtractQuantity(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"3 samosas", 3},
		{"get me seven idlis", 7},
		{"12 rolls", 12},
	}
	for _, tt := range tests {
		got := Extract(tt.text, models.ConversationSlots{})
		if got.Quantity == nil || *got.Quantity != tt.want {
			t.Errorf("Extract(%q) quantity = %v, want %d", tt.text, got.Quantity, tt.want)
		}
	}

	if got := Extract("some pasta please", models.ConversationSlots{}); got.Quantity != nil {
		t.Errorf("quantity = %v, want unset", got.Quantity)
	}
}

func TestExtractMonotonic(t *testing.T) {
	food := "dosa"
	qty := 4
	prior := models.ConversationSlots{Food: &food, Quantity: &qty}

	got := Extract("two pizzas", prior)
	if *got.Food != "dosa" {
		t.Errorf("filled food slot was overwritten: %v", *got.Food)
	}
	if *got.Quantity != 4 {
		t.Errorf("filled quantity slot was overwritten: %v", *got.Quantity)
	}
}

func TestExtractIdempotent(t *testing.T) {
	once := Extract("two veg burgers", models.ConversationSlots{})
	twice := Extract("two veg burgers", once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Extract is not idempotent: %+v vs %+v", once, twice)
	}
}

func TestExtractNoMatchReturnsInputUnchanged(t *testing.T) {
	food := "pizza"
	in := models.ConversationSlots{Food: &food}
	out := Extract("hello there", in)
	if !reflect.DeepEqual(in, out) {
		t.Errorf("no-match input changed slots: %+v vs %+v", in, out)
	}
}

func TestExtractWithCorrections(t *testing.T) {
	qty := 2
	food := "pizza"
	veg := true
	prior := models.ConversationSlots{Food: &food, Veg: &veg, Quantity: &qty}

	got := ExtractWithCorrections("no, make it three", prior)
	if got.Quantity == nil || *got.Quantity != 3 {
		t.Fatalf("corrected quantity = %v, want 3", got.Quantity)
	}
	// Slots the correction does not talk about stay intact.
	if *got.Food != "pizza" || !*got.Veg {
		t.Errorf("unrelated slots were reset: %+v", got)
	}

	// Without a cue, the same utterance must not overwrite anything.
	plain := ExtractWithCorrections("three", prior)
	if *plain.Quantity != 2 {
		t.Errorf("quantity overwritten without a correction cue: %v", *plain.Quantity)
	}
}

func boolPtr(b bool) *bool { return &b }
