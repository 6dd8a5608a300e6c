package slots

import (
	"strconv"
	"strings"
	"unicode"

	"maitred/internal/models"
)

// Extract scans one utterance and fills any empty slots it can. Filled slots
// are never touched: extraction is monotonic and idempotent, so running it
// twice on the same utterance yields the same result as once. The location
// slot is supplied by the caller, never extracted from text.
func Extract(text string, s models.ConversationSlots) models.ConversationSlots {
	lower := strings.ToLower(text)

	if s.Food == nil {
		if food, ok := matchFood(lower); ok {
			s.Food = &food
		}
	}

	if s.Veg == nil {
		if veg, ok := matchDietary(lower); ok {
			s.Veg = &veg
		}
	}

	if s.Quantity == nil {
		if qty, ok := matchQuantity(lower); ok {
			s.Quantity = &qty
		}
	}

	return s
}

// ExtractWithCorrections behaves like Extract, but first honors an explicit
// edit intent: when the utterance carries a correction cue ("no, make it
// three"), the slot classes the utterance talks about are reset so the new
// values can land. Without a cue, filled slots stay untouched.
func ExtractWithCorrections(text string, s models.ConversationSlots) models.ConversationSlots {
	lower := strings.ToLower(text)

	if hasCorrectionCue(lower) {
		if _, ok := matchFood(lower); ok {
			s.Food = nil
		}
		if _, ok := matchDietary(lower); ok {
			s.Veg = nil
		}
		if _, ok := matchQuantity(lower); ok {
			s.Quantity = nil
		}
	}

	return Extract(text, s)
}

func matchFood(lower string) (string, bool) {
	for _, alias := range foodAliases {
		if strings.Contains(lower, alias.phrase) {
			return alias.canonical, true
		}
	}
	return "", false
}

func matchDietary(lower string) (bool, bool) {
	for _, kw := range nonVegKeywords {
		if strings.Contains(lower, kw) {
			return false, true
		}
	}
	for _, kw := range vegKeywords {
		if strings.Contains(lower, kw) {
			return true, true
		}
	}
	return false, false
}

func matchQuantity(lower string) (int, bool) {
	for _, tok := range tokens(lower) {
		if n, err := strconv.Atoi(tok); err == nil && n > 0 {
			return n, true
		}
	}
	for _, tok := range tokens(lower) {
		if n, ok := numberWords[tok]; ok {
			return n, true
		}
	}
	return 0, false
}

func hasCorrectionCue(lower string) bool {
	for _, cue := range correctionCues {
		if strings.Contains(lower, cue) {
			return true
		}
	}
	return false
}

func tokens(lower string) []string {
	return strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
