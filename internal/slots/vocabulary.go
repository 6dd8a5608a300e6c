package slots

// The extraction vocabulary is data-driven so it can grow without touching
// control flow: each table maps surface phrases to a canonical slot value.

type foodAlias struct {
	phrase    string
	canonical string
}

// foodAliases is scanned in order and the first hit wins, so compound dish
// names must come before the plain keywords they contain.
var foodAliases = []foodAlias{
	{"butter chicken", "chicken"},
	{"chicken tikka", "chicken"},
	{"tandoori chicken", "chicken"},
	{"margherita", "pizza"},
	{"farmhouse", "pizza"},
	{"pepperoni", "pizza"},
	{"masala dosa", "dosa"},
	{"chow mein", "noodles"},
	{"hakka noodles", "noodles"},
	{"fried rice", "rice"},
	{"paneer tikka", "paneer"},
	{"veg biryani", "biryani"},
	{"pizza", "pizza"},
	{"burger", "burger"},
	{"biryani", "biryani"},
	{"dosa", "dosa"},
	{"idli", "idli"},
	{"samosa", "samosa"},
	{"paneer", "paneer"},
	{"noodles", "noodles"},
	{"pasta", "pasta"},
	{"sandwich", "sandwich"},
	{"momos", "momos"},
	{"roll", "roll"},
	{"wrap", "roll"},
	{"thali", "thali"},
	{"salad", "salad"},
	{"soup", "soup"},
	{"chicken", "chicken"},
	{"fries", "fries"},
	{"cake", "cake"},
	{"ice cream", "ice cream"},
	{"rice", "rice"},
}

// nonVegKeywords force the dietary flag to non-vegetarian when present.
var nonVegKeywords = []string{
	"non-veg",
	"non veg",
	"nonveg",
	"meat",
	"chicken",
	"mutton",
	"fish",
	"prawn",
	"egg",
	"keema",
	"kebab",
}

// vegKeywords set the dietary flag to vegetarian, provided no non-veg
// keyword matched first.
var vegKeywords = []string{
	"vegetarian",
	"veggie",
	"veg",
}

// numberWords maps the closed set of English number words the extractor
// understands to quantities.
var numberWords = map[string]int{
	"one":   1,
	"two":   2,
	"three": 3,
	"four":  4,
	"five":  5,
	"six":   6,
	"seven": 7,
	"eight": 8,
	"nine":  9,
	"ten":   10,
}

// correctionCues signal an explicit edit intent; ordinary extraction never
// overwrites a filled slot, only a correction does.
var correctionCues = []string{
	"actually",
	"make it",
	"make that",
	"change",
	"instead",
	"not that",
	"no,",
}
