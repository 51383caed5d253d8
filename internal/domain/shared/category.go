package shared

import "strings"

// Category is the closed set of petty cash spending categories
type Category string

const (
	CategoryUncategorized  Category = "uncategorized"
	CategoryFunding        Category = "funding"
	CategoryTransport      Category = "transport"
	CategoryMeals          Category = "meals"
	CategoryOfficeSupplies Category = "office_supplies"
	CategoryUtilities      Category = "utilities"
	CategoryRepairs        Category = "repairs"
	CategoryCommunication  Category = "communication"
	CategoryFuel           Category = "fuel"
	CategoryTravel         Category = "travel"
)

var knownCategories = []Category{
	CategoryUncategorized,
	CategoryFunding,
	CategoryTransport,
	CategoryMeals,
	CategoryOfficeSupplies,
	CategoryUtilities,
	CategoryRepairs,
	CategoryCommunication,
	CategoryFuel,
	CategoryTravel,
}

// Categories returns every known category, uncategorized first
func Categories() []Category {
	out := make([]Category, len(knownCategories))
	copy(out, knownCategories)
	return out
}

// Valid reports whether c is a known category
func (c Category) Valid() bool {
	for _, k := range knownCategories {
		if c == k {
			return true
		}
	}
	return false
}

// Label returns a human readable name, e.g. "Office Supplies"
func (c Category) Label() string {
	words := strings.Split(string(c), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// ParseCategory maps free text ("Office Supplies", "office-supplies", "MEALS")
// onto a known category. It returns ErrInvalidCategory for anything else.
func ParseCategory(s string) (Category, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)
	c := Category(normalized)
	if !c.Valid() {
		return "", ErrInvalidCategory
	}
	return c, nil
}

// CategoryOrUncategorized is ParseCategory with the explicit fallback variant
func CategoryOrUncategorized(s string) Category {
	c, err := ParseCategory(s)
	if err != nil {
		return CategoryUncategorized
	}
	return c
}
