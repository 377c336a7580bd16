package sms

import "strings"

// Transaction categories. The set is closed; anything the rules below do not
// match falls into CategoryOther.
const (
	CategoryFood           = "Food"
	CategoryTransportation = "Transportation"
	CategoryHousing        = "Housing"
	CategoryEntertainment  = "Entertainment"
	CategoryUtilities      = "Utilities"
	CategoryRefund         = "Refund"
	CategoryOther          = "Other"
)

type categoryRule struct {
	Category string
	Keywords []string
}

// categoryRules is evaluated top to bottom and the first matching group wins,
// so new groups go at the end. Reordering changes the outcome for
// descriptions that match more than one group.
var categoryRules = []categoryRule{
	{CategoryFood, []string{"food", "restaurant", "swiggy", "zomato", "cafe", "grocery", "dining"}},
	{CategoryTransportation, []string{"uber", "ola", "fuel", "petrol", "metro", "irctc", "transport"}},
	{CategoryHousing, []string{"rent", "maintenance", "housing"}},
	{CategoryEntertainment, []string{"netflix", "spotify", "movie", "bookmyshow", "game", "entertainment"}},
	{CategoryUtilities, []string{"electricity", "water bill", "recharge", "broadband", "bill", "utility"}},
	{CategoryRefund, []string{"refund", "reversal", "cashback"}},
}

// Classify maps a free-text description onto one of the fixed categories by
// case-insensitive substring match. It is a best-effort heuristic: identical
// input always yields the identical category, but the category itself is only
// as good as the keyword table.
func Classify(description string) string {
	desc := strings.ToLower(description)
	for _, rule := range categoryRules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(desc, keyword) {
				return rule.Category
			}
		}
	}
	return CategoryOther
}

// Categories returns the full taxonomy, catch-all included.
func Categories() []string {
	out := make([]string, 0, len(categoryRules)+1)
	for _, rule := range categoryRules {
		out = append(out, rule.Category)
	}
	return append(out, CategoryOther)
}

// ValidCategory reports whether c is a member of the taxonomy.
func ValidCategory(c string) bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}
