package payment

import "strings"

const DefaultDescription = "AI Agent Payment"

var descriptionKeywords = []struct {
	description string
	words       []string
}{
	{"Lunch Payment", []string{"lunch", "food", "meal", "eat"}},
	{"Transport Payment", []string{"transport", "fare", "bus", "matatu", "uber", "taxi"}},
	{"Rent Payment", []string{"rent", "house", "accommodation"}},
	{"Shopping Payment", []string{"shopping", "groceries", "shop", "buy"}},
	{"Bill Payment", []string{"bill", "electricity", "water", "utility"}},
	{"Loan Payment", []string{"loan", "debt", "borrow", "owe"}},
	{"Gift Payment", []string{"gift", "present", "birthday", "celebration"}},
	{"Emergency Payment", []string{"emergency", "urgent", "help"}},
	{"Business Payment", []string{"business", "service", "work"}},
}

// InferDescription picks a payment description from conversation text. The
// first matching category wins.
func InferDescription(conversation string) string {
	text := strings.ToLower(conversation)
	if text == "" {
		return DefaultDescription
	}
	for _, entry := range descriptionKeywords {
		for _, w := range entry.words {
			if strings.Contains(text, w) {
				return entry.description
			}
		}
	}
	return DefaultDescription
}
