package cache

import "strings"

// ingredientDelimiter flattens an ingredient list into a single string for
// storage; the list is parsed back on read.
const ingredientDelimiter = ","

func encodeIngredients(ingredients []string) string {
	return strings.Join(ingredients, ingredientDelimiter)
}

func decodeIngredients(encoded string) []string {
	if encoded == "" {
		return []string{}
	}
	parts := strings.Split(encoded, ingredientDelimiter)
	ingredients := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			ingredients = append(ingredients, trimmed)
		}
	}
	return ingredients
}

// normalizeKey lowercases a product name for use as a storage key.
func normalizeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
