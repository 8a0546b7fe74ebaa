package cookbook

import "math"

// Entry type discriminators on the wire
const (
	TypeRecipe     = "recipe"
	TypeIngredient = "ingredient"
)

// ParseEntry converts an untyped record (as decoded from JSON) into a
// typed Entry, or returns a classified error describing the first
// violation found. The parse is pure: it never consults or mutates the
// registry, and admission is the caller's separate step.
//
// Presence and type are checked separately from range so that
// legitimate zero values (a cookTime of 0) are accepted.
func ParseEntry(raw map[string]interface{}) (Entry, error) {
	nameVal, ok := raw["name"]
	if !ok {
		return nil, NewError(InvalidName, "entry name is required")
	}
	name, ok := nameVal.(string)
	if !ok {
		return nil, NewError(InvalidName, "entry name must be a string")
	}
	if name == "" {
		return nil, NewError(InvalidName, "entry name must not be empty")
	}

	typeVal, ok := raw["type"]
	if !ok {
		return nil, NewError(InvalidType, "entry type is required")
	}
	entryType, ok := typeVal.(string)
	if !ok {
		return nil, NewError(InvalidType, "entry type must be a string")
	}

	switch entryType {
	case TypeIngredient:
		return parseIngredient(name, raw)
	case TypeRecipe:
		return parseRecipe(name, raw)
	default:
		return nil, NewError(InvalidType, "entry type must be %q or %q, got %q",
			TypeRecipe, TypeIngredient, entryType)
	}
}

// parseIngredient validates the ingredient-specific fields
func parseIngredient(name string, raw map[string]interface{}) (Entry, error) {
	cookTimeVal, ok := raw["cookTime"]
	if !ok {
		return nil, NewError(InvalidIngredient, "ingredient %q is missing cookTime", name)
	}
	cookTime, ok := asInt(cookTimeVal)
	if !ok {
		return nil, NewError(InvalidIngredient, "ingredient %q cookTime must be an integer", name)
	}
	if cookTime < 0 {
		return nil, NewError(InvalidIngredient, "ingredient %q cookTime must not be negative", name)
	}

	return &Ingredient{Name: name, CookTime: cookTime}, nil
}

// parseRecipe validates the recipe-specific fields
func parseRecipe(name string, raw map[string]interface{}) (Entry, error) {
	itemsVal, ok := raw["requiredItems"]
	if !ok {
		return nil, NewError(InvalidRecipe, "recipe %q is missing requiredItems", name)
	}
	items, ok := itemsVal.([]interface{})
	if !ok {
		return nil, NewError(InvalidRecipe, "recipe %q requiredItems must be a list", name)
	}

	required := make([]RequiredItem, 0, len(items))
	seen := make(map[string]bool, len(items))

	for _, itemVal := range items {
		item, ok := itemVal.(map[string]interface{})
		if !ok {
			return nil, NewError(InvalidRecipe, "recipe %q requiredItems must contain objects", name)
		}

		itemName, ok := item["name"].(string)
		if !ok || itemName == "" {
			return nil, NewError(InvalidRecipe, "recipe %q required item name must be a non-empty string", name)
		}
		if seen[itemName] {
			// One row per item; repeats must use a larger quantity instead
			return nil, NewError(InvalidRecipe, "recipe %q lists required item %q more than once", name, itemName)
		}

		quantityVal, ok := item["quantity"]
		if !ok {
			return nil, NewError(InvalidRecipe, "recipe %q required item %q is missing quantity", name, itemName)
		}
		quantity, ok := asInt(quantityVal)
		if !ok {
			return nil, NewError(InvalidRecipe, "recipe %q required item %q quantity must be an integer", name, itemName)
		}
		if quantity <= 0 {
			return nil, NewError(InvalidRecipe, "recipe %q required item %q quantity must be positive", name, itemName)
		}

		seen[itemName] = true
		required = append(required, RequiredItem{Name: itemName, Quantity: quantity})
	}

	return &Recipe{Name: name, RequiredItems: required}, nil
}

// asInt reports whether a decoded JSON value is an integral number.
// encoding/json decodes all numbers as float64, so integer-ness has to
// be checked against the fractional part.
func asInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) || n < math.MinInt32 || n > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	case int:
		return n, true
	default:
		return 0, false
	}
}
