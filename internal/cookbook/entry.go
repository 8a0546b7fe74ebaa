// Package cookbook implements the entry registry, admission validation,
// and recursive recipe resolution at the heart of the service.
package cookbook

// Entry is a named cookbook record: either an Ingredient or a Recipe
type Entry interface {
	// EntryName returns the unique registry key for this entry
	EntryName() string
}

// Ingredient is a terminal entry with a fixed preparation time in minutes
type Ingredient struct {
	Name     string
	CookTime int
}

// EntryName returns the ingredient's registry key
func (i *Ingredient) EntryName() string {
	return i.Name
}

// RequiredItem references another entry by name with a multiplier.
// The reference is resolved by lookup at query time, so a recipe may
// legally name entries that have not been admitted yet.
type RequiredItem struct {
	Name     string
	Quantity int
}

// Recipe is a composite entry listing the sub-items it requires.
// Item names are pairwise distinct within one recipe; a repeated item
// must be expressed as one row with a larger quantity.
type Recipe struct {
	Name          string
	RequiredItems []RequiredItem
}

// EntryName returns the recipe's registry key
func (r *Recipe) EntryName() string {
	return r.Name
}
