package cookbook

// ResolutionResult is the flattened summary of one recipe query:
// the total preparation time and the aggregated quantity of every
// terminal ingredient the recipe ultimately requires. Produced per
// query and never persisted.
type ResolutionResult struct {
	TotalCookTime int
	Ingredients   map[string]int
}

// Resolver expands recipe reference graphs against a registry.
// Resolution is a pure read-only traversal; concurrent resolutions
// are safe.
type Resolver struct {
	registry *Registry
}

// NewResolver creates a resolver reading from the given registry
func NewResolver(registry *Registry) *Resolver {
	return &Resolver{registry: registry}
}

// Resolve expands the named recipe into a ResolutionResult.
// Fails with NotFound if the name (or any nested reference) is absent,
// NotARecipe if the root names an ingredient, and CyclicReference if a
// recipe reaches itself through its own reference graph.
func (r *Resolver) Resolve(name string) (*ResolutionResult, error) {
	entry, ok := r.registry.Lookup(name)
	if !ok {
		return nil, NewError(NotFound, "recipe %q not found in cookbook", name)
	}
	if _, ok := entry.(*Recipe); !ok {
		return nil, NewError(NotARecipe, "entry %q is not a recipe", name)
	}

	result := &ResolutionResult{
		Ingredients: make(map[string]int),
	}

	active := make(map[string]bool)
	if err := r.expand(name, 1, active, result); err != nil {
		return nil, err
	}

	return result, nil
}

// expand accumulates one entry's contribution, scaled by multiplier,
// into result. active holds the recipe names on the current expansion
// path; a name reappearing there means the reference graph has a cycle.
func (r *Resolver) expand(name string, multiplier int, active map[string]bool, result *ResolutionResult) error {
	if active[name] {
		return NewError(CyclicReference, "recipe %q references itself through its required items", name)
	}

	entry, ok := r.registry.Lookup(name)
	if !ok {
		return NewError(NotFound, "required item %q not found in cookbook", name)
	}

	switch e := entry.(type) {
	case *Ingredient:
		result.TotalCookTime += e.CookTime * multiplier
		result.Ingredients[e.Name] += multiplier
		return nil

	case *Recipe:
		active[name] = true
		for _, item := range e.RequiredItems {
			if err := r.expand(item.Name, multiplier*item.Quantity, active, result); err != nil {
				return err
			}
		}
		// Off the path again; a sibling branch may legally share this recipe
		delete(active, name)
		return nil

	default:
		return NewError(NotARecipe, "entry %q has an unknown kind", name)
	}
}
