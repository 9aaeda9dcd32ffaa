/*
Package resource
File: recipe.go
Description:
    The combination (recipe) engine.

    The recipe table is the fixed production chain of the galaxy. Each entry
    maps an unordered pair of kinds to exactly one product. The table is
    immutable and total: any pair not listed simply has no product.

    This engine is pure. It never touches an inventory; the caller (the
    planet actor) is responsible for consuming the two input units and
    crediting the product atomically.
*/

package resource

// pair is an unordered pair of kinds, stored in canonical (low, high) order.
type pair struct {
	lo, hi Kind
}

func makePair(a, b Kind) pair {
	if b < a {
		a, b = b, a
	}
	return pair{lo: a, hi: b}
}

// recipes maps input pairs to their product. This is the whole economy:
// everything above the four base kinds flows through these six entries.
var recipes = map[pair]Kind{
	makePair(Hydrogen, Oxygen): Water,
	makePair(Carbon, Carbon):   Diamond,
	makePair(Water, Carbon):    Life,
	makePair(Silicon, Life):    Robot,
	makePair(Water, Life):      Dolphin,
	makePair(Robot, Diamond):   AIPartner,
}

// Combine resolves a combination of two resource units.
// It is symmetric in its arguments. The second return is false when the
// pair has no recipe; that is an ordinary outcome, not an error.
func Combine(a, b Kind) (Kind, bool) {
	product, ok := recipes[makePair(a, b)]
	return product, ok
}

// Ingredients is the inverse lookup: the input pair that produces the
// given kind. Base kinds have no ingredients.
func Ingredients(product Kind) (a, b Kind, ok bool) {
	for p, out := range recipes {
		if out == product {
			return p.lo, p.hi, true
		}
	}
	return 0, 0, false
}

// BaseRequirements expands a kind into the multiset of base kinds needed
// to produce it from scratch, following the recipe chain recursively.
// A base kind requires one unit of itself. Used by route planners to know
// what must be gathered before a combination chain can start.
func BaseRequirements(k Kind) map[Kind]int {
	needs := make(map[Kind]int)
	addRequirements(k, 1, needs)
	return needs
}

func addRequirements(k Kind, count int, needs map[Kind]int) {
	if k.IsBase() {
		needs[k] += count
		return
	}
	a, b, ok := Ingredients(k)
	if !ok {
		return
	}
	addRequirements(a, count, needs)
	addRequirements(b, count, needs)
}

// BuildStep is one combination in an assembly sequence.
type BuildStep struct {
	A, B    Kind
	Product Kind
}

// BuildOrder returns the sequence of combinations that assembles the given
// complex kind, dependencies first. Returns nil for base kinds.
func BuildOrder(k Kind) []BuildStep {
	if k.IsBase() {
		return nil
	}
	a, b, ok := Ingredients(k)
	if !ok {
		return nil
	}
	var steps []BuildStep
	steps = append(steps, BuildOrder(a)...)
	steps = append(steps, BuildOrder(b)...)
	return append(steps, BuildStep{A: a, B: b, Product: k})
}
