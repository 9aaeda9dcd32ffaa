/*
Package explorer
File: strategy.go
Description:
    The pluggable decision policies. A strategy only decides: where to move
    next, which kinds are worth picking up, and how to react to outcomes.
    The actor (actor.go) owns the mechanics of travelling, harvesting and
    combining; strategies never touch channels.

    The four policies:
    - greedy: wander to a random neighbour, take everything.
    - greedy_with_purpose: wander, but prefer neighbours known to generate
      a base kind still missing for the target.
    - best_path: BFS-planned routes that gather the target's base
      requirements, then head for a combination planet.
    - best_path_adaptive: best_path, re-checked for feasibility after every
      step; on a dead end it downgrades to the next fallback target.
*/

package explorer

import (
	"math/rand"

	"github.com/everforgeworks/galaxies-frontier/internal/game"
	"github.com/everforgeworks/galaxies-frontier/internal/resource"
)

// Context is the decision input handed to a strategy. Everything in it is
// owned by the calling explorer; strategies may read freely.
type Context struct {
	Position  int
	Neighbors []int // live adjacency of the current planet (ground truth)
	Bag       map[resource.Kind]int
	Atlas     *Atlas
	Rand      *rand.Rand
}

// Move is a strategy's travel decision. A rocket move may name any known
// planet; an ordinary move must name a current neighbour.
type Move struct {
	Dest      int
	ViaRocket bool
}

// Strategy is the single decision interface behind which the four policy
// variants live. Selected by configuration, not subclassing.
type Strategy interface {
	Name() string
	Target() resource.Kind // 0 when the policy has no target
	// NextMove picks the next travel step; ok=false stays put this tick.
	NextMove(ctx *Context) (Move, bool)
	// WantKind reports whether a harvestable kind is worth taking.
	WantKind(ctx *Context, k resource.Kind) bool
	// React lets the policy respond to the outcome of the actor's last
	// planet interaction.
	React(ctx *Context, o game.Outcome)
}

// NewStrategy builds a policy by its config name.
func NewStrategy(name string, target resource.Kind, fallbacks []resource.Kind) Strategy {
	switch name {
	case "greedy_with_purpose":
		return &greedyWithPurpose{target: target}
	case "best_path":
		return newBestPath(target)
	case "best_path_adaptive":
		return &adaptive{bestPath: newBestPath(target), fallbacks: fallbacks}
	default:
		return &greedy{}
	}
}

// --- greedy ---

type greedy struct{}

func (*greedy) Name() string          { return "greedy" }
func (*greedy) Target() resource.Kind { return 0 }

func (*greedy) NextMove(ctx *Context) (Move, bool) {
	if len(ctx.Neighbors) == 0 {
		return Move{}, false
	}
	dest := ctx.Neighbors[ctx.Rand.Intn(len(ctx.Neighbors))]
	return Move{Dest: dest}, true
}

// A greedy explorer takes whatever is lying around.
func (*greedy) WantKind(*Context, resource.Kind) bool { return true }

func (*greedy) React(*Context, game.Outcome) {}

// --- greedy with purpose ---

type greedyWithPurpose struct {
	target resource.Kind
}

func (*greedyWithPurpose) Name() string            { return "greedy_with_purpose" }
func (g *greedyWithPurpose) Target() resource.Kind { return g.target }

func (g *greedyWithPurpose) NextMove(ctx *Context) (Move, bool) {
	if len(ctx.Neighbors) == 0 {
		return Move{}, false
	}
	// Prefer neighbours known to generate a base kind we still need.
	missing := missingBase(g.target, ctx.Bag)
	var preferred []int
	for _, n := range ctx.Neighbors {
		in := ctx.Atlas.Get(n)
		if in != nil && in.HasEconomy && in.Alive && missing[in.Generates] > 0 {
			preferred = append(preferred, n)
		}
	}
	pool := ctx.Neighbors
	if len(preferred) > 0 {
		pool = preferred
	}
	return Move{Dest: pool[ctx.Rand.Intn(len(pool))]}, true
}

func (g *greedyWithPurpose) WantKind(ctx *Context, k resource.Kind) bool {
	if k == g.target || k.IsComplex() {
		return true
	}
	return missingBase(g.target, ctx.Bag)[k] > 0
}

func (*greedyWithPurpose) React(*Context, game.Outcome) {}

// --- best path ---

type bestPath struct {
	target resource.Kind
	plan   []int // remaining route, front = next hop

	// rocket jump decided by the last planning pass, to a known planet
	// no longer reachable by edges
	rocketTo  int
	hasRocket bool

	// set true when the last planning pass proved the target unreachable
	// from the current position (missing provider or cut topology)
	infeasible bool
}

func newBestPath(target resource.Kind) *bestPath {
	return &bestPath{target: target}
}

func (*bestPath) Name() string            { return "best_path" }
func (b *bestPath) Target() resource.Kind { return b.target }

func (b *bestPath) NextMove(ctx *Context) (Move, bool) {
	if b.hasRocket {
		dest := b.rocketTo
		b.hasRocket = false
		return Move{Dest: dest, ViaRocket: true}, true
	}
	if len(b.plan) == 0 || !b.planStillValid(ctx) {
		if !b.replan(ctx) {
			return Move{}, false
		}
		if b.hasRocket {
			dest := b.rocketTo
			b.hasRocket = false
			return Move{Dest: dest, ViaRocket: true}, true
		}
	}
	if len(b.plan) == 0 {
		// already where the plan wants us
		return Move{}, false
	}
	next := b.plan[0]
	b.plan = b.plan[1:]
	return Move{Dest: next}, true
}

// planStillValid drops the plan when its next hop is no longer adjacent or
// no longer alive (a planet died under our feet).
func (b *bestPath) planStillValid(ctx *Context) bool {
	next := b.plan[0]
	if in := ctx.Atlas.Get(next); in != nil && !in.Alive {
		return false
	}
	for _, n := range ctx.Neighbors {
		if n == next {
			return true
		}
	}
	return false
}

// replan rebuilds the route. Order of business: gather any still-missing
// base kind, else get to a combination planet, else push the frontier.
// Returns false when no useful move exists right now.
func (b *bestPath) replan(ctx *Context) bool {
	b.plan = nil
	b.hasRocket = false
	b.infeasible = false

	if b.target != 0 {
		missing := missingBase(b.target, ctx.Bag)
		for _, kind := range resource.BaseKinds() {
			if missing[kind] == 0 {
				continue
			}
			if path := ctx.Atlas.PathToProvider(ctx.Position, kind); path != nil {
				b.plan = path
				return len(b.plan) > 0
			}
			// No reachable provider. If the map still has frontiers the
			// kind may yet be found; failing that, a rocket can cross a
			// cut to a provider we know but can no longer walk to.
			if path := ctx.Atlas.PathToFrontier(ctx.Position); path != nil {
				b.plan = path
				return len(b.plan) > 0
			}
			if b.aimRocket(ctx, ctx.Atlas.Providers(kind)) {
				return true
			}
			b.infeasible = true
			return false
		}

		// Everything gathered: head for a combination planet.
		if path := ctx.Atlas.PathToCombiner(ctx.Position); path != nil {
			b.plan = path
			return len(b.plan) > 0
		}
		if path := ctx.Atlas.PathToFrontier(ctx.Position); path != nil {
			b.plan = path
			return len(b.plan) > 0
		}
		if b.aimRocket(ctx, ctx.Atlas.Combiners()) {
			return true
		}
		b.infeasible = true
		return false
	}

	if path := ctx.Atlas.PathToFrontier(ctx.Position); path != nil {
		b.plan = path
		return len(b.plan) > 0
	}
	return false
}

// aimRocket points a rocket jump at the first candidate, provided the
// current planet can build rockets and the candidate is truly off the
// walkable map (otherwise BFS would have found it).
func (b *bestPath) aimRocket(ctx *Context, candidates []int) bool {
	if len(candidates) == 0 {
		return false
	}
	here := ctx.Atlas.Get(ctx.Position)
	if here == nil || !here.HasEconomy || !here.CanRocket {
		return false
	}
	for _, c := range candidates {
		if c != ctx.Position {
			b.rocketTo = c
			b.hasRocket = true
			return true
		}
	}
	return false
}

func (b *bestPath) WantKind(ctx *Context, k resource.Kind) bool {
	if k == b.target || k.IsComplex() {
		return true
	}
	return missingBase(b.target, ctx.Bag)[k] > 0
}

func (b *bestPath) React(_ *Context, o game.Outcome) {
	// A planet refusing or vanishing invalidates the route assumptions.
	if o == game.PlanetUnavailable || o == game.Disconnected {
		b.plan = nil
	}
}

// --- best path, adaptive ---

type adaptive struct {
	*bestPath
	fallbacks []resource.Kind
	// consecutive capability refusals; a stuck combination chain also
	// forces a downgrade
	refusals int
}

func (*adaptive) Name() string { return "best_path_adaptive" }

func (a *adaptive) NextMove(ctx *Context) (Move, bool) {
	move, ok := a.bestPath.NextMove(ctx)
	if ok {
		return move, true
	}
	if !a.bestPath.infeasible {
		return Move{}, false
	}
	// The current target cannot be completed from here. Fall back, once
	// per re-planning cycle, and try again immediately.
	if !a.downgrade() {
		return Move{}, false
	}
	return a.bestPath.NextMove(ctx)
}

func (a *adaptive) React(ctx *Context, o game.Outcome) {
	a.bestPath.React(ctx, o)
	switch o {
	case game.Disconnected:
		a.downgrade()
	case game.CapabilityExceeded:
		a.refusals++
		if a.refusals >= 3 {
			a.refusals = 0
			a.downgrade()
		}
	case game.OK:
		a.refusals = 0
	}
}

// downgrade moves to the next fallback target. False when none is left.
func (a *adaptive) downgrade() bool {
	if len(a.fallbacks) == 0 {
		return false
	}
	next := a.fallbacks[0]
	a.fallbacks = a.fallbacks[1:]
	a.bestPath.target = next
	a.bestPath.plan = nil
	a.bestPath.infeasible = false
	return true
}

// --- shared helpers ---

// missingBase computes which base kinds the bag still lacks to assemble
// the target, crediting intermediates already in the bag (a carried Water
// cancels one Hydrogen and one Oxygen of the requirement).
func missingBase(target resource.Kind, bag map[resource.Kind]int) map[resource.Kind]int {
	if target == 0 {
		return map[resource.Kind]int{}
	}
	if bag[target] > 0 {
		return map[resource.Kind]int{}
	}
	needs := resource.BaseRequirements(target)
	for kind, count := range bag {
		if count == 0 || kind == target {
			continue
		}
		if kind.IsComplex() && contributes(kind, target) {
			for base, c := range resource.BaseRequirements(kind) {
				needs[base] -= c * count
			}
			continue
		}
		if kind.IsBase() {
			needs[kind] -= count
		}
	}
	for kind, count := range needs {
		if count <= 0 {
			delete(needs, kind)
		}
	}
	return needs
}

// contributes reports whether kind appears anywhere in target's recipe
// expansion.
func contributes(kind, target resource.Kind) bool {
	if kind == target {
		return true
	}
	a, b, ok := resource.Ingredients(target)
	if !ok {
		return false
	}
	return contributes(kind, a) || contributes(kind, b)
}
