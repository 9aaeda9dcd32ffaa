/*
Package explorer
File: atlas.go
Description:
    The explorer's private map of the galaxy, built incrementally from
    what it has seen. Nothing in here is shared with other actors; two
    explorers may hold wildly different pictures of the same galaxy.

    Intel per planet: its neighbours (learned on arrival), the base kind
    it generates, whether it can serve combinations, and whether it was
    alive last time the explorer looked. Route planning is BFS over this
    partial knowledge: to the nearest unexplored frontier, to the nearest
    known provider of a kind, or to the nearest known combination planet.
*/

package explorer

import (
	"sort"

	"github.com/everforgeworks/galaxies-frontier/internal/resource"
)

// Intel is what the explorer knows about one planet. Zero-valued fields
// mean "not learned yet", tracked by the Has* flags.
type Intel struct {
	HasNeighbors bool
	Neighbors    []int

	HasEconomy bool
	Generates  resource.Kind // base kind the planet produces
	CanCombine bool
	CanRocket  bool

	Alive bool // last observed liveness; true until proven otherwise
}

// Complete reports whether there is nothing left to learn here.
func (in *Intel) Complete() bool {
	return in.HasNeighbors && in.HasEconomy
}

// Atlas is the explorer's knowledge base, keyed by planet id.
type Atlas struct {
	planets map[int]*Intel
}

// NewAtlas starts with a single known (but unexplored) planet.
func NewAtlas(start int) *Atlas {
	a := &Atlas{planets: make(map[int]*Intel)}
	a.getOrCreate(start)
	return a
}

func (a *Atlas) getOrCreate(id int) *Intel {
	in, ok := a.planets[id]
	if !ok {
		in = &Intel{Alive: true}
		a.planets[id] = in
	}
	return in
}

// Get returns the intel for a planet, or nil when it was never heard of.
func (a *Atlas) Get(id int) *Intel {
	return a.planets[id]
}

// SetNeighbors records a planet's adjacency, registering any neighbour the
// explorer had never heard of.
func (a *Atlas) SetNeighbors(id int, neighbors []int) {
	in := a.getOrCreate(id)
	in.HasNeighbors = true
	in.Neighbors = append(in.Neighbors[:0], neighbors...)
	sort.Ints(in.Neighbors)
	for _, n := range neighbors {
		a.getOrCreate(n)
	}
}

// ObserveEconomy records what a visit taught about the planet's rules.
func (a *Atlas) ObserveEconomy(id int, generates resource.Kind, canCombine, canRocket, alive bool) {
	in := a.getOrCreate(id)
	in.HasEconomy = true
	in.Generates = generates
	in.CanCombine = canCombine
	in.CanRocket = canRocket
	in.Alive = alive
}

// MarkDead records that a planet no longer answers.
func (a *Atlas) MarkDead(id int) {
	a.getOrCreate(id).Alive = false
}

// Known returns every planet id the atlas has heard of, ascending.
func (a *Atlas) Known() []int {
	ids := make([]int, 0, len(a.planets))
	for id := range a.planets {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// FullyDiscovered reports whether every known planet is complete.
func (a *Atlas) FullyDiscovered() bool {
	for _, in := range a.planets {
		if !in.Complete() {
			return false
		}
	}
	return true
}

// bfs walks known, living planets from start and returns the first node
// matching accept, as a path excluding start. Edges through dead planets
// are not traversed (a dead planet cannot be visited).
func (a *Atlas) bfs(start int, accept func(id int, in *Intel) bool) []int {
	parents := map[int]int{start: start}
	queue := []int{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		in := a.planets[current]
		if in == nil {
			continue
		}
		if accept(current, in) {
			if current == start {
				return []int{}
			}
			return a.unwind(parents, start, current)
		}
		if !in.HasNeighbors {
			continue
		}
		for _, n := range in.Neighbors {
			if _, seen := parents[n]; seen {
				continue
			}
			if ni := a.planets[n]; ni != nil && !ni.Alive {
				continue
			}
			parents[n] = current
			queue = append(queue, n)
		}
	}
	return nil
}

func (a *Atlas) unwind(parents map[int]int, start, target int) []int {
	var path []int
	for current := target; current != start; current = parents[current] {
		path = append(path, current)
	}
	// reverse into travel order
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// PathToFrontier finds the nearest planet the explorer has not fully
// learned yet. Nil when the known world is fully discovered or cut off.
func (a *Atlas) PathToFrontier(start int) []int {
	return a.bfs(start, func(_ int, in *Intel) bool {
		return in.Alive && !in.Complete()
	})
}

// PathToProvider finds the nearest known living planet generating the
// given base kind. Empty (non-nil) path means the start planet qualifies.
func (a *Atlas) PathToProvider(start int, kind resource.Kind) []int {
	return a.bfs(start, func(_ int, in *Intel) bool {
		return in.Alive && in.HasEconomy && in.Generates == kind
	})
}

// PathToCombiner finds the nearest known living planet that serves
// combinations.
func (a *Atlas) PathToCombiner(start int) []int {
	return a.bfs(start, func(_ int, in *Intel) bool {
		return in.Alive && in.HasEconomy && in.CanCombine
	})
}

// Providers lists every known living planet generating the given kind,
// reachable or not. Used when weighing a rocket jump across a cut.
func (a *Atlas) Providers(kind resource.Kind) []int {
	var out []int
	for id, in := range a.planets {
		if in.Alive && in.HasEconomy && in.Generates == kind {
			out = append(out, id)
		}
	}
	sort.Ints(out)
	return out
}

// Combiners lists every known living combination planet.
func (a *Atlas) Combiners() []int {
	var out []int
	for id, in := range a.planets {
		if in.Alive && in.HasEconomy && in.CanCombine {
			out = append(out, id)
		}
	}
	sort.Ints(out)
	return out
}

// AnyLivingReachable reports whether any known living planet other than a
// dead start is reachable. Used for the starvation death check.
func (a *Atlas) AnyLivingReachable(start int) bool {
	if in := a.planets[start]; in != nil && in.Alive {
		return true
	}
	return a.bfs(start, func(_ int, in *Intel) bool {
		return in.Alive
	}) != nil
}
