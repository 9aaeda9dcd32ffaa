/*
Package explorer
File: strategy_test.go
Description: Policy-level tests run against hand-built atlases, no live
actors involved.
*/

package explorer

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everforgeworks/galaxies-frontier/internal/game"
	"github.com/everforgeworks/galaxies-frontier/internal/resource"
)

func testContext(a *Atlas, position int, neighbors []int, bag map[resource.Kind]int) *Context {
	if bag == nil {
		bag = map[resource.Kind]int{}
	}
	return &Context{
		Position:  position,
		Neighbors: neighbors,
		Bag:       bag,
		Atlas:     a,
		Rand:      rand.New(rand.NewSource(1)),
	}
}

func TestNewStrategySelection(t *testing.T) {
	assert.Equal(t, "greedy", NewStrategy("greedy", 0, nil).Name())
	assert.Equal(t, "greedy_with_purpose", NewStrategy("greedy_with_purpose", resource.Water, nil).Name())
	assert.Equal(t, "best_path", NewStrategy("best_path", resource.Life, nil).Name())
	assert.Equal(t, "best_path_adaptive", NewStrategy("best_path_adaptive", resource.Robot, nil).Name())
	assert.Equal(t, "greedy", NewStrategy("bogus", 0, nil).Name(), "unknown names fall back to greedy")
}

func TestGreedyPicksANeighbor(t *testing.T) {
	s := NewStrategy("greedy", 0, nil)
	ctx := testContext(NewAtlas(0), 0, []int{4, 7, 9}, nil)

	move, ok := s.NextMove(ctx)
	require.True(t, ok)
	assert.Contains(t, []int{4, 7, 9}, move.Dest)
	assert.False(t, move.ViaRocket)

	_, ok = s.NextMove(testContext(NewAtlas(0), 0, nil, nil))
	assert.False(t, ok, "nowhere to go")

	assert.True(t, s.WantKind(ctx, resource.Silicon), "greedy takes everything")
	assert.True(t, s.WantKind(ctx, resource.Dolphin))
}

func TestGreedyWithPurposePrefersUsefulNeighbors(t *testing.T) {
	// Neighbour 1 generates oxygen (needed for water), neighbour 2
	// silicon (useless for it). Only 1 should ever be chosen.
	a := NewAtlas(0)
	a.SetNeighbors(0, []int{1, 2})
	a.ObserveEconomy(1, resource.Oxygen, false, false, true)
	a.ObserveEconomy(2, resource.Silicon, false, false, true)

	s := NewStrategy("greedy_with_purpose", resource.Water, nil)
	for i := 0; i < 10; i++ {
		move, ok := s.NextMove(testContext(a, 0, []int{1, 2}, map[resource.Kind]int{resource.Hydrogen: 1}))
		require.True(t, ok)
		assert.Equal(t, 1, move.Dest)
	}

	ctx := testContext(a, 0, []int{1, 2}, map[resource.Kind]int{resource.Hydrogen: 1})
	assert.True(t, s.WantKind(ctx, resource.Oxygen))
	assert.False(t, s.WantKind(ctx, resource.Hydrogen), "already carrying the hydrogen")
	assert.True(t, s.WantKind(ctx, resource.Diamond), "complex kinds are always worth taking")
}

func TestBestPathWalksToProvider(t *testing.T) {
	// 0-1-2 line; oxygen lives at the far end.
	a := NewAtlas(0)
	a.SetNeighbors(0, []int{1})
	a.SetNeighbors(1, []int{0, 2})
	a.SetNeighbors(2, []int{1})
	a.ObserveEconomy(0, resource.Hydrogen, false, true, true)
	a.ObserveEconomy(1, resource.Carbon, false, false, true)
	a.ObserveEconomy(2, resource.Oxygen, false, false, true)

	s := NewStrategy("best_path", resource.Water, nil)
	bag := map[resource.Kind]int{resource.Hydrogen: 1}

	move, ok := s.NextMove(testContext(a, 0, []int{1}, bag))
	require.True(t, ok)
	assert.Equal(t, Move{Dest: 1}, move)

	// The remaining plan carries over to the next tick.
	move, ok = s.NextMove(testContext(a, 1, []int{0, 2}, bag))
	require.True(t, ok)
	assert.Equal(t, Move{Dest: 2}, move)
}

func TestBestPathHeadsForCombinerWhenStocked(t *testing.T) {
	a := NewAtlas(0)
	a.SetNeighbors(0, []int{1})
	a.SetNeighbors(1, []int{0})
	a.ObserveEconomy(0, resource.Hydrogen, false, false, true)
	a.ObserveEconomy(1, resource.Oxygen, true, false, true)

	s := NewStrategy("best_path", resource.Water, nil)
	bag := map[resource.Kind]int{resource.Hydrogen: 1, resource.Oxygen: 1}

	move, ok := s.NextMove(testContext(a, 0, []int{1}, bag))
	require.True(t, ok)
	assert.Equal(t, Move{Dest: 1}, move)
}

func TestBestPathRocketsAcrossACut(t *testing.T) {
	// Planet 0 is alone; the only oxygen source (5) is known but not
	// walkable. Planet 0 can build rockets, so the plan is a jump.
	a := NewAtlas(0)
	a.SetNeighbors(0, nil)
	a.SetNeighbors(5, nil)
	a.ObserveEconomy(0, resource.Hydrogen, false, true, true)
	a.ObserveEconomy(5, resource.Oxygen, true, false, true)

	s := NewStrategy("best_path", resource.Water, nil)
	bag := map[resource.Kind]int{resource.Hydrogen: 1}

	move, ok := s.NextMove(testContext(a, 0, nil, bag))
	require.True(t, ok)
	assert.Equal(t, Move{Dest: 5, ViaRocket: true}, move)
}

func TestBestPathInfeasibleWithoutRocket(t *testing.T) {
	// Same cut, but the stranded planet cannot build rockets.
	a := NewAtlas(0)
	a.SetNeighbors(0, nil)
	a.SetNeighbors(5, nil)
	a.ObserveEconomy(0, resource.Hydrogen, false, false, true)
	a.ObserveEconomy(5, resource.Oxygen, true, false, true)

	s := newBestPath(resource.Water)
	_, ok := s.NextMove(testContext(a, 0, nil, map[resource.Kind]int{resource.Hydrogen: 1}))
	assert.False(t, ok)
	assert.True(t, s.infeasible)
}

func TestAdaptiveDowngradesWhenInfeasible(t *testing.T) {
	// Diamond needs carbon, and this two-planet world has none and no
	// frontier left. The adaptive policy falls back to water.
	a := NewAtlas(0)
	a.SetNeighbors(0, []int{1})
	a.SetNeighbors(1, []int{0})
	a.ObserveEconomy(0, resource.Hydrogen, false, false, true)
	a.ObserveEconomy(1, resource.Oxygen, true, false, true)

	s := NewStrategy("best_path_adaptive", resource.Diamond,
		[]resource.Kind{resource.Water}).(*adaptive)

	move, ok := s.NextMove(testContext(a, 0, []int{1}, map[resource.Kind]int{resource.Hydrogen: 1}))
	assert.Equal(t, resource.Water, s.Target(), "diamond was hopeless here")
	require.True(t, ok, "the fallback target is actionable immediately")
	assert.Equal(t, Move{Dest: 1}, move)
}

func TestAdaptiveFallsBackAfterCutVertexDies(t *testing.T) {
	// 3-0-1-2 line: hydrogen and a combiner at home, oxygen one hop one
	// way, the only carbon two hops the other way through the cut vertex
	// 1. When 1 dies, carbon (and so diamond) is gone for good, but water
	// is still assemblable on the surviving side.
	a := NewAtlas(0)
	a.SetNeighbors(3, []int{0})
	a.SetNeighbors(0, []int{1, 3})
	a.SetNeighbors(1, []int{0, 2})
	a.SetNeighbors(2, []int{1})
	a.ObserveEconomy(0, resource.Hydrogen, true, false, true)
	a.ObserveEconomy(1, resource.Oxygen, false, false, true)
	a.ObserveEconomy(2, resource.Carbon, false, false, true)
	a.ObserveEconomy(3, resource.Oxygen, false, false, true)

	s := NewStrategy("best_path_adaptive", resource.Diamond,
		[]resource.Kind{resource.Water}).(*adaptive)

	// With the cut intact the diamond plan routes toward the carbon.
	move, ok := s.NextMove(testContext(a, 0, []int{1, 3}, nil))
	require.True(t, ok)
	assert.Equal(t, Move{Dest: 1}, move)
	assert.Equal(t, resource.Diamond, s.Target())

	a.MarkDead(1)

	move, ok = s.NextMove(testContext(a, 0, []int{1, 3}, map[resource.Kind]int{resource.Hydrogen: 1}))
	require.True(t, ok)
	assert.Equal(t, resource.Water, s.Target(), "carbon is unreachable, water is next in the chain")
	assert.Equal(t, Move{Dest: 3}, move)
}

func TestAdaptiveDowngradesOnRepeatedRefusals(t *testing.T) {
	a := NewAtlas(0)
	s := NewStrategy("best_path_adaptive", resource.AIPartner,
		[]resource.Kind{resource.Dolphin, resource.Life}).(*adaptive)
	ctx := testContext(a, 0, nil, nil)

	s.React(ctx, game.CapabilityExceeded)
	s.React(ctx, game.CapabilityExceeded)
	assert.Equal(t, resource.AIPartner, s.Target(), "two refusals are tolerated")

	s.React(ctx, game.CapabilityExceeded)
	assert.Equal(t, resource.Dolphin, s.Target())

	s.React(ctx, game.Disconnected)
	assert.Equal(t, resource.Life, s.Target())

	s.React(ctx, game.Disconnected)
	assert.Equal(t, resource.Life, s.Target(), "out of fallbacks, the last target sticks")
}

func TestAdaptiveRefusalCounterResetsOnSuccess(t *testing.T) {
	a := NewAtlas(0)
	s := NewStrategy("best_path_adaptive", resource.Life,
		[]resource.Kind{resource.Water}).(*adaptive)
	ctx := testContext(a, 0, nil, nil)

	s.React(ctx, game.CapabilityExceeded)
	s.React(ctx, game.CapabilityExceeded)
	s.React(ctx, game.OK)
	s.React(ctx, game.CapabilityExceeded)
	s.React(ctx, game.CapabilityExceeded)
	assert.Equal(t, resource.Life, s.Target())
}

func TestMissingBase(t *testing.T) {
	cases := []struct {
		name   string
		target resource.Kind
		bag    map[resource.Kind]int
		want   map[resource.Kind]int
	}{
		{
			name:   "empty bag",
			target: resource.Life,
			bag:    nil,
			want:   map[resource.Kind]int{resource.Hydrogen: 1, resource.Oxygen: 1, resource.Carbon: 1},
		},
		{
			name:   "base units cancel",
			target: resource.Life,
			bag:    map[resource.Kind]int{resource.Hydrogen: 1, resource.Carbon: 2},
			want:   map[resource.Kind]int{resource.Oxygen: 1},
		},
		{
			name:   "intermediate cancels its expansion",
			target: resource.AIPartner,
			bag:    map[resource.Kind]int{resource.Water: 1},
			want:   map[resource.Kind]int{resource.Carbon: 3, resource.Silicon: 1},
		},
		{
			name:   "robot credits most of an ai partner",
			target: resource.AIPartner,
			bag:    map[resource.Kind]int{resource.Robot: 1},
			want:   map[resource.Kind]int{resource.Carbon: 2},
		},
		{
			name:   "unrelated complex kinds are ignored",
			target: resource.Diamond,
			bag:    map[resource.Kind]int{resource.Dolphin: 3},
			want:   map[resource.Kind]int{resource.Carbon: 2},
		},
		{
			name:   "holding the target clears everything",
			target: resource.Water,
			bag:    map[resource.Kind]int{resource.Water: 1},
			want:   map[resource.Kind]int{},
		},
		{
			name:   "no target no needs",
			target: 0,
			bag:    map[resource.Kind]int{resource.Hydrogen: 5},
			want:   map[resource.Kind]int{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.bag == nil {
				tc.bag = map[resource.Kind]int{}
			}
			assert.Equal(t, tc.want, missingBase(tc.target, tc.bag))
		})
	}
}
