/*
Package planet
File: actor_test.go
Description: Drives a live planet actor through its mailbox and checks the
class capability matrix, the energy-cell economy, and event handling.
*/

package planet

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/everforgeworks/galaxies-frontier/internal/game"
	"github.com/everforgeworks/galaxies-frontier/internal/resource"
)

// startActor spins up a planet and stops it when the test ends.
func startActor(t *testing.T, cfg game.PlanetConfig) *Actor {
	t.Helper()
	a, err := New(cfg, 16, zap.NewNop())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return a
}

func generate(a *Actor) GenerateReply {
	resp := make(chan GenerateReply, 1)
	a.Mailbox() <- GenerateRequest{Resp: resp}
	return <-resp
}

func combine(a *Actor, x, y resource.Kind, supplied bool) CombineReply {
	resp := make(chan CombineReply, 1)
	a.Mailbox() <- CombineRequest{A: x, B: y, Supplied: supplied, Resp: resp}
	return <-resp
}

func rocket(a *Actor, action RocketAction) RocketReply {
	resp := make(chan RocketReply, 1)
	a.Mailbox() <- RocketRequest{Action: action, Resp: resp}
	return <-resp
}

func harvest(a *Actor, k resource.Kind) HarvestReply {
	resp := make(chan HarvestReply, 1)
	a.Mailbox() <- HarvestRequest{Kind: k, Resp: resp}
	return <-resp
}

func sunray(a *Actor) EventAck {
	ack := make(chan EventAck, 1)
	a.Mailbox() <- SunrayEvent{Ack: ack}
	return <-ack
}

func asteroid(a *Actor) EventAck {
	ack := make(chan EventAck, 1)
	a.Mailbox() <- AsteroidEvent{Ack: ack}
	return <-ack
}

func query(a *Actor) State {
	resp := make(chan State, 1)
	a.Mailbox() <- QueryRequest{Resp: resp}
	return <-resp
}

func TestClassAGeneratesOnce(t *testing.T) {
	a := startActor(t, game.PlanetConfig{ID: 1, Class: "A", Generates: resource.Hydrogen, EnergyCells: 4})

	first := generate(a)
	assert.Equal(t, game.OK, first.Outcome)
	assert.Equal(t, resource.Hydrogen, first.Kind)

	second := generate(a)
	assert.Equal(t, game.CapabilityExceeded, second.Outcome, "class A generates a single unit, ever")

	st := query(a)
	assert.Equal(t, map[resource.Kind]int{resource.Hydrogen: 1}, st.Inventory)
	assert.Equal(t, 3, st.Energy, "generation burns one charge")
}

func TestClassDGeneratesUntilEnergyRunsOut(t *testing.T) {
	a := startActor(t, game.PlanetConfig{ID: 2, Class: "D", Generates: resource.Carbon, EnergyCells: 3})

	for i := 0; i < 3; i++ {
		assert.Equal(t, game.OK, generate(a).Outcome)
	}
	assert.Equal(t, game.InsufficientEnergy, generate(a).Outcome)

	// A sunray recharges exactly one cell, enabling one more unit.
	ack := sunray(a)
	assert.Equal(t, 1, ack.Energy)
	assert.Equal(t, game.OK, generate(a).Outcome)
	assert.Equal(t, game.InsufficientEnergy, generate(a).Outcome)

	st := query(a)
	assert.Equal(t, 4, st.Inventory[resource.Carbon])
}

func TestCombineFromStock(t *testing.T) {
	a := startActor(t, game.PlanetConfig{ID: 3, Class: "C", Generates: resource.Hydrogen, EnergyCells: 1})

	// Stock holds hydrogen only, so the stock-path combine must refuse
	// without consuming the unit it does have.
	require.Equal(t, game.OK, generate(a).Outcome)
	rep := combine(a, resource.Hydrogen, resource.Oxygen, false)
	assert.Equal(t, game.InsufficientInventory, rep.Outcome, "only one of the two inputs is in stock")

	st := query(a)
	assert.Equal(t, 1, st.Inventory[resource.Hydrogen], "a failed combine must not consume anything")
	assert.Zero(t, st.Combines)
}

func TestCombineSameKindNeedsTwoUnits(t *testing.T) {
	a := startActor(t, game.PlanetConfig{ID: 4, Class: "B", Generates: resource.Carbon, EnergyCells: 1})

	require.Equal(t, game.OK, generate(a).Outcome)
	rep := combine(a, resource.Carbon, resource.Carbon, false)
	assert.Equal(t, game.InsufficientInventory, rep.Outcome, "C+C needs two distinct units")

	require.Equal(t, 1, sunray(a).Energy)
	require.Equal(t, game.OK, generate(a).Outcome)

	rep = combine(a, resource.Carbon, resource.Carbon, false)
	require.Equal(t, game.OK, rep.Outcome)
	assert.Equal(t, resource.Diamond, rep.Product)

	st := query(a)
	assert.Equal(t, map[resource.Kind]int{resource.Diamond: 1}, st.Inventory)
}

func TestSuppliedCombineLeavesStockAlone(t *testing.T) {
	a := startActor(t, game.PlanetConfig{ID: 5, Class: "C", Generates: resource.Silicon, EnergyCells: 1})

	rep := combine(a, resource.Hydrogen, resource.Oxygen, true)
	require.Equal(t, game.OK, rep.Outcome)
	assert.Equal(t, resource.Water, rep.Product)

	st := query(a)
	assert.Empty(t, st.Inventory, "supplied inputs and product never touch planet stock")
	assert.Equal(t, 1, st.Combines)
}

func TestSuppliedCombineNoRecipe(t *testing.T) {
	a := startActor(t, game.PlanetConfig{ID: 6, Class: "C", Generates: resource.Silicon, EnergyCells: 1})

	rep := combine(a, resource.Hydrogen, resource.Silicon, true)
	assert.Equal(t, game.NoRecipe, rep.Outcome)

	st := query(a)
	assert.Zero(t, st.Combines, "a refused combine does not count against the cap")
}

func TestClassBSingleCombine(t *testing.T) {
	a := startActor(t, game.PlanetConfig{ID: 7, Class: "B", Generates: resource.Oxygen, EnergyCells: 1})

	require.Equal(t, game.OK, combine(a, resource.Hydrogen, resource.Oxygen, true).Outcome)
	rep := combine(a, resource.Hydrogen, resource.Oxygen, true)
	assert.Equal(t, game.CapabilityExceeded, rep.Outcome, "class B combines once, ever")
}

func TestClassBCombineCapUnderContention(t *testing.T) {
	a := startActor(t, game.PlanetConfig{ID: 8, Class: "B", Generates: resource.Oxygen, EnergyCells: 1})

	const workers = 16
	results := make(chan game.Outcome, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- combine(a, resource.Hydrogen, resource.Oxygen, true).Outcome
		}()
	}
	wg.Wait()
	close(results)

	oks := 0
	for outcome := range results {
		if outcome == game.OK {
			oks++
		} else {
			assert.Equal(t, game.CapabilityExceeded, outcome)
		}
	}
	assert.Equal(t, 1, oks, "exactly one concurrent combine may win on class B")
}

func TestRocketLifecycle(t *testing.T) {
	a := startActor(t, game.PlanetConfig{ID: 9, Class: "A", Generates: resource.Hydrogen, EnergyCells: 4})

	assert.Equal(t, game.NoRocket, rocket(a, RocketUse).Outcome)

	created := rocket(a, RocketCreate)
	require.Equal(t, game.OK, created.Outcome)
	assert.Equal(t, 1, created.Rockets)
	assert.Equal(t, 3, query(a).Energy, "rocket construction burns a charge")

	used := rocket(a, RocketUse)
	require.Equal(t, game.OK, used.Outcome)
	assert.Zero(t, used.Rockets)

	// The cap counts rockets ever built, so using one frees nothing.
	assert.Equal(t, game.CapabilityExceeded, rocket(a, RocketCreate).Outcome)
}

func TestClassBBuildsNoRockets(t *testing.T) {
	a := startActor(t, game.PlanetConfig{ID: 10, Class: "B", Generates: resource.Oxygen, EnergyCells: 1})
	assert.Equal(t, game.CapabilityExceeded, rocket(a, RocketCreate).Outcome)
}

func TestHarvestMovesStockOut(t *testing.T) {
	a := startActor(t, game.PlanetConfig{ID: 11, Class: "D", Generates: resource.Silicon, EnergyCells: 2})

	require.Equal(t, game.OK, generate(a).Outcome)

	got := harvest(a, resource.Silicon)
	require.Equal(t, game.OK, got.Outcome)
	assert.Equal(t, resource.Silicon, got.Kind)
	assert.Empty(t, query(a).Inventory)

	assert.Equal(t, game.InsufficientInventory, harvest(a, resource.Silicon).Outcome)
}

func TestAsteroidsDestroyCellsThenThePlanet(t *testing.T) {
	a := startActor(t, game.PlanetConfig{ID: 12, Class: "D", Generates: resource.Hydrogen, EnergyCells: 2})

	first := asteroid(a)
	assert.True(t, first.Alive)
	assert.Equal(t, 1, first.Cells)

	second := asteroid(a)
	assert.False(t, second.Alive, "losing the last cell kills the planet")
	assert.Zero(t, second.Cells)

	// A dead planet rejects everything, and sunrays cannot revive it.
	assert.Equal(t, game.PlanetUnavailable, generate(a).Outcome)
	assert.Equal(t, game.PlanetUnavailable, combine(a, resource.Hydrogen, resource.Oxygen, true).Outcome)
	assert.Equal(t, game.PlanetUnavailable, rocket(a, RocketCreate).Outcome)
	assert.False(t, sunray(a).Alive)
	assert.False(t, query(a).Alive)
}

func TestAsteroidPrefersChargedCells(t *testing.T) {
	a := startActor(t, game.PlanetConfig{ID: 13, Class: "D", Generates: resource.Hydrogen, EnergyCells: 3})

	// Spend one charge so the slots are mixed.
	require.Equal(t, game.OK, generate(a).Outcome)
	require.Equal(t, 2, query(a).Energy)

	ack := asteroid(a)
	assert.Equal(t, 2, ack.Cells)
	assert.Equal(t, 1, ack.Energy, "the strike takes a charged cell first")
}

func TestNewRejectsUnknownClass(t *testing.T) {
	_, err := New(game.PlanetConfig{ID: 14, Class: "Z"}, 4, zap.NewNop())
	assert.Error(t, err)
}

func TestSingleCellClassIgnoresConfiguredSlots(t *testing.T) {
	a := startActor(t, game.PlanetConfig{ID: 15, Class: "C", Generates: resource.Oxygen, EnergyCells: 5})
	st := query(a)
	assert.Equal(t, 1, st.Cells)
	assert.Equal(t, 1, st.Energy)
}
