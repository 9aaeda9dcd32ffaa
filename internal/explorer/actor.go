/*
Package explorer
File: actor.go
Description:
    The explorer actor. One goroutine per traveler owns its position, bag,
    life budget and strategy, and advances exactly one step per tick
    command from the orchestrator.

    A step at a planet: learn (neighbours + economy), generate, harvest
    what the strategy wants, combine toward the target if the planet
    allows it, then travel. Travel costs one life unit per edge or rocket
    jump. Rejections from planets are recorded and handed to the strategy;
    they are never fatal. Death is: life exhausted, or no known living
    planet reachable. Dead explorers stop issuing requests for good.
*/

package explorer

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/everforgeworks/galaxies-frontier/internal/game"
	"github.com/everforgeworks/galaxies-frontier/internal/planet"
	"github.com/everforgeworks/galaxies-frontier/internal/resource"
	"github.com/everforgeworks/galaxies-frontier/internal/topology"
)

// requestTimeout bounds every planet interaction so a dead or stopped
// planet degrades into an outcome instead of a hang.
const requestTimeout = 2 * time.Second

// Directory is the explorer's window onto the galaxy, implemented by the
// orchestrator. Neighbors is ground truth for the explorer's current
// planet only; everything else the explorer must learn by visiting.
type Directory interface {
	// Neighbors returns the current adjacency of a planet; empty when the
	// planet has been removed from the topology.
	Neighbors(id int) []int
	// Mailbox returns the send side of a planet's queue; ok=false when
	// the planet no longer exists.
	Mailbox(id int) (chan<- planet.Request, bool)
}

// TickCommand drives one simulation step. The actor answers with a Report
// once the step (and all planet replies within it) has completed.
type TickCommand struct {
	Tick int
	Resp chan Report
}

// ConfigureCommand swaps the explorer's policy at runtime, between ticks.
type ConfigureCommand struct {
	Strategy  string
	Target    resource.Kind
	Fallbacks []resource.Kind
	Resp      chan struct{}
}

// Report is the explorer's public state after a step.
type Report struct {
	ID       int
	Alive    bool
	Position int
	Life     int
	Bag      map[resource.Kind]int
	Strategy string
	Target   resource.Kind
	Achieved bool // target has been assembled at least once
}

// Actor is one explorer. Construct with New, run with Run; interact only
// through Ticks().
type Actor struct {
	id       int
	dir      Directory
	strategy Strategy
	rng      *rand.Rand
	log      *zap.Logger
	ticks    chan TickCommand
	control  chan ConfigureCommand

	position int
	life     int
	bag      map[resource.Kind]int
	atlas    *Atlas
	alive    bool
	achieved bool
}

// New builds an explorer from its config entry. Seed derives the private
// RNG so runs replay deterministically per explorer.
func New(cfg game.ExplorerConfig, dir Directory, seed int64, log *zap.Logger) *Actor {
	return &Actor{
		id:       cfg.ID,
		dir:      dir,
		strategy: NewStrategy(cfg.Strategy, cfg.Target, cfg.Fallbacks),
		rng:      rand.New(rand.NewSource(seed ^ int64(cfg.ID)<<17)),
		log:      log.With(zap.Int("explorer", cfg.ID), zap.String("strategy", cfg.Strategy)),
		ticks:    make(chan TickCommand),
		control:  make(chan ConfigureCommand),
		position: cfg.StartPlanet,
		life:     cfg.Life,
		bag:      make(map[resource.Kind]int),
		atlas:    NewAtlas(cfg.StartPlanet),
		alive:    true,
	}
}

// SeedTopology preloads the atlas with full adjacency, for explorers
// configured with upfront knowledge of the galaxy map. The graph handed in
// is this explorer's own copy.
func (a *Actor) SeedTopology(g *topology.Graph) {
	for _, id := range g.Nodes() {
		a.atlas.SetNeighbors(id, g.Neighbors(id))
	}
}

// ID returns the explorer id.
func (a *Actor) ID() int { return a.id }

// Ticks is the actor's command channel.
func (a *Actor) Ticks() chan<- TickCommand { return a.ticks }

// Control accepts strategy reconfiguration between ticks.
func (a *Actor) Control() chan<- ConfigureCommand { return a.control }

// Run serves tick commands until the context is cancelled.
func (a *Actor) Run(ctx context.Context) {
	a.log.Debug("explorer online", zap.Int("start", a.position), zap.Int("life", a.life))
	for {
		select {
		case <-ctx.Done():
			a.log.Debug("explorer stopping")
			return
		case cmd := <-a.ticks:
			if a.alive {
				a.step()
			}
			cmd.Resp <- a.report()
		case cmd := <-a.control:
			a.strategy = NewStrategy(cmd.Strategy, cmd.Target, cmd.Fallbacks)
			a.log.Info("strategy reconfigured",
				zap.String("strategy", cmd.Strategy), zap.Stringer("target", cmd.Target))
			if cmd.Resp != nil {
				cmd.Resp <- struct{}{}
			}
		}
	}
}

func (a *Actor) report() Report {
	bag := make(map[resource.Kind]int, len(a.bag))
	for k, n := range a.bag {
		bag[k] = n
	}
	return Report{
		ID:       a.id,
		Alive:    a.alive,
		Position: a.position,
		Life:     a.life,
		Bag:      bag,
		Strategy: a.strategy.Name(),
		Target:   a.strategy.Target(),
		Achieved: a.achieved,
	}
}

// step is one full visit-and-move cycle at the current planet.
func (a *Actor) step() {
	neighbors := a.dir.Neighbors(a.position)
	a.atlas.SetNeighbors(a.position, neighbors)

	state, outcome := a.queryPlanet(a.position)
	if outcome != game.OK {
		// Planet is gone or silent; note it and let the strategy route
		// around the hole.
		a.atlas.MarkDead(a.position)
		a.react(outcome)
	} else {
		limits := planet.LimitsFor(state.Class)
		a.atlas.ObserveEconomy(a.position, state.Generates,
			limits.Combines != 0, limits.Rockets != 0, state.Alive)

		if state.Alive {
			a.generateAndHarvest()
			a.combineHere()
		}
	}

	a.travel(neighbors)

	if a.alive && !a.atlas.AnyLivingReachable(a.position) {
		a.log.Info("explorer stranded, no living planet reachable")
		a.die()
	}
}

// generateAndHarvest asks the planet for one generation, then pulls every
// unit the strategy cares about out of planet stock.
func (a *Actor) generateAndHarvest() {
	mailbox, ok := a.dir.Mailbox(a.position)
	if !ok {
		return
	}

	resp := make(chan planet.GenerateReply, 1)
	if a.send(mailbox, planet.GenerateRequest{Resp: resp}) {
		if reply, ok := recvTimeout(resp); ok {
			a.react(reply.Outcome)
		}
	}

	// Fresh stock view after the generation attempt.
	state, outcome := a.queryPlanet(a.position)
	if outcome != game.OK {
		return
	}

	sctx := a.strategyContext(nil)
	for kind, count := range state.Inventory {
		if !a.strategy.WantKind(sctx, kind) {
			continue
		}
		for i := 0; i < count; i++ {
			hresp := make(chan planet.HarvestReply, 1)
			if !a.send(mailbox, planet.HarvestRequest{Kind: kind, Resp: hresp}) {
				return
			}
			reply, ok := recvTimeout(hresp)
			if !ok || reply.Outcome != game.OK {
				break
			}
			a.bag[kind]++
		}
	}
}

// combineHere runs the combination chain the bag supports at this planet.
// With a target, steps follow the target's build order; without one,
// any pair with a recipe is fair game.
func (a *Actor) combineHere() {
	in := a.atlas.Get(a.position)
	if in == nil || !in.HasEconomy || !in.CanCombine {
		return
	}
	mailbox, ok := a.dir.Mailbox(a.position)
	if !ok {
		return
	}

	target := a.strategy.Target()
	for {
		pair, ok := a.nextCombination(target)
		if !ok {
			return
		}
		resp := make(chan planet.CombineReply, 1)
		if !a.send(mailbox, planet.CombineRequest{A: pair[0], B: pair[1], Supplied: true, Resp: resp}) {
			return
		}
		reply, got := recvTimeout(resp)
		if !got {
			return
		}
		a.react(reply.Outcome)
		if reply.Outcome != game.OK {
			return
		}
		a.bag[pair[0]]--
		a.bag[pair[1]]--
		dropZero(a.bag, pair[0])
		dropZero(a.bag, pair[1])
		a.bag[reply.Product]++
		a.log.Debug("combined",
			zap.Stringer("a", pair[0]), zap.Stringer("b", pair[1]),
			zap.Stringer("product", reply.Product))
		if target != 0 && reply.Product == target {
			a.achieved = true
			a.log.Info("target assembled", zap.Stringer("target", target))
		}
	}
}

// nextCombination picks the next pair the bag can afford. Build-order
// steps first when a target exists, otherwise any recipe pair.
func (a *Actor) nextCombination(target resource.Kind) ([2]resource.Kind, bool) {
	if target != 0 {
		for _, step := range resource.BuildOrder(target) {
			if a.affords(step.A, step.B) {
				return [2]resource.Kind{step.A, step.B}, true
			}
		}
		return [2]resource.Kind{}, false
	}
	kinds := resource.AllKinds()
	for i, ka := range kinds {
		for _, kb := range kinds[i:] {
			if _, ok := resource.Combine(ka, kb); !ok {
				continue
			}
			if a.affords(ka, kb) {
				return [2]resource.Kind{ka, kb}, true
			}
		}
	}
	return [2]resource.Kind{}, false
}

func (a *Actor) affords(x, y resource.Kind) bool {
	if x == y {
		return a.bag[x] >= 2
	}
	return a.bag[x] >= 1 && a.bag[y] >= 1
}

// travel asks the strategy for a move and executes it.
func (a *Actor) travel(neighbors []int) {
	if a.life == 0 {
		a.die()
		return
	}

	sctx := a.strategyContext(neighbors)
	move, ok := a.strategy.NextMove(sctx)
	if !ok {
		return
	}

	if move.ViaRocket {
		if !a.launchRocket(move.Dest) {
			return
		}
	} else if !contains(neighbors, move.Dest) {
		// Stale plan; the strategy will replan next tick.
		a.react(game.Disconnected)
		return
	}

	a.position = move.Dest
	a.life--
	a.log.Debug("traveled",
		zap.Int("to", move.Dest), zap.Int("life", a.life), zap.Bool("rocket", move.ViaRocket))
	if a.life == 0 {
		a.die()
	}
}

// launchRocket builds (if needed) and consumes a rocket at the current
// planet. True when the jump may proceed.
func (a *Actor) launchRocket(dest int) bool {
	mailbox, ok := a.dir.Mailbox(a.position)
	if !ok {
		a.react(game.PlanetUnavailable)
		return false
	}

	use := make(chan planet.RocketReply, 1)
	if !a.send(mailbox, planet.RocketRequest{Action: planet.RocketUse, Resp: use}) {
		return false
	}
	reply, got := recvTimeout(use)
	if !got {
		return false
	}
	if reply.Outcome == game.NoRocket {
		// None built yet; build one and retry the launch.
		create := make(chan planet.RocketReply, 1)
		if !a.send(mailbox, planet.RocketRequest{Action: planet.RocketCreate, Resp: create}) {
			return false
		}
		if creply, ok := recvTimeout(create); !ok || creply.Outcome != game.OK {
			if ok {
				a.react(creply.Outcome)
			}
			return false
		}
		if !a.send(mailbox, planet.RocketRequest{Action: planet.RocketUse, Resp: use}) {
			return false
		}
		reply, got = recvTimeout(use)
		if !got {
			return false
		}
	}
	a.react(reply.Outcome)
	return reply.Outcome == game.OK
}

func (a *Actor) strategyContext(neighbors []int) *Context {
	return &Context{
		Position:  a.position,
		Neighbors: neighbors,
		Bag:       a.bag,
		Atlas:     a.atlas,
		Rand:      a.rng,
	}
}

func (a *Actor) react(o game.Outcome) {
	if o != game.OK {
		a.log.Debug("planet refusal", zap.Stringer("outcome", o))
	}
	a.strategy.React(a.strategyContext(nil), o)
}

func (a *Actor) die() {
	if !a.alive {
		return
	}
	a.alive = false
	a.log.Info("explorer died", zap.Int("at", a.position), zap.Bool("achieved", a.achieved))
}

// queryPlanet fetches a state snapshot from a planet, outcome-coded.
func (a *Actor) queryPlanet(id int) (planet.State, game.Outcome) {
	mailbox, ok := a.dir.Mailbox(id)
	if !ok {
		return planet.State{}, game.PlanetUnavailable
	}
	resp := make(chan planet.State, 1)
	if !a.send(mailbox, planet.QueryRequest{Resp: resp}) {
		return planet.State{}, game.PlanetUnavailable
	}
	state, got := recvTimeout(resp)
	if !got {
		return planet.State{}, game.PlanetUnavailable
	}
	return state, game.OK
}

// send delivers a request with a bounded wait; false means the planet's
// queue never accepted it (stopped or wedged planet).
func (a *Actor) send(mailbox chan<- planet.Request, req planet.Request) bool {
	select {
	case mailbox <- req:
		return true
	case <-time.After(requestTimeout):
		return false
	}
}

func recvTimeout[T any](ch <-chan T) (T, bool) {
	select {
	case v := <-ch:
		return v, true
	case <-time.After(requestTimeout):
		var zero T
		return zero, false
	}
}

func dropZero(m map[resource.Kind]int, k resource.Kind) {
	if m[k] == 0 {
		delete(m, k)
	}
}

func contains(ids []int, id int) bool {
	for _, n := range ids {
		if n == id {
			return true
		}
	}
	return false
}
