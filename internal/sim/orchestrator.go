/*
Package sim
File: orchestrator.go
Description:
    The orchestrator builds the galaxy from its configuration, spawns one
    goroutine per planet and per explorer, and drives the global tick.

    It never mutates actor state directly. Within a tick it:
      1. applies the scheduled environmental event (sunray/asteroid) to
         every living planet,
      2. commands every living explorer to take one step and waits for
         all reports (the tick barrier: every message of tick N is served
         before tick N+1 starts),
      3. polls planet states into its ledger, removing planets that died,
      4. publishes the tick snapshot (hook + optional archive sink).

    Snapshots are assembled from the ledger, so reading one never blocks
    on an actor; a planet that failed its last poll is reported with
    known=false and its last good values.
*/

package sim

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/everforgeworks/galaxies-frontier/internal/explorer"
	"github.com/everforgeworks/galaxies-frontier/internal/game"
	"github.com/everforgeworks/galaxies-frontier/internal/planet"
	"github.com/everforgeworks/galaxies-frontier/internal/resource"
	"github.com/everforgeworks/galaxies-frontier/internal/topology"
)

// pollTimeout bounds the per-planet state poll inside a tick.
const pollTimeout = 2 * time.Second

// SnapshotSink receives periodic snapshots (the archive). Record must be
// safe to call from the tick loop.
type SnapshotSink interface {
	Record(s game.GalaxySnapshot) error
}

// Orchestrator owns the canonical topology and the actor handles.
type Orchestrator struct {
	cfg *game.Galaxy
	log *zap.Logger

	// TickHook, when set before Start, is invoked with every tick's
	// snapshot (the websocket hub feed).
	TickHook func(game.GalaxySnapshot)

	// sink, when set before Start, archives snapshots every
	// SnapshotEveryTicks ticks.
	sink SnapshotSink

	planets   map[int]*planet.Actor
	explorers map[int]*explorer.Actor

	// stepMu serializes ticks; stateMu guards everything below it.
	stepMu  sync.Mutex
	stateMu sync.RWMutex
	graph   *topology.Graph
	// lastLinks preserves a dead planet's former adjacency so an explorer
	// standing on it can still evacuate along existing lanes.
	lastLinks      map[int][]int
	planetLedger   map[int]game.PlanetSnapshot
	explorerLedger map[int]game.ExplorerSnapshot
	tick           int
	running        bool // false until the first start command, and while paused
	started        bool

	scheduler *eventScheduler
	rng       *rand.Rand

	cancel context.CancelFunc
	group  *errgroup.Group
}

// New wires the orchestrator from a validated configuration.
func New(cfg *game.Galaxy, log *zap.Logger) (*Orchestrator, error) {
	seed := cfg.BalanceConfig.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	o := &Orchestrator{
		cfg:            cfg,
		log:            log,
		planets:        make(map[int]*planet.Actor),
		explorers:      make(map[int]*explorer.Actor),
		graph:          topology.New(),
		lastLinks:      make(map[int][]int),
		planetLedger:   make(map[int]game.PlanetSnapshot),
		explorerLedger: make(map[int]game.ExplorerSnapshot),
		scheduler: newEventScheduler(cfg.BalanceConfig.EventSequence,
			cfg.BalanceConfig.SunrayRate, cfg.BalanceConfig.AsteroidRate, rng),
		rng: rng,
	}

	// Topology first: planets are nodes, links are undirected edges.
	for _, p := range cfg.Planets {
		o.graph.AddNode(p.ID)
	}
	for _, p := range cfg.Planets {
		for _, link := range p.Links {
			o.graph.Connect(p.ID, link)
		}
	}

	for _, p := range cfg.Planets {
		actor, err := planet.New(p, cfg.BalanceConfig.MailboxSize, log)
		if err != nil {
			return nil, fmt.Errorf("planet %d: %w", p.ID, err)
		}
		o.planets[p.ID] = actor
		o.planetLedger[p.ID] = game.PlanetSnapshot{
			ID:        p.ID,
			Class:     p.Class,
			Inventory: map[string]int{},
			Energy:    p.EnergyCells,
			Cells:     p.EnergyCells,
			Alive:     true,
			Known:     true,
		}
	}

	for _, e := range cfg.Explorers {
		actor := explorer.New(e, directory{o}, seed, log)
		if e.KnowsTopology {
			actor.SeedTopology(o.graph.Clone())
		}
		target := ""
		if e.Target != 0 {
			target = e.Target.String()
		}
		o.explorers[e.ID] = actor
		o.explorerLedger[e.ID] = game.ExplorerSnapshot{
			ID:        e.ID,
			Position:  e.StartPlanet,
			Inventory: map[string]int{},
			Life:      e.Life,
			Strategy:  e.Strategy,
			Target:    target,
			Alive:     true,
		}
	}

	return o, nil
}

// SetSink installs the snapshot archive. Call before Start.
func (o *Orchestrator) SetSink(s SnapshotSink) { o.sink = s }

// Start spawns every actor goroutine. The run boots waiting: ticks do not
// advance until Resume (the start command) flips it live.
func (o *Orchestrator) Start() error {
	o.stateMu.Lock()
	defer o.stateMu.Unlock()
	if o.started {
		return fmt.Errorf("orchestrator already started")
	}
	ctx, cancel := context.WithCancel(context.Background())
	group, ctx := errgroup.WithContext(ctx)
	o.cancel = cancel
	o.group = group

	for _, p := range o.planets {
		actor := p
		group.Go(func() error {
			actor.Run(ctx)
			return nil
		})
	}
	for _, e := range o.explorers {
		actor := e
		group.Go(func() error {
			actor.Run(ctx)
			return nil
		})
	}

	o.started = true
	o.log.Info("galaxy online, awaiting start command",
		zap.Int("planets", len(o.planets)), zap.Int("explorers", len(o.explorers)))
	return nil
}

// Pause suspends the free-running loop without stopping actors.
func (o *Orchestrator) Pause() {
	o.stateMu.Lock()
	o.running = false
	o.stateMu.Unlock()
	o.log.Info("simulation paused")
}

// Resume starts a waiting run, or lifts a pause.
func (o *Orchestrator) Resume() {
	o.stateMu.Lock()
	o.running = true
	o.stateMu.Unlock()
	o.log.Info("simulation running")
}

// Running reports whether the free-running loop is advancing.
func (o *Orchestrator) Running() bool {
	o.stateMu.RLock()
	defer o.stateMu.RUnlock()
	return o.running
}

// Shutdown broadcasts the stop signal and waits for every actor to finish
// its current message and exit.
func (o *Orchestrator) Shutdown() error {
	o.stateMu.Lock()
	if !o.started {
		o.stateMu.Unlock()
		return nil
	}
	o.running = false
	cancel, group := o.cancel, o.group
	o.stateMu.Unlock()

	cancel()
	err := group.Wait()
	o.log.Info("galaxy offline", zap.Int("ticks", o.Tick()))
	return err
}

// Run free-runs the tick loop at the configured cadence until the context
// is cancelled. Pause is honored between ticks.
func (o *Orchestrator) Run(ctx context.Context) {
	interval := time.Duration(o.cfg.BalanceConfig.TickMillis) * time.Millisecond
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if o.Running() {
				o.Step(1)
			}
		}
	}
}

// Tick returns the number of completed ticks.
func (o *Orchestrator) Tick() int {
	o.stateMu.RLock()
	defer o.stateMu.RUnlock()
	return o.tick
}

// Step advances the simulation by n ticks, serialized against concurrent
// steppers. A scripted pause swallows the remaining iterations.
func (o *Orchestrator) Step(n int) {
	o.stepMu.Lock()
	defer o.stepMu.Unlock()
	for i := 0; i < n; i++ {
		if !o.runTick() {
			break
		}
	}
}

// runTick runs one tick; false means the schedule paused the run instead.
func (o *Orchestrator) runTick() bool {
	// 1. Environment.
	events := o.scheduler.next()
	if events.Pause {
		o.Pause()
		return false
	}
	if events.Sunray {
		o.broadcastEvent(true)
	}
	if events.Asteroid {
		o.broadcastEvent(false)
	}

	// 2. Explorers step; the wait is the tick barrier.
	reports := o.commandExplorers()

	// 3. Refresh the planet ledger and retire the dead.
	o.pollPlanets()

	// 4. Book-keep and publish.
	o.stateMu.Lock()
	for _, r := range reports {
		o.explorerLedger[r.ID] = reportToSnapshot(r)
	}
	o.tick++
	tick := o.tick
	o.stateMu.Unlock()

	snap := o.Snapshot()
	if o.TickHook != nil {
		o.TickHook(snap)
	}
	every := o.cfg.BalanceConfig.SnapshotEveryTicks
	if o.sink != nil && every > 0 && tick%every == 0 {
		if err := o.sink.Record(snap); err != nil {
			o.log.Warn("snapshot archive failed", zap.Error(err))
		}
	}
	return true
}

// broadcastEvent delivers a sunray (true) or asteroid (false) to every
// living planet and collects the acks.
func (o *Orchestrator) broadcastEvent(sunray bool) {
	o.stateMu.RLock()
	targets := make([]*planet.Actor, 0, len(o.planets))
	for id, actor := range o.planets {
		if o.planetLedger[id].Alive {
			targets = append(targets, actor)
		}
	}
	o.stateMu.RUnlock()

	for _, actor := range targets {
		ack := make(chan planet.EventAck, 1)
		var req planet.Request
		if sunray {
			req = planet.SunrayEvent{Ack: ack}
		} else {
			req = planet.AsteroidEvent{Ack: ack}
		}
		select {
		case actor.Mailbox() <- req:
			select {
			case <-ack:
			case <-time.After(pollTimeout):
				o.log.Warn("event ack timeout", zap.Int("planet", actor.ID()))
			}
		case <-time.After(pollTimeout):
			o.log.Warn("event delivery timeout", zap.Int("planet", actor.ID()))
		}
	}
	if sunray {
		o.log.Debug("sunray swept the galaxy")
	} else {
		o.log.Debug("asteroid shower hit the galaxy")
	}
}

// commandExplorers fans one tick command out to every living explorer and
// gathers all reports before returning.
func (o *Orchestrator) commandExplorers() []explorer.Report {
	o.stateMu.RLock()
	tick := o.tick
	live := make([]*explorer.Actor, 0, len(o.explorers))
	for id, actor := range o.explorers {
		if o.explorerLedger[id].Alive {
			live = append(live, actor)
		}
	}
	o.stateMu.RUnlock()

	resp := make(chan explorer.Report, len(live))
	for _, actor := range live {
		actor.Ticks() <- explorer.TickCommand{Tick: tick, Resp: resp}
	}
	reports := make([]explorer.Report, 0, len(live))
	for range live {
		reports = append(reports, <-resp)
	}
	return reports
}

// pollPlanets queries every planet still on the books. Dead planets are
// removed from the topology (their former links are preserved for
// evacuation); silent planets keep their last ledger entry, flagged
// unknown.
func (o *Orchestrator) pollPlanets() {
	o.stateMu.RLock()
	actors := make([]*planet.Actor, 0, len(o.planets))
	for id, actor := range o.planets {
		if o.planetLedger[id].Alive {
			actors = append(actors, actor)
		}
	}
	o.stateMu.RUnlock()

	for _, actor := range actors {
		state, ok := o.queryPlanet(actor)

		o.stateMu.Lock()
		entry := o.planetLedger[actor.ID()]
		if !ok {
			entry.Known = false
			o.planetLedger[actor.ID()] = entry
			o.stateMu.Unlock()
			continue
		}
		entry = stateToSnapshot(state)
		o.planetLedger[actor.ID()] = entry
		if !state.Alive && o.graph.Contains(state.ID) {
			o.lastLinks[state.ID] = o.graph.Neighbors(state.ID)
			o.graph.RemoveNode(state.ID)
			o.log.Info("planet removed from topology",
				zap.Int("planet", state.ID),
				zap.Bool("still_connected", o.graph.IsConnected()))
		}
		o.stateMu.Unlock()
	}
}

func (o *Orchestrator) queryPlanet(actor *planet.Actor) (planet.State, bool) {
	resp := make(chan planet.State, 1)
	select {
	case actor.Mailbox() <- planet.QueryRequest{Resp: resp}:
	case <-time.After(pollTimeout):
		return planet.State{}, false
	}
	select {
	case state := <-resp:
		return state, true
	case <-time.After(pollTimeout):
		return planet.State{}, false
	}
}

// Snapshot assembles the public galaxy view from the ledger. Never blocks
// on an actor.
func (o *Orchestrator) Snapshot() game.GalaxySnapshot {
	o.stateMu.RLock()
	defer o.stateMu.RUnlock()

	snap := game.GalaxySnapshot{
		Tick:          o.tick,
		Running:       o.running,
		Connected:     o.graph.IsConnected(),
		CriticalNodes: o.graph.CriticalNodes(),
	}
	for _, p := range o.cfg.Planets {
		snap.Planets = append(snap.Planets, o.planetLedger[p.ID])
	}
	for _, e := range o.cfg.Explorers {
		snap.Explorers = append(snap.Explorers, o.explorerLedger[e.ID])
	}
	return snap
}

// Configure swaps one explorer's strategy and target at a tick boundary.
func (o *Orchestrator) Configure(explorerID int, strategy string, target resource.Kind, fallbacks []resource.Kind) error {
	if !game.ValidStrategies[strategy] {
		return fmt.Errorf("unknown strategy %q", strategy)
	}
	o.stateMu.RLock()
	actor, ok := o.explorers[explorerID]
	alive := o.explorerLedger[explorerID].Alive
	o.stateMu.RUnlock()
	if !ok {
		return fmt.Errorf("unknown explorer %d", explorerID)
	}
	if !alive {
		return fmt.Errorf("explorer %d is dead", explorerID)
	}

	done := make(chan struct{}, 1)
	actor.Control() <- explorer.ConfigureCommand{
		Strategy: strategy, Target: target, Fallbacks: fallbacks, Resp: done,
	}
	<-done

	o.stateMu.Lock()
	entry := o.explorerLedger[explorerID]
	entry.Strategy = strategy
	entry.Target = target.String()
	o.explorerLedger[explorerID] = entry
	o.stateMu.Unlock()
	return nil
}

// SetEventRates adjusts probability-mode event rates (control surface).
func (o *Orchestrator) SetEventRates(sunray, asteroid float64) {
	o.stepMu.Lock()
	o.scheduler.setRates(sunray, asteroid)
	o.stepMu.Unlock()
}

// --- explorer.Directory implementation ---

// directory is the orchestrator's read-only window handed to explorers.
type directory struct{ o *Orchestrator }

func (d directory) Neighbors(id int) []int {
	d.o.stateMu.RLock()
	defer d.o.stateMu.RUnlock()
	if d.o.graph.Contains(id) {
		return d.o.graph.Neighbors(id)
	}
	// Dead planet: lanes out still exist toward surviving planets.
	var out []int
	for _, n := range d.o.lastLinks[id] {
		if d.o.graph.Contains(n) {
			out = append(out, n)
		}
	}
	return out
}

func (d directory) Mailbox(id int) (chan<- planet.Request, bool) {
	d.o.stateMu.RLock()
	defer d.o.stateMu.RUnlock()
	actor, ok := d.o.planets[id]
	if !ok || !d.o.planetLedger[id].Alive {
		return nil, false
	}
	return actor.Mailbox(), true
}

// --- conversions ---

func stateToSnapshot(s planet.State) game.PlanetSnapshot {
	inv := make(map[string]int, len(s.Inventory))
	for k, n := range s.Inventory {
		inv[k.String()] = n
	}
	return game.PlanetSnapshot{
		ID:        s.ID,
		Class:     s.Class.String(),
		Inventory: inv,
		Energy:    s.Energy,
		Cells:     s.Cells,
		Rockets:   s.Rockets,
		Alive:     s.Alive,
		Known:     true,
	}
}

func reportToSnapshot(r explorer.Report) game.ExplorerSnapshot {
	inv := make(map[string]int, len(r.Bag))
	for k, n := range r.Bag {
		inv[k.String()] = n
	}
	target := ""
	if r.Target != 0 {
		target = r.Target.String()
	}
	return game.ExplorerSnapshot{
		ID:        r.ID,
		Position:  r.Position,
		Inventory: inv,
		Life:      r.Life,
		Strategy:  r.Strategy,
		Target:    target,
		Alive:     r.Alive,
	}
}
