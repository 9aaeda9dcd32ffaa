/*
Package planet
File: actor.go
Description:
    The planet actor. One goroutine per planet owns all of its economic
    state (energy cells, inventory, rockets) and drains a bounded mailbox
    of requests, one at a time, in arrival order.

    No handler reads or writes another planet's state; cross-planet effects
    only exist at the orchestrator level. A planet whose last energy cell
    is destroyed transitions to dead and answers every further request with
    PlanetUnavailable until it is stopped.
*/

package planet

import (
	"context"

	"go.uber.org/zap"

	"github.com/everforgeworks/galaxies-frontier/internal/game"
	"github.com/everforgeworks/galaxies-frontier/internal/resource"
)

// Actor is one planet's state machine. Construct with New, then call Run
// in its own goroutine. All fields below mailbox are owned by that
// goroutine exclusively.
type Actor struct {
	id      int
	class   Class
	limits  Limits
	mailbox chan Request
	log     *zap.Logger

	generates resource.Kind
	cells     []bool // one flag per remaining cell slot; true = charged
	inventory map[resource.Kind]int
	rockets   int
	everBuilt int // rockets built over the planet's lifetime (cap applies here)
	generated int
	combines  int
	alive     bool
}

// New builds a planet actor from its config entry. Cells start charged.
func New(cfg game.PlanetConfig, mailboxSize int, log *zap.Logger) (*Actor, error) {
	class, err := ParseClass(cfg.Class)
	if err != nil {
		return nil, err
	}
	limits := LimitsFor(class)

	slots := cfg.EnergyCells
	if limits.SingleCell {
		slots = 1
	}
	cells := make([]bool, slots)
	for i := range cells {
		cells[i] = true
	}

	return &Actor{
		id:        cfg.ID,
		class:     class,
		limits:    limits,
		mailbox:   make(chan Request, mailboxSize),
		log:       log.With(zap.Int("planet", cfg.ID), zap.Stringer("class", class)),
		generates: cfg.Generates,
		cells:     cells,
		inventory: make(map[resource.Kind]int),
		alive:     true,
	}, nil
}

// ID returns the planet id.
func (a *Actor) ID() int { return a.id }

// Mailbox is the send side of the planet's bounded inbound queue. A full
// mailbox blocks the sender; that backpressure is intentional.
func (a *Actor) Mailbox() chan<- Request { return a.mailbox }

// Run drains the mailbox until the context is cancelled. Shutdown is
// cooperative: the current message finishes, then the loop exits, so no
// mutation is ever left half-applied.
func (a *Actor) Run(ctx context.Context) {
	a.log.Debug("planet online",
		zap.Int("cells", len(a.cells)),
		zap.Stringer("generates", a.generates))
	for {
		select {
		case <-ctx.Done():
			a.log.Debug("planet stopping")
			return
		case req := <-a.mailbox:
			a.serve(req)
		}
	}
}

// serve dispatches one request. Every branch sends exactly one reply.
func (a *Actor) serve(req Request) {
	switch m := req.(type) {
	case GenerateRequest:
		m.Resp <- a.handleGenerate()
	case CombineRequest:
		m.Resp <- a.handleCombine(m)
	case RocketRequest:
		m.Resp <- a.handleRocket(m)
	case HarvestRequest:
		m.Resp <- a.handleHarvest(m)
	case SunrayEvent:
		ack := a.handleSunray()
		if m.Ack != nil {
			m.Ack <- ack
		}
	case AsteroidEvent:
		ack := a.handleAsteroid()
		if m.Ack != nil {
			m.Ack <- ack
		}
	case QueryRequest:
		m.Resp <- a.snapshot()
	default:
		a.log.Warn("unknown request dropped")
	}
}

func (a *Actor) handleGenerate() GenerateReply {
	if !a.alive {
		return GenerateReply{Outcome: game.PlanetUnavailable}
	}
	if !allows(a.generated, a.limits.Generation) {
		return GenerateReply{Outcome: game.CapabilityExceeded}
	}
	if !a.spendCharge() {
		return GenerateReply{Outcome: game.InsufficientEnergy}
	}
	a.generated++
	a.inventory[a.generates]++
	return GenerateReply{Outcome: game.OK, Kind: a.generates}
}

func (a *Actor) handleCombine(m CombineRequest) CombineReply {
	if !a.alive {
		return CombineReply{Outcome: game.PlanetUnavailable}
	}
	if !allows(a.combines, a.limits.Combines) {
		return CombineReply{Outcome: game.CapabilityExceeded}
	}

	product, ok := resource.Combine(m.A, m.B)
	if !ok {
		return CombineReply{Outcome: game.NoRecipe}
	}

	if m.Supplied {
		// Inputs came with the request (the explorer's bag); the product
		// unit travels back on the reply. Planet stock is untouched.
		a.combines++
		return CombineReply{Outcome: game.OK, Product: product}
	}

	// Stock path: both inputs must be on hand (two units when A == B).
	needed := map[resource.Kind]int{}
	needed[m.A]++
	needed[m.B]++
	for kind, n := range needed {
		if a.inventory[kind] < n {
			return CombineReply{Outcome: game.InsufficientInventory}
		}
	}
	a.inventory[m.A]--
	a.inventory[m.B]--
	a.dropZero(m.A)
	a.dropZero(m.B)
	a.inventory[product]++
	a.combines++
	return CombineReply{Outcome: game.OK, Product: product}
}

func (a *Actor) handleRocket(m RocketRequest) RocketReply {
	if !a.alive {
		return RocketReply{Outcome: game.PlanetUnavailable}
	}
	switch m.Action {
	case RocketCreate:
		if !allows(a.everBuilt, a.limits.Rockets) {
			return RocketReply{Outcome: game.CapabilityExceeded, Rockets: a.rockets}
		}
		if !a.spendCharge() {
			return RocketReply{Outcome: game.InsufficientEnergy, Rockets: a.rockets}
		}
		a.rockets++
		a.everBuilt++
		return RocketReply{Outcome: game.OK, Rockets: a.rockets}
	case RocketUse:
		if a.rockets == 0 {
			return RocketReply{Outcome: game.NoRocket}
		}
		a.rockets--
		return RocketReply{Outcome: game.OK, Rockets: a.rockets}
	}
	return RocketReply{Outcome: game.CapabilityExceeded}
}

func (a *Actor) handleHarvest(m HarvestRequest) HarvestReply {
	if !a.alive {
		return HarvestReply{Outcome: game.PlanetUnavailable}
	}
	if a.inventory[m.Kind] == 0 {
		return HarvestReply{Outcome: game.InsufficientInventory}
	}
	a.inventory[m.Kind]--
	a.dropZero(m.Kind)
	return HarvestReply{Outcome: game.OK, Kind: m.Kind}
}

func (a *Actor) handleSunray() EventAck {
	if a.alive {
		// Recharge the first spent cell, if any.
		for i, charged := range a.cells {
			if !charged {
				a.cells[i] = true
				break
			}
		}
	}
	return a.eventAck()
}

func (a *Actor) handleAsteroid() EventAck {
	if a.alive && len(a.cells) > 0 {
		// The strike destroys one cell slot, charged ones first.
		victim := len(a.cells) - 1
		for i, charged := range a.cells {
			if charged {
				victim = i
				break
			}
		}
		a.cells = append(a.cells[:victim], a.cells[victim+1:]...)
		if len(a.cells) == 0 {
			a.alive = false
			a.log.Info("planet destroyed by asteroid")
		}
	}
	return a.eventAck()
}

func (a *Actor) eventAck() EventAck {
	return EventAck{Alive: a.alive, Energy: a.chargedCells(), Cells: len(a.cells)}
}

// snapshot copies the actor's state; callers may keep it indefinitely.
func (a *Actor) snapshot() State {
	inv := make(map[resource.Kind]int, len(a.inventory))
	for k, n := range a.inventory {
		inv[k] = n
	}
	return State{
		ID:        a.id,
		Class:     a.class,
		Generates: a.generates,
		Inventory: inv,
		Energy:    a.chargedCells(),
		Cells:     len(a.cells),
		Rockets:   a.rockets,
		Combines:  a.combines,
		Alive:     a.alive,
	}
}

// spendCharge consumes one charged cell; false when none is charged.
func (a *Actor) spendCharge() bool {
	for i, charged := range a.cells {
		if charged {
			a.cells[i] = false
			return true
		}
	}
	return false
}

func (a *Actor) chargedCells() int {
	n := 0
	for _, charged := range a.cells {
		if charged {
			n++
		}
	}
	return n
}

func (a *Actor) dropZero(k resource.Kind) {
	if a.inventory[k] == 0 {
		delete(a.inventory, k)
	}
}
