/*
Package planet
File: messages.go
Description:
    The planet actor's message contract.

    Each request is a struct carrying its own typed reply channel; the
    actor sends exactly one reply per request. Requests arrive on one
    bounded mailbox and are served strictly in arrival order, which is the
    whole concurrency story: no two mutations of the same planet ever
    overlap, so the capability caps hold trivially under contention.

    Reply channels should be buffered (capacity 1) so a slow requester
    never wedges the planet loop.
*/

package planet

import (
	"github.com/everforgeworks/galaxies-frontier/internal/game"
	"github.com/everforgeworks/galaxies-frontier/internal/resource"
)

// Request is any message a planet can serve.
type Request interface{ isRequest() }

// GenerateRequest asks the planet to produce one unit of its base kind.
// On success the unit lands in planet stock (harvest moves it out) and the
// reply names the kind. Costs one energy-cell charge.
type GenerateRequest struct {
	Resp chan GenerateReply
}

type GenerateReply struct {
	Outcome game.Outcome
	Kind    resource.Kind
}

// CombineRequest asks the planet to combine two resource units.
//
// Supplied=true means the requester provides the two input units from its
// own inventory (the explorer's bag, as in a traveler bringing materials
// to a workshop); the planet validates class cap and recipe and the
// product unit travels back on the reply. Supplied=false draws the inputs
// from planet stock and credits the product to planet stock.
// Either way the mutation is all-or-nothing.
type CombineRequest struct {
	A, B     resource.Kind
	Supplied bool
	Resp     chan CombineReply
}

type CombineReply struct {
	Outcome game.Outcome
	Product resource.Kind
}

// RocketAction selects what RocketRequest does.
type RocketAction int

const (
	RocketCreate RocketAction = iota + 1
	RocketUse
)

// RocketRequest builds or consumes a rocket. Creation costs one energy
// charge and counts against the class cap; use consumes the rocket (the
// jump itself is realized by the explorer, not the planet).
type RocketRequest struct {
	Action RocketAction
	Resp   chan RocketReply
}

type RocketReply struct {
	Outcome game.Outcome
	Rockets int // rockets remaining after the request
}

// HarvestRequest removes one unit of the kind from planet stock for the
// requesting explorer.
type HarvestRequest struct {
	Kind resource.Kind
	Resp chan HarvestReply
}

type HarvestReply struct {
	Outcome game.Outcome
	Kind    resource.Kind
}

// SunrayEvent recharges one spent energy cell. Ack is optional.
type SunrayEvent struct {
	Ack chan EventAck
}

// AsteroidEvent destroys one energy cell outright. Either event source is
// the orchestrator's environment scheduler. Ack is optional.
type AsteroidEvent struct {
	Ack chan EventAck
}

type EventAck struct {
	Alive  bool
	Energy int // charged cells remaining
	Cells  int // cell slots remaining
}

// QueryRequest returns an immutable state snapshot for polling.
type QueryRequest struct {
	Resp chan State
}

// State is the planet's public, copied view. Mutating it affects nothing.
type State struct {
	ID        int
	Class     Class
	Generates resource.Kind
	Inventory map[resource.Kind]int
	Energy    int // charged cells
	Cells     int // cell slots remaining
	Rockets   int
	Combines  int // successful combinations so far
	Alive     bool
}

func (GenerateRequest) isRequest() {}
func (CombineRequest) isRequest()  {}
func (RocketRequest) isRequest()   {}
func (HarvestRequest) isRequest()  {}
func (SunrayEvent) isRequest()     {}
func (AsteroidEvent) isRequest()   {}
func (QueryRequest) isRequest()    {}
