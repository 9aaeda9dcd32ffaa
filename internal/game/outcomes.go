/*
Package game
File: outcomes.go
Description:
    The closed set of outcome codes carried on actor replies.

    Every code here is recoverable: strategies are expected to read the
    code and re-plan, never to crash. Only a violation of a planet's own
    capability matrix is treated as a fatal internal-consistency fault
    (and that is a plain error, not one of these codes).
*/

package game

// Outcome classifies the result of a request to a planet or explorer.
type Outcome int

const (
	// OK means the request succeeded and any promised mutation happened.
	OK Outcome = iota

	// NoRecipe: the combination pair has no product in the recipe table.
	NoRecipe

	// CapabilityExceeded: the planet's class forbids the operation or its
	// per-class limit (generation, combination, rocket) is already spent.
	CapabilityExceeded

	// InsufficientInventory: a required resource unit is not in stock.
	InsufficientInventory

	// InsufficientEnergy: no charged energy cell is left to pay for the
	// operation.
	InsufficientEnergy

	// NoRocket: rocket use requested but none has been built.
	NoRocket

	// PlanetUnavailable: the planet is dead (or unreachable); it rejects
	// every message with this code.
	PlanetUnavailable

	// Disconnected: no path exists between the explorer and a resource it
	// needs. Raised by route planning, not by planets.
	Disconnected
)

var outcomeNames = map[Outcome]string{
	OK:                    "ok",
	NoRecipe:              "no_recipe",
	CapabilityExceeded:    "capability_exceeded",
	InsufficientInventory: "insufficient_inventory",
	InsufficientEnergy:    "insufficient_energy",
	NoRocket:              "no_rocket",
	PlanetUnavailable:     "planet_unavailable",
	Disconnected:          "disconnected",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return "unknown_outcome"
}
