/*
Package game
File: models.go
Description:
    Defines all data structures (Structs) shared across the simulation.
    This file serves as the "schema" for the application, mapping directly
    to the YAML galaxy configuration and the JSON snapshot API.

    No logic is performed here; this file is strictly for type definitions.
*/

package game

import "github.com/everforgeworks/galaxies-frontier/internal/resource"

// Balance stores global tuning variables loaded from 'galaxy.yaml'.
// These values control the pace of the simulation and its environment.
type Balance struct {
	TickMillis         int     `yaml:"tick_millis" json:"tick_millis"`                   // Wall-clock length of one tick in free-running mode
	Seed               int64   `yaml:"seed" json:"seed"`                                 // RNG seed (events, greedy tie-breaks); 0 = derive from clock
	SunrayRate         float64 `yaml:"sunray_rate" json:"sunray_rate"`                   // Per-tick probability of a sunray (probability mode)
	AsteroidRate       float64 `yaml:"asteroid_rate" json:"asteroid_rate"`               // Per-tick probability of an asteroid strike
	EventSequence      string  `yaml:"event_sequence" json:"event_sequence"`             // Scripted events: 'S' sunray, 'A' asteroid, '$' pause; empty = probability mode
	SnapshotEveryTicks int     `yaml:"snapshot_every_ticks" json:"snapshot_every_ticks"` // Archive cadence; 0 disables archiving
	ArchivePath        string  `yaml:"archive_path" json:"archive_path"`                 // SQLite file for the snapshot archive; empty disables it
	MailboxSize        int     `yaml:"mailbox_size" json:"mailbox_size"`                 // Bounded capacity of each planet's inbound queue
}

// PlanetConfig describes one planet in the galaxy file.
type PlanetConfig struct {
	ID    int    `yaml:"id" json:"id"`       // Unique planet id
	Class string `yaml:"class" json:"class"` // Rule set: "A", "B", "C" or "D"

	// Generates is the base kind this planet can produce while it has
	// charged energy cells.
	Generates resource.Kind `yaml:"generates" json:"generates"`

	// EnergyCells is the number of cell slots. Classes B and C are
	// single-cell by rule; the loader forces this to 1 for them.
	EnergyCells int `yaml:"energy_cells" json:"energy_cells"`

	// Links lists the ids of adjacent planets (undirected).
	Links []int `yaml:"links" json:"links"`
}

// ExplorerConfig describes one traveler.
type ExplorerConfig struct {
	ID          int    `yaml:"id" json:"id"`
	StartPlanet int    `yaml:"start_planet" json:"start_planet"` // Initial position
	Life        int    `yaml:"life" json:"life"`                 // Travel budget; one unit per edge or rocket jump
	Strategy    string `yaml:"strategy" json:"strategy"`         // greedy | greedy_with_purpose | best_path | best_path_adaptive

	// Target is the complex kind the explorer pursues. Fallbacks is the
	// ordered downgrade chain used by the adaptive strategy when the
	// current target becomes unreachable.
	Target    resource.Kind   `yaml:"target" json:"target"`
	Fallbacks []resource.Kind `yaml:"fallbacks" json:"fallbacks"`

	// KnowsTopology seeds the explorer with the full galaxy map instead of
	// making it discover neighbours planet by planet.
	KnowsTopology bool `yaml:"knows_topology" json:"knows_topology"`
}

// Galaxy is the root configuration struct, mapping to the entire
// 'galaxy.yaml' file.
type Galaxy struct {
	BalanceConfig Balance          `yaml:"balance"`
	Planets       []PlanetConfig   `yaml:"planets"`
	Explorers     []ExplorerConfig `yaml:"explorers"`
}

// --- Snapshot DTOs (JSON surface, read-only) ---

// PlanetSnapshot is the point-in-time public view of one planet.
// Known is false when the planet actor did not answer the state query in
// time; the other fields then hold the last values the orchestrator saw.
type PlanetSnapshot struct {
	ID        int            `json:"id"`
	Class     string         `json:"class"`
	Inventory map[string]int `json:"inventory"`
	Energy    int            `json:"energy"` // charged cells
	Cells     int            `json:"cells"`  // total cell slots remaining
	Rockets   int            `json:"rockets"`
	Alive     bool           `json:"alive"`
	Known     bool           `json:"known"`
}

// ExplorerSnapshot is the point-in-time public view of one explorer.
type ExplorerSnapshot struct {
	ID        int            `json:"id"`
	Position  int            `json:"position"`
	Inventory map[string]int `json:"inventory"`
	Life      int            `json:"life"`
	Strategy  string         `json:"strategy"`
	Target    string         `json:"target"`
	Alive     bool           `json:"alive"`
}

// GalaxySnapshot is the immutable whole-galaxy view handed to external
// consumers (websocket hub, REST handlers, archive). Safe to read from any
// goroutine; the orchestrator builds a fresh copy per request.
type GalaxySnapshot struct {
	Tick          int                `json:"tick"`
	Running       bool               `json:"running"`
	Connected     bool               `json:"connected"`
	CriticalNodes []int              `json:"critical_nodes"`
	Planets       []PlanetSnapshot   `json:"planets"`
	Explorers     []ExplorerSnapshot `json:"explorers"`
}
