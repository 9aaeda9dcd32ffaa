/*
Package game
File: config.go
Description:
    Loads and validates the galaxy configuration.

    It reads 'galaxy.yaml' (or whatever path it is given), fills in
    defaults for anything the file leaves at zero, and checks the
    structural rules the simulation depends on: unique planet ids, links
    that point at real planets, classes in {A,B,C,D}, explorers starting
    on real planets, and complex-only targets.
*/

package game

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Simulation defaults applied when the YAML omits a value.
const (
	DefaultTickMillis   = 1000
	DefaultMailboxSize  = 16
	DefaultEnergyCells  = 4
	DefaultExplorerLife = 30
	DefaultStrategy     = "greedy"
)

// ValidStrategies is the closed set of explorer policies.
var ValidStrategies = map[string]bool{
	"greedy":              true,
	"greedy_with_purpose": true,
	"best_path":           true,
	"best_path_adaptive":  true,
}

// singleCellClasses hold exactly one energy cell by rule.
var singleCellClasses = map[string]bool{"B": true, "C": true}

// LoadConfig reads the galaxy file and returns a validated configuration.
func LoadConfig(path string) (*Galaxy, error) {
	// 1. Read the YAML file
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read galaxy config: %w", err)
	}

	// 2. Unmarshal into the Galaxy struct
	var galaxy Galaxy
	if err := yaml.Unmarshal(raw, &galaxy); err != nil {
		return nil, fmt.Errorf("parse galaxy config: %w", err)
	}

	// 3. Apply defaults and validate
	if err := galaxy.Normalize(); err != nil {
		return nil, err
	}
	return &galaxy, nil
}

// Normalize applies defaults for zero-valued fields and validates the
// configuration. Exposed so tests can build configs in code.
func (g *Galaxy) Normalize() error {
	if g.BalanceConfig.TickMillis == 0 {
		g.BalanceConfig.TickMillis = DefaultTickMillis
	}
	if g.BalanceConfig.MailboxSize == 0 {
		g.BalanceConfig.MailboxSize = DefaultMailboxSize
	}
	if g.BalanceConfig.SunrayRate < 0 || g.BalanceConfig.SunrayRate > 1 {
		return fmt.Errorf("sunray_rate %v out of [0,1]", g.BalanceConfig.SunrayRate)
	}
	if g.BalanceConfig.AsteroidRate < 0 || g.BalanceConfig.AsteroidRate > 1 {
		return fmt.Errorf("asteroid_rate %v out of [0,1]", g.BalanceConfig.AsteroidRate)
	}
	for _, c := range g.BalanceConfig.EventSequence {
		if c != 'S' && c != 'A' && c != '$' {
			return fmt.Errorf("event_sequence: unknown event %q", c)
		}
	}

	if len(g.Planets) == 0 {
		return fmt.Errorf("galaxy has no planets")
	}

	seen := make(map[int]bool, len(g.Planets))
	for i := range g.Planets {
		p := &g.Planets[i]
		if seen[p.ID] {
			return fmt.Errorf("duplicate planet id %d", p.ID)
		}
		seen[p.ID] = true

		switch p.Class {
		case "A", "B", "C", "D":
		default:
			return fmt.Errorf("planet %d: unknown class %q", p.ID, p.Class)
		}

		if !p.Generates.IsBase() {
			return fmt.Errorf("planet %d: generates %s, which is not a base kind", p.ID, p.Generates)
		}

		if p.EnergyCells == 0 {
			p.EnergyCells = DefaultEnergyCells
		}
		// Classes B and C carry a single cell whatever the file says.
		if singleCellClasses[p.Class] {
			p.EnergyCells = 1
		}
	}

	// Links must point at planets that exist. The graph is undirected, so a
	// one-sided link in the file is enough; the orchestrator mirrors it.
	for _, p := range g.Planets {
		for _, link := range p.Links {
			if !seen[link] {
				return fmt.Errorf("planet %d links to unknown planet %d", p.ID, link)
			}
			if link == p.ID {
				return fmt.Errorf("planet %d links to itself", p.ID)
			}
		}
	}

	seenExplorer := make(map[int]bool, len(g.Explorers))
	for i := range g.Explorers {
		e := &g.Explorers[i]
		if seenExplorer[e.ID] {
			return fmt.Errorf("duplicate explorer id %d", e.ID)
		}
		seenExplorer[e.ID] = true

		if !seen[e.StartPlanet] {
			return fmt.Errorf("explorer %d starts on unknown planet %d", e.ID, e.StartPlanet)
		}
		if e.Life == 0 {
			e.Life = DefaultExplorerLife
		}
		if e.Strategy == "" {
			e.Strategy = DefaultStrategy
		}
		if !ValidStrategies[e.Strategy] {
			return fmt.Errorf("explorer %d: unknown strategy %q", e.ID, e.Strategy)
		}
		if e.Target == 0 && e.Strategy != "greedy" {
			return fmt.Errorf("explorer %d: strategy %s needs a target resource", e.ID, e.Strategy)
		}
		if e.Target != 0 && !e.Target.IsComplex() {
			return fmt.Errorf("explorer %d: target %s is not a complex kind", e.ID, e.Target)
		}
		for _, f := range e.Fallbacks {
			if !f.IsComplex() {
				return fmt.Errorf("explorer %d: fallback %s is not a complex kind", e.ID, f)
			}
		}
	}

	return nil
}

// PlanetByID returns the config entry for a planet, or nil.
func (g *Galaxy) PlanetByID(id int) *PlanetConfig {
	for i := range g.Planets {
		if g.Planets[i].ID == id {
			return &g.Planets[i]
		}
	}
	return nil
}
