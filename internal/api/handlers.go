/*
Package api
File: handlers.go
Description:
    Contains the HTTP handlers for the REST control surface.
    These functions process incoming JSON requests, validate them, and
    forward them to the orchestrator; no simulation state is touched
    directly here.

    Key Responsibilities:
    - Input validation (is the JSON valid? does the explorer exist?)
    - Control (start/pause/resume/step/configure/shutdown)
    - Read-only queries (snapshot, planets, explorers)
*/

package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/everforgeworks/galaxies-frontier/internal/resource"
	"github.com/everforgeworks/galaxies-frontier/internal/sim"
)

// Server bundles the orchestrator with the real-time hub.
type Server struct {
	Sim *sim.Orchestrator
	Hub *Hub
	Log *zap.Logger
}

// Request DTOs (Data Transfer Objects)

type StepRequest struct {
	Ticks int `json:"ticks"`
}

type ConfigureRequest struct {
	ExplorerID int      `json:"explorer_id"`
	Strategy   string   `json:"strategy"`
	Target     string   `json:"target"`
	Fallbacks  []string `json:"fallbacks"`
}

type EventRatesRequest struct {
	SunrayRate   float64 `json:"sunray_rate"`
	AsteroidRate float64 `json:"asteroid_rate"`
}

// Routes registers every endpoint on the mux.
func (s *Server) Routes(mux *http.ServeMux) {
	// Information endpoints
	mux.HandleFunc("/api/snapshot", s.handleSnapshot)
	mux.HandleFunc("/api/planets", s.handlePlanets)
	mux.HandleFunc("/api/explorers", s.handleExplorers)

	// Control endpoints
	mux.HandleFunc("/api/start", s.handleStart)
	mux.HandleFunc("/api/pause", s.handlePause)
	mux.HandleFunc("/api/step", s.handleStep)
	mux.HandleFunc("/api/configure", s.handleConfigure)
	mux.HandleFunc("/api/events", s.handleEventRates)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)

	// Real-time feed
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ServeWs(s.Hub, w, r)
	})
}

// handleSnapshot returns the full galaxy view. Never blocks on an actor.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.Snapshot())
}

// handlePlanets returns only the planet slice of the snapshot.
func (s *Server) handlePlanets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.Snapshot().Planets)
}

// handleExplorers returns only the explorer slice of the snapshot.
func (s *Server) handleExplorers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.Snapshot().Explorers)
}

// handleStart starts a waiting run, or lifts a pause. Actors are
// spawned at boot but the galaxy does not tick until this is called.
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	s.Sim.Resume()
	writeJSON(w, map[string]bool{"running": true})
}

// handlePause suspends the free-running tick loop.
func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	s.Sim.Pause()
	writeJSON(w, map[string]bool{"running": false})
}

// handleStep advances a (typically paused) run by N ticks.
func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	var req StepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if req.Ticks < 1 {
		req.Ticks = 1
	}
	s.Sim.Step(req.Ticks)
	writeJSON(w, map[string]int{"tick": s.Sim.Tick()})
}

// handleConfigure swaps an explorer's strategy/target at runtime.
func (s *Server) handleConfigure(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	var req ConfigureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	var target resource.Kind
	if req.Target != "" {
		parsed, err := resource.ParseKind(req.Target)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		target = parsed
	}
	var fallbacks []resource.Kind
	for _, name := range req.Fallbacks {
		parsed, err := resource.ParseKind(name)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		fallbacks = append(fallbacks, parsed)
	}

	if err := s.Sim.Configure(req.ExplorerID, req.Strategy, target, fallbacks); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	s.Log.Info("explorer reconfigured",
		zap.Int("explorer", req.ExplorerID), zap.String("strategy", req.Strategy))
	writeJSON(w, map[string]bool{"ok": true})
}

// handleEventRates adjusts sunray/asteroid probabilities.
func (s *Server) handleEventRates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	var req EventRatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if req.SunrayRate < 0 || req.SunrayRate > 1 || req.AsteroidRate < 0 || req.AsteroidRate > 1 {
		http.Error(w, "rates must be within [0,1]", http.StatusBadRequest)
		return
	}
	s.Sim.SetEventRates(req.SunrayRate, req.AsteroidRate)
	writeJSON(w, map[string]bool{"ok": true})
}

// handleShutdown stops every actor goroutine. The HTTP process itself
// stays up so the final state remains queryable.
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := s.Sim.Shutdown(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.Log.Info("simulation stopped via api")
	writeJSON(w, map[string]bool{"stopped": true})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
