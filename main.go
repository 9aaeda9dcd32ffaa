/*
Package main
File: main.go
Description: Server entry point. Loads the galaxy configuration, spawns the
planet and explorer actors, starts the real-time WebSocket hub, and runs the
tick loop that keeps the galaxy alive.
*/

package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/everforgeworks/galaxies-frontier/internal/api"
	"github.com/everforgeworks/galaxies-frontier/internal/archive"
	"github.com/everforgeworks/galaxies-frontier/internal/game"
	"github.com/everforgeworks/galaxies-frontier/internal/sim"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// 1. Load the static galaxy configuration from YAML
	configPath := os.Getenv("GALAXY_CONFIG")
	if configPath == "" {
		configPath = "galaxy.yaml"
	}
	cfg, err := game.LoadConfig(configPath)
	if err != nil {
		logger.Fatal("config fail", zap.Error(err))
	}

	// 2. Build the orchestrator (topology, planets, explorers)
	orch, err := sim.New(cfg, logger)
	if err != nil {
		logger.Fatal("galaxy init fail", zap.Error(err))
	}

	// 3. Optional snapshot archive
	if cfg.BalanceConfig.ArchivePath != "" {
		store, err := archive.Open(cfg.BalanceConfig.ArchivePath, logger)
		if err != nil {
			logger.Fatal("archive init fail", zap.Error(err))
		}
		defer store.Close()
		orch.SetSink(store)
		logger.Info("snapshot archive online",
			zap.String("path", cfg.BalanceConfig.ArchivePath),
			zap.String("run_id", store.RunID()))
	}

	// 4. Initialize and start the real-time WebSocket hub
	hub := api.NewHub(logger)
	go hub.Run()

	// 5. Feed every tick's snapshot to connected viewers
	orch.TickHook = func(snap game.GalaxySnapshot) {
		envelope := api.Envelope{Type: "tick_snapshot", Payload: snap}
		jsonBytes, err := json.Marshal(envelope)
		if err != nil {
			logger.Warn("snapshot marshal fail", zap.Error(err))
			return
		}
		select {
		case hub.Broadcast <- jsonBytes:
		default:
			// Viewers lagging must not stall the tick loop.
		}
	}

	// 6. Spawn the actors; the galaxy waits for POST /api/start before
	// the first tick runs
	if err := orch.Start(); err != nil {
		logger.Fatal("start fail", zap.Error(err))
	}
	runCtx, stopTicking := context.WithCancel(context.Background())
	go orch.Run(runCtx)

	// 7. Graceful shutdown on SIGINT/SIGTERM
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		logger.Info("signal received, shutting down")
		stopTicking()
		if err := orch.Shutdown(); err != nil {
			logger.Warn("shutdown error", zap.Error(err))
		}
		os.Exit(0)
	}()

	// 8. Setup router and handlers
	server := &api.Server{Sim: orch, Hub: hub, Log: logger}
	mux := http.NewServeMux()
	server.Routes(mux)

	// 9. Start the HTTP server
	port := os.Getenv("PORT")
	if port == "" {
		port = ":8081"
	}
	logger.Info("GALAXIES: FRONTIER server live", zap.String("port", port))
	if err := http.ListenAndServe(port, corsMiddleware(mux)); err != nil {
		logger.Fatal("http server fail", zap.Error(err))
	}
}

// corsMiddleware lets browser frontends talk to the server across origins.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
