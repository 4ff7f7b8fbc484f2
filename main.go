package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Cameron-Kurotori/safesnake/logging"
	"github.com/Cameron-Kurotori/safesnake/sdk"
	"github.com/Cameron-Kurotori/safesnake/stats"
	"github.com/go-kit/log/level"
)

const serverHeader = "battlesnake/github/safesnake"

// HTTP Handlers

func HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	response := info()
	_ = level.Debug(logging.GlobalLogger()).Log("msg", "index request received", "source_ip", r.RemoteAddr, "forwarded_for", r.Header["X-Forwarded-For"])
	writeJSON(w, response, "info")
}

func decodeState(w http.ResponseWriter, r *http.Request, endpoint string) (sdk.GameState, bool) {
	state := sdk.GameState{}
	err := json.NewDecoder(r.Body).Decode(&state)
	if err != nil {
		_ = level.Error(logging.GlobalLogger()).Log("msg", fmt.Sprintf("failed to decode %s json", endpoint), "err", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return state, false
	}
	return state, true
}

func writeJSON(w http.ResponseWriter, response interface{}, endpoint string) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		_ = level.Error(logging.GlobalLogger()).Log("msg", fmt.Sprintf("failed to encode %s response", endpoint), "err", err)
	}
}

func (g *game) HandleStart(w http.ResponseWriter, r *http.Request) {
	state, ok := decodeState(w, r, "start")
	if !ok {
		return
	}
	g.start(state)
}

func (g *game) HandleMove(w http.ResponseWriter, r *http.Request) {
	state, ok := decodeState(w, r, "move")
	if !ok {
		return
	}
	writeJSON(w, g.move(state), "move")
}

func (g *game) HandleEnd(w http.ResponseWriter, r *http.Request) {
	state, ok := decodeState(w, r, "end")
	if !ok {
		return
	}
	g.end(state)

	// Nothing to respond with here
}

func (g *game) HandleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, g.summary(), "stats")
}

func withServerHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", serverHeader)
		next.ServeHTTP(w, r)
	})
}

func newHandler(g *game) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", HandleIndex)
	mux.HandleFunc("/start", g.HandleStart)
	mux.HandleFunc("/move", g.HandleMove)
	mux.HandleFunc("/end", g.HandleEnd)
	mux.HandleFunc("/stats", g.HandleStats)
	return withServerHeader(mux)
}

// Main Entrypoint

func main() {
	cfg, err := loadConfigFromEnv()
	if err != nil {
		_ = level.Error(logging.GlobalLogger()).Log("msg", "invalid configuration", "err", err)
		os.Exit(1)
	}
	allow, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		_ = level.Error(logging.GlobalLogger()).Log("msg", "invalid configuration", "err", err)
		os.Exit(1)
	}
	logging.SetGlobalLogger(logging.NewLogger(os.Stderr, allow))
	logger := logging.GlobalLogger()

	store, err := stats.Open(cfg.StatsFile)
	if err != nil {
		_ = level.Error(logger).Log("msg", "failed to open stats", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g := &game{
		tracker: stats.NewTracker(),
		store:   store,
		now:     time.Now,
	}
	go g.tracker.RunJanitor(ctx, cfg.CleanupInterval, cfg.StaleGameAge)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: newHandler(g),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	_ = level.Info(logger).Log("msg", "starting battlesnake server", "addr", fmt.Sprintf("http://0.0.0.0:%s", cfg.Port), "stats_file", cfg.StatsFile)
	err = server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		_ = level.Info(logger).Log("msg", "server closed")
		return
	}
	_ = level.Error(logger).Log("msg", "server closed", "err", err)
	os.Exit(1)
}
