// Command server wires every collaborator together and starts the HTTP
// listener: load config, build the store/bus/scheduler/catalog/registry
// graph, register routes, and serve until a signal arrives.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/partyhost/server/internal/catalog"
	"github.com/partyhost/server/internal/config"
	"github.com/partyhost/server/internal/eventbus"
	"github.com/partyhost/server/internal/game"
	"github.com/partyhost/server/internal/game/liar"
	"github.com/partyhost/server/internal/game/mafia"
	"github.com/partyhost/server/internal/game/marble"
	"github.com/partyhost/server/internal/game/quiz"
	"github.com/partyhost/server/internal/game/truth"
	"github.com/partyhost/server/internal/httpapi"
	"github.com/partyhost/server/internal/logging"
	"github.com/partyhost/server/internal/qr"
	"github.com/partyhost/server/internal/registry"
	"github.com/partyhost/server/internal/scheduler"
	"github.com/partyhost/server/internal/store"
)

func main() {
	cfg := config.Load()

	var st store.Store
	if cfg.StateStoreAddr != "" {
		logging.Info("store: using redis at %s", cfg.StateStoreAddr)
		st = store.NewRedisStore(cfg.StateStoreAddr, cfg.StateStorePoolSize)
	} else {
		logging.Info("store: using in-memory store")
		st = store.NewMemoryStore()
	}
	defer st.Close()

	bus := eventbus.New(32, cfg.SSEWriteTimeout, cfg.EventStreamIdleTimeout)
	sched := scheduler.New()
	cat := catalog.New()
	reg := registry.New(st, bus, cfg.RoomTTL)

	deps := game.Deps{
		Store:     st,
		Bus:       bus,
		Scheduler: sched,
		Catalog:   cat,
		Registry:  reg,
		RoomTTL:   cfg.RoomTTL,
	}

	apiCtx := &httpapi.Context{
		Config:   cfg,
		Registry: reg,
		Bus:      bus,
		Catalog:  cat,
		QR:       qr.New(cfg.JoinBaseURL),
		Marble:   marble.New(deps),
		Mafia:    mafia.New(deps),
		Liar:     liar.New(deps),
		Quiz:     quiz.New(deps),
		Truth:    truth.New(deps),
	}

	go reapLoop(bus)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: withCORS(cfg.FrontendOrigin, httpapi.NewRouter(apiCtx)),
	}

	go func() {
		logging.Info("server: listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Error("server: %v", err)
		}
	}()

	waitForShutdown(srv)
}

// reapLoop periodically drops event streams that have gone idle past
// the configured timeout, so a crashed client's socket doesn't leak a
// channel forever.
func reapLoop(bus *eventbus.Bus) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		bus.ReapIdle()
	}
}

func withCORS(origin string, next http.Handler) http.Handler {
	if origin == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func waitForShutdown(srv *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logging.Info("server: shutting down")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("server: shutdown error: %v", err)
	}
}
