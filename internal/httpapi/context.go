// Package httpapi is the external API surface: a thin request layer
// that routes commands into the registry and game machines and exposes
// their event streams, using net/http's routing and plain JSON
// envelopes rather than a third-party router or template fragments.
package httpapi

import (
	"net/http"

	"github.com/partyhost/server/internal/catalog"
	"github.com/partyhost/server/internal/config"
	"github.com/partyhost/server/internal/eventbus"
	"github.com/partyhost/server/internal/game/liar"
	"github.com/partyhost/server/internal/game/mafia"
	"github.com/partyhost/server/internal/game/marble"
	"github.com/partyhost/server/internal/game/quiz"
	"github.com/partyhost/server/internal/game/truth"
	"github.com/partyhost/server/internal/qr"
	"github.com/partyhost/server/internal/registry"
)

// Context holds every dependency a handler needs. One instance is built
// at startup and shared across all requests.
type Context struct {
	Config   *config.Config
	Registry *registry.Registry
	Bus      *eventbus.Bus
	Catalog  *catalog.Catalog
	QR       *qr.Generator

	Marble *marble.Machine
	Mafia  *mafia.Machine
	Liar   *liar.Machine
	Quiz   *quiz.Machine
	Truth  *truth.Machine
}

// NewRouter builds the full route table.
func NewRouter(ctx *Context) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", ctx.handleHealthz)

	mux.HandleFunc("POST /rooms", ctx.handleCreateRoom)
	mux.HandleFunc("POST /rooms/join", ctx.handleJoinRoom)
	mux.HandleFunc("GET /rooms/{roomId}", ctx.handleRoomInfo)
	mux.HandleFunc("GET /rooms/{roomId}/qr", ctx.handleRoomQR)

	mux.HandleFunc("GET /sse/connect", ctx.handleHostStream)
	mux.HandleFunc("GET /sse/player/connect", ctx.handlePlayerStream)

	mux.HandleFunc("POST /games/start", ctx.handleGamesStart)
	mux.HandleFunc("POST /games/reaction", ctx.handleReaction)

	mux.HandleFunc("POST /teams/random", ctx.handleTeamsRandom)
	mux.HandleFunc("POST /teams/select", ctx.handleTeamsSelect)
	mux.HandleFunc("POST /teams/reset", ctx.handleTeamsReset)
	mux.HandleFunc("GET /teams/status/{roomId}", ctx.handleTeamsStatus)

	mux.HandleFunc("GET /catalog/{game}/categories", ctx.handleListCategories)

	ctx.registerMarbleRoutes(mux)
	ctx.registerMafiaRoutes(mux)
	ctx.registerLiarRoutes(mux)
	ctx.registerQuizRoutes(mux)
	ctx.registerTruthRoutes(mux)

	return mux
}

func (ctx *Context) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
