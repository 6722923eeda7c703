// Package game holds the capability shared by all five state machines:
// Deps bundles the collaborators every game package needs (store, bus,
// scheduler, catalog, registry), and Machine names the one method
// (OnPhaseComplete) every game package implements; initialize and the
// state broadcasts live on each concrete type. Each game keeps its own phase fields
// rather than sharing a struct — the five games have little in common
// beyond the phase/timer lifecycle.
package game

import (
	"time"

	"github.com/partyhost/server/internal/catalog"
	"github.com/partyhost/server/internal/eventbus"
	"github.com/partyhost/server/internal/registry"
	"github.com/partyhost/server/internal/scheduler"
	"github.com/partyhost/server/internal/store"
)

// Deps is embedded by every game package's Machine type.
type Deps struct {
	Store     store.Store
	Bus       *eventbus.Bus
	Scheduler *scheduler.Scheduler
	Catalog   *catalog.Catalog
	Registry  *registry.Registry
	RoomTTL   time.Duration
}

// Machine is the capability every game state machine satisfies: start a
// countdown-driven phase, and react when the scheduler says that
// countdown ran out. Action handlers and initialize are necessarily
// game-specific and so live only on each concrete type, not here.
type Machine interface {
	// OnPhaseComplete is registered as the scheduler's onComplete
	// callback for the current phase; it performs the phase's
	// transition and arms the next timer if the new phase has one.
	OnPhaseComplete(roomID string)
}
