// Package registry implements room creation, joins, roster/team
// bookkeeping, and the presence events that follow from them. It reads
// and writes the shared state store rather than holding an in-memory
// struct behind its own lock, since the store — not a struct field
// lock — is this server's source of truth.
package registry

import (
	"context"
	"encoding/json"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/partyhost/server/internal/apperr"
	"github.com/partyhost/server/internal/eventbus"
	"github.com/partyhost/server/internal/models"
	"github.com/partyhost/server/internal/store"
)

// Registry wires together the state store and event bus to implement
// the room/presence operations.
type Registry struct {
	store   store.Store
	bus     *eventbus.Bus
	roomTTL time.Duration
}

// New creates a Registry.
func New(s store.Store, bus *eventbus.Bus, roomTTL time.Duration) *Registry {
	return &Registry{store: s, bus: bus, roomTTL: roomTTL}
}

type storeExistsAdapter struct{ r *Registry }

func (a storeExistsAdapter) Exists(ctx context.Context, roomID string) (bool, error) {
	_, err := a.r.store.Get(ctx, store.RoomInfoKey(roomID))
	if err == store.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *Registry) loadRoom(ctx context.Context, roomID string) (*models.RoomInfo, error) {
	raw, err := r.store.Get(ctx, store.RoomInfoKey(roomID))
	if err == store.ErrNotFound {
		return nil, apperr.NotFoundf("room %s not found", roomID)
	}
	if err != nil {
		return nil, err
	}
	var info models.RoomInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (r *Registry) saveRoom(ctx context.Context, info *models.RoomInfo) error {
	raw, err := json.Marshal(info)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, store.RoomInfoKey(info.RoomID), raw, r.roomTTL)
}

// CreateRoom generates a fresh roomId and host session token and writes
// the initial RoomInfo.
func (r *Registry) CreateRoom(ctx context.Context) (*models.RoomInfo, error) {
	roomID, err := uniqueRoomCode(ctx, storeExistsAdapter{r})
	if err != nil {
		return nil, err
	}
	info := &models.RoomInfo{
		RoomID:           roomID,
		HostSessionToken: uuid.New().String(),
		Status:           models.StatusWaiting,
		Players:          []*models.Player{},
	}
	if err := r.saveRoom(ctx, info); err != nil {
		return nil, err
	}
	return info, nil
}

// Info returns the current RoomInfo, or notFound.
func (r *Registry) Info(ctx context.Context, roomID string) (*models.RoomInfo, error) {
	return r.loadRoom(ctx, roomID)
}

// AuthorizeHost validates a host session token against roomID.
func (r *Registry) AuthorizeHost(ctx context.Context, roomID, token string) (*models.RoomInfo, error) {
	info, err := r.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if info.HostSessionToken != token || token == "" {
		return nil, apperr.Unauthorizedf("host token mismatch for room %s", roomID)
	}
	return info, nil
}

// RequirePlayer validates that deviceID is a current roster member.
func (r *Registry) RequirePlayer(ctx context.Context, roomID, deviceID string) (*models.RoomInfo, *models.Player, error) {
	info, err := r.loadRoom(ctx, roomID)
	if err != nil {
		return nil, nil, err
	}
	p := info.FindPlayer(deviceID)
	if p == nil {
		return nil, nil, apperr.NotFoundf("device %s is not in room %s", deviceID, roomID)
	}
	return info, p, nil
}

// Join admits a new player into roomID, minting a fresh deviceId and
// rejecting a nickname already in use by someone else in the room.
func (r *Registry) Join(ctx context.Context, roomID, nickname string) (*models.Player, error) {
	if n := utf8.RuneCountInString(nickname); n < 1 || n > 8 {
		return nil, apperr.InvalidArgumentf("nickname must be 1-8 characters")
	}

	info, err := r.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if info.NicknameTaken(nickname, "") {
		return nil, apperr.Conflictf("nickname %q already taken in room %s", nickname, roomID)
	}

	player := &models.Player{
		DeviceID: uuid.New().String(),
		Nickname: nickname,
		Alive:    true,
	}
	info.Players = append(info.Players, player)
	if err := r.saveRoom(ctx, info); err != nil {
		return nil, err
	}

	r.bus.BroadcastHost(roomID, "PLAYER_JOINED", map[string]any{
		"nickname": nickname,
		"deviceId": player.DeviceID,
		"total":    len(info.Players),
	})
	return player, nil
}

// StartGame moves a room from waiting to playing with the chosen game.
func (r *Registry) StartGame(ctx context.Context, roomID, hostToken string, gameCode models.GameCode) (*models.RoomInfo, error) {
	if !models.ValidGameCode(gameCode) {
		return nil, apperr.InvalidArgumentf("unknown game code %q", gameCode)
	}
	info, err := r.AuthorizeHost(ctx, roomID, hostToken)
	if err != nil {
		return nil, err
	}
	info.Status = models.StatusPlaying
	info.CurrentGame = gameCode
	if err := r.saveRoom(ctx, info); err != nil {
		return nil, err
	}
	r.bus.BroadcastAll(roomID, "GAME_STARTED", map[string]any{"gameCode": gameCode})
	return info, nil
}

// EndGame returns a room to waiting with no active game; used by each
// game machine's End operation.
func (r *Registry) EndGame(ctx context.Context, roomID string) (*models.RoomInfo, error) {
	info, err := r.loadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	info.Status = models.StatusWaiting
	info.CurrentGame = ""
	if err := r.saveRoom(ctx, info); err != nil {
		return nil, err
	}
	return info, nil
}

// Bus exposes the underlying event bus for game packages that need to
// broadcast directly (they all do).
func (r *Registry) Bus() *eventbus.Bus { return r.bus }

// Store exposes the underlying state store for game packages.
func (r *Registry) Store() store.Store { return r.store }

// RoomTTL exposes the configured room TTL for game packages writing
// their own auxiliary keys.
func (r *Registry) RoomTTL() time.Duration { return r.roomTTL }

// SaveRoom persists a mutated RoomInfo (exported so game packages can
// update per-player team/role/alive fields they own).
func (r *Registry) SaveRoom(ctx context.Context, info *models.RoomInfo) error {
	return r.saveRoom(ctx, info)
}
