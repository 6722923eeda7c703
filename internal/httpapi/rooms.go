package httpapi

import (
	"net/http"

	"github.com/partyhost/server/internal/models"
)

type createRoomResponse struct {
	RoomID           string `json:"roomId"`
	HostSessionToken string `json:"hostSessionToken"`
}

func (ctx *Context) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	info, err := ctx.Registry.CreateRoom(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, createRoomResponse{RoomID: info.RoomID, HostSessionToken: info.HostSessionToken})
}

type joinRoomRequest struct {
	RoomID   string `json:"roomId"`
	Nickname string `json:"nickname"`
}

type joinRoomResponse struct {
	DeviceID string `json:"deviceId"`
	Nickname string `json:"nickname"`
}

func (ctx *Context) handleJoinRoom(w http.ResponseWriter, r *http.Request) {
	var req joinRoomRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	player, err := ctx.Registry.Join(r.Context(), req.RoomID, req.Nickname)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, joinRoomResponse{DeviceID: player.DeviceID, Nickname: player.Nickname})
}

func (ctx *Context) handleRoomInfo(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("roomId")
	info, err := ctx.Registry.Info(r.Context(), roomID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, info)
}

type gamesStartRequest struct {
	RoomID           string         `json:"roomId"`
	HostSessionToken string         `json:"hostSessionToken"`
	GameCode         models.GameCode `json:"gameCode"`
}

func (ctx *Context) handleGamesStart(w http.ResponseWriter, r *http.Request) {
	var req gamesStartRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	info, err := ctx.Registry.StartGame(r.Context(), req.RoomID, req.HostSessionToken, req.GameCode)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, info)
}

type reactionRequest struct {
	RoomID   string `json:"roomId"`
	DeviceID string `json:"deviceId"`
	Type     string `json:"type"`
}

// handleReaction relays a lightweight player reaction (e.g. an emoji
// burst) to the host stream only; it carries no game-state meaning.
func (ctx *Context) handleReaction(w http.ResponseWriter, r *http.Request) {
	var req reactionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if _, _, err := ctx.Registry.RequirePlayer(r.Context(), req.RoomID, req.DeviceID); err != nil {
		writeError(w, err)
		return
	}
	ctx.Bus.BroadcastHost(req.RoomID, "PLAYER_REACTION", map[string]any{
		"deviceId": req.DeviceID,
		"type":     req.Type,
	})
	writeData(w, map[string]any{"ok": true})
}

func (ctx *Context) handleRoomQR(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("roomId")
	if _, err := ctx.Registry.Info(r.Context(), roomID); err != nil {
		writeError(w, err)
		return
	}
	png, err := ctx.QR.JoinCode(roomID)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func (ctx *Context) handleListCategories(w http.ResponseWriter, r *http.Request) {
	game := models.GameCode(r.PathValue("game"))
	writeData(w, ctx.Catalog.ListCategories(game))
}
