package httpapi

import (
	"net/http"

	"github.com/partyhost/server/internal/game/marble"
)

func (ctx *Context) registerMarbleRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /games/marble/penalty", ctx.handleMarblePenalty)
	mux.HandleFunc("POST /games/marble/vote", ctx.handleMarbleVote)
	mux.HandleFunc("POST /games/marble/vote/close", ctx.handleMarbleCloseVoting)
	mux.HandleFunc("POST /games/marble/init", ctx.handleMarbleInit)
	mux.HandleFunc("POST /games/marble/roll", ctx.handleMarbleRoll)
	mux.HandleFunc("POST /games/marble/end", ctx.handleMarbleEnd)
}

type marblePenaltyRequest struct {
	RoomID   string `json:"roomId"`
	DeviceID string `json:"deviceId"`
	Text     string `json:"text"`
}

func (ctx *Context) handleMarblePenalty(w http.ResponseWriter, r *http.Request) {
	var req marblePenaltyRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := ctx.Marble.SubmitPenalty(r.Context(), req.RoomID, req.DeviceID, req.Text); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, map[string]any{"ok": true})
}

type marbleVoteRequest struct {
	RoomID       string `json:"roomId"`
	DeviceID     string `json:"deviceId"`
	PenaltyIndex int    `json:"penaltyIndex"`
}

func (ctx *Context) handleMarbleVote(w http.ResponseWriter, r *http.Request) {
	var req marbleVoteRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := ctx.Marble.ToggleVote(r.Context(), req.RoomID, req.DeviceID, req.PenaltyIndex); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, map[string]any{"ok": true})
}

type marbleRoomRequest struct {
	RoomID string `json:"roomId"`
}

func (ctx *Context) handleMarbleCloseVoting(w http.ResponseWriter, r *http.Request) {
	var req marbleRoomRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	selected, err := ctx.Marble.CloseVoting(r.Context(), req.RoomID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, map[string]any{"selected": selected})
}

type marbleInitRequest struct {
	RoomID string      `json:"roomId"`
	Mode   marble.Mode `json:"mode"`
}

func (ctx *Context) handleMarbleInit(w http.ResponseWriter, r *http.Request) {
	var req marbleInitRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s, err := ctx.Marble.Initialize(r.Context(), req.RoomID, req.Mode)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, s)
}

type marbleRollRequest struct {
	RoomID   string `json:"roomId"`
	DeviceID string `json:"deviceId"`
}

func (ctx *Context) handleMarbleRoll(w http.ResponseWriter, r *http.Request) {
	var req marbleRollRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	result, err := ctx.Marble.RollDice(r.Context(), req.RoomID, req.DeviceID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, result)
}

func (ctx *Context) handleMarbleEnd(w http.ResponseWriter, r *http.Request) {
	var req marbleRoomRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := ctx.Marble.End(r.Context(), req.RoomID); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, map[string]any{"ok": true})
}
