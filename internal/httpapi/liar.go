package httpapi

import "net/http"

func (ctx *Context) registerLiarRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /games/liar/init", ctx.handleLiarInit)
	mux.HandleFunc("GET /games/liar/role", ctx.handleLiarRole)
	mux.HandleFunc("POST /games/liar/vote-more", ctx.handleLiarVoteMoreRound)
	mux.HandleFunc("POST /games/liar/pointing/start", ctx.handleLiarStartPointingVote)
	mux.HandleFunc("POST /games/liar/pointing/vote", ctx.handleLiarPointingVote)
	mux.HandleFunc("POST /games/liar/guess", ctx.handleLiarGuess)
	mux.HandleFunc("POST /games/liar/end", ctx.handleLiarEnd)
}

type liarRoomRequest struct {
	RoomID string `json:"roomId"`
}

func (ctx *Context) handleLiarInit(w http.ResponseWriter, r *http.Request) {
	var req liarRoomRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s, err := ctx.Liar.Initialize(r.Context(), req.RoomID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, s)
}

func (ctx *Context) handleLiarRole(w http.ResponseWriter, r *http.Request) {
	roomID := r.URL.Query().Get("roomId")
	deviceID := r.URL.Query().Get("deviceId")
	view, err := ctx.Liar.GetRole(r.Context(), roomID, deviceID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, view)
}

type liarVoteMoreRequest struct {
	RoomID   string `json:"roomId"`
	DeviceID string `json:"deviceId"`
	WantMore bool   `json:"wantMore"`
}

func (ctx *Context) handleLiarVoteMoreRound(w http.ResponseWriter, r *http.Request) {
	var req liarVoteMoreRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := ctx.Liar.VoteMoreRound(r.Context(), req.RoomID, req.DeviceID, req.WantMore); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, map[string]any{"ok": true})
}

func (ctx *Context) handleLiarStartPointingVote(w http.ResponseWriter, r *http.Request) {
	var req liarRoomRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := ctx.Liar.StartPointingVote(r.Context(), req.RoomID); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, map[string]any{"ok": true})
}

type liarPointingVoteRequest struct {
	RoomID   string `json:"roomId"`
	DeviceID string `json:"deviceId"`
	Target   string `json:"target"`
}

func (ctx *Context) handleLiarPointingVote(w http.ResponseWriter, r *http.Request) {
	var req liarPointingVoteRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := ctx.Liar.PointingVote(r.Context(), req.RoomID, req.DeviceID, req.Target); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, map[string]any{"ok": true})
}

type liarGuessRequest struct {
	RoomID   string `json:"roomId"`
	DeviceID string `json:"deviceId"`
	Guess    string `json:"guess"`
	Pass     bool   `json:"pass"`
}

func (ctx *Context) handleLiarGuess(w http.ResponseWriter, r *http.Request) {
	var req liarGuessRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := ctx.Liar.SubmitGuess(r.Context(), req.RoomID, req.DeviceID, req.Guess, req.Pass); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, map[string]any{"ok": true})
}

func (ctx *Context) handleLiarEnd(w http.ResponseWriter, r *http.Request) {
	var req liarRoomRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := ctx.Liar.End(r.Context(), req.RoomID); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, map[string]any{"ok": true})
}
