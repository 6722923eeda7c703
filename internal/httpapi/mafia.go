package httpapi

import "net/http"

func (ctx *Context) registerMafiaRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /games/mafia/init", ctx.handleMafiaInit)
	mux.HandleFunc("POST /games/mafia/kill", ctx.handleMafiaKill)
	mux.HandleFunc("POST /games/mafia/save", ctx.handleMafiaSave)
	mux.HandleFunc("POST /games/mafia/investigate", ctx.handleMafiaInvestigate)
	mux.HandleFunc("POST /games/mafia/chat", ctx.handleMafiaChat)
	mux.HandleFunc("POST /games/mafia/vote", ctx.handleMafiaVote)
	mux.HandleFunc("POST /games/mafia/finalvote", ctx.handleMafiaFinalVote)
	mux.HandleFunc("POST /games/mafia/end", ctx.handleMafiaEnd)
	if ctx.Config.Debug {
		mux.HandleFunc("POST /games/mafia/debug/force-phase", ctx.handleMafiaDebugForcePhase)
	}
}

type mafiaRoomRequest struct {
	RoomID string `json:"roomId"`
}

func (ctx *Context) handleMafiaInit(w http.ResponseWriter, r *http.Request) {
	var req mafiaRoomRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s, err := ctx.Mafia.Initialize(r.Context(), req.RoomID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, s)
}

type mafiaTargetRequest struct {
	RoomID   string `json:"roomId"`
	DeviceID string `json:"deviceId"`
	Target   string `json:"target"`
}

func (ctx *Context) handleMafiaKill(w http.ResponseWriter, r *http.Request) {
	var req mafiaTargetRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := ctx.Mafia.MafiaKill(r.Context(), req.RoomID, req.DeviceID, req.Target); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, map[string]any{"ok": true})
}

func (ctx *Context) handleMafiaSave(w http.ResponseWriter, r *http.Request) {
	var req mafiaTargetRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := ctx.Mafia.DoctorSave(r.Context(), req.RoomID, req.DeviceID, req.Target); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, map[string]any{"ok": true})
}

func (ctx *Context) handleMafiaInvestigate(w http.ResponseWriter, r *http.Request) {
	var req mafiaTargetRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	result, err := ctx.Mafia.PoliceInvestigate(r.Context(), req.RoomID, req.DeviceID, req.Target)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, result)
}

type mafiaChatRequest struct {
	RoomID   string `json:"roomId"`
	DeviceID string `json:"deviceId"`
	Text     string `json:"text"`
}

func (ctx *Context) handleMafiaChat(w http.ResponseWriter, r *http.Request) {
	var req mafiaChatRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := ctx.Mafia.PostMafiaChat(r.Context(), req.RoomID, req.DeviceID, req.Text); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, map[string]any{"ok": true})
}

func (ctx *Context) handleMafiaVote(w http.ResponseWriter, r *http.Request) {
	var req mafiaTargetRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := ctx.Mafia.Vote(r.Context(), req.RoomID, req.DeviceID, req.Target); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, map[string]any{"ok": true})
}

type mafiaFinalVoteRequest struct {
	RoomID   string `json:"roomId"`
	DeviceID string `json:"deviceId"`
	Kill     bool   `json:"kill"`
}

func (ctx *Context) handleMafiaFinalVote(w http.ResponseWriter, r *http.Request) {
	var req mafiaFinalVoteRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := ctx.Mafia.FinalVote(r.Context(), req.RoomID, req.DeviceID, req.Kill); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, map[string]any{"ok": true})
}

func (ctx *Context) handleMafiaDebugForcePhase(w http.ResponseWriter, r *http.Request) {
	var req mafiaRoomRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := ctx.Mafia.DebugForcePhase(r.Context(), req.RoomID); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, map[string]any{"ok": true})
}

func (ctx *Context) handleMafiaEnd(w http.ResponseWriter, r *http.Request) {
	var req mafiaRoomRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := ctx.Mafia.End(r.Context(), req.RoomID); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, map[string]any{"ok": true})
}
