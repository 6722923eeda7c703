package httpapi

import "net/http"

type teamsRandomRequest struct {
	RoomID    string `json:"roomId"`
	TeamCount int    `json:"teamCount"`
}

func (ctx *Context) handleTeamsRandom(w http.ResponseWriter, r *http.Request) {
	var req teamsRandomRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	info, err := ctx.Registry.AssignRandomTeams(r.Context(), req.RoomID, req.TeamCount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, info)
}

type teamsSelectRequest struct {
	RoomID    string `json:"roomId"`
	DeviceID  string `json:"deviceId"`
	Team      string `json:"team"`
	TeamCount int    `json:"teamCount"`
}

func (ctx *Context) handleTeamsSelect(w http.ResponseWriter, r *http.Request) {
	var req teamsSelectRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	info, err := ctx.Registry.SelectTeam(r.Context(), req.RoomID, req.DeviceID, req.Team, req.TeamCount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, info)
}

type teamsResetRequest struct {
	RoomID    string `json:"roomId"`
	TeamCount int    `json:"teamCount"`
}

func (ctx *Context) handleTeamsReset(w http.ResponseWriter, r *http.Request) {
	var req teamsResetRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	info, err := ctx.Registry.ResetTeams(r.Context(), req.RoomID, req.TeamCount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, info)
}

func (ctx *Context) handleTeamsStatus(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("roomId")
	status, err := ctx.Registry.Teams(r.Context(), roomID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, status)
}
