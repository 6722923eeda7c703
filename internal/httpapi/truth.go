package httpapi

import (
	"net/http"

	"github.com/partyhost/server/internal/game/truth"
)

func (ctx *Context) registerTruthRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /games/truth/init", ctx.handleTruthInit)
	mux.HandleFunc("POST /games/truth/answerer", ctx.handleTruthSelectAnswerer)
	mux.HandleFunc("POST /games/truth/question", ctx.handleTruthSubmitQuestion)
	mux.HandleFunc("POST /games/truth/question/finish", ctx.handleTruthFinishQuestionSubmission)
	mux.HandleFunc("POST /games/truth/question/random", ctx.handleTruthSelectRandomQuestion)
	mux.HandleFunc("POST /games/truth/question/confirm", ctx.handleTruthConfirmQuestion)
	mux.HandleFunc("POST /games/truth/question/vote", ctx.handleTruthVoteQuestion)
	mux.HandleFunc("POST /games/truth/question/vote/finish", ctx.handleTruthFinishQuestionVote)
	mux.HandleFunc("POST /games/truth/sample", ctx.handleTruthSubmitSample)
	mux.HandleFunc("POST /games/truth/answering/finish", ctx.handleTruthFinishAnswering)
	mux.HandleFunc("POST /games/truth/end", ctx.handleTruthEnd)
}

type truthRoomRequest struct {
	RoomID string `json:"roomId"`
}

func (ctx *Context) handleTruthInit(w http.ResponseWriter, r *http.Request) {
	var req truthRoomRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s, err := ctx.Truth.Initialize(r.Context(), req.RoomID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, s)
}

type truthSelectAnswererRequest struct {
	RoomID   string `json:"roomId"`
	DeviceID string `json:"deviceId"`
}

func (ctx *Context) handleTruthSelectAnswerer(w http.ResponseWriter, r *http.Request) {
	var req truthSelectAnswererRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s, err := ctx.Truth.SelectAnswerer(r.Context(), req.RoomID, req.DeviceID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, s)
}

type truthSubmitQuestionRequest struct {
	RoomID   string `json:"roomId"`
	DeviceID string `json:"deviceId"`
	Text     string `json:"text"`
}

func (ctx *Context) handleTruthSubmitQuestion(w http.ResponseWriter, r *http.Request) {
	var req truthSubmitQuestionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := ctx.Truth.SubmitQuestion(r.Context(), req.RoomID, req.DeviceID, req.Text); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, map[string]any{"ok": true})
}

func (ctx *Context) handleTruthFinishQuestionSubmission(w http.ResponseWriter, r *http.Request) {
	var req truthRoomRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s, err := ctx.Truth.FinishQuestionSubmission(r.Context(), req.RoomID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, s)
}

func (ctx *Context) handleTruthSelectRandomQuestion(w http.ResponseWriter, r *http.Request) {
	var req truthRoomRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	idx, err := ctx.Truth.SelectRandomQuestion(r.Context(), req.RoomID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, map[string]any{"index": idx})
}

type truthConfirmQuestionRequest struct {
	RoomID        string `json:"roomId"`
	QuestionIndex int    `json:"questionIndex"`
}

func (ctx *Context) handleTruthConfirmQuestion(w http.ResponseWriter, r *http.Request) {
	var req truthConfirmQuestionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s, err := ctx.Truth.ConfirmQuestion(r.Context(), req.RoomID, req.QuestionIndex)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, s)
}

type truthVoteQuestionRequest struct {
	RoomID        string `json:"roomId"`
	DeviceID      string `json:"deviceId"`
	QuestionIndex int    `json:"questionIndex"`
}

func (ctx *Context) handleTruthVoteQuestion(w http.ResponseWriter, r *http.Request) {
	var req truthVoteQuestionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := ctx.Truth.VoteQuestion(r.Context(), req.RoomID, req.DeviceID, req.QuestionIndex); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, map[string]any{"ok": true})
}

func (ctx *Context) handleTruthFinishQuestionVote(w http.ResponseWriter, r *http.Request) {
	var req truthRoomRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s, err := ctx.Truth.FinishQuestionVote(r.Context(), req.RoomID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, s)
}

type truthSubmitSampleRequest struct {
	RoomID   string                    `json:"roomId"`
	DeviceID string                    `json:"deviceId"`
	Sample   truth.FaceTrackingSample  `json:"sample"`
}

func (ctx *Context) handleTruthSubmitSample(w http.ResponseWriter, r *http.Request) {
	var req truthSubmitSampleRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := ctx.Truth.SubmitSample(r.Context(), req.RoomID, req.DeviceID, req.Sample); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, map[string]any{"ok": true})
}

func (ctx *Context) handleTruthFinishAnswering(w http.ResponseWriter, r *http.Request) {
	var req truthRoomRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s, err := ctx.Truth.FinishAnswering(r.Context(), req.RoomID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, s)
}

func (ctx *Context) handleTruthEnd(w http.ResponseWriter, r *http.Request) {
	var req truthRoomRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := ctx.Truth.End(r.Context(), req.RoomID); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, map[string]any{"ok": true})
}
