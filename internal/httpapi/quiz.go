package httpapi

import "net/http"

func (ctx *Context) registerQuizRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /games/quiz/init", ctx.handleQuizInit)
	mux.HandleFunc("POST /games/quiz/round/start", ctx.handleQuizStartRound)
	mux.HandleFunc("POST /games/quiz/correct", ctx.handleQuizCorrect)
	mux.HandleFunc("POST /games/quiz/pass", ctx.handleQuizPass)
	mux.HandleFunc("POST /games/quiz/next-team", ctx.handleQuizNextTeam)
	mux.HandleFunc("POST /games/quiz/end", ctx.handleQuizEnd)
}

type quizInitRequest struct {
	RoomID           string `json:"roomId"`
	RoundTimeSeconds int    `json:"roundTimeSeconds"`
}

func (ctx *Context) handleQuizInit(w http.ResponseWriter, r *http.Request) {
	var req quizInitRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	seconds := req.RoundTimeSeconds
	if seconds <= 0 {
		seconds = ctx.Config.DefaultQuizRoundSeconds
	}
	s, err := ctx.Quiz.Initialize(r.Context(), req.RoomID, seconds)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, s)
}

type quizStartRoundRequest struct {
	RoomID     string `json:"roomId"`
	CategoryID string `json:"categoryId"`
}

func (ctx *Context) handleQuizStartRound(w http.ResponseWriter, r *http.Request) {
	var req quizStartRoundRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s, err := ctx.Quiz.StartRound(r.Context(), req.RoomID, req.CategoryID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, s)
}

type quizRoomRequest struct {
	RoomID string `json:"roomId"`
}

func (ctx *Context) handleQuizCorrect(w http.ResponseWriter, r *http.Request) {
	var req quizRoomRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s, err := ctx.Quiz.Correct(r.Context(), req.RoomID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, s)
}

func (ctx *Context) handleQuizPass(w http.ResponseWriter, r *http.Request) {
	var req quizRoomRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s, err := ctx.Quiz.Pass(r.Context(), req.RoomID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, s)
}

func (ctx *Context) handleQuizNextTeam(w http.ResponseWriter, r *http.Request) {
	var req quizRoomRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s, err := ctx.Quiz.NextTeam(r.Context(), req.RoomID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, s)
}

func (ctx *Context) handleQuizEnd(w http.ResponseWriter, r *http.Request) {
	var req quizRoomRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := ctx.Quiz.End(r.Context(), req.RoomID); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, map[string]any{"ok": true})
}
