package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/partyhost/server/internal/apperr"
	"github.com/partyhost/server/internal/eventbus"
)

var errStreamingUnsupported = apperr.New(apperr.InvalidState, "streaming is not supported by this response writer")

// writeSSEHeaders sets the headers every stream needs and flushes them
// immediately so the client sees the connection open.
func writeSSEHeaders(w http.ResponseWriter) http.Flusher {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil
	}
	flusher.Flush()
	return flusher
}

func writeSSEEvent(w http.ResponseWriter, flusher http.Flusher, ev eventbus.Event) {
	data, err := json.Marshal(ev.Data)
	if err != nil {
		data = []byte(`null`)
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Name, data)
	flusher.Flush()
}

func pumpStream(w http.ResponseWriter, r *http.Request, flusher http.Flusher, stream *eventbus.Stream) {
	writeSSEEvent(w, flusher, eventbus.Event{Name: "CONNECT", Data: "connected"})
	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-stream.C():
			if !ok {
				return
			}
			writeSSEEvent(w, flusher, ev)
		}
	}
}

// handleHostStream opens the room's single host stream. The session
// token must match the room's hostSessionToken.
func (ctx *Context) handleHostStream(w http.ResponseWriter, r *http.Request) {
	roomID := r.URL.Query().Get("roomId")
	sessionID := r.URL.Query().Get("sessionId")
	if _, err := ctx.Registry.AuthorizeHost(r.Context(), roomID, sessionID); err != nil {
		writeError(w, err)
		return
	}

	flusher := writeSSEHeaders(w)
	if flusher == nil {
		writeError(w, errStreamingUnsupported)
		return
	}
	stream := ctx.Bus.OpenHost(roomID)
	defer ctx.Bus.CloseHost(roomID, stream)
	pumpStream(w, r, flusher, stream)
}

// handlePlayerStream opens deviceId's player stream. deviceId must
// already be a roster member.
func (ctx *Context) handlePlayerStream(w http.ResponseWriter, r *http.Request) {
	roomID := r.URL.Query().Get("roomId")
	deviceID := r.URL.Query().Get("deviceId")
	if _, _, err := ctx.Registry.RequirePlayer(r.Context(), roomID, deviceID); err != nil {
		writeError(w, err)
		return
	}

	flusher := writeSSEHeaders(w)
	if flusher == nil {
		writeError(w, errStreamingUnsupported)
		return
	}
	stream := ctx.Bus.OpenPlayer(roomID, deviceID)
	defer ctx.Bus.ClosePlayer(roomID, deviceID, stream)
	pumpStream(w, r, flusher, stream)
}
