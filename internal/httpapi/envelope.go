package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/partyhost/server/internal/apperr"
	"github.com/partyhost/server/internal/logging"
)

// envelope is the {success, data, error} JSON shape every per-game and
// room endpoint responds with.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeData(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

// writeError maps err to its HTTP status; unrecognized kinds become a
// generic 500 and the real error is logged, never returned to the
// client.
func writeError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	status := apperr.StatusFor(kind)

	message := err.Error()
	if kind == "" {
		logging.Error("httpapi: unhandled error: %v", err)
		message = "internal server error"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Success: false, Error: message})
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.InvalidArgumentf("malformed request body: %v", err)
	}
	return nil
}
