package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/leapstack-labs/keelsql/pkg/core"
)

// envelope is the body of every harness response.
type envelope struct {
	OK    bool   `json:"ok"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
	Kind  string `json:"kind,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{OK: true, Data: data})
}

// writeError reports err. Capability errors carry their kind and map to
// 500; anything else is treated as a bad request.
func writeError(w http.ResponseWriter, err error) {
	var sqlErr *core.SQLError
	if errors.As(err, &sqlErr) {
		writeJSON(w, http.StatusInternalServerError, envelope{Error: sqlErr.Message, Kind: sqlErr.Kind.String()})
		return
	}
	writeJSON(w, http.StatusBadRequest, envelope{Error: err.Error()})
}
