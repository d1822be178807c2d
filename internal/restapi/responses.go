package restapi

import (
	"encoding/json"
	"net/http"
)

func (api *RestAPI) sendJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		api.Logger.Error("failed to encode response", "error", err)
	}
}

// sendSuccess writes the `{ "success": true }` envelope, optionally with a
// human-readable message.
func (api *RestAPI) sendSuccess(w http.ResponseWriter, message string) {
	payload := struct {
		Success bool   `json:"success"`
		Message string `json:"message,omitempty"`
	}{Success: true, Message: message}
	api.sendJSON(w, http.StatusOK, payload)
}

// sendError writes the `{ "error": <reason> }` envelope. Validation and
// rate-limit reasons are reported verbatim; 5xx reasons stay generic and the
// specifics go to the server log.
func (api *RestAPI) sendError(w http.ResponseWriter, status int, reason string) {
	payload := struct {
		Error string `json:"error"`
	}{Error: reason}
	api.sendJSON(w, status, payload)
}
