package restapi

import (
	"net/http"

	"github.com/Pa-nts/topperbus/internal/utils"
)

type stopIDResponse struct {
	StopID string `json:"stopId"`
	Tag    string `json:"tag"`
	Title  string `json:"title"`
}

// stopIDHandler resolves a scanned QR payload to a known stop. The payload
// may be a bare id, a URL carrying stop=<id>, or a /stop/<id> path; an
// extracted id that matches no known stop is rejected.
func (api *RestAPI) stopIDHandler(w http.ResponseWriter, r *http.Request) {
	payload := r.URL.Query().Get("payload")
	if payload == "" {
		api.sendError(w, http.StatusBadRequest, "missing payload")
		return
	}

	id := utils.ExtractStopID(payload)
	if id == "" {
		api.sendError(w, http.StatusBadRequest, "unrecognized payload")
		return
	}

	for _, route := range api.LiveManager.Routes() {
		for _, stop := range route.Stops {
			if stop.StopID == id {
				api.sendJSON(w, http.StatusOK, stopIDResponse{
					StopID: stop.StopID,
					Tag:    stop.Tag,
					Title:  stop.Title,
				})
				return
			}
		}
	}

	api.sendError(w, http.StatusNotFound, "unknown stop id")
}
