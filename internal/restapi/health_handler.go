package restapi

import "net/http"

func (api *RestAPI) healthHandler(w http.ResponseWriter, r *http.Request) {
	payload := struct {
		Status   string `json:"status"`
		Routes   int    `json:"routes"`
		Vehicles int    `json:"vehicles"`
	}{
		Status:   "ok",
		Routes:   len(api.LiveManager.Routes()),
		Vehicles: len(api.LiveManager.Vehicles()),
	}
	api.sendJSON(w, http.StatusOK, payload)
}
