package restapi

import (
	"net/http"

	"github.com/Pa-nts/topperbus/internal/logging"
)

// refreshHandler is the manual refresh action: an ad hoc parallel fetch of
// route config and vehicle locations outside the timer cadence. Unlike a
// periodic tick, a failure here surfaces to the caller as a one-shot error.
func (api *RestAPI) refreshHandler(w http.ResponseWriter, r *http.Request) {
	if err := api.LiveManager.RefreshAll(r.Context()); err != nil {
		logging.LogError(logging.FromContext(r.Context()), "manual refresh failed", err)
		api.sendError(w, http.StatusBadGateway, "failed to refresh transit data")
		return
	}
	api.sendSuccess(w, "refreshed")
}
