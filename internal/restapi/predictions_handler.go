package restapi

import (
	"net/http"
	"sort"
	"time"

	"github.com/Pa-nts/topperbus/internal/logging"
	"github.com/Pa-nts/topperbus/internal/schedule"
	"github.com/Pa-nts/topperbus/internal/utils"
	"github.com/Pa-nts/topperbus/internal/view"
)

type arrivalResponse struct {
	RouteTag          string `json:"routeTag"`
	VehicleID         string `json:"vehicleId"`
	Minutes           int    `json:"minutes"`
	Clock             string `json:"clock"`
	Relative          string `json:"relative"`
	IsDeparture       bool   `json:"isDeparture"`
	AffectedByLayover bool   `json:"affectedByLayover"`
}

type predictionsResponse struct {
	StopTag string `json:"stopTag"`
	// Arrivals is flattened across routes and sorted by minutes; routes
	// outside their service window are excluded.
	Arrivals []arrivalResponse `json:"arrivals"`
	// OutOfService is set when predictions existed but were hidden
	// because their route is outside its window; it drives the
	// "out of service" notice.
	OutOfService   bool   `json:"outOfService"`
	ServiceMessage string `json:"serviceMessage,omitempty"`
}

// predictionsHandler fetches arrivals for one stop on demand. An empty
// result is "no upcoming arrivals", not an error.
func (api *RestAPI) predictionsHandler(w http.ResponseWriter, r *http.Request) {
	stopTag := utils.ExtractIDFromParams(r, "stopTag")
	if stopTag == "" {
		api.sendError(w, http.StatusBadRequest, "missing stop tag")
		return
	}
	routeTag := r.URL.Query().Get("route")

	groups, err := api.Feed.FetchPredictions(r.Context(), stopTag, routeTag)
	if err != nil {
		logging.LogError(logging.FromContext(r.Context()), "failed to fetch predictions", err)
		api.sendError(w, http.StatusBadGateway, "failed to fetch predictions")
		return
	}

	now := time.Now()
	response := predictionsResponse{StopTag: stopTag, Arrivals: []arrivalResponse{}}

	for i := range groups {
		group := &groups[i]
		if !group.HasPredictions() {
			continue
		}
		if !schedule.IsRouteInService(group.RouteTag, now) {
			response.OutOfService = true
			if response.ServiceMessage == "" {
				_, response.ServiceMessage = schedule.StatusMessage(group.RouteTag, now)
			}
			continue
		}

		for _, p := range group.Flattened() {
			window := view.FormatArrivalRange(p.Minutes, now)
			response.Arrivals = append(response.Arrivals, arrivalResponse{
				RouteTag:          group.RouteTag,
				VehicleID:         p.VehicleID,
				Minutes:           p.Minutes,
				Clock:             window.Clock,
				Relative:          window.Relative,
				IsDeparture:       p.IsDeparture,
				AffectedByLayover: p.AffectedByLayover,
			})
		}
	}

	sort.SliceStable(response.Arrivals, func(i, j int) bool {
		return response.Arrivals[i].Minutes < response.Arrivals[j].Minutes
	})

	api.sendJSON(w, http.StatusOK, response)
}
