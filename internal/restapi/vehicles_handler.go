package restapi

import (
	"net/http"

	"github.com/Pa-nts/topperbus/internal/live"
	"github.com/Pa-nts/topperbus/internal/view"
)

type vehicleResponse struct {
	ID              string  `json:"id"`
	RouteTag        string  `json:"routeTag"`
	DirTag          string  `json:"dirTag"`
	Lat             float64 `json:"lat"`
	Lon             float64 `json:"lon"`
	Heading         int     `json:"heading"`
	SpeedKmHr       float64 `json:"speedKmHr"`
	SpeedMph        int     `json:"speedMph"`
	SecsSinceReport int     `json:"secsSinceReport"`
	// AtStop names the stop the vehicle is currently at, when one is
	// within the nearest-stop threshold.
	AtStop   string `json:"atStop,omitempty"`
	NextStop string `json:"nextStop,omitempty"`
}

// vehiclesHandler returns the current vehicle snapshot with the derived
// display fields the detail panel shows.
func (api *RestAPI) vehiclesHandler(w http.ResponseWriter, r *http.Request) {
	vehicles := api.LiveManager.Vehicles()

	response := make([]vehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		vr := vehicleResponse{
			ID:              v.ID,
			RouteTag:        v.RouteTag,
			DirTag:          v.DirTag,
			Lat:             v.Lat,
			Lon:             v.Lon,
			Heading:         v.Heading,
			SpeedKmHr:       v.SpeedKmHr,
			SpeedMph:        view.KmhToMph(v.SpeedKmHr),
			SecsSinceReport: v.SecsSinceReport,
		}

		if route, ok := api.LiveManager.RouteByTag(v.RouteTag); ok {
			if stop, found := live.NearestStop(v, route.Stops); found {
				vr.AtStop = stop.Title
			}
			if stop, found := live.NextStopInDirection(v, &route); found {
				vr.NextStop = stop.Title
			}
		}

		response = append(response, vr)
	}

	api.sendJSON(w, http.StatusOK, response)
}
