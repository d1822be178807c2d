package restapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Pa-nts/topperbus/internal/live"
	"github.com/Pa-nts/topperbus/internal/view"
)

type selectionRequest struct {
	Kind string `json:"kind"`
	// Tag identifies a stop, ID a vehicle.
	Tag      string         `json:"tag,omitempty"`
	ID       string         `json:"id,omitempty"`
	Building *live.Building `json:"building,omitempty"`
}

// selectionHandler opens or closes the detail panel. Selecting any entity
// replaces the previous selection; only one panel is ever open.
func (api *RestAPI) selectionHandler(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	switch req.Kind {
	case "none":
		api.LiveManager.ClearSelection()

	case "stop":
		for _, route := range api.LiveManager.Routes() {
			if stop, ok := route.StopByTag(req.Tag); ok {
				api.LiveManager.Select(live.StopSelection(stop))
				api.sendSuccess(w, "")
				return
			}
		}
		api.sendError(w, http.StatusNotFound, "unknown stop tag")
		return

	case "vehicle":
		for _, v := range api.LiveManager.Vehicles() {
			if v.ID == req.ID {
				api.LiveManager.Select(live.VehicleSelection(v))
				api.sendSuccess(w, "")
				return
			}
		}
		api.sendError(w, http.StatusNotFound, "unknown vehicle id")
		return

	case "building":
		if req.Building == nil || req.Building.Name == "" {
			api.sendError(w, http.StatusBadRequest, "missing building")
			return
		}
		api.LiveManager.Select(live.BuildingSelection(*req.Building))

	default:
		api.sendError(w, http.StatusBadRequest, "invalid selection kind")
		return
	}

	api.sendSuccess(w, "")
}

type selectionResponse struct {
	Kind     string            `json:"kind"`
	Stop     *stopResponse     `json:"stop,omitempty"`
	Vehicle  *vehicleResponse  `json:"vehicle,omitempty"`
	Building *live.Building    `json:"building,omitempty"`
	Arrivals []arrivalResponse `json:"arrivals,omitempty"`
	// OutOfService reports that predictions exist for the selected stop
	// but belong to routes outside their service window.
	OutOfService bool `json:"outOfService,omitempty"`
}

func (api *RestAPI) currentSelectionHandler(w http.ResponseWriter, r *http.Request) {
	selection := api.LiveManager.CurrentSelection()
	response := selectionResponse{Kind: "none"}

	switch selection.Kind {
	case live.SelectionStop:
		stop := selection.Stop
		response.Kind = "stop"
		response.Stop = &stopResponse{
			Tag:        stop.Tag,
			Title:      stop.Title,
			ShortTitle: stop.ShortTitle,
			StopID:     stop.StopID,
			Lat:        stop.Lat,
			Lon:        stop.Lon,
		}

		now := time.Now()
		arrivals, hidden := api.LiveManager.VisibleArrivals(now)
		response.OutOfService = hidden
		for _, p := range arrivals {
			window := view.FormatArrivalRange(p.Minutes, now)
			response.Arrivals = append(response.Arrivals, arrivalResponse{
				VehicleID:         p.VehicleID,
				Minutes:           p.Minutes,
				Clock:             window.Clock,
				Relative:          window.Relative,
				IsDeparture:       p.IsDeparture,
				AffectedByLayover: p.AffectedByLayover,
			})
		}

	case live.SelectionVehicle:
		v := selection.Vehicle
		response.Kind = "vehicle"
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
		response.Vehicle = &vr

	case live.SelectionBuilding:
		building := selection.Building
		response.Kind = "building"
		response.Building = &building
	}

	api.sendJSON(w, http.StatusOK, response)
}
