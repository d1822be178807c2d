package restapi

import (
	"net/http"

	"github.com/Pa-nts/topperbus/internal/geo"
	"github.com/Pa-nts/topperbus/internal/nextbus"
	"github.com/Pa-nts/topperbus/internal/view"
)

type pointResponse struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type stopResponse struct {
	Tag        string  `json:"tag"`
	Title      string  `json:"title"`
	ShortTitle string  `json:"shortTitle,omitempty"`
	StopID     string  `json:"stopId"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
}

type directionResponse struct {
	Tag      string   `json:"tag"`
	Title    string   `json:"title"`
	StopTags []string `json:"stopTags"`
}

type routeResponse struct {
	Tag          string               `json:"tag"`
	Title        string               `json:"title"`
	Color        string               `json:"color"`
	DisplayColor string               `json:"displayColor"`
	DashPattern  string               `json:"dashPattern,omitempty"`
	StrokeWeight int                  `json:"strokeWeight"`
	Stops        []stopResponse       `json:"stops"`
	Directions   []directionResponse  `json:"directions"`
	Paths        [][]pointResponse    `json:"paths"`
}

// routesHandler returns the route snapshot ready for rendering. When
// several routes are shown together their polylines are perpendicular-offset
// per the style rotation so overlapping segments stay distinguishable; a
// single active route (via ?active=<tag>) renders its true geometry.
func (api *RestAPI) routesHandler(w http.ResponseWriter, r *http.Request) {
	routes := api.LiveManager.Routes()

	activeTag := r.URL.Query().Get("active")
	if activeTag != "" {
		var filtered []nextbus.Route
		for _, route := range routes {
			if route.Tag == activeTag {
				filtered = append(filtered, route)
			}
		}
		routes = filtered
	}

	applyOffsets := activeTag == "" && len(routes) > 1

	response := make([]routeResponse, 0, len(routes))
	for i, route := range routes {
		style := view.StyleForIndex(i)

		rr := routeResponse{
			Tag:          route.Tag,
			Title:        route.Title,
			Color:        route.Color,
			DisplayColor: view.DisplayColor(route.Color),
			StrokeWeight: style.StrokeWeight,
		}
		if applyOffsets {
			rr.DashPattern = style.DashPattern
		}

		for _, stop := range route.Stops {
			rr.Stops = append(rr.Stops, stopResponse{
				Tag:        stop.Tag,
				Title:      stop.Title,
				ShortTitle: stop.ShortTitle,
				StopID:     stop.StopID,
				Lat:        stop.Lat,
				Lon:        stop.Lon,
			})
		}

		for _, dir := range route.Directions {
			if !dir.UseForUI {
				continue
			}
			rr.Directions = append(rr.Directions, directionResponse{
				Tag:      dir.Tag,
				Title:    dir.Title,
				StopTags: dir.StopTags,
			})
		}

		for _, path := range route.Paths {
			points := path
			if applyOffsets {
				points = geo.OffsetPolyline(path, style.OffsetMeters)
			}
			line := make([]pointResponse, 0, len(points))
			for _, p := range points {
				line = append(line, pointResponse{Lat: p.Lat, Lon: p.Lon})
			}
			rr.Paths = append(rr.Paths, line)
		}

		response = append(response, rr)
	}

	api.sendJSON(w, http.StatusOK, response)
}

type glyphSegmentResponse struct {
	Color        string `json:"color"`
	RoundedLeft  bool   `json:"roundedLeft"`
	RoundedRight bool   `json:"roundedRight"`
}

type mergedStopResponse struct {
	Tag    string                 `json:"tag"`
	Title  string                 `json:"title"`
	StopID string                 `json:"stopId"`
	Lat    float64                `json:"lat"`
	Lon    float64                `json:"lon"`
	Routes []string               `json:"routes"`
	Glyph  []glyphSegmentResponse `json:"glyph"`
}

// stopsHandler returns the deduplicated stop list: one entry per physical
// location, with the union of serving routes and the marker glyph segments.
func (api *RestAPI) stopsHandler(w http.ResponseWriter, r *http.Request) {
	routes := api.LiveManager.Routes()

	colorByTag := make(map[string]string, len(routes))
	for _, route := range routes {
		colorByTag[route.Tag] = route.Color
	}

	merged := api.LiveManager.MergedStops()
	response := make([]mergedStopResponse, 0, len(merged))
	for _, m := range merged {
		colors := make([]string, 0, len(m.RouteTags))
		for _, tag := range m.RouteTags {
			colors = append(colors, colorByTag[tag])
		}

		segments := view.GlyphForStop(colors)
		glyph := make([]glyphSegmentResponse, 0, len(segments))
		for _, s := range segments {
			glyph = append(glyph, glyphSegmentResponse{
				Color:        s.Color,
				RoundedLeft:  s.RoundedLeft,
				RoundedRight: s.RoundedRight,
			})
		}

		response = append(response, mergedStopResponse{
			Tag:    m.Stop.Tag,
			Title:  m.Stop.Title,
			StopID: m.Stop.StopID,
			Lat:    m.Stop.Lat,
			Lon:    m.Stop.Lon,
			Routes: m.RouteTags,
			Glyph:  glyph,
		})
	}

	api.sendJSON(w, http.StatusOK, response)
}
