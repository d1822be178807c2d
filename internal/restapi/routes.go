package restapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// Router builds the API surface. Handlers read reconciled state from the
// live manager; nothing here blocks on the upstream feed except the
// prediction and refresh endpoints, which are explicit user actions.
func (api *RestAPI) Router() http.Handler {
	router := httprouter.New()

	router.HandlerFunc(http.MethodGet, "/healthz", api.healthHandler)

	router.HandlerFunc(http.MethodGet, "/api/routes", api.routesHandler)
	router.HandlerFunc(http.MethodGet, "/api/stops", api.stopsHandler)
	router.HandlerFunc(http.MethodGet, "/api/vehicles", api.vehiclesHandler)
	router.HandlerFunc(http.MethodGet, "/api/predictions/:stopTag", api.predictionsHandler)
	router.HandlerFunc(http.MethodGet, "/api/service-status/:routeTag", api.serviceStatusHandler)
	router.HandlerFunc(http.MethodGet, "/api/stop-id", api.stopIDHandler)

	router.HandlerFunc(http.MethodPost, "/api/refresh", api.refreshHandler)
	router.HandlerFunc(http.MethodGet, "/api/selection", api.currentSelectionHandler)
	router.HandlerFunc(http.MethodPost, "/api/selection", api.selectionHandler)

	router.HandlerFunc(http.MethodPost, "/api/feedback", api.feedbackHandler)
	router.HandlerFunc(http.MethodPost, "/api/calendar-reminder", api.calendarReminderHandler)

	if api.Metrics != nil {
		router.Handler(http.MethodGet, "/metrics", api.Metrics.Handler())
	}

	return router
}
