package restapi

import (
	"net/http"
	"time"

	"github.com/Pa-nts/topperbus/internal/schedule"
	"github.com/Pa-nts/topperbus/internal/utils"
)

type serviceStatusResponse struct {
	RouteTag  string `json:"routeTag"`
	InService bool   `json:"inService"`
	Message   string `json:"message,omitempty"`
	NextBreak string `json:"nextBreak,omitempty"`
}

func (api *RestAPI) serviceStatusHandler(w http.ResponseWriter, r *http.Request) {
	routeTag := utils.ExtractIDFromParams(r, "routeTag")
	now := time.Now()

	inService, message := schedule.StatusMessage(routeTag, now)
	response := serviceStatusResponse{
		RouteTag:  routeTag,
		InService: inService,
		Message:   message,
	}
	if next := schedule.NextBreakPeriod(now); next != nil {
		response.NextBreak = next.Name
	}

	api.sendJSON(w, http.StatusOK, response)
}
