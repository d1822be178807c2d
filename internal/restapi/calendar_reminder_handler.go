package restapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Pa-nts/topperbus/internal/logging"
)

var errNoWebhook = errors.New("webhook URL not configured")

const reminderMessage = "Reminder: update the academic-calendar break table for the upcoming term."

// calendarReminderHandler posts a fixed maintenance reminder to its webhook.
// When a shared secret is configured, the request must carry it as a bearer
// token.
func (api *RestAPI) calendarReminderHandler(w http.ResponseWriter, r *http.Request) {
	if secret := api.Config.ReminderSecret; secret != "" {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token != secret {
			api.sendError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
	}

	if api.Config.ReminderWebhookURL == "" {
		logging.LogError(logging.FromContext(r.Context()), "reminder webhook not configured", errNoWebhook)
		api.sendError(w, http.StatusServiceUnavailable, "reminder delivery unavailable")
		return
	}

	if err := api.sender.Send(r.Context(), api.Config.ReminderWebhookURL, reminderMessage); err != nil {
		logging.LogError(logging.FromContext(r.Context()), "failed to send reminder", err)
		api.sendError(w, http.StatusBadGateway, "failed to send reminder")
		return
	}

	api.sendSuccess(w, "reminder sent")
}
