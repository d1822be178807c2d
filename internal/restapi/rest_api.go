package restapi

import (
	"github.com/Pa-nts/topperbus/internal/app"
	"github.com/Pa-nts/topperbus/internal/feedback"
)

type RestAPI struct {
	*app.Application
	limiter  *feedback.FixedWindowLimiter
	verifier *feedback.TurnstileVerifier
	sender   *feedback.WebhookSender
}

// NewRestAPI creates a RestAPI with its feedback rate limiter and webhook
// plumbing initialized. The Turnstile verifier is nil when no secret is
// configured, which disables CAPTCHA checking.
func NewRestAPI(application *app.Application) *RestAPI {
	api := &RestAPI{
		Application: application,
		limiter: feedback.NewFixedWindowLimiter(
			application.Config.RateLimitMax,
			application.Config.RateLimitWindow,
			nil),
		sender: feedback.NewWebhookSender(),
	}

	if application.Config.TurnstileSecret != "" {
		api.verifier = feedback.NewTurnstileVerifier(application.Config.TurnstileSecret, "")
	}

	return api
}

// Shutdown releases the rate limiter's cleanup goroutine.
func (api *RestAPI) Shutdown() {
	api.limiter.Stop()
}
