package restapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Pa-nts/topperbus/internal/feedback"
	"github.com/Pa-nts/topperbus/internal/logging"
	"github.com/Pa-nts/topperbus/internal/utils"
)

type feedbackRequest struct {
	Type           string `json:"type"`
	Message        string `json:"message"`
	Email          string `json:"email,omitempty"`
	TurnstileToken string `json:"turnstileToken,omitempty"`
}

// feedbackHandler validates, rate-limits, sanitizes, and forwards a rider
// submission to its type-specific webhook. Validation and rate-limit
// rejections are reported verbatim; upstream and configuration failures stay
// generic and are logged server-side.
func (api *RestAPI) feedbackHandler(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context()).With(slog.String("component", "feedback"))
	clientIP := utils.ClientIP(r)

	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.feedbackOutcome("rejected")
		api.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Rate limiting applies regardless of payload validity.
	if !api.limiter.Allow(clientIP) {
		api.feedbackOutcome("rate_limited")
		api.sendError(w, http.StatusTooManyRequests, "too many requests, try again later")
		return
	}

	if !feedback.ValidType(req.Type) {
		api.feedbackOutcome("rejected")
		api.sendError(w, http.StatusBadRequest, "invalid feedback type")
		return
	}

	message, err := feedback.NormalizeMessage(req.Message)
	if err != nil {
		api.feedbackOutcome("rejected")
		api.sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := feedback.ValidateEmail(req.Email); err != nil {
		api.feedbackOutcome("rejected")
		api.sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	if api.verifier != nil {
		ok, err := api.verifier.Verify(r.Context(), req.TurnstileToken, clientIP)
		if err != nil {
			logging.LogError(logger, "turnstile verification unavailable", err)
			api.feedbackOutcome("upstream_error")
			api.sendError(w, http.StatusServiceUnavailable, "captcha verification unavailable")
			return
		}
		if !ok {
			api.feedbackOutcome("rejected")
			api.sendError(w, http.StatusBadRequest, "captcha verification failed")
			return
		}
	}

	webhookURL := api.Config.WebhookURLForType(req.Type)
	if webhookURL == "" {
		logging.LogError(logger, "no webhook configured for feedback type", errNoWebhook,
			slog.String("type", req.Type))
		api.feedbackOutcome("upstream_error")
		api.sendError(w, http.StatusServiceUnavailable, "feedback forwarding unavailable")
		return
	}

	content := feedback.FormatSubmission(req.Type, message, req.Email)
	if err := api.sender.Send(r.Context(), webhookURL, content); err != nil {
		logging.LogError(logger, "failed to forward feedback", err,
			slog.String("type", req.Type))
		api.feedbackOutcome("upstream_error")
		api.sendError(w, http.StatusBadGateway, "failed to forward feedback")
		return
	}

	logging.LogOperation(logger, "feedback_forwarded", slog.String("type", req.Type))
	api.feedbackOutcome("forwarded")
	api.sendSuccess(w, "")
}

func (api *RestAPI) feedbackOutcome(outcome string) {
	if api.Metrics != nil {
		api.Metrics.FeedbackOutcomes.WithLabelValues(outcome).Inc()
	}
}
