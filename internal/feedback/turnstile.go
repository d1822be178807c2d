package feedback

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Pa-nts/topperbus/internal/logging"
)

const defaultTurnstileEndpoint = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

// TurnstileVerifier validates CAPTCHA tokens against Cloudflare's
// siteverify endpoint.
type TurnstileVerifier struct {
	secret     string
	endpoint   string
	httpClient *http.Client
}

// NewTurnstileVerifier creates a verifier for the given shared secret. An
// empty endpoint uses the production Cloudflare URL; tests point it at an
// httptest server.
func NewTurnstileVerifier(secret, endpoint string) *TurnstileVerifier {
	if endpoint == "" {
		endpoint = defaultTurnstileEndpoint
	}
	return &TurnstileVerifier{
		secret:     secret,
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type turnstileResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify checks a token. The first return is whether the token passed; the
// error covers transport or decode failures, which callers surface as an
// upstream problem rather than a rejected token.
func (v *TurnstileVerifier) Verify(ctx context.Context, token, remoteIP string) (bool, error) {
	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return false, err
	}
	defer logging.SafeCloseWithLogging(resp.Body,
		slog.Default().With(slog.String("component", "turnstile")),
		"http_response_body")

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("turnstile returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, err
	}

	var result turnstileResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return false, fmt.Errorf("decoding turnstile response: %w", err)
	}
	return result.Success, nil
}
