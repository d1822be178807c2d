package nextbus

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/Pa-nts/topperbus/internal/logging"
)

// Config holds the upstream feed settings.
type Config struct {
	BaseURL string
	Agency  string
	Timeout time.Duration
	// MaxRequestsPerSecond throttles calls to the upstream feed. Zero
	// disables the throttle.
	MaxRequestsPerSecond int
}

// Client fetches and parses the upstream transit feed. It is stateless and
// safe for concurrent use; every call re-fetches, there is no cache.
type Client struct {
	baseURL    string
	agency     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a feed client for the given config.
func NewClient(config Config) *Client {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if config.MaxRequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.MaxRequestsPerSecond), config.MaxRequestsPerSecond)
	}

	return &Client{
		baseURL:    config.BaseURL,
		agency:     config.Agency,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
	}
}

// FetchRouteConfig retrieves the full route/stop/direction/path structure.
// Transport and parse errors propagate to the caller; there is no retry.
func (c *Client) FetchRouteConfig(ctx context.Context) ([]Route, error) {
	params := url.Values{}
	params.Set("command", "routeConfig")

	body, err := c.fetch(ctx, params)
	if err != nil {
		return nil, err
	}

	var routes []Route
	for _, r := range body.Routes {
		routes = append(routes, r.toRoute())
	}
	return routes, nil
}

// FetchVehicleLocations retrieves current vehicle positions, optionally
// scoped to one route. An empty result is valid: no vehicles are currently
// reporting.
func (c *Client) FetchVehicleLocations(ctx context.Context, routeTag string) ([]VehicleLocation, error) {
	params := url.Values{}
	params.Set("command", "vehicleLocations")
	if routeTag != "" {
		params.Set("r", routeTag)
	}
	params.Set("t", "0")

	body, err := c.fetch(ctx, params)
	if err != nil {
		return nil, err
	}

	var vehicles []VehicleLocation
	for _, v := range body.Vehicles {
		vehicles = append(vehicles, v.toVehicleLocation())
	}
	return vehicles, nil
}

// FetchPredictions retrieves arrival predictions for a stop, optionally
// scoped to a route. Missing or empty predictions for a stop is valid and
// renders as "no upcoming arrivals".
func (c *Client) FetchPredictions(ctx context.Context, stopTag, routeTag string) ([]StopPredictions, error) {
	params := url.Values{}
	if routeTag != "" {
		params.Set("command", "predictions")
		params.Set("r", routeTag)
		params.Set("s", stopTag)
	} else {
		params.Set("command", "predictionsForMultiStops")
		params.Set("stops", stopTag)
	}

	body, err := c.fetch(ctx, params)
	if err != nil {
		return nil, err
	}

	var predictions []StopPredictions
	for _, p := range body.Predictions {
		predictions = append(predictions, p.toStopPredictions())
	}
	return predictions, nil
}

// FetchPredictionsForMultiStops retrieves predictions for several
// route|stop pairs in one upstream call.
func (c *Client) FetchPredictionsForMultiStops(ctx context.Context, stops []string) ([]StopPredictions, error) {
	params := url.Values{}
	params.Set("command", "predictionsForMultiStops")
	for _, s := range stops {
		params.Add("stops", s)
	}

	body, err := c.fetch(ctx, params)
	if err != nil {
		return nil, err
	}

	var predictions []StopPredictions
	for _, p := range body.Predictions {
		predictions = append(predictions, p.toStopPredictions())
	}
	return predictions, nil
}

func (c *Client) fetch(ctx context.Context, params url.Values) (*xmlBody, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params.Set("a", c.agency)
	requestURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer logging.SafeCloseWithLogging(resp.Body,
		slog.Default().With(slog.String("component", "nextbus_client")),
		"http_response_body")

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d for command %q", resp.StatusCode, params.Get("command"))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var body xmlBody
	if err := xml.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("parsing feed response: %w", err)
	}

	if body.Error != nil {
		return nil, fmt.Errorf("feed error: %s", strings.TrimSpace(body.Error.Text))
	}

	return &body, nil
}
