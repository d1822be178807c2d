package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns a private registry so test instances never collide on the
// default global one.
type Collector struct {
	reg *prometheus.Registry

	VehiclesTracked prometheus.Gauge

	VehiclePolls     prometheus.Counter
	VehiclePollErrs  prometheus.Counter
	PredictionPolls  prometheus.Counter
	PredictionErrs   prometheus.Counter
	RouteRefreshes   prometheus.Counter
	RouteRefreshErrs prometheus.Counter

	NATSPublished   prometheus.Counter
	NATSPublishErrs prometheus.Counter
	NATSConnected   prometheus.Gauge

	FeedbackOutcomes *prometheus.CounterVec // outcome label: forwarded|rejected|rate_limited|upstream_error

	PollDuration    prometheus.Histogram
	PublishDuration prometheus.Histogram
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		VehiclesTracked: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "topperbus_vehicles_tracked",
			Help: "Number of vehicles in the current snapshot.",
		}),
		VehiclePolls: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "topperbus_vehicle_polls_total",
			Help: "Total vehicle location poll cycles.",
		}),
		VehiclePollErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "topperbus_vehicle_poll_errors_total",
			Help: "Total vehicle location poll failures.",
		}),
		PredictionPolls: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "topperbus_prediction_polls_total",
			Help: "Total selected-stop prediction poll cycles.",
		}),
		PredictionErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "topperbus_prediction_poll_errors_total",
			Help: "Total selected-stop prediction poll failures.",
		}),
		RouteRefreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "topperbus_route_refreshes_total",
			Help: "Total full route configuration refreshes.",
		}),
		RouteRefreshErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "topperbus_route_refresh_errors_total",
			Help: "Total full route configuration refresh failures.",
		}),
		NATSPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "topperbus_nats_published_total",
			Help: "Total NATS messages published.",
		}),
		NATSPublishErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "topperbus_nats_publish_errors_total",
			Help: "Total NATS publish errors.",
		}),
		NATSConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "topperbus_nats_connected",
			Help: "1 if NATS connection is established, 0 otherwise.",
		}),
		FeedbackOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "topperbus_feedback_requests_total",
			Help: "Feedback endpoint outcomes.",
		}, []string{"outcome"}),
		PollDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "topperbus_poll_duration_seconds",
			Help:    "Duration of a vehicle poll cycle, fetch through snapshot swap.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		PublishDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "topperbus_publish_duration_seconds",
			Help:    "Duration to marshal and publish a NATS message.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 15),
		}),
	}

	reg.MustRegister(
		c.VehiclesTracked,
		c.VehiclePolls, c.VehiclePollErrs,
		c.PredictionPolls, c.PredictionErrs,
		c.RouteRefreshes, c.RouteRefreshErrs,
		c.NATSPublished, c.NATSPublishErrs, c.NATSConnected,
		c.FeedbackOutcomes,
		c.PollDuration, c.PublishDuration,
	)

	return c
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

// PollObserve records one vehicle poll cycle.
func (c *Collector) PollObserve(d time.Duration) {
	if c == nil {
		return
	}
	c.PollDuration.Observe(d.Seconds())
}
