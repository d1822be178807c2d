// Package publisher fans reconciled vehicle snapshots out over NATS so
// rendering surfaces can subscribe to live positions instead of polling this
// service. The publisher is optional; the reconciler runs identically
// without it.
package publisher

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
)

// PublisherMetrics is the slice of the metrics collector the publisher
// needs; nil disables instrumentation.
type PublisherMetrics interface {
	NATSPublishedInc()
	NATSPublishErrInc()
	PublishObserve(d time.Duration)
	NATSSetConnected(connected bool)
}

type NATSPublisher struct {
	nc      *nats.Conn
	logger  *slog.Logger
	metrics PublisherMetrics
}

// NewNATSPublisher connects to the given NATS URL with reconnect handling.
func NewNATSPublisher(url string, logger *slog.Logger, m PublisherMetrics) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("topperbus"),
		nats.DisconnectHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(false)
			}
			logger.Warn("nats disconnected")
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(true)
			}
			logger.Info("nats reconnected")
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(false)
			}
			logger.Info("nats closed")
		}),
	)
	if err != nil {
		return nil, err
	}
	if m != nil {
		m.NATSSetConnected(true)
	}
	return &NATSPublisher{nc: nc, logger: logger, metrics: m}, nil
}

func (p *NATSPublisher) Close() {
	if p.nc != nil {
		_ = p.nc.Drain()
		p.nc.Close()
	}
}

// VehicleMessage is the wire form of one vehicle position update.
type VehicleMessage struct {
	VehicleID       string    `json:"vehicleId"`
	RouteTag        string    `json:"routeTag"`
	DirTag          string    `json:"dirTag"`
	Timestamp       time.Time `json:"timestamp"`
	Lat             float64   `json:"lat"`
	Lon             float64   `json:"lon"`
	Heading         int       `json:"heading"`
	SpeedKmHr       float64   `json:"speedKmHr"`
	SecsSinceReport int       `json:"secsSinceReport"`
}

// PublishVehicle publishes one position update on vehicles.<route>.<id>.
func (p *NATSPublisher) PublishVehicle(msg VehicleMessage) error {
	subject := fmt.Sprintf("vehicles.%s.%s", subjectToken(msg.RouteTag), subjectToken(msg.VehicleID))
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	start := time.Now()
	err = p.nc.Publish(subject, b)
	if p.metrics != nil {
		p.metrics.PublishObserve(time.Since(start))
		if err != nil {
			p.metrics.NATSPublishErrInc()
		} else {
			p.metrics.NATSPublishedInc()
		}
	}
	return err
}

func subjectToken(s string) string {
	s = strings.TrimSpace(s)
	// NATS tokens cannot contain spaces, '>', '*', or '.'
	repl := strings.NewReplacer(" ", "_", ".", "_", ">", "_", "*", "_", "/", "_", "\t", "_")
	s = repl.Replace(s)
	if s == "" {
		s = "_"
	}
	return s
}
