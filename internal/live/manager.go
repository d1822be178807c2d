// Package live owns the polling loops that keep the vehicle, route, and
// prediction snapshots fresh, and the reconciliation of those snapshots
// against the rider's current selection.
package live

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Pa-nts/topperbus/internal/logging"
	"github.com/Pa-nts/topperbus/internal/metrics"
	"github.com/Pa-nts/topperbus/internal/nextbus"
	"github.com/Pa-nts/topperbus/internal/publisher"
	"github.com/Pa-nts/topperbus/internal/schedule"
)

// Fetcher is the slice of the feed client the manager needs. Tests inject a
// fake; production wires *nextbus.Client.
type Fetcher interface {
	FetchRouteConfig(ctx context.Context) ([]nextbus.Route, error)
	FetchVehicleLocations(ctx context.Context, routeTag string) ([]nextbus.VehicleLocation, error)
	FetchPredictions(ctx context.Context, stopTag, routeTag string) ([]nextbus.StopPredictions, error)
}

// VehiclePublisher receives each vehicle of a fresh snapshot; nil disables
// fan-out.
type VehiclePublisher interface {
	PublishVehicle(msg publisher.VehicleMessage) error
}

// Config holds the polling cadences. The main map view refreshes vehicles
// every 10s; the schedule view runs the same manager at 15s.
type Config struct {
	VehicleRefreshInterval    time.Duration
	PredictionRefreshInterval time.Duration
	FetchTimeout              time.Duration
	// RouteFilter scopes vehicle fetches to a single route when set.
	RouteFilter string
}

func (c Config) withDefaults() Config {
	if c.VehicleRefreshInterval == 0 {
		c.VehicleRefreshInterval = 10 * time.Second
	}
	if c.PredictionRefreshInterval == 0 {
		c.PredictionRefreshInterval = 30 * time.Second
	}
	if c.FetchTimeout == 0 {
		c.FetchTimeout = 15 * time.Second
	}
	return c
}

// Manager maintains the live snapshots and the rider's selection. Each
// polling loop writes only the state slice it owns (vehicles vs. the
// selected stop's predictions), so overlapping in-flight requests cannot
// corrupt each other; last write wins per slice.
type Manager struct {
	fetcher   Fetcher
	config    Config
	logger    *slog.Logger
	collector *metrics.Collector
	publisher VehiclePublisher

	mu                  sync.RWMutex
	routes              []nextbus.Route
	vehicles            []nextbus.VehicleLocation
	selection           Selection
	selectionSeq        uint64
	selectedPredictions []nextbus.StopPredictions

	shutdownChan chan struct{}
	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

// InitManager performs the initial full load and starts the polling loops.
// Only this initial load failure surfaces as a blocking error; later fetch
// failures are logged and the previous snapshot is retained.
func InitManager(ctx context.Context, fetcher Fetcher, config Config, logger *slog.Logger, collector *metrics.Collector, pub VehiclePublisher) (*Manager, error) {
	manager := &Manager{
		fetcher:      fetcher,
		config:       config.withDefaults(),
		logger:       logger,
		collector:    collector,
		publisher:    pub,
		selection:    NoSelection,
		shutdownChan: make(chan struct{}),
	}

	if err := manager.RefreshAll(ctx); err != nil {
		return nil, err
	}

	manager.wg.Add(1)
	go manager.updateVehiclesPeriodically()
	manager.wg.Add(1)
	go manager.updatePredictionsPeriodically()

	return manager, nil
}

// Shutdown stops the polling loops and waits for them to exit.
func (m *Manager) Shutdown() {
	m.shutdownOnce.Do(func() {
		close(m.shutdownChan)
		m.wg.Wait()
	})
}

// RefreshAll fetches route configuration and vehicle locations in parallel
// and replaces both snapshots. This is the only path that replaces the route
// snapshot; the periodic timers never touch it. A partial failure still
// applies whatever succeeded (stale-but-present beats blanking), but the
// error is returned so explicit user actions can surface it.
func (m *Manager) RefreshAll(ctx context.Context) error {
	logger := logging.FromContext(ctx).With(slog.String("component", "live_manager"))

	var wg sync.WaitGroup
	var routes []nextbus.Route
	var vehicles []nextbus.VehicleLocation
	var routesErr, vehiclesErr error

	wg.Add(1)
	go func() {
		defer wg.Done()
		routes, routesErr = m.fetcher.FetchRouteConfig(ctx)
		if routesErr != nil {
			logging.LogError(logger, "failed to fetch route config", routesErr)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		vehicles, vehiclesErr = m.fetcher.FetchVehicleLocations(ctx, m.config.RouteFilter)
		if vehiclesErr != nil {
			logging.LogError(logger, "failed to fetch vehicle locations", vehiclesErr)
		}
	}()

	wg.Wait()

	if m.collector != nil {
		m.collector.RouteRefreshes.Inc()
		if routesErr != nil || vehiclesErr != nil {
			m.collector.RouteRefreshErrs.Inc()
		}
	}

	m.mu.Lock()
	if routesErr == nil {
		m.routes = routes
	}
	if vehiclesErr == nil {
		m.vehicles = vehicles
		m.reconcileSelectedVehicleLocked(vehicles)
	}
	m.mu.Unlock()

	return errors.Join(routesErr, vehiclesErr)
}

func (m *Manager) updateVehiclesPeriodically() {
	defer m.wg.Done()

	logger := m.logger.With(slog.String("component", "vehicle_updater"))
	ticker := time.NewTicker(m.config.VehicleRefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), m.config.FetchTimeout)
			ctx = logging.WithLogger(ctx, logger)
			m.refreshVehicles(ctx)
			cancel()
		case <-m.shutdownChan:
			logging.LogOperation(logger, "shutting_down_vehicle_updates")
			return
		}
	}
}

// refreshVehicles replaces the vehicle snapshot and re-resolves the selected
// vehicle by id, so an open detail panel tracks the same logical vehicle
// across refreshes. A fetch failure retains the previous snapshot.
func (m *Manager) refreshVehicles(ctx context.Context) {
	logger := logging.FromContext(ctx)
	start := time.Now()

	vehicles, err := m.fetcher.FetchVehicleLocations(ctx, m.config.RouteFilter)
	if m.collector != nil {
		m.collector.VehiclePolls.Inc()
	}
	if err != nil {
		if m.collector != nil {
			m.collector.VehiclePollErrs.Inc()
		}
		logging.LogError(logger, "vehicle refresh failed, keeping previous snapshot", err)
		return
	}

	m.mu.Lock()
	m.vehicles = vehicles
	m.reconcileSelectedVehicleLocked(vehicles)
	m.mu.Unlock()

	if m.collector != nil {
		m.collector.VehiclesTracked.Set(float64(len(vehicles)))
		m.collector.PollObserve(time.Since(start))
	}

	m.publishVehicles(vehicles)
}

// reconcileSelectedVehicleLocked re-resolves a selected vehicle against a
// fresh snapshot: swap in the fresh copy when the id is still reporting,
// clear the selection when it has dropped out of the feed.
func (m *Manager) reconcileSelectedVehicleLocked(vehicles []nextbus.VehicleLocation) {
	if m.selection.Kind != SelectionVehicle {
		return
	}

	for _, v := range vehicles {
		if v.ID == m.selection.Vehicle.ID {
			m.selection.Vehicle = v
			return
		}
	}

	m.selection = NoSelection
	m.selectionSeq++
	m.selectedPredictions = nil
}

func (m *Manager) updatePredictionsPeriodically() {
	defer m.wg.Done()

	logger := m.logger.With(slog.String("component", "prediction_updater"))
	ticker := time.NewTicker(m.config.PredictionRefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), m.config.FetchTimeout)
			ctx = logging.WithLogger(ctx, logger)
			m.refreshSelectedPredictions(ctx)
			cancel()
		case <-m.shutdownChan:
			logging.LogOperation(logger, "shutting_down_prediction_updates")
			return
		}
	}
}

// refreshSelectedPredictions refreshes predictions for the selected stop,
// for as long as its panel is open. The response is applied only if the same
// selection is still current when it arrives; a late response for a stop the
// rider has already closed is dropped.
func (m *Manager) refreshSelectedPredictions(ctx context.Context) {
	logger := logging.FromContext(ctx)

	m.mu.RLock()
	selection := m.selection
	seq := m.selectionSeq
	m.mu.RUnlock()

	if selection.Kind != SelectionStop {
		return
	}

	predictions, err := m.fetcher.FetchPredictions(ctx, selection.Stop.Tag, "")
	if m.collector != nil {
		m.collector.PredictionPolls.Inc()
	}
	if err != nil {
		if m.collector != nil {
			m.collector.PredictionErrs.Inc()
		}
		logging.LogError(logger, "prediction refresh failed, keeping previous snapshot", err,
			slog.String("stop_tag", selection.Stop.Tag))
		return
	}

	m.mu.Lock()
	if m.selectionSeq == seq {
		m.selectedPredictions = predictions
	}
	m.mu.Unlock()
}

func (m *Manager) publishVehicles(vehicles []nextbus.VehicleLocation) {
	if m.publisher == nil {
		return
	}

	now := time.Now()
	for _, v := range vehicles {
		err := m.publisher.PublishVehicle(publisher.VehicleMessage{
			VehicleID:       v.ID,
			RouteTag:        v.RouteTag,
			DirTag:          v.DirTag,
			Timestamp:       now,
			Lat:             v.Lat,
			Lon:             v.Lon,
			Heading:         v.Heading,
			SpeedKmHr:       v.SpeedKmHr,
			SecsSinceReport: v.SecsSinceReport,
		})
		if err != nil {
			logging.LogError(m.logger, "failed to publish vehicle update", err,
				slog.String("vehicle_id", v.ID))
		}
	}
}

// Routes returns the current route snapshot.
func (m *Manager) Routes() []nextbus.Route {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.routes
}

// RouteByTag looks a route up in the current snapshot.
func (m *Manager) RouteByTag(tag string) (nextbus.Route, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.routes {
		if r.Tag == tag {
			return r, true
		}
	}
	return nextbus.Route{}, false
}

// Vehicles returns the current vehicle snapshot.
func (m *Manager) Vehicles() []nextbus.VehicleLocation {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.vehicles
}

// CurrentSelection returns the rider's selection.
func (m *Manager) CurrentSelection() Selection {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.selection
}

// Select replaces the selection. Selecting any entity closes the previous
// panel; predictions held for a previously selected stop are dropped.
func (m *Manager) Select(selection Selection) {
	m.mu.Lock()
	m.selection = selection
	m.selectionSeq++
	m.selectedPredictions = nil
	m.mu.Unlock()

	// An opening stop panel should not wait up to a full prediction
	// interval for its first data.
	if selection.Kind == SelectionStop {
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), m.config.FetchTimeout)
			defer cancel()
			m.refreshSelectedPredictions(logging.WithLogger(ctx, m.logger))
		}()
	}
}

// ClearSelection closes the detail panel.
func (m *Manager) ClearSelection() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selection = NoSelection
	m.selectionSeq++
	m.selectedPredictions = nil
}

// SelectedStopPredictions returns the raw prediction groups for the selected
// stop.
func (m *Manager) SelectedStopPredictions() []nextbus.StopPredictions {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.selectedPredictions
}

// VisibleArrivals flattens the selected stop's predictions across routes,
// sorted by minutes ascending, excluding routes outside their service
// window. The second return reports whether any predictions were hidden that
// way, which drives the "out of service" notice.
func (m *Manager) VisibleArrivals(now time.Time) ([]nextbus.Prediction, bool) {
	m.mu.RLock()
	groups := m.selectedPredictions
	m.mu.RUnlock()

	var visible []nextbus.Prediction
	hidden := false
	for i := range groups {
		group := &groups[i]
		if !group.HasPredictions() {
			continue
		}
		if !schedule.IsRouteInService(group.RouteTag, now) {
			hidden = true
			continue
		}
		visible = append(visible, group.Flattened()...)
	}

	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].Minutes < visible[j].Minutes
	})
	return visible, hidden
}

// MergedStops returns the deduplicated stop list for the current route
// snapshot.
func (m *Manager) MergedStops() []MergedStop {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return DedupeStops(m.routes)
}
