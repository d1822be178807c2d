package nextbus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const routeConfigXML = `<?xml version="1.0" encoding="utf-8"?>
<body copyright="All data copyright agency.">
  <route tag="red" title="Red Line" color="cc0000" oppositeColor="ffffff"
         latMin="36.9801" latMax="36.9902" lonMin="-86.4601" lonMax="-86.4502">
    <stop tag="main" title="Main Street" shortTitle="Main" lat="36.9856" lon="-86.4552" stopId="1001"/>
    <stop tag="union" title="Student Union" lat="36.9870" lon="-86.4560" stopId="1002"/>
    <direction tag="red_loop" title="Campus Loop" name="Loop" useForUI="true">
      <stop tag="main"/>
      <stop tag="union"/>
    </direction>
    <direction tag="red_hidden" title="Deadhead" name="Deadhead" useForUI="false">
      <stop tag="main"/>
    </direction>
    <path>
      <point lat="36.9856" lon="-86.4552"/>
      <point lat="36.9870" lon="-86.4560"/>
    </path>
  </route>
</body>`

const vehicleLocationsXML = `<?xml version="1.0" encoding="utf-8"?>
<body>
  <vehicle id="301" routeTag="red" dirTag="red_loop" lat="36.9860" lon="-86.4555"
           heading="87" speedKmHr="24.1" secsSinceReport="4" predictable="true"/>
  <vehicle id="302" routeTag="red" lat="36.9880" lon="-86.4570" heading="bogus" predictable="false"/>
  <lastTime time="1733000000000"/>
</body>`

const predictionsXML = `<?xml version="1.0" encoding="utf-8"?>
<body>
  <predictions agencyTitle="TopperBus" routeTag="red" routeTitle="Red Line" stopTag="main" stopTitle="Main Street">
    <direction title="Campus Loop">
      <prediction minutes="12" seconds="745" epochTime="1733000745000" vehicle="301" dirTag="red_loop"/>
      <prediction minutes="3" seconds="182" epochTime="1733000182000" vehicle="302" dirTag="red_loop" affectedByLayover="true"/>
    </direction>
    <message text="Detour on College Heights Blvd"/>
  </predictions>
</body>`

const feedErrorXML = `<?xml version="1.0" encoding="utf-8"?>
<body>
  <Error shouldRetry="false">
    Agency parameter "a" is missing
  </Error>
</body>`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL, Agency: "wku"})
}

func TestFetchRouteConfig(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "routeConfig", r.URL.Query().Get("command"))
		assert.Equal(t, "wku", r.URL.Query().Get("a"))
		w.Write([]byte(routeConfigXML))
	})

	routes, err := client.FetchRouteConfig(context.Background())
	require.NoError(t, err)
	require.Len(t, routes, 1)

	route := routes[0]
	assert.Equal(t, "red", route.Tag)
	assert.Equal(t, "Red Line", route.Title)
	assert.Equal(t, "cc0000", route.Color)
	assert.InDelta(t, 36.9801, route.LatMin, 1e-9)

	require.Len(t, route.Stops, 2)
	assert.Equal(t, "Main Street", route.Stops[0].Title)
	assert.Equal(t, "1001", route.Stops[0].StopID)
	assert.InDelta(t, 36.9856, route.Stops[0].Lat, 1e-9)
	// Missing shortTitle defaults to empty, not an error
	assert.Empty(t, route.Stops[1].ShortTitle)

	require.Len(t, route.Directions, 2)
	loop := route.Directions[0]
	assert.True(t, loop.UseForUI)
	assert.Equal(t, []string{"main", "union"}, loop.StopTags)
	assert.False(t, route.Directions[1].UseForUI)

	require.Len(t, route.Paths, 1)
	require.Len(t, route.Paths[0], 2)
	assert.InDelta(t, -86.4552, route.Paths[0][0].Lon, 1e-9)

	// Direction stop tags resolve against the route's stop list
	stop, ok := route.StopByTag("union")
	require.True(t, ok)
	assert.Equal(t, "Student Union", stop.Title)
}

func TestFetchVehicleLocations(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "vehicleLocations", r.URL.Query().Get("command"))
		assert.Equal(t, "red", r.URL.Query().Get("r"))
		assert.Equal(t, "0", r.URL.Query().Get("t"))
		w.Write([]byte(vehicleLocationsXML))
	})

	vehicles, err := client.FetchVehicleLocations(context.Background(), "red")
	require.NoError(t, err)
	require.Len(t, vehicles, 2)

	assert.Equal(t, "301", vehicles[0].ID)
	assert.Equal(t, 87, vehicles[0].Heading)
	assert.InDelta(t, 24.1, vehicles[0].SpeedKmHr, 1e-9)
	assert.True(t, vehicles[0].Predictable)

	// Malformed and missing attributes decay to zero values
	assert.Equal(t, 0, vehicles[1].Heading)
	assert.Empty(t, vehicles[1].DirTag)
	assert.Zero(t, vehicles[1].SpeedKmHr)
	assert.False(t, vehicles[1].Predictable)
}

func TestFetchVehicleLocationsEmptyFeed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<body><lastTime time="0"/></body>`))
	})

	vehicles, err := client.FetchVehicleLocations(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, vehicles)
}

func TestFetchPredictions(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "predictions", r.URL.Query().Get("command"))
		assert.Equal(t, "red", r.URL.Query().Get("r"))
		assert.Equal(t, "main", r.URL.Query().Get("s"))
		w.Write([]byte(predictionsXML))
	})

	predictions, err := client.FetchPredictions(context.Background(), "main", "red")
	require.NoError(t, err)
	require.Len(t, predictions, 1)

	sp := predictions[0]
	assert.Equal(t, "main", sp.StopTag)
	assert.True(t, sp.HasPredictions())
	assert.Equal(t, []string{"Detour on College Heights Blvd"}, sp.Messages)

	// Flattened predictions come back soonest first
	flat := sp.Flattened()
	require.Len(t, flat, 2)
	assert.Equal(t, 3, flat[0].Minutes)
	assert.Equal(t, "302", flat[0].VehicleID)
	assert.True(t, flat[0].AffectedByLayover)
	assert.Equal(t, 12, flat[1].Minutes)
}

func TestFetchPredictionsMultiStopCommand(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "predictionsForMultiStops", r.URL.Query().Get("command"))
		assert.Equal(t, []string{"red|main", "red|union"}, r.URL.Query()["stops"])
		w.Write([]byte(`<body></body>`))
	})

	_, err := client.FetchPredictionsForMultiStops(context.Background(), []string{"red|main", "red|union"})
	require.NoError(t, err)
}

func TestFetchReturnsFeedError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(feedErrorXML))
	})

	_, err := client.FetchRouteConfig(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Agency parameter")
}

func TestFetchRejectsNonOKStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.FetchRouteConfig(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
