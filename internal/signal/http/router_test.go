package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rkarimov/smart-traffic/internal/common/logger"
	signalhttp "github.com/rkarimov/smart-traffic/internal/signal/http"
	"github.com/rkarimov/smart-traffic/internal/signal/service"
	"github.com/rkarimov/smart-traffic/internal/signal/ws"
)

func setupSignalServer(t *testing.T) (*httptest.Server, *ws.Hub) {
	t.Helper()
	log, _ := logger.New("", "test", "ERROR")
	board := service.NewBoard(service.DefaultSeed())
	hub := ws.NewHub(log)
	t.Cleanup(hub.Close)

	r := chi.NewRouter()
	signalhttp.NewHandler(board, hub, log).Mount(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, hub
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestAllTraffic(t *testing.T) {
	srv, _ := setupSignalServer(t)

	var zones []service.ZoneCount
	status := getJSON(t, srv.URL+"/traffic/", &zones)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []service.ZoneCount{
		{Zone: "A", VehicleCount: 75},
		{Zone: "B", VehicleCount: 60},
		{Zone: "C", VehicleCount: 80},
	}, zones)
}

func TestZoneTraffic(t *testing.T) {
	srv, _ := setupSignalServer(t)

	var zone service.ZoneCount
	status := getJSON(t, srv.URL+"/traffic/B", &zone)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, service.ZoneCount{Zone: "B", VehicleCount: 60}, zone)
}

func TestZoneTraffic_Unknown(t *testing.T) {
	srv, _ := setupSignalServer(t)

	resp, err := http.Get(srv.URL + "/traffic/Z")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `"detail":"Zone not found"`)
}

func TestUpdateTraffic(t *testing.T) {
	srv, _ := setupSignalServer(t)

	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/traffic/A?vehicle_count=12", nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var zone service.ZoneCount
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&zone))
	assert.Equal(t, service.ZoneCount{Zone: "A", VehicleCount: 12}, zone)
}

func TestUpdateTraffic_BadCount(t *testing.T) {
	srv, _ := setupSignalServer(t)

	for _, query := range []string{"", "?vehicle_count=abc", "?vehicle_count=-1"} {
		req, _ := http.NewRequest(http.MethodPut, srv.URL+"/traffic/A"+query, nil)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, "query %q", query)
	}
}

func TestSignalStatus(t *testing.T) {
	srv, _ := setupSignalServer(t)

	var red service.SignalStatus
	status := getJSON(t, srv.URL+"/signal/A", &red)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, service.SignalStatus{Zone: "A", Signal: "Red", Duration: 45}, red)

	var green service.SignalStatus
	status = getJSON(t, srv.URL+"/signal/B", &green)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, service.SignalStatus{Zone: "B", Signal: "Green", Duration: 30}, green)
}

func TestServiceStatus(t *testing.T) {
	srv, _ := setupSignalServer(t)

	var body map[string]string
	status := getJSON(t, srv.URL+"/status", &body)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Traffic Service is running", body["status"])
}

func TestFeed_BroadcastsUpdates(t *testing.T) {
	srv, _ := setupSignalServer(t)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/traffic/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	// Give the server a moment to register the subscriber.
	time.Sleep(50 * time.Millisecond)

	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/traffic/C?vehicle_count=90", nil)
	putResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	putResp.Body.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var update service.ZoneCount
	require.NoError(t, conn.ReadJSON(&update))
	assert.Equal(t, service.ZoneCount{Zone: "C", VehicleCount: 90}, update)
}
