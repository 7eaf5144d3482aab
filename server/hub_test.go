package server

import (
	"math"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testScenario = `
Title: "Point Source"
Size: [10.0]
Spacing: 1.0
Speed: 2000000.0
Duration: 4.9e-6
Source:
  Location: [3.0]
  Frequency: 100000.0
`

// dialTestServer stands up the WebSocket mux on an httptest listener
// and dials it.
func dialTestServer(t *testing.T, cfg Config) (*websocket.Conn, *Metrics, func()) {
	t.Helper()
	m, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)
	ts := httptest.NewServer(NewServer(cfg, m).Handler())
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn, m, func() {
		conn.Close()
		ts.Close()
	}
}

func TestSessionStreamsFrames(t *testing.T) {
	conn, m, teardown := dialTestServer(t, Config{})
	defer teardown()

	require.NoError(t, conn.WriteJSON(Request{Type: "configure", Content: testScenario}))
	var resp Response
	require.NoError(t, conn.ReadJSON(&resp))
	require.Equal(t, "configured", resp.Type)
	assert.Equal(t, "Point Source", resp.Title)
	assert.Equal(t, 5.e-7, resp.Dt)
	assert.Equal(t, 10, resp.Steps)
	assert.Equal(t, []int{10}, resp.Shape)

	require.NoError(t, conn.WriteJSON(Request{Type: "run"}))
	frames := 0
	for {
		require.NoError(t, conn.ReadJSON(&resp))
		if resp.Type == "done" {
			break
		}
		require.Equal(t, "frame", resp.Type)
		assert.Equal(t, frames, resp.Step)
		assert.Equal(t, []int{10}, resp.Shape)
		require.Len(t, resp.Data, 10)
		if resp.Step == 1 {
			assert.InDelta(t, math.Sin(2*math.Pi*1.e5*5.e-7), resp.Data[3], 1.e-9)
			assert.Equal(t, 0., resp.Data[0])
		}
		frames++
	}
	assert.Equal(t, 10, frames)
	assert.Equal(t, 10, resp.Steps)

	assert.Equal(t, 1., testutil.ToFloat64(m.Runs.WithLabelValues("completed")))
	assert.Equal(t, 10., testutil.ToFloat64(m.Steps))
	assert.Equal(t, 10., testutil.ToFloat64(m.FramesSent))
	assert.Equal(t, 0., testutil.ToFloat64(m.ActiveRuns))
}

func TestSessionFrameLimit(t *testing.T) {
	conn, m, teardown := dialTestServer(t, Config{FrameLimit: 5})
	defer teardown()

	require.NoError(t, conn.WriteJSON(Request{Type: "configure", Content: testScenario}))
	var resp Response
	require.NoError(t, conn.ReadJSON(&resp))
	require.Equal(t, "configured", resp.Type)

	require.NoError(t, conn.WriteJSON(Request{Type: "run"}))
	frames := 0
	for {
		require.NoError(t, conn.ReadJSON(&resp))
		if resp.Type == "done" {
			break
		}
		require.Equal(t, "frame", resp.Type)
		assert.Equal(t, 0, resp.Step%2) // stride 2 for 10 steps capped at 5
		frames++
	}
	assert.Equal(t, 5, frames)
	assert.Equal(t, 10., testutil.ToFloat64(m.Steps)) // every step still computed
	assert.Equal(t, 5., testutil.ToFloat64(m.FramesSent))
}

func TestSessionStop(t *testing.T) {
	conn, m, teardown := dialTestServer(t, Config{})
	defer teardown()

	longScenario := `
Size: [10.0]
Spacing: 1.0
Speed: 2000000.0
Duration: 0.05
Source:
  Location: [3.0]
  Frequency: 100000.0
`
	require.NoError(t, conn.WriteJSON(Request{Type: "configure", Content: longScenario}))
	var resp Response
	require.NoError(t, conn.ReadJSON(&resp))
	require.Equal(t, "configured", resp.Type)
	require.Equal(t, 100000, resp.Steps)

	require.NoError(t, conn.WriteJSON(Request{Type: "run"}))
	for i := 0; i < 3; i++ {
		require.NoError(t, conn.ReadJSON(&resp))
		require.Equal(t, "frame", resp.Type)
	}
	require.NoError(t, conn.WriteJSON(Request{Type: "stop"}))
	for {
		require.NoError(t, conn.ReadJSON(&resp))
		if resp.Type == "error" {
			break
		}
		require.Equal(t, "frame", resp.Type)
	}
	assert.Contains(t, resp.Error, "context canceled")
	assert.Equal(t, 1., testutil.ToFloat64(m.Runs.WithLabelValues("canceled")))
	assert.Equal(t, 0., testutil.ToFloat64(m.ActiveRuns))
}

func TestSessionErrors(t *testing.T) {
	conn, _, teardown := dialTestServer(t, Config{})
	defer teardown()
	var resp Response

	{ // run before configure
		require.NoError(t, conn.WriteJSON(Request{Type: "run"}))
		require.NoError(t, conn.ReadJSON(&resp))
		assert.Equal(t, "error", resp.Type)
		assert.Contains(t, resp.Error, "no scenario")
	}
	{ // stop without a run
		require.NoError(t, conn.WriteJSON(Request{Type: "stop"}))
		require.NoError(t, conn.ReadJSON(&resp))
		assert.Equal(t, "error", resp.Type)
		assert.Contains(t, resp.Error, "no run")
	}
	{ // incomplete scenario
		require.NoError(t, conn.WriteJSON(Request{Type: "configure", Content: "Size: [10.0]"}))
		require.NoError(t, conn.ReadJSON(&resp))
		assert.Equal(t, "error", resp.Type)
	}
	{ // unknown message type
		require.NoError(t, conn.WriteJSON(Request{Type: "bogus"}))
		require.NoError(t, conn.ReadJSON(&resp))
		assert.Equal(t, "error", resp.Type)
		assert.Contains(t, resp.Error, "no such type")
	}
	{ // the session survives all of the above
		require.NoError(t, conn.WriteJSON(Request{Type: "configure", Content: testScenario}))
		require.NoError(t, conn.ReadJSON(&resp))
		assert.Equal(t, "configured", resp.Type)
	}
}

func TestFrameStride(t *testing.T) {
	assert.Equal(t, 1, frameStride(100, 0))
	assert.Equal(t, 1, frameStride(100, 100))
	assert.Equal(t, 4, frameStride(100, 25))
	assert.Equal(t, 5, frameStride(101, 25))
}
