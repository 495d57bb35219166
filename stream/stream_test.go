package stream

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/navagent/agent"
	"github.com/lixenwraith/navagent/input"
	"github.com/lixenwraith/navagent/navigation"
	"github.com/lixenwraith/navagent/status"
	"github.com/lixenwraith/navagent/system"
	"github.com/lixenwraith/navagent/vmath"
)

func testRegistry(t *testing.T) *navigation.Registry {
	t.Helper()
	mesh, err := navigation.NewMesh(
		[]vmath.Vec3{vmath.V2(0, 0), vmath.V2(10, 0), vmath.V2(0, 10)},
		[]navigation.Triangle{navigation.Tri(0, 1, 2)},
	)
	require.NoError(t, err)
	reg := navigation.NewRegistry()
	_, err = reg.Register(mesh)
	require.NoError(t, err)
	return reg
}

func testFrame() *system.Frame {
	leader := agent.New(vmath.Vec3{}, 0)
	return &system.Frame{
		Tick:    42,
		Elapsed: 16 * time.Millisecond,
		Mode:    navigation.PathMidPoints,
		Agents: []system.AgentView{
			{
				ID:       leader.ID(),
				Position: vmath.V2(1, 2),
				Path:     []vmath.Vec3{vmath.V2(1, 2), vmath.V2(3, 4)},
				Target:   agent.PointTarget(vmath.V2(3, 4)),
				Speed:    5,
				Player:   true,
			},
			{
				ID:     agent.New(vmath.Vec3{}, 0).ID(),
				Target: agent.AgentTarget(leader.ID()),
			},
		},
	}
}

func TestNewSnapshot(t *testing.T) {
	f := testFrame()
	s := NewSnapshot(f, map[string]float64{"tick.count": 42})

	assert.Equal(t, TypeState, s.Type)
	assert.EqualValues(t, 42, s.Tick)
	assert.InDelta(t, 16, s.ElapsedMS, 1e-9)
	assert.Equal(t, "accuracy", s.Query)
	assert.Equal(t, "midpoints", s.Path)
	require.Len(t, s.Agents, 2)

	first := s.Agents[0]
	assert.Equal(t, Vec{X: 1, Y: 2}, first.Position)
	assert.Len(t, first.Path, 2)
	require.NotNil(t, first.Target)
	assert.Equal(t, "point", first.Target.Kind)
	assert.Equal(t, &Vec{X: 3, Y: 4}, first.Target.Point)

	second := s.Agents[1]
	assert.Nil(t, second.Path)
	require.NotNil(t, second.Target)
	assert.Equal(t, "agent", second.Target.Kind)
	assert.Equal(t, f.Agents[0].ID.String(), second.Target.Agent)
}

func TestNewSceneMessage(t *testing.T) {
	msg := NewSceneMessage(input.Viewport{Width: 80, Height: 60}, testRegistry(t))
	assert.Equal(t, TypeScene, msg.Type)
	require.Len(t, msg.Meshes, 1)
	assert.Len(t, msg.Meshes[0].Vertices, 3)
	assert.Equal(t, [][3]uint32{{0, 1, 2}}, msg.Meshes[0].Triangles)
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if resp != nil {
		resp.Body.Close()
	}
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readJSON(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(payload, v))
}

func TestHubStreamsSceneThenState(t *testing.T) {
	stats := status.NewRegistry()
	hub, err := NewHub(HubConfig{
		Scene:   NewSceneMessage(input.Viewport{Width: 80, Height: 60}, testRegistry(t)),
		Stats:   stats,
		Metrics: true,
	})
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(hub.Handle))
	t.Cleanup(srv.Close)
	conn := dial(t, srv)

	var scene SceneMessage
	readJSON(t, conn, &scene)
	assert.Equal(t, TypeScene, scene.Type)
	assert.Equal(t, 80.0, scene.Width)
	assert.Equal(t, 1, hub.Clients())
	assert.EqualValues(t, 1, stats.Ints.Get(status.KeyStreamClients).Load())

	stats.Ints.Get(status.KeyTicks).Store(42)
	hub.Present(testFrame())

	var state Snapshot
	readJSON(t, conn, &state)
	assert.Equal(t, TypeState, state.Type)
	assert.EqualValues(t, 42, state.Tick)
	assert.Len(t, state.Agents, 2)
	assert.Equal(t, 42.0, state.Metrics[status.KeyTicks])
}

func TestHubUnregistersOnDisconnect(t *testing.T) {
	hub, err := NewHub(HubConfig{})
	require.NoError(t, err)
	srv := httptest.NewServer(http.HandlerFunc(hub.Handle))
	t.Cleanup(srv.Close)

	conn := dial(t, srv)
	var scene SceneMessage
	readJSON(t, conn, &scene)
	require.Equal(t, 1, hub.Clients())

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHubDropsWhenQueueFull(t *testing.T) {
	stats := status.NewRegistry()
	hub, err := NewHub(HubConfig{Buffer: 1, Stats: stats})
	require.NoError(t, err)

	// A client with no writer never drains
	c := &client{send: make(chan []byte, 1)}
	require.True(t, hub.register(c))

	hub.Present(testFrame())
	hub.Present(testFrame())
	hub.Present(testFrame())

	assert.Len(t, c.send, 1)
	assert.EqualValues(t, 2, stats.Ints.Get(status.KeyStreamDropped).Load())

	hub.Close()
	assert.Zero(t, hub.Clients())
	assert.False(t, hub.register(&client{send: make(chan []byte, 1)}))
}

func TestHubPresentWithoutClients(t *testing.T) {
	hub, err := NewHub(HubConfig{})
	require.NoError(t, err)
	assert.NotPanics(t, func() { hub.Present(testFrame()) })
}
