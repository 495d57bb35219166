// Package stream publishes per-tick simulation state to websocket observers.
package stream

import (
	"github.com/lixenwraith/navagent/agent"
	"github.com/lixenwraith/navagent/input"
	"github.com/lixenwraith/navagent/navigation"
	"github.com/lixenwraith/navagent/system"
	"github.com/lixenwraith/navagent/vmath"
)

// ProtocolVersion is carried in every message
const ProtocolVersion = 1

// Message types
const (
	TypeScene = "scene"
	TypeState = "state"
)

// Vec is a JSON world position
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z,omitempty"`
}

func vec(v vmath.Vec3) Vec {
	return Vec{X: v.X, Y: v.Y, Z: v.Z}
}

func vecs(in []vmath.Vec3) []Vec {
	if len(in) == 0 {
		return nil
	}
	out := make([]Vec, len(in))
	for i, v := range in {
		out[i] = vec(v)
	}
	return out
}

// TargetState describes an agent destination
type TargetState struct {
	Kind  string `json:"kind" jsonschema:"enum=point,enum=agent"`
	Point *Vec   `json:"point,omitempty"`
	Agent string `json:"agent,omitempty"`
}

// AgentState is one agent in a state message
type AgentState struct {
	ID       string       `json:"id"`
	Position Vec          `json:"position"`
	Path     []Vec        `json:"path,omitempty"`
	Target   *TargetState `json:"target,omitempty"`
	Speed    float64      `json:"speed"`
	Arrived  bool         `json:"arrived,omitempty"`
	Player   bool         `json:"player,omitempty"`
}

// Snapshot is the per-tick state message
type Snapshot struct {
	Ver       int                `json:"ver"`
	Type      string             `json:"type"`
	Tick      uint64             `json:"tick"`
	ElapsedMS float64            `json:"elapsedMs"`
	Paused    bool               `json:"paused,omitempty"`
	Query     string             `json:"query"`
	Path      string             `json:"path"`
	Agents    []AgentState       `json:"agents"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
}

// MeshState is one walkable surface in the scene message
type MeshState struct {
	ID        string      `json:"id"`
	Vertices  []Vec       `json:"vertices"`
	Triangles [][3]uint32 `json:"triangles"`
}

// SceneMessage is sent once when an observer connects
type SceneMessage struct {
	Ver    int         `json:"ver"`
	Type   string      `json:"type"`
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Meshes []MeshState `json:"meshes"`
}

func target(t agent.Target) *TargetState {
	switch t.Kind {
	case agent.TargetPoint:
		p := vec(t.Point)
		return &TargetState{Kind: t.Kind.String(), Point: &p}
	case agent.TargetAgent:
		return &TargetState{Kind: t.Kind.String(), Agent: t.Agent.String()}
	default:
		return nil
	}
}

// NewSnapshot converts a frame; metrics may be nil
func NewSnapshot(f *system.Frame, metrics map[string]float64) Snapshot {
	s := Snapshot{
		Ver:       ProtocolVersion,
		Type:      TypeState,
		Tick:      f.Tick,
		ElapsedMS: float64(f.Elapsed.Microseconds()) / 1000,
		Paused:    f.Paused,
		Query:     f.Query.String(),
		Path:      f.Mode.String(),
		Agents:    make([]AgentState, 0, len(f.Agents)),
		Metrics:   metrics,
	}
	for _, a := range f.Agents {
		s.Agents = append(s.Agents, AgentState{
			ID:       a.ID.String(),
			Position: vec(a.Position),
			Path:     vecs(a.Path),
			Target:   target(a.Target),
			Speed:    a.Speed,
			Arrived:  a.Arrived,
			Player:   a.Player,
		})
	}
	return s
}

// NewSceneMessage describes the static scene
func NewSceneMessage(viewport input.Viewport, reg *navigation.Registry) SceneMessage {
	msg := SceneMessage{
		Ver:    ProtocolVersion,
		Type:   TypeScene,
		Width:  viewport.Width,
		Height: viewport.Height,
	}
	if reg == nil {
		return msg
	}
	for _, m := range reg.Meshes() {
		ms := MeshState{
			ID:        m.ID().String(),
			Vertices:  vecs(m.Vertices()),
			Triangles: make([][3]uint32, 0, m.TriangleCount()),
		}
		for _, t := range m.Triangles() {
			ms.Triangles = append(ms.Triangles, [3]uint32{t.A, t.B, t.C})
		}
		msg.Meshes = append(msg.Meshes, ms)
	}
	return msg
}
