package system

import (
	"github.com/lixenwraith/navagent/agent"
	"github.com/lixenwraith/navagent/vmath"
)

// EventType discriminates stage events
type EventType uint8

const (
	EventNone EventType = iota
	EventDestinationSet
	EventPathCleared
	EventTeleported
	EventNoMesh
	EventPathComputed
	EventUnreachable
	EventArrived
)

func (t EventType) String() string {
	switch t {
	case EventDestinationSet:
		return "destination_set"
	case EventPathCleared:
		return "path_cleared"
	case EventTeleported:
		return "teleported"
	case EventNoMesh:
		return "no_mesh"
	case EventPathComputed:
		return "path_computed"
	case EventUnreachable:
		return "unreachable"
	case EventArrived:
		return "arrived"
	default:
		return "none"
	}
}

// Event reports a state change produced by a stage
// Point carries the destination, teleport location, or arrival position depending on Type
type Event struct {
	Type      EventType
	Tick      uint64
	Agent     agent.ID
	Point     vmath.Vec3
	Waypoints int // Path length for EventPathComputed
}

// EventSink observes stage events
// Called synchronously on the tick goroutine; implementations must not block
type EventSink interface {
	HandleEvent(ev Event)
}

// SinkFunc adapts a function to EventSink
type SinkFunc func(ev Event)

func (f SinkFunc) HandleEvent(ev Event) { f(ev) }

// Sinks fans events out to every registered sink in registration order
type Sinks struct {
	sinks []EventSink
	tick  uint64
}

// Add registers a sink; nil is ignored
func (s *Sinks) Add(sink EventSink) {
	if sink == nil {
		return
	}
	s.sinks = append(s.sinks, sink)
}

// HandleEvent stamps the current tick and dispatches
func (s *Sinks) HandleEvent(ev Event) {
	ev.Tick = s.tick
	for _, sink := range s.sinks {
		sink.HandleEvent(ev)
	}
}

// emitter wraps an optional sink
type emitter struct {
	sink EventSink
}

func (e emitter) emit(ev Event) {
	if e.sink != nil {
		e.sink.HandleEvent(ev)
	}
}
