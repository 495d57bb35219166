package system

import (
	"github.com/lixenwraith/navagent/logging"
)

// LogSink writes every event to a logger at debug level, unreachable targets at info
type LogSink struct {
	logger logging.Logger
}

// NewLogSink creates an event sink over l
func NewLogSink(l logging.Logger) *LogSink {
	return &LogSink{logger: logging.OrNoOp(l)}
}

func (s *LogSink) HandleEvent(ev Event) {
	args := []any{
		"tick", ev.Tick,
		"agent", ev.Agent.String(),
		"x", ev.Point.X,
		"y", ev.Point.Y,
	}
	switch ev.Type {
	case EventPathComputed:
		s.logger.Debug(ev.Type.String(), append(args, "waypoints", ev.Waypoints)...)
	case EventUnreachable, EventNoMesh:
		s.logger.Info(ev.Type.String(), args...)
	default:
		s.logger.Debug(ev.Type.String(), args...)
	}
}
