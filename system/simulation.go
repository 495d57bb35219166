package system

import (
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/lixenwraith/navagent/agent"
	"github.com/lixenwraith/navagent/input"
	"github.com/lixenwraith/navagent/logging"
	"github.com/lixenwraith/navagent/navigation"
	"github.com/lixenwraith/navagent/status"
	"github.com/lixenwraith/navagent/vmath"
)

// commandQueueSize bounds cross-goroutine requests drained at the start of each tick
const commandQueueSize = 64

var (
	ErrNilRegistry = errors.New("system: nil mesh registry")
	ErrNilRoster   = errors.New("system: nil roster")
)

// AgentView is a read-only copy of one agent at the end of a tick
type AgentView struct {
	ID       agent.ID
	Position vmath.Vec3
	Path     []vmath.Vec3
	Target   agent.Target
	Speed    float64
	Arrived  bool
	Player   bool
}

// Frame is the state handed to presenters after the path-follow stage
type Frame struct {
	Tick     uint64
	Elapsed  time.Duration
	Paused   bool
	Query    navigation.QueryPrecision
	Mode     navigation.PathPrecision
	Agents   []AgentView
	Registry *navigation.Registry
}

// Presenter is the presentation stage; it must not retain Frame slices past the call
type Presenter interface {
	Present(frame *Frame)
}

// PresenterFunc adapts a function to Presenter
type PresenterFunc func(frame *Frame)

func (f PresenterFunc) Present(frame *Frame) { f(frame) }

// Simulation owns the agent collection and runs the stage pipeline
// Tick must be called from a single goroutine; Enqueue and the pause flag are safe from any goroutine
type Simulation struct {
	registry *navigation.Registry
	roster   *agent.Roster
	stats    *status.Registry
	logger   logging.Logger
	clock    Clock
	querier  navigation.Querier

	sinks      Sinks
	presenters []Presenter

	commander  *Commander
	maintainer *Maintainer
	driver     *Driver

	commands chan func(*Simulation)
	tick     uint64
	paused   atomic.Bool

	statTicks    *atomic.Int64
	statAgents   *atomic.Int64
	statDuration *status.Float
}

// Option configures a Simulation
type Option func(*Simulation)

// WithSink registers an event sink
func WithSink(sink EventSink) Option {
	return func(s *Simulation) { s.sinks.Add(sink) }
}

// WithPresenter appends a presentation stage; presenters run in registration order
func WithPresenter(p Presenter) Option {
	return func(s *Simulation) {
		if p != nil {
			s.presenters = append(s.presenters, p)
		}
	}
}

// WithStats shares a metrics registry
func WithStats(stats *status.Registry) Option {
	return func(s *Simulation) {
		if stats != nil {
			s.stats = stats
		}
	}
}

// WithLogger sets the logger
func WithLogger(l logging.Logger) Option {
	return func(s *Simulation) { s.logger = logging.OrNoOp(l) }
}

// WithClock replaces the clock used by Run
func WithClock(c Clock) Option {
	return func(s *Simulation) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithQuerier replaces the navigation engine
func WithQuerier(q navigation.Querier) Option {
	return func(s *Simulation) { s.querier = q }
}

// New creates a simulation over a registry and roster
// The registry is sealed: meshes are read-only once ticking starts
func New(viewport input.Viewport, registry *navigation.Registry, roster *agent.Roster, opts ...Option) (*Simulation, error) {
	if registry == nil {
		return nil, ErrNilRegistry
	}
	if roster == nil {
		return nil, ErrNilRoster
	}

	s := &Simulation{
		registry: registry,
		roster:   roster,
		stats:    status.NewRegistry(),
		logger:   logging.NewNoOpLogger(),
		clock:    SystemClock{},
		commands: make(chan func(*Simulation), commandQueueSize),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.querier == nil {
		s.querier = navigation.NewEngine(registry)
	}

	registry.Seal()

	s.commander = NewCommander(viewport, registry, s.stats, &s.sinks)
	s.maintainer = NewMaintainer(s.querier, s.stats, &s.sinks)
	s.driver = NewDriver(s.stats, &s.sinks)

	s.statTicks = s.stats.Ints.Get(status.KeyTicks)
	s.statAgents = s.stats.Ints.Get(status.KeyAgents)
	s.statDuration = s.stats.Floats.Get(status.KeyTickDuration)

	s.logger.Info("simulation created", "meshes", registry.Len(), "agents", roster.Len())
	return s, nil
}

// Roster returns the owned agent collection; mutate only from the tick goroutine or via Enqueue
func (s *Simulation) Roster() *agent.Roster { return s.roster }

// Registry returns the sealed mesh registry
func (s *Simulation) Registry() *navigation.Registry { return s.registry }

// Stats returns the metrics registry
func (s *Simulation) Stats() *status.Registry { return s.stats }

// Commander returns the command stage
func (s *Simulation) Commander() *Commander { return s.commander }

// Maintainer returns the maintenance stage
func (s *Simulation) Maintainer() *Maintainer { return s.maintainer }

// TickCount returns the number of completed ticks
func (s *Simulation) TickCount() uint64 { return s.tick }

// Paused reports whether the path-follow stage is suspended
func (s *Simulation) Paused() bool { return s.paused.Load() }

// SetPaused suspends or resumes the path-follow stage
func (s *Simulation) SetPaused(p bool) { s.paused.Store(p) }

// TogglePause flips the pause flag and returns the new state
func (s *Simulation) TogglePause() bool {
	for {
		old := s.paused.Load()
		if s.paused.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// Enqueue schedules fn to run on the tick goroutine before the next command stage
// Returns false when the queue is full
func (s *Simulation) Enqueue(fn func(*Simulation)) bool {
	select {
	case s.commands <- fn:
		return true
	default:
		return false
	}
}

// Tick runs one pass of command, maintenance, path-follow and presentation
func (s *Simulation) Tick(elapsed time.Duration, sig input.Signal) *Frame {
	start := time.Now()
	s.tick++
	s.sinks.tick = s.tick

	s.drain()

	s.commander.Update(sig, s.roster)
	s.maintainer.Update(s.tick, s.roster)

	paused := s.paused.Load()
	if !paused {
		s.driver.Update(elapsed, s.roster)
	}

	frame := s.frame(elapsed, paused)
	for _, p := range s.presenters {
		p.Present(frame)
	}

	s.statTicks.Add(1)
	s.statAgents.Store(int64(s.roster.Len()))
	s.statDuration.Store(float64(time.Since(start).Microseconds()) / 1000)
	return frame
}

func (s *Simulation) drain() {
	for {
		select {
		case fn := <-s.commands:
			fn(s)
		default:
			return
		}
	}
}

func (s *Simulation) frame(elapsed time.Duration, paused bool) *Frame {
	f := &Frame{
		Tick:     s.tick,
		Elapsed:  elapsed,
		Paused:   paused,
		Query:    s.commander.Query,
		Mode:     s.commander.Mode,
		Agents:   make([]AgentView, 0, s.roster.Len()),
		Registry: s.registry,
	}
	for _, a := range s.roster.All() {
		f.Agents = append(f.Agents, AgentView{
			ID:       a.ID(),
			Position: a.Position,
			Path:     a.Path(),
			Target:   a.Target(),
			Speed:    a.Speed,
			Arrived:  a.Arrived(),
			Player:   a.PlayerControlled,
		})
	}
	return f
}
