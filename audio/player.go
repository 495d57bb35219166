// Package audio plays short synthesized cues for navigation events.
package audio

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/pkg/errors"

	"github.com/lixenwraith/navagent/logging"
	"github.com/lixenwraith/navagent/status"
	"github.com/lixenwraith/navagent/system"
)

// speakerBuffer is the device buffer length
const speakerBuffer = 100 * time.Millisecond

// CuePlayer turns simulation events into cues mixed onto the speaker
// At most one cue of each kind starts per tick
type CuePlayer struct {
	mu       sync.Mutex
	cfg      *Config
	mixer    *beep.Mixer
	started  bool
	lastTick [cueCount]uint64

	muted atomic.Bool

	logger     logging.Logger
	statPlayed *atomic.Int64
}

// NewCuePlayer creates a player; no device is opened until Start
func NewCuePlayer(cfg *Config, stats *status.Registry, logger logging.Logger) *CuePlayer {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if stats == nil {
		stats = status.NewRegistry()
	}
	return &CuePlayer{
		cfg:        cfg,
		mixer:      &beep.Mixer{},
		logger:     logging.OrNoOp(logger),
		statPlayed: stats.Ints.Get(status.KeyCuesPlayed),
	}
}

// Start opens the speaker and begins streaming the mixer
// A disabled config makes Start a no-op
func (p *CuePlayer) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started || !p.cfg.Enabled {
		return nil
	}

	rate := beep.SampleRate(p.cfg.SampleRate)
	if err := speaker.Init(rate, rate.N(speakerBuffer)); err != nil {
		return errors.Wrap(err, "init speaker")
	}
	speaker.Play(p.mixer)
	p.started = true
	p.logger.Info("audio started", "sample_rate", p.cfg.SampleRate)
	return nil
}

// Stop silences every active cue
func (p *CuePlayer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.started = false
}

// ToggleMute flips mute and returns the new state
func (p *CuePlayer) ToggleMute() bool {
	for {
		old := p.muted.Load()
		if p.muted.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// Muted reports whether cues are suppressed
func (p *CuePlayer) Muted() bool {
	return p.muted.Load()
}

// Play mixes cue in immediately
func (p *CuePlayer) Play(c Cue) bool {
	if !p.cfg.Enabled || p.muted.Load() {
		return false
	}
	s := Streamer(c, p.cfg)
	if s == nil {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		speaker.Lock()
		p.mixer.Add(s)
		speaker.Unlock()
	} else {
		p.mixer.Add(s)
	}
	p.statPlayed.Add(1)
	return true
}

// HandleEvent maps events onto cues
func (p *CuePlayer) HandleEvent(ev system.Event) {
	c, ok := cueFor(ev.Type)
	if !ok {
		return
	}

	p.mu.Lock()
	if ev.Tick != 0 && p.lastTick[c] == ev.Tick {
		p.mu.Unlock()
		return
	}
	p.lastTick[c] = ev.Tick
	p.mu.Unlock()

	p.Play(c)
}

func cueFor(t system.EventType) (Cue, bool) {
	switch t {
	case system.EventDestinationSet:
		return CueBlip, true
	case system.EventArrived:
		return CueBell, true
	case system.EventUnreachable, system.EventNoMesh:
		return CueBuzz, true
	case system.EventTeleported:
		return CueWhoosh, true
	default:
		return 0, false
	}
}
