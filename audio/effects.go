package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Cue timing
const (
	blipDuration = 60 * time.Millisecond
	blipAttack   = 5 * time.Millisecond
	blipRelease  = 30 * time.Millisecond

	bellDuration        = 600 * time.Millisecond
	bellAttack          = 5 * time.Millisecond
	bellFundamentalTail = 550 * time.Millisecond
	bellOvertoneTail    = 300 * time.Millisecond

	buzzDuration = 120 * time.Millisecond
	buzzAttack   = 5 * time.Millisecond
	buzzRelease  = 30 * time.Millisecond

	whooshDuration = 300 * time.Millisecond
	whooshAttack   = 150 * time.Millisecond
	whooshRelease  = 150 * time.Millisecond
)

// waveform maps an oscillator phase in [0,1) to a sample in [-1,1]
type waveform func(phase float64) float64

func sine(phase float64) float64 { return math.Sin(2 * math.Pi * phase) }

func square(phase float64) float64 {
	if phase < 0.5 {
		return 1
	}
	return -1
}

func saw(phase float64) float64 { return 2*phase - 1 }

func noise(float64) float64 { return rand.Float64()*2 - 1 }

// tone is a fixed-length mono wave duplicated on both channels
type tone struct {
	wave      waveform
	step      float64
	phase     float64
	remaining int
}

func newTone(wave waveform, freq float64, d time.Duration, rate beep.SampleRate) *tone {
	return &tone{wave: wave, step: freq / float64(rate), remaining: rate.N(d)}
}

func (t *tone) Stream(samples [][2]float64) (int, bool) {
	if t.remaining <= 0 {
		return 0, false
	}
	n := min(len(samples), t.remaining)
	for i := range samples[:n] {
		v := t.wave(t.phase)
		samples[i] = [2]float64{v, v}
		t.phase += t.step
		t.phase -= math.Floor(t.phase)
	}
	t.remaining -= n
	return n, true
}

func (t *tone) Err() error { return nil }

// envelope ramps gain up over attack and down over the final release samples
type envelope struct {
	src     beep.Streamer
	pos     int
	attack  int
	release int
	total   int
}

func shaped(src beep.Streamer, d, attack, release time.Duration, rate beep.SampleRate) *envelope {
	return &envelope{src: src, attack: rate.N(attack), release: rate.N(release), total: rate.N(d)}
}

// gain returns the envelope level at sample pos
func (e *envelope) gain(pos int) float64 {
	g := 1.0
	if e.attack > 0 && pos < e.attack {
		g = float64(pos) / float64(e.attack)
	}
	if left := e.total - pos; e.release > 0 && left <= e.release {
		g = min(g, float64(left)/float64(e.release))
	}
	return max(g, 0)
}

func (e *envelope) Stream(samples [][2]float64) (int, bool) {
	if left := e.total - e.pos; left < len(samples) {
		samples = samples[:max(left, 0)]
	}
	if len(samples) == 0 {
		return 0, false
	}
	n, ok := e.src.Stream(samples)
	for i := range samples[:n] {
		g := e.gain(e.pos)
		samples[i][0] *= g
		samples[i][1] *= g
		e.pos++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.src.Err() }

// newVolume maps a linear gain onto effects.Volume; zero or less is silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// blip is a short high square tick for a new destination
func blip(rate beep.SampleRate) beep.Streamer {
	osc := newTone(square, 1320, blipDuration, rate)
	return newVolume(shaped(osc, blipDuration, blipAttack, blipRelease, rate), 0.5)
}

// bell is an A5 ding with an octave overtone for arrival
func bell(rate beep.SampleRate) beep.Streamer {
	fund := newTone(sine, 880, bellDuration, rate)
	over := newTone(sine, 1760, bellDuration, rate)
	return beep.Mix(
		newVolume(shaped(fund, bellDuration, bellAttack, bellFundamentalTail, rate), 0.7),
		newVolume(shaped(over, bellDuration, bellAttack, bellOvertoneTail, rate), 0.3),
	)
}

// buzz is a low saw for unreachable targets
func buzz(rate beep.SampleRate) beep.Streamer {
	return shaped(newTone(saw, 110, buzzDuration, rate), buzzDuration, buzzAttack, buzzRelease, rate)
}

// whoosh is swelling noise for teleports
func whoosh(rate beep.SampleRate) beep.Streamer {
	return shaped(newTone(noise, 0, whooshDuration, rate), whooshDuration, whooshAttack, whooshRelease, rate)
}

// Streamer builds the shaped, volume-scaled streamer for cue
// Returns nil for unknown cues
func Streamer(c Cue, cfg *Config) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)

	var s beep.Streamer
	switch c {
	case CueBlip:
		s = blip(rate)
	case CueBell:
		s = bell(rate)
	case CueBuzz:
		s = buzz(rate)
	case CueWhoosh:
		s = whoosh(rate)
	default:
		return nil
	}
	return newVolume(s, cfg.Volumes[c]*cfg.MasterVolume)
}
