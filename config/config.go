// Package config loads the navagent configuration and scene description.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/lixenwraith/navagent/logging"
	"github.com/lixenwraith/navagent/navigation"
)

var ErrInvalid = errors.New("config: invalid")

// Config is the complete runtime configuration
type Config struct {
	Viewport   ViewportConfig   `toml:"viewport"`
	Loop       LoopConfig       `toml:"loop"`
	Navigation NavigationConfig `toml:"navigation"`
	Audio      AudioConfig      `toml:"audio"`
	Stream     StreamConfig     `toml:"stream"`
	Log        LogConfig        `toml:"log"`
	Scene      Scene            `toml:"scene"`
}

// ViewportConfig is the world-space extent the pointer maps onto
type ViewportConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// LoopConfig controls the tick cadence
type LoopConfig struct {
	TickRate int `toml:"tick_rate"` // Hz
}

// Interval returns the tick period
func (l LoopConfig) Interval() time.Duration {
	if l.TickRate <= 0 {
		return 0
	}
	return time.Second / time.Duration(l.TickRate)
}

// NavigationConfig sets command precision and follow throttling
type NavigationConfig struct {
	Query                  string  `toml:"query"`
	Path                   string  `toml:"path"`
	DirtyDistance          float64 `toml:"dirty_distance"`
	MinTicksBetweenCompute int     `toml:"min_ticks_between_compute"`
}

// Precision resolves the configured names; Validate has already rejected unknown ones
func (n NavigationConfig) Precision() (navigation.QueryPrecision, navigation.PathPrecision) {
	q, _ := navigation.ParseQueryPrecision(n.Query)
	p, _ := navigation.ParsePathPrecision(n.Path)
	return q, p
}

// AudioConfig controls event cues
type AudioConfig struct {
	Enabled      bool               `toml:"enabled"`
	MasterVolume float64            `toml:"master_volume"` // 0.0 - 1.0
	SampleRate   int                `toml:"sample_rate"`
	Volumes      map[string]float64 `toml:"volumes"` // Per-cue volume keyed by cue name
}

// StreamConfig controls the websocket state stream
type StreamConfig struct {
	Enabled bool   `toml:"enabled"`
	Addr    string `toml:"addr"`
	Path    string `toml:"path"`
	Buffer  int    `toml:"buffer"` // Per-client frame queue depth
}

// LogConfig controls the debug log
type LogConfig struct {
	Debug  bool   `toml:"debug"`
	Dir    string `toml:"dir"`
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// ParsedLevel resolves the configured level name
func (l LogConfig) ParsedLevel() logging.Level {
	lvl, _ := logging.ParseLevel(l.Level)
	return lvl
}

// Load decodes path over Default and applies environment overrides
// Scene tables present in the file replace the default scene entirely
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
		if err := Decode(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "decode config %s", path)
		}
	}
	ApplyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode overlays TOML data onto cfg
func Decode(data []byte, cfg *Config) error {
	var peek struct {
		Scene *struct {
			Meshes []MeshConfig  `toml:"meshes"`
			Agents []AgentConfig `toml:"agents"`
		} `toml:"scene"`
	}
	if _, err := toml.Decode(string(data), &peek); err != nil {
		return err
	}
	if peek.Scene != nil {
		cfg.Scene = Scene{}
	}
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errors.Wrapf(ErrInvalid, "unknown key %s", undecoded[0])
	}
	return nil
}

// Validate rejects configurations the control loop cannot run
func (c *Config) Validate() error {
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return errors.Wrapf(ErrInvalid, "viewport %gx%g", c.Viewport.Width, c.Viewport.Height)
	}
	if c.Loop.TickRate <= 0 {
		return errors.Wrapf(ErrInvalid, "tick_rate %d", c.Loop.TickRate)
	}
	if _, ok := navigation.ParseQueryPrecision(c.Navigation.Query); !ok {
		return errors.Wrapf(ErrInvalid, "navigation.query %q", c.Navigation.Query)
	}
	if _, ok := navigation.ParsePathPrecision(c.Navigation.Path); !ok {
		return errors.Wrapf(ErrInvalid, "navigation.path %q", c.Navigation.Path)
	}
	if c.Navigation.DirtyDistance < 0 || c.Navigation.MinTicksBetweenCompute < 0 {
		return errors.Wrap(ErrInvalid, "negative follow throttle")
	}
	if c.Audio.MasterVolume < 0 || c.Audio.MasterVolume > 1 {
		return errors.Wrapf(ErrInvalid, "master_volume %g", c.Audio.MasterVolume)
	}
	for name, v := range c.Audio.Volumes {
		if v < 0 || v > 1 {
			return errors.Wrapf(ErrInvalid, "volume %s=%g", name, v)
		}
	}
	if c.Audio.SampleRate <= 0 {
		return errors.Wrapf(ErrInvalid, "sample_rate %d", c.Audio.SampleRate)
	}
	if c.Stream.Enabled && c.Stream.Addr == "" {
		return errors.Wrap(ErrInvalid, "stream enabled without addr")
	}
	if _, ok := logging.ParseLevel(c.Log.Level); !ok {
		return errors.Wrapf(ErrInvalid, "log level %q", c.Log.Level)
	}
	return c.Scene.Validate()
}
