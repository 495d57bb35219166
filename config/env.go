package config

import (
	"os"
	"strconv"
)

// Environment variable names
const (
	EnvAudioEnabled = "NAVAGENT_AUDIO_ENABLED"
	EnvMasterVolume = "NAVAGENT_MASTER_VOLUME"
	EnvStreamAddr   = "NAVAGENT_STREAM_ADDR"
	EnvDebug        = "NAVAGENT_DEBUG"
	EnvTickRate     = "NAVAGENT_TICK_RATE"
)

// ApplyEnv overrides cfg from the environment; unparsable values are ignored
func ApplyEnv(cfg *Config) {
	if enabled := os.Getenv(EnvAudioEnabled); enabled != "" {
		if val, err := strconv.ParseBool(enabled); err == nil {
			cfg.Audio.Enabled = val
		}
	}

	// Master volume is given as 0-100
	if volume := os.Getenv(EnvMasterVolume); volume != "" {
		if val, err := strconv.Atoi(volume); err == nil {
			v := float64(val) / 100.0
			if v < 0 {
				v = 0
			}
			if v > 1 {
				v = 1
			}
			cfg.Audio.MasterVolume = v
		}
	}

	if addr := os.Getenv(EnvStreamAddr); addr != "" {
		cfg.Stream.Addr = addr
		cfg.Stream.Enabled = true
	}

	if debug := os.Getenv(EnvDebug); debug != "" {
		if val, err := strconv.ParseBool(debug); err == nil {
			cfg.Log.Debug = val
		}
	}

	if rate := os.Getenv(EnvTickRate); rate != "" {
		if val, err := strconv.Atoi(rate); err == nil && val > 0 {
			cfg.Loop.TickRate = val
		}
	}
}
