package config

import (
	"github.com/lixenwraith/navagent/system"
)

// Default returns the built-in sample: an 800x600 viewport over a ring-shaped
// mesh with one player-controlled agent in the lower corridor
func Default() *Config {
	return &Config{
		Viewport: ViewportConfig{Width: 800, Height: 600},
		Loop:     LoopConfig{TickRate: 60},
		Navigation: NavigationConfig{
			Query:                  "accuracy",
			Path:                   "accuracy",
			DirtyDistance:          system.DefaultDirtyDistance,
			MinTicksBetweenCompute: system.DefaultMinTicksBetweenCompute,
		},
		Audio: AudioConfig{
			Enabled:      false,
			MasterVolume: 0.5,
			SampleRate:   44100,
			Volumes:      map[string]float64{},
		},
		Stream: StreamConfig{
			Addr:   "127.0.0.1:8089",
			Path:   "/stream",
			Buffer: 8,
		},
		Log: LogConfig{
			Dir:    "logs",
			Level:  "info",
			Format: "text",
		},
		Scene: Scene{
			Meshes: []MeshConfig{{
				Name: "sample",
				Vertices: [][]float64{
					{50, 50}, {500, 50}, {500, 100}, {100, 100}, {100, 300},
					{700, 300}, {700, 50}, {750, 50}, {750, 550}, {50, 550},
				},
				Triangles: [][3]uint32{
					{1, 2, 3}, {0, 1, 3}, {0, 3, 4}, {0, 4, 9},
					{4, 8, 9}, {4, 5, 8}, {5, 7, 8}, {5, 6, 7},
				},
			}},
			Agents: []AgentConfig{{
				Name:   "player",
				X:      400,
				Y:      450,
				Speed:  100,
				Player: true,
			}},
		},
	}
}
