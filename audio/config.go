package audio

import "strings"

// Cue identifies an audible event
type Cue int

const (
	CueBlip   Cue = iota // Destination set
	CueBell              // Arrival
	CueBuzz              // Unreachable target or no mesh
	CueWhoosh            // Teleport
	cueCount
)

var cueNames = [cueCount]string{"blip", "bell", "buzz", "whoosh"}

func (c Cue) String() string {
	if c < 0 || c >= cueCount {
		return "unknown"
	}
	return cueNames[c]
}

// ParseCue maps a configuration name onto a Cue
func ParseCue(name string) (Cue, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range cueNames {
		if n == name {
			return Cue(i), true
		}
	}
	return 0, false
}

// Config controls cue playback
type Config struct {
	Enabled      bool
	MasterVolume float64 // 0.0 - 1.0
	SampleRate   int
	Volumes      [cueCount]float64
}

// DefaultConfig returns audio disabled at half volume
func DefaultConfig() *Config {
	return &Config{
		Enabled:      false,
		MasterVolume: 0.5,
		SampleRate:   44100,
		Volumes: [cueCount]float64{
			CueBlip:   0.4,
			CueBell:   0.8,
			CueBuzz:   0.5,
			CueWhoosh: 0.6,
		},
	}
}

// SetVolume sets a cue volume by name; unknown names are reported false
func (c *Config) SetVolume(name string, vol float64) bool {
	cue, ok := ParseCue(name)
	if !ok {
		return false
	}
	c.Volumes[cue] = vol
	return true
}
