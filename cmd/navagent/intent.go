package main

import (
	"github.com/lixenwraith/navagent/input"
	"github.com/lixenwraith/navagent/navigation"
	"github.com/lixenwraith/navagent/system"
)

// muter is satisfied by the audio cue player
type muter interface {
	ToggleMute() bool
}

// meshToggler is satisfied by the terminal presenter
type meshToggler interface {
	ToggleMesh() bool
}

// host binds key intents to the running components
// Simulation state changes are queued onto the tick goroutine
type host struct {
	sim   *system.Simulation
	audio muter
	view  meshToggler
	quit  func()
}

// apply performs intent; returns false once the host should stop reading input
func (h *host) apply(intent input.Intent) bool {
	switch intent {
	case input.IntentQuit:
		h.quit()
		return false
	case input.IntentTogglePause:
		h.sim.TogglePause()
	case input.IntentToggleMute:
		if h.audio != nil {
			h.audio.ToggleMute()
		}
	case input.IntentToggleMesh:
		if h.view != nil {
			h.view.ToggleMesh()
		}
	case input.IntentTogglePathMode:
		h.sim.Enqueue(func(s *system.Simulation) {
			c := s.Commander()
			if c.Mode == navigation.PathAccuracy {
				c.Mode = navigation.PathMidPoints
			} else {
				c.Mode = navigation.PathAccuracy
			}
		})
	case input.IntentToggleQueryMode:
		h.sim.Enqueue(func(s *system.Simulation) {
			c := s.Commander()
			if c.Query == navigation.QueryAccuracy {
				c.Query = navigation.QueryClosest
			} else {
				c.Query = navigation.QueryAccuracy
			}
		})
	case input.IntentClearAll:
		h.sim.Enqueue(func(s *system.Simulation) {
			for _, a := range s.Roster().All() {
				a.ClearPath()
			}
		})
	}
	return true
}
