package input

import (
	"github.com/gdamore/tcell/v2"
)

// Intent is a host-level action bound to a key
type Intent uint8

const (
	IntentNone Intent = iota
	IntentQuit
	IntentTogglePause
	IntentToggleMute
	IntentTogglePathMode  // Accuracy <-> MidPoints for subsequent destinations
	IntentToggleQueryMode // Accuracy <-> Closest for subsequent destinations
	IntentToggleMesh      // Show/hide mesh wireframe
	IntentClearAll        // Clear every agent's path
)

func (i Intent) String() string {
	switch i {
	case IntentQuit:
		return "quit"
	case IntentTogglePause:
		return "toggle_pause"
	case IntentToggleMute:
		return "toggle_mute"
	case IntentTogglePathMode:
		return "toggle_path_mode"
	case IntentToggleQueryMode:
		return "toggle_query_mode"
	case IntentToggleMesh:
		return "toggle_mesh"
	case IntentClearAll:
		return "clear_all"
	default:
		return "none"
	}
}

// keyTable maps special keys to intents
var keyTable = map[tcell.Key]Intent{
	tcell.KeyCtrlC:  IntentQuit,
	tcell.KeyCtrlQ:  IntentQuit,
	tcell.KeyEscape: IntentQuit,
	tcell.KeyCtrlS:  IntentToggleMute,
}

// runeTable maps printable keys to intents
var runeTable = map[rune]Intent{
	'q': IntentQuit,
	' ': IntentTogglePause,
	'p': IntentTogglePathMode,
	'a': IntentToggleQueryMode,
	'm': IntentToggleMesh,
	'c': IntentClearAll,
}

// KeyIntent resolves a key event to an intent
func KeyIntent(ev *tcell.EventKey) Intent {
	if ev.Key() == tcell.KeyRune {
		return runeTable[ev.Rune()]
	}
	return keyTable[ev.Key()]
}
