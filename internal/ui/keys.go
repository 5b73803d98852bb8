package ui

// Keybinding represents a keyboard shortcut with its display name.
type Keybinding struct {
	Key  string // actual key(s) to match
	Desc string // description for help display
}

// Global keybindings (always available)
var (
	KeyQuit        = Keybinding{Key: "q", Desc: "Quit"}
	KeyQuitAlt     = Keybinding{Key: "ctrl+c", Desc: "Quit"}
	KeyHelp        = Keybinding{Key: "?", Desc: "Show help"}
	KeySearch      = Keybinding{Key: "/", Desc: "Search/filter"}
	KeyRefreshUp   = Keybinding{Key: "+", Desc: "Faster refresh"}
	KeyRefreshDown = Keybinding{Key: "-", Desc: "Slower refresh"}
)

// Navigation keybindings
var (
	KeyUp      = Keybinding{Key: "up", Desc: "Move up"}
	KeyUpAlt   = Keybinding{Key: "k", Desc: "Move up"}
	KeyDown    = Keybinding{Key: "down", Desc: "Move down"}
	KeyDownAlt = Keybinding{Key: "j", Desc: "Move down"}
	KeyEnter   = Keybinding{Key: "enter", Desc: "Look up port owner"}
	KeyEsc     = Keybinding{Key: "esc", Desc: "Back/cancel"}
)

// Action keybindings
var (
	KeyKillTerm  = Keybinding{Key: "x", Desc: "Kill process (SIGTERM)"}
	KeyKillForce = Keybinding{Key: "X", Desc: "Force kill (SIGKILL)"}
	KeyTrack     = Keybinding{Key: "t", Desc: "Toggle change tracking"}
	KeyExport    = Keybinding{Key: "e", Desc: "Export snapshot"}
	KeyFormat    = Keybinding{Key: "f", Desc: "Cycle export format"}
)

// matchKey checks if the input matches the keybinding.
func matchKey(input string, keys ...Keybinding) bool {
	for _, k := range keys {
		if input == k.Key {
			return true
		}
	}
	return false
}
