package config

import (
	"sort"
	"strings"
)

// ActionDescriptions maps action names to help-menu descriptions.
var ActionDescriptions = map[string]string{
	"new_window":        "Open a window in the selected cell",
	"close_window":      "Close the selected window",
	"focus_left":        "Focus the cell to the left",
	"focus_down":        "Focus the cell below",
	"focus_up":          "Focus the cell above",
	"focus_right":       "Focus the cell to the right",
	"toggle_split_dir":  "Flip the parent split orientation",
	"shrink":            "Shrink the selected cell",
	"grow":              "Grow the selected cell",
	"toggle_zen":        "Toggle zen mode on the selected cell",
	"toggle_fullscreen": "Toggle the fullscreen-covered flag",
	"cycle_split_mode":  "Cycle the split mode",
	"toggle_swap":       "Arm swap with the next focused cell",
	"compact":           "Compact fragmented layout trees",
	"next_screen":       "Focus the next screen",
	"toggle_help":       "Toggle the help overlay",
	"quit":              "Quit",
}

// KeybindRegistry resolves key presses to actions and actions back to
// their configured keys.
type KeybindRegistry struct {
	keyToAction map[string]string
	actionKeys  map[string][]string
}

// NewKeybindRegistry builds a registry from the user configuration.
// Later actions never steal keys already claimed; actions are applied
// in sorted order so conflicts resolve deterministically.
func NewKeybindRegistry(cfg *UserConfig) *KeybindRegistry {
	r := &KeybindRegistry{
		keyToAction: make(map[string]string),
		actionKeys:  make(map[string][]string),
	}

	actions := make([]string, 0, len(cfg.Keybindings))
	for action := range cfg.Keybindings {
		actions = append(actions, action)
	}
	sort.Strings(actions)

	for _, action := range actions {
		for _, key := range cfg.Keybindings[action] {
			key = strings.ToLower(strings.TrimSpace(key))
			if key == "" {
				continue
			}
			if _, taken := r.keyToAction[key]; taken {
				continue
			}
			r.keyToAction[key] = action
			r.actionKeys[action] = append(r.actionKeys[action], key)
		}
	}
	return r
}

// GetAction returns the action bound to key, or "" when unbound.
func (r *KeybindRegistry) GetAction(key string) string {
	return r.keyToAction[strings.ToLower(key)]
}

// GetKeys returns the keys bound to action.
func (r *KeybindRegistry) GetKeys(action string) []string {
	return r.actionKeys[action]
}

// GetKeysForDisplay returns the keys bound to action joined for help
// output, or "" when the action is unbound.
func (r *KeybindRegistry) GetKeysForDisplay(action string) string {
	return strings.Join(r.actionKeys[action], ", ")
}
