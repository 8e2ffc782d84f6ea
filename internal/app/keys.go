package app

import "github.com/nhle/smartcal/internal/keys"

// KeyMap is the agenda keymap.
type KeyMap = keys.KeyMap

// DefaultKeyMap delegates to keys.DefaultKeyMap.
func DefaultKeyMap() *KeyMap {
	return keys.DefaultKeyMap()
}
