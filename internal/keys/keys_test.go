package keys

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestBindingsDoNotCollide(t *testing.T) {
	km := DefaultKeyMap()

	seen := map[string]string{}
	for _, group := range km.FullHelp() {
		for _, b := range group {
			for _, k := range b.Keys() {
				prev, dup := seen[k]
				assert.False(t, dup, "key %q bound to both %q and %q", k, prev, b.Help().Desc)
				seen[k] = b.Help().Desc
			}
		}
	}
}

func TestShortHelpIsSubsetOfFullHelp(t *testing.T) {
	km := DefaultKeyMap()

	full := map[string]bool{}
	for _, group := range km.FullHelp() {
		for _, b := range group {
			full[b.Help().Key] = true
		}
	}
	for _, b := range km.ShortHelp() {
		assert.True(t, full[b.Help().Key], b.Help().Key)
	}
	q := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}
	assert.True(t, key.Matches(q, km.Quit))
}
