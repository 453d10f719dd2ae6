package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap_Bindings(t *testing.T) {
	km := DefaultKeyMap()
	require.NotNil(t, km)

	tests := []struct {
		name    string
		binding key.Binding
		key     string
	}{
		{"quit", km.Quit, "q"},
		{"quit ctrl+c", km.Quit, "ctrl+c"},
		{"process", km.Process, "p"},
		{"check", km.Check, "c"},
		{"refresh", km.Refresh, "r"},
		{"remove", km.Remove, "d"},
		{"clear", km.Clear, "x"},
		{"export", km.Export, "e"},
		{"up", km.Up, "k"},
		{"down", km.Down, "j"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, Matches(tt.key, tt.binding))
		})
	}
}

func TestMatches_NoMatch(t *testing.T) {
	km := DefaultKeyMap()

	assert.False(t, Matches("z", km.Process))
}

func TestKeyMap_Help(t *testing.T) {
	km := DefaultKeyMap()

	assert.Len(t, km.ShortHelp(), 5)
	assert.Len(t, km.FullHelp(), 4)
	assert.Equal(t, "process", km.Process.Help().Desc)
}
