package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlays(t *testing.T) {
	plays, err := parsePlays([]string{"Sailing", "Archery", "Oars@alice", "Writing"}, []string{"alice", "bob"})
	require.NoError(t, err)
	assert.Equal(t, []play{
		{card: "Sailing", player: "alice"},
		{card: "Archery", player: "bob"},
		{card: "Oars", player: "alice"},
		{card: "Writing", player: "bob"},
	}, plays)

	_, err = parsePlays([]string{"@bob"}, []string{"alice"})
	assert.Error(t, err)
}

func TestActivateCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"activate", "--seed", "3", "Sailing", "Archery", "Code of Laws@alice"})
	t.Setenv("INNOVATION_LOGGING_LEVEL", "error")

	require.NoError(t, rootCmd.Execute())

	text := out.String()
	assert.Contains(t, text, "alice activates Sailing")
	assert.Contains(t, text, "bob activates Archery")
	assert.Contains(t, text, "alice activates Code of Laws")
	assert.Contains(t, text, "table:")
}

func TestActivateUnknownCard(t *testing.T) {
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"activate", "Telescope"})
	t.Setenv("INNOVATION_LOGGING_LEVEL", "error")

	assert.ErrorContains(t, rootCmd.Execute(), "unknown card Telescope")
}

func TestCardsCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"cards", "--age", "3"})
	t.Setenv("INNOVATION_LOGGING_LEVEL", "error")

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "Compass")
	assert.Contains(t, out.String(), "demand(crown)")
	assert.NotContains(t, out.String(), "Archery")
}
