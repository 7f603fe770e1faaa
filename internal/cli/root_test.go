package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "ida", cmd.Use)

	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"validate", "run", "test", "trace", "replay", "asm", "disasm"} {
		assert.True(t, names[want], "missing command %q", want)
	}

	assert.NotNil(t, cmd.PersistentFlags().Lookup("verbose"))
	format := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "text", format.DefValue)
}

func TestRootCommand_InvalidFormat(t *testing.T) {
	cmd := NewRootCommand()
	_, err := execute(cmd, "--format", "yaml", "asm", "SUICIDE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestIsValidFormat(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))
	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
}
