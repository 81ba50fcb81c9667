package config

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubTerminal(t *testing.T, tty bool, read func(int) ([]byte, error)) *bytes.Buffer {
	t.Helper()
	origTerm, origRead, origOut, origFd := isTerminal, readPassword, promptOut, stdinFd
	t.Cleanup(func() { isTerminal, readPassword, promptOut, stdinFd = origTerm, origRead, origOut, origFd })

	out := &bytes.Buffer{}
	isTerminal = func(int) bool { return tty }
	if read == nil {
		read = func(int) ([]byte, error) {
			t.Fatal("terminal must not be read")
			return nil, nil
		}
	}
	readPassword = read
	promptOut = out
	stdinFd = func() int { return 0 }
	return out
}

func TestPromptAPIKey_AsksOnTerminal(t *testing.T) {
	out := stubTerminal(t, true, func(int) ([]byte, error) { return []byte(" ptla_typed \n"), nil })

	cfg := &Config{}
	require.NoError(t, promptAPIKey(cfg))
	assert.Equal(t, "ptla_typed", cfg.PanelAPIKey)
	assert.Contains(t, out.String(), "API key")
}

func TestPromptAPIKey_SkipsWhenSet(t *testing.T) {
	stubTerminal(t, true, nil)

	cfg := &Config{PanelAPIKey: "already"}
	require.NoError(t, promptAPIKey(cfg))
	assert.Equal(t, "already", cfg.PanelAPIKey)
}

func TestPromptAPIKey_SkipsWithoutTerminal(t *testing.T) {
	stubTerminal(t, false, nil)

	cfg := &Config{}
	require.NoError(t, promptAPIKey(cfg))
	assert.Empty(t, cfg.PanelAPIKey)
}

func TestPromptAPIKey_ReadError(t *testing.T) {
	stubTerminal(t, true, func(int) ([]byte, error) { return nil, errors.New("tty closed") })

	cfg := &Config{}
	err := promptAPIKey(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tty closed")
}
