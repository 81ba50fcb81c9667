package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Test seams for the terminal.
var (
	isTerminal             = term.IsTerminal
	readPassword           = term.ReadPassword
	promptOut    io.Writer = os.Stderr
	stdinFd                = func() int { return int(os.Stdin.Fd()) }
)

// promptAPIKey asks for the panel API key without echo when it is still
// unset after every other source and stdin is an interactive terminal.
func promptAPIKey(config *Config) error {
	if config.PanelAPIKey != "" || !isTerminal(stdinFd()) {
		return nil
	}

	fmt.Fprint(promptOut, "Panel application API key: ")
	key, err := readPassword(stdinFd())
	fmt.Fprintln(promptOut)
	if err != nil {
		return fmt.Errorf("reading API key: %w", err)
	}
	config.PanelAPIKey = strings.TrimSpace(string(key))
	return nil
}
