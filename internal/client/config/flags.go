package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/freepanel/internal/flagx"
)

var clientFlags = []string{"-a", "-u", "-n", "-k", "-t"}

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     address and port of the backend server
//	-u string     platform user id to act as
//	-n string     display name sent with commands
//	-k string     shared secret used to sign access tokens
//	-t duration   per-command timeout
//
// Other arguments are filtered out with flagx.FilterArgs first.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("freepanel-cli", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.UserID, "u", cfg.UserID, "platform user id")
	fs.StringVar(&cfg.DisplayName, "n", cfg.DisplayName, "display name")
	fs.StringVar(&cfg.SecretKey, "k", cfg.SecretKey, "shared token secret")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "per-command timeout")

	return fs.Parse(flagx.FilterArgs(args, clientFlags))
}
