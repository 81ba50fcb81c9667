package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/freepanel/internal/flagx"
)

var serverFlags = []string{"-a", "-m", "-d", "-s", "-u", "-k", "-n", "-g", "-i", "-x", "-l", "-t", "-w", "-b", "-e", "-r", "-v"}

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     gRPC bind address (e.g., ":50051")
//	-m string     metrics bind address, empty disables
//	-d string     database DSN (SQLite path or postgres:// URL)
//	-s string     JWT HMAC secret key
//	-u string     panel base URL
//	-k string     panel application API key
//	-n int        panel node id
//	-g int        egg id
//	-i string     docker image
//	-x int        max servers per node
//	-l string     panel link shown to users
//	-t duration   panel request timeout
//	-w duration   per-user command cooldown
//	-b string     S3 bucket for orphan reports
//	-e string     S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-r string     S3 region
//	-v string     log level (debug, info, warn, error)
//
// The args are first filtered with flagx.FilterArgs so flags owned by other
// layers (-c, -config, -env) do not trip the parser.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, serverFlags)

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.MetricsAddr, "m", config.MetricsAddr, "address and port to serve metrics")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.PanelURL, "u", config.PanelURL, "panel URL")
	fs.StringVar(&config.PanelAPIKey, "k", config.PanelAPIKey, "panel API key")
	fs.Int64Var(&config.NodeID, "n", config.NodeID, "node id")
	fs.Int64Var(&config.EggID, "g", config.EggID, "egg id")
	fs.StringVar(&config.DockerImage, "i", config.DockerImage, "docker image")
	fs.IntVar(&config.MaxServersPerNode, "x", config.MaxServersPerNode, "max servers per node")
	fs.StringVar(&config.PanelLink, "l", config.PanelLink, "panel link")
	fs.DurationVar(&config.PanelTimeout, "t", config.PanelTimeout, "panel request timeout")
	fs.DurationVar(&config.CommandCooldown, "w", config.CommandCooldown, "command cooldown")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3Region, "r", config.S3Region, "S3 region")
	fs.StringVar(&config.LogLevel, "v", config.LogLevel, "log level")

	return fs.Parse(args)
}
