// Package config handles configuration for the server component,
// including defaults, .env/environment overlay, JSON overlay, and
// command-line flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/dmitrijs2005/freepanel/internal/cryptox"
	"github.com/dmitrijs2005/freepanel/internal/panel"
	"github.com/dmitrijs2005/freepanel/internal/server/orphans"
	"github.com/dmitrijs2005/freepanel/internal/server/provisioning"
)

// Config holds runtime settings for the FreePanel server.
//
// Fields:
//   - PanelURL / PanelAPIKey: Pterodactyl application API base URL and key.
//   - NodeID / EggID / DockerImage: where and what free servers are created.
//   - MaxServersPerNode: capacity ceiling counted across the whole node.
//   - PanelLink: user-facing panel URL included in delivered messages.
//   - DatabaseDSN: SQLite file path, or a postgres:// DSN.
//   - SecretKey: HMAC secret used to verify access tokens (HS256).
//   - S3*: optional bucket for orphan reports; disabled when S3Bucket is empty.
type Config struct {
	PanelURL          string
	PanelAPIKey       string
	PanelTimeout      time.Duration
	NodeID            int64
	EggID             int64
	DockerImage       string
	MaxServersPerNode int
	PanelLink         string

	StartupCommand string
	Limits         panel.Limits
	FeatureLimits  panel.FeatureLimits
	Environment    map[string]string
	PasswordLength int

	EndpointAddrGRPC string
	MetricsAddr      string
	CommandCooldown  time.Duration
	DatabaseDSN      string
	SecretKey        string
	LogLevel         string

	S3RootUser     string
	S3RootPassword string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
}

// placeholderSecret is the token secret sample configs ship with. Anyone can
// mint tokens with it, so it is never accepted.
const placeholderSecret = "secretKey"

// LoadDefaults populates Config with the values the legacy bot shipped with.
// Panel URL, key, node, egg and image have no usable default.
func (c *Config) LoadDefaults() {
	c.PanelTimeout = 30 * time.Second
	c.MaxServersPerNode = 100
	c.PanelLink = "https://gp.loftix.host/"

	c.StartupCommand = "java -Xms512M -Xmx1G -XX:+UseG1GC -XX:+DisableExplicitGC -jar minecraft_server.jar nogui"
	c.Limits = panel.Limits{Memory: 6144, Swap: 0, Disk: 20480, IO: 500, CPU: 150}
	c.FeatureLimits = panel.FeatureLimits{Databases: 1, Allocations: 1, Backups: 1}
	c.Environment = map[string]string{
		"SERVER_JARFILE": "minecraft_server.jar",
		"VERSION":        "latest",
		"BUILD_NUMBER":   "latest",
	}
	c.PasswordLength = cryptox.DefaultPasswordLength

	c.EndpointAddrGRPC = ":50051"
	c.MetricsAddr = ":9090"
	c.CommandCooldown = time.Second
	c.DatabaseDSN = "botdata.db"
	c.LogLevel = "info"

	c.S3Region = "us-east-1"
}

// Validate reports the first setting that makes the server unable to run.
func (c *Config) Validate() error {
	if c.PanelURL == "" {
		return errors.New("panel URL is required (PTERO_URL)")
	}
	if u, err := url.Parse(c.PanelURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("panel URL %q is not an absolute URL", c.PanelURL)
	}
	if c.PanelAPIKey == "" {
		return errors.New("panel API key is required (PTERO_API_KEY)")
	}
	if c.NodeID <= 0 {
		return errors.New("node id is required (PTERO_NODE_ID)")
	}
	if c.EggID <= 0 {
		return errors.New("egg id is required (PTERO_EGG_ID)")
	}
	if c.DockerImage == "" {
		return errors.New("docker image is required (PTERO_IMAGE)")
	}
	if c.MaxServersPerNode <= 0 {
		return fmt.Errorf("max servers per node must be positive, got %d", c.MaxServersPerNode)
	}
	if c.PasswordLength <= 0 {
		return fmt.Errorf("password length must be positive, got %d", c.PasswordLength)
	}
	if c.DatabaseDSN == "" {
		return errors.New("database DSN is required")
	}
	switch c.SecretKey {
	case "":
		return errors.New("secret key is required (SECRET_KEY)")
	case placeholderSecret:
		return fmt.Errorf("secret key %q is a published placeholder, set a random SECRET_KEY", c.SecretKey)
	}
	return nil
}

// PanelOptions derives the panel client options.
func (c *Config) PanelOptions() panel.Options {
	return panel.Options{
		BaseURL: c.PanelURL,
		APIKey:  c.PanelAPIKey,
		Timeout: c.PanelTimeout,
	}
}

// ProvisioningSettings derives the workflow's server template and policy.
func (c *Config) ProvisioningSettings() provisioning.Settings {
	return provisioning.Settings{
		NodeID:            c.NodeID,
		EggID:             c.EggID,
		DockerImage:       c.DockerImage,
		MaxServersPerNode: c.MaxServersPerNode,
		StartupCommand:    c.StartupCommand,
		Limits:            c.Limits,
		Environment:       c.Environment,
		FeatureLimits:     c.FeatureLimits,
		PasswordLength:    c.PasswordLength,
	}
}

// S3Config derives the orphan bucket settings; ok is false when no bucket
// is configured.
func (c *Config) S3Config() (cfg orphans.S3Config, ok bool) {
	if c.S3Bucket == "" {
		return orphans.S3Config{}, false
	}
	return orphans.S3Config{
		Region:       c.S3Region,
		AccessKey:    c.S3RootUser,
		SecretKey:    c.S3RootPassword,
		Bucket:       c.S3Bucket,
		BaseEndpoint: c.S3BaseEndpoint,
	}, true
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from the .env file and process environment, an optional JSON file and
// finally command-line flags. A missing API key is prompted for when stdin
// is a terminal. The result is validated.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

func load(args []string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseEnv(cfg, args, lookup); err != nil {
		return nil, err
	}
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := promptAPIKey(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
