package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/freepanel/internal/flagx"
	"github.com/dmitrijs2005/freepanel/internal/panel"
	"github.com/dmitrijs2005/freepanel/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// Durations use timex.Duration so both "30s" and integer nanoseconds parse.
// Only fields present in the file (non-zero after decoding) override the
// values already in Config.
type JsonConfig struct {
	PanelURL          string               `json:"panel_url"`
	PanelAPIKey       string               `json:"panel_api_key"`
	PanelTimeout      timex.Duration       `json:"panel_timeout"`
	NodeID            int64                `json:"node_id"`
	EggID             int64                `json:"egg_id"`
	DockerImage       string               `json:"docker_image"`
	MaxServersPerNode int                  `json:"max_servers_per_node"`
	PanelLink         string               `json:"panel_link"`
	StartupCommand    string               `json:"startup_command"`
	Limits            *panel.Limits        `json:"limits"`
	FeatureLimits     *panel.FeatureLimits `json:"feature_limits"`
	Environment       map[string]string    `json:"environment"`
	PasswordLength    int                  `json:"password_length"`
	EndpointAddrGRPC  string               `json:"endpoint_addr_grpc"`
	MetricsAddr       string               `json:"metrics_addr"`
	CommandCooldown   timex.Duration       `json:"command_cooldown"`
	DatabaseDSN       string               `json:"database_dsn"`
	SecretKey         string               `json:"secret_key"`
	LogLevel          string               `json:"log_level"`
	S3RootUser        string               `json:"s3_root_user"`
	S3RootPassword    string               `json:"s3_root_password"`
	S3Bucket          string               `json:"s3_bucket"`
	S3Region          string               `json:"s3_region"`
	S3BaseEndpoint    string               `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from the JSON file named by -c or
// -config. Without either flag nothing is loaded.
func parseJson(config *Config, args []string) error {
	jsonConfigFile := flagx.ConfigFileFlag(args)

	// nothing to load
	if jsonConfigFile == "" {
		return nil
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", jsonConfigFile, err)
	}

	setString(&config.PanelURL, c.PanelURL)
	setString(&config.PanelAPIKey, c.PanelAPIKey)
	setString(&config.DockerImage, c.DockerImage)
	setString(&config.PanelLink, c.PanelLink)
	setString(&config.StartupCommand, c.StartupCommand)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.MetricsAddr, c.MetricsAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	if c.PanelTimeout.Duration != 0 {
		config.PanelTimeout = c.PanelTimeout.Duration
	}
	if c.CommandCooldown.Duration != 0 {
		config.CommandCooldown = c.CommandCooldown.Duration
	}
	if c.NodeID != 0 {
		config.NodeID = c.NodeID
	}
	if c.EggID != 0 {
		config.EggID = c.EggID
	}
	if c.MaxServersPerNode != 0 {
		config.MaxServersPerNode = c.MaxServersPerNode
	}
	if c.PasswordLength != 0 {
		config.PasswordLength = c.PasswordLength
	}
	if c.Limits != nil {
		config.Limits = *c.Limits
	}
	if c.FeatureLimits != nil {
		config.FeatureLimits = *c.FeatureLimits
	}
	if c.Environment != nil {
		config.Environment = c.Environment
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
