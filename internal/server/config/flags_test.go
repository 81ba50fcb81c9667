package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected  *Config
		name      string
		args      []string
		expectErr bool
	}{
		{name: "all flags", args: []string{
			"-a", "127.0.0.1:9090", "-m", ":9191", "-d", "db", "-s", "secret",
			"-u", "https://gp.example.com", "-k", "ptla", "-n", "3", "-g", "5", "-i", "image",
			"-x", "10", "-l", "https://link/", "-t", "5s", "-w", "2s",
			"-b", "bucket", "-e", "http://endpoint", "-r", "us-west-1", "-v", "debug",
		},
			expected: &Config{
				EndpointAddrGRPC:  "127.0.0.1:9090",
				MetricsAddr:       ":9191",
				DatabaseDSN:       "db",
				SecretKey:         "secret",
				PanelURL:          "https://gp.example.com",
				PanelAPIKey:       "ptla",
				NodeID:            3,
				EggID:             5,
				DockerImage:       "image",
				MaxServersPerNode: 10,
				PanelLink:         "https://link/",
				PanelTimeout:      5 * time.Second,
				CommandCooldown:   2 * time.Second,
				S3Bucket:          "bucket",
				S3BaseEndpoint:    "http://endpoint",
				S3Region:          "us-west-1",
				LogLevel:          "debug",
			}},
		{name: "foreign flags ignored", args: []string{"-config", "x.json", "-env", ".env", "-n", "7"},
			expected: &Config{NodeID: 7}},
		{name: "bad integer", args: []string{"-n", "seven"}, expectErr: true},
		{name: "bad duration", args: []string{"-w", "soon"}, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{}
			err := parseFlags(config, tt.args)
			if tt.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
