package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"time"

	"github.com/dmitrijs2005/freepanel/internal/flagx"
	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

// parseEnv overlays values from a dotenv file and the process environment.
//
// The file is the one given by -env, or ./.env when that flag is absent. A
// missing default file is not an error; a missing explicit one is. Process
// environment variables take precedence over file entries.
//
// Recognised keys:
//
//	PTERO_URL, PTERO_API_KEY, PTERO_NODE_ID, PTERO_EGG_ID, PTERO_IMAGE,
//	PTERO_TIMEOUT, MAX_SERVERS_PER_NODE, PANEL_LINK, DATABASE_DSN,
//	SECRET_KEY, GRPC_ADDRESS, METRICS_ADDRESS, COMMAND_COOLDOWN, LOG_LEVEL,
//	S3_ROOT_USER, S3_ROOT_PASSWORD, S3_BUCKET, S3_REGION, S3_BASE_ENDPOINT
func parseEnv(config *Config, args []string, lookup func(string) (string, bool)) error {
	path := flagx.EnvFileFlag(args)
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}

	fileVals, err := godotenv.Read(path)
	if err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("reading env file %s: %w", path, err)
		}
		fileVals = map[string]string{}
	}

	e := envSource{file: fileVals, lookup: lookup}

	e.stringVar("PTERO_URL", &config.PanelURL)
	e.stringVar("PTERO_API_KEY", &config.PanelAPIKey)
	e.stringVar("PTERO_IMAGE", &config.DockerImage)
	e.stringVar("PANEL_LINK", &config.PanelLink)
	e.stringVar("DATABASE_DSN", &config.DatabaseDSN)
	e.stringVar("SECRET_KEY", &config.SecretKey)
	e.stringVar("GRPC_ADDRESS", &config.EndpointAddrGRPC)
	e.stringVar("METRICS_ADDRESS", &config.MetricsAddr)
	e.stringVar("LOG_LEVEL", &config.LogLevel)
	e.stringVar("S3_ROOT_USER", &config.S3RootUser)
	e.stringVar("S3_ROOT_PASSWORD", &config.S3RootPassword)
	e.stringVar("S3_BUCKET", &config.S3Bucket)
	e.stringVar("S3_REGION", &config.S3Region)
	e.stringVar("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)

	if err := e.int64Var("PTERO_NODE_ID", &config.NodeID); err != nil {
		return err
	}
	if err := e.int64Var("PTERO_EGG_ID", &config.EggID); err != nil {
		return err
	}
	if err := e.intVar("MAX_SERVERS_PER_NODE", &config.MaxServersPerNode); err != nil {
		return err
	}
	if err := e.durationVar("PTERO_TIMEOUT", &config.PanelTimeout); err != nil {
		return err
	}
	if err := e.durationVar("COMMAND_COOLDOWN", &config.CommandCooldown); err != nil {
		return err
	}
	return nil
}

type envSource struct {
	file   map[string]string
	lookup func(string) (string, bool)
}

func (e envSource) get(key string) (string, bool) {
	if e.lookup != nil {
		if v, ok := e.lookup(key); ok {
			return v, true
		}
	}
	v, ok := e.file[key]
	return v, ok
}

func (e envSource) stringVar(key string, dst *string) {
	if v, ok := e.get(key); ok && v != "" {
		*dst = v
	}
}

func (e envSource) int64Var(key string, dst *int64) error {
	v, ok := e.get(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fmt.Errorf("%s: %q is not an integer", key, v)
	}
	*dst = n
	return nil
}

func (e envSource) intVar(key string, dst *int) error {
	var n int64
	if err := e.int64Var(key, &n); err != nil {
		return err
	}
	if v, ok := e.get(key); ok && v != "" {
		*dst = int(n)
	}
	return nil
}

// durationVar accepts Go duration strings ("30s") and bare seconds ("30").
func (e envSource) durationVar(key string, dst *time.Duration) error {
	v, ok := e.get(key)
	if !ok || v == "" {
		return nil
	}
	if secs, err := strconv.ParseFloat(v, 64); err == nil {
		*dst = time.Duration(secs * float64(time.Second))
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %q is not a duration", key, v)
	}
	*dst = d
	return nil
}
