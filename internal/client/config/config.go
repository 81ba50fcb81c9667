package config

import (
	"errors"
	"os"
	"time"
)

// Config holds runtime settings for the FreePanel CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the backend gRPC endpoint.
//   - UserID: platform user id the CLI acts as.
//   - DisplayName: name sent along with commands, like a chat nickname.
//   - SecretKey: shared secret used to mint the access token.
//   - TokenTTL: lifetime of each minted access token.
//   - RequestTimeout: deadline for a single command.
type Config struct {
	ServerEndpointAddr string
	UserID             string
	DisplayName        string
	SecretKey          string
	TokenTTL           time.Duration
	RequestTimeout     time.Duration
}

// placeholderSecret is rejected by the server, so it is refused here too.
const placeholderSecret = "secretKey"

// LoadDefaults populates c with sensible defaults. There is no default
// secret key.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.TokenTTL = 5 * time.Minute
	c.RequestTimeout = time.Minute
}

func (c *Config) Validate() error {
	if c.ServerEndpointAddr == "" {
		return errors.New("server address is required (-a or FREEPANEL_ADDRESS)")
	}
	if c.UserID == "" {
		return errors.New("user id is required (-u or FREEPANEL_USER_ID)")
	}
	if c.SecretKey == "" {
		return errors.New("secret key is required (-k or SECRET_KEY)")
	}
	if c.SecretKey == placeholderSecret {
		return errors.New("secret key is the published placeholder, use the server's SECRET_KEY")
	}
	if c.TokenTTL <= 0 {
		return errors.New("token ttl must be positive")
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags (if present).
// Later sources take precedence over earlier ones.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

func load(args []string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseEnv(cfg, lookup); err != nil {
		return nil, err
	}
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
