package config

import (
	"fmt"
	"time"
)

// parseEnv overlays Config with FREEPANEL_ADDRESS, FREEPANEL_USER_ID,
// FREEPANEL_DISPLAY_NAME, SECRET_KEY and FREEPANEL_TOKEN_TTL.
func parseEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup("FREEPANEL_ADDRESS"); ok && v != "" {
		cfg.ServerEndpointAddr = v
	}
	if v, ok := lookup("FREEPANEL_USER_ID"); ok && v != "" {
		cfg.UserID = v
	}
	if v, ok := lookup("FREEPANEL_DISPLAY_NAME"); ok && v != "" {
		cfg.DisplayName = v
	}
	if v, ok := lookup("SECRET_KEY"); ok && v != "" {
		cfg.SecretKey = v
	}
	if v, ok := lookup("FREEPANEL_TOKEN_TTL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("FREEPANEL_TOKEN_TTL: %w", err)
		}
		cfg.TokenTTL = d
	}
	return nil
}
