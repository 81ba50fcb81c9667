// Package config loads runtime configuration for the FreePanel CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment: FREEPANEL_ADDRESS, FREEPANEL_USER_ID,
//     FREEPANEL_DISPLAY_NAME, SECRET_KEY, FREEPANEL_TOKEN_TTL.
//  3. Optional JSON file selected via -c or -config.
//  4. Command-line flags, which override earlier values.
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "3s"
// or integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "user_id": "123456789012345678",
//	  "display_name": "Alice",
//	  "token_ttl": "5m"
//	}
package config
