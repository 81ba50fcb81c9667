package models

import "time"

// ServerRecord binds a registered user to their single free server.
type ServerRecord struct {
	PlatformUserID string    `db:"discord_id"`
	PanelServerID  string    `db:"server_id"`
	CreatedAt      time.Time `db:"created_at"`
}
