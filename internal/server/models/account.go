// Package models defines server-side data models persisted in the database.
package models

import "time"

// UserAccount binds a chat-platform user to the panel account created for
// them. Rows are written once and never mutated. Column names follow the
// botdata.db layout of the earlier bot so its files open unchanged.
type UserAccount struct {
	// PlatformUserID is the caller's id on the chat platform.
	PlatformUserID string `db:"discord_id"`
	Email          string `db:"email"`
	// PanelAccountID is assigned by the panel on creation.
	PanelAccountID int64 `db:"ptero_user_id"`
	// PasswordFingerprint is the hex SHA-256 of the generated password.
	// The plaintext is never persisted.
	PasswordFingerprint string `db:"password_hash"`
	// CreatedAt is zero for rows the earlier bot wrote.
	CreatedAt time.Time `db:"created_at"`
}
