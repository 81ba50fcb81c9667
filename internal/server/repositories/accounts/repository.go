// Package accounts persists UserAccount rows.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/freepanel/internal/server/models"
)

// Repository reads and inserts user accounts. Rows are never updated or
// deleted.
type Repository interface {
	// Get returns common.ErrorNotFound when no account exists.
	Get(ctx context.Context, platformUserID string) (*models.UserAccount, error)
	// Create returns common.ErrDuplicateUser when the id is already taken.
	Create(ctx context.Context, account *models.UserAccount) error
}
