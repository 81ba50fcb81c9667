// Package servers persists ServerRecord rows.
package servers

import (
	"context"

	"github.com/dmitrijs2005/freepanel/internal/server/models"
)

type Repository interface {
	// Get returns common.ErrorNotFound when the user has no server.
	Get(ctx context.Context, platformUserID string) (*models.ServerRecord, error)
	// Create returns common.ErrDuplicateServer when a record already exists.
	Create(ctx context.Context, record *models.ServerRecord) error
}
