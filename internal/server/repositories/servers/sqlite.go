package servers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/freepanel/internal/common"
	"github.com/dmitrijs2005/freepanel/internal/dbx"
	"github.com/dmitrijs2005/freepanel/internal/server/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, platformUserID string) (*models.ServerRecord, error) {
	query :=
		`SELECT discord_id, COALESCE(server_id, ''), created_at FROM servers
		 WHERE discord_id = ?
		 `

	rec := &models.ServerRecord{}
	var created sql.NullTime
	err := r.db.QueryRowContext(ctx, query, platformUserID).Scan(&rec.PlatformUserID, &rec.PanelServerID, &created)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	rec.CreatedAt = created.Time
	return rec, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, record *models.ServerRecord) error {
	query :=
		`INSERT INTO servers (discord_id, server_id, created_at)
		 VALUES (?, ?, ?)
		 `

	_, err := r.db.ExecContext(ctx, query, record.PlatformUserID, record.PanelServerID, record.CreatedAt.UTC())

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrDuplicateServer
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
