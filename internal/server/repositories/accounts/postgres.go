package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/freepanel/internal/common"
	"github.com/dmitrijs2005/freepanel/internal/dbx"
	"github.com/dmitrijs2005/freepanel/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, platformUserID string) (*models.UserAccount, error) {
	query :=
		`SELECT discord_id, COALESCE(email, ''), COALESCE(ptero_user_id, 0), COALESCE(password_hash, ''), created_at FROM users
		 WHERE discord_id = $1
		 `

	a := &models.UserAccount{}
	var created sql.NullTime
	err := r.db.QueryRowContext(ctx, query, platformUserID).
		Scan(&a.PlatformUserID, &a.Email, &a.PanelAccountID, &a.PasswordFingerprint, &created)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	a.CreatedAt = created.Time
	return a, nil
}

func (r *PostgresRepository) Create(ctx context.Context, account *models.UserAccount) error {
	query :=
		`INSERT INTO users (discord_id, email, ptero_user_id, password_hash, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 `

	_, err := r.db.ExecContext(ctx, query,
		account.PlatformUserID, account.Email, account.PanelAccountID, account.PasswordFingerprint, account.CreatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrDuplicateUser
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
