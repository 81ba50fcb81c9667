package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/freepanel/internal/dbx"
	"github.com/dmitrijs2005/freepanel/internal/server/migrations"
	"github.com/dmitrijs2005/freepanel/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/freepanel/internal/server/repositories/servers"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// SQLiteRepositoryManager vends repositories over a local SQLite file.
type SQLiteRepositoryManager struct{}

func (m *SQLiteRepositoryManager) DriverName() string { return "sqlite" }

func (m *SQLiteRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Servers(db dbx.DBTX) servers.Repository {
	return servers.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, migrations.SQLiteDir)
}
