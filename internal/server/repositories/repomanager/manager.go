package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/freepanel/internal/dbx"
	"github.com/dmitrijs2005/freepanel/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/freepanel/internal/server/repositories/servers"
	"github.com/pressly/goose/v3"
)

// Supported SQL dialects.
const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

type RepositoryManager interface {
	// DriverName is the database/sql driver to open connections with.
	DriverName() string
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Servers(db dbx.DBTX) servers.Repository
}

// New returns the manager for dialect.
func New(dialect string) (RepositoryManager, error) {
	switch dialect {
	case DialectSQLite:
		return &SQLiteRepositoryManager{}, nil
	case DialectPostgres:
		return &PostgresRepositoryManager{}, nil
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}
