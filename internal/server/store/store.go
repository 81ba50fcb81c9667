// Package store is the persistence layer of the provisioning workflow. Each
// operation runs in its own transaction; inserts either succeed or fail with
// a duplicate error, so the store is the final arbiter of the one account and
// one server per user invariants.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/freepanel/internal/common"
	"github.com/dmitrijs2005/freepanel/internal/dbx"
	"github.com/dmitrijs2005/freepanel/internal/server/models"
	"github.com/dmitrijs2005/freepanel/internal/server/repositories/repomanager"
)

// Store persists user accounts and server records.
type Store struct {
	db  *sql.DB
	rm  repomanager.RepositoryManager
	now func() time.Time
}

// New wraps an already migrated database.
func New(db *sql.DB, rm repomanager.RepositoryManager) *Store {
	return &Store{db: db, rm: rm, now: time.Now}
}

// DialectFor picks the SQL dialect from a DSN: postgres:// and postgresql://
// URLs select PostgreSQL, anything else is a SQLite file path.
func DialectFor(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return repomanager.DialectPostgres
	}
	return repomanager.DialectSQLite
}

// Open connects to dsn, applies the schema migrations and returns the store.
func Open(ctx context.Context, dsn string) (*Store, error) {
	dialect := DialectFor(dsn)
	rm, err := repomanager.New(dialect)
	if err != nil {
		return nil, err
	}

	if dialect == repomanager.DialectSQLite {
		dsn = sqliteDSN(dsn)
	}

	db, err := sql.Open(rm.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if dialect == repomanager.DialectSQLite {
		// one writer at a time; lock upgrades inside deferred transactions would otherwise fail with SQLITE_BUSY
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return New(db, rm), nil
}

func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// GetUserAccount returns common.ErrorNotFound when id has no account.
func (s *Store) GetUserAccount(ctx context.Context, id string) (*models.UserAccount, error) {
	var account *models.UserAccount
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		account, err = s.rm.Accounts(tx).Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// CreateUserAccount inserts account, stamping CreatedAt when unset. An
// existing row yields common.ErrDuplicateUser.
func (s *Store) CreateUserAccount(ctx context.Context, account *models.UserAccount) error {
	if account.CreatedAt.IsZero() {
		account.CreatedAt = s.now().UTC()
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.rm.Accounts(tx)

		_, err := repo.Get(ctx, account.PlatformUserID)
		switch {
		case err == nil:
			return common.ErrDuplicateUser
		case !errors.Is(err, common.ErrorNotFound):
			return err
		}

		return repo.Create(ctx, account)
	})
}

// GetServerRecord returns common.ErrorNotFound when id has no server.
func (s *Store) GetServerRecord(ctx context.Context, id string) (*models.ServerRecord, error) {
	var record *models.ServerRecord
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		record, err = s.rm.Servers(tx).Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// CreateServerRecord inserts record. It fails with common.ErrNotRegistered
// when the owner has no account and common.ErrDuplicateServer when a record
// already exists.
func (s *Store) CreateServerRecord(ctx context.Context, record *models.ServerRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = s.now().UTC()
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.rm.Accounts(tx).Get(ctx, record.PlatformUserID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrNotRegistered
			}
			return err
		}

		repo := s.rm.Servers(tx)
		_, err := repo.Get(ctx, record.PlatformUserID)
		switch {
		case err == nil:
			return common.ErrDuplicateServer
		case !errors.Is(err, common.ErrorNotFound):
			return err
		}

		return repo.Create(ctx, record)
	})
}
