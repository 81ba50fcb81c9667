package servers

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/freepanel/internal/common"
	"github.com/dmitrijs2005/freepanel/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	selectQ = `(?s)^SELECT\s+discord_id,\s*COALESCE\(server_id,\s*''\),\s*created_at\s+FROM\s+servers\s+WHERE\s+discord_id\s*=\s*\$1\s*$`
	insertQ = `(?s)^INSERT\s+INTO\s+servers\s*\(discord_id,\s*server_id,\s*created_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*$`
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestPostgresGet_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"discord_id", "server_id", "created_at"}).AddRow("123", "17", created)
	mock.ExpectQuery(selectQ).WithArgs("123").WillReturnRows(rows)

	got, err := repo.Get(context.Background(), "123")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.PlatformUserID != "123" || got.PanelServerID != "17" || !got.CreatedAt.Equal(created) {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestPostgresGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQ).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestPostgresGet_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQ).WithArgs("123").WillReturnError(errors.New("db err"))

	_, err := repo.Get(context.Background(), "123")
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestPostgresCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	created := time.Now()
	mock.ExpectExec(insertQ).WithArgs("123", "17", created).WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), &models.ServerRecord{PlatformUserID: "123", PanelServerID: "17", CreatedAt: created}); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresCreate_UniqueViolation(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertQ).WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), &models.ServerRecord{PlatformUserID: "123", PanelServerID: "18"})
	if !errors.Is(err, common.ErrDuplicateServer) {
		t.Fatalf("want common.ErrDuplicateServer, got %v", err)
	}
}

func TestPostgresCreate_ForeignKeyIsPlainDBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertQ).WillReturnError(&pgconn.PgError{Code: "23503"})

	err := repo.Create(context.Background(), &models.ServerRecord{PlatformUserID: "123"})
	if err == nil || errors.Is(err, common.ErrDuplicateServer) {
		t.Fatalf("expected non-duplicate db error, got %v", err)
	}
}
