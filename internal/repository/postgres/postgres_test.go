package postgres

import (
	"database/sql"
	"testing"
	"time"

	"file-drive/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

var (
	_ repository.UserRepository   = (*UserRepository)(nil)
	_ repository.FolderRepository = (*FolderRepository)(nil)
	_ repository.FileRepository   = (*FileRepository)(nil)
)

var (
	testNow          = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	uniqueViolation  = &pgconn.PgError{Code: sqlStateUniqueViolation}
	foreignViolation = &pgconn.PgError{Code: sqlStateForeignKeyViolation}
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	return db, mock
}
