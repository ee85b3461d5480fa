package db

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fidellopezm03/store-catalog-postgresql/cmd/internal/logger"
	"github.com/fidellopezm03/store-catalog-postgresql/cmd/repository"
)

func TestDSN(t *testing.T) {
	cfg := DBConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "store", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=store sslmode=disable", cfg.DSN())
}

func TestApplyMigrations(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	path := filepath.Join(t.TempDir(), "m.sql")
	require.NoError(t, os.WriteFile(path, []byte("CREATE TABLE t (id INT);"), 0o644))
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE t (id INT);")).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, ApplyMigrations(context.Background(), conn, path))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyMigrations_MissingFile(t *testing.T) {
	conn, _, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	err = ApplyMigrations(context.Background(), conn, filepath.Join(t.TempDir(), "missing.sql"))
	assert.ErrorContains(t, err, "error reading migration file")
}

func TestSeed_SkipsPopulatedCatalog(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM products;")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	repo := repository.NewProductRepo(conn, repository.PageLimits{DefaultSize: 6, MaxSize: 50})
	require.NoError(t, Seed(context.Background(), conn, repo, logger.Discard()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeed_InsertsSamples(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM products;")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	for i := range sampleProducts {
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO products")).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(i + 1))
	}

	repo := repository.NewProductRepo(conn, repository.PageLimits{DefaultSize: 6, MaxSize: 50})
	require.NoError(t, Seed(context.Background(), conn, repo, logger.Discard()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

type recordingUsers struct {
	repository.UserRepo
	role string
}

func (r *recordingUsers) EnsureUser(_ context.Context, _, _, role string) error {
	r.role = role
	return nil
}

func TestEnsureAdmin(t *testing.T) {
	users := &recordingUsers{}
	require.NoError(t, EnsureAdmin(context.Background(), users, "admin", "", logger.Discard()))
	assert.Empty(t, users.role)

	require.NoError(t, EnsureAdmin(context.Background(), users, "admin", "secret", logger.Discard()))
	assert.Equal(t, "Admin", users.role)
}
