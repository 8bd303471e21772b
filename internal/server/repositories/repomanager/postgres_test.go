package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmitrijs2005/scankeeper/internal/server/repositories/history"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func TestNewPostgresRepositoryManager_ImplementsInterface(t *testing.T) {
	var _ RepositoryManager = NewPostgresRepositoryManager()
}

func TestHistory_ReturnsConcreteRepo(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	m := NewPostgresRepositoryManager()
	repo := m.History(db)
	if repo == nil {
		t.Fatal("History() nil")
	}
	if _, ok := repo.(*history.PostgresRepository); !ok {
		t.Fatalf("unexpected repository type %T", repo)
	}
}

func TestRunMigrations_Success(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := migrate
	migrate = func(ctx context.Context, _ *sql.DB, dialect string, fsys fs.FS, dir string) error {
		if dialect != "pgx" {
			return errors.New("unexpected dialect " + dialect)
		}
		if dir != "." {
			return errors.New("unexpected dir")
		}
		if _, err := fs.Stat(fsys, "00001_history.sql"); err != nil {
			return err
		}
		return nil
	}
	defer func() { migrate = orig }()

	if err := NewPostgresRepositoryManager().RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("RunMigrations error: %v", err)
	}
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := migrate
	migrate = func(context.Context, *sql.DB, string, fs.FS, string) error {
		return errors.New("boom")
	}
	defer func() { migrate = orig }()

	if err := NewPostgresRepositoryManager().RunMigrations(context.Background(), db); err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestOpenPostgres(t *testing.T) {
	db, mock := newDB(t)
	defer db.Close()

	orig := sqlOpen
	defer func() { sqlOpen = orig }()

	t.Run("ok", func(t *testing.T) {
		var gotDriver, gotDSN string
		sqlOpen = func(driver, dsn string) (*sql.DB, error) {
			gotDriver, gotDSN = driver, dsn
			return db, nil
		}
		mock.ExpectPing()

		got, err := OpenPostgres(context.Background(), "postgres://x")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != db || gotDriver != "pgx" || gotDSN != "postgres://x" {
			t.Fatalf("driver=%q dsn=%q", gotDriver, gotDSN)
		}
	})

	t.Run("open error", func(t *testing.T) {
		sqlOpen = func(string, string) (*sql.DB, error) { return nil, errors.New("bad dsn") }
		if _, err := OpenPostgres(context.Background(), "x"); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("ping error", func(t *testing.T) {
		pdb, pmock := newDB(t)
		sqlOpen = func(string, string) (*sql.DB, error) { return pdb, nil }
		pmock.ExpectPing().WillReturnError(errors.New("refused"))
		pmock.ExpectClose()

		if _, err := OpenPostgres(context.Background(), "x"); err == nil {
			t.Fatal("expected error")
		}
		if err := pmock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet expectations: %v", err)
		}
	})
}
