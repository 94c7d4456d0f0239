package handlers

import (
	"database/sql"
	goerrors "errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/foureyes/foureyes/internal/config"
	"github.com/foureyes/foureyes/internal/migrations"
	"github.com/foureyes/foureyes/internal/repository"
	"github.com/foureyes/foureyes/pkg/foureyes/core"
	"github.com/foureyes/foureyes/pkg/foureyes/domain"

	_ "github.com/mattn/go-sqlite3"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	t.Setenv(config.DATABASE_TYPE, config.DATABASE_TYPE_SQLLITE)
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "handlers-test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	db.SetMaxOpenConns(1)
	schema, err := migrations.FS.ReadFile("sqllite3/000001_init.up.sql")
	if err != nil {
		t.Fatalf("Failed to read schema: %v", err)
	}
	if _, err := db.Exec(string(schema)); err != nil {
		t.Fatalf("Failed to apply schema: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func testClock() core.Clock {
	return fixedClock{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
}

// inTx runs fn on a fresh transaction and commits unless fn failed.
func inTx(t *testing.T, db *sql.DB, fn func(tx *sql.Tx) error) error {
	t.Helper()
	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Failed to begin tx: %v", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Failed to commit tx: %v", err)
	}
	return nil
}

func expectValidationField(t *testing.T, err error, field string) {
	t.Helper()
	if core.KindOf(err) != core.KindValidation {
		t.Fatalf("Expected validation error, got %v", err)
	}
	var ce *core.Error
	if !goerrors.As(err, &ce) {
		t.Fatalf("Expected a core error, got %T", err)
	}
	if _, ok := ce.Fields[field]; !ok {
		t.Errorf("Expected field %q in validation reasons, got %v", field, ce.Fields)
	}
}

func seedEnabledUser(t *testing.T, users *repository.UserRepository, username, email string) {
	t.Helper()
	_, err := users.Save(&domain.User{Username: username, Email: email, Enabled: true})
	if err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
}
