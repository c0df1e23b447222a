package repo_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/pressly/goose/v3"

	"github.com/pkordes/airport-taxi/backend/migrations"
	"github.com/pkordes/airport-taxi/backend/testutil"
)

// TestMain applies all pending migrations to the test database once for the
// whole package, so the Postgres store tests can assume the schema exists.
func TestMain(m *testing.M) {
	if os.Getenv("TEST_DATABASE_URL") == "" {
		// No test DB configured; the Postgres tests skip themselves.
		os.Exit(m.Run())
	}

	// goose needs database/sql, and TestMain has no *testing.T for testutil.NewSQLDB.
	db := testutil.MustOpenSQLDB(os.Getenv("TEST_DATABASE_URL"))
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		log.Fatalf("TestMain: create goose provider: %v", err)
	}

	if _, err := provider.Up(context.Background()); err != nil {
		log.Fatalf("TestMain: run migrations: %v", err)
	}

	os.Exit(m.Run())
}
