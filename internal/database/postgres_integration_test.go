package database

import (
	"os"
	"strconv"
	"testing"
	"time"
)

// postgresTestConfig returns a PostgreSQL config when DUNGEON_TEST_POSTGRES
// is set. Connection settings come from DUNGEON_TEST_POSTGRES_HOST, _PORT,
// _USER, _PASSWORD and _DATABASE.
func postgresTestConfig(t *testing.T) Config {
	t.Helper()
	if os.Getenv("DUNGEON_TEST_POSTGRES") == "" {
		t.Skip("Skipping PostgreSQL test: DUNGEON_TEST_POSTGRES not set")
	}
	env := func(key, def string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return def
	}
	port, _ := strconv.Atoi(env("DUNGEON_TEST_POSTGRES_PORT", "5432"))
	pg := DefaultPostgresConfig()
	pg.Host = env("DUNGEON_TEST_POSTGRES_HOST", "localhost")
	pg.Port = port
	pg.User = env("DUNGEON_TEST_POSTGRES_USER", "dungeon")
	pg.Password = env("DUNGEON_TEST_POSTGRES_PASSWORD", "dungeon")
	pg.Database = env("DUNGEON_TEST_POSTGRES_DATABASE", "dungeon_test")
	pg.ConnMaxLifetime = time.Minute
	return Config{Driver: string(DialectPostgres), Postgres: pg}
}

func TestPostgresLayoutRoundTrip(t *testing.T) {
	db, err := OpenWithConfig(postgresTestConfig(t))
	if err != nil {
		t.Fatalf("OpenWithConfig: %v", err)
	}
	defer db.Close()
	t.Cleanup(func() {
		db.db.Exec("DELETE FROM layouts")
		db.db.Exec("DELETE FROM attempts")
	})

	id, err := db.SaveLayout(&Layout{LocationID: 5, Seed: 42, Render: "x", Data: "y"})
	if err != nil {
		t.Fatalf("SaveLayout: %v", err)
	}
	got, err := db.GetLayout(id)
	if err != nil {
		t.Fatalf("GetLayout: %v", err)
	}
	if got.Seed != 42 || got.Render != "x" {
		t.Errorf("GetLayout = %+v", got)
	}

	if err := db.RecordAttempt(Attempt{LocationID: 5, Succeeded: true}); err != nil {
		t.Fatalf("RecordAttempt: %v", err)
	}
	stats, err := db.AttemptStats(5)
	if err != nil || stats.Succeeded != 1 {
		t.Errorf("AttemptStats = %+v, %v", stats, err)
	}
}
