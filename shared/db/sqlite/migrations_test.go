package sqlite

import (
	"path/filepath"
	"testing"
)

func TestRunMigrations(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	database := NewSQLiteDB(dbPath)
	if err := database.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer database.Close()

	db := database.DB()

	// Verify schema_migrations table exists
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_migrations'").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to check schema_migrations table: %v", err)
	}
	if count != 1 {
		t.Errorf("schema_migrations table not created")
	}

	// Verify posts table exists
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='posts'").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to check posts table: %v", err)
	}
	if count != 1 {
		t.Errorf("posts table not created")
	}

	// Verify migration was recorded
	var version int
	var name string
	err = db.QueryRow("SELECT version, name FROM schema_migrations WHERE version = 1").Scan(&version, &name)
	if err != nil {
		t.Fatalf("Failed to query schema_migrations: %v", err)
	}
	if name != "create_posts_table" {
		t.Errorf("name = %q, want %q", name, "create_posts_table")
	}

	// The schema must accept a post with a null image
	_, err = db.Exec("INSERT INTO posts (title, content) VALUES ('t', 'c')")
	if err != nil {
		t.Errorf("insert into migrated schema failed: %v", err)
	}
}

func TestRunMigrationsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	// Connect first time
	database := NewSQLiteDB(dbPath)
	if err := database.Connect(); err != nil {
		t.Fatalf("first Connect() error = %v", err)
	}
	if _, err := database.DB().Exec("INSERT INTO posts (title, content) VALUES ('t', 'c')"); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	database.Close()

	// Reconnecting runs migrations again; they must be a no-op
	database = NewSQLiteDB(dbPath)
	if err := database.Connect(); err != nil {
		t.Fatalf("second Connect() error = %v", err)
	}
	defer database.Close()

	var count int
	if err := database.DB().QueryRow("SELECT COUNT(*) FROM posts").Scan(&count); err != nil {
		t.Fatalf("Failed to count posts: %v", err)
	}
	if count != 1 {
		t.Errorf("posts = %d after reconnect, want 1", count)
	}

	if err := database.DB().QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("Failed to count migrations: %v", err)
	}
	if count != len(migrations) {
		t.Errorf("recorded migrations = %d, want %d", count, len(migrations))
	}
}
