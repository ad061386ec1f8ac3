package sqlite

import (
	"path/filepath"
	"testing"
)

func TestSQLiteDB_Connect(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	database := NewSQLiteDB(dbPath)

	err := database.Connect()
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer database.Close()

	if database.DB() == nil {
		t.Error("DB() returned nil after Connect()")
	}

	// Connecting again returns an error
	err = database.Connect()
	if err == nil {
		t.Error("Connect() should return error when already connected")
	}
}

func TestSQLiteDB_Close(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	database := NewSQLiteDB(dbPath)
	if err := database.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	if err := database.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	if database.DB() != nil {
		t.Error("DB() should return nil after Close()")
	}

	// Closing again is a no-op
	if err := database.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestSQLiteDB_ConnectBadPath(t *testing.T) {
	database := NewSQLiteDB("/nonexistent-dir/deeper/test.db")

	if err := database.Connect(); err == nil {
		database.Close()
		t.Error("Connect() should fail for an uncreatable path")
	}
}
