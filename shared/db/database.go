package db

import (
	"database/sql"
)

// Database is the handle to the relational store backing the storage
// service. It is constructed in main with an explicit lifecycle: connected
// once at startup, closed at shutdown, and injected into everything that
// needs it.
type Database interface {
	Connect() error
	Close() error
	DB() *sql.DB
}
