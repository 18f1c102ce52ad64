package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roastivator/roastivator/pkg/config"
)

var DB *sql.DB

const snapshotCacheSchema = `
CREATE TABLE IF NOT EXISTS snapshot_cache (
	id TEXT PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	snapshot TEXT NOT NULL,
	fetched_at DATETIME NOT NULL
);
`

// Init initializes the SQLite database connection
func Init() error {
	var err error

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=30000", config.AppConfig.Database.Path)
	DB, err = sql.Open("sqlite3", dsn)
	if err != nil {
		return err
	}

	// The cache sees short bursts of small reads and writes
	DB.SetMaxOpenConns(10)
	DB.SetMaxIdleConns(5)
	DB.SetConnMaxLifetime(time.Hour)

	if err = DB.Ping(); err != nil {
		return err
	}

	if _, err = DB.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return err
	}
	if _, err = DB.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		return err
	}
	if _, err = DB.Exec("PRAGMA busy_timeout=30000"); err != nil {
		return err
	}

	if _, err = DB.Exec(snapshotCacheSchema); err != nil {
		return err
	}

	log.Println("Database connected successfully with WAL mode")
	return nil
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
