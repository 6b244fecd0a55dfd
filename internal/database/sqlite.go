package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"travel-webapi/internal/config"

	_ "github.com/mattn/go-sqlite3" // SQLite Driver
	"go.uber.org/zap"
)

const createSchemaSQL = `
CREATE TABLE IF NOT EXISTS users (
id INTEGER PRIMARY KEY AUTOINCREMENT,
name TEXT NOT NULL,
email TEXT NOT NULL UNIQUE,
password_hash TEXT NOT NULL,
created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS categories (
id INTEGER PRIMARY KEY AUTOINCREMENT,
name TEXT NOT NULL,
created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS destinations (
id INTEGER PRIMARY KEY AUTOINCREMENT,
user_id INTEGER REFERENCES users(id),
category_id INTEGER REFERENCES categories(id),
name TEXT NOT NULL,
location TEXT NOT NULL,
image TEXT,
description TEXT NOT NULL,
created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS messages (
id INTEGER PRIMARY KEY AUTOINCREMENT,
name TEXT NOT NULL,
email TEXT NOT NULL,
message TEXT NOT NULL,
created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// InitSQLite initializes the SQLite database connection and ensures the
// application tables exist. It also creates the directory path if needed.
func InitSQLite(cfg *config.Config, logger *zap.Logger) (*sql.DB, error) {
	logger.Info("Initializing SQLite database...", zap.String("requested_path", cfg.SQLiteDBPath))

	dbDir := filepath.Dir(cfg.SQLiteDBPath)
	if dbDir != "." && dbDir != "/" {
		if _, err := os.Stat(dbDir); os.IsNotExist(err) {
			logger.Info("SQLite database directory does not exist, creating...", zap.String("path", dbDir))
			if err := os.MkdirAll(dbDir, 0755); err != nil {
				logger.Error("Failed to create SQLite database directory", zap.String("path", dbDir), zap.Error(err))
				return nil, fmt.Errorf("failed to create sqlite db directory %s: %w", dbDir, err)
			}
		} else if err != nil {
			logger.Error("Failed to check status of SQLite database directory", zap.String("path", dbDir), zap.Error(err))
			return nil, fmt.Errorf("failed to check status of sqlite db directory %s: %w", dbDir, err)
		}
	}

	// WAL mode is generally good for concurrent reads/writes
	db, err := sql.Open("sqlite3", cfg.SQLiteDBPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		logger.Error("Failed to open SQLite database", zap.String("path", cfg.SQLiteDBPath), zap.Error(err))
		return nil, fmt.Errorf("failed to open sqlite database at %s: %w", cfg.SQLiteDBPath, err)
	}

	db.SetMaxOpenConns(1) // serialize writes; WAL readers are unaffected
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		db.Close()
		logger.Error("Failed to ping SQLite database after open", zap.Error(err))
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if err := EnsureSchema(db); err != nil {
		db.Close()
		logger.Error("Failed to create application tables in SQLite", zap.Error(err))
		return nil, fmt.Errorf("failed to create sqlite schema: %w", err)
	}
	logger.Debug("SQLite schema verified/created.")

	logger.Info("SQLite database initialized successfully", zap.String("path", cfg.SQLiteDBPath))
	return db, nil
}

// EnsureSchema creates the application tables if they do not exist yet.
// Exposed so tests can run against an in-memory database.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(createSchemaSQL)
	return err
}
