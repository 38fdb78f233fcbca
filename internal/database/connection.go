package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the global database connection
var DB *sqlx.DB

// Type returns the configured database type ("sqlite" or "postgres")
func Type() string {
	dbType := os.Getenv("DB_TYPE")
	if dbType == "" {
		dbType = "sqlite"
	}
	return dbType
}

// Connect establishes a connection to the database
func Connect() error {
	if Type() == "postgres" {
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			return fmt.Errorf("DATABASE_URL environment variable is not set")
		}
		db, err := sqlx.Connect("postgres", dsn)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %v", err)
		}
		DB = db
		return initializeSchema()
	}

	// Create data directory if it doesn't exist
	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(dataDir, "hifzbot.db")
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %v", err)
	}

	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	DB = db
	return initializeSchema()
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema() error {
	_, err := DB.Exec(`
		CREATE TABLE IF NOT EXISTS user_profiles (
			user_id BIGINT PRIMARY KEY,
			daily_minutes INTEGER DEFAULT 30,
			active_surah_number INTEGER DEFAULT 1,
			cursor_ayah_id INTEGER DEFAULT 0,
			mode TEXT DEFAULT 'NORMAL',
			avg_review_seconds INTEGER DEFAULT 0,
			avg_new_seconds INTEGER DEFAULT 0,
			avg_link_seconds INTEGER DEFAULT 0,
			review_floor_pct REAL DEFAULT 60,
			consolidation_threshold_pct REAL DEFAULT 25,
			catch_up_threshold_pct REAL DEFAULT 50,
			timezone TEXT DEFAULT 'UTC',
			rebalance_until TIMESTAMP,
			onboarding_completed_at TIMESTAMP,
			last_completed_local_date TEXT DEFAULT '',
			notification_enabled BOOLEAN DEFAULT true,
			notification_hour INTEGER DEFAULT 9,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create user_profiles table: %v", err)
	}

	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS ayah_reviews (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id BIGINT NOT NULL,
			ayah_id INTEGER NOT NULL,
			station INTEGER DEFAULT 1,
			checkpoint_index INTEGER DEFAULT 0,
			ease_factor REAL DEFAULT 2.5,
			repetitions INTEGER DEFAULT 0,
			lapses INTEGER DEFAULT 0,
			band TEXT DEFAULT 'ENCODING',
			last_grade TEXT DEFAULT '',
			last_duration_sec INTEGER DEFAULT 0,
			last_review_at TIMESTAMP,
			next_review_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(user_id, ayah_id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create ayah_reviews table: %v", err)
	}

	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS weak_transitions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id BIGINT NOT NULL,
			from_ayah_id INTEGER NOT NULL,
			to_ayah_id INTEGER NOT NULL,
			attempt_count INTEGER DEFAULT 0,
			success_count INTEGER DEFAULT 0,
			fail_count INTEGER DEFAULT 0,
			last_grade TEXT DEFAULT '',
			next_repair_at TIMESTAMP,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(user_id, from_ayah_id, to_ayah_id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create weak_transitions table: %v", err)
	}

	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS session_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id BIGINT NOT NULL,
			stage TEXT NOT NULL,
			phase TEXT DEFAULT '',
			ayah_id INTEGER NOT NULL,
			to_ayah_id INTEGER DEFAULT 0,
			grade TEXT NOT NULL,
			duration_sec INTEGER DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create session_events table: %v", err)
	}

	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS ayahs (
			id INTEGER PRIMARY KEY,
			surah_number INTEGER NOT NULL,
			ayah_number INTEGER NOT NULL,
			text TEXT NOT NULL,
			translation TEXT DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(surah_number, ayah_number)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create ayahs table: %v", err)
	}

	return nil
}
