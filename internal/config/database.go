package config

import (
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
)

// SetupDatabase initializes the database connection
func SetupDatabase(cfg *Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	// Create tables if they don't exist
	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return db, nil
}

// createTables creates the necessary tables in the database
func createTables(db *sqlx.DB) error {
	// Create users table. Email and password are nullable: members added by
	// hand have neither, authenticated members have both.
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(36) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			avatar_url TEXT NOT NULL DEFAULT '',
			email VARCHAR(255) UNIQUE,
			password VARCHAR(255) NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Create events table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS events (
			id VARCHAR(36) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Create event_members table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS event_members (
			event_id VARCHAR(36) NOT NULL REFERENCES events(id) ON DELETE CASCADE,
			user_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			PRIMARY KEY (event_id, user_id)
		)
	`)
	if err != nil {
		return err
	}

	// Create expenses table. category and event_id are nullable; NULL is the
	// persisted form of an absent optional field.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS expenses (
			id VARCHAR(36) PRIMARY KEY,
			description VARCHAR(255) NOT NULL,
			amount NUMERIC(12,2) NOT NULL CHECK (amount > 0),
			paid_by_id VARCHAR(36) NOT NULL REFERENCES users(id),
			event_id VARCHAR(36) REFERENCES events(id) ON DELETE SET NULL,
			category VARCHAR(255),
			date TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Create expense_participants table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS expense_participants (
			expense_id VARCHAR(36) NOT NULL REFERENCES expenses(id) ON DELETE CASCADE,
			user_id VARCHAR(36) NOT NULL REFERENCES users(id),
			PRIMARY KEY (expense_id, user_id)
		)
	`)
	if err != nil {
		return err
	}

	// Create categories table. The unique index on lower(name) backs the
	// case-insensitive uniqueness rule and turns the ensure-category race
	// into a detectable conflict.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS categories (
			id VARCHAR(36) PRIMARY KEY,
			name VARCHAR(255) NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// The uniqueness index is load-bearing; fail hard if it cannot be built.
	_, err = db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_name_ci ON categories(lower(name))")
	if err != nil {
		return err
	}

	// Create indexes for better performance
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_expenses_event_id ON expenses(event_id)",
		"CREATE INDEX IF NOT EXISTS idx_expenses_category ON expenses(lower(category))",
		"CREATE INDEX IF NOT EXISTS idx_expense_participants_expense ON expense_participants(expense_id)",
	}

	for _, idx := range indexes {
		if _, err = db.Exec(idx); err != nil {
			slog.Warn("failed to create index", "error", err)
		}
	}

	return nil
}
