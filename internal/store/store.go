package store

import (
	"database/sql"
	"fmt"
	"log"
	"path/filepath"

	_ "github.com/lib/pq" // PostgreSQL driver

	"ms-reminders/internal/migrations"
)

// Store is the Postgres-backed record store for users and reminders.
type Store struct {
	DB       *sql.DB
	migrator *migrations.Migrator
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func New(config DatabaseConfig) (*Store, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Successfully connected to database: %s", config.DBName)

	migrator := migrations.NewMigrator(db, filepath.Join("migrations"))

	return &Store{
		DB:       db,
		migrator: migrator,
	}, nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}

// RunMigrations applies all pending database migrations
func (s *Store) RunMigrations() error {
	return s.migrator.RunMigrations()
}

// MigrationStatus shows current migration status
func (s *Store) MigrationStatus() error {
	return s.migrator.Status()
}

// Ping checks database connectivity for health probes
func (s *Store) Ping() error {
	return s.DB.Ping()
}
