package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/edumirror/mirror-api/pkg/config"
)

// New opens the local mirror store. The mirror is a file-based SQLite
// database by default; PostgreSQL is available for shared deployments.
func New(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	var (
		db  *sqlx.DB
		err error
	)

	switch cfg.Driver {
	case config.DriverSQLite:
		dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", cfg.Path)
		db, err = sqlx.Open("sqlite3", dsn)
	case config.DriverPostgres:
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host,
			cfg.Port,
			cfg.User,
			cfg.Password,
			cfg.Name,
			cfg.SSLMode,
		)
		db, err = sqlx.Open("postgres", dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	db.SetConnMaxLifetime(1 * time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate creates the mirror tables if they do not exist. The statements are
// kept to the SQL subset shared by SQLite and PostgreSQL.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS terms (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		start_at TIMESTAMP,
		end_at TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS courses (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		course_code TEXT NOT NULL DEFAULT '',
		term_id BIGINT,
		restrict_enrollments_to_course_dates BOOLEAN NOT NULL DEFAULT FALSE,
		access_restricted_by_date BOOLEAN NOT NULL DEFAULT FALSE,
		synced_at TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		short_name TEXT NOT NULL DEFAULT '',
		login_id TEXT NOT NULL DEFAULT '',
		avatar_url TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS enrollments (
		id BIGINT PRIMARY KEY,
		course_id BIGINT NOT NULL,
		user_id BIGINT NOT NULL,
		associated_user_id BIGINT,
		observed_user_id BIGINT,
		role TEXT NOT NULL DEFAULT '',
		enrollment_state TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS enrollment_grades (
		enrollment_id BIGINT PRIMARY KEY,
		current_score DOUBLE PRECISION,
		final_score DOUBLE PRECISION,
		current_grade TEXT,
		final_grade TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS grading_periods (
		id BIGINT PRIMARY KEY,
		title TEXT NOT NULL,
		start_date TIMESTAMP,
		end_date TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS course_grading_periods (
		course_id BIGINT NOT NULL,
		grading_period_id BIGINT NOT NULL,
		PRIMARY KEY (course_id, grading_period_id)
	)`,
	`CREATE TABLE IF NOT EXISTS sections (
		id BIGINT PRIMARY KEY,
		course_id BIGINT NOT NULL,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tabs (
		id TEXT NOT NULL,
		course_id BIGINT NOT NULL,
		label TEXT NOT NULL DEFAULT '',
		position INTEGER NOT NULL DEFAULT 0,
		hidden BOOLEAN NOT NULL DEFAULT FALSE,
		is_external BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY (id, course_id)
	)`,
	`CREATE TABLE IF NOT EXISTS front_pages (
		course_id BIGINT PRIMARY KEY,
		url TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL DEFAULT '',
		body TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_enrollments_course_id ON enrollments (course_id)`,
	`CREATE INDEX IF NOT EXISTS idx_enrollments_user_id ON enrollments (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sections_course_id ON sections (course_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tabs_course_id ON tabs (course_id)`,
}
