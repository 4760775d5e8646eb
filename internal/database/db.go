package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent.
	// clientFoundRows=true makes UPDATE report matched rows instead of changed
	// rows; the repositories rely on that to tell "no such note for this owner"
	// apart from "update was a no-op" (e.g. unsharing an already-private note).
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// schema holds the idempotent DDL for the two tables the service owns.
// Nested note sequences (tags, subtasks, access requests) live in JSON
// columns so each note is a single row and every mutation is one
// atomic statement. share_id carries a UNIQUE key: a live token
// resolves to at most one note, ever.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name          VARCHAR(120)  NOT NULL,
		email         VARCHAR(190)  NOT NULL,
		password_hash VARCHAR(100)  NOT NULL,
		created_at    DATETIME      NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    DATETIME      NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS notes (
		id               CHAR(36)        NOT NULL PRIMARY KEY,
		user_id          BIGINT UNSIGNED NOT NULL,
		title            VARCHAR(255)    NOT NULL,
		content          MEDIUMTEXT      NOT NULL,
		color            VARCHAR(20)     NOT NULL DEFAULT 'yellow',
		tags             JSON            NOT NULL,
		is_pinned        TINYINT(1)      NOT NULL DEFAULT 0,
		is_favorite      TINYINT(1)      NOT NULL DEFAULT 0,
		is_archived      TINYINT(1)      NOT NULL DEFAULT 0,
		kind             VARCHAR(10)     NOT NULL DEFAULT 'note',
		due_date         DATETIME        NULL,
		priority         VARCHAR(10)     NOT NULL DEFAULT 'medium',
		task_status      VARCHAR(20)     NOT NULL DEFAULT 'pending',
		subtasks         JSON            NOT NULL,
		is_shared        TINYINT(1)      NOT NULL DEFAULT 0,
		share_id         VARCHAR(64)     NULL,
		share_allow_edit TINYINT(1)      NOT NULL DEFAULT 0,
		access_requests  JSON            NOT NULL,
		created_at       DATETIME        NOT NULL,
		updated_at       DATETIME        NOT NULL,
		UNIQUE KEY uq_notes_share_id (share_id),
		KEY idx_notes_owner (user_id, is_pinned, updated_at),
		CONSTRAINT fk_notes_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates the users and notes tables when they do not
// exist yet. Safe to run on every startup.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
