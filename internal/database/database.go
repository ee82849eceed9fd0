package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/seongon-agency/lark-agent-agno-backend/internal/migrations"
	"github.com/seongon-agency/lark-agent-agno-backend/internal/models"
	"github.com/seongon-agency/lark-agent-agno-backend/internal/security"

	_ "github.com/mattn/go-sqlite3"
)

// Database is the local conversation store. It records every user/assistant
// turn keyed by session so the bridge can replay recent history to the agent
// service, and so sessions survive process restarts. The agent framework
// keeps its own memory under the same session key; this store is the
// integration layer's durable record.
type Database struct {
	db        *sql.DB
	encryptor *encryptor
}

func New(dbPath string) (*Database, error) {
	if len(dbPath) == 0 || dbPath[0] == '\x00' {
		return nil, fmt.Errorf("invalid database path")
	}

	if err := security.ValidateFilePath(dbPath); err != nil {
		return nil, fmt.Errorf("invalid database path: %w", err)
	}

	file, err := os.OpenFile(dbPath, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to create database file: %w", err)
	}
	if err := file.Close(); err != nil {
		return nil, fmt.Errorf("failed to close database file: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	schema, err := migrations.GetInitialSchema()
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	encryptor, err := NewEncryptor()
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize encryptor: %w", err)
	}

	return &Database{db: db, encryptor: encryptor}, nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

// UpsertSession records a session on first contact and bumps updated_at on
// subsequent ones.
func (d *Database) UpsertSession(ctx context.Context, sessionKey, chatID, userID string) error {
	encKey, err := d.encryptor.EncryptForLookup(sessionKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt session key: %w", err)
	}
	encChatID, err := d.encryptor.Encrypt(chatID)
	if err != nil {
		return fmt.Errorf("failed to encrypt chat id: %w", err)
	}
	encUserID, err := d.encryptor.Encrypt(userID)
	if err != nil {
		return fmt.Errorf("failed to encrypt user id: %w", err)
	}

	query := `
		INSERT INTO sessions (session_key, chat_id, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(session_key) DO UPDATE SET updated_at = excluded.updated_at
	`
	now := time.Now().UTC()
	_, err = d.db.ExecContext(ctx, query, encKey, encChatID, encUserID, now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}
	return nil
}

// SaveTurn appends one turn to a session's log.
func (d *Database) SaveTurn(ctx context.Context, turn *models.Turn) error {
	encKey, err := d.encryptor.EncryptForLookup(turn.SessionKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt session key: %w", err)
	}
	encContent, err := d.encryptor.Encrypt(turn.Content)
	if err != nil {
		return fmt.Errorf("failed to encrypt content: %w", err)
	}

	createdAt := turn.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := `
		INSERT INTO turns (session_key, message_id, role, content, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err = d.db.ExecContext(ctx, query, encKey, turn.MessageID, turn.Role, encContent, createdAt)
	if err != nil {
		return fmt.Errorf("failed to save turn: %w", err)
	}
	return nil
}

// GetRecentTurns returns the most recent limit turns for a session in
// chronological order.
func (d *Database) GetRecentTurns(ctx context.Context, sessionKey string, limit int) ([]models.Turn, error) {
	encKey, err := d.encryptor.EncryptForLookup(sessionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt session key: %w", err)
	}

	query := `
		SELECT id, message_id, role, content, created_at FROM (
			SELECT id, message_id, role, content, created_at
			FROM turns WHERE session_key = ?
			ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC
	`
	rows, err := d.db.QueryContext(ctx, query, encKey, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var turns []models.Turn
	for rows.Next() {
		var t models.Turn
		if err := rows.Scan(&t.ID, &t.MessageID, &t.Role, &t.Content, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		t.SessionKey = sessionKey
		content, err := d.encryptor.Decrypt(t.Content)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt content: %w", err)
		}
		t.Content = content
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

// ClearSession removes a session and all of its turns.
func (d *Database) ClearSession(ctx context.Context, sessionKey string) error {
	encKey, err := d.encryptor.EncryptForLookup(sessionKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt session key: %w", err)
	}

	if _, err := d.db.ExecContext(ctx, `DELETE FROM turns WHERE session_key = ?`, encKey); err != nil {
		return fmt.Errorf("failed to clear turns: %w", err)
	}
	if _, err := d.db.ExecContext(ctx, `DELETE FROM sessions WHERE session_key = ?`, encKey); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// CleanupOldTurns deletes turns older than the retention period. Returns the
// number of rows removed.
func (d *Database) CleanupOldTurns(ctx context.Context, retentionDays int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
	res, err := d.db.ExecContext(ctx, `DELETE FROM turns WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup turns: %w", err)
	}
	return res.RowsAffected()
}
