package workspace

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/AlexGitta/Fuzz/fizzbuzz"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - Initial schema (workspaces, rule_blocks)
const currentSchemaVersion = 1

// SQLiteStore implements Store backed by a SQLite file. It suits the CLI
// and single-node deployments where running PostgreSQL is overkill.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite creates or opens a SQLite database at the given path and
// applies pragmas and schema migrations. It is idempotent.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite allows a single writer at a time; one connection avoids
	// SQLITE_BUSY errors under concurrent block edits.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	if version >= currentSchemaVersion {
		return nil
	}

	// Version 1 is the initial schema, created above. Incremental
	// migrations slot in here as the schema evolves.

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// CreateWorkspace persists a new workspace record.
func (s *SQLiteStore) CreateWorkspace(ctx context.Context, rec WorkspaceRecord) error {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM workspaces WHERE id = ?)
	`, rec.ID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check workspace existence: %w", err)
	}
	if exists {
		return fmt.Errorf("workspace with ID %s %w", rec.ID, ErrAlreadyExists)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO workspaces (id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`, rec.ID, rec.Name, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert workspace: %w", err)
	}

	return nil
}

// GetWorkspace retrieves a workspace record by ID.
func (s *SQLiteStore) GetWorkspace(ctx context.Context, id string) (WorkspaceRecord, error) {
	var rec WorkspaceRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, created_at, updated_at
		FROM workspaces
		WHERE id = ?
	`, id).Scan(&rec.ID, &rec.Name, &rec.CreatedAt, &rec.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return WorkspaceRecord{}, fmt.Errorf("workspace with ID %s %w", id, ErrNotFound)
	}
	if err != nil {
		return WorkspaceRecord{}, fmt.Errorf("failed to get workspace: %w", err)
	}

	return rec, nil
}

// ListWorkspaces returns all workspace records ordered by creation time.
func (s *SQLiteStore) ListWorkspaces(ctx context.Context) ([]WorkspaceRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, created_at, updated_at
		FROM workspaces
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	defer rows.Close()

	var records []WorkspaceRecord
	for rows.Next() {
		var rec WorkspaceRecord
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan workspace: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating workspaces: %w", err)
	}

	return records, nil
}

// DeleteWorkspace removes a workspace and, via the foreign key cascade,
// its blocks.
func (s *SQLiteStore) DeleteWorkspace(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM workspaces
		WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("workspace with ID %s %w", id, ErrNotFound)
	}

	return nil
}

// ReplaceBlocks atomically replaces the workspace's block list inside a
// transaction.
func (s *SQLiteStore) ReplaceBlocks(ctx context.Context, workspaceID string, blocks []fizzbuzz.RuleBlock) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM workspaces WHERE id = ?)
	`, workspaceID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check workspace existence: %w", err)
	}
	if !exists {
		return fmt.Errorf("workspace with ID %s %w", workspaceID, ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM rule_blocks
		WHERE workspace_id = ?
	`, workspaceID); err != nil {
		return fmt.Errorf("failed to clear blocks: %w", err)
	}

	for _, b := range blocks {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO rule_blocks
				(id, workspace_id, block_type, name, word, divisor, range_start, range_end, position, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, b.ID, workspaceID, string(b.Type), b.Name, b.Word, b.Divisor, b.RangeStart, b.RangeEnd, b.Order,
			b.CreatedAt, b.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert block %s: %w", b.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE workspaces
		SET updated_at = ?
		WHERE id = ?
	`, time.Now(), workspaceID); err != nil {
		return fmt.Errorf("failed to touch workspace: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit block replacement: %w", err)
	}

	return nil
}

// LoadBlocks returns the workspace's blocks sorted by stored position.
func (s *SQLiteStore) LoadBlocks(ctx context.Context, workspaceID string) ([]fizzbuzz.RuleBlock, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM workspaces WHERE id = ?)
	`, workspaceID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check workspace existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("workspace with ID %s %w", workspaceID, ErrNotFound)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, block_type, name, word, divisor, range_start, range_end, position, created_at, updated_at
		FROM rule_blocks
		WHERE workspace_id = ?
		ORDER BY position ASC
	`, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load blocks: %w", err)
	}
	defer rows.Close()

	var blocks []fizzbuzz.RuleBlock
	for rows.Next() {
		var b fizzbuzz.RuleBlock
		var blockType string
		if err := rows.Scan(&b.ID, &blockType, &b.Name, &b.Word, &b.Divisor,
			&b.RangeStart, &b.RangeEnd, &b.Order, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan block: %w", err)
		}
		b.Type = fizzbuzz.BlockType(blockType)
		blocks = append(blocks, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating blocks: %w", err)
	}

	return blocks, nil
}
