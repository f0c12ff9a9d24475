package workspace

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/AlexGitta/Fuzz/fizzbuzz"
)

// PostgresStore implements Store backed by PostgreSQL. The schema lives in
// migrations/ and is applied with the migrate command.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a PostgreSQL-backed Store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// CreateWorkspace persists a new workspace record.
func (s *PostgresStore) CreateWorkspace(ctx context.Context, rec WorkspaceRecord) error {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM workspaces WHERE id = $1)
	`, rec.ID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check workspace existence: %w", err)
	}
	if exists {
		return fmt.Errorf("workspace with ID %s %w", rec.ID, ErrAlreadyExists)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO workspaces (id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`, rec.ID, rec.Name, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert workspace: %w", err)
	}

	return nil
}

// GetWorkspace retrieves a workspace record by ID.
func (s *PostgresStore) GetWorkspace(ctx context.Context, id string) (WorkspaceRecord, error) {
	var rec WorkspaceRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, created_at, updated_at
		FROM workspaces
		WHERE id = $1
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
func (s *PostgresStore) ListWorkspaces(ctx context.Context) ([]WorkspaceRecord, error) {
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

// DeleteWorkspace removes a workspace; its blocks go with it via the
// foreign key cascade.
func (s *PostgresStore) DeleteWorkspace(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM workspaces
		WHERE id = $1
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
// transaction, so a reader never observes a half-written order sequence.
func (s *PostgresStore) ReplaceBlocks(ctx context.Context, workspaceID string, blocks []fizzbuzz.RuleBlock) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM workspaces WHERE id = $1)
	`, workspaceID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check workspace existence: %w", err)
	}
	if !exists {
		return fmt.Errorf("workspace with ID %s %w", workspaceID, ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM rule_blocks
		WHERE workspace_id = $1
	`, workspaceID); err != nil {
		return fmt.Errorf("failed to clear blocks: %w", err)
	}

	for _, b := range blocks {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO rule_blocks
				(id, workspace_id, block_type, name, word, divisor, range_start, range_end, position, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`, b.ID, workspaceID, string(b.Type), b.Name, b.Word, b.Divisor, b.RangeStart, b.RangeEnd, b.Order,
			b.CreatedAt, b.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert block %s: %w", b.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE workspaces
		SET updated_at = NOW()
		WHERE id = $1
	`, workspaceID); err != nil {
		return fmt.Errorf("failed to touch workspace: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit block replacement: %w", err)
	}

	return nil
}

// LoadBlocks returns the workspace's blocks sorted by stored position.
func (s *PostgresStore) LoadBlocks(ctx context.Context, workspaceID string) ([]fizzbuzz.RuleBlock, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM workspaces WHERE id = $1)
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
		WHERE workspace_id = $1
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
