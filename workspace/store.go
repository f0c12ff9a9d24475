package workspace

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/AlexGitta/Fuzz/fizzbuzz"
)

// Sentinel storage errors. Implementations wrap them with the failing
// identifier, e.g. fmt.Errorf("workspace with ID %s %w", id, ErrNotFound),
// so callers branch with errors.Is and logs stay descriptive.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

// WorkspaceRecord is the persisted identity of a workspace. Blocks are
// stored separately and replaced wholesale on every edit, which keeps the
// contiguous order sequence consistent without multi-row order updates.
type WorkspaceRecord struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store persists workspaces and their block configurations. Persistence
// is an editor-layer concern; the evaluation engine never touches it.
type Store interface {
	// CreateWorkspace persists a new workspace record.
	CreateWorkspace(ctx context.Context, rec WorkspaceRecord) error

	// GetWorkspace retrieves a workspace record by ID.
	GetWorkspace(ctx context.Context, id string) (WorkspaceRecord, error)

	// ListWorkspaces returns all workspace records ordered by creation time.
	ListWorkspaces(ctx context.Context) ([]WorkspaceRecord, error)

	// DeleteWorkspace removes a workspace and all its blocks.
	DeleteWorkspace(ctx context.Context, id string) error

	// ReplaceBlocks atomically replaces the workspace's block list.
	ReplaceBlocks(ctx context.Context, workspaceID string, blocks []fizzbuzz.RuleBlock) error

	// LoadBlocks returns the workspace's blocks sorted by stored order.
	LoadBlocks(ctx context.Context, workspaceID string) ([]fizzbuzz.RuleBlock, error)
}

// MemoryStore implements Store using in-memory maps. It backs tests and
// the default server configuration; contents vanish on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]WorkspaceRecord
	blocks  map[string][]fizzbuzz.RuleBlock
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]WorkspaceRecord),
		blocks:  make(map[string][]fizzbuzz.RuleBlock),
	}
}

// CreateWorkspace persists a new workspace record.
func (s *MemoryStore) CreateWorkspace(ctx context.Context, rec WorkspaceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[rec.ID]; exists {
		return fmt.Errorf("workspace with ID %s %w", rec.ID, ErrAlreadyExists)
	}
	s.records[rec.ID] = rec
	s.blocks[rec.ID] = nil
	return nil
}

// GetWorkspace retrieves a workspace record by ID.
func (s *MemoryStore) GetWorkspace(ctx context.Context, id string) (WorkspaceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, exists := s.records[id]
	if !exists {
		return WorkspaceRecord{}, fmt.Errorf("workspace with ID %s %w", id, ErrNotFound)
	}
	return rec, nil
}

// ListWorkspaces returns all workspace records ordered by creation time.
func (s *MemoryStore) ListWorkspaces(ctx context.Context) ([]WorkspaceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]WorkspaceRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// DeleteWorkspace removes a workspace and all its blocks.
func (s *MemoryStore) DeleteWorkspace(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[id]; !exists {
		return fmt.Errorf("workspace with ID %s %w", id, ErrNotFound)
	}
	delete(s.records, id)
	delete(s.blocks, id)
	return nil
}

// ReplaceBlocks atomically replaces the workspace's block list. The input
// is copied so later edits by the caller cannot reach stored state.
func (s *MemoryStore) ReplaceBlocks(ctx context.Context, workspaceID string, blocks []fizzbuzz.RuleBlock) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, exists := s.records[workspaceID]
	if !exists {
		return fmt.Errorf("workspace with ID %s %w", workspaceID, ErrNotFound)
	}

	stored := make([]fizzbuzz.RuleBlock, len(blocks))
	copy(stored, blocks)
	sortBlocksByOrder(stored)
	s.blocks[workspaceID] = stored

	rec.UpdatedAt = time.Now()
	s.records[workspaceID] = rec
	return nil
}

// LoadBlocks returns a copy of the workspace's blocks sorted by order.
func (s *MemoryStore) LoadBlocks(ctx context.Context, workspaceID string) ([]fizzbuzz.RuleBlock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, exists := s.records[workspaceID]; !exists {
		return nil, fmt.Errorf("workspace with ID %s %w", workspaceID, ErrNotFound)
	}

	stored := s.blocks[workspaceID]
	out := make([]fizzbuzz.RuleBlock, len(stored))
	copy(out, stored)
	return out, nil
}

// sortBlocksByOrder sorts in place by the stored order field, stably so
// equal orders (which should not occur) keep their relative position.
func sortBlocksByOrder(blocks []fizzbuzz.RuleBlock) {
	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].Order < blocks[j].Order
	})
}
