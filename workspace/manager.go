package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/AlexGitta/Fuzz/fizzbuzz"
)

// Directions accepted by MoveBlock.
const (
	MoveUp   = "up"
	MoveDown = "down"
)

// Manager is the registry of live workspaces backed by a Store. Reads hand
// out the live *Workspace; every block mutation goes through the Manager so
// it can be written through to the store. If the write fails, the in-memory
// workspace is rolled back to its pre-mutation snapshot, keeping memory and
// store in agreement.
type Manager struct {
	store Store
	log   *slog.Logger

	// mu guards the registry and serializes mutate-then-persist sequences
	// so a rollback always restores the snapshot taken under the same lock.
	mu         sync.RWMutex
	workspaces map[string]*Workspace
}

// NewManager creates a manager over the given store. Call Load to hydrate
// existing workspaces before serving requests.
func NewManager(store Store, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		store:      store,
		log:        log,
		workspaces: make(map[string]*Workspace),
	}
}

// Load hydrates all persisted workspaces and their blocks into the
// registry, replacing whatever it currently holds.
func (m *Manager) Load(ctx context.Context) error {
	records, err := m.store.ListWorkspaces(ctx)
	if err != nil {
		return fmt.Errorf("failed to list workspaces: %w", err)
	}

	loaded := make(map[string]*Workspace, len(records))
	for _, rec := range records {
		blocks, err := m.store.LoadBlocks(ctx, rec.ID)
		if err != nil {
			return fmt.Errorf("failed to load blocks for workspace %s: %w", rec.ID, err)
		}

		ws := New(rec.ID, rec.Name)
		ws.CreatedAt = rec.CreatedAt
		ws.setBlocks(blocks)
		loaded[rec.ID] = ws
	}

	m.mu.Lock()
	m.workspaces = loaded
	m.mu.Unlock()

	m.log.Info("loaded workspaces", "count", len(loaded))
	return nil
}

// Create validates the name, persists a new workspace, and registers it.
// Names are unique across the registry. With seed set, the workspace starts
// with the classic Fizz/Buzz pair instead of empty.
func (m *Manager) Create(ctx context.Context, name string, seed bool) (*Workspace, error) {
	if err := ValidateWorkspaceName(name); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.workspaces {
		if existing.Name == name {
			return nil, fmt.Errorf("workspace with name %q %w", name, ErrAlreadyExists)
		}
	}

	ws := New(uuid.NewString(), name)
	if seed {
		if err := ws.SeedDefaults(); err != nil {
			return nil, err
		}
	}

	rec := WorkspaceRecord{
		ID:        ws.ID,
		Name:      ws.Name,
		CreatedAt: ws.CreatedAt,
		UpdatedAt: ws.CreatedAt,
	}
	if err := m.store.CreateWorkspace(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to create workspace %q: %w", name, err)
	}

	if blocks := ws.Blocks(); len(blocks) > 0 {
		if err := m.store.ReplaceBlocks(ctx, ws.ID, blocks); err != nil {
			if delErr := m.store.DeleteWorkspace(ctx, ws.ID); delErr != nil {
				m.log.Error("failed to remove workspace after seed persistence error",
					"workspace_id", ws.ID, "error", delErr)
			}
			return nil, fmt.Errorf("failed to persist seed blocks for workspace %s: %w", ws.ID, err)
		}
	}

	m.workspaces[ws.ID] = ws
	m.log.Info("created workspace", "workspace_id", ws.ID, "name", ws.Name, "blocks", ws.Len())
	return ws, nil
}

// Get retrieves the live workspace with the given ID.
func (m *Manager) Get(id string) (*Workspace, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getLocked(id)
}

// List returns the live workspaces ordered by creation time.
func (m *Manager) List() []*Workspace {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Workspace, 0, len(m.workspaces))
	for _, ws := range m.workspaces {
		out = append(out, ws)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Delete removes the workspace and its blocks from the store and the
// registry.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.getLocked(id); err != nil {
		return err
	}
	if err := m.store.DeleteWorkspace(ctx, id); err != nil {
		return fmt.Errorf("failed to delete workspace %s: %w", id, err)
	}

	delete(m.workspaces, id)
	m.log.Info("deleted workspace", "workspace_id", id)
	return nil
}

// AddBlock appends a block to the workspace and persists the new list.
func (m *Manager) AddBlock(ctx context.Context, workspaceID string, p BlockParams) (fizzbuzz.RuleBlock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ws, err := m.getLocked(workspaceID)
	if err != nil {
		return fizzbuzz.RuleBlock{}, err
	}

	before := ws.Blocks()
	block, err := ws.AddBlock(p)
	if err != nil {
		return fizzbuzz.RuleBlock{}, err
	}
	if err := m.persistLocked(ctx, ws, before); err != nil {
		return fizzbuzz.RuleBlock{}, err
	}
	return block, nil
}

// UpdateBlock edits a block's content fields and persists the new list.
func (m *Manager) UpdateBlock(ctx context.Context, workspaceID, blockID string, p UpdateParams) (fizzbuzz.RuleBlock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ws, err := m.getLocked(workspaceID)
	if err != nil {
		return fizzbuzz.RuleBlock{}, err
	}

	before := ws.Blocks()
	block, err := ws.UpdateBlock(blockID, p)
	if err != nil {
		return fizzbuzz.RuleBlock{}, err
	}
	if err := m.persistLocked(ctx, ws, before); err != nil {
		return fizzbuzz.RuleBlock{}, err
	}
	return block, nil
}

// DeleteBlock removes a block and persists the reindexed list.
func (m *Manager) DeleteBlock(ctx context.Context, workspaceID, blockID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ws, err := m.getLocked(workspaceID)
	if err != nil {
		return err
	}

	before := ws.Blocks()
	if err := ws.DeleteBlock(blockID); err != nil {
		return err
	}
	return m.persistLocked(ctx, ws, before)
}

// MoveBlock swaps a block with its neighbor in the given direction and
// persists the new ordering. Moving past either end is a no-op that still
// succeeds.
func (m *Manager) MoveBlock(ctx context.Context, workspaceID, blockID, direction string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ws, err := m.getLocked(workspaceID)
	if err != nil {
		return err
	}

	before := ws.Blocks()
	switch direction {
	case MoveUp:
		err = ws.MoveBlockUp(blockID)
	case MoveDown:
		err = ws.MoveBlockDown(blockID)
	default:
		return &ValidationError{
			Field:  "direction",
			Reason: fmt.Sprintf("direction must be %q or %q, got %q", MoveUp, MoveDown, direction),
		}
	}
	if err != nil {
		return err
	}
	return m.persistLocked(ctx, ws, before)
}

// ClearBlocks removes every block from the workspace and persists the
// empty list.
func (m *Manager) ClearBlocks(ctx context.Context, workspaceID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ws, err := m.getLocked(workspaceID)
	if err != nil {
		return err
	}

	before := ws.Blocks()
	ws.Clear()
	return m.persistLocked(ctx, ws, before)
}

func (m *Manager) getLocked(id string) (*Workspace, error) {
	ws, exists := m.workspaces[id]
	if !exists {
		return nil, fmt.Errorf("workspace with ID %s %w", id, ErrNotFound)
	}
	return ws, nil
}

// persistLocked writes the workspace's current blocks through to the
// store, restoring the pre-mutation snapshot if the write fails.
func (m *Manager) persistLocked(ctx context.Context, ws *Workspace, before []fizzbuzz.RuleBlock) error {
	if err := m.store.ReplaceBlocks(ctx, ws.ID, ws.Blocks()); err != nil {
		ws.setBlocks(before)
		return fmt.Errorf("failed to persist blocks for workspace %s: %w", ws.ID, err)
	}
	return nil
}
