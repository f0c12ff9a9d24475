// Package workspace owns the live, user-editable block collections: named
// workspaces, block create/edit/delete/move operations, validation limits,
// and pluggable persistence. The evaluation engine never sees a live
// collection; it receives the snapshot returned by Blocks().
package workspace

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AlexGitta/Fuzz/fizzbuzz"
)

// BlockParams carries the user-supplied fields for creating a block. The
// type-specific fields are read according to Type: Divisor for divisor
// blocks, RangeStart/RangeEnd for range blocks.
type BlockParams struct {
	Type       fizzbuzz.BlockType
	Name       string
	Word       string
	Divisor    int
	RangeStart int
	RangeEnd   int
}

// UpdateParams carries the editable fields of an existing block. The
// block's type cannot change; replacing the type is modeled as
// delete + recreate.
type UpdateParams struct {
	Name       string
	Word       string
	Divisor    int
	RangeStart int
	RangeEnd   int
}

// DefaultParams returns the classic starter configuration: Fizz on
// divisor 3 followed by Buzz on divisor 5.
func DefaultParams() []BlockParams {
	return []BlockParams{
		{Type: fizzbuzz.BlockDivisor, Name: "Fizz", Word: "Fizz", Divisor: 3},
		{Type: fizzbuzz.BlockDivisor, Name: "Buzz", Word: "Buzz", Divisor: 5},
	}
}

// Workspace is one named, ordered, mutable block collection. All methods
// are safe for concurrent use; reads return copies, so a caller can hand
// the result of Blocks() to an evaluation run while edits continue.
type Workspace struct {
	ID        string
	Name      string
	CreatedAt time.Time

	mu     sync.RWMutex
	blocks []fizzbuzz.RuleBlock // kept sorted by Order, orders contiguous from 0
}

// New creates an empty workspace. The caller supplies the ID; the Manager
// uses UUIDs.
func New(id, name string) *Workspace {
	return &Workspace{
		ID:        id,
		Name:      name,
		CreatedAt: time.Now(),
	}
}

// AddBlock validates the parameters, assigns a fresh UUID and the next
// order index, and appends the block at the end of the sequence.
func (w *Workspace) AddBlock(p BlockParams) (fizzbuzz.RuleBlock, error) {
	if err := validateBlockParams(p.Type, p.Name, p.Word, p.Divisor, p.RangeStart, p.RangeEnd); err != nil {
		return fizzbuzz.RuleBlock{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.blocks) >= maxBlocksPerWorkspace {
		return fizzbuzz.RuleBlock{}, &ValidationError{
			Field:  "blocks",
			Reason: fmt.Sprintf("workspace already holds %d blocks, maximum is %d", len(w.blocks), maxBlocksPerWorkspace),
		}
	}

	now := time.Now()
	block := fizzbuzz.RuleBlock{
		ID:         uuid.NewString(),
		Type:       p.Type,
		Name:       p.Name,
		Word:       p.Word,
		Divisor:    p.Divisor,
		RangeStart: p.RangeStart,
		RangeEnd:   p.RangeEnd,
		Order:      len(w.blocks),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	w.blocks = append(w.blocks, block)
	return block, nil
}

// UpdateBlock replaces the content fields of an existing block. ID, type,
// order, and creation time are preserved.
func (w *Workspace) UpdateBlock(id string, p UpdateParams) (fizzbuzz.RuleBlock, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	i := w.indexLocked(id)
	if i < 0 {
		return fizzbuzz.RuleBlock{}, fmt.Errorf("block with ID %s %w", id, ErrNotFound)
	}

	if err := validateBlockParams(w.blocks[i].Type, p.Name, p.Word, p.Divisor, p.RangeStart, p.RangeEnd); err != nil {
		return fizzbuzz.RuleBlock{}, err
	}

	b := &w.blocks[i]
	b.Name = p.Name
	b.Word = p.Word
	b.Divisor = p.Divisor
	b.RangeStart = p.RangeStart
	b.RangeEnd = p.RangeEnd
	b.UpdatedAt = time.Now()
	return *b, nil
}

// DeleteBlock removes the block and closes the gap: remaining blocks keep
// their relative order and are reindexed to 0..n-1. The removed ID is
// never reused.
func (w *Workspace) DeleteBlock(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	i := w.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("block with ID %s %w", id, ErrNotFound)
	}

	w.blocks = append(w.blocks[:i], w.blocks[i+1:]...)
	w.reindexLocked()
	return nil
}

// MoveBlockUp swaps the block with its predecessor. Moving the first
// block is a no-op.
func (w *Workspace) MoveBlockUp(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	i := w.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("block with ID %s %w", id, ErrNotFound)
	}
	if i == 0 {
		return nil
	}

	w.blocks[i-1], w.blocks[i] = w.blocks[i], w.blocks[i-1]
	w.reindexLocked()
	return nil
}

// MoveBlockDown swaps the block with its successor. Moving the last block
// is a no-op.
func (w *Workspace) MoveBlockDown(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	i := w.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("block with ID %s %w", id, ErrNotFound)
	}
	if i == len(w.blocks)-1 {
		return nil
	}

	w.blocks[i], w.blocks[i+1] = w.blocks[i+1], w.blocks[i]
	w.reindexLocked()
	return nil
}

// Block returns a copy of the block with the given ID.
func (w *Workspace) Block(id string) (fizzbuzz.RuleBlock, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	i := w.indexLocked(id)
	if i < 0 {
		return fizzbuzz.RuleBlock{}, fmt.Errorf("block with ID %s %w", id, ErrNotFound)
	}
	return w.blocks[i], nil
}

// Blocks returns a snapshot of the collection sorted by order. The copy
// isolates evaluation runs from edits that happen after the call.
func (w *Workspace) Blocks() []fizzbuzz.RuleBlock {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]fizzbuzz.RuleBlock, len(w.blocks))
	copy(out, w.blocks)
	return out
}

// Len returns the number of blocks.
func (w *Workspace) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.blocks)
}

// Clear removes every block.
func (w *Workspace) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.blocks = nil
}

// SeedDefaults installs the classic Fizz/Buzz pair. It is intended for
// freshly created workspaces and fails if a default name cannot be added.
func (w *Workspace) SeedDefaults() error {
	for _, p := range DefaultParams() {
		if _, err := w.AddBlock(p); err != nil {
			return fmt.Errorf("failed to seed default block %s: %w", p.Name, err)
		}
	}
	return nil
}

// setBlocks replaces the collection wholesale, used for hydration from a
// store and for rolling back a failed write-through. Input is copied,
// sorted by stored order, and reindexed to 0..n-1.
func (w *Workspace) setBlocks(blocks []fizzbuzz.RuleBlock) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.blocks = make([]fizzbuzz.RuleBlock, len(blocks))
	copy(w.blocks, blocks)
	sortBlocksByOrder(w.blocks)
	w.reindexLocked()
}

func (w *Workspace) indexLocked(id string) int {
	for i, b := range w.blocks {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func (w *Workspace) reindexLocked() {
	for i := range w.blocks {
		w.blocks[i].Order = i
	}
}
