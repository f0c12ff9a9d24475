package workspace

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/AlexGitta/Fuzz/fizzbuzz"
)

func openTestStore(t *testing.T) (*SQLiteStore, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fuzz.db")
	store, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store, path
}

// TestSQLiteStoreCreateAndGet verifies the basic record roundtrip.
func TestSQLiteStoreCreateAndGet(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	rec := WorkspaceRecord{ID: "ws-1", Name: "Test", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	if err := store.CreateWorkspace(ctx, rec); err != nil {
		t.Fatalf("CreateWorkspace() failed: %v", err)
	}

	got, err := store.GetWorkspace(ctx, "ws-1")
	if err != nil {
		t.Fatalf("GetWorkspace() failed: %v", err)
	}
	if got.ID != "ws-1" || got.Name != "Test" {
		t.Errorf("Expected ws-1/Test, got %s/%s", got.ID, got.Name)
	}
	if got.CreatedAt.IsZero() {
		t.Error("Expected CreatedAt to survive the roundtrip")
	}
}

// TestSQLiteStoreCreateDuplicate verifies the duplicate ID error.
func TestSQLiteStoreCreateDuplicate(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	rec := WorkspaceRecord{ID: "ws-1", Name: "Test", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	if err := store.CreateWorkspace(ctx, rec); err != nil {
		t.Fatalf("CreateWorkspace() failed: %v", err)
	}

	err := store.CreateWorkspace(ctx, rec)
	if !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("Expected ErrAlreadyExists, got %v", err)
	}
}

// TestSQLiteStoreGetNotFound verifies the unknown ID error.
func TestSQLiteStoreGetNotFound(t *testing.T) {
	store, _ := openTestStore(t)

	_, err := store.GetWorkspace(context.Background(), "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

// TestSQLiteStoreListOrdered verifies creation-time ordering.
func TestSQLiteStoreListOrdered(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()
	base := time.Now()

	names := []string{"third", "first", "second"}
	offsets := []time.Duration{2 * time.Minute, 0, time.Minute}
	for i, name := range names {
		rec := WorkspaceRecord{
			ID:        name,
			Name:      name,
			CreatedAt: base.Add(offsets[i]),
			UpdatedAt: base.Add(offsets[i]),
		}
		if err := store.CreateWorkspace(ctx, rec); err != nil {
			t.Fatalf("CreateWorkspace(%s) failed: %v", name, err)
		}
	}

	records, err := store.ListWorkspaces(ctx)
	if err != nil {
		t.Fatalf("ListWorkspaces() failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}
	for i, want := range []string{"first", "second", "third"} {
		if records[i].ID != want {
			t.Errorf("records[%d].ID = %s, want %s", i, records[i].ID, want)
		}
	}
}

// TestSQLiteStoreReplaceAndLoadBlocks verifies block field fidelity and
// wholesale replacement.
func TestSQLiteStoreReplaceAndLoadBlocks(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	rec := WorkspaceRecord{ID: "ws-1", Name: "Test", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	if err := store.CreateWorkspace(ctx, rec); err != nil {
		t.Fatalf("CreateWorkspace() failed: %v", err)
	}

	now := time.Now()
	blocks := []fizzbuzz.RuleBlock{
		{ID: "b-range", Type: fizzbuzz.BlockRange, Name: "Teens", Word: "Teen", RangeStart: 13, RangeEnd: 19, Order: 1, CreatedAt: now, UpdatedAt: now},
		{ID: "b-div", Type: fizzbuzz.BlockDivisor, Name: "Fizz", Word: "Fizz", Divisor: 3, Order: 0, CreatedAt: now, UpdatedAt: now},
	}
	if err := store.ReplaceBlocks(ctx, "ws-1", blocks); err != nil {
		t.Fatalf("ReplaceBlocks() failed: %v", err)
	}

	loaded, err := store.LoadBlocks(ctx, "ws-1")
	if err != nil {
		t.Fatalf("LoadBlocks() failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("Expected 2 blocks, got %d", len(loaded))
	}

	div := loaded[0]
	if div.ID != "b-div" || div.Type != fizzbuzz.BlockDivisor || div.Divisor != 3 || div.Order != 0 {
		t.Errorf("Expected divisor block first, got %+v", div)
	}
	rng := loaded[1]
	if rng.ID != "b-range" || rng.Type != fizzbuzz.BlockRange || rng.RangeStart != 13 || rng.RangeEnd != 19 {
		t.Errorf("Expected range block fields to survive, got %+v", rng)
	}
	if rng.Name != "Teens" || rng.Word != "Teen" {
		t.Errorf("Expected name/word to survive, got %s/%s", rng.Name, rng.Word)
	}

	// Replacement rewrites the whole list.
	if err := store.ReplaceBlocks(ctx, "ws-1", blocks[:1]); err != nil {
		t.Fatalf("ReplaceBlocks() failed: %v", err)
	}
	loaded, _ = store.LoadBlocks(ctx, "ws-1")
	if len(loaded) != 1 || loaded[0].ID != "b-range" {
		t.Errorf("Expected only the range block after replacement, got %v", loaded)
	}
}

// TestSQLiteStoreDeleteCascades verifies that deleting a workspace takes
// its blocks with it.
func TestSQLiteStoreDeleteCascades(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	rec := WorkspaceRecord{ID: "ws-1", Name: "Test", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	if err := store.CreateWorkspace(ctx, rec); err != nil {
		t.Fatalf("CreateWorkspace() failed: %v", err)
	}
	now := time.Now()
	blocks := []fizzbuzz.RuleBlock{
		{ID: "b-1", Type: fizzbuzz.BlockPrime, Name: "Prime", Word: "Prime", Order: 0, CreatedAt: now, UpdatedAt: now},
	}
	if err := store.ReplaceBlocks(ctx, "ws-1", blocks); err != nil {
		t.Fatalf("ReplaceBlocks() failed: %v", err)
	}

	if err := store.DeleteWorkspace(ctx, "ws-1"); err != nil {
		t.Fatalf("DeleteWorkspace() failed: %v", err)
	}

	if _, err := store.GetWorkspace(ctx, "ws-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}

	// No orphaned rows: the block's ID must be free for reuse.
	if err := store.CreateWorkspace(ctx, rec); err != nil {
		t.Fatalf("CreateWorkspace() after delete failed: %v", err)
	}
	if err := store.ReplaceBlocks(ctx, "ws-1", blocks); err != nil {
		t.Fatalf("ReplaceBlocks() after delete failed, blocks not cascaded: %v", err)
	}
}

// TestSQLiteStoreReopen verifies that data survives closing and reopening
// the database file.
func TestSQLiteStoreReopen(t *testing.T) {
	store, path := openTestStore(t)
	ctx := context.Background()

	rec := WorkspaceRecord{ID: "ws-1", Name: "Durable", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	if err := store.CreateWorkspace(ctx, rec); err != nil {
		t.Fatalf("CreateWorkspace() failed: %v", err)
	}
	now := time.Now()
	blocks := []fizzbuzz.RuleBlock{
		{ID: "b-1", Type: fizzbuzz.BlockDivisor, Name: "Fizz", Word: "Fizz", Divisor: 3, Order: 0, CreatedAt: now, UpdatedAt: now},
	}
	if err := store.ReplaceBlocks(ctx, "ws-1", blocks); err != nil {
		t.Fatalf("ReplaceBlocks() failed: %v", err)
	}

	if err := store.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	reopened, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() on existing file failed: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.GetWorkspace(ctx, "ws-1")
	if err != nil {
		t.Fatalf("GetWorkspace() after reopen failed: %v", err)
	}
	if got.Name != "Durable" {
		t.Errorf("Expected name 'Durable' after reopen, got %q", got.Name)
	}

	loaded, err := reopened.LoadBlocks(ctx, "ws-1")
	if err != nil {
		t.Fatalf("LoadBlocks() after reopen failed: %v", err)
	}
	if len(loaded) != 1 || loaded[0].Word != "Fizz" {
		t.Errorf("Expected persisted Fizz block after reopen, got %v", loaded)
	}
}

// TestSQLiteStoreWithManager verifies the manager's write-through and
// hydration against the file-backed store.
func TestSQLiteStoreWithManager(t *testing.T) {
	store, path := openTestStore(t)
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	manager := NewManager(store, log)
	ws, err := manager.Create(ctx, "Classic", true)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if _, err := manager.AddBlock(ctx, ws.ID, BlockParams{Type: fizzbuzz.BlockFibonacci, Name: "Fib", Word: "Fib"}); err != nil {
		t.Fatalf("AddBlock() failed: %v", err)
	}

	if err := store.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	reopened, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	defer reopened.Close()

	rehydrated := NewManager(reopened, log)
	if err := rehydrated.Load(ctx); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	got, err := rehydrated.Get(ws.ID)
	if err != nil {
		t.Fatalf("Get() after rehydration failed: %v", err)
	}
	words := []string{}
	for _, b := range got.Blocks() {
		words = append(words, b.Word)
	}
	if len(words) != 3 || words[0] != "Fizz" || words[1] != "Buzz" || words[2] != "Fib" {
		t.Errorf("Expected rehydrated blocks [Fizz Buzz Fib], got %v", words)
	}
}
