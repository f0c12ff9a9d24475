// Package fizzbuzz implements the rule-block combination engine: block
// definitions, per-type matching predicates, the run-scoped sequence cache,
// and the evaluator that turns an integer range plus an ordered block list
// into a labeled result sequence.
package fizzbuzz

import (
	"fmt"
	"time"
)

// BlockType identifies which predicate a block uses. The set is closed:
// adding a type means adding a constant and a case to the dispatch switch.
type BlockType string

const (
	BlockDivisor   BlockType = "divisor"
	BlockPrime     BlockType = "prime"
	BlockFibonacci BlockType = "fibonacci"
	BlockRange     BlockType = "range"
)

// ParseBlockType converts a raw string into a BlockType.
func ParseBlockType(s string) (BlockType, error) {
	switch BlockType(s) {
	case BlockDivisor, BlockPrime, BlockFibonacci, BlockRange:
		return BlockType(s), nil
	default:
		return "", fmt.Errorf("unknown block type %q", s)
	}
}

// RuleBlock is one configured rule. Its type is fixed at creation; edits
// replace content fields, and a type change is modeled as delete+recreate.
// Order is the block's position in the combination sequence, kept unique
// and contiguous by the editing layer.
type RuleBlock struct {
	ID         string
	Type       BlockType
	Name       string
	Word       string
	Divisor    int // divisor blocks only, must be > 0
	RangeStart int // range blocks only
	RangeEnd   int // range blocks only, >= RangeStart
	Order      int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Validate checks the type-specific property rules. The editing layer
// rejects invalid blocks at create/edit time; the evaluator re-checks
// every block before a run and reports failures as InvalidBlockError.
func (b RuleBlock) Validate() error {
	switch b.Type {
	case BlockDivisor:
		if b.Divisor <= 0 {
			return NewInvalidBlockError(b.ID, fmt.Sprintf("divisor must be positive, got %d", b.Divisor))
		}
	case BlockRange:
		if b.RangeStart > b.RangeEnd {
			return NewInvalidBlockError(b.ID, fmt.Sprintf("range start %d is greater than range end %d", b.RangeStart, b.RangeEnd))
		}
	case BlockPrime, BlockFibonacci:
		// No properties beyond the word.
	default:
		return NewInvalidBlockError(b.ID, fmt.Sprintf("unknown block type %q", b.Type))
	}
	return nil
}

// Result is the outcome for a single number: the concatenated label and
// the IDs of every block that matched, in block order. Results are created
// by a run and never mutated afterward.
type Result struct {
	Number          int
	Label           string
	MatchedBlockIDs []string
}
