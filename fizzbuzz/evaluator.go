package fizzbuzz

import (
	"sort"
	"strconv"
	"strings"
)

// progressInterval is how often the optional progress callback fires.
const progressInterval = 50

type runConfig struct {
	progress func(done, total int)
}

// RunOption configures a single evaluation run.
type RunOption func(*runConfig)

// WithProgress registers fn to be invoked synchronously every 50 numbers
// and once after the final number, with the count evaluated so far and the
// total for the run. Useful for long ranges driven from a UI or CLI.
func WithProgress(fn func(done, total int)) RunOption {
	return func(cfg *runConfig) {
		cfg.progress = fn
	}
}

// Evaluate produces one Result per integer in [start, end], in increasing
// order. For each number the blocks are tested in their stored order and
// the words of every matching block are concatenated, with no separator,
// into the label; a number matching nothing (or matching only empty-word
// blocks) gets its decimal representation as the label instead. Matched
// block IDs are recorded in the same order for downstream categorization.
//
// The block slice is snapshotted: it is copied and stably sorted by Order
// before the run, so the caller's slice is never reordered or retained and
// concurrent edits to a live collection cannot affect a run in flight.
//
// start may be negative, zero, or positive. start > end is rejected with
// an InvalidRangeError before any work; a block with an inconsistent
// property is rejected with an InvalidBlockError the same way. Identical
// inputs always produce identical output sequences.
func Evaluate(start, end int, blocks []RuleBlock, opts ...RunOption) ([]Result, error) {
	if start > end {
		return nil, NewInvalidRangeError(start, end)
	}

	var cfg runConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	ordered := snapshotBlocks(blocks)
	for _, b := range ordered {
		if err := b.Validate(); err != nil {
			return nil, err
		}
	}

	cache := NewSequenceCache(end, ordered)
	total := end - start + 1
	results := make([]Result, 0, total)

	for n := start; n <= end; n++ {
		var label strings.Builder
		var matched []string
		for _, b := range ordered {
			if b.Matches(n, cache) {
				label.WriteString(b.Word)
				matched = append(matched, b.ID)
			}
		}

		text := label.String()
		if text == "" {
			text = strconv.Itoa(n)
		}

		results = append(results, Result{
			Number:          n,
			Label:           text,
			MatchedBlockIDs: matched,
		})

		if cfg.progress != nil && len(results)%progressInterval == 0 {
			cfg.progress(len(results), total)
		}
	}

	if cfg.progress != nil && total%progressInterval != 0 {
		cfg.progress(total, total)
	}

	return results, nil
}

// snapshotBlocks returns a copy of blocks stably sorted by Order.
func snapshotBlocks(blocks []RuleBlock) []RuleBlock {
	out := make([]RuleBlock, len(blocks))
	copy(out, blocks)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}
