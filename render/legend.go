package render

import (
	"strings"

	"github.com/AlexGitta/Fuzz/fizzbuzz"
)

// Fixed colors for the classic categories: blue for Fizz, red for Buzz,
// purple for the classic Fizz+Buzz combination, light gray for unmatched
// numbers, and a darker gray fallback for a matched ID with no
// corresponding block.
const (
	ColorFizz     = "#3B82F6"
	ColorBuzz     = "#EF4444"
	ColorFizzBuzz = "#8B5CF6"
	ColorNoMatch  = "#E5E7EB"
	ColorUnknown  = "#6B7280"
)

// blockPalette colors single-block categories beyond the classic pair,
// cycled by block order so identical inputs render identically.
var blockPalette = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4", "#FFEAA7",
	"#DDA0DD", "#98D8C8", "#F7DC6F", "#BB8FCE", "#85C1E9",
	"#F8C471", "#82E0AA", "#F1948A", "#85CEBC", "#D7BDE2",
}

// comboPalette colors combinations other than the classic Fizz+Buzz
// pair, cycled in first-observed order.
var comboPalette = []string{
	"#FF2ED9", "#2ED9FF", "#D9FF2E", "#FF8C42", "#8C42FF", "#42FF8C",
}

// LegendEntry names one observed category with its display label and
// hex color.
type LegendEntry struct {
	Category string `json:"category"`
	Label    string `json:"label"`
	Color    string `json:"color"`
}

// BuildLegend assigns a label and a deterministic color to every
// category observed in results, in first-observed order. Unmatched
// numbers appear as "Numbers" in light gray. A single-block category
// takes the block's color: Fizz-word divisors are blue, Buzz-word
// divisors red, anything else cycles the block palette by order. A
// combination containing both a Fizz-word and a Buzz-word divisor takes
// the classic purple; other combinations cycle the combination palette
// in the order they are first seen.
func BuildLegend(blocks []fizzbuzz.RuleBlock, results []fizzbuzz.Result) []LegendEntry {
	byID := make(map[string]fizzbuzz.RuleBlock, len(blocks))
	for _, b := range blocks {
		byID[b.ID] = b
	}

	entries := []LegendEntry{}
	seen := make(map[string]bool)
	combos := 0

	for _, r := range results {
		cat := Category(r)
		if seen[cat] {
			continue
		}
		seen[cat] = true

		switch len(r.MatchedBlockIDs) {
		case 0:
			entries = append(entries, LegendEntry{
				Category: cat,
				Label:    "Numbers",
				Color:    ColorNoMatch,
			})
		case 1:
			b, ok := byID[r.MatchedBlockIDs[0]]
			if !ok {
				entries = append(entries, LegendEntry{
					Category: cat,
					Label:    cat,
					Color:    ColorUnknown,
				})
				continue
			}
			entries = append(entries, LegendEntry{
				Category: cat,
				Label:    blockLabel(b),
				Color:    blockColor(b),
			})
		default:
			color := ColorFizzBuzz
			if !isClassicCombo(r.MatchedBlockIDs, byID) {
				color = comboPalette[combos%len(comboPalette)]
				combos++
			}
			entries = append(entries, LegendEntry{
				Category: cat,
				Label:    comboLabel(r.MatchedBlockIDs, byID),
				Color:    color,
			})
		}
	}
	return entries
}

// blockLabel is the display name of a single-block category: the
// block's word, wrapped as "Prime (word)" or "Fib (word)" for the
// sequence types, with the block name standing in when the word is
// empty.
func blockLabel(b fizzbuzz.RuleBlock) string {
	word := b.Word
	if word == "" {
		word = b.Name
	}
	switch b.Type {
	case fizzbuzz.BlockPrime:
		return "Prime (" + word + ")"
	case fizzbuzz.BlockFibonacci:
		return "Fib (" + word + ")"
	default:
		return word
	}
}

func blockColor(b fizzbuzz.RuleBlock) string {
	if b.Type == fizzbuzz.BlockDivisor {
		switch b.Word {
		case "Fizz":
			return ColorFizz
		case "Buzz":
			return ColorBuzz
		}
	}
	i := b.Order % len(blockPalette)
	if i < 0 {
		i += len(blockPalette)
	}
	return blockPalette[i]
}

// isClassicCombo reports whether the matched set contains both a
// Fizz-word divisor and a Buzz-word divisor, the pairing that renders
// as the classic FizzBuzz purple.
func isClassicCombo(ids []string, byID map[string]fizzbuzz.RuleBlock) bool {
	var hasFizz, hasBuzz bool
	for _, id := range ids {
		b, ok := byID[id]
		if !ok || b.Type != fizzbuzz.BlockDivisor {
			continue
		}
		switch b.Word {
		case "Fizz":
			hasFizz = true
		case "Buzz":
			hasBuzz = true
		}
	}
	return hasFizz && hasBuzz
}

// comboLabel concatenates the matched blocks' words in match order,
// mirroring how the label itself is built. When every word is empty the
// block names joined with "+" stand in, and a missing block falls back
// to its raw ID.
func comboLabel(ids []string, byID map[string]fizzbuzz.RuleBlock) string {
	var words strings.Builder
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		b, ok := byID[id]
		if !ok {
			names = append(names, id)
			continue
		}
		words.WriteString(b.Word)
		if b.Name != "" {
			names = append(names, b.Name)
		} else {
			names = append(names, id)
		}
	}
	if words.Len() > 0 {
		return words.String()
	}
	return strings.Join(names, "+")
}
