package render

import (
	"strings"

	"github.com/AlexGitta/Fuzz/fizzbuzz"
)

// NoMatchCategory is the category of a number that no block matched.
const NoMatchCategory = "no match"

// Category derives a stable key from a result's matched block IDs:
// NoMatchCategory when nothing matched, the block's ID for a single
// match, and the IDs joined with "+" for a combination. Matched IDs are
// recorded in block order, so equal match sets always produce the same
// key; the grid and the legend rely on that to agree on colors.
func Category(r fizzbuzz.Result) string {
	switch len(r.MatchedBlockIDs) {
	case 0:
		return NoMatchCategory
	case 1:
		return r.MatchedBlockIDs[0]
	default:
		return strings.Join(r.MatchedBlockIDs, "+")
	}
}
