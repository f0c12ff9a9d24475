// Package render turns evaluation results into presentation data: text
// lines, the square heatmap grid, and a deterministic color legend. It
// produces layout and color data for a consumer to draw, never pixels.
package render

import (
	"fmt"
	"io"

	"github.com/AlexGitta/Fuzz/fizzbuzz"
)

// Line formats a single result as "<number>: <label>".
func Line(r fizzbuzz.Result) string {
	return fmt.Sprintf("%d: %s", r.Number, r.Label)
}

// Lines formats every result, one string per result in sequence order.
func Lines(results []fizzbuzz.Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = Line(r)
	}
	return out
}

// Write streams the text rendering to w, one line per result.
func Write(w io.Writer, results []fizzbuzz.Result) error {
	for _, r := range results {
		if _, err := io.WriteString(w, Line(r)+"\n"); err != nil {
			return fmt.Errorf("failed to write result line for %d: %w", r.Number, err)
		}
	}
	return nil
}
