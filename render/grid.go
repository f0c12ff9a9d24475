package render

import (
	"math"

	"github.com/AlexGitta/Fuzz/fizzbuzz"
)

// Cell is one filled position in the grid.
type Cell struct {
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	Number   int    `json:"number"`
	Label    string `json:"label"`
	Category string `json:"category"`
}

// Grid is the square heatmap layout for a result sequence: Side rows of
// Side columns, filled row-major. Positions past the last result are
// simply absent from Cells.
type Grid struct {
	Side  int    `json:"side"`
	Cells []Cell `json:"cells"`
}

// BuildGrid lays results out in the smallest square that holds them:
// side = ceil(sqrt(count)), cells filled row-major in sequence order.
// Empty input yields an empty grid.
func BuildGrid(results []fizzbuzz.Result) Grid {
	if len(results) == 0 {
		return Grid{}
	}

	side := int(math.Ceil(math.Sqrt(float64(len(results)))))
	cells := make([]Cell, len(results))
	for i, r := range results {
		cells[i] = Cell{
			Row:      i / side,
			Col:      i % side,
			Number:   r.Number,
			Label:    r.Label,
			Category: Category(r),
		}
	}
	return Grid{Side: side, Cells: cells}
}
