package render

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildGridEmpty(t *testing.T) {
	g := BuildGrid(nil)
	assert.Equal(t, 0, g.Side)
	assert.Empty(t, g.Cells)
}

// TestBuildGridSide checks side = ceil(sqrt(count)) across the counts
// where the square grows.
func TestBuildGridSide(t *testing.T) {
	tests := []struct {
		count int
		side  int
	}{
		{1, 1},
		{2, 2},
		{4, 2},
		{5, 3},
		{9, 3},
		{10, 4},
		{16, 4},
		{17, 5},
		{100, 10},
	}

	for _, tt := range tests {
		g := BuildGrid(evaluate(t, 1, tt.count, classicBlocks()))
		assert.Equal(t, tt.side, g.Side, "count %d", tt.count)
		assert.Len(t, g.Cells, tt.count)
	}
}

func TestBuildGridRowMajor(t *testing.T) {
	g := BuildGrid(evaluate(t, 1, 5, classicBlocks()))
	require.Equal(t, 3, g.Side)

	var positions [][2]int
	for _, c := range g.Cells {
		positions = append(positions, [2]int{c.Row, c.Col})
	}
	assert.Equal(t, [][2]int{{0, 0}, {0, 1}, {0, 2}, {1, 0}, {1, 1}}, positions)
}

func TestBuildGridCellContent(t *testing.T) {
	g := BuildGrid(evaluate(t, 15, 15, classicBlocks()))
	require.Len(t, g.Cells, 1)

	c := g.Cells[0]
	assert.Equal(t, 15, c.Number)
	assert.Equal(t, "FizzBuzz", c.Label)
	assert.Equal(t, "fizz+buzz", c.Category)
}

func TestBuildGridClassicGolden(t *testing.T) {
	g := BuildGrid(evaluate(t, 1, 9, classicBlocks()))

	data, err := json.MarshalIndent(g, "", "  ")
	require.NoError(t, err)

	newGoldie(t).Assert(t, "classic_grid", append(data, '\n'))
}
