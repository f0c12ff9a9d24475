package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AlexGitta/Fuzz/fizzbuzz"
)

func TestCategory(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
		want string
	}{
		{"no match", nil, NoMatchCategory},
		{"single", []string{"fizz"}, "fizz"},
		{"combination", []string{"fizz", "buzz"}, "fizz+buzz"},
		{"triple", []string{"a", "b", "c"}, "a+b+c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Category(fizzbuzz.Result{MatchedBlockIDs: tt.ids}))
		})
	}
}

// Numbers with the same match set must land in the same category no
// matter where they appear in the sequence.
func TestCategoryStable(t *testing.T) {
	byNumber := make(map[int]string)
	for _, r := range evaluate(t, 1, 30, classicBlocks()) {
		byNumber[r.Number] = Category(r)
	}

	assert.Equal(t, byNumber[15], byNumber[30])
	assert.Equal(t, byNumber[3], byNumber[27])
	assert.NotEqual(t, byNumber[3], byNumber[5])
	assert.Equal(t, NoMatchCategory, byNumber[7])
}
