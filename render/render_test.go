package render

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/AlexGitta/Fuzz/fizzbuzz"
)

// classicBlocks is the default Fizz/Buzz pair with fixed IDs so golden
// files stay stable across runs.
func classicBlocks() []fizzbuzz.RuleBlock {
	return []fizzbuzz.RuleBlock{
		{ID: "fizz", Type: fizzbuzz.BlockDivisor, Name: "Fizz", Word: "Fizz", Divisor: 3, Order: 0},
		{ID: "buzz", Type: fizzbuzz.BlockDivisor, Name: "Buzz", Word: "Buzz", Divisor: 5, Order: 1},
	}
}

func evaluate(t *testing.T, start, end int, blocks []fizzbuzz.RuleBlock) []fizzbuzz.Result {
	t.Helper()
	results, err := fizzbuzz.Evaluate(start, end, blocks)
	require.NoError(t, err)
	return results
}

func newGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}
