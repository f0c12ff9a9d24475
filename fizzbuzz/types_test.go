package fizzbuzz

import "testing"

func TestParseBlockType(t *testing.T) {
	testCases := []struct {
		input   string
		want    BlockType
		wantErr bool
	}{
		{"divisor", BlockDivisor, false},
		{"prime", BlockPrime, false},
		{"fibonacci", BlockFibonacci, false},
		{"range", BlockRange, false},
		{"", "", true},
		{"Divisor", "", true},
		{"modulo", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseBlockType(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseBlockType(%q) should return error", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseBlockType(%q) failed: %v", tc.input, err)
			}
			if got != tc.want {
				t.Errorf("ParseBlockType(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestRuleBlockValidate(t *testing.T) {
	testCases := []struct {
		name    string
		block   RuleBlock
		wantErr bool
	}{
		{"valid divisor", RuleBlock{ID: "b1", Type: BlockDivisor, Divisor: 3}, false},
		{"zero divisor", RuleBlock{ID: "b2", Type: BlockDivisor, Divisor: 0}, true},
		{"negative divisor", RuleBlock{ID: "b3", Type: BlockDivisor, Divisor: -5}, true},
		{"valid range", RuleBlock{ID: "b4", Type: BlockRange, RangeStart: 1, RangeEnd: 10}, false},
		{"single point range", RuleBlock{ID: "b5", Type: BlockRange, RangeStart: 7, RangeEnd: 7}, false},
		{"inverted range", RuleBlock{ID: "b6", Type: BlockRange, RangeStart: 10, RangeEnd: 1}, true},
		{"negative range bounds", RuleBlock{ID: "b7", Type: BlockRange, RangeStart: -10, RangeEnd: -2}, false},
		{"prime", RuleBlock{ID: "b8", Type: BlockPrime}, false},
		{"fibonacci", RuleBlock{ID: "b9", Type: BlockFibonacci}, false},
		{"unknown type", RuleBlock{ID: "b10", Type: "modulo"}, true},
		{"empty type", RuleBlock{ID: "b11"}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.block.Validate()
			if tc.wantErr {
				if err == nil {
					t.Fatal("Validate() should return error")
				}
				if !IsInvalidBlock(err) {
					t.Errorf("Validate() error should be an InvalidBlockError, got %T", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() failed: %v", err)
			}
		})
	}
}
