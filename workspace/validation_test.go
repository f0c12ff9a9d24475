package workspace

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/AlexGitta/Fuzz/fizzbuzz"
)

// TestValidateWorkspaceName verifies the name rules: required, trimmed
// non-empty, at most 100 characters.
func TestValidateWorkspaceName(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		shouldErr bool
	}{
		{"simple", "Playground", false},
		{"single char", "a", false},
		{"max length 100", strings.Repeat("a", 100), false},
		{"too long 101", strings.Repeat("a", 101), true},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"tab and newline", "\t\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWorkspaceName(tt.input)
			if tt.shouldErr && err == nil {
				t.Errorf("Expected error for %s, got nil", tt.name)
			}
			if !tt.shouldErr && err != nil {
				t.Errorf("Expected no error for %s, got: %v", tt.name, err)
			}
		})
	}
}

// TestValidationErrorMessage verifies the "invalid <field>: <reason>"
// format and the field-less fallback.
func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Field: "divisor", Reason: "divisor must be positive, got 0"}
	want := "invalid divisor: divisor must be positive, got 0"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	bare := &ValidationError{Reason: "something went wrong"}
	if bare.Error() != "something went wrong" {
		t.Errorf("Error() = %q, want bare reason", bare.Error())
	}
}

// TestIsValidation verifies detection of validation errors, including
// wrapped ones.
func TestIsValidation(t *testing.T) {
	ve := &ValidationError{Field: "name", Reason: "name is required"}

	if !IsValidation(ve) {
		t.Error("Expected IsValidation to detect a direct validation error")
	}
	if !IsValidation(fmt.Errorf("failed to add block: %w", ve)) {
		t.Error("Expected IsValidation to detect a wrapped validation error")
	}
	if IsValidation(errors.New("plain error")) {
		t.Error("Expected IsValidation to reject a plain error")
	}
	if IsValidation(nil) {
		t.Error("Expected IsValidation to reject nil")
	}
}

// TestValidateBlockParams verifies the per-type property rules.
func TestValidateBlockParams(t *testing.T) {
	tests := []struct {
		name       string
		blockType  fizzbuzz.BlockType
		blockName  string
		word       string
		divisor    int
		rangeStart int
		rangeEnd   int
		shouldErr  bool
	}{
		{"valid divisor", fizzbuzz.BlockDivisor, "Fizz", "Fizz", 3, 0, 0, false},
		{"divisor zero", fizzbuzz.BlockDivisor, "Fizz", "Fizz", 0, 0, 0, true},
		{"divisor negative", fizzbuzz.BlockDivisor, "Fizz", "Fizz", -1, 0, 0, true},
		{"valid range", fizzbuzz.BlockRange, "Teens", "Teen", 0, 13, 19, false},
		{"single point range", fizzbuzz.BlockRange, "Spot", "Spot", 0, 7, 7, false},
		{"negative range", fizzbuzz.BlockRange, "Deep", "Deep", 0, -10, -5, false},
		{"inverted range", fizzbuzz.BlockRange, "Teens", "Teen", 0, 19, 13, true},
		{"prime ignores properties", fizzbuzz.BlockPrime, "Prime", "Prime", 0, 0, 0, false},
		{"fibonacci ignores properties", fizzbuzz.BlockFibonacci, "Fib", "Fib", 0, 0, 0, false},
		{"empty word allowed", fizzbuzz.BlockPrime, "Silent", "", 0, 0, 0, false},
		{"empty name", fizzbuzz.BlockPrime, "", "Prime", 0, 0, 0, true},
		{"unknown type", fizzbuzz.BlockType("modulo"), "X", "X", 0, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateBlockParams(tt.blockType, tt.blockName, tt.word, tt.divisor, tt.rangeStart, tt.rangeEnd)
			if tt.shouldErr && err == nil {
				t.Errorf("Expected error for %s, got nil", tt.name)
			}
			if !tt.shouldErr && err != nil {
				t.Errorf("Expected no error for %s, got: %v", tt.name, err)
			}
			if err != nil && !IsValidation(err) {
				t.Errorf("Expected a validation error, got %T: %v", err, err)
			}
		})
	}
}

// TestValidateBlockParamsMentionsField verifies that the failing field is
// named in the message so API clients can surface it.
func TestValidateBlockParamsMentionsField(t *testing.T) {
	err := validateBlockParams(fizzbuzz.BlockDivisor, "Fizz", "Fizz", 0, 0, 0)
	if err == nil {
		t.Fatal("Expected error for zero divisor, got nil")
	}
	if !strings.Contains(err.Error(), "divisor") {
		t.Errorf("Expected error to mention 'divisor', got: %v", err)
	}

	err = validateBlockParams(fizzbuzz.BlockRange, "Teens", "Teen", 0, 19, 13)
	if err == nil {
		t.Fatal("Expected error for inverted range, got nil")
	}
	if !strings.Contains(err.Error(), "range") {
		t.Errorf("Expected error to mention 'range', got: %v", err)
	}
}
