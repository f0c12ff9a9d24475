package workspace

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AlexGitta/Fuzz/fizzbuzz"
)

// Editor-side limits. The engine itself has no size opinions; these keep
// API payloads and rendered legends sane.
const (
	maxNameLength         = 100
	maxWordLength         = 100
	maxBlocksPerWorkspace = 100
)

// ValidationError reports a user-supplied field that was rejected at
// create/edit time. The HTTP layer maps it to a 400 response.
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation returns true if the error is a validation error. Uses
// errors.As to handle wrapped errors.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ValidateWorkspaceName checks the name given to a workspace.
func ValidateWorkspaceName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Reason: "name is required"}
	}
	if len(name) > maxNameLength {
		return &ValidationError{Field: "name", Reason: fmt.Sprintf("name length %d exceeds maximum of %d characters", len(name), maxNameLength)}
	}
	return nil
}

// validateBlockParams checks the editable fields of a block against the
// given type. Property rules mirror fizzbuzz.RuleBlock.Validate; rejecting
// here keeps invalid blocks out of the collection so evaluation never
// encounters them.
func validateBlockParams(t fizzbuzz.BlockType, name, word string, divisor, rangeStart, rangeEnd int) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Reason: "name is required"}
	}
	if len(name) > maxNameLength {
		return &ValidationError{Field: "name", Reason: fmt.Sprintf("name length %d exceeds maximum of %d characters", len(name), maxNameLength)}
	}
	// An empty word is legal: the block still matches and records its ID.
	if len(word) > maxWordLength {
		return &ValidationError{Field: "word", Reason: fmt.Sprintf("word length %d exceeds maximum of %d characters", len(word), maxWordLength)}
	}

	switch t {
	case fizzbuzz.BlockDivisor:
		if divisor <= 0 {
			return &ValidationError{Field: "divisor", Reason: fmt.Sprintf("divisor must be positive, got %d", divisor)}
		}
	case fizzbuzz.BlockRange:
		if rangeStart > rangeEnd {
			return &ValidationError{Field: "range", Reason: fmt.Sprintf("range start %d is greater than range end %d", rangeStart, rangeEnd)}
		}
	case fizzbuzz.BlockPrime, fizzbuzz.BlockFibonacci:
		// No type-specific properties.
	default:
		return &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown block type %q", t)}
	}

	return nil
}
