package fizzbuzz

import (
	"errors"
	"fmt"
)

// InvalidRangeError reports a run request whose start exceeds its end.
// The evaluator rejects the range before doing any work, so no partial
// output exists when this error is returned.
type InvalidRangeError struct {
	Start int
	End   int
}

// Error implements the error interface.
func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range: start %d is greater than end %d", e.Start, e.End)
}

// NewInvalidRangeError creates an InvalidRangeError for the given bounds.
func NewInvalidRangeError(start, end int) *InvalidRangeError {
	return &InvalidRangeError{Start: start, End: end}
}

// IsInvalidRange returns true if the error is an invalid-range error.
// Uses errors.As to handle wrapped errors.
func IsInvalidRange(err error) bool {
	var re *InvalidRangeError
	return errors.As(err, &re)
}

// InvalidBlockError reports a block that reached evaluation with an
// inconsistent property: a non-positive divisor, an inverted range, or an
// unknown type. The editing layer validates at create/edit time, so seeing
// this error means a caller bypassed validation.
type InvalidBlockError struct {
	BlockID string
	Reason  string
}

// Error implements the error interface.
func (e *InvalidBlockError) Error() string {
	if e.BlockID == "" {
		return fmt.Sprintf("invalid block: %s", e.Reason)
	}
	return fmt.Sprintf("invalid block %s: %s", e.BlockID, e.Reason)
}

// NewInvalidBlockError creates an InvalidBlockError for the given block.
func NewInvalidBlockError(blockID, reason string) *InvalidBlockError {
	return &InvalidBlockError{BlockID: blockID, Reason: reason}
}

// IsInvalidBlock returns true if the error is an invalid-block error.
// Uses errors.As to handle wrapped errors.
func IsInvalidBlock(err error) bool {
	var be *InvalidBlockError
	return errors.As(err, &be)
}
