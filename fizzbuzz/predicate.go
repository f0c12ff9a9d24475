package fizzbuzz

// IsPrime reports whether n is prime by trial division. Numbers below 2,
// including all negatives, are never prime. This is the reference
// implementation the SequenceCache must agree with.
func IsPrime(n int) bool {
	if n < 2 {
		return false
	}
	if n < 4 {
		return true
	}
	if n%2 == 0 {
		return false
	}
	for i := 3; i*i <= n; i += 2 {
		if n%i == 0 {
			return false
		}
	}
	return true
}

// IsFibonacci reports whether n appears in the sequence 0, 1, 1, 2, 3, 5, ...
// Zero and the first 1 are members; the duplicate 1 counts once. Negative
// numbers are never members.
func IsFibonacci(n int) bool {
	if n < 0 {
		return false
	}
	a, b := 0, 1
	for a < n {
		a, b = b, a+b
	}
	return a == n
}

// Matches reports whether the block's predicate holds for n, dispatching
// on the block type. A nil cache falls back to direct computation; the
// result is identical either way. Unknown types never match, but
// Validate rejects them before a run begins.
func (b RuleBlock) Matches(n int, c *SequenceCache) bool {
	switch b.Type {
	case BlockDivisor:
		// 0 matches every positive divisor: 0 mod d == 0. Negative n
		// matches whenever the remainder is zero, e.g. -6 mod 3.
		return b.Divisor > 0 && n%b.Divisor == 0
	case BlockRange:
		return n >= b.RangeStart && n <= b.RangeEnd
	case BlockPrime:
		if c != nil {
			return c.IsPrime(n)
		}
		return IsPrime(n)
	case BlockFibonacci:
		if c != nil {
			return c.IsFibonacci(n)
		}
		return IsFibonacci(n)
	default:
		return false
	}
}
