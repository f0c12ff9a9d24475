package fizzbuzz

// maxSieveEnd bounds the range end for which a full sieve is allocated.
// Beyond it, memoized trial division keeps memory proportional to the
// number of distinct queries instead of the range end.
const maxSieveEnd = 1 << 22

// SequenceCache amortizes the expensive predicates (primality, Fibonacci
// membership) across one evaluation run. It is built once per run from the
// run's end bound and the block list, prepares only the structures that
// the present block types need, and is discarded when the run completes,
// so repeated runs with different ranges never see stale bounds.
//
// A cache is not safe for concurrent use; a run is single-threaded.
type SequenceCache struct {
	end       int
	sieve     []bool       // sieve[i] == true means i is prime; nil when unused
	primeMemo map[int]bool // memoized trial division; nil when unused
	fibs      map[int]bool // Fibonacci members up to end; nil when unused
}

// NewSequenceCache prepares the support structures required by the given
// blocks for a run bounded by end.
func NewSequenceCache(end int, blocks []RuleBlock) *SequenceCache {
	c := &SequenceCache{end: end}
	for _, b := range blocks {
		switch b.Type {
		case BlockPrime:
			if c.sieve == nil && c.primeMemo == nil {
				c.initPrimes()
			}
		case BlockFibonacci:
			if c.fibs == nil {
				c.initFibonacci()
			}
		}
	}
	return c
}

func (c *SequenceCache) initPrimes() {
	if c.end < 2 {
		// Nothing in range can be prime; IsPrime answers without support.
		return
	}
	if c.end <= maxSieveEnd {
		c.sieve = sievePrimes(c.end)
		return
	}
	c.primeMemo = make(map[int]bool)
}

func (c *SequenceCache) initFibonacci() {
	c.fibs = make(map[int]bool)
	a, b := 0, 1
	for a <= c.end {
		c.fibs[a] = true
		if b < a {
			// Addition overflowed; the sequence is exhausted.
			break
		}
		a, b = b, a+b
	}
}

// IsPrime answers identically to the package-level IsPrime for every n,
// using the sieve or memo table when one was built for this run.
func (c *SequenceCache) IsPrime(n int) bool {
	if n < 2 {
		return false
	}
	if c.sieve != nil && n < len(c.sieve) {
		return c.sieve[n]
	}
	if c.primeMemo != nil {
		if v, ok := c.primeMemo[n]; ok {
			return v
		}
		v := IsPrime(n)
		c.primeMemo[n] = v
		return v
	}
	return IsPrime(n)
}

// IsFibonacci answers identically to the package-level IsFibonacci for
// every n, using the membership set when one was built for this run.
func (c *SequenceCache) IsFibonacci(n int) bool {
	if c.fibs != nil && n <= c.end {
		return c.fibs[n]
	}
	return IsFibonacci(n)
}

// sievePrimes returns a sieve of Eratosthenes where sieve[i] reports
// whether i is prime, for 0 <= i <= end.
func sievePrimes(end int) []bool {
	sieve := make([]bool, end+1)
	for i := 2; i <= end; i++ {
		sieve[i] = true
	}
	for i := 2; i*i <= end; i++ {
		if !sieve[i] {
			continue
		}
		for j := i * i; j <= end; j += i {
			sieve[j] = false
		}
	}
	return sieve
}
