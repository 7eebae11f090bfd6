package pair

import "fmt"

// Pair is the canonical representation of an unordered user pair.
// Low < High always holds, so every (A,B) and (B,A) map to the same key.
// Match rows and lookups must go through this type instead of computing
// min/max at call sites.
type Pair struct {
	Low  uint64
	High uint64
}

// New builds the canonical pair for two user IDs.
// Panics if a == b: a user can never pair with themselves, and callers
// are expected to validate self-targeting before reaching pair logic.
func New(a, b uint64) Pair {
	if a == b {
		panic(fmt.Sprintf("pair: identical user ids %d", a))
	}
	if a < b {
		return Pair{Low: a, High: b}
	}
	return Pair{Low: b, High: a}
}

// Contains reports whether id is one of the pair's users.
func (p Pair) Contains(id uint64) bool {
	return p.Low == id || p.High == id
}

// Other returns the counterpart of id within the pair.
// Returns 0 if id is not part of the pair.
func (p Pair) Other(id uint64) uint64 {
	switch id {
	case p.Low:
		return p.High
	case p.High:
		return p.Low
	default:
		return 0
	}
}

// String formats the pair for logs and event payloads.
func (p Pair) String() string {
	return fmt.Sprintf("%d:%d", p.Low, p.High)
}
