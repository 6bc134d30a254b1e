package tokenizer

import (
	"fmt"
	"iter"
)

// Pair is two adjacent tokens. Order matters: {a, b} and {b, a} are different pairs.
type Pair struct {
	Left, Right int
}

func (p Pair) String() string {
	return fmt.Sprintf("(%d, %d)", p.Left, p.Right)
}

// PairCounts counts adjacent pairs across one or more token sequences.
// Pairs that never occurred are absent. Iteration follows the order in
// which pairs were first seen, which is also the tie-break order for Top.
type PairCounts struct {
	counts map[Pair]int
	seen   []Pair
}

func NewPairCounts() *PairCounts {
	return &PairCounts{counts: make(map[Pair]int)}
}

// CountPairs counts every adjacent pair in ids.
func CountPairs(ids []int) *PairCounts {
	return CountPairsInto(ids, nil)
}

// CountPairsInto adds the adjacent pairs of ids to counts and returns it,
// allocating a fresh PairCounts when counts is nil. This lets callers total
// many sequences without joining them, so no pair ever spans two of them.
func CountPairsInto(ids []int, counts *PairCounts) *PairCounts {
	if counts == nil {
		counts = NewPairCounts()
	}

	for i := 0; i+1 < len(ids); i++ {
		counts.add(Pair{ids[i], ids[i+1]})
	}

	return counts
}

func (c *PairCounts) add(p Pair) {
	n, ok := c.counts[p]
	if !ok {
		c.seen = append(c.seen, p)
	}
	c.counts[p] = n + 1
}

// Count returns how often p occurred, zero if it never did.
func (c *PairCounts) Count(p Pair) int {
	return c.counts[p]
}

// Len returns the number of distinct pairs.
func (c *PairCounts) Len() int {
	return len(c.seen)
}

// All yields every pair and its count in first-seen order.
func (c *PairCounts) All() iter.Seq2[Pair, int] {
	return func(yield func(Pair, int) bool) {
		for _, p := range c.seen {
			if !yield(p, c.counts[p]) {
				return
			}
		}
	}
}

// Top returns the most frequent pair. Among pairs with the same count the
// one seen first wins. ok is false when there are no pairs at all.
func (c *PairCounts) Top() (top Pair, count int, ok bool) {
	for _, p := range c.seen {
		if n := c.counts[p]; n > count {
			top, count, ok = p, n, true
		}
	}

	return top, count, ok
}

// Merge returns a copy of ids where every occurrence of pair is replaced by
// token. Matching is greedy and left to right: once two elements are
// consumed scanning resumes after them, so overlapping candidates are never
// merged twice. ids is never modified.
func Merge(ids []int, pair Pair, token int) []int {
	merged := make([]int, 0, len(ids))
	for i := 0; i < len(ids); i++ {
		if i+1 < len(ids) && ids[i] == pair.Left && ids[i+1] == pair.Right {
			merged = append(merged, token)
			i++
			continue
		}

		merged = append(merged, ids[i])
	}

	return merged
}

// contains reports whether pair occurs anywhere in ids.
func contains(ids []int, pair Pair) bool {
	for i := 0; i+1 < len(ids); i++ {
		if ids[i] == pair.Left && ids[i+1] == pair.Right {
			return true
		}
	}

	return false
}

// bytesToIDs maps raw bytes onto the first 256 token ids.
func bytesToIDs(b []byte) []int {
	ids := make([]int, len(b))
	for i, c := range b {
		ids[i] = int(c)
	}

	return ids
}
