package tokenizer

import (
	"fmt"
	"iter"
	"slices"

	"github.com/emirpasic/gods/v2/maps/linkedhashmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/Danpythonman/llm-tokenizer/logutil"
)

// Vocabulary is the state produced by training: the byte expansion of every
// token and the merges in the order they were learned. It is never modified
// after Train returns.
type Vocabulary struct {
	// values[id] is the byte sequence token id expands to. Ids are dense.
	values [][]byte

	// merges maps each learned pair to its token, in training order.
	merges *linkedhashmap.Map[Pair, int]
}

func newVocabulary() *Vocabulary {
	v := &Vocabulary{
		values: make([][]byte, NumBytes, NumBytes*2),
		merges: linkedhashmap.New[Pair, int](),
	}

	for i := range NumBytes {
		v.values[i] = []byte{byte(i)}
	}

	return v
}

// add assigns the next id to pair and records its expansion.
func (v *Vocabulary) add(pair Pair) int {
	id := len(v.values)
	v.values = append(v.values, slices.Concat(v.values[pair.Left], v.values[pair.Right]))
	v.merges.Put(pair, id)
	return id
}

// Size returns the number of tokens, bytes included.
func (v *Vocabulary) Size() int {
	return len(v.values)
}

// NumMerges returns the number of learned merges.
func (v *Vocabulary) NumMerges() int {
	return v.merges.Size()
}

// Bytes returns a copy of the bytes token id expands to.
func (v *Vocabulary) Bytes(id int) ([]byte, bool) {
	if id < 0 || id >= len(v.values) {
		return nil, false
	}

	return slices.Clone(v.values[id]), true
}

// Lookup returns the token a pair merges into.
func (v *Vocabulary) Lookup(pair Pair) (int, bool) {
	return v.merges.Get(pair)
}

// Merges yields every learned pair and its token in training order.
func (v *Vocabulary) Merges() iter.Seq2[Pair, int] {
	return func(yield func(Pair, int) bool) {
		it := v.merges.Iterator()
		for it.Next() {
			if !yield(it.Key(), it.Value()) {
				return
			}
		}
	}
}

// apply replays every merge, in training order, over ids.
func (v *Vocabulary) apply(ids []int) []int {
	for pair, id := range v.Merges() {
		if len(ids) < 2 {
			break
		}

		if contains(ids, pair) {
			ids = Merge(ids, pair, id)
		}
	}

	return ids
}

// decode expands ids to bytes and interprets them as UTF-8. Ill-formed
// sequences are replaced with U+FFFD, one per maximal invalid subpart.
func (v *Vocabulary) decode(ids []int) (string, error) {
	var buf []byte
	for _, id := range ids {
		if id < 0 || id >= len(v.values) {
			return "", &UnknownTokenError{Token: id}
		}

		buf = append(buf, v.values[id]...)
	}

	text, err := unicode.UTF8.NewDecoder().Bytes(buf)
	if err != nil {
		return "", fmt.Errorf("decode utf-8: %w", err)
	}

	return string(text), nil
}

// learner records the merges found during a single Train call.
type learner struct {
	vocab    *Vocabulary
	total    int
	progress func(done, total int)
}

func newLearner(total int, o options) *learner {
	return &learner{
		vocab:    newVocabulary(),
		total:    total,
		progress: o.progress,
	}
}

func (l *learner) learn(pair Pair, count int) int {
	id := l.vocab.add(pair)
	if logutil.TraceEnabled() {
		logutil.Trace("learned merge", "pair", pair, "token", id, "count", count, "bytes", string(l.vocab.values[id]))
	}

	if l.progress != nil {
		l.progress(l.vocab.NumMerges(), l.total)
	}

	return id
}

func (l *learner) exhausted() error {
	return fmt.Errorf("%w: no adjacent pairs left after %d of %d merges", ErrInvalidConfiguration, l.vocab.NumMerges(), l.total)
}
