package tokenizer

import (
	"fmt"
	"iter"
	"log/slog"

	"github.com/dlclark/regexp2"
)

// SplitPattern is the GPT-4 chunk grammar:
//
//	'(?i:[sdmt]|ll|ve|re)|[^\r\n\p{L}\p{N}]?+\p{L}+|\p{N}{1,3}| ?[^\s\p{L}\p{N}]++[\r\n]*|\s*[\r\n]|\s+(?!\S)|\s+
//
// regexp2 has no possessive quantifiers so X?+ and X++ are written as the
// equivalent atomic groups (?>X?) and (?>X+).
const SplitPattern = `'(?i:[sdmt]|ll|ve|re)|(?>[^\r\n\p{L}\p{N}]?)\p{L}+|\p{N}{1,3}| ?(?>[^\s\p{L}\p{N}]+)[\r\n]*|\s*[\r\n]|\s+(?!\S)|\s+`

var splitRegexp = regexp2.MustCompile(SplitPattern, regexp2.None)

// Split cuts text into chunks using SplitPattern. The chunks concatenate to
// exactly text, including any bytes that are not valid UTF-8.
func Split(text string) ([]string, error) {
	var chunks []string
	for chunk, err := range split(splitRegexp, text) {
		if err != nil {
			return nil, err
		}

		chunks = append(chunks, chunk)
	}

	return chunks, nil
}

// split yields the matches of re in s along with the gaps between them. A
// failed match, which regexp2 only reports once re.MatchTimeout expires,
// ends the sequence with the error instead of a trailing gap.
func split(re *regexp2.Regexp, s string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		// offsets[i] is the byte offset of rune i; ranging over a string
		// yields one rune per invalid byte, same as []rune(s).
		offsets := make([]int, 0, len(s)+1)
		for i := range s {
			offsets = append(offsets, i)
		}
		offsets = append(offsets, len(s))

		var offset int
		m, err := re.FindRunesMatch([]rune(s))
		for ; m != nil; m, err = re.FindNextMatch(m) {
			start, end := offsets[m.Index], offsets[m.Index+m.Length]
			if start > offset {
				if !yield(s[offset:start], nil) {
					return
				}
			}

			if end > start {
				if !yield(s[start:end], nil) {
					return
				}
			}

			offset = end
		}

		if err != nil {
			yield("", fmt.Errorf("split at byte %d: %w", offset, err))
			return
		}

		if offset < len(s) {
			yield(s[offset:], nil)
		}
	}
}

// Regex runs byte-pair encoding inside the chunks produced by Split. Merges
// never cross a chunk boundary, during training or encoding.
type Regex struct {
	opts  options
	vocab *Vocabulary
}

func NewRegex(opts ...Option) *Regex {
	return &Regex{opts: newOptions(opts)}
}

// Train learns vocabSize-256 merges from text, replacing any earlier
// training. Each round counts pairs across all chunks, then merges the
// single most frequent pair in every chunk that contains it.
func (t *Regex) Train(text string, vocabSize int) error {
	n, err := numMerges(vocabSize)
	if err != nil {
		return err
	}

	var chunks [][]int
	for chunk, err := range split(splitRegexp, text) {
		if err != nil {
			return err
		}

		chunks = append(chunks, bytesToIDs([]byte(chunk)))
	}

	l := newLearner(n, t.opts)
	for range n {
		counts := NewPairCounts()
		for _, chunk := range chunks {
			counts = CountPairsInto(chunk, counts)
		}

		pair, count, ok := counts.Top()
		if !ok {
			return l.exhausted()
		}

		id := l.learn(pair, count)
		for i, chunk := range chunks {
			if contains(chunk, pair) {
				chunks[i] = Merge(chunk, pair, id)
			}
		}
	}

	var tokens int
	for _, chunk := range chunks {
		tokens += len(chunk)
	}

	slog.Debug("trained tokenizer", "kind", KindRegex, "bytes", len(text), "chunks", len(chunks), "merges", n, "tokens", tokens, "compression", ratio(len(text), tokens))
	t.vocab = l.vocab
	return nil
}

// Encode encodes each chunk on its own and concatenates the results.
func (t *Regex) Encode(text string) ([]int, error) {
	if t.vocab == nil {
		return nil, ErrNotTrained
	}

	var ids []int
	for chunk, err := range split(splitRegexp, text) {
		if err != nil {
			return nil, err
		}

		ids = append(ids, t.vocab.apply(bytesToIDs([]byte(chunk)))...)
	}

	return ids, nil
}

func (t *Regex) Decode(ids []int) (string, error) {
	if t.vocab == nil {
		return "", ErrNotTrained
	}

	return t.vocab.decode(ids)
}

// Vocabulary returns the trained state, or nil before the first Train.
func (t *Regex) Vocabulary() *Vocabulary {
	return t.vocab
}
