package tokenizer

import (
	"log/slog"
)

// Basic runs byte-pair encoding over the raw UTF-8 bytes of its input, so
// merges may span words, digits and whitespace alike.
type Basic struct {
	opts  options
	vocab *Vocabulary
}

func NewBasic(opts ...Option) *Basic {
	return &Basic{opts: newOptions(opts)}
}

// Train learns vocabSize-256 merges from text, replacing any earlier
// training. On error the previous state is kept.
func (t *Basic) Train(text string, vocabSize int) error {
	n, err := numMerges(vocabSize)
	if err != nil {
		return err
	}

	ids := bytesToIDs([]byte(text))
	l := newLearner(n, t.opts)
	for range n {
		pair, count, ok := CountPairs(ids).Top()
		if !ok {
			return l.exhausted()
		}

		ids = Merge(ids, pair, l.learn(pair, count))
	}

	slog.Debug("trained tokenizer", "kind", KindBasic, "bytes", len(text), "merges", n, "tokens", len(ids), "compression", ratio(len(text), len(ids)))
	t.vocab = l.vocab
	return nil
}

func (t *Basic) Encode(text string) ([]int, error) {
	if t.vocab == nil {
		return nil, ErrNotTrained
	}

	return t.vocab.apply(bytesToIDs([]byte(text))), nil
}

func (t *Basic) Decode(ids []int) (string, error) {
	if t.vocab == nil {
		return "", ErrNotTrained
	}

	return t.vocab.decode(ids)
}

// Vocabulary returns the trained state, or nil before the first Train.
func (t *Basic) Vocabulary() *Vocabulary {
	return t.vocab
}

func ratio(bytes, tokens int) float64 {
	if tokens == 0 {
		return 0
	}

	return float64(bytes) / float64(tokens)
}
