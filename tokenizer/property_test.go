package tokenizer

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func TestPropertyRoundTrip(t *testing.T) {
	corpus := readTestdata(t, "llamas.txt")

	for _, k := range kinds {
		tok := k.new()
		if err := tok.Train(corpus, 320); err != nil {
			t.Fatal(err)
		}

		t.Run(k.name, rapid.MakeCheck(func(t *rapid.T) {
			text := rapid.String().Draw(t, "text")

			ids, err := tok.Encode(text)
			if err != nil {
				t.Fatal(err)
			}

			for _, id := range ids {
				if _, ok := tok.Vocabulary().Bytes(id); !ok {
					t.Fatalf("encode produced token %d with no vocabulary entry", id)
				}
			}

			got, err := tok.Decode(ids)
			if err != nil {
				t.Fatal(err)
			}

			if got != text {
				t.Fatalf("round trip mismatch: got %q, want %q", got, text)
			}
		}))
	}
}

func TestPropertyTrainDeterministic(t *testing.T) {
	for _, k := range kinds {
		t.Run(k.name, rapid.MakeCheck(func(t *rapid.T) {
			text := rapid.StringMatching(`[ab c\n1]{0,40}`).Draw(t, "text")
			vocabSize := rapid.IntRange(NumBytes, NumBytes+8).Draw(t, "vocabSize")

			a, b := k.new(), k.new()
			errA, errB := a.Train(text, vocabSize), b.Train(text, vocabSize)
			if (errA == nil) != (errB == nil) {
				t.Fatalf("training disagreed: %v vs %v", errA, errB)
			}

			if errA != nil {
				if !errors.Is(errA, ErrInvalidConfiguration) {
					t.Fatalf("unexpected error: %v", errA)
				}
				return
			}

			if a.Vocabulary().Size() != vocabSize {
				t.Fatalf("vocabulary has %d entries, want %d", a.Vocabulary().Size(), vocabSize)
			}

			if !slices.Equal(collectMerges(a.Vocabulary()), collectMerges(b.Vocabulary())) {
				t.Fatalf("merges differ")
			}
		}))
	}
}

func TestPropertyMergeNonOverlapping(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ids := rapid.SliceOfN(rapid.IntRange(0, 3), 0, 32).Draw(t, "ids")
		pair := Pair{rapid.IntRange(0, 3).Draw(t, "left"), rapid.IntRange(0, 3).Draw(t, "right")}
		input := slices.Clone(ids)

		merged := Merge(input, pair, NumBytes)
		if !slices.Equal(ids, input) {
			t.Fatalf("input was modified")
		}

		// expanding the new token again restores the input exactly
		var expanded []int
		for _, id := range merged {
			if id == NumBytes {
				expanded = append(expanded, pair.Left, pair.Right)
				continue
			}
			expanded = append(expanded, id)
		}

		if !slices.Equal(ids, expanded) {
			t.Fatalf("expanded %v, want %v", expanded, ids)
		}

		replaced := len(ids) - len(merged)
		if replaced != strings.Count(string(runes(ids)), string(runes([]int{pair.Left, pair.Right}))) {
			t.Fatalf("replaced %d occurrences of %v in %v", replaced, pair, ids)
		}
	})
}

// runes maps small ids onto letters so strings.Count can count
// non-overlapping occurrences left to right.
func runes(ids []int) []rune {
	r := make([]rune, len(ids))
	for i, id := range ids {
		r[i] = rune('a' + id)
	}

	return r
}

func TestPropertySplitPartitions(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := string(rapid.SliceOf(rapid.Byte()).Draw(t, "text"))

		chunks, err := Split(text)
		if err != nil {
			t.Fatal(err)
		}
		for _, chunk := range chunks {
			if chunk == "" {
				t.Fatalf("empty chunk in %q", chunks)
			}
		}

		if got := strings.Join(chunks, ""); got != text {
			t.Fatalf("chunks %q do not rebuild %q", chunks, text)
		}
	})
}
