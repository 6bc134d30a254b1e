package tokenizer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readTestdata(tb testing.TB, name string) string {
	tb.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		tb.Fatal(err)
	}

	return string(b)
}

type trainable interface {
	Tokenizer
	Vocabulary() *Vocabulary
}

var kinds = []struct {
	name string
	new  func(...Option) trainable
}{
	{KindBasic, func(opts ...Option) trainable { return NewBasic(opts...) }},
	{KindRegex, func(opts ...Option) trainable { return NewRegex(opts...) }},
}

func TestNew(t *testing.T) {
	basic, err := New(KindBasic)
	require.NoError(t, err)
	assert.IsType(t, &Basic{}, basic)

	regex, err := New(KindRegex)
	require.NoError(t, err)
	assert.IsType(t, &Regex{}, regex)

	_, err = New("sentencepiece")
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestEncodeDecode(t *testing.T) {
	corpus := readTestdata(t, "llamas.txt")
	text := readTestdata(t, "rivers.txt")

	for _, k := range kinds {
		t.Run(k.name, func(t *testing.T) {
			tok := k.new()
			require.NoError(t, tok.Train(corpus, 400))

			ids, err := tok.Encode(text)
			require.NoError(t, err)
			assert.Less(t, len(ids), len(text))

			decoded, err := tok.Decode(ids)
			require.NoError(t, err)
			assert.Equal(t, text, decoded)

			ids, err = tok.Encode(corpus)
			require.NoError(t, err)
			decoded, err = tok.Decode(ids)
			require.NoError(t, err)
			assert.Equal(t, corpus, decoded)
		})
	}
}

func TestTrainVocabularySize(t *testing.T) {
	corpus := readTestdata(t, "llamas.txt")

	for _, k := range kinds {
		t.Run(k.name, func(t *testing.T) {
			tok := k.new()
			require.NoError(t, tok.Train(corpus, 300))

			vocab := tok.Vocabulary()
			require.NotNil(t, vocab)
			assert.Equal(t, 300, vocab.Size())
			assert.Equal(t, 44, vocab.NumMerges())

			want := NumBytes
			for pair, id := range vocab.Merges() {
				assert.Equal(t, want, id, "merge ids must be dense and increasing")
				want++

				left, _ := vocab.Bytes(pair.Left)
				right, _ := vocab.Bytes(pair.Right)
				b, ok := vocab.Bytes(id)
				require.True(t, ok)
				assert.Equal(t, string(left)+string(right), string(b))

				got, ok := vocab.Lookup(pair)
				require.True(t, ok)
				assert.Equal(t, id, got)
			}
			assert.Equal(t, 300, want)

			for id := range NumBytes {
				b, ok := vocab.Bytes(id)
				require.True(t, ok)
				assert.Equal(t, []byte{byte(id)}, b)
			}
		})
	}
}

func TestTrainZeroMerges(t *testing.T) {
	for _, k := range kinds {
		t.Run(k.name, func(t *testing.T) {
			tok := k.new()
			require.NoError(t, tok.Train("héllo", NumBytes))

			ids, err := tok.Encode("héllo")
			require.NoError(t, err)
			assert.Equal(t, []int{'h', 0xc3, 0xa9, 'l', 'l', 'o'}, ids)
			assert.Equal(t, NumBytes, tok.Vocabulary().Size())
		})
	}
}

func TestTrainDeterministic(t *testing.T) {
	corpus := readTestdata(t, "llamas.txt")

	for _, k := range kinds {
		t.Run(k.name, func(t *testing.T) {
			a, b := k.new(), k.new()
			require.NoError(t, a.Train(corpus, 350))
			require.NoError(t, b.Train(corpus, 350))

			assert.Equal(t, collectMerges(a.Vocabulary()), collectMerges(b.Vocabulary()))
			assert.Equal(t, a.Vocabulary().values, b.Vocabulary().values)
		})
	}
}

func collectMerges(v *Vocabulary) []learnedMerge {
	var merges []learnedMerge
	for pair, id := range v.Merges() {
		merges = append(merges, learnedMerge{pair, id})
	}

	return merges
}

type learnedMerge struct {
	Pair  Pair
	Token int
}

func TestTrainErrors(t *testing.T) {
	for _, k := range kinds {
		t.Run(k.name, func(t *testing.T) {
			t.Run("vocab size below alphabet", func(t *testing.T) {
				err := k.new().Train("hello", 255)
				assert.ErrorIs(t, err, ErrInvalidConfiguration)
			})

			t.Run("corpus exhausted", func(t *testing.T) {
				err := k.new().Train("ab", 260)
				assert.ErrorIs(t, err, ErrInvalidConfiguration)
				assert.ErrorContains(t, err, "after 1 of 4 merges")
			})

			t.Run("empty corpus", func(t *testing.T) {
				err := k.new().Train("", 257)
				assert.ErrorIs(t, err, ErrInvalidConfiguration)
			})

			t.Run("failure keeps previous training", func(t *testing.T) {
				tok := k.new()
				require.NoError(t, tok.Train("aaab", 257))
				before := tok.Vocabulary()

				require.Error(t, tok.Train("a", 300))
				assert.Same(t, before, tok.Vocabulary())
			})

			t.Run("retraining replaces state", func(t *testing.T) {
				tok := k.new()
				require.NoError(t, tok.Train("aaab", 257))
				require.NoError(t, tok.Train("xyxyxy", 257))

				ids, err := tok.Encode("aaab")
				require.NoError(t, err)
				assert.Equal(t, []int{'a', 'a', 'a', 'b'}, ids)
			})
		})
	}
}

func TestUntrained(t *testing.T) {
	for _, k := range kinds {
		t.Run(k.name, func(t *testing.T) {
			tok := k.new()
			assert.Nil(t, tok.Vocabulary())

			_, err := tok.Encode("hello")
			assert.ErrorIs(t, err, ErrNotTrained)

			_, err = tok.Decode([]int{104})
			assert.ErrorIs(t, err, ErrNotTrained)
		})
	}
}

func TestDecodeUnknownToken(t *testing.T) {
	for _, k := range kinds {
		t.Run(k.name, func(t *testing.T) {
			tok := k.new()
			require.NoError(t, tok.Train("aaab", 257))

			for _, id := range []int{257, 1000, -1} {
				_, err := tok.Decode([]int{97, id})
				assert.ErrorIs(t, err, ErrUnknownToken)

				var unknown *UnknownTokenError
				require.True(t, errors.As(err, &unknown))
				assert.Equal(t, id, unknown.Token)
			}
		})
	}
}

func TestDecodeInvalidUTF8(t *testing.T) {
	cases := []struct {
		name string
		ids  []int
		want string
	}{
		{"lone continuation byte", []int{'a', 0x80, 'b'}, "a�b"},
		{"invalid start byte", []int{0xff}, "�"},
		{"two invalid bytes", []int{0xff, 0xfe}, "��"},
		{"truncated sequence is one replacement", []int{0xe2, 0x82}, "�"},
		{"valid multibyte", []int{0xe2, 0x82, 0xac}, "€"},
	}

	tok := NewBasic()
	require.NoError(t, tok.Train("aaab", 257))

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tok.Decode(tt.ids)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWithProgress(t *testing.T) {
	for _, k := range kinds {
		t.Run(k.name, func(t *testing.T) {
			var done []int
			tok := k.new(WithProgress(func(n, total int) {
				assert.Equal(t, 5, total)
				done = append(done, n)
			}))

			require.NoError(t, tok.Train(strings.Repeat("hello world ", 4), 261))
			assert.Equal(t, []int{1, 2, 3, 4, 5}, done)
		})
	}
}

func BenchmarkTrain(b *testing.B) {
	corpus := readTestdata(b, "llamas.txt")

	for _, k := range kinds {
		b.Run(k.name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if err := k.new().Train(corpus, 320); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkEncode(b *testing.B) {
	corpus := readTestdata(b, "llamas.txt")
	text := readTestdata(b, "rivers.txt")

	for _, k := range kinds {
		b.Run(k.name, func(b *testing.B) {
			tok := k.new()
			if err := tok.Train(corpus, 400); err != nil {
				b.Fatal(err)
			}

			b.SetBytes(int64(len(text)))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := tok.Encode(text); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
