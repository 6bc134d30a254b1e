// Package tokenizer learns byte-pair encoding vocabularies from raw text and
// uses them to map text to token ids and back.
//
// Ids 0 through 255 are the raw byte values. Every merge learned during
// training is assigned the next id, starting at 256.
package tokenizer

import (
	"errors"
	"fmt"
)

// NumBytes is the size of the base alphabet: one token per byte value.
const NumBytes = 256

var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrNotTrained           = errors.New("tokenizer has not been trained")
	ErrUnknownToken         = errors.New("unknown token")
)

// UnknownTokenError is returned by Decode for an id with no vocabulary entry.
type UnknownTokenError struct {
	Token int
}

func (e *UnknownTokenError) Error() string {
	return fmt.Sprintf("unknown token %d", e.Token)
}

func (e *UnknownTokenError) Is(target error) bool {
	return target == ErrUnknownToken
}

// Tokenizer is implemented by every tokenizer in this package.
//
// Train replaces any previously trained state. Encode and Decode only read
// that state, so they may run concurrently with each other but not with Train.
type Tokenizer interface {
	Train(text string, vocabSize int) error
	Encode(text string) ([]int, error)
	Decode(ids []int) (string, error)
}

var (
	_ Tokenizer = (*Basic)(nil)
	_ Tokenizer = (*Regex)(nil)
)

const (
	KindBasic = "basic"
	KindRegex = "regex"
)

// New returns an untrained tokenizer by name.
func New(kind string, opts ...Option) (Tokenizer, error) {
	switch kind {
	case KindBasic:
		return NewBasic(opts...), nil
	case KindRegex:
		return NewRegex(opts...), nil
	default:
		return nil, fmt.Errorf("%w: unsupported tokenizer %q", ErrInvalidConfiguration, kind)
	}
}

type options struct {
	progress func(done, total int)
}

type Option func(*options)

// WithProgress calls fn after every merge learned by Train.
func WithProgress(fn func(done, total int)) Option {
	return func(o *options) {
		o.progress = fn
	}
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

func numMerges(vocabSize int) (int, error) {
	n := vocabSize - NumBytes
	if n < 0 {
		return 0, fmt.Errorf("%w: vocab size %d is smaller than the %d byte alphabet", ErrInvalidConfiguration, vocabSize, NumBytes)
	}

	return n, nil
}
