package envconfig

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/Danpythonman/llm-tokenizer/logutil"
	"github.com/Danpythonman/llm-tokenizer/tokenizer"
)

const (
	defaultVocabSize = 512
	defaultTokenizer = tokenizer.KindRegex
	defaultEncoding  = "cl100k_base"
)

var (
	// Set via BPE_DEBUG in the environment
	Debug bool
	// Set via BPE_DEBUG=2 in the environment
	Trace bool
	// Set via BPE_VOCAB_SIZE in the environment
	VocabSize int
	// Set via BPE_TOKENIZER in the environment
	Tokenizer string
	// Set via BPE_NOPROGRESS in the environment
	NoProgress bool
	// Set via BPE_ENCODING in the environment
	Encoding string
)

type EnvVar struct {
	Name        string
	Value       any
	Description string
}

func AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"BPE_CONFIG":     {"BPE_CONFIG", configPath, "Path to a TOML config file (default searches ~/.config/bpe/config.toml)"},
		"BPE_DEBUG":      {"BPE_DEBUG", LogLevel().String(), "Show additional debug information (e.g. BPE_DEBUG=1, BPE_DEBUG=2 to trace every merge)"},
		"BPE_ENCODING":   {"BPE_ENCODING", Encoding, "Reference tiktoken encoding used by compare (default \"cl100k_base\")"},
		"BPE_NOPROGRESS": {"BPE_NOPROGRESS", NoProgress, "Do not render a progress bar while training"},
		"BPE_TOKENIZER":  {"BPE_TOKENIZER", Tokenizer, "Tokenizer to train, basic or regex (default \"regex\")"},
		"BPE_VOCAB_SIZE": {"BPE_VOCAB_SIZE", VocabSize, "Vocabulary size to train, at least 256 (default 512)"},
	}
}

func Values() map[string]string {
	vals := make(map[string]string)
	for k, v := range AsMap() {
		vals[k] = fmt.Sprintf("%v", v.Value)
	}
	return vals
}

// clean returns the value of key from the environment, falling back to the
// config file, with surrounding quotes and spaces removed.
func clean(key string) string {
	if v := strings.Trim(os.Getenv(key), "\"' "); v != "" {
		return v
	}

	return strings.Trim(GetConfigValue(key), "\"' ")
}

func init() {
	LoadConfig()
}

func LoadConfig() {
	Debug, Trace = false, false
	VocabSize = defaultVocabSize
	Tokenizer = defaultTokenizer
	NoProgress = false
	Encoding = defaultEncoding

	if debug := clean("BPE_DEBUG"); debug != "" {
		if n, err := strconv.Atoi(debug); err == nil {
			Debug, Trace = n > 0, n > 1
		} else if b, err := strconv.ParseBool(debug); err == nil {
			Debug = b
		} else {
			Debug = true
		}
	}

	if vs := clean("BPE_VOCAB_SIZE"); vs != "" {
		n, err := strconv.Atoi(vs)
		if err != nil || n < tokenizer.NumBytes {
			slog.Error("invalid setting, ignoring", "BPE_VOCAB_SIZE", vs, "error", err)
		} else {
			VocabSize = n
		}
	}

	if kind := clean("BPE_TOKENIZER"); kind != "" {
		switch kind {
		case tokenizer.KindBasic, tokenizer.KindRegex:
			Tokenizer = kind
		default:
			slog.Error("invalid setting, ignoring", "BPE_TOKENIZER", kind)
		}
	}

	if np := clean("BPE_NOPROGRESS"); np != "" {
		b, err := strconv.ParseBool(np)
		NoProgress = err != nil || b
	}

	if enc := clean("BPE_ENCODING"); enc != "" {
		Encoding = enc
	}
}

// LogLevel maps BPE_DEBUG onto a slog level.
func LogLevel() slog.Level {
	switch {
	case Trace:
		return logutil.LevelTrace
	case Debug:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}
