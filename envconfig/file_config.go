package envconfig

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/BurntSushi/toml"
)

// Config represents the TOML configuration structure
type Config struct {
	Training struct {
		VocabSize int    `toml:"vocab_size"`
		Tokenizer string `toml:"tokenizer"`
	} `toml:"training"`

	Compare struct {
		Encoding string `toml:"encoding"`
	} `toml:"compare"`

	Output struct {
		NoProgress bool `toml:"no_progress"`
	} `toml:"output"`

	Logging struct {
		Debug int `toml:"debug"`
	} `toml:"logging"`
}

var (
	configOnce sync.Once
	config     *Config
	configPath string
)

// GetConfigPaths returns the list of possible config file paths, most
// specific first.
func GetConfigPaths() []string {
	var paths []string
	if p := os.Getenv("BPE_CONFIG"); p != "" {
		paths = append(paths, p)
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		paths = append(paths, filepath.Join(xdgConfig, "bpe", "config.toml"))
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "bpe", "config.toml"),
			filepath.Join(home, ".bpe", "config.toml"),
		)
	}

	return paths
}

// loadConfig loads the first available configuration file
func loadConfig() (*Config, string, error) {
	for _, path := range GetConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			var cfg Config
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return nil, "", fmt.Errorf("error parsing config file %s: %w", path, err)
			}
			return &cfg, path, nil
		}
	}
	return nil, "", nil
}

// GetConfigValue returns the config file value for an environment variable
// key, or "" when the file does not set it.
func GetConfigValue(key string) string {
	configOnce.Do(func() {
		var err error
		config, configPath, err = loadConfig()
		if err != nil {
			slog.Warn("failed to load config file", "error", err)
		} else if config != nil {
			slog.Debug("loaded config file", "path", configPath)
		}
	})

	if config == nil {
		return ""
	}

	switch key {
	case "BPE_VOCAB_SIZE":
		if config.Training.VocabSize > 0 {
			return strconv.Itoa(config.Training.VocabSize)
		}
	case "BPE_TOKENIZER":
		return config.Training.Tokenizer
	case "BPE_ENCODING":
		return config.Compare.Encoding
	case "BPE_NOPROGRESS":
		if config.Output.NoProgress {
			return "true"
		}
	case "BPE_DEBUG":
		if config.Logging.Debug > 0 {
			return strconv.Itoa(config.Logging.Debug)
		}
	}

	return ""
}

// ReloadConfig forgets the cached config file and reloads every setting.
func ReloadConfig() {
	configOnce = sync.Once{}
	config, configPath = nil, ""
	LoadConfig()
}

// GenerateExampleConfig returns a commented example TOML configuration
func GenerateExampleConfig() string {
	return `# bpe configuration file
# Environment variables take precedence over values set here.

[training]
# Vocabulary size, 256 byte tokens plus learned merges (default: 512)
vocab_size = 512
# "basic" merges across the raw byte stream, "regex" never merges across
# words, digit groups or whitespace (default: "regex")
tokenizer = "regex"

[compare]
# tiktoken encoding used as a reference by "bpe compare" (default: "cl100k_base")
encoding = "cl100k_base"

[output]
# Do not render a progress bar while training (default: false)
no_progress = false

[logging]
# 1 for debug output, 2 to trace every learned merge (default: 0)
debug = 0
`
}
