package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/japaniel/sajeon/pkg/ingest"
	"github.com/japaniel/sajeon/pkg/lexicon"
	"github.com/japaniel/sajeon/pkg/tokenize"
)

// Config is the full build configuration. Values are layered: defaults, then
// an optional YAML file, then SAJEON_* environment variables.
type Config struct {
	Tokenizer Tokenizer `yaml:"tokenizer"`
	Normalize Normalize `yaml:"normalize"`
	Build     Build     `yaml:"build"`
}

// Tokenizer configures definition segmentation.
type Tokenizer struct {
	// ScriptLow and ScriptHigh are single characters bounding the script range.
	ScriptLow  string   `yaml:"script_low"`
	ScriptHigh string   `yaml:"script_high"`
	MinLength  int      `yaml:"min_length"`
	Stopwords  []string `yaml:"stopwords"`
}

// Normalize configures entry admission.
type Normalize struct {
	MaxHeadwordLength int  `yaml:"max_headword_length"`
	NFC               bool `yaml:"nfc"`
}

// Build configures the ingestion run.
type Build struct {
	CommitEvery int    `yaml:"commit_every"`
	MaxRecords  int    `yaml:"max_records"`
	CacheDir    string `yaml:"cache_dir"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Tokenizer: Tokenizer{
			ScriptLow:  string(tokenize.DefaultScriptLow),
			ScriptHigh: string(tokenize.DefaultScriptHigh),
			MinLength:  tokenize.DefaultMinLength,
			Stopwords:  tokenize.DefaultStopwords(),
		},
		Normalize: Normalize{
			MaxHeadwordLength: lexicon.DefaultMaxHeadwordLength,
		},
		Build: Build{
			CommitEvery: ingest.DefaultBatchSize,
			CacheDir:    defaultCacheDir(),
		},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and the environment, then validates it.
func Load(path string) (*Config, error) {
	c := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()
		if err := c.decode(f); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) decode(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Tokenizer.ScriptLow = getEnv("SAJEON_SCRIPT_LOW", c.Tokenizer.ScriptLow)
	c.Tokenizer.ScriptHigh = getEnv("SAJEON_SCRIPT_HIGH", c.Tokenizer.ScriptHigh)
	if v, ok := os.LookupEnv("SAJEON_STOPWORDS"); ok {
		c.Tokenizer.Stopwords = splitAndTrim(v)
	}
	c.Build.CacheDir = getEnv("SAJEON_CACHE_DIR", c.Build.CacheDir)

	ints := []struct {
		key string
		dst *int
	}{
		{"SAJEON_MIN_LENGTH", &c.Tokenizer.MinLength},
		{"SAJEON_MAX_HEADWORD_LENGTH", &c.Normalize.MaxHeadwordLength},
		{"SAJEON_COMMIT_EVERY", &c.Build.CommitEvery},
		{"SAJEON_MAX_RECORDS", &c.Build.MaxRecords},
	}
	for _, v := range ints {
		n, err := getInt(v.key, *v.dst)
		if err != nil {
			return err
		}
		*v.dst = n
	}

	nfc, err := getBool("SAJEON_NFC", c.Normalize.NFC)
	if err != nil {
		return err
	}
	c.Normalize.NFC = nfc
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, err := c.TokenizerConfig(); err != nil {
		return err
	}
	if c.Normalize.MaxHeadwordLength <= 0 {
		return fmt.Errorf("normalize.max_headword_length must be positive")
	}
	if c.Build.CommitEvery <= 0 {
		return fmt.Errorf("build.commit_every must be positive")
	}
	if c.Build.MaxRecords < 0 {
		return fmt.Errorf("build.max_records cannot be negative")
	}
	return nil
}

// TokenizerConfig converts the tokenizer section.
func (c *Config) TokenizerConfig() (tokenize.Config, error) {
	low, err := singleRune("tokenizer.script_low", c.Tokenizer.ScriptLow)
	if err != nil {
		return tokenize.Config{}, err
	}
	high, err := singleRune("tokenizer.script_high", c.Tokenizer.ScriptHigh)
	if err != nil {
		return tokenize.Config{}, err
	}
	if c.Tokenizer.MinLength < 1 {
		return tokenize.Config{}, fmt.Errorf("tokenizer.min_length must be at least 1")
	}
	if low > high {
		return tokenize.Config{}, fmt.Errorf("tokenizer.script_low %q is above script_high %q", low, high)
	}
	return tokenize.Config{
		ScriptLow:  low,
		ScriptHigh: high,
		MinLength:  c.Tokenizer.MinLength,
		Stopwords:  append([]string(nil), c.Tokenizer.Stopwords...),
	}, nil
}

// Normalizer builds the configured normalizer.
func (c *Config) Normalizer() (*lexicon.Normalizer, error) {
	tc, err := c.TokenizerConfig()
	if err != nil {
		return nil, err
	}
	tok, err := tokenize.New(tc)
	if err != nil {
		return nil, err
	}
	n := lexicon.NewNormalizer(tok)
	n.MaxHeadwordLength = c.Normalize.MaxHeadwordLength
	n.NFC = c.Normalize.NFC
	return n, nil
}

func singleRune(field, s string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("%s must be exactly one character, got %q", field, s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "sajeon")
	}
	return filepath.Join(os.TempDir(), "sajeon")
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
