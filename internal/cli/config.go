package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/dl/narrsearch/internal/input"
	"github.com/dl/narrsearch/internal/output"
	"github.com/dl/narrsearch/internal/search"
)

// ColorMode controls when colored output is used.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // color when stdout is a terminal
	ColorAlways                  // always use color
	ColorNever                   // never use color
)

func (m ColorMode) String() string {
	switch m {
	case ColorAlways:
		return "always"
	case ColorNever:
		return "never"
	}
	return "auto"
}

// ParseColorMode parses a --color value.
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ColorAuto, nil
	case "always", "yes", "on":
		return ColorAlways, nil
	case "never", "no", "off":
		return ColorNever, nil
	}
	return ColorAuto, fmt.Errorf("unknown color mode %q", s)
}

const (
	DefaultCorpus = "words_2012.txt"
	DefaultListen = ":8501"
)

// Config holds everything a command needs after flags and the config file
// have been merged.
type Config struct {
	CorpusPath    string
	Request       search.Request
	Format        output.Format
	Color         ColorMode
	LogLevel      log.Level
	Listen        string
	CacheSize     int
	Workers       int
	Watch         bool
	Permalink     bool
	MmapThreshold int64
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		CorpusPath:    DefaultCorpus,
		Request:       search.DefaultRequest(),
		Format:        output.FormatText,
		Color:         ColorAuto,
		LogLevel:      log.WarnLevel,
		Listen:        DefaultListen,
		CacheSize:     search.DefaultCacheSize,
		MmapThreshold: input.DefaultMmapThreshold,
	}
}

// Validate checks that the config is valid and returns an error if not.
func (c *Config) Validate() error {
	if c.CorpusPath == "" {
		return fmt.Errorf("no corpus specified")
	}
	if err := c.Request.Validate(); err != nil {
		return err
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("invalid cache size: %d", c.CacheSize)
	}
	if c.Workers < 0 {
		return fmt.Errorf("invalid worker count: %d", c.Workers)
	}
	return nil
}

// UseColor resolves the color mode against the terminal.
func (c *Config) UseColor() bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	return output.StdoutIsTerminal()
}
