package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/dl/narrsearch/internal/matcher"
	"github.com/dl/narrsearch/internal/output"
)

// ConfigEnv names the environment variable that overrides the config path.
const ConfigEnv = "NARRSEARCH_CONFIG"

// FileConfig is the on-disk TOML form. Only keys present in the file
// override the built-in defaults.
type FileConfig struct {
	Corpus    string `toml:"corpus"`
	Mode      string `toml:"mode"`
	MatchMode string `toml:"match_mode"`
	Context   int    `toml:"context"`
	NDisp     int    `toml:"ndisp"`
	Normalize bool   `toml:"normalize"`
	Engine    string `toml:"engine"`
	Format    string `toml:"format"`
	Color     string `toml:"color"`
	LogLevel  string `toml:"log_level"`
	Listen    string `toml:"listen"`
	CacheSize int    `toml:"cache_size"`
	Workers   int    `toml:"workers"`
}

// ConfigPath returns $NARRSEARCH_CONFIG, or ~/.config/narrsearch/config.toml.
// It returns "" when no home directory can be found.
func ConfigPath() string {
	if p := os.Getenv(ConfigEnv); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "narrsearch", "config.toml")
}

// LoadConfigFile applies the keys set in the TOML file at path to cfg.
// A missing file is not an error.
func LoadConfigFile(path string, cfg *Config) error {
	if path == "" {
		return nil
	}
	var fc FileConfig
	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}
	if err := fc.apply(md, cfg); err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	return nil
}

func (fc *FileConfig) apply(md toml.MetaData, cfg *Config) error {
	var err error
	if md.IsDefined("corpus") {
		cfg.CorpusPath = fc.Corpus
	}
	if md.IsDefined("mode") {
		if cfg.Request.Mode, err = matcher.ParseMode(fc.Mode); err != nil {
			return err
		}
	}
	if md.IsDefined("match_mode") {
		if cfg.Request.Granularity, err = matcher.ParseGranularity(fc.MatchMode); err != nil {
			return err
		}
	}
	if md.IsDefined("engine") {
		if cfg.Request.Engine, err = matcher.ParseEngine(fc.Engine); err != nil {
			return err
		}
	}
	if md.IsDefined("context") {
		cfg.Request.ContextRadius = fc.Context
	}
	if md.IsDefined("ndisp") {
		cfg.Request.MaxResults = fc.NDisp
	}
	if md.IsDefined("normalize") {
		cfg.Request.Normalize = fc.Normalize
	}
	if md.IsDefined("format") {
		if cfg.Format, err = output.ParseFormat(fc.Format); err != nil {
			return err
		}
	}
	if md.IsDefined("color") {
		if cfg.Color, err = ParseColorMode(fc.Color); err != nil {
			return err
		}
	}
	if md.IsDefined("log_level") {
		if cfg.LogLevel, err = log.ParseLevel(fc.LogLevel); err != nil {
			return err
		}
	}
	if md.IsDefined("listen") {
		cfg.Listen = fc.Listen
	}
	if md.IsDefined("cache_size") {
		cfg.CacheSize = fc.CacheSize
	}
	if md.IsDefined("workers") {
		cfg.Workers = fc.Workers
	}
	return nil
}
