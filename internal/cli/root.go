// Package cli wires the narrsearch commands: one-shot search, an
// interactive loop, batch search, the web server and permalink replay.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dl/narrsearch/internal/matcher"
	"github.com/dl/narrsearch/internal/output"
)

// Exit codes follow grep.
const (
	ExitMatch   = 0
	ExitNoMatch = 1
	ExitError   = 2
)

// errNoMatch makes a command exit with ExitNoMatch without logging.
var errNoMatch = errors.New("no results")

// flagValues receives raw flag text. Values are only applied to the
// Config when the flag was set on the command line.
type flagValues struct {
	corpus     string
	mode       string
	match      string
	context    int
	ndisp      int
	normalize  bool
	engine     string
	format     string
	color      string
	logLevel   string
	cacheSize  int
	workers    int
	listen     string
	watch      bool
	permalink  bool
	configPath string
}

// app is the state shared by every command of one invocation.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	flags  flagValues
	cfg    Config
	logger *log.Logger
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	return run(os.Args[1:], os.Stdin, output.NewWriter(), os.Stderr)
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		logger: log.NewWithOptions(stderr, log.Options{Level: log.WarnLevel}),
	}
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	switch {
	case err == nil:
		return ExitMatch
	case errors.Is(err, errNoMatch):
		return ExitNoMatch
	case matcher.IsInvalidPattern(err):
		a.logger.Error(matcher.InvalidPatternMessage, "err", err)
	default:
		a.logger.Error(err.Error())
	}
	return ExitError
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "narrsearch [TERM]",
		Short: "Search a line-oriented narrative corpus",
		Long: `narrsearch finds corpus lines by substring, prefix, edit distance or
regular expression, matching whole lines or individual words, and prints
each hit with its surrounding lines.

Running narrsearch with a TERM is the same as "narrsearch search TERM".`,
		Args:              cobra.MaximumNArgs(1),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return a.runSearch(args[0])
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", "", "config file (default $"+ConfigEnv+" or ~/.config/narrsearch/config.toml)")
	pf.StringVar(&a.flags.corpus, "corpus", DefaultCorpus, `corpus file, one entry per line ("-" for stdin)`)
	pf.StringVarP(&a.flags.mode, "mode", "m", matcher.Contains.String(), `search mode: "contains", "starts with", "edit distance", "python regex"`)
	pf.StringVarP(&a.flags.match, "match", "w", matcher.PerWord.String(), `"match individual words" or "match whole line"`)
	pf.IntVarP(&a.flags.context, "context", "C", 3, "lines of context around each result (0-100)")
	pf.IntVarP(&a.flags.ndisp, "ndisp", "n", 100, "max number of results to show")
	pf.BoolVar(&a.flags.normalize, "normalize", false, "NFC-normalize the search term")
	pf.StringVar(&a.flags.engine, "engine", matcher.RE2.String(), "regex engine for python regex mode: re2 or pcre")
	pf.StringVar(&a.flags.format, "format", string(output.FormatText), "output format: text, json, markdown")
	pf.StringVar(&a.flags.color, "color", "auto", "when to use colors: auto, always, never")
	pf.StringVar(&a.flags.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	pf.IntVar(&a.flags.cacheSize, "cache-size", 256, "number of searches to memoize")

	addPermalinkFlag(root.Flags(), &a.flags)

	root.AddCommand(
		a.searchCommand(),
		a.replCommand(),
		a.batchCommand(),
		a.serveCommand(),
		a.openCommand(),
	)
	return root
}

func addPermalinkFlag(fs *pflag.FlagSet, fv *flagValues) {
	fs.BoolVar(&fv.permalink, "permalink", false, "print the permalink query string to stderr")
}

// setup merges built-in defaults, the config file and explicitly set flags,
// in increasing order of precedence, then builds the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg := DefaultConfig()

	path := a.flags.configPath
	if path == "" {
		path = ConfigPath()
	}
	if err := LoadConfigFile(path, &cfg); err != nil {
		return err
	}
	if err := applyFlags(cmd.Flags(), &a.flags, &cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = log.NewWithOptions(a.stderr, log.Options{Level: cfg.LogLevel})
	if cfg.Color == ColorAlways {
		output.ForceColor()
	}
	a.logger.Debug("config", "path", path, "corpus", cfg.CorpusPath, "mode", cfg.Request.Mode, "match_mode", cfg.Request.Granularity)
	return nil
}

func applyFlags(fs *pflag.FlagSet, fv *flagValues, cfg *Config) error {
	var err error
	set := func(name string) bool {
		f := fs.Lookup(name)
		return f != nil && f.Changed
	}

	if set("corpus") {
		cfg.CorpusPath = fv.corpus
	}
	if set("mode") {
		if cfg.Request.Mode, err = matcher.ParseMode(fv.mode); err != nil {
			return err
		}
	}
	if set("match") {
		if cfg.Request.Granularity, err = matcher.ParseGranularity(fv.match); err != nil {
			return err
		}
	}
	if set("engine") {
		if cfg.Request.Engine, err = matcher.ParseEngine(fv.engine); err != nil {
			return err
		}
	}
	if set("context") {
		cfg.Request.ContextRadius = fv.context
	}
	if set("ndisp") {
		cfg.Request.MaxResults = fv.ndisp
	}
	if set("normalize") {
		cfg.Request.Normalize = fv.normalize
	}
	if set("format") {
		if cfg.Format, err = output.ParseFormat(fv.format); err != nil {
			return err
		}
	}
	if set("color") {
		if cfg.Color, err = ParseColorMode(fv.color); err != nil {
			return err
		}
	}
	if set("log-level") {
		if cfg.LogLevel, err = log.ParseLevel(fv.logLevel); err != nil {
			return fmt.Errorf("log level: %w", err)
		}
	}
	if set("cache-size") {
		cfg.CacheSize = fv.cacheSize
	}
	if set("workers") {
		cfg.Workers = fv.workers
	}
	if set("listen") {
		cfg.Listen = fv.listen
	}
	cfg.Watch = fv.watch
	cfg.Permalink = fv.permalink
	return nil
}
