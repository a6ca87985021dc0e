package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dl/narrsearch/internal/input"
	"github.com/dl/narrsearch/internal/matcher"
	"github.com/dl/narrsearch/internal/output"
	"github.com/dl/narrsearch/internal/scheduler"
)

var errBatchFailed = errors.New("one or more searches failed")

func (a *app) batchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [FILE]",
		Short: "Search every term in FILE (or stdin), one per line",
		Long: `Run one search per non-blank line of FILE, or of stdin when FILE is
omitted or "-". Searches run in parallel; output keeps input order.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := input.StdinPath
			if len(args) == 1 {
				path = args[0]
			}
			return a.runBatch(path)
		},
	}
	cmd.Flags().IntVarP(&a.flags.workers, "workers", "j", 0, "parallel searches (default: number of CPUs)")
	return cmd
}

func (a *app) runBatch(termsPath string) error {
	if termsPath == input.StdinPath && a.cfg.CorpusPath == input.StdinPath {
		return fmt.Errorf("corpus and search terms cannot both be read from stdin")
	}

	c, err := a.loadCorpus()
	if err != nil {
		return err
	}

	src := a.stdin
	if termsPath != input.StdinPath {
		f, err := os.Open(termsPath)
		if err != nil {
			return err
		}
		defer f.Close()
		src = f
	}

	useColor := a.useColor()
	searcher, err := a.newSearcher(useColor)
	if err != nil {
		return err
	}

	sched := scheduler.New(a.cfg.Workers, searcher, c, a.cfg.Request)
	results := sched.Run(input.NewTermReader(src).Lines(true))
	formatter := output.Titled(a.cfg.Format, output.New(a.cfg.Format, useColor))

	var matched, failed bool
	err = output.NewOrderedWriter(a.stdout, formatter).WriteOrdered(results, func(r output.Result) {
		switch {
		case r.Err != nil:
			failed = true
			a.logBatchError(r)
		case r.HasMatch():
			matched = true
		}
	})
	if err != nil {
		drain(results)
		return err
	}

	switch {
	case failed:
		return errBatchFailed
	case matched:
		return nil
	}
	return errNoMatch
}

func (a *app) logBatchError(r output.Result) {
	if matcher.IsInvalidPattern(r.Err) {
		a.logger.Error(matcher.InvalidPatternMessage, "term", r.Term)
		return
	}
	a.logger.Error("search failed", "term", r.Term, "err", r.Err)
}

func drain(results <-chan output.Result) {
	for range results {
	}
}
