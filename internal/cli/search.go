package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dl/narrsearch/internal/corpus"
	"github.com/dl/narrsearch/internal/input"
	"github.com/dl/narrsearch/internal/output"
	"github.com/dl/narrsearch/internal/permalink"
	"github.com/dl/narrsearch/internal/search"
)

func (a *app) searchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search TERM",
		Short: "Search the corpus once and print the results",
		Long: `Search the corpus for TERM and print each result with its context.
An empty TERM prints the whole corpus.

Exit status is 0 when something matched, 1 when nothing did and 2 on error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSearch(args[0])
		},
	}
	addPermalinkFlag(cmd.Flags(), &a.flags)
	return cmd
}

func (a *app) openCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "open QUERYSTRING",
		Short:   "Replay a search from its permalink query string",
		Example: `  narrsearch open '?mode=contains&term=cat&context=3&ndisp=100&match_mode=match+whole+line&normalize=false'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := permalink.Parse(args[0])
			if err != nil {
				return fmt.Errorf("permalink: %w", err)
			}
			c, err := a.loadCorpus()
			if err != nil {
				return err
			}
			return a.searchOnce(c, req)
		},
	}
}

func (a *app) runSearch(term string) error {
	c, err := a.loadCorpus()
	if err != nil {
		return err
	}
	req := a.cfg.Request
	req.Term = term
	return a.searchOnce(c, req)
}

func (a *app) searchOnce(c *corpus.Corpus, req search.Request) error {
	useColor := a.useColor()
	s := search.NewSearcher(output.MarkersFor(a.cfg.Format, useColor), nil)

	out, err := s.Search(c, req)
	if err != nil {
		return err
	}
	if _, err := a.stdout.Write(output.New(a.cfg.Format, useColor).Format(nil, out)); err != nil {
		return err
	}
	if a.cfg.Permalink {
		fmt.Fprintf(a.stderr, "?%s\n", permalink.Query(req))
	}

	a.logger.Info("search", "term", req.Term, "total", out.Total, "shown", out.Shown())
	if out.Unfiltered || out.Total > 0 {
		return nil
	}
	return errNoMatch
}

func (a *app) loadCorpus() (*corpus.Corpus, error) {
	path := a.cfg.CorpusPath
	c, err := corpus.Load(path, input.ForPath(path, a.cfg.MmapThreshold))
	if err != nil {
		return nil, err
	}
	a.logger.Info("corpus loaded", "path", path, "lines", c.Len())
	return c, nil
}

// useColor is true only for text output: the other formats carry HTML
// markers and never ANSI escapes.
func (a *app) useColor() bool {
	return a.cfg.Format == output.FormatText && a.cfg.UseColor()
}

func (a *app) newSearcher(useColor bool) (*search.Searcher, error) {
	cache, err := search.NewCache(a.cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	return search.NewSearcher(output.MarkersFor(a.cfg.Format, useColor), cache), nil
}
