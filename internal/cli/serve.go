package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dl/narrsearch/internal/corpus"
	"github.com/dl/narrsearch/internal/highlight"
	"github.com/dl/narrsearch/internal/input"
	"github.com/dl/narrsearch/internal/search"
	"github.com/dl/narrsearch/internal/server"
	"github.com/dl/narrsearch/internal/watch"
)

func (a *app) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the search page and JSON API over HTTP",
		Long: `Serve a search form at / and a JSON API at /api/search. Both accept the
permalink query parameters: mode, term, context, ndisp, match_mode,
normalize and engine.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runServe(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&a.flags.listen, "listen", DefaultListen, "address to listen on")
	cmd.Flags().BoolVar(&a.flags.watch, "watch", false, "reload the corpus when the file changes")
	return cmd
}

func (a *app) runServe(ctx context.Context) error {
	if a.cfg.Watch && a.cfg.CorpusPath == input.StdinPath {
		return fmt.Errorf("cannot watch a corpus read from stdin")
	}

	c, err := a.loadCorpus()
	if err != nil {
		return err
	}
	store := corpus.NewStore(c)

	cache, err := search.NewCache(a.cfg.CacheSize)
	if err != nil {
		return err
	}
	searcher := search.NewSearcher(highlight.HTMLMarkers(), cache)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.cfg.Watch {
		go a.watchCorpus(ctx, store, cache)
	}
	return server.New(store, searcher, a.logger).ListenAndServe(ctx, a.cfg.Listen)
}

// watchCorpus reloads the corpus into store whenever the file changes,
// until ctx is done. A failed reload keeps the previous corpus.
func (a *app) watchCorpus(ctx context.Context, store *corpus.Store, cache *search.Cache) {
	w, err := watch.New(a.cfg.CorpusPath)
	if err != nil {
		a.logger.Error("watch corpus", "path", a.cfg.CorpusPath, "err", err)
		return
	}
	defer w.Close()
	a.logger.Info("watching corpus", "path", w.Path())

	events := w.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			if evt.Err != nil {
				a.logger.Warn("watch error", "err", evt.Err)
				continue
			}
			a.reload(evt, store, cache)
		}
	}
}

func (a *app) reload(evt watch.Event, store *corpus.Store, cache *search.Cache) {
	if evt.Type == watch.EventRemoved {
		a.logger.Warn("corpus removed, keeping the loaded copy", "path", evt.Path)
		return
	}
	c, err := a.loadCorpus()
	if err != nil {
		a.logger.Warn("reload corpus", "path", evt.Path, "err", err)
		return
	}
	store.Swap(c)
	if cache != nil {
		cache.Invalidate()
	}
	a.logger.Info("corpus reloaded", "path", evt.Path, "lines", c.Len())
}
