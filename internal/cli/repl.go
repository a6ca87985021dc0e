package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dl/narrsearch/internal/corpus"
	"github.com/dl/narrsearch/internal/input"
	"github.com/dl/narrsearch/internal/matcher"
	"github.com/dl/narrsearch/internal/output"
	"github.com/dl/narrsearch/internal/permalink"
	"github.com/dl/narrsearch/internal/search"
)

const replHelp = `Type a search term, or a command:
  :mode MODE          contains | starts with | edit distance | python regex
  :match GRANULARITY  match individual words | match whole line
  :engine ENGINE      re2 | pcre
  :context N          lines of context (0-100)
  :ndisp N            max results shown
  :normalize on|off   NFC-normalize the term
  :show               print the current settings
  :link               print the permalink query string
  :quit               exit
A term starting with ':' is written '::term'.
`

func (a *app) replCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Search interactively",
		Long: `Read search terms and setting changes from stdin. Changing a setting
re-runs the current search. An invalid pattern leaves the previous results
in place.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runREPL(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&a.flags.watch, "watch", false, "reload the corpus when the file changes")
	return cmd
}

func (a *app) runREPL(ctx context.Context) error {
	if a.cfg.CorpusPath == input.StdinPath {
		return fmt.Errorf("repl reads commands from stdin; pass --corpus FILE")
	}

	c, err := a.loadCorpus()
	if err != nil {
		return err
	}
	store := corpus.NewStore(c)

	useColor := a.useColor()
	searcher, err := a.newSearcher(useColor)
	if err != nil {
		return err
	}

	if a.cfg.Watch {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		go a.watchCorpus(ctx, store, searcher.Cache())
	}

	r := &repl{
		session:   search.NewSession(searcher, a.cfg.Request),
		store:     store,
		formatter: output.New(a.cfg.Format, useColor),
		out:       a.stdout,
	}
	if f, ok := a.stdin.(*os.File); ok && output.IsTerminal(f.Fd()) {
		r.prompt = "narrsearch> "
	}
	return r.run(a.stdin)
}

// repl is the interactive loop. Output goes to out, including user-facing
// errors; only write failures end the loop.
type repl struct {
	session   *search.Session
	store     *corpus.Store
	formatter output.Formatter
	out       io.Writer
	prompt    string
	buf       []byte
}

func (r *repl) run(in io.Reader) error {
	tr := input.NewTermReader(in)
	for {
		if r.prompt != "" {
			if err := r.printf("%s", r.prompt); err != nil {
				return err
			}
		}
		line, ok := tr.Next()
		if !ok {
			return nil
		}
		if line.Err != nil {
			return line.Err
		}
		quit, err := r.handle(line.Text)
		if err != nil || quit {
			return err
		}
	}
}

func (r *repl) handle(text string) (quit bool, err error) {
	switch {
	case strings.TrimSpace(text) == "":
		return false, nil
	case strings.HasPrefix(text, "::"):
		return false, r.searchTerm(text[1:])
	case !strings.HasPrefix(text, ":"):
		return false, r.searchTerm(text)
	}

	name, arg, _ := strings.Cut(strings.TrimSpace(text[1:]), " ")
	arg = strings.TrimSpace(arg)
	req := r.session.Request()

	switch strings.ToLower(name) {
	case "q", "quit", "exit":
		return true, nil
	case "h", "help":
		return false, r.printf("%s", replHelp)
	case "show":
		return false, r.show()
	case "link":
		return false, r.printf("?%s\n", permalink.Query(req))
	case "mode":
		req.Mode, err = matcher.ParseMode(arg)
	case "match":
		req.Granularity, err = matcher.ParseGranularity(arg)
	case "engine":
		req.Engine, err = matcher.ParseEngine(arg)
	case "context":
		req.ContextRadius, err = atoi(arg)
	case "ndisp":
		req.MaxResults, err = atoi(arg)
	case "normalize":
		req.Normalize, err = parseOnOff(arg)
	default:
		return false, r.printf("unknown command :%s (try :help)\n", name)
	}
	if err != nil {
		return false, r.printf("%v\n", err)
	}
	if err := r.session.Update(req); err != nil {
		return false, r.printf("%v\n", err)
	}
	if req.Empty() {
		return false, nil
	}
	return false, r.search()
}

func (r *repl) searchTerm(term string) error {
	req := r.session.Request()
	req.Term = term
	if err := r.session.Update(req); err != nil {
		return r.printf("%v\n", err)
	}
	return r.search()
}

func (r *repl) search() error {
	out, err := r.session.Run(r.store.Load())
	if err != nil {
		if matcher.IsInvalidPattern(err) {
			return r.printf("%s\n", matcher.InvalidPatternMessage)
		}
		return r.printf("%v\n", err)
	}
	r.buf = r.formatter.Format(r.buf[:0], out)
	_, err = r.out.Write(r.buf)
	return err
}

func (r *repl) show() error {
	req := r.session.Request()
	normalize := "off"
	if req.Normalize {
		normalize = "on"
	}
	return r.printf("mode: %s\nmatch: %s\nengine: %s\ncontext: %d\nndisp: %d\nnormalize: %s\nterm: %q\nlines: %d\n",
		req.Mode, req.Granularity, req.Engine, req.ContextRadius, req.MaxResults, normalize, req.Term, r.store.Load().Len())
}

func (r *repl) printf(format string, args ...any) error {
	_, err := fmt.Fprintf(r.out, format, args...)
	return err
}

func atoi(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	return n, nil
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", s)
}
