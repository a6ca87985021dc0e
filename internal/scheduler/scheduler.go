package scheduler

import (
	"runtime"
	"sync"

	"github.com/dl/narrsearch/internal/corpus"
	"github.com/dl/narrsearch/internal/input"
	"github.com/dl/narrsearch/internal/output"
	"github.com/dl/narrsearch/internal/search"
)

// Scheduler runs a stream of search terms through a pool of workers. All
// workers read the same corpus; each search allocates its own results, so
// no state is shared between jobs.
type Scheduler struct {
	workers  int
	searcher *search.Searcher
	corpus   *corpus.Corpus
	base     search.Request
}

type job struct {
	seq  int
	term string
}

// New creates a Scheduler with the given number of workers. Every term is
// searched with base, only the Term field replaced.
// If workers is 0, defaults to NumCPU.
func New(workers int, s *search.Searcher, c *corpus.Corpus, base search.Request) *Scheduler {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Scheduler{workers: workers, searcher: s, corpus: c, base: base}
}

// Run consumes terms and returns results tagged with 1-based sequence
// numbers in input order. A read error on the term stream is delivered as
// a final failed result.
func (s *Scheduler) Run(terms <-chan input.TermLine) <-chan output.Result {
	jobs := make(chan job, s.workers*2)
	resultCh := make(chan output.Result, s.workers*2)

	var (
		readErr error
		seq     int
	)
	go func() {
		defer close(jobs)
		for line := range terms {
			if line.Err != nil {
				readErr = line.Err
				return
			}
			seq++
			jobs <- job{seq: seq, term: line.Text}
		}
	}()

	var wg sync.WaitGroup
	for range s.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				resultCh <- s.process(j)
			}
		}()
	}

	go func() {
		wg.Wait()
		// Workers exit only after the feeder closes jobs, so readErr and
		// seq are settled here.
		if readErr != nil {
			resultCh <- output.Result{SeqNum: seq + 1, Err: readErr}
		}
		close(resultCh)
	}()

	return resultCh
}

func (s *Scheduler) process(j job) output.Result {
	req := s.base
	req.Term = j.term
	out, err := s.searcher.Search(s.corpus, req)
	return output.Result{SeqNum: j.seq, Term: j.term, Outcome: out, Err: err}
}
