// Package batch fans independent row evaluations out to a bounded worker
// pool. Rows share no state, so evaluation order is unconstrained; results
// are indexed by input row so output row i always corresponds to input
// row i.
package batch

import (
	"context"
	"runtime"
	"sync"

	"github.com/somnolab/sleepq/internal/domain/model"
	"github.com/somnolab/sleepq/internal/domain/types"
)

// EvalFunc evaluates a single observation.
type EvalFunc func(ctx context.Context, o model.Observation) (types.Result, error)

// Row is one evaluated batch row.
type Row struct {
	Index  int
	Result types.Result
	Err    error
}

// Option applies a configuration option to the Pool.
type Option func(*Pool)

// WithWorkers sets the number of concurrent evaluation workers.
func WithWorkers(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.workers = n
		}
	}
}

// Pool bounds how many rows are evaluated concurrently.
type Pool struct {
	workers int
}

// New creates a Pool defaulting to one worker per CPU.
func New(opts ...Option) *Pool {
	p := &Pool{workers: runtime.NumCPU()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Workers returns the configured worker count.
func (p *Pool) Workers() int {
	return p.workers
}

// Run evaluates all rows and returns one Row per input, in input order.
// Rows not reached before ctx is done carry ctx.Err().
func (p *Pool) Run(ctx context.Context, rows []model.Observation, eval EvalFunc) []Row {
	out := make([]Row, len(rows))
	if len(rows) == 0 {
		return out
	}

	workers := p.workers
	if workers > len(rows) {
		workers = len(rows)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				res, err := eval(ctx, rows[i])
				out[i] = Row{Index: i, Result: res, Err: err}
			}
		}()
	}

dispatch:
	for i := range rows {
		select {
		case jobs <- i:
		case <-ctx.Done():
			for j := i; j < len(rows); j++ {
				out[j] = Row{Index: j, Err: ctx.Err()}
			}
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()
	return out
}
