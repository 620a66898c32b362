// Package search runs the search pipeline: rate-limited retrieval from
// search sources, per-result enrichment, deduplication and digest
// generation.
package search

import (
	"context"
	"time"

	"github.com/fwojciec/locsearch"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Outcome is the settled result of one scheduled unit.
type Outcome[T any] struct {
	Value T
	Err   error
}

// Scheduler paces units of work in sequential batches. A Scheduler
// belongs to one search session; its rate limiter is never shared.
type Scheduler struct {
	cfg     locsearch.LimiterConfig
	limiter *rate.Limiter
}

// NewScheduler returns a Scheduler for cfg.
func NewScheduler(cfg locsearch.LimiterConfig) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	interval := time.Minute / time.Duration(cfg.RequestsPerMinute)
	return &Scheduler{
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Every(interval), cfg.MaxConcurrent),
	}, nil
}

// Config returns the scheduler's limiter configuration.
func (s *Scheduler) Config() locsearch.LimiterConfig {
	return s.cfg
}

// Schedule runs unit for indices 0..n-1 in batches of MaxConcurrent and
// returns one outcome per index.
//
// Within a batch, units start in index order, each after waiting
// InterRequestDelay and a rate limiter token. The next batch starts once
// every unit of the current batch has settled. A unit's error never stops
// other units.
//
// Units run on a context that ignores cancellation of ctx, bounded by
// PerItemTimeout, so started work drains. Once ctx is done no further
// unit starts and the remaining indices report ECANCELED.
func Schedule[T any](ctx context.Context, s *Scheduler, n int, unit func(ctx context.Context, i int) (T, error)) []Outcome[T] {
	outcomes := make([]Outcome[T], n)
	unitCtx := context.WithoutCancel(ctx)

	for start := 0; start < n; start += s.cfg.MaxConcurrent {
		end := min(start+s.cfg.MaxConcurrent, n)

		var g errgroup.Group
		launched := start
		for i := start; i < end; i++ {
			if err := s.wait(ctx); err != nil {
				break
			}
			launched = i + 1
			g.Go(func() error {
				outcomes[i] = runUnit(unitCtx, s.cfg.PerItemTimeout, i, unit)
				return nil
			})
		}
		_ = g.Wait()

		if ctx.Err() != nil {
			for i := launched; i < n; i++ {
				outcomes[i].Err = locsearch.Errorf(locsearch.ECANCELED, "canceled before start")
			}
			break
		}
	}
	return outcomes
}

// wait blocks for the inter-request delay and a limiter token. It fails
// only once ctx is done, however far away the next token is.
func (s *Scheduler) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := sleep(ctx, s.cfg.InterRequestDelay); err != nil {
		return err
	}
	r := s.limiter.Reserve()
	if err := sleep(ctx, r.Delay()); err != nil {
		r.Cancel()
		return err
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// runUnit executes one unit, converting a panic into an EINTERNAL outcome.
func runUnit[T any](ctx context.Context, timeout time.Duration, i int, unit func(context.Context, int) (T, error)) (out Outcome[T]) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			out = Outcome[T]{Err: locsearch.Errorf(locsearch.EINTERNAL, "unit %d panicked: %v", i, r)}
		}
	}()
	v, err := unit(ctx, i)
	return Outcome[T]{Value: v, Err: err}
}
