// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"context"
	"iter"
	"sync"

	synclib "github.com/parmahealth/parma/internal/sync"
	"github.com/parmahealth/parma/pkg/batch"
)

type result struct {
	batch *batch.Batch
	err   error
}

// process applies the processor to every batch of the sequence. With more
// than one worker, batches are processed concurrently and yielded in input
// order.
func (p *Pipeline) process(ctx context.Context, in iter.Seq2[*batch.Batch, error]) iter.Seq2[*batch.Batch, error] {
	if p.processor == nil {
		return in
	}
	if p.workers <= 1 {
		return batch.Map(in, func(b *batch.Batch) (*batch.Batch, error) {
			return p.processor.Process(ctx, b)
		})
	}

	return func(yield func(*batch.Batch, error) bool) {
		ctx, cancel := context.WithCancel(ctx)
		// pending keeps one result channel per in flight batch, in input
		// order.
		pending := make(chan chan result, p.workers)
		sem := p.semFn(int64(p.workers))

		wg := &sync.WaitGroup{}
		defer func() {
			cancel()
			for range pending {
			}
			wg.Wait()
		}()

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer close(pending)
			p.dispatch(ctx, in, sem, pending, wg)
		}()

		for out := range pending {
			r := <-out
			if r.err != nil {
				yield(nil, r.err)
				return
			}
			if !yield(r.batch, nil) {
				return
			}
		}
		// the dispatcher stops silently when the context is done
		if err := ctx.Err(); err != nil {
			yield(nil, err)
		}
	}
}

func (p *Pipeline) dispatch(ctx context.Context, in iter.Seq2[*batch.Batch, error], sem synclib.WeightedSemaphore, pending chan<- chan result, wg *sync.WaitGroup) {
	fail := func(err error) {
		out := make(chan result, 1)
		out <- result{err: err}
		select {
		case pending <- out:
		case <-ctx.Done():
		}
	}

	for b, err := range in {
		if err != nil {
			fail(err)
			return
		}

		if err := sem.Acquire(ctx, 1); err != nil {
			fail(err)
			return
		}
		out := make(chan result, 1)
		select {
		case pending <- out:
		case <-ctx.Done():
			sem.Release(1)
			return
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)
			processed, err := p.processor.Process(ctx, b)
			out <- result{batch: processed, err: err}
		}()
	}
}
