// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"context"
	"errors"
	"iter"

	"github.com/parmahealth/parma/pkg/batch"
	"golang.org/x/sync/errgroup"
)

// errSinkFailed stops the run when a sink returned early. The sink error
// itself is reported by close.
var errSinkFailed = errors.New("sink failed")

// sinkGroup feeds the same batches to several sinks, each one consuming them
// from its own goroutine.
type sinkGroup struct {
	eg       *errgroup.Group
	ctx      context.Context
	channels []chan result
}

func startSinks(ctx context.Context, sinks []batch.Sink) *sinkGroup {
	eg, ctx := errgroup.WithContext(ctx)
	g := &sinkGroup{eg: eg, ctx: ctx}
	for _, sink := range sinks {
		ch := make(chan result)
		g.channels = append(g.channels, ch)
		eg.Go(func() error {
			err := sink.Write(ctx, channelSeq(ch))
			// a sink that stops early must not block the others
			go func() {
				for range ch {
				}
			}()
			return err
		})
	}
	return g
}

// send delivers the batch to every sink. It returns errSinkFailed once any
// sink has failed.
func (g *sinkGroup) send(b *batch.Batch) error {
	for _, ch := range g.channels {
		if g.ctx.Err() != nil {
			return errSinkFailed
		}
		ch <- result{batch: b}
	}
	return nil
}

// close ends the sequences of the sinks and waits for them to return. A non
// nil err is yielded to the sinks first so they abort the write.
func (g *sinkGroup) close(err error) error {
	if g == nil {
		return nil
	}
	for _, ch := range g.channels {
		if err != nil {
			ch <- result{err: err}
		}
		close(ch)
	}
	return g.eg.Wait()
}

func channelSeq(ch <-chan result) iter.Seq2[*batch.Batch, error] {
	return func(yield func(*batch.Batch, error) bool) {
		for r := range ch {
			if !yield(r.batch, r.err) {
				return
			}
		}
	}
}
