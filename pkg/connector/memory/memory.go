// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"context"
	"iter"
	"sync"

	"github.com/parmahealth/parma/pkg/batch"
)

// Source yields a fixed list of batches. Every Read starts over.
type Source struct {
	batches []*batch.Batch
}

func NewSource(batches ...*batch.Batch) *Source {
	return &Source{batches: batches}
}

func (s *Source) Read(ctx context.Context) iter.Seq2[*batch.Batch, error] {
	return func(yield func(*batch.Batch, error) bool) {
		for _, b := range s.batches {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			if !yield(b, nil) {
				return
			}
		}
	}
}

func (s *Source) Close() error {
	return nil
}

// Sink keeps the written batches in memory, in arrival order.
type Sink struct {
	mu      sync.Mutex
	batches []*batch.Batch
	closed  bool
}

func NewSink() *Sink {
	return &Sink{}
}

func (s *Sink) Write(ctx context.Context, batches iter.Seq2[*batch.Batch, error]) error {
	for b, err := range batches {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		s.mu.Lock()
		s.batches = append(s.batches, b)
		s.mu.Unlock()
	}
	return nil
}

// Batches returns the batches written so far.
func (s *Sink) Batches() []*batch.Batch {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*batch.Batch, len(s.batches))
	copy(out, s.batches)
	return out
}

func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *Sink) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
