// SPDX-License-Identifier: Apache-2.0

package batch

import (
	"context"
	"iter"
)

// Source produces a lazy, finite sequence of batches. The sequence is single
// pass: once exhausted, a new one must be requested with another Read call.
// Errors are yielded in place of a batch and end the sequence, including
// ErrNotFound when the underlying resource does not exist.
type Source interface {
	Read(ctx context.Context) iter.Seq2[*Batch, error]
	Close() error
}

// Sink persists a sequence of batches in arrival order. The first error
// yielded by the sequence aborts the write and is returned unmodified.
type Sink interface {
	Write(ctx context.Context, batches iter.Seq2[*Batch, error]) error
	Close() error
}

// Seq returns a sequence yielding the batches on input.
func Seq(batches ...*Batch) iter.Seq2[*Batch, error] {
	return func(yield func(*Batch, error) bool) {
		for _, b := range batches {
			if !yield(b, nil) {
				return
			}
		}
	}
}

// ErrSeq returns a sequence that yields err and stops.
func ErrSeq(err error) iter.Seq2[*Batch, error] {
	return func(yield func(*Batch, error) bool) {
		yield(nil, err)
	}
}

// Collect drains the sequence into memory, stopping at the first error.
func Collect(seq iter.Seq2[*Batch, error]) ([]*Batch, error) {
	var batches []*Batch
	for b, err := range seq {
		if err != nil {
			return batches, err
		}
		batches = append(batches, b)
	}
	return batches, nil
}

// Map returns a sequence applying fn to every batch of seq, lazily. An error
// from seq or fn is yielded and ends the sequence.
func Map(seq iter.Seq2[*Batch, error], fn func(*Batch) (*Batch, error)) iter.Seq2[*Batch, error] {
	return func(yield func(*Batch, error) bool) {
		for b, err := range seq {
			if err != nil {
				yield(nil, err)
				return
			}
			out, err := fn(b)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(out, nil) {
				return
			}
		}
	}
}

// Tee returns a sequence that yields the batches of seq unchanged and calls
// fn with each of them before doing so. An error from fn ends the sequence.
func Tee(seq iter.Seq2[*Batch, error], fn func(*Batch) error) iter.Seq2[*Batch, error] {
	return Map(seq, func(b *Batch) (*Batch, error) {
		if err := fn(b); err != nil {
			return nil, err
		}
		return b, nil
	})
}
