// SPDX-License-Identifier: Apache-2.0

package mocks

// Bar records the rows added to it. AddFn and Add64Fn, when set, can fail
// the call after the rows have been recorded.
type Bar struct {
	AddFn   func(rows int) error
	Add64Fn func(rows int64) error
	CloseFn func() error

	rows   int64
	closed bool
}

func (b *Bar) Add(n int) error {
	b.rows += int64(n)
	if b.AddFn != nil {
		return b.AddFn(n)
	}
	return nil
}

func (b *Bar) Add64(n int64) error {
	b.rows += n
	if b.Add64Fn != nil {
		return b.Add64Fn(n)
	}
	return nil
}

func (b *Bar) Close() error {
	b.closed = true
	if b.CloseFn != nil {
		return b.CloseFn()
	}
	return nil
}

func (b *Bar) Rows() int64 {
	return b.rows
}

func (b *Bar) IsClosed() bool {
	return b.closed
}
