// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"
	"sync/atomic"

	"github.com/parmahealth/parma/pkg/kafka"
)

type Writer struct {
	WriteMessagesFn func(context.Context, uint64, ...kafka.Message) error
	CloseFn         func() error
	writeCalls      uint64
}

func (m *Writer) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	i := atomic.AddUint64(&m.writeCalls, 1)
	return m.WriteMessagesFn(ctx, i, msgs...)
}

func (m *Writer) Close() error {
	if m.CloseFn != nil {
		return m.CloseFn()
	}
	return nil
}

func (m *Writer) GetWriteCalls() uint64 {
	return atomic.LoadUint64(&m.writeCalls)
}
