// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"
	"sync/atomic"

	"github.com/parmahealth/parma/pkg/batch"
)

type Processor struct {
	ProcessFn    func(ctx context.Context, i uint, b *batch.Batch) (*batch.Batch, error)
	processCalls uint64
}

func (m *Processor) Process(ctx context.Context, b *batch.Batch) (*batch.Batch, error) {
	i := atomic.AddUint64(&m.processCalls, 1)
	return m.ProcessFn(ctx, uint(i), b)
}

func (m *Processor) ProcessCalls() uint {
	return uint(atomic.LoadUint64(&m.processCalls))
}
