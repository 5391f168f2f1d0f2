// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"
	"sync/atomic"

	"github.com/parmahealth/parma/internal/postgres"
)

type Querier struct {
	QueryFn    func(ctx context.Context, i uint, query string, args ...any) (postgres.Rows, error)
	PingFn     func(context.Context) error
	CloseFn    func(context.Context) error
	queryCalls uint32
}

func (m *Querier) Query(ctx context.Context, query string, args ...any) (postgres.Rows, error) {
	i := atomic.AddUint32(&m.queryCalls, 1)
	return m.QueryFn(ctx, uint(i), query, args...)
}

func (m *Querier) Ping(ctx context.Context) error {
	if m.PingFn != nil {
		return m.PingFn(ctx)
	}
	return nil
}

func (m *Querier) Close(ctx context.Context) error {
	if m.CloseFn != nil {
		return m.CloseFn(ctx)
	}
	return nil
}
