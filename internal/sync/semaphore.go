// SPDX-License-Identifier: Apache-2.0

package sync

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// WeightedSemaphore bounds the number of batches processed concurrently.
type WeightedSemaphore interface {
	TryAcquire(int64) bool
	Acquire(context.Context, int64) error
	Release(int64)
}

// NewWeightedSemaphore returns a semaphore of the given size. Sizes below 1
// are raised to 1, so at least one holder is always admitted.
func NewWeightedSemaphore(size int64) WeightedSemaphore {
	return semaphore.NewWeighted(max(size, 1))
}
