package copier

import (
	"context"

	"github.com/arthur-debert/brandsync/pkg/errors"
	"golang.org/x/sync/semaphore"
)

// MutationGate admits one structural filesystem mutation at a time.
// Copies sharing a gate never interleave their mutation phases.
type MutationGate struct {
	sem *semaphore.Weighted
}

// NewMutationGate creates an open gate
func NewMutationGate() *MutationGate {
	return &MutationGate{sem: semaphore.NewWeighted(1)}
}

// Run waits for the gate, runs fn and releases the gate. It gives up when ctx
// is cancelled while waiting.
func (g *MutationGate) Run(ctx context.Context, fn func() error) error {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return errors.Wrap(err, errors.ErrCopyFailed, "cancelled while waiting for mutation gate")
	}
	defer g.sem.Release(1)
	return fn()
}
