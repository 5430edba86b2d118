package copier

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/arthur-debert/brandsync/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMutationGateSerializes(t *testing.T) {
	gate := NewMutationGate()

	var inside, maxInside atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := gate.Run(context.Background(), func() error {
				n := inside.Add(1)
				for {
					m := maxInside.Load()
					if n <= m || maxInside.CompareAndSwap(m, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				inside.Add(-1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside.Load())
}

func TestMutationGateCancelledWhileWaiting(t *testing.T) {
	gate := NewMutationGate()
	release := make(chan struct{})
	held := make(chan struct{})

	go func() {
		_ = gate.Run(context.Background(), func() error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	ran := false
	err := gate.Run(ctx, func() error { ran = true; return nil })

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrCopyFailed))
	assert.False(t, ran)
	close(release)
}

func TestMutationGateReleasedAfterPanic(t *testing.T) {
	gate := NewMutationGate()

	func() {
		defer func() { _ = recover() }()
		_ = gate.Run(context.Background(), func() error { panic("boom") })
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	ran := false
	require.NoError(t, gate.Run(ctx, func() error { ran = true; return nil }))
	assert.True(t, ran)
}
