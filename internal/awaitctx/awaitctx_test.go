package awaitctx

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestFromContext_NoAmbient(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))
}

func TestWithContext_RoundTrip(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := NewDispatcher()
	defer d.Close()

	ctx := WithContext(context.Background(), d)
	assert.Same(t, d, FromContext(ctx))
}

func TestResume_InlineWithoutAmbient(t *testing.T) {
	for _, captured := range []bool{true, false} {
		ran := false
		err := Resume(context.Background(), captured, func(context.Context) error {
			ran = true
			return nil
		})
		require.NoError(t, err)
		assert.True(t, ran)
	}
}

func TestResume_CapturedWaitsForDispatcher(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := NewDispatcher()
	defer d.Close()
	ctx := WithContext(context.Background(), d)

	// occupy the dispatcher
	gate := make(chan struct{})
	require.NoError(t, d.Post(func() { <-gate }))

	released := make(chan struct{})
	go func() {
		_ = Resume(ctx, false, nil)
		close(released)
	}()
	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatal("released continuation should not wait for the dispatcher")
	}

	captured := make(chan struct{})
	go func() {
		_ = Resume(ctx, true, nil)
		close(captured)
	}()
	select {
	case <-captured:
		t.Fatal("captured continuation ran while the dispatcher was busy")
	case <-time.After(20 * time.Millisecond):
	}

	close(gate)
	select {
	case <-captured:
	case <-time.After(time.Second):
		t.Fatal("captured continuation never ran")
	}
}

func TestResume_PropagatesError(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := NewDispatcher()
	defer d.Close()
	ctx := WithContext(context.Background(), d)
	boom := errors.New("boom")

	assert.ErrorIs(t, Resume(ctx, true, func(context.Context) error { return boom }), boom)
	assert.ErrorIs(t, Resume(ctx, false, func(context.Context) error { return boom }), boom)
}

func TestResume_CapturedIsSerialized(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := NewDispatcher()
	defer d.Close()
	ctx := WithContext(context.Background(), d)

	var (
		mu      sync.Mutex
		active  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = Resume(ctx, true, func(context.Context) error {
				mu.Lock()
				active++
				if active > maxSeen {
					maxSeen = active
				}
				mu.Unlock()
				time.Sleep(time.Millisecond)
				mu.Lock()
				active--
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxSeen)
}

func TestResume_NestedCapturedRunsInline(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := NewDispatcher()
	defer d.Close()
	ctx := WithContext(context.Background(), d)
	assert.False(t, OnDispatcher(ctx))

	done := make(chan error, 1)
	var innerRan bool
	go func() {
		done <- Resume(ctx, true, func(ctx context.Context) error {
			assert.True(t, OnDispatcher(ctx))
			return Resume(ctx, true, func(ctx context.Context) error {
				innerRan = true
				return Resume(ctx, false, nil)
			})
		})
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
		assert.True(t, innerRan)
	case <-time.After(time.Second):
		t.Fatal("nested captured resume deadlocked on its own dispatcher")
	}
}

func TestOnDispatcher_OtherDispatcher(t *testing.T) {
	defer goleak.VerifyNone(t)

	a, b := NewDispatcher(), NewDispatcher()
	defer a.Close()
	defer b.Close()

	err := Resume(WithContext(context.Background(), a), true, func(ctx context.Context) error {
		// switching ambient context means the next captured resume must hop
		ctx = WithContext(ctx, b)
		assert.False(t, OnDispatcher(ctx))
		return Resume(ctx, true, func(ctx context.Context) error {
			assert.True(t, OnDispatcher(ctx))
			return nil
		})
	})
	require.NoError(t, err)
}

func TestResume_ClosedDispatcher(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := NewDispatcher()
	d.Close()
	d.Close()

	ctx := WithContext(context.Background(), d)
	assert.ErrorIs(t, Resume(ctx, true, nil), ErrDispatcherClosed)
	assert.NoError(t, Resume(ctx, false, nil))
}

func TestResume_CancelledWhileWaiting(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := NewDispatcher()
	defer d.Close()

	gate := make(chan struct{})
	require.NoError(t, d.Post(func() { <-gate }))

	ctx, cancel := context.WithCancel(WithContext(context.Background(), d))
	cancel()
	err := Resume(ctx, true, nil)
	close(gate)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDelay(t *testing.T) {
	defer goleak.VerifyNone(t)

	start := time.Now()
	require.NoError(t, Delay(context.Background(), 10*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)

	assert.NoError(t, Delay(context.Background(), 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Delay(ctx, time.Hour), context.Canceled)
}
