package lock

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestWithDelay(t *testing.T) {
	t.Run(`free key runs the code`, func(t *testing.T) {
		called := false
		success, err := WithDelay(context.Background(), "free", time.Second, func() error {
			called = true
			return nil
		})
		require.NoError(t, err)
		require.True(t, success)
		require.True(t, called)
	})

	t.Run(`code error is returned`, func(t *testing.T) {
		success, err := WithDelay(context.Background(), "failing", time.Second, func() error {
			return errors.New("boom")
		})
		require.True(t, success)
		require.EqualError(t, err, "boom")
	})

	t.Run(`busy key times out`, func(t *testing.T) {
		started := make(chan struct{})
		release := make(chan struct{})
		go func() {
			_, _ = WithDelay(context.Background(), "busy", time.Second, func() error {
				close(started)
				<-release
				return nil
			})
		}()
		<-started
		success, err := WithDelay(context.Background(), "busy", 100*time.Millisecond, func() error {
			t.Fatal("must not run while the key is held")
			return nil
		})
		close(release)
		require.NoError(t, err)
		require.False(t, success)
	})

	t.Run(`key is released after the run`, func(t *testing.T) {
		_, _ = WithDelay(context.Background(), "reuse", time.Second, func() error { return nil })
		success, _ := WithDelay(context.Background(), "reuse", 100*time.Millisecond, func() error { return nil })
		require.True(t, success)
	})
}
