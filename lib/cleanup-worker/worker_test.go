package cleanupworker

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	notificationstore "schoolconnect-backend/lib/notification/store"
	passwordresetstore "schoolconnect-backend/lib/password-reset/store"
	baseworker "schoolconnect-backend/lib/utils/base-worker"
)

type fakeNotificationStore struct {
	notificationstore.Provider
	before []time.Time
	err    error
}

func (f *fakeNotificationStore) DeleteReadBefore(before time.Time) (int64, error) {
	f.before = append(f.before, before)
	return 3, f.err
}

type fakePasswordResetStore struct {
	passwordresetstore.Provider
	now []time.Time
}

func (f *fakePasswordResetStore) DeleteExpired(now time.Time) (int64, error) {
	f.now = append(f.now, now)
	return 1, nil
}

func TestHandle(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	newWorker := func() (impl, *fakeNotificationStore, *fakePasswordResetStore) {
		notifications := &fakeNotificationStore{}
		resets := &fakePasswordResetStore{}
		return impl{
			BaseImpl:           *baseworker.NewInstance("test", time.Millisecond, time.Millisecond),
			notificationStore:  notifications,
			passwordResetStore: resets,
			retention:          30 * 24 * time.Hour,
			now:                func() time.Time { return now },
		}, notifications, resets
	}

	t.Run(`purges old read notifications and expired codes`, func(t *testing.T) {
		worker, notifications, resets := newWorker()
		worker.handle(context.Background())
		require.Equal(t, []time.Time{now.Add(-30 * 24 * time.Hour)}, notifications.before)
		require.Equal(t, []time.Time{now}, resets.now)
	})
	t.Run(`zero retention keeps notifications`, func(t *testing.T) {
		worker, notifications, resets := newWorker()
		worker.retention = 0
		worker.handle(context.Background())
		require.Empty(t, notifications.before)
		require.Len(t, resets.now, 1)
	})
	t.Run(`notification error does not block codes`, func(t *testing.T) {
		worker, notifications, resets := newWorker()
		notifications.err = errors.New("db is down")
		worker.handle(context.Background())
		require.Len(t, resets.now, 1)
	})
	t.Run(`cancelled context stops early`, func(t *testing.T) {
		worker, _, resets := newWorker()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		worker.handle(ctx)
		require.Empty(t, resets.now)
	})
}
