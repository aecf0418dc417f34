package cleanupworker

import (
	"context"
	"time"

	"schoolconnect-backend/config"
	"schoolconnect-backend/db"
	notificationstore "schoolconnect-backend/lib/notification/store"
	passwordresetstore "schoolconnect-backend/lib/password-reset/store"
	baseworker "schoolconnect-backend/lib/utils/base-worker"
	"schoolconnect-backend/lib/utils/helpers"
)

func StartWorker(ctx context.Context) {
	base := baseworker.NewInstance("CleanupWorker", 30*time.Second,
		time.Duration(config.Conf.Workers.CleanupIntervalMin)*time.Minute)
	base.RunTimeout = 5 * time.Minute
	i := &impl{
		BaseImpl:           *base,
		notificationStore:  notificationstore.NewInstance(db.DB),
		passwordResetStore: passwordresetstore.NewInstance(db.DB),
		retention:          time.Duration(config.Conf.Workers.NotificationRetentionDays) * 24 * time.Hour,
		now:                time.Now,
	}
	go i.Run(ctx, i.handle)
}

type impl struct {
	baseworker.BaseImpl
	notificationStore  notificationstore.Provider
	passwordResetStore passwordresetstore.Provider
	retention          time.Duration
	now                func() time.Time
}

func (i impl) handle(ctx context.Context) {
	logger := i.GetLogger()
	now := i.now()
	if i.retention > 0 {
		count, err := i.notificationStore.DeleteReadBefore(now.Add(-i.retention))
		if err != nil {
			logger.WithError(err).Error("read notifications purge failed")
		} else if count > 0 {
			logger.WithField("count", count).Info("read notifications purged")
		}
	}
	if helpers.IsContextDone(ctx) {
		return
	}
	count, err := i.passwordResetStore.DeleteExpired(now)
	if err != nil {
		logger.WithError(err).Error("expired reset codes purge failed")
		return
	}
	if count > 0 {
		logger.WithField("count", count).Info("expired reset codes purged")
	}
}
