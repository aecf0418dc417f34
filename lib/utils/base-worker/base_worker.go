package baseworker

import (
	"context"
	"runtime/debug"
	"time"

	log "github.com/sirupsen/logrus"
)

type JobFunc func(ctx context.Context)

type BaseImpl struct {
	WorkerName    string
	firstRunDelay time.Duration
	runInterval   time.Duration
	// RunTimeout bounds a single job run, zero means no limit
	RunTimeout time.Duration
}

func NewInstance(workerName string, firstRunDelay, runInterval time.Duration) *BaseImpl {
	if runInterval <= 0 {
		runInterval = time.Minute
	}
	return &BaseImpl{
		WorkerName:    workerName,
		firstRunDelay: firstRunDelay,
		runInterval:   runInterval,
	}
}

func (i BaseImpl) GetLogger() *log.Entry {
	return log.WithField("worker_name", i.WorkerName)
}

// Run calls job after firstRunDelay and then on every tick of runInterval until ctx is done
func (i BaseImpl) Run(ctx context.Context, job JobFunc) {
	logger := i.GetLogger()
	select {
	case <-ctx.Done():
		logger.Info("worker stopped before first run")
		return
	case <-time.After(i.firstRunDelay):
	}
	ticker := time.NewTicker(i.runInterval)
	defer ticker.Stop()
	for {
		i.runOnce(ctx, job)
		select {
		case <-ctx.Done():
			logger.Info("worker stopped")
			return
		case <-ticker.C:
		}
	}
}

func (i BaseImpl) runOnce(ctx context.Context, job JobFunc) {
	if ctx.Err() != nil {
		return
	}
	logger := i.GetLogger()
	defer func() {
		if r := recover(); r != nil {
			logger.
				WithField("panic_stack", string(debug.Stack())).
				Errorf("panic: (%v)", r)
		}
	}()
	if i.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.RunTimeout)
		defer cancel()
	}
	started := time.Now()
	job(ctx)
	logger.WithField("duration", time.Since(started).String()).Debug("job finished")
}
