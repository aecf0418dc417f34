package initializers

import (
	"context"
	"time"

	"schoolconnect-backend/config"
	"schoolconnect-backend/fiberlog"
	adminhandler "schoolconnect-backend/lib/admin"
	applicationhandler "schoolconnect-backend/lib/application"
	authhandler "schoolconnect-backend/lib/auth"
	cleanupworker "schoolconnect-backend/lib/cleanup-worker"
	xlsexport "schoolconnect-backend/lib/export/xls"
	jobhandler "schoolconnect-backend/lib/job"
	notificationhandler "schoolconnect-backend/lib/notification"
	passwordreset "schoolconnect-backend/lib/password-reset"
	"schoolconnect-backend/lib/rbac"
	resumehandler "schoolconnect-backend/lib/resume"
	usershandler "schoolconnect-backend/lib/users"
	connectionhub "schoolconnect-backend/lib/ws/hub/connection-hub"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitS3(ctx)
	InitSmtp()
	InitRedis(ctx)
	connectionhub.Init()
	xlsexport.NewHandler()
	// handlers keep the Instance of their dependencies, order matters
	notificationhandler.NewHandler()
	passwordreset.NewHandler()
	authhandler.NewHandler()
	usershandler.NewHandler()
	jobhandler.NewHandler()
	applicationhandler.NewHandler()
	resumehandler.NewHandler()
	adminhandler.NewHandler()
	rbac.NewHandler()
	go initWorkers(ctx)
}

func initWorkers(ctx context.Context) {
	if makeTimeGap(ctx) {
		// read notifications and expired reset codes
		cleanupworker.StartWorker(ctx)
	}
}

func makeTimeGap(ctx context.Context) (canRun bool) {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(time.Second * 10):
		return true
	}
}
