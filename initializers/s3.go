package initializers

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"schoolconnect-backend/config"
	filestorage "schoolconnect-backend/lib/file-storage"
	s3client "schoolconnect-backend/s3"
)

func InitS3(ctx context.Context) {
	conf := config.Conf.S3
	logger := log.WithField("endpoint", conf.Endpoint).WithField("bucket", conf.BucketName)
	err := s3client.Connect(conf.Endpoint, conf.AccessKeyID, conf.SecretAccessKey, *conf.UseSSL)
	if err != nil {
		logger.WithError(err).Error("s3 client init failed")
	} else {
		bucketCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err = s3client.MakeBucket(bucketCtx, conf.BucketName); err != nil {
			// resume uploads fail until storage is reachable, the rest of the api keeps working
			logger.WithError(err).Error("s3 bucket check failed")
		} else {
			logger.Info("s3 client initialized")
		}
	}
	filestorage.NewHandler(s3client.Client, conf.BucketName)
}
