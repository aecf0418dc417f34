package s3client

import (
	"context"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
)

var Client *minio.Client

const location = "us-east-1"

func Connect(endpoint, accessKeyID, secretAccessKey string, useSSL bool) error {
	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKeyID, secretAccessKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return errors.Wrap(err, "s3 client init failed")
	}
	Client = minioClient
	return nil
}

// MakeBucket creates the bucket when it does not exist yet
func MakeBucket(ctx context.Context, bucketName string) error {
	if Client == nil {
		return errors.New("s3 client is not initialized")
	}
	exists, err := Client.BucketExists(ctx, bucketName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return Client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: location})
}
