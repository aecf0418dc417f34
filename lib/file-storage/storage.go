package filestorage

import (
	"bytes"
	"context"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
)

type Provider interface {
	PutObject(ctx context.Context, key string, body []byte, contentType string) error
	GetObject(ctx context.Context, key string) ([]byte, error)
	RemoveObject(ctx context.Context, key string) error
}

var Instance Provider

func NewHandler(s3client *minio.Client, bucketName string) {
	Instance = &impl{
		s3client:   s3client,
		bucketName: bucketName,
	}
}

type impl struct {
	s3client   *minio.Client
	bucketName string
}

func (i impl) PutObject(ctx context.Context, key string, body []byte, contentType string) error {
	if i.s3client == nil {
		return errors.New("object storage is not configured")
	}
	_, err := i.s3client.PutObject(ctx, i.bucketName, key, bytes.NewReader(body), int64(len(body)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return errors.Wrap(err, "object upload failed")
	}
	return nil
}

func (i impl) GetObject(ctx context.Context, key string) ([]byte, error) {
	if i.s3client == nil {
		return nil, errors.New("object storage is not configured")
	}
	object, err := i.s3client.GetObject(ctx, i.bucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(err, "object download failed")
	}
	defer object.Close()
	body, err := io.ReadAll(object)
	if err != nil {
		return nil, errors.Wrap(err, "object read failed")
	}
	return body, nil
}

func (i impl) RemoveObject(ctx context.Context, key string) error {
	if i.s3client == nil {
		return errors.New("object storage is not configured")
	}
	err := i.s3client.RemoveObject(ctx, i.bucketName, key, minio.RemoveObjectOptions{})
	if err != nil {
		return errors.Wrap(err, "object remove failed")
	}
	return nil
}
