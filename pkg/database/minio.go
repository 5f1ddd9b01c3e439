package database

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOClient attachment bucket client
type MinIOClient struct {
	Client     *minio.Client
	BucketName string
}

// NewMinIOConnection connect and check the attachment bucket, uploads happen elsewhere so the bucket must exist
func NewMinIOConnection(ctx context.Context, d MinIOConnection) (*MinIOClient, error) {
	cli, err := minio.New(d.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(d.User, d.Password, ""),
		Secure: d.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}

	err = withRetry(ctx, "minIO "+d.Endpoint, d.Retry, func(ctx context.Context) error {
		exists, err := cli.BucketExists(ctx, d.BucketName)
		if err != nil {
			return fmt.Errorf("check bucket [%s]: %w", d.BucketName, err)
		}
		if !exists {
			return fmt.Errorf("bucket [%s] not exist", d.BucketName)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &MinIOClient{Client: cli, BucketName: d.BucketName}, nil
}

// PresignGetURL 生成 attachment 的 Presigned URL
func (m *MinIOClient) PresignGetURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	presignedURL, err := m.Client.PresignedGetObject(ctx, m.BucketName, objectName, expiry, make(url.Values))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", objectName, err)
	}
	return presignedURL.String(), nil
}
