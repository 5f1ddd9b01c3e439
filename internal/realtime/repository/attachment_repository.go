package repository

import (
	"context"
	"time"
)

// AttachmentSigner sign read url of uploaded attachments
type AttachmentSigner interface {
	SignURL(ctx context.Context, objectKey string) (string, error)
}

// ObjectPresigner subset of database.MinIOClient
type ObjectPresigner interface {
	PresignGetURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
}

type minioSigner struct {
	client ObjectPresigner
	ttl    time.Duration
}

// NewMinIOAttachmentSigner presigned GET url valid for ttl
func NewMinIOAttachmentSigner(client ObjectPresigner, ttl time.Duration) AttachmentSigner {
	return &minioSigner{client: client, ttl: ttl}
}

func (s *minioSigner) SignURL(ctx context.Context, objectKey string) (string, error) {
	return s.client.PresignGetURL(ctx, objectKey, s.ttl)
}
