package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// AvatarStore keeps profile pictures in a MinIO/S3 bucket.
type AvatarStore struct {
	client *minio.Client
	bucket string
}

// NewAvatarStore connects to the object store and ensures the bucket exists.
func NewAvatarStore(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool) (*AvatarStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect object store: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return &AvatarStore{client: client, bucket: bucket}, nil
}

// ObjectKey builds a date-partitioned key, unique per upload so overwrites of
// the same filename never collide.
func (s *AvatarStore) ObjectKey(userID uint, filename string) string {
	now := time.Now().UTC()
	return fmt.Sprintf("avatars/%s/%d-%s%s",
		now.Format("2006/01/02"), userID, uuid.New().String(), path.Ext(filename))
}

// Put streams the object into the bucket.
func (s *AvatarStore) Put(ctx context.Context, objectKey string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, objectKey, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}
