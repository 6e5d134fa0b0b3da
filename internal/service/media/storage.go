package media

import (
	"context"
	"fmt"
	"path"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// StorageStore implements Uploader against a Cloud Storage bucket for
// colocated deployments without a separate image host.
type StorageStore struct {
	bucket *storage.BucketHandle
	prefix string
}

// NewStorageStore creates a bucket-backed uploader. Objects are written
// under the given prefix (e.g. "avatars").
func NewStorageStore(bucket *storage.BucketHandle, prefix string) *StorageStore {
	return &StorageStore{bucket: bucket, prefix: prefix}
}

// Upload writes the image to a uniquely named object and returns the
// object name as the avatar reference.
func (s *StorageStore) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	name := uuid.NewString() + path.Ext(filename)
	if s.prefix != "" {
		name = s.prefix + "/" + name
	}

	w := s.bucket.Object(name).NewWriter(ctx)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("writing object: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("closing object: %w", err)
	}
	return name, nil
}

// Compile-time interface check
var _ Uploader = (*StorageStore)(nil)
