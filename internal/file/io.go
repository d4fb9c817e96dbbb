// Package file writes files to the public object storage bucket.
package file

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
)

// NewIO returns an IO writing to bucket. The client may be nil, in which case
// writes report no URL rather than failing, and callers proceed without the
// uploaded asset.
func NewIO(storage *storage.Client, bucket string) *IO {
	return &IO{
		storage: storage,
		bucket:  bucket,
	}
}

type IO struct {
	storage *storage.Client
	bucket  string
}

// WriteFile writes data to path in the bucket and returns the public URL of
// the object. Returns an empty URL and no error when storage is unconfigured.
func (io *IO) WriteFile(ctx context.Context, path string, contentType string, data []byte) (string, error) {
	if io.storage == nil || io.bucket == "" {
		return "", nil
	}
	wc := io.storage.Bucket(io.bucket).Object(path).NewWriter(ctx)
	defer func() {
		_ = wc.Close()
	}()
	wc.ContentType = contentType
	if _, err := wc.Write(data); err != nil {
		return "", fmt.Errorf("file: writing file: %w", err)
	}
	url := fmt.Sprintf("https://storage.googleapis.com/%s/%s", io.bucket, path)
	return url, nil
}
