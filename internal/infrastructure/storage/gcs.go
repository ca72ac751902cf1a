package storage

import (
	"context"
	"errors"
	"io"
	"net/url"

	gcs "cloud.google.com/go/storage"
	"github.com/samber/oops"
	"google.golang.org/api/option"

	"github.com/a704/dodream-backend/internal/application"
)

const publicHost = "https://storage.googleapis.com"

// NewClient opens a Cloud Storage client. An empty credentialsFile falls back
// to Application Default Credentials.
func NewClient(ctx context.Context, credentialsFile string, opts ...option.ClientOption) (*gcs.Client, error) {
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, oops.Code("STORAGE_CONNECT").Wrap(err)
	}
	return client, nil
}

// GCSStorage puts material files in one Google Cloud Storage bucket.
type GCSStorage struct {
	Client *gcs.Client
	Bucket string
}

func NewGCSStorage(client *gcs.Client, bucket string) *GCSStorage {
	return &GCSStorage{Client: client, Bucket: bucket}
}

// Upload streams r into objectPath and returns the object's public URL.
// A failed copy aborts the writer so no partial object is committed.
func (s *GCSStorage) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := s.Client.Bucket(s.Bucket).Object(objectPath).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, r); err != nil {
		cancel()
		_ = w.Close()
		return "", oops.Code("STORAGE_WRITE").With("object", objectPath).Wrap(err)
	}
	if err := w.Close(); err != nil {
		return "", oops.Code("STORAGE_WRITE").With("object", objectPath).Wrap(err)
	}
	return PublicURL(s.Bucket, objectPath), nil
}

// Delete removes objectPath. A missing object is not an error.
func (s *GCSStorage) Delete(ctx context.Context, objectPath string) error {
	err := s.Client.Bucket(s.Bucket).Object(objectPath).Delete(ctx)
	if err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return oops.Code("STORAGE_DELETE").With("object", objectPath).Wrap(err)
	}
	return nil
}

// PublicURL is the storage.googleapis.com address of an object in bucket.
func PublicURL(bucket, objectPath string) string {
	return publicHost + "/" + url.PathEscape(bucket) + "/" + (&url.URL{Path: objectPath}).EscapedPath()
}

var _ application.ObjectStorage = (*GCSStorage)(nil)
