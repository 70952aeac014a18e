package storage

import (
	"context"
	"path"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relnotes/pkg/domain/model"
	"google.golang.org/api/option"
)

// GCS uploads artifacts to a Cloud Storage bucket
type GCS struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewGCS creates a Cloud Storage store. Credentials are resolved by the
// Google client libraries unless options override them.
func NewGCS(ctx context.Context, bucket, prefix string, opts ...option.ClientOption) (*GCS, error) {
	if bucket == "" {
		return nil, goerr.New("bucket name is required")
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Cloud Storage client", goerr.V("bucket", bucket))
	}

	return &GCS{client: client, bucket: bucket, prefix: prefix}, nil
}

// ObjectName returns the object path an artifact is stored under
func (s *GCS) ObjectName(name string) string {
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

// Save uploads data as a PDF object
func (s *GCS) Save(ctx context.Context, name string, data []byte) (*model.Artifact, error) {
	object := s.ObjectName(name)

	w := s.client.Bucket(s.bucket).Object(object).NewWriter(ctx)
	w.ContentType = "application/pdf"
	w.ContentDisposition = `attachment; filename="` + name + `"`

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, goerr.Wrap(err, "failed to upload artifact", goerr.V("bucket", s.bucket), goerr.V("object", object))
	}
	if err := w.Close(); err != nil {
		return nil, goerr.Wrap(err, "failed to finalize upload", goerr.V("bucket", s.bucket), goerr.V("object", object))
	}

	location := "gs://" + s.bucket + "/" + object
	ctxlog.From(ctx).Info("Uploaded artifact", "location", location, "size_bytes", len(data))

	return &model.Artifact{Name: name, Location: location, Size: len(data)}, nil
}

// Close releases the underlying client
func (s *GCS) Close() error {
	return s.client.Close()
}
