package blobstore

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// BlobStore uploads banner images to a MinIO bucket and hands back their
// public URLs. Blogs only ever reference banners through these URLs.
type BlobStore struct {
	client *minio.Client
	bucket string
}

func NewBlobStore(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool) (*BlobStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("could not check bucket: %w", err)
	}

	if !exists {
		err = client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{})
		if err != nil {
			return nil, fmt.Errorf("could not create bucket: %w", err)
		}
	}

	return &BlobStore{client: client, bucket: bucket}, nil
}

// Upload stores data under key and returns the public URL of the object.
func (s *BlobStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	reader := bytes.NewReader(data)

	_, err := s.client.PutObject(ctx, s.bucket, key, reader, int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("could not upload object: %w", err)
	}

	return fmt.Sprintf("%s/%s/%s", s.PublicBaseURL(), s.bucket, key), nil
}

// PublicBaseURL is the trusted prefix every uploaded banner URL starts with.
// The banner validator checks candidate URLs against it.
func (s *BlobStore) PublicBaseURL() string {
	return s.client.EndpointURL().String()
}

// Delete removes an uploaded object.
func (s *BlobStore) Delete(ctx context.Context, key string) error {
	err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("could not remove object: %w", err)
	}

	return nil
}
