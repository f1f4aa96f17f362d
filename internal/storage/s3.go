package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/rmagbanua/nanaycare-api/internal/config"
)

// Logical buckets the application writes to.
type Bucket string

const (
	BucketAttachments Bucket = "attachments"
	BucketPhotos      Bucket = "photos"
	BucketMaterials   Bucket = "materials"
)

// BlobStore abstracts uploads of record attachments, profile photos, and
// material images.
type BlobStore interface {
	Upload(ctx context.Context, bucket Bucket, key string, data []byte) (string, error)
	PublicURL(bucket Bucket, key string) string
}

type s3Store struct {
	client  *s3.Client
	cfg     config.StorageConfig
	buckets map[Bucket]string
}

func NewS3Store(ctx context.Context, cfg config.StorageConfig) (BlobStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	opts := s3.Options{
		Region:       awsCfg.Region,
		Credentials:  awsCfg.Credentials,
		HTTPClient:   awsCfg.HTTPClient,
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = &cfg.Endpoint
	}

	return &s3Store{
		client: s3.New(opts),
		cfg:    cfg,
		buckets: map[Bucket]string{
			BucketAttachments: cfg.AttachmentBucket,
			BucketPhotos:      cfg.PhotoBucket,
			BucketMaterials:   cfg.MaterialBucket,
		},
	}, nil
}

func (s *s3Store) Upload(ctx context.Context, bucket Bucket, key string, data []byte) (string, error) {
	name, ok := s.buckets[bucket]
	if !ok || name == "" {
		return "", fmt.Errorf("unknown storage bucket %q", bucket)
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &name,
		Key:    &key,
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s/%s: %w", name, key, err)
	}
	return key, nil
}

func (s *s3Store) PublicURL(bucket Bucket, key string) string {
	name := s.buckets[bucket]
	base := strings.TrimSuffix(s.cfg.PublicBaseURL, "/")
	return fmt.Sprintf("%s/%s/%s", base, name, key)
}
