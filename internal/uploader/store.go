package uploader

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/philharmonia/harmony/internal/r2"
)

// ObjectStore is the slice of the object-storage API the uploader needs.
type ObjectStore interface {
	HeadBucket(ctx context.Context, bucket string) error
	CreateBucket(ctx context.Context, bucket string) error
	PutFile(ctx context.Context, bucket, key, path string) error
}

type bucketAPI interface {
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, in *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
}

type uploadAPI interface {
	Upload(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// s3Store implements ObjectStore on top of an S3 client. Files go through
// the transfer manager, which switches to multipart for large objects.
type s3Store struct {
	buckets  bucketAPI
	uploader uploadAPI
}

var _ ObjectStore = (*s3Store)(nil)

// NewS3Store connects to the R2 account described by cfg.
func NewS3Store(ctx context.Context, cfg *Config) (ObjectStore, error) {
	client, err := r2.NewClient(ctx, cfg.Credentials(), cfg.Endpoint)
	if err != nil {
		return nil, err
	}
	return &s3Store{buckets: client, uploader: manager.NewUploader(client)}, nil
}

func (s *s3Store) HeadBucket(ctx context.Context, bucket string) error {
	_, err := s.buckets.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
	return err
}

func (s *s3Store) CreateBucket(ctx context.Context, bucket string) error {
	_, err := s.buckets.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(bucket)})
	return err
}

func (s *s3Store) PutFile(ctx context.Context, bucket, key, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        f,
		ACL:         types.ObjectCannedACLPublicRead,
		ContentType: aws.String(contentType(path)),
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}
