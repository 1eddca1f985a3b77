package cache

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/adampresley/adamgokit/s3"
	"github.com/adampresley/adamgokit/s3/createbucketoptions"
	"github.com/adampresley/adamgokit/s3/getoptions"
	"github.com/adampresley/adamgokit/s3/listoptions"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

/*
ObjectStorer is the slice of object storage the thumbnail cache needs.
Keys are relative to the store's bucket.
*/
type ObjectStorer interface {
	EnsureBucket() error
	Get(ctx context.Context, key string) ([]byte, error)
	Put(key string, body io.Reader) error
	Delete(keys []string) error
	ListOlderThan(prefix string, cutoff time.Time) ([]string, error)
}

type S3ObjectStoreConfig struct {
	Bucket   string
	Region   string
	S3Client s3.S3Client
}

type S3ObjectStore struct {
	bucket   string
	region   string
	s3Client s3.S3Client
}

func NewS3ObjectStore(config S3ObjectStoreConfig) S3ObjectStore {
	return S3ObjectStore{
		bucket:   config.Bucket,
		region:   config.Region,
		s3Client: config.S3Client,
	}
}

func (s S3ObjectStore) EnsureBucket() error {
	var (
		err    error
		exists bool
	)

	if exists, err = s.s3Client.BucketExists(s.bucket); err != nil {
		return fmt.Errorf("error ensuring bucket '%s' exists: %w", s.bucket, err)
	}

	if exists {
		return nil
	}

	slog.Info("creating bucket", "bucketName", s.bucket)

	if err = s.s3Client.CreateBucket(s.bucket, createbucketoptions.WithRegion(s.region)); err != nil {
		return fmt.Errorf("error creating bucket '%s': %w", s.bucket, err)
	}

	return nil
}

func (s S3ObjectStore) Get(ctx context.Context, key string) ([]byte, error) {
	var (
		err    error
		object s3.GetObjectResponse
		b      []byte
	)

	if object, err = s.s3Client.Get(s.bucket, key, getoptions.WithContext(ctx)); err != nil {
		return nil, fmt.Errorf("error getting object '%s': %w", key, err)
	}

	defer object.Body.Close()

	if b, err = io.ReadAll(object.Body); err != nil {
		return nil, fmt.Errorf("error reading object '%s': %w", key, err)
	}

	return b, nil
}

func (s S3ObjectStore) Put(key string, body io.Reader) error {
	if _, err := s.s3Client.Put(s.bucket, key, body); err != nil {
		return fmt.Errorf("error uploading object '%s': %w", key, err)
	}

	return nil
}

func (s S3ObjectStore) Delete(keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	if _, err := s.s3Client.Delete(s.bucket, keys); err != nil {
		return fmt.Errorf("error deleting %d objects: %w", len(keys), err)
	}

	return nil
}

/*
ListOlderThan returns the keys under prefix last modified before cutoff.
*/
func (s S3ObjectStore) ListOlderThan(prefix string, cutoff time.Time) ([]string, error) {
	var (
		err      error
		response s3.ListResponse
	)

	response, err = s.s3Client.List(
		s.bucket,
		prefix,
		listoptions.WithGetAll(),
		listoptions.WithFilter(func(obj types.Object) bool {
			return aws.ToTime(obj.LastModified).Before(cutoff) &&
				!strings.HasSuffix(aws.ToString(obj.Key), "/")
		}),
	)

	if err != nil {
		return nil, fmt.Errorf("error listing objects under '%s': %w", prefix, err)
	}

	result := make([]string, 0, len(response.Objects))

	for _, obj := range response.Objects {
		result = append(result, obj.Key)
	}

	return result, nil
}
