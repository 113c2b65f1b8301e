package objectstorage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Scheme is the URL scheme handled by the S3 object store.
const Scheme = "s3://"

// ObjectStore is the interface for reading from an external object storage service such as AWS S3
type ObjectStore interface {
	DownloadObject(ctx context.Context, path string) (io.ReadCloser, error)
}

// SplitS3Path splits s3://bucket/key into its bucket and key.
func SplitS3Path(path string) (bucket string, key string, err error) {
	if !strings.HasPrefix(path, Scheme) {
		return "", "", fmt.Errorf("path does not contain s3:// protocol prefix: %s", path)
	}
	bucket, key, found := strings.Cut(path[len(Scheme):], "/")
	if !found || bucket == "" || key == "" {
		return "", "", fmt.Errorf("error occurred when retrieving bucket and key from: %s", path)
	}
	return bucket, key, nil
}

// s3API is the subset of *s3.Client used here.
type s3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type awsS3ObjectStore struct {
	s3Client s3API
}

func NewAwsS3ObjectStore(cfg aws.Config) ObjectStore {
	return &awsS3ObjectStore{s3Client: s3.NewFromConfig(cfg)}
}

func (store *awsS3ObjectStore) DownloadObject(ctx context.Context, path string) (io.ReadCloser, error) {
	s3Bucket, s3Key, err := SplitS3Path(path)
	if err != nil {
		return nil, err
	}
	out, err := store.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s3Bucket),
		Key:    aws.String(s3Key),
	})
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", path, err)
	}
	return out.Body, nil
}
