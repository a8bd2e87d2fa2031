package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Prefix marks a snapshot path as routed through the S3 backend
// instead of the local filesystem, per SPEC_FULL.md §4.8.
const S3Prefix = "s3://"

// S3Backend puts and gets snapshot payloads against a single bucket,
// used when SaveSnapshot/LoadSnapshot are given an "s3://bucket/key" path.
type S3Backend struct {
	client *s3.Client
}

// NewS3Backend loads the default AWS credential chain (environment,
// shared config, EC2/ECS role) the way aws-sdk-go-v2 intends callers to.
func NewS3Backend(ctx context.Context) (*S3Backend, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("kestrel: load aws config: %w", err)
	}
	return &S3Backend{client: s3.NewFromConfig(cfg)}, nil
}

// ParseS3URL splits an "s3://bucket/key" path into its parts.
func ParseS3URL(path string) (bucket, key string, ok bool) {
	if !strings.HasPrefix(path, S3Prefix) {
		return "", "", false
	}
	rest := strings.TrimPrefix(path, S3Prefix)
	idx := strings.IndexByte(rest, '/')
	if idx < 0 {
		return rest, "", true
	}
	return rest[:idx], rest[idx+1:], true
}

// Put uploads data to bucket/key.
func (b *S3Backend) Put(ctx context.Context, bucket, key string, data []byte) error {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("kestrel: s3 put %s/%s: %w", bucket, key, err)
	}
	return nil
}

// Get downloads bucket/key.
func (b *S3Backend) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("kestrel: s3 get %s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("kestrel: s3 get %s/%s: %w", bucket, key, err)
	}
	return data, nil
}
