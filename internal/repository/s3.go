package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the subset of the S3 client used by S3Repository.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// S3Repository keeps artifacts in a bucket under an optional key prefix.
type S3Repository struct {
	client S3API
	bucket string
	prefix string
}

// OpenS3 builds an S3 client from the default AWS credential chain.
func OpenS3(ctx context.Context, bucket, prefix string) (*S3Repository, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading AWS configuration: %w", err)
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	return NewS3Repository(s3.NewFromConfig(cfg), bucket, prefix), nil
}

// NewS3Repository returns a repository backed by client.
func NewS3Repository(client S3API, bucket, prefix string) *S3Repository {
	return &S3Repository{client: client, bucket: bucket, prefix: path.Clean("/" + prefix)[1:]}
}

// Location implements Repository.
func (r *S3Repository) Location() string {
	if r.prefix == "" {
		return "s3://" + r.bucket
	}
	return "s3://" + r.bucket + "/" + r.prefix
}

func (r *S3Repository) objectKey(key string) (string, error) {
	name, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	if r.prefix == "" {
		return name, nil
	}
	return r.prefix + "/" + name, nil
}

// Put implements Repository.
func (r *S3Repository) Put(ctx context.Context, key string, body io.ReadSeeker) error {
	objectKey, err := r.objectKey(key)
	if err != nil {
		return err
	}
	if err := rewind(body); err != nil {
		return err
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(objectKey),
		Body:   body,
	}
	if ct := mime.TypeByExtension(path.Ext(objectKey)); ct != "" {
		input.ContentType = aws.String(ct)
	}
	if _, err := r.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("uploading s3://%s/%s: %w", r.bucket, objectKey, err)
	}
	return nil
}

// Delete implements Repository.
func (r *S3Repository) Delete(ctx context.Context, key string) error {
	objectKey, err := r.objectKey(key)
	if err != nil {
		return err
	}
	if _, err := r.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(objectKey),
	}); err != nil {
		return fmt.Errorf("deleting s3://%s/%s: %w", r.bucket, objectKey, err)
	}
	return nil
}

// Exists implements Repository.
func (r *S3Repository) Exists(ctx context.Context, key string) (bool, error) {
	objectKey, err := r.objectKey(key)
	if err != nil {
		return false, err
	}
	_, err = r.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(objectKey),
	})
	if err == nil {
		return true, nil
	}
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return false, nil
	}
	return false, fmt.Errorf("inspecting s3://%s/%s: %w", r.bucket, objectKey, err)
}
