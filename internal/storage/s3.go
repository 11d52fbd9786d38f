package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog/log"

	"github.com/docvault/docvault/pkg/config"
)

// S3Storage implements BlobStorage against an S3-compatible object store.
// A custom endpoint plus path-style addressing makes it work with MinIO.
type S3Storage struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
}

// NewS3Storage creates a new S3 storage instance
func NewS3Storage(cfg *config.StorageConfig) (*S3Storage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket name is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	log.Info().Str("bucket", cfg.Bucket).Str("endpoint", cfg.Endpoint).Msg("s3 storage initialized")
	return &S3Storage{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
	}, nil
}

// Store uploads content to the bucket under the given key
func (s *S3Storage) Store(ctx context.Context, key string, content io.Reader, contentType string) error {
	startTime := time.Now()

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   content,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to put object")
		return fmt.Errorf("failed to store blob: %w", err)
	}

	log.Info().
		Str("key", key).
		Str("content_type", contentType).
		Dur("duration", time.Since(startTime)).
		Msg("blob stored")

	return nil
}

// Retrieve streams an object's content from the bucket
func (s *S3Storage) Retrieve(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *s3types.NoSuchKey
		if errors.As(err, &noKey) {
			log.Debug().Str("key", key).Msg("blob not found")
			return nil, fmt.Errorf("blob not found: %s", key)
		}
		log.Error().Err(err).Str("key", key).Msg("failed to get object")
		return nil, fmt.Errorf("failed to retrieve blob: %w", err)
	}

	return out.Body, nil
}

// Delete removes an object from the bucket. S3 deletes are idempotent, so a
// missing key is not an error.
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to delete object")
		return fmt.Errorf("failed to delete blob: %w", err)
	}

	log.Info().Str("key", key).Msg("blob deleted")
	return nil
}

// Exists checks whether an object exists under the given key
func (s *S3Storage) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *s3types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		log.Error().Err(err).Str("key", key).Msg("failed to head object")
		return false, fmt.Errorf("failed to check blob existence: %w", err)
	}

	return true, nil
}

// GetSize returns an object's content length
func (s *S3Storage) GetSize(ctx context.Context, key string) (int64, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *s3types.NotFound
		if errors.As(err, &notFound) {
			return 0, fmt.Errorf("blob not found: %s", key)
		}
		log.Error().Err(err).Str("key", key).Msg("failed to head object")
		return 0, fmt.Errorf("failed to get blob info: %w", err)
	}

	return aws.ToInt64(out.ContentLength), nil
}

// ShareLink returns a presigned GET URL valid for the given duration
func (s *S3Storage) ShareLink(ctx context.Context, key string, expiry time.Duration) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to presign object")
		return "", fmt.Errorf("failed to create share link: %w", err)
	}

	return req.URL, nil
}
