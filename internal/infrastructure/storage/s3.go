package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/gsme/workorder-system/internal/core/ports"
)

// URLCache memoizes presigned URLs between downloads. A nil cache disables
// memoization.
type URLCache interface {
	Get(ctx context.Context, artifactKey string) (string, error)
	Set(ctx context.Context, artifactKey, url string) error
	Invalidate(ctx context.Context, artifactKey string) error
}

// S3Config captures the settings for the remote artifact backend.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string // optional, for S3-compatible stores
	AccessKey string
	SecretKey string
}

// S3Store keeps artifacts in an S3 bucket under <orderID>/<timestamp>_<name>
// keys. Retrieval never streams bytes through the application: it hands back
// a time-limited presigned URL for the caller to redirect to.
type S3Store struct {
	api     *s3.Client
	presign *s3.PresignClient
	bucket  string
	urlTTL  time.Duration
	cache   URLCache
	now     func() time.Time
	logger  zerolog.Logger
}

var _ ports.ArtifactStore = (*S3Store)(nil)

// NewS3Store builds the S3 client and verifies the configuration. Static
// credentials are used when provided; otherwise the default chain applies.
func NewS3Store(ctx context.Context, cfg S3Config, urlTTL time.Duration, cache URLCache, logger zerolog.Logger) (*S3Store, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	if urlTTL <= 0 {
		urlTTL = time.Hour
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithHTTPClient(&http.Client{Timeout: 30 * time.Second}),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{
		api:     client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
		urlTTL:  urlTTL,
		cache:   cache,
		now:     time.Now,
		logger:  logger,
	}, nil
}

func (s *S3Store) Save(ctx context.Context, orderID int64, originalName string, r io.Reader) (string, error) {
	key := fmt.Sprintf("%d/%d_%s", orderID, s.now().UTC().UnixNano(), sanitizeName(originalName))

	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   r,
	})
	if err != nil {
		return "", fmt.Errorf("s3 put %s: %w", key, err)
	}
	return key, nil
}

// Retrieve produces a presigned GET URL valid for the configured window,
// served from the cache when a sufficiently fresh one exists.
func (s *S3Store) Retrieve(ctx context.Context, key string) (*ports.ArtifactContent, error) {
	if s.cache != nil {
		if url, err := s.cache.Get(ctx, key); err != nil {
			s.logger.Warn().Err(err).Str("artifact_key", key).Msg("signed url cache lookup failed")
		} else if url != "" {
			return &ports.ArtifactContent{RedirectURL: url, Filename: downloadName(key)}, nil
		}
	}

	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = s.urlTTL
	})
	if err != nil {
		return nil, fmt.Errorf("s3 presign %s: %w", key, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, req.URL); err != nil {
			s.logger.Warn().Err(err).Str("artifact_key", key).Msg("signed url cache write failed")
		}
	}

	return &ports.ArtifactContent{RedirectURL: req.URL, Filename: downloadName(key)}, nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s: %w", key, err)
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, key); err != nil {
			s.logger.Warn().Err(err).Str("artifact_key", key).Msg("signed url cache invalidation failed")
		}
	}
	return nil
}
