// Package storage resolves product image references stored as object keys
// into URLs clients can fetch.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/lojinha/backend/internal/infrastructure/config"
	"github.com/lojinha/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// PassthroughImageResolver returns references unchanged. It is used when
// product images are stored as absolute URLs.
type PassthroughImageResolver struct{}

func (PassthroughImageResolver) ResolveImageURL(_ context.Context, ref string) string {
	return ref
}

// S3ImageResolver turns object keys into presigned GET URLs. References that
// are already absolute URLs are returned unchanged.
type S3ImageResolver struct {
	presigner *s3.PresignClient
	bucket    string
	ttl       time.Duration
	logger    *zap.Logger
}

// NewS3ImageResolver builds a resolver for cfg.Bucket. Static credentials are
// used when configured, otherwise the default AWS credential chain applies.
func NewS3ImageResolver(ctx context.Context, cfg *config.StorageConfig, log *zap.Logger) (*S3ImageResolver, error) {
	if cfg == nil || cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if log == nil {
		log = zap.NewNop()
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	ttl := cfg.PresignTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &S3ImageResolver{
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.Bucket,
		ttl:       ttl,
		logger:    log.Named("images"),
	}, nil
}

// ResolveImageURL presigns ref as an object key. Failures are logged and
// yield an empty URL so a listing never fails because of one image.
func (r *S3ImageResolver) ResolveImageURL(ctx context.Context, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || isAbsoluteURL(ref) {
		return ref
	}

	key := r.objectKey(ref)
	req, err := r.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(r.ttl))
	if err != nil {
		logger.WithTraceContext(ctx, r.logger).Warn("presign product image failed",
			zap.String("key", key), zap.Error(err))
		return ""
	}
	return req.URL
}

// objectKey accepts "key", "/key" and "s3://<bucket>/key" forms.
func (r *S3ImageResolver) objectKey(ref string) string {
	ref = strings.TrimPrefix(ref, "s3://"+r.bucket+"/")
	return strings.TrimLeft(ref, "/")
}

func isAbsoluteURL(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
