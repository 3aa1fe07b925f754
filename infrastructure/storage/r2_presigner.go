package storage

import (
	"context"
	"fmt"
	"time"

	"mediastore/infrastructure/configuration"
	"mediastore/infrastructure/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// R2Presigner signs direct PUT uploads against a Cloudflare R2 bucket.
type R2Presigner struct {
	bucket  string
	presign func(ctx context.Context, in *s3.PutObjectInput, ttl time.Duration) (string, error)
}

func NewR2Presigner(ctx context.Context, cfg configuration.R2) (*R2Presigner, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		config.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("load r2 config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpointFor(cfg))
		o.UsePathStyle = true
	})
	presignClient := s3.NewPresignClient(client)

	return &R2Presigner{
		bucket: cfg.Bucket,
		presign: func(ctx context.Context, in *s3.PutObjectInput, ttl time.Duration) (string, error) {
			req, err := presignClient.PresignPutObject(ctx, in, s3.WithPresignExpires(ttl))
			if err != nil {
				return "", err
			}
			return req.URL, nil
		},
	}, nil
}

func endpointFor(cfg configuration.R2) string {
	if cfg.Endpoint != "" {
		return cfg.Endpoint
	}
	return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)
}

func (p *R2Presigner) PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error) {
	in := &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}
	url, err := p.presign(ctx, in, ttl)
	if err != nil {
		logger.GetLogger().WithField("key", key).WithField("error", err).Error("Presign put failed")
		return "", fmt.Errorf("presign put: %w", err)
	}
	return url, nil
}
