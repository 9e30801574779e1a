package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appconfig "stockflow-backend/internal/config"
)

// ObjectStore stores receiving-slip arrival photos in an S3 compatible
// bucket. A nil *ObjectStore means photo storage is disabled and every
// method returns an error the caller can surface.
type ObjectStore struct {
	client *s3.Client
	bucket string
}

// New builds the store from config. Returns nil when storage is
// disabled so callers can degrade gracefully.
func New(ctx context.Context, cfg *appconfig.Config) (*ObjectStore, error) {
	if !cfg.Storage.Enabled {
		log.Println("[Storage] object storage disabled, photo uploads unavailable")
		return nil, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.Storage.AccessKey,
			cfg.Storage.SecretKey,
			"",
		)),
		awsconfig.WithRegion(cfg.Storage.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("configure s3 client: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
		}
	})

	return &ObjectStore{client: client, bucket: cfg.Storage.Bucket}, nil
}

// UploadArrivalPhoto stores the photo under a key derived from the
// receiving slip number and returns that key.
func (s *ObjectStore) UploadArrivalPhoto(ctx context.Context, slipNumber string, contentType string, body io.Reader) (string, error) {
	if s == nil {
		return "", fmt.Errorf("object storage is not configured")
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("read photo: %w", err)
	}

	key := fmt.Sprintf("receiving/%s/%d.jpg", slipNumber, time.Now().UnixNano())
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload photo: %w", err)
	}

	log.Printf("[Storage] uploaded arrival photo %s (%d bytes)", key, len(data))
	return key, nil
}

// GetArrivalPhoto streams a previously uploaded photo.
func (s *ObjectStore) GetArrivalPhoto(ctx context.Context, key string) (io.ReadCloser, string, error) {
	if s == nil {
		return nil, "", fmt.Errorf("object storage is not configured")
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, "", fmt.Errorf("download photo: %w", err)
	}

	contentType := "application/octet-stream"
	if out.ContentType != nil {
		contentType = *out.ContentType
	}
	return out.Body, contentType, nil
}
