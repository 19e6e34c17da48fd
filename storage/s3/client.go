// Copyright 2025 Impresso Project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/impresso/impresso-text-embedder/storage"
	"github.com/joho/godotenv"
)

// DefaultEndpoint is the impresso object-storage endpoint used when
// SE_HOST_URL is not set.
const DefaultEndpoint = "https://os.zhdk.cloud.switch.ch/"

// Config holds credentials and endpoint for the S3-compatible backend.
type Config struct {
	AccessKey string
	SecretKey string
	Endpoint  string
	Region    string
}

// ConfigFromEnv reads the backend configuration from the environment,
// with .env file support.
//
// Recognized variables: SE_ACCESS_KEY, SE_SECRET_KEY, SE_HOST_URL.
func ConfigFromEnv() *Config {
	_ = godotenv.Load()

	return &Config{
		AccessKey: os.Getenv("SE_ACCESS_KEY"),
		SecretKey: os.Getenv("SE_SECRET_KEY"),
		Endpoint:  getEnv("SE_HOST_URL", DefaultEndpoint),
		Region:    getEnv("SE_REGION", "us-east-1"),
	}
}

// CheckCredentials reports whether a usable credential pair is configured.
// Returns ErrMissingCredentials when both halves are absent and
// ErrPartialCredentials when only one is.
func (c *Config) CheckCredentials() error {
	switch {
	case c.AccessKey == "" && c.SecretKey == "":
		return storage.ErrMissingCredentials
	case c.AccessKey == "" || c.SecretKey == "":
		return storage.ErrPartialCredentials
	}
	return nil
}

// getEnv reads an environment variable with a default fallback.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

// Store implements storage.ObjectStore on an S3-compatible service.
type Store struct {
	client   *s3.Client
	uploader *manager.Uploader
	logger   *slog.Logger
}

// NewStore creates an object store from the given configuration.
//
// Returns storage.ObjectStore interface to enforce abstraction.
func NewStore(ctx context.Context, cfg *Config) (storage.ObjectStore, error) {
	return newStore(ctx, cfg)
}

func newStore(ctx context.Context, cfg *Config) (*Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		// Non-AWS endpoints generally do not support virtual-hosted buckets.
		o.UsePathStyle = true
	})

	return &Store{
		client:   client,
		uploader: manager.NewUploader(client),
		logger:   slog.Default().With("component", "s3-store"),
	}, nil
}

// GetObject opens a remote object for reading.
func (s *Store) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 get s3://%s/%s: %w", bucket, key, err)
	}

	return resp.Body, nil
}

// ObjectExists probes remote metadata for the object.
// Any "not found" condition maps to (false, nil); other errors wrap
// storage.ErrRemoteProbe and must be treated as fatal by callers.
func (s *Store) ObjectExists(ctx context.Context, bucket, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}

	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return false, nil
	}
	// HeadObject reports missing keys as a bare 404 API error on some
	// S3-compatible services.
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey", "404":
			return false, nil
		}
	}

	return false, fmt.Errorf("%w: head s3://%s/%s: %v", storage.ErrRemoteProbe, bucket, key, err)
}

// PutObject uploads the full body as a new remote object.
func (s *Store) PutObject(ctx context.Context, bucket, key string, body io.Reader) error {
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   body,
	})
	if err != nil {
		return fmt.Errorf("s3 upload s3://%s/%s: %w", bucket, key, err)
	}

	s.logger.Debug("uploaded object", "bucket", bucket, "key", key)
	return nil
}

// ListObjects calls fn for every object under prefix, following pagination.
func (s *Store) ListObjects(ctx context.Context, bucket, prefix string, fn func(storage.ObjectInfo) error) error {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("s3 list s3://%s/%s: %w", bucket, prefix, err)
		}

		for _, obj := range page.Contents {
			info := storage.ObjectInfo{
				Key:          aws.ToString(obj.Key),
				Size:         aws.ToInt64(obj.Size),
				LastModified: aws.ToTime(obj.LastModified),
			}
			if err := fn(info); err != nil {
				return err
			}
		}
	}

	return nil
}
