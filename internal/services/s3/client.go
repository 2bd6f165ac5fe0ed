// Package s3 publishes and retrieves the compatibility document in object
// storage. The same bucket/key pair is used for upload after conversion and
// for fetch on the serving path.
package s3

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/ternarybob/arbor"

	"github.com/jzhengTT/compatibility-matrix/internal/common"
)

// Client wraps the AWS SDK for the single-object publish/fetch flow.
type Client struct {
	api    *awss3.Client
	bucket string
	key    string
	logger arbor.ILogger
}

// NewClient builds a client from the S3 section of the configuration.
// Credentials come from the standard AWS chain (env, shared config, IAM).
func NewClient(ctx context.Context, cfg common.S3Config, logger arbor.ILogger) (*Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return &Client{
		api:    awss3.NewFromConfig(awsCfg),
		bucket: cfg.Bucket,
		key:    cfg.Key,
		logger: logger,
	}, nil
}

// Upload publishes the local artifact to the configured bucket/key.
func (c *Client) Upload(ctx context.Context, localPath string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open artifact %s: %w", localPath, err)
	}
	defer f.Close()

	_, err = c.api.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(c.key),
		Body:        f,
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to s3://%s/%s: %w", c.bucket, c.key, err)
	}

	c.logger.Info().
		Str("bucket", c.bucket).
		Str("key", c.key).
		Msg("Uploaded compatibility document")

	return nil
}

// FetchDocument downloads the published document for the serving path.
func (c *Client) FetchDocument(ctx context.Context) ([]byte, error) {
	out, err := c.api.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(c.key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch s3://%s/%s: %w", c.bucket, c.key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read s3://%s/%s: %w", c.bucket, c.key, err)
	}
	return data, nil
}
