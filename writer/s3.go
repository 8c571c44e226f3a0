package writer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	appconfig "macroflow/config"
	"macroflow/logger"
)

// S3Store mirrors exports to an S3 bucket under a key prefix.
type S3Store struct {
	client  *s3.Client
	bucket  string
	prefix  string
	version string
	log     *logger.Log
}

// NewS3Store builds the client from the storage settings. Static keys are
// used when configured, the default AWS chain otherwise.
func NewS3Store(ctx context.Context, cfg appconfig.S3Config, version string) (*S3Store, error) {
	log := logger.GetLogger()

	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		log.WithComponent("s3_store").WithError(err).Warn("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	creds, err := awsConfig.Credentials.Retrieve(ctx)
	if err != nil || !creds.HasKeys() {
		return nil, fmt.Errorf("aws credentials not found")
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.PathStyle
	})

	log.WithComponent("s3_store").WithFields(logger.Fields{
		"bucket":     cfg.Bucket,
		"region":     cfg.Region,
		"endpoint":   cfg.Endpoint,
		"path_style": cfg.PathStyle,
		"prefix":     cfg.Prefix,
	}).Info("s3 store initialized")

	return &S3Store{
		client:  client,
		bucket:  cfg.Bucket,
		prefix:  strings.Trim(cfg.Prefix, "/"),
		version: version,
		log:     log,
	}, nil
}

// Key returns the object key for name.
func (s *S3Store) Key(name string) string {
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

func (s *S3Store) Put(ctx context.Context, name string, data []byte, contentType string) error {
	key := s.Key(name)
	log := s.log.WithComponent("s3_store").WithFields(logger.Fields{
		"operation": "put_object",
		"key":       key,
		"data_size": len(data),
	})

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		Metadata: map[string]string{
			"macroflow-version": s.version,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3 bucket %s: %w", s.bucket, err)
	}
	log.Debug("uploaded to S3")
	return nil
}

func (s *S3Store) Get(ctx context.Context, name string) ([]byte, error) {
	key := s.Key(name)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		var status interface{ HTTPStatusCode() int }
		if errors.As(err, &noKey) || (errors.As(err, &status) && status.HTTPStatusCode() == 404) {
			return nil, fmt.Errorf("%w: s3://%s/%s", ErrNotExist, s.bucket, key)
		}
		return nil, fmt.Errorf("failed to download s3://%s/%s: %w", s.bucket, key, err)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}
