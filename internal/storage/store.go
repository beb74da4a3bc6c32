package storage

import (
	"bytes"
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/stanstork/rtb-etl/internal/config"
)

// ObjectStore uploads objects to a single bucket with overwrite semantics.
type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	// URI returns the s3:// location of key.
	URI(key string) string
}

type s3Store struct {
	client *s3.Client
	bucket string
}

type storeOptions struct {
	endpoint string
}

type StoreOpt func(*storeOptions)

// WithEndpoint points the client at an S3-compatible endpoint using path-style addressing.
func WithEndpoint(url string) StoreOpt {
	return func(o *storeOptions) { o.endpoint = url }
}

// NewS3Store builds an ObjectStore from static credentials.
func NewS3Store(ctx context.Context, cfg config.S3Config, logger zerolog.Logger, opts ...StoreOpt) (ObjectStore, error) {
	o := &storeOptions{}
	for _, opt := range opts {
		opt(o)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		awsconfig.WithLogger(NewAWSLogAdapter(logger)),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load aws config")
	}

	client := s3.NewFromConfig(awsCfg, func(so *s3.Options) {
		if o.endpoint != "" {
			so.BaseEndpoint = aws.String(o.endpoint)
			so.UsePathStyle = true
		}
	})
	return &s3Store{client: client, bucket: cfg.Bucket}, nil
}

func (s *s3Store) Put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return errors.Wrapf(err, "put s3://%s/%s", s.bucket, key)
	}
	return nil
}

func (s *s3Store) URI(key string) string {
	return "s3://" + s.bucket + "/" + key
}
