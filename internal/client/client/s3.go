package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// objectGetter is the part of *s3.Client used here.
type objectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

var loadDefaultAWSConfig = config.LoadDefaultConfig

// S3Client reads the directory object from s3://bucket/key on AWS or an
// S3-compatible endpoint (MinIO).
type S3Client struct {
	s3       objectGetter
	bucket   string
	key      string
	maxBytes int64
}

func NewS3Client(ctx context.Context, u *url.URL, opts Options) (*S3Client, error) {
	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return nil, fmt.Errorf("s3 url must be s3://bucket/key, got %q", u.String())
	}

	loadOpts := []func(*config.LoadOptions) error{}
	if opts.S3Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.S3Region))
	}
	if opts.S3AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.S3AccessKey, opts.S3SecretKey, "")))
	}

	cfg, err := loadDefaultAWSConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	svc := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Client{s3: svc, bucket: bucket, key: key, maxBytes: opts.MaxBytes}, nil
}

func (c *S3Client) FetchDirectory(ctx context.Context) ([]byte, error) {
	out, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(c.key),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: s3://%s/%s: %w", ErrUnavailable, c.bucket, c.key, err)
	}
	defer out.Body.Close()

	return readLimited(out.Body, c.maxBytes)
}

func (c *S3Client) Close() error { return nil }
