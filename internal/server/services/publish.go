package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrijs2005/assetgate/internal/server/events"
)

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) objectPutter {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// PublishResult describes an uploaded directory document.
type PublishResult struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
	Users  int    `json:"users"`
	ETag   string `json:"etag,omitempty"`
}

func (s *DirectoryService) getS3Client(ctx context.Context) (objectPutter, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(s.config.S3Region)}
	if s.config.S3AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3AccessKey,
			s.config.S3SecretKey,
			"",
		)))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.config.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// Publish uploads the current directory document to the configured bucket,
// where clients using an s3:// directory URL read it.
func (s *DirectoryService) Publish(ctx context.Context, actor string) (*PublishResult, error) {
	data, n, err := s.Document(ctx)
	if err != nil {
		return nil, err
	}

	client, err := s.getS3Client(ctx)
	if err != nil {
		return nil, fmt.Errorf("s3 config: %w", err)
	}

	bucket, key := s.config.S3Bucket, s.config.S3ObjectKey
	out, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 put object: %w", err)
	}

	res := &PublishResult{Bucket: bucket, Key: key, Users: n}
	if out != nil && out.ETag != nil {
		res.ETag = *out.ETag
	}

	e := events.NewEvent(events.TypeDirectoryPublished, "", actor)
	e.Details = map[string]string{"bucket": bucket, "key": key, "users": fmt.Sprint(n)}
	s.log.Info(ctx, "directory published", "bucket", bucket, "key", key, "users", n, "actor", actor)
	s.audit(ctx, e)
	return res, nil
}
