package services

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/assetgate/internal/server/events"
	"github.com/dmitrijs2005/assetgate/internal/server/models"
)

type fakePutter struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.in = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{ETag: aws.String(`"abc"`)}, nil
}

func withS3Seams(t *testing.T, cfgErr error, putter *fakePutter) *s3.Options {
	t.Helper()
	origLoad, origNew := loadDefaultAWSConfig, newS3ClientFromConfig
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNew
	})

	opts := &s3.Options{}
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		if cfgErr != nil {
			return aws.Config{}, cfgErr
		}
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			if err := fn(&lo); err != nil {
				return aws.Config{}, err
			}
		}
		return aws.Config{Region: lo.Region}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) objectPutter {
		for _, fn := range optFns {
			fn(opts)
		}
		return putter
	}
	return opts
}

func TestPublish_UploadsDocument(t *testing.T) {
	db, _ := newSQLMockDB(t)
	repo := newFakeUsersRepo(models.DirectoryUser{Username: "alice", PasswordHash: "h", Active: true, Expires: day})
	pub := &fakePublisher{}
	s := newDirectoryService(t, db, repo, pub)
	s.config.S3BaseEndpoint = "http://minio:9000"
	s.config.S3AccessKey = "ak"
	s.config.S3SecretKey = "sk"

	putter := &fakePutter{}
	opts := withS3Seams(t, nil, putter)

	res, err := s.Publish(context.Background(), "admin")
	require.NoError(t, err)

	assert.Equal(t, &PublishResult{Bucket: "bucket", Key: "users.json", Users: 1, ETag: `"abc"`}, res)
	assert.Equal(t, "bucket", aws.ToString(putter.in.Bucket))
	assert.Equal(t, "users.json", aws.ToString(putter.in.Key))
	assert.Equal(t, "application/json", aws.ToString(putter.in.ContentType))
	assert.Contains(t, string(putter.body), `"username": "alice"`)

	assert.Equal(t, "http://minio:9000", aws.ToString(opts.BaseEndpoint))
	assert.True(t, opts.UsePathStyle)

	require.Len(t, pub.events, 1)
	assert.Equal(t, events.TypeDirectoryPublished, pub.events[0].Type)
	assert.Equal(t, "1", pub.events[0].Details["users"])
}

func TestPublish_NoEndpointUsesDefaultResolver(t *testing.T) {
	db, _ := newSQLMockDB(t)
	s := newDirectoryService(t, db, newFakeUsersRepo(), nil)

	opts := withS3Seams(t, nil, &fakePutter{})

	_, err := s.Publish(context.Background(), "admin")
	require.NoError(t, err)
	assert.Nil(t, opts.BaseEndpoint)
	assert.False(t, opts.UsePathStyle)
}

func TestPublish_ConfigError(t *testing.T) {
	db, _ := newSQLMockDB(t)
	pub := &fakePublisher{}
	s := newDirectoryService(t, db, newFakeUsersRepo(), pub)

	withS3Seams(t, errors.New("no region"), &fakePutter{})

	_, err := s.Publish(context.Background(), "admin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3 config")
	assert.Empty(t, pub.events)
}

func TestPublish_PutError(t *testing.T) {
	db, _ := newSQLMockDB(t)
	pub := &fakePublisher{}
	s := newDirectoryService(t, db, newFakeUsersRepo(), pub)

	withS3Seams(t, nil, &fakePutter{err: errors.New("access denied")})

	_, err := s.Publish(context.Background(), "admin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
	assert.Empty(t, pub.events)
}

func TestPublish_DocumentError(t *testing.T) {
	db, _ := newSQLMockDB(t)
	repo := newFakeUsersRepo()
	repo.listErr = errors.New("db error: down")
	s := newDirectoryService(t, db, repo, nil)

	putter := &fakePutter{}
	withS3Seams(t, nil, putter)

	_, err := s.Publish(context.Background(), "admin")
	assert.Error(t, err)
	assert.Nil(t, putter.in)
}
