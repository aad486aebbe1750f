package storage

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	headErr error
	created bool
	putKey  string
	putBody string
	putType string
	deleted string
	putErr  error
}

func (f *fakeS3) HeadBucket(ctx context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, f.headErr
}

func (f *fakeS3) CreateBucket(ctx context.Context, in *s3.CreateBucketInput, _ ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	f.created = true
	return &s3.CreateBucketOutput{}, nil
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	body, _ := io.ReadAll(in.Body)
	f.putKey = *in.Key
	f.putBody = string(body)
	f.putType = *in.ContentType
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = *in.Key
	return &s3.DeleteObjectOutput{}, nil
}

type fakePresigner struct{}

func (fakePresigner) PresignGetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	return &v4.PresignedHTTPRequest{URL: "https://example.test/" + *in.Bucket + "/" + *in.Key}, nil
}

func TestS3BackupRepository_Upload(t *testing.T) {
	client := &fakeS3{}
	repo := NewS3BackupRepositoryWithClient(client, fakePresigner{}, "fintrack")

	require.NoError(t, repo.Upload(context.Background(), "backups/x.json", []byte(`{"debts":[]}`)))
	assert.Equal(t, "backups/x.json", client.putKey)
	assert.Equal(t, `{"debts":[]}`, client.putBody)
	assert.Equal(t, "application/json", client.putType)

	client.putErr = errors.New("boom")
	assert.Error(t, repo.Upload(context.Background(), "k", nil))
}

func TestS3BackupRepository_EnsureBucket(t *testing.T) {
	client := &fakeS3{headErr: &types.NotFound{}}
	repo := NewS3BackupRepositoryWithClient(client, fakePresigner{}, "fintrack")
	require.NoError(t, repo.ensureBucket(context.Background()))
	assert.True(t, client.created)

	client = &fakeS3{headErr: errors.New("403 forbidden")}
	repo = NewS3BackupRepositoryWithClient(client, fakePresigner{}, "fintrack")
	assert.Error(t, repo.ensureBucket(context.Background()))
	assert.False(t, client.created)
}

func TestS3BackupRepository_DownloadURLAndDelete(t *testing.T) {
	client := &fakeS3{}
	repo := NewS3BackupRepositoryWithClient(client, fakePresigner{}, "fintrack")

	url, err := repo.DownloadURL(context.Background(), "backups/x.json", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "https://example.test/fintrack/backups/x.json", url)

	require.NoError(t, repo.Delete(context.Background(), "backups/x.json"))
	assert.Equal(t, "backups/x.json", client.deleted)
}
