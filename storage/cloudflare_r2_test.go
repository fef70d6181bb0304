package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjectAPI struct {
	putKeys    []string
	deleteKeys []string
	err        error
}

func (f *fakeObjectAPI) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.putKeys = append(f.putKeys, aws.ToString(in.Key))
	return &s3.PutObjectOutput{ETag: aws.String(`"abc123"`)}, nil
}

func (f *fakeObjectAPI) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deleteKeys = append(f.deleteKeys, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func newTestUploader(t *testing.T, base string, api objectAPI) *cloudflareR2Uploader {
	t.Helper()
	baseURL, err := parseBaseURL(base)
	require.NoError(t, err)
	return &cloudflareR2Uploader{client: api, bucketName: "logos", publicBaseURL: baseURL}
}

func TestGetPublicURL(t *testing.T) {
	tests := []struct {
		base string
		key  string
		want string
	}{
		{"https://cdn.example.com", "tournaments/1/logo.png", "https://cdn.example.com/tournaments/1/logo.png"},
		{"https://cdn.example.com/", "/tournaments/1/logo.png", "https://cdn.example.com/tournaments/1/logo.png"},
		{"https://cdn.example.com/assets", "tournaments/2/logo.jpg", "https://cdn.example.com/assets/tournaments/2/logo.jpg"},
		{"https://cdn.example.com", "", ""},
	}
	for _, tt := range tests {
		u := newTestUploader(t, tt.base, &fakeObjectAPI{})
		assert.Equal(t, tt.want, u.GetPublicURL(tt.key), "base=%s key=%s", tt.base, tt.key)
	}
}

func TestUploadTrimsETagAndReturnsLocation(t *testing.T) {
	api := &fakeObjectAPI{}
	u := newTestUploader(t, "https://cdn.example.com", api)

	res, err := u.Upload(context.Background(), "tournaments/3/logo.png", "image/png", strings.NewReader("png"))
	require.NoError(t, err)
	assert.Equal(t, "abc123", res.ETag)
	assert.Equal(t, "https://cdn.example.com/tournaments/3/logo.png", res.Location)
	assert.Equal(t, []string{"tournaments/3/logo.png"}, api.putKeys)
}

func TestUploadAndDeleteWrapErrors(t *testing.T) {
	cause := errors.New("network down")
	u := newTestUploader(t, "https://cdn.example.com", &fakeObjectAPI{err: cause})

	_, err := u.Upload(context.Background(), "k", "image/png", strings.NewReader(""))
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, u.Delete(context.Background(), "k"), cause)
}

func TestNewCloudflareR2UploaderValidatesConfig(t *testing.T) {
	_, err := NewCloudflareR2Uploader(context.Background(), CloudflareR2UploaderConfig{BucketName: "x"})
	assert.Error(t, err)

	_, err = NewCloudflareR2Uploader(context.Background(), CloudflareR2UploaderConfig{
		AccountID: "a", AccessKeyID: "b", SecretAccessKey: "c", BucketName: "d", PublicBaseURL: "not a url",
	})
	assert.Error(t, err)
}

func TestTournamentLogoKey(t *testing.T) {
	key, err := TournamentLogoKey(42, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "tournaments/42/logo.png", key)

	key, err = TournamentLogoKey(42, "image/jpeg; charset=binary")
	require.NoError(t, err)
	assert.Equal(t, "tournaments/42/logo.jpg", key)

	_, err = TournamentLogoKey(42, "application/pdf")
	assert.Error(t, err)
}
