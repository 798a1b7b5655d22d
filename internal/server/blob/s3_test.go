package blob

import (
	"context"
	"errors"
	"testing"
	"time"

	"sollog/internal/common"
	sc "sollog/internal/server/config"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *S3Store {
	t.Helper()
	cfg := &sc.Config{}
	cfg.LoadDefaults()
	store, err := NewS3Store(context.Background(), cfg)
	require.NoError(t, err)
	return store
}

func TestPut_WrapsStorageWrite(t *testing.T) {
	orig := putObject
	defer func() { putObject = orig }()

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return nil, errors.New("connection refused")
	}

	err := testStore(t).Put(context.Background(), "k", []byte("ciphertext"))
	assert.True(t, errors.Is(err, common.ErrStorageWrite))
}

func TestDelete_WrapsStorageWrite(t *testing.T) {
	orig := deleteObject
	defer func() { deleteObject = orig }()

	deleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
		return nil, errors.New("connection refused")
	}

	err := testStore(t).Delete(context.Background(), "k")
	assert.True(t, errors.Is(err, common.ErrStorageWrite))
}

func TestPresignGet_ReturnsURL(t *testing.T) {
	orig := presignGetObject
	defer func() { presignGetObject = orig }()

	var gotKey string
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		gotKey = *in.Key
		return &v4.PresignedHTTPRequest{URL: "https://minio/bucket/" + *in.Key + "?signed"}, nil
	}

	url, err := testStore(t).PresignGet(context.Background(), "videos/u1/abc", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "videos/u1/abc", gotKey)
	assert.Contains(t, url, "signed")
}

func TestPresignGet_WrapsStorageRead(t *testing.T) {
	orig := presignGetObject
	defer func() { presignGetObject = orig }()

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("signing error")
	}

	_, err := testStore(t).PresignGet(context.Background(), "k", time.Hour)
	assert.True(t, errors.Is(err, common.ErrStorageRead))
}
