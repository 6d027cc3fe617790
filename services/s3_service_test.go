package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jagman11/match--royale/models"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// pngHeader is enough of a PNG file for content sniffing
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type fakeBucket struct {
	puts []*s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakeBucket) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.puts = append(f.puts, params)
	f.body, _ = io.ReadAll(params.Body)
	return &s3.PutObjectOutput{}, nil
}

type fakePresigner struct{}

func (fakePresigner) PresignGetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	return &v4.PresignedHTTPRequest{URL: "https://signed/" + *params.Key + "?get", Method: http.MethodGet}, nil
}

func (fakePresigner) PresignPutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	return &v4.PresignedHTTPRequest{URL: "https://signed/" + *params.Key + "?put", Method: http.MethodPut}, nil
}

func newTestS3(bucket *fakeBucket) *S3Service {
	return &S3Service{
		Client:    bucket,
		Presigner: fakePresigner{},
		Bucket:    "match-royale-images",
		Region:    "us-east-1",
		Log:       zap.NewNop().Sugar(),
	}
}

func TestS3Service_UploadImage(t *testing.T) {
	ctx := context.Background()

	t.Run("should store a png under the profile key", func(t *testing.T) {
		req := require.New(t)
		bucket := &fakeBucket{}
		svc := newTestS3(bucket)

		url, err := svc.UploadImage(ctx, "u1", models.ImageKindProfile, bytes.NewReader(pngHeader))
		req.NoError(err)
		req.Equal("https://match-royale-images.s3.us-east-1.amazonaws.com/profileImages/u1", url)
		req.Len(bucket.puts, 1)
		req.Equal("profileImages/u1", *bucket.puts[0].Key)
		req.Equal("image/png", *bucket.puts[0].ContentType)
		req.Equal(pngHeader, bucket.body)
	})

	t.Run("should use the public base url for backgrounds", func(t *testing.T) {
		req := require.New(t)
		svc := newTestS3(&fakeBucket{})
		svc.PublicBaseURL = "https://cdn.example.com/"

		url, err := svc.UploadImage(ctx, "u1", models.ImageKindBackground, bytes.NewReader(pngHeader))
		req.NoError(err)
		req.Equal("https://cdn.example.com/backgroundImages/u1", url)
	})

	t.Run("should reject content that is not an image", func(t *testing.T) {
		req := require.New(t)
		bucket := &fakeBucket{}
		svc := newTestS3(bucket)

		_, err := svc.UploadImage(ctx, "u1", models.ImageKindProfile, strings.NewReader("just some text"))
		req.ErrorIs(err, ErrUnsupportedImage)
		req.Empty(bucket.puts)
	})

	t.Run("should reject unknown kinds", func(t *testing.T) {
		req := require.New(t)
		_, err := newTestS3(&fakeBucket{}).UploadImage(ctx, "u1", "avatar", bytes.NewReader(pngHeader))
		req.ErrorIs(err, ErrUnsupportedImage)
	})

	t.Run("should surface upload failures", func(t *testing.T) {
		req := require.New(t)
		errBucket := errors.New("access denied")
		_, err := newTestS3(&fakeBucket{err: errBucket}).UploadImage(ctx, "u1", models.ImageKindProfile, bytes.NewReader(pngHeader))
		req.ErrorIs(err, errBucket)
	})
}

func TestS3Service_PresignedURLs(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	svc := newTestS3(&fakeBucket{})

	url, key, err := svc.UploadURL(ctx, "u1", models.ImageKindProfile, "image/jpeg")
	req.NoError(err)
	req.Equal("profileImages/u1", key)
	req.Equal("https://signed/profileImages/u1?put", url)

	_, _, err = svc.UploadURL(ctx, "u1", models.ImageKindProfile, "application/pdf")
	req.ErrorIs(err, ErrUnsupportedImage)

	url, err = svc.ReadURL(ctx, "profileImages/u1")
	req.NoError(err)
	req.Equal("https://signed/profileImages/u1?get", url)
}
