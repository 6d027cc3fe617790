package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/jagman11/match--royale/models"
	"go.uber.org/zap"
)

const (
	presignExpiry = 5 * time.Minute
	maxImageSize  = 10 << 20
)

// ImageUploader stores an image for a user and returns its public URL
type ImageUploader interface {
	UploadImage(ctx context.Context, userID, kind string, body io.Reader) (string, error)
}

// ObjectPutter is the part of *s3.Client used for uploads
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ObjectPresigner is the part of *s3.PresignClient used for temporary URLs
type ObjectPresigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Service stores profile and background images in a bucket
type S3Service struct {
	Client        ObjectPutter
	Presigner     ObjectPresigner
	Bucket        string
	Region        string
	PublicBaseURL string
	Log           *zap.SugaredLogger
}

// NewS3Service builds the S3 client and its presigner from an AWS config
func NewS3Service(cfg aws.Config, bucket, publicBaseURL string, log *zap.SugaredLogger) *S3Service {
	client := s3.NewFromConfig(cfg)
	return &S3Service{
		Client:        client,
		Presigner:     s3.NewPresignClient(client),
		Bucket:        bucket,
		Region:        cfg.Region,
		PublicBaseURL: publicBaseURL,
		Log:           log,
	}
}

// ImageKey returns the object key of a user's image of the given kind
func ImageKey(userID, kind string) (string, error) {
	switch kind {
	case models.ImageKindProfile:
		return "profileImages/" + userID, nil
	case models.ImageKindBackground:
		return "backgroundImages/" + userID, nil
	}
	return "", fmt.Errorf("image kind %q: %w", kind, ErrUnsupportedImage)
}

// ObjectURL returns the public URL of key
func (s *S3Service) ObjectURL(key string) string {
	if s.PublicBaseURL != "" {
		return strings.TrimRight(s.PublicBaseURL, "/") + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.Bucket, s.Region, key)
}

// UploadImage sniffs body, rejects anything that is not an image and stores it under the user's key
func (s *S3Service) UploadImage(ctx context.Context, userID, kind string, body io.Reader) (string, error) {
	key, err := ImageKey(userID, kind)
	if err != nil {
		return "", err
	}

	data, err := io.ReadAll(io.LimitReader(body, maxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) > maxImageSize {
		return "", fmt.Errorf("image larger than %d bytes: %w", maxImageSize, ErrUnsupportedImage)
	}
	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		s.Log.Warnf("⚠️ Rejected %s upload for %s with content type %s", kind, userID, mime.String())
		return "", fmt.Errorf("content type %s: %w", mime.String(), ErrUnsupportedImage)
	}

	_, err = s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mime.String()),
	})
	if err != nil {
		s.Log.Errorf("❌ Failed to upload %s: %v", key, err)
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	s.Log.Infof("✅ Uploaded %s (%s, %d bytes)", key, mime.String(), len(data))
	return s.ObjectURL(key), nil
}

// UploadURL generates a presigned URL for uploading a user's image directly from the client
func (s *S3Service) UploadURL(ctx context.Context, userID, kind, contentType string) (string, string, error) {
	key, err := ImageKey(userID, kind)
	if err != nil {
		return "", "", err
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", "", fmt.Errorf("content type %s: %w", contentType, ErrUnsupportedImage)
	}
	request, err := s.Presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", "", fmt.Errorf("failed to presign upload of %s: %w", key, err)
	}
	return request.URL, key, nil
}

// ReadURL generates a presigned URL for reading an object
func (s *S3Service) ReadURL(ctx context.Context, key string) (string, error) {
	request, err := s.Presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", fmt.Errorf("failed to presign read of %s: %w", key, err)
	}
	return request.URL, nil
}
