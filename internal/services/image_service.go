// internal/services/image_service.go
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"

	"github.com/driprats/storefront-admin/internal/config"
)

var (
	ErrStorageDisabled = errors.New("image storage is not configured")
	ErrImageTooLarge   = errors.New("image is too large")
	ErrImageType       = errors.New("file is not a supported image")
)

const productImageFolder = "products"

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type UploadResult struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimeType"`
}

// ImageService stores product images in S3 and hands back URLs the product
// service accepts.
type ImageService struct {
	client  s3iface.S3API
	cfg     config.StorageConfig
	maxSize int64
	now     func() time.Time
}

// NewS3Client returns nil when no bucket is configured.
func NewS3Client(cfg config.StorageConfig) (*s3.S3, error) {
	if cfg.Bucket == "" {
		return nil, nil
	}

	awsCfg := &aws.Config{Region: aws.String(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	return s3.New(sess), nil
}

// NewImageService accepts a nil client, in which case every upload returns
// ErrStorageDisabled.
func NewImageService(client s3iface.S3API, cfg config.StorageConfig) *ImageService {
	maxMB := cfg.MaxUploadMB
	if maxMB <= 0 {
		maxMB = 10
	}
	return &ImageService{
		client:  client,
		cfg:     cfg,
		maxSize: int64(maxMB) * 1024 * 1024,
		now:     time.Now,
	}
}

func (s *ImageService) Enabled() bool {
	return s.client != nil && s.cfg.Bucket != ""
}

// Host is the hostname uploaded images are served from, or "" when disabled.
func (s *ImageService) Host() string {
	if !s.Enabled() {
		return ""
	}
	u, err := url.Parse(s.publicURL("x"))
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// Upload stores one product image. size is the declared size; the body is
// also capped while reading.
func (s *ImageService) Upload(ctx context.Context, body io.Reader, filename string, size int64) (*UploadResult, error) {
	if !s.Enabled() {
		return nil, ErrStorageDisabled
	}
	if size > s.maxSize {
		return nil, ErrImageTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImageExts[ext] {
		return nil, ErrImageType
	}

	data, err := io.ReadAll(io.LimitReader(body, s.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if int64(len(data)) > s.maxSize {
		return nil, ErrImageTooLarge
	}

	contentType := http.DetectContentType(data)
	if !allowedImageTypes[contentType] {
		return nil, ErrImageType
	}

	key := s.objectKey(ext)
	_, err = s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &UploadResult{
		URL:      s.publicURL(key),
		Key:      key,
		Size:     int64(len(data)),
		MimeType: contentType,
	}, nil
}

func (s *ImageService) objectKey(ext string) string {
	return fmt.Sprintf("%s/%s_%s%s", productImageFolder, s.now().UTC().Format("20060102"), uuid.New().String()[:8], ext)
}

func (s *ImageService) publicURL(key string) string {
	if s.cfg.PublicBaseURL != "" {
		return fmt.Sprintf("%s/%s", s.cfg.PublicBaseURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
}
