package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

// AliyunConfig Aliyun OSS settings
type AliyunConfig struct {
	Endpoint        string
	AccessKeyID     string
	AccessKeySecret string
	BucketName      string
	Domain          string // custom domain, optional
	BasePath        string // key prefix, e.g. "marketplace/"
}

// AliyunUploader stores files in an OSS bucket. Stored paths are public URLs.
type AliyunUploader struct {
	bucket *oss.Bucket
	config *AliyunConfig
}

// NewAliyunUploader creates an AliyunUploader
func NewAliyunUploader(cfg *AliyunConfig) (*AliyunUploader, error) {
	client, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("storage: oss client: %w", err)
	}
	bucket, err := client.Bucket(cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("storage: oss bucket: %w", err)
	}
	return &AliyunUploader{bucket: bucket, config: cfg}, nil
}

// Save uploads r as <base>/<category>/<filename>.
func (u *AliyunUploader) Save(ctx context.Context, category, filename string, r io.Reader) (string, error) {
	key := u.objectKey(category, filename)
	opts := []oss.Option{oss.WithContext(ctx)}
	if ct := ContentType(filename); ct != "" {
		opts = append(opts, oss.ContentType(ct))
	}
	if err := u.bucket.PutObject(key, r, opts...); err != nil {
		return "", fmt.Errorf("storage: oss put: %w", err)
	}
	return u.url(key), nil
}

// Delete removes the object behind a stored URL. OSS treats missing keys as deleted.
func (u *AliyunUploader) Delete(ctx context.Context, storedPath string) error {
	key := strings.TrimPrefix(storedPath, u.baseURL()+"/")
	if key == storedPath {
		return ErrInvalidPath
	}
	return u.bucket.DeleteObject(key, oss.WithContext(ctx))
}

func (u *AliyunUploader) objectKey(category, filename string) string {
	return path.Join(u.config.BasePath, category, filename)
}

func (u *AliyunUploader) baseURL() string {
	if u.config.Domain != "" {
		return strings.TrimSuffix(u.config.Domain, "/")
	}
	return fmt.Sprintf("https://%s.%s", u.config.BucketName, u.config.Endpoint)
}

func (u *AliyunUploader) url(key string) string {
	return u.baseURL() + "/" + key
}
