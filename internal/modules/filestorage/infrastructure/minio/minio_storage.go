// Package minio stores objects through the MinIO client. It works against any
// S3-compatible provider and, unlike the s3 package, makes the bucket
// publicly readable through a bucket policy instead of per-object ACLs.
package minio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/url"
	"strings"
	"time"

	"github.com/apuntestech/apuntes/internal/modules/filestorage/domain"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config holds connection settings for a MinIO-compatible endpoint.
type Config struct {
	Endpoint   string // host:port, no scheme
	AccessKey  string
	SecretKey  string
	Bucket     string
	Region     string
	UseSSL     bool
	PublicBase string // browser-facing base, e.g. "http://localhost:9000/apuntes"
}

// Storage implements domain.FileStorage on top of minio-go.
type Storage struct {
	client     *minio.Client
	bucket     string
	publicBase string
}

// NewStorage creates a MinIO client, ensures the bucket exists with a
// public-read policy and returns a ready-to-use Storage.
func NewStorage(ctx context.Context, cfg Config, logger *slog.Logger) (*Storage, error) {
	st, err := newStorage(cfg)
	if err != nil {
		return nil, err
	}

	exists, err := st.client.BucketExists(ctx, st.bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := st.client.MakeBucket(ctx, st.bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", st.bucket, err)
		}
		logger.Info("created bucket", "bucket", st.bucket)
	}

	if err := st.client.SetBucketPolicy(ctx, st.bucket, publicReadPolicy(st.bucket)); err != nil {
		return nil, fmt.Errorf("set bucket policy: %w", err)
	}
	return st, nil
}

func newStorage(cfg Config) (*Storage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	publicBase := cfg.PublicBase
	if publicBase == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicBase = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}

	return &Storage{
		client:     client,
		bucket:     cfg.Bucket,
		publicBase: strings.TrimRight(publicBase, "/"),
	}, nil
}

// UploadFile streams size bytes to the bucket under key.
func (s *Storage) UploadFile(ctx context.Context, key string, file io.Reader, size int64, contentType string) (*domain.Object, error) {
	info, err := s.client.PutObject(ctx, s.bucket, key, file, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("put object %q: %w", key, err)
	}

	uploadedAt := info.LastModified
	if uploadedAt.IsZero() {
		uploadedAt = time.Now().UTC()
	}
	return &domain.Object{
		Key:         key,
		URL:         s.PublicURL(key),
		ContentType: contentType,
		Size:        info.Size,
		UploadedAt:  uploadedAt,
	}, nil
}

// ListFiles lists the whole bucket recursively.
func (s *Storage) ListFiles(ctx context.Context) ([]domain.Object, error) {
	objects := []domain.Object{}
	for info := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Recursive: true}) {
		if info.Err != nil {
			return nil, fmt.Errorf("list objects: %w", info.Err)
		}
		objects = append(objects, s.object(info))
	}
	return objects, nil
}

// StatFile returns object metadata or domain.ErrObjectNotFound.
func (s *Storage) StatFile(ctx context.Context, key string) (*domain.Object, error) {
	info, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if code := minio.ToErrorResponse(err).Code; code == "NoSuchKey" || code == "NotFound" {
			return nil, domain.ErrObjectNotFound
		}
		return nil, fmt.Errorf("stat object %q: %w", key, err)
	}
	obj := s.object(info)
	return &obj, nil
}

// DeleteFile removes the object at key from the bucket.
func (s *Storage) DeleteFile(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %q: %w", key, err)
	}
	return nil
}

// GetPresignedDownloadURL signs a GET that downloads the object as filename.
func (s *Storage) GetPresignedDownloadURL(ctx context.Context, key string, filename string, expiration time.Duration) (string, error) {
	params := url.Values{}
	if filename != "" {
		params.Set("response-content-disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	}
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, expiration, params)
	if err != nil {
		return "", fmt.Errorf("presign object %q: %w", key, err)
	}
	return u.String(), nil
}

// GetKeyFromURL reverses PublicURL. Query strings, as on presigned URLs, are ignored.
func (s *Storage) GetKeyFromURL(fileUrl string) (string, error) {
	prefix := s.publicBase + "/"
	if !strings.HasPrefix(fileUrl, prefix) || len(fileUrl) == len(prefix) {
		return "", fmt.Errorf("url does not match expected format: %s", fileUrl)
	}
	escaped, _, _ := strings.Cut(strings.TrimPrefix(fileUrl, prefix), "?")
	key, err := url.PathUnescape(escaped)
	if err != nil || key == "" {
		return "", fmt.Errorf("url does not match expected format: %s", fileUrl)
	}
	return key, nil
}

// PublicURL returns the browser-accessible URL for the given key.
func (s *Storage) PublicURL(key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return s.publicBase + "/" + strings.Join(segments, "/")
}

func (s *Storage) object(info minio.ObjectInfo) domain.Object {
	return domain.Object{
		Key:         info.Key,
		URL:         s.PublicURL(info.Key),
		ContentType: info.ContentType,
		Size:        info.Size,
		UploadedAt:  info.LastModified.UTC(),
	}
}

// publicReadPolicy returns an S3 bucket policy JSON that allows anonymous GET on all objects.
func publicReadPolicy(bucket string) string {
	policy := map[string]interface{}{
		"Version": "2012-10-17",
		"Statement": []map[string]interface{}{
			{
				"Effect":    "Allow",
				"Principal": map[string]interface{}{"AWS": []string{"*"}},
				"Action":    []string{"s3:GetObject"},
				"Resource":  []string{fmt.Sprintf("arn:aws:s3:::%s/*", bucket)},
			},
		},
	}
	b, _ := json.Marshal(policy)
	return string(b)
}
