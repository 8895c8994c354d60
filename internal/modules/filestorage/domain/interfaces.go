package domain

import (
	"context"
	"io"
	"time"
)

// FileStorage defines the interface for object storage operations
// This can be implemented by S3, MinIO, local filesystem, etc.
type FileStorage interface {
	// UploadFile stores size bytes from file under key with public-read access
	UploadFile(ctx context.Context, key string, file io.Reader, size int64, contentType string) (*Object, error)

	// ListFiles returns every object in the store
	ListFiles(ctx context.Context) ([]Object, error)

	// StatFile returns the metadata of a single object or ErrObjectNotFound
	StatFile(ctx context.Context, key string) (*Object, error)

	// DeleteFile deletes a file by its key
	DeleteFile(ctx context.Context, key string) error

	// GetPresignedDownloadURL generates a temporary presigned URL for downloading a file
	GetPresignedDownloadURL(ctx context.Context, key string, filename string, expiration time.Duration) (string, error)

	// GetKeyFromURL extracts the storage key from a public URL
	GetKeyFromURL(url string) (string, error)
}
