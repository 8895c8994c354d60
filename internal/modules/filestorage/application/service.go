package application

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/apuntestech/apuntes/internal/modules/filestorage/domain"
)

// FileService provides high-level file operations
type FileService struct {
	storage domain.FileStorage
}

// NewFileService creates a new file service
func NewFileService(storage domain.FileStorage) *FileService {
	return &FileService{
		storage: storage,
	}
}

// UploadWithKey uploads a file with a specific key
func (s *FileService) UploadWithKey(ctx context.Context, file io.Reader, key string, size int64, contentType string) (*domain.Object, error) {
	return s.storage.UploadFile(ctx, key, file, size, contentType)
}

// List returns all stored objects
func (s *FileService) List(ctx context.Context) ([]domain.Object, error) {
	return s.storage.ListFiles(ctx)
}

// Exists reports whether an object is stored under key
func (s *FileService) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.storage.StatFile(ctx, key)
	if errors.Is(err, domain.ErrObjectNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetPresignedDownloadURL generates a presigned URL for downloading
func (s *FileService) GetPresignedDownloadURL(ctx context.Context, key string, filename string, expiration time.Duration) (string, error) {
	return s.storage.GetPresignedDownloadURL(ctx, key, filename, expiration)
}

// Delete deletes a file
func (s *FileService) Delete(ctx context.Context, key string) error {
	return s.storage.DeleteFile(ctx, key)
}

// GetKeyFromUrl extracts the storage key from a URL
func (s *FileService) GetKeyFromUrl(fileUrl string) (string, error) {
	return s.storage.GetKeyFromURL(fileUrl)
}
