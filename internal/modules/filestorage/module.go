package filestorage

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/apuntestech/apuntes/internal/modules/filestorage/application"
	"github.com/apuntestech/apuntes/internal/modules/filestorage/domain"
	"github.com/apuntestech/apuntes/internal/modules/filestorage/infrastructure/local"
	"github.com/apuntestech/apuntes/internal/modules/filestorage/infrastructure/minio"
	"github.com/apuntestech/apuntes/internal/modules/filestorage/infrastructure/s3"
	"github.com/apuntestech/apuntes/internal/shared/infrastructure/config"
)

// UploadsPrefix is where the local driver's files are served.
const UploadsPrefix = "/uploads/"

// Module represents the FileStorage module
type Module struct {
	service *application.FileService
	storage domain.FileStorage
	files   http.Handler
}

// NewModule creates and initializes the FileStorage module
func NewModule(ctx context.Context, cfg config.FileStorageConfig, logger *slog.Logger) (*Module, error) {
	var storage domain.FileStorage
	var files http.Handler

	switch cfg.Driver {
	case config.DriverS3:
		s3Cfg := s3.S3Config{
			BucketName:     cfg.S3BucketName,
			Region:         cfg.S3Region,
			Endpoint:       cfg.S3Endpoint,
			PublicEndpoint: cfg.S3PublicEndpoint,
			AccessKey:      cfg.S3AccessKey,
			SecretKey:      cfg.S3SecretKey,
			UseSSL:         cfg.S3UseSSL,
			PublicRead:     cfg.S3PublicRead,
		}
		st, err := s3.NewS3Storage(ctx, s3Cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		storage = st
	case config.DriverMinio:
		st, err := minio.NewStorage(ctx, minio.Config{
			Endpoint:   cfg.S3Endpoint,
			AccessKey:  cfg.S3AccessKey,
			SecretKey:  cfg.S3SecretKey,
			Bucket:     cfg.S3BucketName,
			Region:     cfg.S3Region,
			UseSSL:     cfg.S3UseSSL,
			PublicBase: cfg.MinioPublicBase,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize MinIO storage: %w", err)
		}
		storage = st
	case config.DriverLocal:
		st, err := local.NewLocalStorage(cfg.LocalPath, cfg.LocalBaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local storage: %w", err)
		}
		storage = st
		files = st.Handler(UploadsPrefix)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}

	logger.Info("file storage initialized", "driver", cfg.Driver)

	return &Module{
		service: application.NewFileService(storage),
		storage: storage,
		files:   files,
	}, nil
}

// Service returns the file service for use by other modules
func (m *Module) Service() *application.FileService {
	return m.service
}

// FilesHandler serves stored files when the driver keeps them on local disk.
// It is nil for remote drivers.
func (m *Module) FilesHandler() http.Handler {
	return m.files
}
