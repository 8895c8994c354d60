package filestorage

import (
	"context"
	"log/slog"
	"testing"

	"github.com/apuntestech/apuntes/internal/shared/infrastructure/config"
	"github.com/stretchr/testify/require"
)

func TestNewModule_LocalAndS3Error(t *testing.T) {
	logger := slog.Default()

	m, err := NewModule(context.Background(), config.FileStorageConfig{Driver: config.DriverLocal, LocalPath: t.TempDir(), LocalBaseURL: "http://localhost/uploads"}, logger)
	require.NoError(t, err)
	require.NotNil(t, m)
	require.NotNil(t, m.Service())
	require.NotNil(t, m.FilesHandler())

	m, err = NewModule(context.Background(), config.FileStorageConfig{Driver: config.DriverS3, S3BucketName: "b", S3Region: "us-east-1", S3Endpoint: "localhost:9000", S3AccessKey: "x", S3SecretKey: "y"}, logger)
	require.NoError(t, err)
	require.Nil(t, m.FilesHandler())

	_, err = NewModule(context.Background(), config.FileStorageConfig{Driver: config.DriverS3, S3BucketName: ""}, logger)
	require.Error(t, err)

	_, err = NewModule(context.Background(), config.FileStorageConfig{Driver: config.DriverMinio}, logger)
	require.Error(t, err)

	_, err = NewModule(context.Background(), config.FileStorageConfig{Driver: "ftp"}, logger)
	require.Error(t, err)
}
