package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/apuntestech/apuntes/internal/modules/filestorage/domain"
)

const tempPrefix = ".upload-"

// LocalStorage implements FileStorage interface using local filesystem
type LocalStorage struct {
	basePath string
	baseURL  string
}

// NewLocalStorage creates a new local filesystem storage
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	// Ensure directory exists
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// UploadFile writes the file to a temp name and renames it into place, so a
// listing never sees a partially written object.
func (l *LocalStorage) UploadFile(ctx context.Context, key string, file io.Reader, size int64, contentType string) (*domain.Object, error) {
	fullPath, err := l.path(key)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, tempPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	written, err := io.Copy(tmp, file)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		return nil, fmt.Errorf("failed to move file into place: %w", err)
	}

	return &domain.Object{
		Key:         key,
		URL:         l.publicURL(key),
		ContentType: contentType,
		Size:        written,
		UploadedAt:  time.Now().UTC(),
	}, nil
}

// ListFiles walks the storage directory
func (l *LocalStorage) ListFiles(ctx context.Context) ([]domain.Object, error) {
	objects := []domain.Object{}
	err := filepath.WalkDir(l.basePath, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), tempPrefix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(l.basePath, p)
		if err != nil {
			return err
		}
		objects = append(objects, l.object(filepath.ToSlash(rel), info))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	return objects, nil
}

// StatFile returns the metadata of a stored file
func (l *LocalStorage) StatFile(ctx context.Context, key string) (*domain.Object, error) {
	fullPath, err := l.path(key)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(fullPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrObjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	obj := l.object(key, info)
	return &obj, nil
}

// DeleteFile deletes a file from local filesystem
func (l *LocalStorage) DeleteFile(ctx context.Context, key string) error {
	fullPath, err := l.path(key)
	if err != nil {
		return err
	}
	// Deleting a missing file succeeds, as it does on S3
	if err := os.Remove(fullPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// GetPresignedDownloadURL for local storage returns the public URL with a
// download hint understood by Handler
func (l *LocalStorage) GetPresignedDownloadURL(ctx context.Context, key string, filename string, expiration time.Duration) (string, error) {
	if filename == "" {
		return l.publicURL(key), nil
	}
	return l.publicURL(key) + "?" + url.Values{"download": {filename}}.Encode(), nil
}

// GetKeyFromURL extracts the key from a public URL
func (l *LocalStorage) GetKeyFromURL(fileUrl string) (string, error) {
	prefix := l.baseURL + "/"
	if !strings.HasPrefix(fileUrl, prefix) || len(fileUrl) == len(prefix) {
		return "", fmt.Errorf("url does not match expected format: %s", fileUrl)
	}
	escaped, _, _ := strings.Cut(strings.TrimPrefix(fileUrl, prefix), "?")
	key, err := url.PathUnescape(escaped)
	if err != nil {
		return "", fmt.Errorf("url does not match expected format: %s", fileUrl)
	}
	return key, nil
}

// Handler serves stored files under prefix. A download query parameter turns
// the response into an attachment with that filename.
func (l *LocalStorage) Handler(prefix string) http.Handler {
	files := http.StripPrefix(prefix, http.FileServer(http.Dir(l.basePath)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if name := r.URL.Query().Get("download"); name != "" {
			w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
		}
		files.ServeHTTP(w, r)
	})
}

func (l *LocalStorage) object(key string, info fs.FileInfo) domain.Object {
	return domain.Object{
		Key:         key,
		URL:         l.publicURL(key),
		ContentType: mime.TypeByExtension(filepath.Ext(key)),
		Size:        info.Size(),
		UploadedAt:  info.ModTime().UTC(),
	}
}

// path resolves a key inside basePath, rejecting keys that would escape it
func (l *LocalStorage) path(key string) (string, error) {
	if key == "" || !filepath.IsLocal(filepath.FromSlash(key)) {
		return "", fmt.Errorf("invalid storage key: %q", key)
	}
	return filepath.Join(l.basePath, filepath.FromSlash(key)), nil
}

func (l *LocalStorage) publicURL(key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return l.baseURL + "/" + strings.Join(segments, "/")
}
