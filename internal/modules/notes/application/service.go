package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	fsdomain "github.com/apuntestech/apuntes/internal/modules/filestorage/domain"
	"github.com/apuntestech/apuntes/internal/modules/notes/domain"
)

// FileService is the slice of the filestorage module the notes module uses.
type FileService interface {
	UploadWithKey(ctx context.Context, file io.Reader, key string, size int64, contentType string) (*fsdomain.Object, error)
	List(ctx context.Context) ([]fsdomain.Object, error)
	Exists(ctx context.Context, key string) (bool, error)
	GetPresignedDownloadURL(ctx context.Context, key string, filename string, expiration time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
	GetKeyFromUrl(fileUrl string) (string, error)
}

// KeyLocker serializes uploads of the same storage key across server
// instances. Lock returns domain.ErrUploadInProgress when another holder has
// the key.
type KeyLocker interface {
	Lock(ctx context.Context, key string) (unlock func(context.Context) error, err error)
}

// NoteService implements upload, listing and deletion of notes on top of the
// file storage. It holds no per-request state.
type NoteService struct {
	files          FileService
	locker         KeyLocker
	rules          domain.Rules
	downloadExpiry time.Duration
	logger         *slog.Logger
}

// NewNoteService creates a note service. locker may be nil, in which case the
// existence check before an upload is not atomic across instances.
func NewNoteService(files FileService, locker KeyLocker, rules domain.Rules, downloadExpiry time.Duration, logger *slog.Logger) *NoteService {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoteService{
		files:          files,
		locker:         locker,
		rules:          rules,
		downloadExpiry: downloadExpiry,
		logger:         logger,
	}
}

// Rules returns the upload constraints enforced by the service.
func (s *NoteService) Rules() domain.Rules {
	return s.rules
}

// Upload validates a submission, derives its storage key and stores the
// file. Re-uploading an existing key is rejected with domain.ErrNoteExists.
func (s *NoteService) Upload(ctx context.Context, req UploadRequest) (*domain.Note, error) {
	if req.File == nil {
		uploadsTotal.WithLabelValues(outcomeInvalid).Inc()
		return nil, domain.ErrMissingFile
	}

	file := &domain.FileInfo{Name: req.Filename, ContentType: req.ContentType, Size: req.Size}
	if err := s.rules.Validate(req.DisplayName, req.Subject, file); err != nil {
		uploadsTotal.WithLabelValues(outcomeInvalid).Inc()
		return nil, err
	}

	key := domain.EncodeKey(req.DisplayName, req.Subject)

	if s.locker != nil {
		unlock, err := s.locker.Lock(ctx, key)
		if err != nil {
			if errors.Is(err, domain.ErrUploadInProgress) {
				uploadsTotal.WithLabelValues(outcomeConflict).Inc()
				return nil, err
			}
			uploadsTotal.WithLabelValues(outcomeError).Inc()
			return nil, fmt.Errorf("lock %q: %w", key, err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				s.logger.WarnContext(ctx, "failed to release upload lock", "key", key, "error", err)
			}
		}()
	}

	exists, err := s.files.Exists(ctx, key)
	if err != nil {
		uploadsTotal.WithLabelValues(outcomeError).Inc()
		return nil, fmt.Errorf("check %q: %w", key, err)
	}
	if exists {
		uploadsTotal.WithLabelValues(outcomeConflict).Inc()
		return nil, domain.ErrNoteExists
	}

	obj, err := s.files.UploadWithKey(ctx, req.File, key, req.Size, domain.PDFContentType)
	if err != nil {
		uploadsTotal.WithLabelValues(outcomeError).Inc()
		return nil, fmt.Errorf("store %q: %w", key, err)
	}
	uploadsTotal.WithLabelValues(outcomeStored).Inc()

	note := s.toNote(ctx, *obj)
	return &note, nil
}

// List returns every stored note, unfiltered and in storage order.
func (s *NoteService) List(ctx context.Context) ([]domain.Note, error) {
	objects, err := s.files.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	notes := make([]domain.Note, 0, len(objects))
	for _, obj := range objects {
		notes = append(notes, s.toNote(ctx, obj))
	}
	listedObjects.Set(float64(len(notes)))
	return notes, nil
}

// Delete removes the note served at fileURL. Whether deleting a missing
// object succeeds is up to the storage backend.
func (s *NoteService) Delete(ctx context.Context, fileURL string) error {
	if fileURL == "" {
		deletesTotal.WithLabelValues(outcomeInvalid).Inc()
		return domain.ErrMissingURL
	}

	key, err := s.files.GetKeyFromUrl(fileURL)
	if err != nil {
		deletesTotal.WithLabelValues(outcomeInvalid).Inc()
		return fmt.Errorf("%w: %v", domain.ErrInvalidURL, err)
	}

	if err := s.files.Delete(ctx, key); err != nil {
		deletesTotal.WithLabelValues(outcomeError).Inc()
		return fmt.Errorf("delete %q: %w", key, err)
	}
	deletesTotal.WithLabelValues(outcomeDeleted).Inc()
	return nil
}

// toNote maps a stored object to a note, signing a download URL named after
// the note's display name. If signing fails the public URL is used instead.
func (s *NoteService) toNote(ctx context.Context, obj fsdomain.Object) domain.Note {
	note := domain.Note{
		URL:         obj.URL,
		Pathname:    obj.Key,
		Size:        obj.Size,
		DownloadURL: obj.DownloadURL,
		UploadedAt:  obj.UploadedAt,
		ContentType: obj.ContentType,
	}
	if note.DownloadURL != "" {
		return note
	}

	filename := note.DisplayName()
	if !strings.HasSuffix(filename, domain.KeyExtension) {
		filename += domain.KeyExtension
	}
	download, err := s.files.GetPresignedDownloadURL(ctx, obj.Key, filename, s.downloadExpiry)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to sign download url", "key", obj.Key, "error", err)
		download = obj.URL
	}
	note.DownloadURL = download
	return note
}
