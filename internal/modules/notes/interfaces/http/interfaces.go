package http

import (
	"context"

	"github.com/apuntestech/apuntes/internal/modules/notes/application"
	"github.com/apuntestech/apuntes/internal/modules/notes/domain"
)

// NoteService defines the note operations the handler depends on
type NoteService interface {
	Upload(ctx context.Context, req application.UploadRequest) (*domain.Note, error)
	List(ctx context.Context) ([]domain.Note, error)
	Delete(ctx context.Context, fileURL string) error
	Rules() domain.Rules
}
