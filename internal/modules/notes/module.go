package notes

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/apuntestech/apuntes/internal/modules/notes/application"
	"github.com/apuntestech/apuntes/internal/modules/notes/domain"
	"github.com/apuntestech/apuntes/internal/modules/notes/infrastructure/redislock"
	notesHttp "github.com/apuntestech/apuntes/internal/modules/notes/interfaces/http"
	"github.com/apuntestech/apuntes/internal/shared/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

// Module represents the Notes module
type Module struct {
	service *application.NoteService
	handler *notesHttp.NoteHandler
}

// NewModule creates and initializes the Notes module. redisClient may be nil,
// which disables the cross-instance upload lock.
func NewModule(
	cfg config.NotesConfig,
	fileService application.FileService,
	redisClient *redis.Client,
	downloadExpiry time.Duration,
	logger *slog.Logger,
) (*Module, error) {
	rules, err := domain.RulesFor(cfg.SubjectSet, cfg.MaxFileSizeMB)
	if err != nil {
		return nil, fmt.Errorf("failed to load note rules: %w", err)
	}

	var locker application.KeyLocker
	if redisClient != nil {
		locker = redislock.NewLocker(redisClient, cfg.UploadLockTTL)
	}

	service := application.NewNoteService(fileService, locker, rules, downloadExpiry, logger)
	handler := notesHttp.NewNoteHandler(service, logger)

	return &Module{
		service: service,
		handler: handler,
	}, nil
}

// Service returns the note service
func (m *Module) Service() *application.NoteService {
	return m.service
}

// HTTPHandler returns the HTTP handler
func (m *Module) HTTPHandler() *notesHttp.NoteHandler {
	return m.handler
}
