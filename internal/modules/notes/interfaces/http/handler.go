package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/apuntestech/apuntes/internal/modules/notes/application"
	"github.com/apuntestech/apuntes/internal/modules/notes/domain"
	"github.com/apuntestech/apuntes/internal/shared/utils"
)

const (
	msgUploaded       = "file uploaded successfully"
	msgDeleted        = "file deleted"
	msgUploadFailed   = "internal server error"
	msgListFailed     = "failed to list files"
	msgDeleteFailed   = "failed to delete file"
	msgInvalidForm    = "invalid multipart form"
	multipartEnvelope = 1 << 20
	multipartMemory   = 8 << 20
)

type NoteHandler struct {
	service NoteService
	logger  *slog.Logger
}

func NewNoteHandler(service NoteService, logger *slog.Logger) *NoteHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoteHandler{service: service, logger: logger}
}

// Upload handles POST /upload with the multipart fields archivo, nombrePdf
// and asignatura.
func (h *NoteHandler) Upload(w http.ResponseWriter, r *http.Request) {
	rules := h.service.Rules()

	r.Body = http.MaxBytesReader(w, r.Body, rules.MaxFileSizeBytes()+multipartEnvelope)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.WriteMessage(w, http.StatusBadRequest, fmt.Sprintf("only PDF files up to %d MB are allowed", rules.MaxFileSizeMB))
			return
		}
		h.logger.Info("rejected upload form", "handler", "NoteHandler.Upload", "error", err)
		utils.WriteMessage(w, http.StatusBadRequest, msgInvalidForm)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(domain.FieldFile)
	if errors.Is(err, http.ErrMissingFile) {
		utils.WriteMessage(w, http.StatusBadRequest, domain.ErrMissingFile.Error())
		return
	}
	if err != nil {
		utils.WriteMessage(w, http.StatusBadRequest, msgInvalidForm)
		return
	}
	defer file.Close()

	note, err := h.service.Upload(r.Context(), application.UploadRequest{
		DisplayName: r.FormValue(domain.FieldDisplayName),
		Subject:     r.FormValue(domain.FieldSubject),
		File:        file,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	})
	if err != nil {
		h.writeError(w, r, "NoteHandler.Upload", msgUploadFailed, err)
		return
	}

	h.logger.InfoContext(r.Context(), "note uploaded", "key", note.Pathname, "size", note.Size)
	utils.WriteJSON(w, http.StatusOK, UploadResponse{Message: msgUploaded, Blob: ToBlobResponse(*note)})
}

// List handles GET /pdfs.
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	notes, err := h.service.List(r.Context())
	if err != nil {
		h.writeError(w, r, "NoteHandler.List", msgListFailed, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, ListResponse{Blobs: ToBlobResponses(notes)})
}

// Delete handles DELETE /delete?url=.
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.URL.Query().Get("url")); err != nil {
		h.writeError(w, r, "NoteHandler.Delete", msgDeleteFailed, err)
		return
	}
	utils.WriteMessage(w, http.StatusOK, msgDeleted)
}

// Subjects handles GET /subjects so clients can mirror the server's rules.
func (h *NoteHandler) Subjects(w http.ResponseWriter, r *http.Request) {
	rules := h.service.Rules()
	utils.WriteJSON(w, http.StatusOK, SubjectsResponse{Subjects: rules.Subjects, MaxFileSizeMB: rules.MaxFileSizeMB})
}

// writeError maps domain errors to client errors. Anything unrecognised is a
// storage failure: it is logged and answered with fallback.
func (h *NoteHandler) writeError(w http.ResponseWriter, r *http.Request, op, fallback string, err error) {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		utils.WriteMessage(w, http.StatusBadRequest, vErr.Message)
	case errors.Is(err, domain.ErrMissingFile):
		utils.WriteMessage(w, http.StatusBadRequest, domain.ErrMissingFile.Error())
	case errors.Is(err, domain.ErrMissingURL):
		utils.WriteMessage(w, http.StatusBadRequest, domain.ErrMissingURL.Error())
	case errors.Is(err, domain.ErrInvalidURL):
		utils.WriteMessage(w, http.StatusBadRequest, domain.ErrInvalidURL.Error())
	case errors.Is(err, domain.ErrNoteExists):
		utils.WriteMessage(w, http.StatusConflict, domain.ErrNoteExists.Error())
	case errors.Is(err, domain.ErrUploadInProgress):
		utils.WriteMessage(w, http.StatusConflict, domain.ErrUploadInProgress.Error())
	default:
		h.logger.ErrorContext(r.Context(), "storage operation failed", "handler", op, "error", err)
		utils.WriteMessage(w, http.StatusInternalServerError, fallback)
	}
}
