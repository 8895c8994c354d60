package notes_test

import (
	"bytes"

	"github.com/apuntestech/apuntes/internal/modules/notes/application"
	"github.com/apuntestech/apuntes/internal/modules/notes/domain"
)

func notesUpload(name, subject string, content []byte) application.UploadRequest {
	return application.UploadRequest{
		DisplayName: name,
		Subject:     subject,
		File:        bytes.NewReader(content),
		Filename:    "tema.pdf",
		ContentType: domain.PDFContentType,
		Size:        int64(len(content)),
	}
}
