package http

import (
	"time"

	"github.com/apuntestech/apuntes/internal/modules/notes/domain"
)

// BlobResponse is a stored note as returned to clients
type BlobResponse struct {
	URL         string    `json:"url"`
	Pathname    string    `json:"pathname"`
	Size        int64     `json:"size"`
	DownloadURL string    `json:"downloadUrl"`
	UploadedAt  time.Time `json:"uploadedAt"`
	ContentType string    `json:"contentType,omitempty"`
}

type UploadResponse struct {
	Message string       `json:"message"`
	Blob    BlobResponse `json:"blob"`
}

type ListResponse struct {
	Blobs []BlobResponse `json:"blobs"`
}

type SubjectsResponse struct {
	Subjects      []string `json:"subjects"`
	MaxFileSizeMB int      `json:"maxFileSizeMB"`
}

func ToBlobResponse(n domain.Note) BlobResponse {
	return BlobResponse{
		URL:         n.URL,
		Pathname:    n.Pathname,
		Size:        n.Size,
		DownloadURL: n.DownloadURL,
		UploadedAt:  n.UploadedAt,
		ContentType: n.ContentType,
	}
}

// ToBlobResponses keeps the storage order and never returns nil, so an empty
// store lists as "blobs": [].
func ToBlobResponses(notes []domain.Note) []BlobResponse {
	out := make([]BlobResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, ToBlobResponse(n))
	}
	return out
}
