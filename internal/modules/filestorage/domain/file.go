package domain

import (
	"errors"
	"time"
)

// ErrObjectNotFound is returned by StatFile when no object exists under a key.
var ErrObjectNotFound = errors.New("object not found")

// Object represents a stored object's metadata
type Object struct {
	Key         string
	URL         string
	DownloadURL string
	ContentType string
	Size        int64
	UploadedAt  time.Time
}
