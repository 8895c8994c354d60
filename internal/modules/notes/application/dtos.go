package application

import "io"

// UploadRequest is one form submission: the file plus its display name and
// subject. It is never persisted as a struct.
type UploadRequest struct {
	DisplayName string
	Subject     string
	File        io.Reader
	Filename    string
	ContentType string
	Size        int64
}
