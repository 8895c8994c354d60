package domain

import "time"

// Note is a stored PDF as reported by the storage backend. Pathname is the
// storage key, the only place display name and subject are recorded.
type Note struct {
	URL         string
	Pathname    string
	Size        int64
	DownloadURL string
	UploadedAt  time.Time
	ContentType string
}

// DisplayName returns the decoded display name, or the raw key when the key
// cannot be decoded.
func (n Note) DisplayName() string {
	name, _ := DisplayLabel(n.Pathname)
	return name
}

// Subject returns the decoded subject, empty when the key cannot be decoded.
func (n Note) Subject() string {
	_, subject := DisplayLabel(n.Pathname)
	return subject
}
