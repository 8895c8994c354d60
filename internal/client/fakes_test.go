package client

import (
	"bytes"
	"context"
	"io"
)

type fakeAPI struct {
	blobs      []Blob
	listErr    error
	deleteErr  error
	uploadErr  error
	listCalls  int
	deleted    []string
	uploads    []string
	uploadResp *UploadResult
}

func (f *fakeAPI) List(context.Context) ([]Blob, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]Blob(nil), f.blobs...), nil
}

func (f *fakeAPI) Delete(_ context.Context, fileURL string) (string, error) {
	if f.deleteErr != nil {
		return "", f.deleteErr
	}
	f.deleted = append(f.deleted, fileURL)
	return "file deleted", nil
}

func (f *fakeAPI) Upload(_ context.Context, displayName, subject string, _ *SelectedFile) (*UploadResult, error) {
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	f.uploads = append(f.uploads, displayName+"|"+subject)
	if f.uploadResp != nil {
		return f.uploadResp, nil
	}
	return &UploadResult{Message: "file uploaded successfully"}, nil
}

func yes(string) (bool, error) { return true, nil }
func no(string) (bool, error)  { return false, nil }

func pdfFile(size int64) *SelectedFile {
	return &SelectedFile{
		Name:        "notes.pdf",
		ContentType: "application/pdf",
		Size:        size,
		Open:        func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(make([]byte, size))), nil },
	}
}
