// Package client talks to the notes HTTP API and holds the client-side state
// of the catalog and upload form.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/apuntestech/apuntes/internal/modules/notes/domain"
)

// Blob is a stored note as listed by the server
type Blob struct {
	URL         string    `json:"url"`
	Pathname    string    `json:"pathname"`
	Size        int64     `json:"size"`
	DownloadURL string    `json:"downloadUrl"`
	UploadedAt  time.Time `json:"uploadedAt"`
	ContentType string    `json:"contentType,omitempty"`
}

// DisplayName is the name part of the pathname, or the whole pathname when it
// cannot be decoded.
func (b Blob) DisplayName() string {
	name, _ := domain.DisplayLabel(b.Pathname)
	return name
}

// Subject is empty when the pathname cannot be decoded.
func (b Blob) Subject() string {
	_, subject := domain.DisplayLabel(b.Pathname)
	return subject
}

type UploadResult struct {
	Message string `json:"message"`
	Blob    Blob   `json:"blob"`
}

type Subjects struct {
	Subjects      []string `json:"subjects"`
	MaxFileSizeMB int      `json:"maxFileSizeMB"`
}

// Rules converts the server's advertised limits into validation rules
func (s Subjects) Rules() domain.Rules {
	return domain.Rules{MaxFileSizeMB: s.MaxFileSizeMB, Subjects: s.Subjects}
}

// APIError is a non-2xx response. Message is the server's message field.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// API is an HTTP client for the notes service
type API struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPI creates a client for the service at baseURL. A nil httpClient uses
// http.DefaultClient.
func NewAPI(baseURL string, httpClient *http.Client) *API {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &API{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// List fetches every stored note
func (a *API) List(ctx context.Context) ([]Blob, error) {
	var resp struct {
		Blobs []Blob `json:"blobs"`
	}
	if err := a.do(ctx, http.MethodGet, "/pdfs", nil, "", &resp); err != nil {
		return nil, err
	}
	return resp.Blobs, nil
}

// Subjects fetches the server's subject list and size limit
func (a *API) Subjects(ctx context.Context) (*Subjects, error) {
	var resp Subjects
	if err := a.do(ctx, http.MethodGet, "/subjects", nil, "", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Upload sends one note as the multipart form the server expects
func (a *API) Upload(ctx context.Context, displayName, subject string, file *SelectedFile) (*UploadResult, error) {
	if file == nil {
		return nil, domain.ErrMissingFile
	}
	content, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", file.Name, err)
	}
	defer content.Close()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	if err := mw.WriteField(domain.FieldDisplayName, displayName); err != nil {
		return nil, err
	}
	if err := mw.WriteField(domain.FieldSubject, subject); err != nil {
		return nil, err
	}

	// CreateFormFile would label the part application/octet-stream
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, domain.FieldFile, file.Name))
	h.Set("Content-Type", file.ContentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file.Name, err)
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var resp UploadResult
	if err := a.do(ctx, http.MethodPost, "/upload", body, mw.FormDataContentType(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Delete removes the note served at fileURL and returns the server's message
func (a *API) Delete(ctx context.Context, fileURL string) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	path := "/delete?" + url.Values{"url": {fileURL}}.Encode()
	if err := a.do(ctx, http.MethodDelete, path, nil, "", &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Download streams the note's file into w and returns the number of bytes
// written. It follows DownloadURL, or URL when the listing carried no
// download link.
func (a *API) Download(ctx context.Context, blob Blob, w io.Writer) (int64, error) {
	target := blob.DownloadURL
	if target == "" {
		target = blob.URL
	}
	if target == "" {
		return 0, domain.ErrMissingURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", domain.PDFContentType)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("GET %s: %w", blob.Pathname, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, newAPIError(resp)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("failed to read %s: %w", blob.Pathname, err)
	}
	return n, nil
}

func (a *API) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// newAPIError reads the JSON message of a failed response when there is one.
// Storage backends answer with XML or plain text, which keeps the status text.
func newAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	var msg struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&msg); err == nil && msg.Message != "" {
		apiErr.Message = msg.Message
	}
	return apiErr
}
