package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/apuntestech/apuntes/internal/modules/notes/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPI_List(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/pdfs", r.URL.Path)
		w.Write([]byte(`{"blobs":[{"url":"http://s/a%2ALengua.pdf","pathname":"a*Lengua.pdf","size":3,"downloadUrl":"http://s/d","uploadedAt":"2024-02-03T04:05:06Z"}]}`))
	}))
	defer srv.Close()

	blobs, err := NewAPI(srv.URL+"/", nil).List(context.Background())
	require.NoError(t, err)
	require.Len(t, blobs, 1)
	assert.Equal(t, "a", blobs[0].DisplayName())
	assert.Equal(t, "Lengua", blobs[0].Subject())
	assert.Equal(t, int64(3), blobs[0].Size)
	assert.Equal(t, time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC), blobs[0].UploadedAt)
}

func TestAPI_ErrorCarriesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"failed to list files"}`))
	}))
	defer srv.Close()

	_, err := NewAPI(srv.URL, srv.Client()).List(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "failed to list files", apiErr.Message)
}

func TestAPI_ErrorWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewAPI(srv.URL, nil).Subjects(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestAPI_Delete_EncodesURL(t *testing.T) {
	target := "http://store/Tema%201%2ALengua.pdf"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, target, r.URL.Query().Get("url"))
		w.Write([]byte(`{"message":"file deleted"}`))
	}))
	defer srv.Close()

	msg, err := NewAPI(srv.URL, nil).Delete(context.Background(), target)
	require.NoError(t, err)
	assert.Equal(t, "file deleted", msg)
}

func TestAPI_Upload_SendsMultipartFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/upload", r.URL.Path)
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		assert.Equal(t, "Hooks", r.FormValue(domain.FieldDisplayName))
		assert.Equal(t, "React", r.FormValue(domain.FieldSubject))
		file, header, err := r.FormFile(domain.FieldFile)
		if !assert.NoError(t, err) {
			return
		}
		defer file.Close()
		body, _ := io.ReadAll(file)
		assert.Equal(t, "%PDF-1.4", string(body))
		assert.Equal(t, "hooks.pdf", header.Filename)
		assert.Equal(t, domain.PDFContentType, header.Header.Get("Content-Type"))

		json.NewEncoder(w).Encode(map[string]any{
			"message": "file uploaded successfully",
			"blob":    map[string]any{"pathname": "Hooks*React.pdf"},
		})
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "hooks.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))
	file, err := FileFromPath(path)
	require.NoError(t, err)

	res, err := NewAPI(srv.URL, nil).Upload(context.Background(), "Hooks", "React", file)
	require.NoError(t, err)
	assert.Equal(t, "file uploaded successfully", res.Message)
	assert.Equal(t, "Hooks*React.pdf", res.Blob.Pathname)
}

func TestAPI_Upload_NilFile(t *testing.T) {
	_, err := NewAPI("http://localhost", nil).Upload(context.Background(), "a", "React", nil)
	assert.ErrorIs(t, err, domain.ErrMissingFile)
}

func TestAPI_Subjects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"subjects":["React","CSS"],"maxFileSizeMB":1}`))
	}))
	defer srv.Close()

	s, err := NewAPI(srv.URL, nil).Subjects(context.Background())
	require.NoError(t, err)
	rules := s.Rules()
	assert.Equal(t, int64(1<<20), rules.MaxFileSizeBytes())
	assert.Equal(t, []string{"React", "CSS"}, rules.Subjects)
}

func TestFileFromPath(t *testing.T) {
	dir := t.TempDir()

	pdf := filepath.Join(dir, "a.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF-1.7"), 0o644))
	f, err := FileFromPath(pdf)
	require.NoError(t, err)
	assert.Equal(t, "a.pdf", f.Name)
	assert.Equal(t, domain.PDFContentType, f.ContentType)
	assert.Equal(t, int64(8), f.Size)

	// No extension: sniffed from content
	noExt := filepath.Join(dir, "scan")
	require.NoError(t, os.WriteFile(noExt, []byte("%PDF-1.7\n"), 0o644))
	f, err = FileFromPath(noExt)
	require.NoError(t, err)
	assert.Equal(t, domain.PDFContentType, f.ContentType)

	_, err = FileFromPath(dir)
	assert.Error(t, err)
	_, err = FileFromPath(filepath.Join(dir, "missing.pdf"))
	assert.Error(t, err)
}

func TestAPI_Download(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/signed/Tema%201%2ALengua.pdf", "/signed/Tema 1*Lengua.pdf":
			assert.Equal(t, "abc", r.URL.Query().Get("X-Amz-Signature"))
			w.Header().Set("Content-Type", domain.PDFContentType)
			w.Write([]byte("%PDF-1.4 tema"))
		case "/public/legacy.pdf":
			w.Write([]byte("%PDF-1.4 legacy"))
		default:
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte("<Error><Code>AccessDenied</Code></Error>"))
		}
	}))
	defer srv.Close()
	api := NewAPI("http://unused", srv.Client())

	tests := []struct {
		name    string
		blob    Blob
		want    string
		wantErr int
	}{
		{"download url", Blob{Pathname: "Tema 1*Lengua.pdf", URL: srv.URL + "/public/x", DownloadURL: srv.URL + "/signed/Tema%201%2ALengua.pdf?X-Amz-Signature=abc"}, "%PDF-1.4 tema", 0},
		{"falls back to url", Blob{Pathname: "legacy.pdf", URL: srv.URL + "/public/legacy.pdf"}, "%PDF-1.4 legacy", 0},
		{"expired link", Blob{Pathname: "a*Lengua.pdf", DownloadURL: srv.URL + "/signed/expired"}, "", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			n, err := api.Download(context.Background(), tt.blob, &buf)
			if tt.wantErr != 0 {
				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, tt.wantErr, apiErr.StatusCode)
				assert.Equal(t, "Forbidden", apiErr.Message)
				assert.Zero(t, buf.Len())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, buf.String())
			assert.Equal(t, int64(len(tt.want)), n)
		})
	}

	_, err := api.Download(context.Background(), Blob{Pathname: "a*Lengua.pdf"}, io.Discard)
	assert.ErrorIs(t, err, domain.ErrMissingURL)
}
