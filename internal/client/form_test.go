package client

import (
	"context"
	"errors"
	"testing"

	"github.com/apuntestech/apuntes/internal/modules/notes/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var frontendRules = domain.Rules{MaxFileSizeMB: 1, Subjects: domain.FrontendSubjects}

func TestUploadForm_EnablesSubmitWhenValid(t *testing.T) {
	f := NewUploadForm(&fakeAPI{}, frontendRules)
	assert.False(t, f.CanSubmit())

	f.SetDisplayName("TEST")
	f.SetSubject("React")
	assert.False(t, f.CanSubmit(), "no file selected")

	f.SetFile(pdfFile(512))
	assert.Empty(t, f.NameError())
	assert.Empty(t, f.FileError())
	assert.True(t, f.CanSubmit())
}

func TestUploadForm_InvalidNameBlocksSubmit(t *testing.T) {
	f := NewUploadForm(&fakeAPI{}, frontendRules)
	f.SetSubject("React")
	f.SetFile(pdfFile(512))

	f.SetDisplayName("_")
	assert.Equal(t, "name must contain only alphanumeric characters and spaces", f.NameError())
	assert.False(t, f.CanSubmit())

	f.SetDisplayName("ok now")
	assert.True(t, f.CanSubmit())
}

func TestUploadForm_FileValidation(t *testing.T) {
	f := NewUploadForm(&fakeAPI{}, frontendRules)
	f.SetDisplayName("a")

	png := pdfFile(1000)
	png.ContentType = "image/png"
	f.SetFile(png)
	assert.Equal(t, "only PDF files up to 1 MB are allowed", f.FileError())
	assert.False(t, f.CanSubmit())

	f.SetFile(pdfFile(frontendRules.MaxFileSizeBytes()))
	assert.Empty(t, f.FileError())
	assert.True(t, f.CanSubmit())

	f.SetFile(pdfFile(frontendRules.MaxFileSizeBytes() + 1))
	assert.NotEmpty(t, f.FileError())

	f.SetFile(nil)
	assert.Empty(t, f.FileError())
	assert.Nil(t, f.File())
	assert.False(t, f.CanSubmit())
}

func TestUploadForm_SubmitSuccessResets(t *testing.T) {
	api := &fakeAPI{}
	f := NewUploadForm(api, frontendRules)
	f.SetDisplayName("Hooks")
	f.SetSubject("React")
	f.SetFile(pdfFile(10))

	res, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "file uploaded successfully", res.Message)
	assert.Equal(t, []string{"Hooks|React"}, api.uploads)

	assert.Equal(t, "file uploaded successfully", f.Message())
	assert.Empty(t, f.DisplayName())
	assert.Empty(t, f.Subject())
	assert.Nil(t, f.File())
	assert.False(t, f.CanSubmit())
}

func TestUploadForm_SubmitFailureKeepsFields(t *testing.T) {
	api := &fakeAPI{uploadErr: &APIError{StatusCode: 409, Message: domain.ErrNoteExists.Error()}}
	f := NewUploadForm(api, frontendRules)
	f.SetDisplayName("Hooks")
	f.SetSubject("React")
	f.SetFile(pdfFile(10))

	_, err := f.Submit(context.Background())
	assert.Error(t, err)
	assert.Equal(t, domain.ErrNoteExists.Error(), f.Message())
	assert.Equal(t, "Hooks", f.DisplayName())
	assert.Equal(t, "React", f.Subject())
	assert.NotNil(t, f.File())
	assert.True(t, f.CanSubmit())

	api.uploadErr = errors.New("connection refused")
	_, err = f.Submit(context.Background())
	assert.Error(t, err)
	assert.Equal(t, "failed to upload file", f.Message())
}

func TestUploadForm_SubmitRevalidates(t *testing.T) {
	api := &fakeAPI{}
	f := NewUploadForm(api, frontendRules)
	f.SetFile(pdfFile(10))

	// Name never entered
	assert.True(t, f.CanSubmit())
	_, err := f.Submit(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidDisplayName)
	assert.NotEmpty(t, f.NameError())
	assert.False(t, f.CanSubmit())

	f.SetDisplayName("Hooks")
	f.SetSubject("Cobol")
	_, err = f.Submit(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidSubject)
	assert.Empty(t, api.uploads)
}

func TestUploadForm_SubmitBlocked(t *testing.T) {
	f := NewUploadForm(&fakeAPI{}, frontendRules)
	_, err := f.Submit(context.Background())
	assert.ErrorIs(t, err, ErrCannotSubmit)
}
