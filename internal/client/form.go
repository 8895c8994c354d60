package client

import (
	"context"
	"errors"

	"github.com/apuntestech/apuntes/internal/modules/notes/domain"
)

const msgUploadFailed = "failed to upload file"

// ErrCannotSubmit is returned by Submit when CanSubmit is false
var ErrCannotSubmit = errors.New("form has errors or no file selected")

// Uploader is the part of API an UploadForm uses
type Uploader interface {
	Upload(ctx context.Context, displayName, subject string, file *SelectedFile) (*UploadResult, error)
}

// UploadForm mirrors the server's validators field by field so errors show
// before anything is sent. The server validates again regardless.
type UploadForm struct {
	api   Uploader
	rules domain.Rules

	displayName string
	subject     string
	file        *SelectedFile

	nameErr error
	fileErr error
	message string
}

func NewUploadForm(api Uploader, rules domain.Rules) *UploadForm {
	return &UploadForm{api: api, rules: rules}
}

func (f *UploadForm) SetDisplayName(name string) {
	f.displayName = name
	f.nameErr = domain.ValidateDisplayName(name)
}

func (f *UploadForm) SetSubject(subject string) {
	f.subject = subject
}

// SetFile selects file and validates its type and size. A nil file clears
// the selection.
func (f *UploadForm) SetFile(file *SelectedFile) {
	if file == nil {
		f.ClearFile()
		return
	}
	f.file = file
	f.fileErr = f.rules.ValidateFile(&domain.FileInfo{Name: file.Name, ContentType: file.ContentType, Size: file.Size})
}

func (f *UploadForm) ClearFile() {
	f.file = nil
	f.fileErr = nil
}

func (f *UploadForm) DisplayName() string { return f.displayName }
func (f *UploadForm) Subject() string     { return f.subject }
func (f *UploadForm) File() *SelectedFile { return f.file }
func (f *UploadForm) Subjects() []string  { return f.rules.Subjects }

// NameError is the display name validation message, empty when valid
func (f *UploadForm) NameError() string { return errMessage(f.nameErr) }

// FileError is the file validation message, empty when valid
func (f *UploadForm) FileError() string { return errMessage(f.fileErr) }

// Message is the outcome of the last submit
func (f *UploadForm) Message() string { return f.message }

// CanSubmit reports whether no field has failed validation and a file is
// selected. A name that was never set has no error yet, so CanSubmit can be
// true before one is typed; Submit validates every field again and records
// the name error then.
func (f *UploadForm) CanSubmit() bool {
	return f.nameErr == nil && f.fileErr == nil && f.file != nil
}

// Submit sends the form. On success every field is reset and Message holds
// the server's acknowledgment; on failure the fields are kept for a retry and
// Message describes the error.
func (f *UploadForm) Submit(ctx context.Context) (*UploadResult, error) {
	f.message = ""
	if !f.CanSubmit() {
		return nil, ErrCannotSubmit
	}

	// Fields set only through SetSubject, or a name never typed, have not
	// been checked yet
	if err := f.rules.Validate(f.displayName, f.subject, &domain.FileInfo{
		Name:        f.file.Name,
		ContentType: f.file.ContentType,
		Size:        f.file.Size,
	}); err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) && vErr.Field == domain.FieldDisplayName {
			f.nameErr = err
		}
		f.message = err.Error()
		return nil, err
	}

	res, err := f.api.Upload(ctx, f.displayName, f.subject, f.file)
	if err != nil {
		f.message = msgUploadFailed
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			f.message = apiErr.Message
		}
		return nil, err
	}

	f.reset()
	f.message = res.Message
	return res, nil
}

func (f *UploadForm) reset() {
	f.displayName = ""
	f.subject = ""
	f.file = nil
	f.nameErr = nil
	f.fileErr = nil
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
