package domain

import (
	"fmt"
	"regexp"
	"slices"
)

const (
	PDFContentType = "application/pdf"

	displayNameMessage = "name must contain only alphanumeric characters and spaces"
	subjectMessage     = "subject must be one of the allowed subjects"
)

// Whitespace covers ASCII \t \n \v \f \r and space, the Unicode
// space separators, the line and paragraph separators and U+FEFF.
var displayNamePattern = regexp.MustCompile(`^[A-Za-z0-9\t\n\v\f\r \p{Zs}\x{2028}\x{2029}\x{FEFF}]+$`)

// FileInfo is what the validators need to know about a selected file.
type FileInfo struct {
	Name        string
	ContentType string
	Size        int64
}

// ValidateDisplayName accepts one or more ASCII letters, digits or whitespace
// characters.
func ValidateDisplayName(name string) error {
	if displayNamePattern.MatchString(name) {
		return nil
	}
	return &ValidationError{Field: FieldDisplayName, Message: displayNameMessage, Err: ErrInvalidDisplayName}
}

// ValidateFile accepts a non-nil PDF whose size does not exceed the rules' limit.
func (r Rules) ValidateFile(file *FileInfo) error {
	if file != nil && file.ContentType == PDFContentType && file.Size <= r.MaxFileSizeBytes() {
		return nil
	}
	return &ValidationError{
		Field:   FieldFile,
		Message: fmt.Sprintf("only PDF files up to %d MB are allowed", r.MaxFileSizeMB),
		Err:     ErrInvalidFile,
	}
}

// ValidateSubject accepts only subjects from the configured list.
func (r Rules) ValidateSubject(subject string) error {
	if slices.Contains(r.Subjects, subject) {
		return nil
	}
	return &ValidationError{Field: FieldSubject, Message: subjectMessage, Err: ErrInvalidSubject}
}

// Validate runs every validator over a submission and returns the first failure.
func (r Rules) Validate(displayName, subject string, file *FileInfo) error {
	if err := ValidateDisplayName(displayName); err != nil {
		return err
	}
	if err := r.ValidateSubject(subject); err != nil {
		return err
	}
	return r.ValidateFile(file)
}
