package domain

import "errors"

var (
	ErrInvalidDisplayName = errors.New("invalid display name")
	ErrInvalidFile        = errors.New("invalid file")
	ErrInvalidSubject     = errors.New("invalid subject")
	ErrMissingFile        = errors.New("no file provided")
	ErrMissingURL         = errors.New("url not provided")
	ErrInvalidURL         = errors.New("url does not belong to this store")
	ErrNoteExists         = errors.New("a note with this name and subject already exists")
	ErrUploadInProgress   = errors.New("an upload for this name and subject is in progress")
	ErrKeyFormat          = errors.New("storage key has no separator")
	ErrUnknownSubjectSet  = errors.New("unknown subject set")
)

// ValidationError carries the user-facing message of a failed validator.
// It unwraps to one of the ErrInvalid* sentinels.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return e.Err }
