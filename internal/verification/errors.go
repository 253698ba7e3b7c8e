package verification

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrFileTooLarge is returned when an evidence file exceeds MaxFileSize.
	ErrFileTooLarge = errors.New("file exceeds maximum size")
	// ErrUnsupportedType is returned for mime types outside jpeg/png/pdf.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrUploadFailed wraps an object-store failure during submission.
	ErrUploadFailed = errors.New("evidence upload failed")
	// ErrGating blocks an approve decision when mandatory evidence is missing.
	ErrGating = errors.New("required documents missing")
	// ErrStaleState signals a decision applied to a request that already left
	// PENDING. First commit wins; the loser gets this.
	ErrStaleState = errors.New("request is no longer pending")
	// ErrRequestNotFound is returned for an unknown request id.
	ErrRequestNotFound = errors.New("verification request not found")
	// ErrPendingExists rejects a second submission while one is under review.
	ErrPendingExists = errors.New("a pending verification request already exists")
	// ErrNoteRequired rejects a rejection without a reviewer note.
	ErrNoteRequired = errors.New("a note is required when rejecting")
)

// ValidationError enumerates the required fields and documents missing from a
// submission. It is produced before anything reaches the object store.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
}
