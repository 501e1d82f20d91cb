package workflow

import "errors"

// Pipeline stage errors. The processor's error boundary distinguishes
// parse failures (archived under the error tag) from cancellation.
var (
	ErrReadFailed      = errors.New("transcript read failed")
	ErrEmptyTranscript = errors.New("transcript is empty")
	ErrArchiveFailed   = errors.New("archive failed")
	ErrMetadataFailed  = errors.New("metadata save failed")
	ErrCancelled       = errors.New("job cancelled")
)
