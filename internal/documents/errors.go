package documents

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a document record does not exist
var ErrNotFound = errors.New("document not found")

// ValidationError indicates bad or missing caller input. It is the only error
// in the taxonomy that is safe to show to the caller verbatim.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StagingError indicates a local failure while writing the staged copy of an
// upload (disk space, permissions)
type StagingError struct {
	FileName string
	Err      error
}

func (e *StagingError) Error() string {
	return fmt.Sprintf("failed to stage upload %q: %v", e.FileName, e.Err)
}

func (e *StagingError) Unwrap() error { return e.Err }

// BlobCommitError indicates the blob store rejected or failed the upload. No
// metadata record exists when this is returned.
type BlobCommitError struct {
	FileName string
	Err      error
}

func (e *BlobCommitError) Error() string {
	return fmt.Sprintf("failed to commit blob for %q: %v", e.FileName, e.Err)
}

func (e *BlobCommitError) Unwrap() error { return e.Err }

// MetadataCommitError indicates the metadata store failed after the blob side
// of the operation already succeeded. On upload the blob named by BlobRef is
// orphaned; on delete the record named by RecordID dangles. The matching drift
// event has already been emitted when this is returned.
type MetadataCommitError struct {
	BlobRef  string
	RecordID string
	Err      error
}

func (e *MetadataCommitError) Error() string {
	if e.RecordID != "" {
		return fmt.Sprintf("failed to commit metadata for record %s: %v", e.RecordID, e.Err)
	}
	return fmt.Sprintf("failed to commit metadata for blob %s: %v", e.BlobRef, e.Err)
}

func (e *MetadataCommitError) Unwrap() error { return e.Err }

// BlobUnavailableError indicates the blob store failed on a read or delete
// for an existing record
type BlobUnavailableError struct {
	BlobRef string
	Err     error
}

func (e *BlobUnavailableError) Error() string {
	return fmt.Sprintf("blob %s unavailable: %v", e.BlobRef, e.Err)
}

func (e *BlobUnavailableError) Unwrap() error { return e.Err }
