package dscache

import (
	"fmt"
)

// SplitError reports an invalid train/test split parameter. Sizes are never
// silently clamped; the offending parameter is named.
type SplitError struct {
	Param  string
	Reason string
}

func (e *SplitError) Error() string {
	return fmt.Sprintf("dscache: invalid %s: %s", e.Param, e.Reason)
}

// PutError reports a best-effort cache write that failed in the blob write,
// the manifest update, or both. The computed result is still returned to the
// caller; the cache is never required for correctness.
type PutError struct {
	Key         string
	BlobErr     error
	ManifestErr error
}

func (e *PutError) Error() string {
	switch {
	case e.BlobErr != nil && e.ManifestErr != nil:
		return fmt.Sprintf("put %q failed: blob write and manifest update failed: blob=%v; manifest=%v",
			e.Key, e.BlobErr, e.ManifestErr)
	case e.BlobErr != nil:
		return fmt.Sprintf("put %q: blob write failed: %v", e.Key, e.BlobErr)
	case e.ManifestErr != nil:
		return fmt.Sprintf("put %q: manifest update failed: %v", e.Key, e.ManifestErr)
	default:
		return fmt.Sprintf("put %q: unknown error", e.Key)
	}
}

func (e *PutError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.BlobErr != nil {
		errs = append(errs, e.BlobErr)
	}
	if e.ManifestErr != nil {
		errs = append(errs, e.ManifestErr)
	}
	return errs
}
