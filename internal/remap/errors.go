package remap

import "errors"

// FailedToSubmit is the job id returned when a batch could not be submitted.
// Callers fall back to remapping the batch one variant at a time.
const FailedToSubmit = -1

var (
	// ErrRemapping is returned when the service refused or could not map a
	// variant. Transport failures are reported with their own errors.
	ErrRemapping = errors.New("remapping failed")

	// ErrTimeout is returned when a batch job did not complete within the
	// configured number of polls.
	ErrTimeout = errors.New("batch job timed out")

	// ErrResultFormat is returned when a batch result table cannot be read.
	ErrResultFormat = errors.New("unexpected batch result format")
)
