package domain

import "errors"

var (
	// ErrInvalidInput marks an inbound payload missing the fields its
	// channel requires (no SMS body, no transcription text, no email
	// content). Handlers answer it with a 400.
	ErrInvalidInput = errors.New("invalid input payload")

	// ErrExtractionFormat marks an extraction response that carried no
	// parseable JSON object even after repair.
	ErrExtractionFormat = errors.New("extraction response contained no usable JSON object")

	// ErrExtractionService marks a failed call to the extraction service
	// itself: network errors, auth failures, non-2xx statuses.
	ErrExtractionService = errors.New("extraction service request failed")
)
