package domain

import "errors"

// MsgAnalysisFailed is the only detail callers get about model failures
const MsgAnalysisFailed = "Analysis failed, please try again"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrNotFound is returned when a history item, list item or session does not exist
	ErrNotFound = errors.New("not found")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")

	// ErrUpstreamFailure is returned when the analysis service request fails
	ErrUpstreamFailure = errors.New("analysis service request failed")

	// ErrMalformedResponse is returned when the analysis service output is not the expected JSON
	ErrMalformedResponse = errors.New("analysis service returned malformed output")

	// ErrOCRUnavailable is returned when image analysis is requested but OCR is not configured
	ErrOCRUnavailable = errors.New("image text extraction is not configured")

	// ErrNoTextDetected is returned when OCR finds no text in an image
	ErrNoTextDetected = errors.New("no text detected in image")

	// ErrInvalidTransition is returned when a comparison flow action is not allowed in its current state
	ErrInvalidTransition = errors.New("invalid comparison state transition")
)
