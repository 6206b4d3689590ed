package models

import (
	"errors"
	"fmt"
)

// Error codes used in API responses and internal error handling.
const (
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeLaunch       = "BROWSER_LAUNCH"
	ErrCodeNavigation   = "NAVIGATION_FAILED"
	ErrCodeTimeout      = "SELECTOR_TIMEOUT"
	ErrCodeExtraction   = "EXTRACTION_FAILED"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ScrapeError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type ScrapeError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// NewScrapeError creates a new ScrapeError.
func NewScrapeError(code, message string, err error) *ScrapeError {
	return &ScrapeError{Code: code, Message: message, Err: err}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *ScrapeError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message}
}

// ExtractionError is the single failure reported for one site in one search.
// It never travels together with listings: a site either succeeds with its
// full record set or fails with exactly one ExtractionError.
type ExtractionError struct {
	Site    string
	Cause   error
	Message string
}

// NewExtractionError wraps cause as the failure of site.
func NewExtractionError(site string, cause error) *ExtractionError {
	msg := "extraction failed"
	var se *ScrapeError
	if errors.As(cause, &se) {
		msg = se.Message
	} else if cause != nil {
		msg = cause.Error()
	}
	return &ExtractionError{Site: site, Cause: cause, Message: msg}
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Site, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Site, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// Code returns the error code of the underlying cause.
func (e *ExtractionError) Code() string {
	return CodeOf(e.Cause)
}

// ToDetail converts the failure to an API-facing ErrorDetail.
func (e *ExtractionError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code(), Message: e.Message}
}

// CodeOf returns the code of the first ScrapeError in err's chain, or
// ErrCodeInternal when there is none.
func CodeOf(err error) string {
	var se *ScrapeError
	if errors.As(err, &se) {
		return se.Code
	}
	return ErrCodeInternal
}

// AsScrapeError returns err as a ScrapeError, wrapping it as an internal
// error when it is not one already.
func AsScrapeError(err error) *ScrapeError {
	var se *ScrapeError
	if errors.As(err, &se) {
		return se
	}
	return NewScrapeError(ErrCodeInternal, err.Error(), err)
}
