// Package errors provides standardized error handling for the listing
// generation pipelines and their HTTP boundary.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Upload / validation errors (client errors).
	ErrCodeNoAudioProvided     ErrorCode = "NO_AUDIO_PROVIDED"
	ErrCodeInvalidListingInput ErrorCode = "INVALID_LISTING_INPUT"

	// Transcription errors. Per-clip failures are recovered locally and never
	// carry a code; only the all-clips-failed case surfaces.
	ErrCodeTranscriptionTotalFailure ErrorCode = "TRANSCRIPTION_TOTAL_FAILURE"

	// Enrichment errors.
	ErrCodeEnrichmentUpstreamUnavailable ErrorCode = "ENRICHMENT_UPSTREAM_UNAVAILABLE"
	ErrCodeEnrichmentMalformedResponse   ErrorCode = "ENRICHMENT_MALFORMED_RESPONSE"

	// Persistence errors.
	ErrCodeProductPersistFailed ErrorCode = "PRODUCT_PERSIST_FAILED"
	ErrCodeProductNotFound      ErrorCode = "PRODUCT_NOT_FOUND"

	// Search errors.
	ErrCodeSearchQueryFailed ErrorCode = "SEARCH_QUERY_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewNoAudioProvidedError creates the validation error returned when a
// submission carries no audio_question parts.
func NewNoAudioProvidedError() *StandardError {
	return &StandardError{
		Code:      ErrCodeNoAudioProvided,
		Message:   "No audio uploaded",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidListingInputError creates a non-retryable input validation error.
func NewInvalidListingInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidListingInput,
		Message:   "Invalid listing input",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTranscriptionTotalFailureError is returned when every audio clip in a
// submission failed to transcribe. Distinct from per-clip failures so callers
// can tell "no usable input" apart from "some data, bad output".
func NewTranscriptionTotalFailureError(clips int) *StandardError {
	return &StandardError{
		Code:      ErrCodeTranscriptionTotalFailure,
		Message:   "All audio clips failed to transcribe",
		Details:   fmt.Sprintf("%d clip(s) submitted, none produced a transcript", clips),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewEnrichmentUnavailableError wraps a network or vendor failure from the
// generative-text service.
func NewEnrichmentUnavailableError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeEnrichmentUpstreamUnavailable,
		Message:   "Enrichment service unavailable",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewEnrichmentMalformedError is returned when the enrichment response body
// cannot be parsed into a complete structured listing.
func NewEnrichmentMalformedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeEnrichmentMalformedResponse,
		Message:   "Enrichment response could not be parsed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewProductPersistError wraps a database failure while storing a product.
func NewProductPersistError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProductPersistFailed,
		Message:   "Failed to store product",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewProductNotFoundError reports a lookup for a product that does not exist.
func NewProductNotFoundError(id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProductNotFound,
		Message:   "Product not found",
		Details:   id,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchQueryError wraps a search backend failure.
func NewSearchQueryError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchQueryFailed,
		Message:   "Product search failed",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// AsStandard extracts a *StandardError from err, or nil.
func AsStandard(err error) *StandardError {
	var se *StandardError
	if stderrors.As(err, &se) {
		return se
	}
	return nil
}

// CodeOf returns the error code of err, or "INTERNAL" for untyped errors.
func CodeOf(err error) ErrorCode {
	if se := AsStandard(err); se != nil {
		return se.Code
	}
	return "INTERNAL"
}

// HTTPStatus maps a pipeline error to the status code the HTTP boundary
// answers with: validation failures are client errors, upstream and parse
// failures are bad-gateway, everything else a plain 500.
func HTTPStatus(err error) int {
	se := AsStandard(err)
	if se == nil {
		return http.StatusInternalServerError
	}
	switch se.Code {
	case ErrCodeNoAudioProvided, ErrCodeInvalidListingInput:
		return http.StatusBadRequest
	case ErrCodeProductNotFound:
		return http.StatusNotFound
	case ErrCodeTranscriptionTotalFailure,
		ErrCodeEnrichmentUpstreamUnavailable,
		ErrCodeEnrichmentMalformedResponse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
