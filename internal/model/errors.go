package model

import (
	"errors"
	"fmt"
)

// Error taxonomy (sentinels). Services wrap these with fmt.Errorf("...: %w")
// so controllers can map them to HTTP statuses with errors.Is.
var (
	ErrConfiguration     = errors.New("configuration error")
	ErrModelUnavailable  = errors.New("model provider unavailable")
	ErrModelBlocked      = errors.New("model declined to answer")
	ErrModelMalformed    = errors.New("model response malformed")
	ErrProfileNotFound   = errors.New("candidate profile not found")
	ErrPersistence       = errors.New("persistence error")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidTransition = errors.New("invalid attempt transition")
)

// ParseErrorKind enumerates the total-failure modes of the model response
// parser. Partial payloads never produce a ParseError; individual invalid
// fields are dropped instead.
type ParseErrorKind string

const (
	ParseNoCandidates   ParseErrorKind = "no_candidates"
	ParseNoContentParts ParseErrorKind = "no_content_parts"
	ParseInvalidJSON    ParseErrorKind = "invalid_json"
	ParseMissingObject  ParseErrorKind = "missing_object"
)

// ParseError reports why a model response could not be turned into an
// analysis, with provider diagnostics (block reason, finish reason, raw
// payload snippet) attached for operators.
type ParseError struct {
	Kind    ParseErrorKind
	Message string
	Details map[string]any
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("model response parse failed (%s): %s", e.Kind, e.Message)
}

// Unwrap folds the parse kinds into the coarse taxonomy: the provider
// declining to answer is ErrModelBlocked, unusable content is
// ErrModelMalformed.
func (e *ParseError) Unwrap() error {
	switch e.Kind {
	case ParseNoCandidates, ParseNoContentParts:
		return ErrModelBlocked
	default:
		return ErrModelMalformed
	}
}

// NewParseError builds a ParseError; details may be nil.
func NewParseError(kind ParseErrorKind, message string, details map[string]any) *ParseError {
	return &ParseError{Kind: kind, Message: message, Details: details}
}
