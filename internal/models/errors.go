package models

import (
	"errors"
	"fmt"
)

// SourceErrorKind categorizes why a source fetch failed. Every kind is
// per-source and non-fatal to the overall pipeline.
type SourceErrorKind string

const (
	// SourceTimeout: the adapter exceeded its per-call deadline.
	SourceTimeout SourceErrorKind = "timeout"
	// SourceUnreachable: network or transport failure before any response.
	SourceUnreachable SourceErrorKind = "unreachable"
	// SourceBlocked: the upstream answered with a non-2xx or anti-bot page.
	SourceBlocked SourceErrorKind = "blocked"
	// SourceParseFailure: the response structure changed enough that no
	// candidates could be extracted.
	SourceParseFailure SourceErrorKind = "parse_failure"
)

// SourceError is a source-scoped fetch failure.
type SourceError struct {
	Source SourceID
	Kind   SourceErrorKind
	Msg    string
	Cause  error
}

func (e *SourceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Source, e.Kind, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s: %s", e.Source, e.Kind, e.Msg)
}

func (e *SourceError) Unwrap() error {
	return e.Cause
}

// NewSourceError builds a SourceError for the given source and kind.
func NewSourceError(source SourceID, kind SourceErrorKind, msg string, cause error) *SourceError {
	return &SourceError{Source: source, Kind: kind, Msg: msg, Cause: cause}
}

// AsSourceError unwraps err to a *SourceError, or wraps it as an
// unreachable failure when the adapter returned something untyped.
func AsSourceError(source SourceID, err error) *SourceError {
	var se *SourceError
	if errors.As(err, &se) {
		return se
	}
	return NewSourceError(source, SourceUnreachable, "fetch failed", err)
}

// DiscardReason explains why the normalizer dropped a candidate, or, for
// InvalidRating, why it dropped only the rating field.
type DiscardReason string

const (
	DiscardInvalidName   DiscardReason = "invalid_name"
	DiscardInvalidPrice  DiscardReason = "invalid_price"
	DiscardInvalidRating DiscardReason = "invalid_rating"
)

// Discard is a per-item normalization drop. It is a diagnostic, never an
// error that propagates.
type Discard struct {
	Reason DiscardReason
	Detail string
}

// ErrRateUnavailable is the sentinel inside every ConversionError caused
// by a missing or unfetchable exchange rate.
var ErrRateUnavailable = errors.New("exchange rate unavailable")

// ConversionError reports a failed currency conversion for one listing.
type ConversionError struct {
	From  string
	To    string
	Cause error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("convert %s to %s: %v", e.From, e.To, e.Cause)
}

func (e *ConversionError) Unwrap() error {
	return e.Cause
}

// PipelineErrorKind categorizes the only failures that propagate to the
// caller.
type PipelineErrorKind string

const (
	PipelineAllSourcesFailed PipelineErrorKind = "all_sources_failed"
	PipelineInvalidQuery     PipelineErrorKind = "invalid_query"
)

// PipelineError is a structural failure of a whole aggregation run. For
// AllSourcesFailed the per-source status map is still attached so the
// caller can report which sources were unreachable and why.
type PipelineError struct {
	Kind    PipelineErrorKind
	Msg     string
	Sources map[SourceID]SourceStatus
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// NewInvalidQueryError builds the InvalidQuery pipeline error.
func NewInvalidQueryError(msg string) *PipelineError {
	return &PipelineError{Kind: PipelineInvalidQuery, Msg: msg}
}

// NewAllSourcesFailedError builds the AllSourcesFailed pipeline error
// carrying the status map of the failed run.
func NewAllSourcesFailedError(sources map[SourceID]SourceStatus) *PipelineError {
	return &PipelineError{
		Kind:    PipelineAllSourcesFailed,
		Msg:     "every configured source failed",
		Sources: sources,
	}
}
