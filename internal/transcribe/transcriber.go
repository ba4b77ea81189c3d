package transcribe

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned when no transcription backend is wired in.
var ErrNotConfigured = errors.New("transcription is not configured")

// Transcriber is the spoken-audio collaborator boundary: it turns captured
// audio into free text that feeds the same query path as typed input.
// Speech-to-text itself happens behind this interface, never in the core.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Disabled is the default Transcriber when no backend is configured. The
// voice endpoint surfaces its error as a client-visible failure instead of
// pretending a transcription happened.
type Disabled struct{}

// NewDisabled creates the unconfigured transcriber.
func NewDisabled() *Disabled {
	return &Disabled{}
}

// NewTranscriber selects the Transcriber wired into the app. No backend
// ships yet, so every deployment gets the disabled one.
func NewTranscriber() Transcriber {
	return NewDisabled()
}

// Transcribe implements Transcriber.
func (*Disabled) Transcribe(context.Context, []byte) (string, error) {
	return "", ErrNotConfigured
}
