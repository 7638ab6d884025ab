// Package ai contains clients for the hosted speech-to-text, language-model and
// text-to-speech providers used by the analysis pipeline.
package ai

import (
	"context"
	"encoding/json"
)

// TranscriptionOptions carries hints about the audio being transcribed
type TranscriptionOptions struct {
	FileName    string
	ContentType string
	Language    string
}

// Transcriber converts recorded speech to text
type Transcriber interface {
	Name() string
	Transcribe(ctx context.Context, audio []byte, opts TranscriptionOptions) (string, error)
}

// AnalysisRequest is the material sent to the language model
type AnalysisRequest struct {
	Transcript string
	Document   string
	Topic      string
}

// Analysis is the structured three-section model output
type Analysis struct {
	Summary    string `json:"summary"`
	Conclusion string `json:"conclusion"`
	Criticism  string `json:"criticism"`
}

// Analyzer produces a clinical critique of a transcript against a reference document
type Analyzer interface {
	Name() string
	Analyze(ctx context.Context, req AnalysisRequest) (*Analysis, error)
}

// Speech is synthesized audio
type Speech struct {
	Audio       []byte
	ContentType string
	Format      string
}

// Synthesizer converts text to speech
type Synthesizer interface {
	Name() string
	Synthesize(ctx context.Context, text string) (*Speech, error)
}

func jsonUnmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}
