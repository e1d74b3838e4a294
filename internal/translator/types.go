package translator

import (
	"context"
	"time"
)

// AutoLang asks the engine (or the detector wrapper) to work out the source language.
const AutoLang = "auto"

type Request struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

type Result struct {
	Engine         string            `json:"engine"`
	TranslatedText string            `json:"translated_text"`
	SourceLang     string            `json:"source_lang,omitempty"`
	TargetLang     string            `json:"target_lang,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	Latency        time.Duration     `json:"latency"`
}

// Service is the translation capability. Implementations are built once and
// shared by every request, so Translate must not mutate the receiver: the
// language pair arrives with each call.
type Service interface {
	Name() string
	Translate(ctx context.Context, req Request) (*Result, error)
	IsAvailable(ctx context.Context) error
	SupportedLanguages(ctx context.Context) ([]string, error)
}
