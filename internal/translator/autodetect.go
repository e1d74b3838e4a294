package translator

import (
	"context"
	"log/slog"
)

type Detector interface {
	DetectISO(text string) (string, bool)
}

// AutoDetectService replaces an AutoLang source with the detected language
// before handing the request on. Undetectable text keeps AutoLang.
type AutoDetectService struct {
	next     Service
	detector Detector
}

func AutoDetect(next Service, detector Detector) Service {
	if detector == nil {
		return next
	}
	return &AutoDetectService{next: next, detector: detector}
}

func (s *AutoDetectService) Name() string {
	return s.next.Name()
}

func (s *AutoDetectService) Translate(ctx context.Context, req Request) (*Result, error) {
	if req.SourceLang == AutoLang {
		if code, ok := s.detector.DetectISO(req.Text); ok {
			slog.DebugContext(ctx, "detected source language", "lang", code)
			req.SourceLang = code
		}
	}
	return s.next.Translate(ctx, req)
}

func (s *AutoDetectService) IsAvailable(ctx context.Context) error {
	return s.next.IsAvailable(ctx)
}

func (s *AutoDetectService) SupportedLanguages(ctx context.Context) ([]string, error) {
	return s.next.SupportedLanguages(ctx)
}
