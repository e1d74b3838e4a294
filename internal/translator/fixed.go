package translator

import (
	"context"
	"fmt"
)

// FixedPairService pins every call to one language pair, whatever the
// request says.
type FixedPairService struct {
	next       Service
	sourceLang string
	targetLang string
}

// FixedPair validates the pair once so a misconfigured deployment fails at
// startup rather than on the first request.
func FixedPair(next Service, sourceLang, targetLang string) (*FixedPairService, error) {
	src, err := ParseCode(sourceLang)
	if err != nil {
		return nil, fmt.Errorf("fixed source language: %w", err)
	}
	tgt, err := ParseTarget(targetLang)
	if err != nil {
		return nil, fmt.Errorf("fixed target language: %w", err)
	}
	return &FixedPairService{next: next, sourceLang: src, targetLang: tgt}, nil
}

func (s *FixedPairService) Name() string {
	return s.next.Name()
}

func (s *FixedPairService) Pair() (string, string) {
	return s.sourceLang, s.targetLang
}

func (s *FixedPairService) Translate(ctx context.Context, req Request) (*Result, error) {
	req.SourceLang = s.sourceLang
	req.TargetLang = s.targetLang
	return s.next.Translate(ctx, req)
}

func (s *FixedPairService) IsAvailable(ctx context.Context) error {
	return s.next.IsAvailable(ctx)
}

func (s *FixedPairService) SupportedLanguages(ctx context.Context) ([]string, error) {
	return []string{s.sourceLang, s.targetLang}, nil
}
