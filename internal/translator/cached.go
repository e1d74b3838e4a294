package translator

import (
	"context"
	"log/slog"
)

// Memory is a translation memory keyed by source text and language pair.
type Memory interface {
	GetCachedTranslation(ctx context.Context, sourceText, sourceLang, targetLang string) (string, bool, error)
	SaveToMemory(ctx context.Context, sourceText, sourceLang, targetLang, translatedText, engine string) error
}

// CachedService serves repeated requests from memory. Requests whose source
// language is still AutoLang bypass the cache.
type CachedService struct {
	next   Service
	memory Memory
}

func Cached(next Service, memory Memory) Service {
	if memory == nil {
		return next
	}
	return &CachedService{next: next, memory: memory}
}

func (s *CachedService) Name() string {
	return s.next.Name()
}

func (s *CachedService) Translate(ctx context.Context, req Request) (*Result, error) {
	src, tgt, cacheable := cacheKey(req)

	if cacheable {
		text, found, err := s.memory.GetCachedTranslation(ctx, req.Text, src, tgt)
		if err != nil {
			slog.WarnContext(ctx, "translation memory lookup failed", "error", err)
		} else if found {
			return &Result{
				Engine:         s.Name(),
				TranslatedText: text,
				SourceLang:     src,
				TargetLang:     tgt,
				Metadata:       map[string]string{"cache": "hit"},
			}, nil
		}
	}

	res, err := s.next.Translate(ctx, req)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := s.memory.SaveToMemory(ctx, req.Text, src, tgt, res.TranslatedText, res.Engine); err != nil {
			slog.WarnContext(ctx, "translation memory save failed", "error", err)
		}
	}
	return res, nil
}

// cacheKey canonicalizes the pair so "EN" and "en" share entries. Pairs that
// do not parse, or whose source is still AutoLang, are not cacheable.
func cacheKey(req Request) (string, string, bool) {
	src, err := ParseCode(req.SourceLang)
	if err != nil || src == AutoLang {
		return "", "", false
	}
	tgt, err := ParseTarget(req.TargetLang)
	if err != nil {
		return "", "", false
	}
	return src, tgt, true
}

func (s *CachedService) IsAvailable(ctx context.Context) error {
	return s.next.IsAvailable(ctx)
}

func (s *CachedService) SupportedLanguages(ctx context.Context) ([]string, error) {
	return s.next.SupportedLanguages(ctx)
}
