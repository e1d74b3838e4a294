package translator

import (
	"context"
	"fmt"
	"time"

	translate "cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/option"
)

// GoogleService translates through Google Cloud Translation. The client is
// created once and reused by every call.
type GoogleService struct {
	client *translate.Client
}

// NewGoogleService dials the Translation API. An empty credentials path falls
// back to Application Default Credentials.
func NewGoogleService(ctx context.Context, credentials string) (*GoogleService, error) {
	var opts []option.ClientOption
	if credentials != "" {
		opts = append(opts, option.WithCredentialsFile(credentials))
	}

	client, err := translate.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create google translate client: %w", err)
	}
	return &GoogleService{client: client}, nil
}

func (s *GoogleService) Name() string {
	return "google"
}

func (s *GoogleService) Translate(ctx context.Context, req Request) (*Result, error) {
	result := &Result{Engine: s.Name(), TargetLang: req.TargetLang}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	code, err := ParseTarget(req.TargetLang)
	if err != nil {
		return nil, newError(s.Name(), err)
	}
	target := language.Make(code)

	var opts *translate.Options
	if req.SourceLang != "" && req.SourceLang != AutoLang {
		source, err := ParseCode(req.SourceLang)
		if err != nil {
			return nil, newError(s.Name(), err)
		}
		opts = &translate.Options{Source: language.Make(source), Format: translate.Text}
	} else {
		opts = &translate.Options{Format: translate.Text}
	}

	translations, err := s.client.Translate(ctx, []string{req.Text}, target, opts)
	if err != nil {
		return nil, newError(s.Name(), err)
	}
	if len(translations) == 0 {
		return nil, errorf(s.Name(), "no translation returned")
	}

	result.TranslatedText = translations[0].Text
	result.SourceLang = req.SourceLang
	if translations[0].Source != language.Und {
		result.SourceLang = translations[0].Source.String()
	}
	return result, nil
}

func (s *GoogleService) IsAvailable(ctx context.Context) error {
	if _, err := s.client.SupportedLanguages(ctx, language.English); err != nil {
		return fmt.Errorf("google translate not available: %w", err)
	}
	return nil
}

func (s *GoogleService) SupportedLanguages(ctx context.Context) ([]string, error) {
	langs, err := s.client.SupportedLanguages(ctx, language.English)
	if err != nil {
		return nil, err
	}
	codes := make([]string, 0, len(langs))
	for _, l := range langs {
		codes = append(codes, l.Tag.String())
	}
	return codes, nil
}

func (s *GoogleService) Close() error {
	return s.client.Close()
}
