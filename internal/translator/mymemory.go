package translator

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"
)

const DefaultMyMemoryURL = "https://api.mymemory.translated.net"

type MyMemoryService struct {
	baseURL string
	email   string
	client  *http.Client
}

func NewMyMemoryService(baseURL, email string) *MyMemoryService {
	if baseURL == "" {
		baseURL = DefaultMyMemoryURL
	}
	return &MyMemoryService{
		baseURL: baseURL,
		email:   email,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *MyMemoryService) Name() string {
	return "mymemory"
}

func (s *MyMemoryService) Translate(ctx context.Context, req Request) (*Result, error) {
	result := &Result{Engine: s.Name(), TargetLang: req.TargetLang}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	// MyMemory has no detection of its own.
	sourceLang := req.SourceLang
	if sourceLang == "" || sourceLang == AutoLang {
		sourceLang = "en"
	}
	if _, err := ParseCode(sourceLang); err != nil {
		return nil, newError(s.Name(), err)
	}
	if _, err := ParseTarget(req.TargetLang); err != nil {
		return nil, newError(s.Name(), err)
	}
	result.SourceLang = sourceLang

	q := url.Values{}
	q.Set("q", req.Text)
	q.Set("langpair", sourceLang+"|"+req.TargetLang)
	if s.email != "" {
		q.Set("de", s.email)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/get?"+q.Encode(), nil)
	if err != nil {
		return nil, errorf(s.Name(), "failed to create request: %v", err)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, errorf(s.Name(), "request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errorf(s.Name(), "failed to read response: %v", err)
	}
	if !gjson.ValidBytes(body) {
		return nil, errorf(s.Name(), "invalid response (status %d)", resp.StatusCode)
	}
	parsed := gjson.ParseBytes(body)

	// responseStatus comes back as a number on success and sometimes as a string on errors.
	if status := parsed.Get("responseStatus").String(); status != "200" {
		details := parsed.Get("responseDetails").String()
		if details == "" {
			details = fmt.Sprintf("mymemory returned status %s", status)
		}
		return nil, errorf(s.Name(), "%s", details)
	}

	result.TranslatedText = parsed.Get("responseData.translatedText").String()
	if result.TranslatedText == "" {
		return nil, errorf(s.Name(), "mymemory returned an empty translation")
	}
	return result, nil
}

func (s *MyMemoryService) IsAvailable(ctx context.Context) error {
	return nil
}

func (s *MyMemoryService) SupportedLanguages(ctx context.Context) ([]string, error) {
	return []string{
		"en", "es", "fr", "de", "it", "pt", "ru", "ja", "ko", "zh",
		"ar", "nl", "pl", "tr", "sv", "da", "no", "fi", "el", "he",
		"th", "vi", "id", "ms", "cs", "hu", "ro", "uk", "bg", "ca",
	}, nil
}
