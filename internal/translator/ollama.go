package translator

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	DefaultOllamaURL   = "http://localhost:11434"
	DefaultOllamaModel = "llama3.2"

	maxResponseBytes = 4 << 20
)

// OllamaService runs translations on a self-hosted model behind the Ollama API.
// The model is fixed at construction; the language pair goes into each prompt.
type OllamaService struct {
	baseURL string
	model   string
	client  *http.Client
}

func NewOllamaService(baseURL, model string, timeout time.Duration) *OllamaService {
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	if model == "" {
		model = DefaultOllamaModel
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &OllamaService{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *OllamaService) Name() string {
	return "ollama"
}

func (s *OllamaService) Model() string {
	return s.model
}

func (s *OllamaService) Translate(ctx context.Context, req Request) (*Result, error) {
	result := &Result{Engine: s.Name(), SourceLang: req.SourceLang, TargetLang: req.TargetLang}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	if _, err := ParseTarget(req.TargetLang); err != nil {
		return nil, newError(s.Name(), err)
	}
	source := "the detected language"
	if req.SourceLang != "" && req.SourceLang != AutoLang {
		if _, err := ParseCode(req.SourceLang); err != nil {
			return nil, newError(s.Name(), err)
		}
		source = DisplayName(req.SourceLang)
	}

	prompt := fmt.Sprintf(`Translate the following text from %s to %s.
Only respond with the translation, nothing else.

Text: "%s"

Translation:`, source, DisplayName(req.TargetLang), req.Text)

	body, err := sjson.SetBytes([]byte(`{"stream":false,"options":{"temperature":0}}`), "model", s.model)
	if err == nil {
		body, err = sjson.SetBytes(body, "prompt", prompt)
	}
	if err != nil {
		return nil, errorf(s.Name(), "failed to build request: %v", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, errorf(s.Name(), "failed to create request: %v", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, errorf(s.Name(), "request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errorf(s.Name(), "ollama returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errorf(s.Name(), "failed to read response: %v", err)
	}
	if !gjson.ValidBytes(raw) {
		return nil, errorf(s.Name(), "failed to decode response")
	}

	text := cleanModelOutput(gjson.GetBytes(raw, "response").String())
	if text == "" {
		return nil, errorf(s.Name(), "model returned an empty translation")
	}

	result.TranslatedText = text
	result.Metadata = map[string]string{"model": s.model}
	return result, nil
}

// IsAvailable checks the server is up and the configured model is pulled.
func (s *OllamaService) IsAvailable(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/tags", nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama not available: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("failed to read ollama tags: %w", err)
	}
	if !gjson.ValidBytes(raw) {
		return fmt.Errorf("failed to decode ollama tags")
	}
	for _, m := range gjson.GetBytes(raw, "models.#.name").Array() {
		name := m.String()
		if name == s.model || strings.TrimSuffix(name, ":latest") == s.model {
			return nil
		}
	}
	return fmt.Errorf("ollama model %q is not pulled", s.model)
}

func (s *OllamaService) SupportedLanguages(ctx context.Context) ([]string, error) {
	return []string{"en", "es", "fr", "de", "it", "pt", "ru", "zh", "ja", "ko", "ar", "uk"}, nil
}

var (
	thinkingBlockRe = regexp.MustCompile(
		`(?is)<thinking>.*?</thinking>|<think>.*?</think>|<reasoning>.*?</reasoning>`,
	)
	unclosedThinkingRe = regexp.MustCompile(`(?is)(?:<thinking>|<think>|<reasoning>).*$`)
	preambleRe         = regexp.MustCompile(`(?i)^(?:(?:certainly|sure|of course)[,.]?\s+)?(?:here(?:'s| is)\s+)?(?:the\s+)?(?:translated\s+)?(?:translation|text)\s*:`)
)

// cleanModelOutput strips reasoning tags, a leading "Translation:" style
// preamble and a pair of wrapping quotes from raw model output.
func cleanModelOutput(text string) string {
	text = thinkingBlockRe.ReplaceAllString(text, "")
	text = unclosedThinkingRe.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)

	if loc := preambleRe.FindStringIndex(text); loc != nil {
		text = strings.TrimSpace(text[loc[1]:])
	}

	runes := []rune(text)
	if n := len(runes); n >= 2 {
		first, last := runes[0], runes[n-1]
		if (first == '"' && last == '"') ||
			(first == '«' && last == '»') ||
			(first == '“' && last == '”') {
			text = strings.TrimSpace(string(runes[1 : n-1]))
		}
	}
	return text
}
