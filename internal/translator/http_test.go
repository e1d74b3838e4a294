package translator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestMyMemoryService_Name(t *testing.T) {
	svc := NewMyMemoryService("", "")

	if svc.Name() != "mymemory" {
		t.Errorf("expected 'mymemory', got %q", svc.Name())
	}
}

func TestMyMemoryService_Translate(t *testing.T) {
	var gotPair, gotEmail string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/get" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		gotPair = r.URL.Query().Get("langpair")
		gotEmail = r.URL.Query().Get("de")
		json.NewEncoder(w).Encode(map[string]any{
			"responseData":   map[string]any{"translatedText": "Bonjour"},
			"responseStatus": 200,
		})
	}))
	defer server.Close()

	svc := NewMyMemoryService(server.URL, "dev@example.com")
	result, err := svc.Translate(context.Background(), Request{Text: "Hello", SourceLang: "en", TargetLang: "fr"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TranslatedText != "Bonjour" {
		t.Errorf("expected 'Bonjour', got %q", result.TranslatedText)
	}
	if gotPair != "en|fr" {
		t.Errorf("expected langpair 'en|fr', got %q", gotPair)
	}
	if gotEmail != "dev@example.com" {
		t.Errorf("expected email to be forwarded, got %q", gotEmail)
	}
}

func TestMyMemoryService_Translate_AutoFallsBackToEnglish(t *testing.T) {
	var gotPair string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPair = r.URL.Query().Get("langpair")
		w.Write([]byte(`{"responseData":{"translatedText":"Hallo"},"responseStatus":200}`))
	}))
	defer server.Close()

	svc := NewMyMemoryService(server.URL, "")
	result, err := svc.Translate(context.Background(), Request{Text: "Hello", SourceLang: AutoLang, TargetLang: "de"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPair != "en|de" {
		t.Errorf("expected langpair 'en|de', got %q", gotPair)
	}
	if result.SourceLang != "en" {
		t.Errorf("expected source 'en', got %q", result.SourceLang)
	}
}

func TestMyMemoryService_Translate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"responseData":{"translatedText":""},"responseStatus":"403","responseDetails":"INVALID TARGET LANGUAGE"}`))
	}))
	defer server.Close()

	svc := NewMyMemoryService(server.URL, "")
	_, err := svc.Translate(context.Background(), Request{Text: "Hello", SourceLang: "en", TargetLang: "fr"})
	if err == nil {
		t.Fatal("expected error for API failure")
	}
	te, ok := AsError(err)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if te.Error() != "INVALID TARGET LANGUAGE" {
		t.Errorf("expected raw API message, got %q", te.Error())
	}
}

func TestMyMemoryService_Translate_InvalidCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("engine must not be called for an invalid code")
	}))
	defer server.Close()

	svc := NewMyMemoryService(server.URL, "")
	_, err := svc.Translate(context.Background(), Request{Text: "Hello", SourceLang: "not a code", TargetLang: "fr"})
	if err == nil {
		t.Fatal("expected error for invalid code")
	}
	if _, ok := AsError(err); !ok {
		t.Errorf("expected *Error, got %T", err)
	}
}

func TestMyMemoryService_Translate_AutoTarget(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("engine must not be called for an auto target")
	}))
	defer server.Close()

	svc := NewMyMemoryService(server.URL, "")
	_, err := svc.Translate(context.Background(), Request{Text: "Hello", SourceLang: "en", TargetLang: AutoLang})
	if err == nil {
		t.Fatal("expected error for auto target")
	}
	if _, ok := AsError(err); !ok {
		t.Errorf("expected *Error, got %T", err)
	}
}

func TestMyMemoryService_Translate_EmptyTranslation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"responseData":{},"responseStatus":200}`))
	}))
	defer server.Close()

	svc := NewMyMemoryService(server.URL, "")
	_, err := svc.Translate(context.Background(), Request{Text: "Hello", SourceLang: "en", TargetLang: "fr"})
	if err == nil {
		t.Fatal("expected error for an empty translation")
	}
	if !strings.Contains(err.Error(), "empty translation") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestMyMemoryService_SupportedLanguages(t *testing.T) {
	svc := NewMyMemoryService("", "")

	langs, err := svc.SupportedLanguages(context.Background())
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if len(langs) == 0 {
		t.Error("expected non-empty language list")
	}
}

func TestOllamaService_Defaults(t *testing.T) {
	svc := NewOllamaService("", "", 0)

	if svc.Name() != "ollama" {
		t.Errorf("expected 'ollama', got %q", svc.Name())
	}
	if svc.Model() != DefaultOllamaModel {
		t.Errorf("expected default model, got %q", svc.Model())
	}
	if svc.baseURL != DefaultOllamaURL {
		t.Errorf("expected default url, got %q", svc.baseURL)
	}
}

func TestOllamaService_Translate(t *testing.T) {
	var gotReq map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(map[string]string{"response": `Translation: "Bonjour"`})
	}))
	defer server.Close()

	svc := NewOllamaService(server.URL+"/", "aya:8b", 5*time.Second)
	result, err := svc.Translate(context.Background(), Request{Text: "Hello", SourceLang: "en", TargetLang: "fr"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TranslatedText != "Bonjour" {
		t.Errorf("expected cleaned 'Bonjour', got %q", result.TranslatedText)
	}
	if result.Metadata["model"] != "aya:8b" {
		t.Errorf("expected model metadata, got %v", result.Metadata)
	}
	if gotReq["model"] != "aya:8b" {
		t.Errorf("expected model in request, got %v", gotReq["model"])
	}
	if gotReq["stream"] != false {
		t.Errorf("expected a non-streaming request, got %v", gotReq["stream"])
	}
	prompt, _ := gotReq["prompt"].(string)
	if !strings.Contains(prompt, "from English to French") {
		t.Errorf("expected language names in prompt, got %q", prompt)
	}
}

func TestOllamaService_Translate_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	svc := NewOllamaService(server.URL, "missing", time.Second)
	_, err := svc.Translate(context.Background(), Request{Text: "Hello", SourceLang: "en", TargetLang: "fr"})
	if err == nil {
		t.Fatal("expected error for non-OK status")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("expected status in message, got %q", err.Error())
	}
}

func TestOllamaService_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"models":[{"name":"llama3.2:latest"},{"name":"aya:8b"}]}`))
	}))
	defer server.Close()

	if err := NewOllamaService(server.URL, "llama3.2", time.Second).IsAvailable(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := NewOllamaService(server.URL, "aya:8b", time.Second).IsAvailable(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := NewOllamaService(server.URL, "mistral", time.Second).IsAvailable(context.Background()); err == nil {
		t.Error("expected error for a model that is not pulled")
	}
}

func TestCleanModelOutput(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "Bonjour le monde", "Bonjour le monde"},
		{"thinking block", "<think>the user wants French</think>Bonjour", "Bonjour"},
		{"unclosed thinking", "Bonjour<thinking>hmm", "Bonjour"},
		{"preamble", "Here is the translation: Bonjour", "Bonjour"},
		{"polite preamble", "Sure, here's the translation: Salut", "Salut"},
		{"quotes", `"Bonjour"`, "Bonjour"},
		{"guillemets", "«Bonjour»", "Bonjour"},
		{"inner quotes kept", `Il a dit "oui" hier`, `Il a dit "oui" hier`},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanModelOutput(tt.input); got != tt.expected {
				t.Errorf("cleanModelOutput(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestMyMemoryService_Translate_InvalidResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer server.Close()

	svc := NewMyMemoryService(server.URL, "")
	_, err := svc.Translate(context.Background(), Request{Text: "Hello", SourceLang: "en", TargetLang: "fr"})
	if err == nil {
		t.Fatal("expected error for a non-JSON response")
	}
	if !strings.Contains(err.Error(), "502") {
		t.Errorf("expected status in message, got %q", err.Error())
	}
}

func TestOllamaService_Translate_RejectsBadCodes(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantMsg string
	}{
		{"unknown source", Request{Text: "Hi", SourceLang: "xx", TargetLang: "fr"}, `invalid language code "xx"`},
		{"unknown target", Request{Text: "Hi", SourceLang: "en", TargetLang: "xx"}, `invalid language code "xx"`},
		{"auto target", Request{Text: "Hi", SourceLang: "en", TargetLang: AutoLang}, `invalid target language "auto"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.Write([]byte(`{"response":"Bonjour"}`))
			}))
			defer server.Close()

			svc := NewOllamaService(server.URL, "aya:8b", 5*time.Second)
			_, err := svc.Translate(context.Background(), tt.req)
			if err == nil {
				t.Fatal("expected error")
			}
			if _, ok := AsError(err); !ok {
				t.Errorf("expected *Error, got %T", err)
			}
			if !strings.HasPrefix(err.Error(), tt.wantMsg) {
				t.Errorf("expected message starting with %q, got %q", tt.wantMsg, err.Error())
			}
			if calls.Load() != 0 {
				t.Errorf("expected no upstream calls, got %d", calls.Load())
			}
		})
	}
}
