package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/valpere/transerve/internal/store"
	"github.com/valpere/transerve/internal/translator"
)

// newOllamaBackend starts a fake Ollama server that always answers "Bonjour"
// and counts generate calls.
func newOllamaBackend(t *testing.T) (*translator.OllamaService, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"response":"Bonjour"}`))
	}))
	t.Cleanup(backend.Close)
	return translator.NewOllamaService(backend.URL, "aya:8b", 5*time.Second), &calls
}

func TestTranslate_OllamaLanguageValidation(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantPrefix string
		wantCalls  int32
	}{
		{
			name:       "valid pair",
			body:       `{"text": "Hello", "source_lang": "en", "target_lang": "fr"}`,
			wantStatus: http.StatusOK,
			wantCalls:  1,
		},
		{
			name:       "unknown source code",
			body:       `{"text": "Hi", "source_lang": "xx", "target_lang": "fr"}`,
			wantStatus: http.StatusInternalServerError,
			wantPrefix: `invalid language code "xx"`,
		},
		{
			name:       "unknown target code",
			body:       `{"text": "Hi", "source_lang": "en", "target_lang": "xx"}`,
			wantStatus: http.StatusInternalServerError,
			wantPrefix: `invalid language code "xx"`,
		},
		{
			name:       "auto target",
			body:       `{"text": "Hi", "source_lang": "en", "target_lang": "auto"}`,
			wantStatus: http.StatusInternalServerError,
			wantPrefix: `invalid target language "auto"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, calls := newOllamaBackend(t)
			s := newTestServer(t, engine, Options{Variant: VariantMultilingual})

			w, body := do(t, s, http.MethodPost, "/translate", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d (%s)", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.wantPrefix != "" && !strings.HasPrefix(body["error"], tt.wantPrefix) {
				t.Errorf("expected error starting with %q, got %q", tt.wantPrefix, body["error"])
			}
			if tt.wantStatus == http.StatusOK && body["translated_text"] != "Bonjour" {
				t.Errorf("unexpected translation %q", body["translated_text"])
			}
			if calls.Load() != tt.wantCalls {
				t.Errorf("expected %d engine calls, got %d", tt.wantCalls, calls.Load())
			}
		})
	}
}

func TestTranslate_RepeatedRequestIDIsLoggedEachTime(t *testing.T) {
	db, err := store.New(filepath.Join(t.TempDir(), "requests.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer db.Close()

	engine, _ := newOllamaBackend(t)
	s := newTestServer(t, engine, Options{Variant: VariantMultilingual, RequestLog: db})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/translate", strings.NewReader(`{"text": "Hello", "source_lang": "en", "target_lang": "fr"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(requestIDHeader, "retry-1")
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, w.Code)
		}
	}

	records, err := db.ListRequests(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRequests failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 logged requests, got %d", len(records))
	}
	for _, r := range records {
		if r.RequestID != "retry-1" {
			t.Errorf("expected request id retry-1, got %q", r.RequestID)
		}
		if r.TranslatedText != "Bonjour" {
			t.Errorf("unexpected logged translation %q", r.TranslatedText)
		}
	}
}
