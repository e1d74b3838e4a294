package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/valpere/transerve/internal/server"
)

func newViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	cfg, err := Load(newViper(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Variant != VariantMultilingual {
		t.Errorf("expected multilingual variant, got %q", cfg.Variant)
	}
	if cfg.Addr() != "0.0.0.0:8000" {
		t.Errorf("expected 0.0.0.0:8000, got %q", cfg.Addr())
	}
	if len(cfg.Server.CORSOrigins) != 2 {
		t.Errorf("expected 2 default origins, got %v", cfg.Server.CORSOrigins)
	}
	if cfg.Fixed.SourceLang != "en" || cfg.Fixed.TargetLang != "fr" {
		t.Errorf("expected en>fr fixed pair, got %s>%s", cfg.Fixed.SourceLang, cfg.Fixed.TargetLang)
	}
	if cfg.Engine.Timeout != 120*time.Second {
		t.Errorf("expected 120s engine timeout, got %v", cfg.Engine.Timeout)
	}
}

func TestLoad_PortFromEnv(t *testing.T) {
	t.Setenv("PORT", "9123")
	cfg, err := Load(newViper(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9123 {
		t.Errorf("expected port 9123, got %d", cfg.Server.Port)
	}
}

func TestLoad_PrefixedEnv(t *testing.T) {
	t.Setenv("TRANSERVE_VARIANT", "fixed")
	t.Setenv("TRANSERVE_ENGINE_NAME", "ollama")
	t.Setenv("TRANSERVE_FIXED_TARGET_LANG", "de")

	cfg, err := Load(newViper(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Variant != VariantFixed || cfg.Engine.Name != "ollama" || cfg.Fixed.TargetLang != "de" {
		t.Errorf("env not applied: %+v", cfg)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transerve.yaml")
	content := `
variant: fixed
server:
  port: 8080
  cors_origins: ["https://example.com"]
fixed:
  source_lang: en
  target_lang: uk
inference:
  max_concurrent: 1
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	v := newViper(t)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig failed: %v", err)
	}

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 8080 || cfg.Fixed.TargetLang != "uk" || cfg.Inference.MaxConcurrent != 1 {
		t.Errorf("file not applied: %+v", cfg)
	}
	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "https://example.com" {
		t.Errorf("unexpected origins %v", cfg.Server.CORSOrigins)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Variant: VariantMultilingual,
			Server:  ServerConfig{Host: "0.0.0.0", Port: 8000},
			Engine:  EngineConfig{Name: "google"},
			Fixed:   FixedConfig{SourceLang: "en", TargetLang: "fr"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"unknown variant", func(c *Config) { c.Variant = "bilingual" }, true},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, true},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, true},
		{"unknown engine", func(c *Config) { c.Engine.Name = "deepl" }, true},
		{"fixed without target", func(c *Config) { c.Variant = VariantFixed; c.Fixed.TargetLang = "" }, true},
		{"multilingual ignores fixed pair", func(c *Config) { c.Fixed.TargetLang = "" }, false},
		{"negative concurrency", func(c *Config) { c.Inference.MaxConcurrent = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_AcceptsServerVariants(t *testing.T) {
	for _, variant := range []string{server.VariantMultilingual, server.VariantFixed} {
		c := Config{
			Variant: variant,
			Server:  ServerConfig{Host: "0.0.0.0", Port: 8000},
			Engine:  EngineConfig{Name: "google"},
			Fixed:   FixedConfig{SourceLang: "en", TargetLang: "fr"},
		}
		if err := c.Validate(); err != nil {
			t.Errorf("variant %q rejected: %v", variant, err)
		}
	}
}
