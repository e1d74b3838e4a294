// Package config loads service settings from flags, a config file and the
// environment through viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/valpere/transerve/internal/server"
)

// Variant names are owned by the server, which decides the required fields.
const (
	VariantMultilingual = server.VariantMultilingual
	VariantFixed        = server.VariantFixed
)

const EnvPrefix = "TRANSERVE"

type Config struct {
	Variant   string          `mapstructure:"variant"`
	Server    ServerConfig    `mapstructure:"server"`
	Engine    EngineConfig    `mapstructure:"engine"`
	Fixed     FixedConfig     `mapstructure:"fixed"`
	Inference InferenceConfig `mapstructure:"inference"`
	Store     StoreConfig     `mapstructure:"store"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Message         string        `mapstructure:"message"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type EngineConfig struct {
	Name          string        `mapstructure:"name"`
	Credentials   string        `mapstructure:"credentials"`
	OllamaURL     string        `mapstructure:"ollama_url"`
	OllamaModel   string        `mapstructure:"ollama_model"`
	MyMemoryURL   string        `mapstructure:"mymemory_url"`
	MyMemoryEmail string        `mapstructure:"mymemory_email"`
	Timeout       time.Duration `mapstructure:"timeout"`
	SkipCheck     bool          `mapstructure:"skip_check"`
}

type FixedConfig struct {
	SourceLang string `mapstructure:"source_lang"`
	TargetLang string `mapstructure:"target_lang"`
}

type InferenceConfig struct {
	MaxConcurrent int `mapstructure:"max_concurrent"`
	// DetectLanguages narrows "auto" detection; empty means every language.
	DetectLanguages []string `mapstructure:"detect_languages"`
}

type StoreConfig struct {
	Path string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	NoColor bool   `mapstructure:"no_color"`
}

var Engines = []string{"google", "ollama", "mymemory"}

// SetDefaults registers every default on v and wires the environment:
// TRANSERVE_SERVER_PORT style names for everything, plus a bare PORT.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("variant", VariantMultilingual)

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.message", "")
	v.SetDefault("server.cors_origins", []string{"http://localhost:5173", "https://trelix-livid.vercel.app"})
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("engine.name", "google")
	v.SetDefault("engine.credentials", "")
	v.SetDefault("engine.ollama_url", "http://localhost:11434")
	v.SetDefault("engine.ollama_model", "llama3.2")
	v.SetDefault("engine.mymemory_url", "https://api.mymemory.translated.net")
	v.SetDefault("engine.mymemory_email", "")
	v.SetDefault("engine.timeout", 120*time.Second)
	v.SetDefault("engine.skip_check", false)

	v.SetDefault("fixed.source_lang", "en")
	v.SetDefault("fixed.target_lang", "fr")

	v.SetDefault("inference.max_concurrent", 0)
	v.SetDefault("inference.detect_languages", []string{})

	v.SetDefault("store.path", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.no_color", false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "PORT")
}

// Load unmarshals v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Variant {
	case VariantMultilingual, VariantFixed:
	default:
		return fmt.Errorf("unknown variant %q (want %q or %q)", c.Variant, VariantMultilingual, VariantFixed)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}

	known := false
	for _, name := range Engines {
		if c.Engine.Name == name {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown engine %q (want one of %s)", c.Engine.Name, strings.Join(Engines, ", "))
	}

	if c.Variant == VariantFixed && (c.Fixed.SourceLang == "" || c.Fixed.TargetLang == "") {
		return fmt.Errorf("fixed variant needs both fixed.source_lang and fixed.target_lang")
	}

	if c.Inference.MaxConcurrent < 0 {
		return fmt.Errorf("inference.max_concurrent must not be negative")
	}
	return nil
}

// Addr is the listen address, host:port.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
