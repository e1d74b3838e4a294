/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/valpere/transerve/internal/config"
	"github.com/valpere/transerve/internal/logging"
)

var version = "0.1.0"

var (
	cfgFile string
	v       = viper.New()
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "transerve",
	Short: "HTTP machine translation service",
	Long: `A small HTTP service that translates text with a single translation engine
loaded once at startup.

Two variants are available:
  multilingual  POST /translate takes text, source_lang and target_lang
  fixed         POST /translate takes text; the language pair is configured

Supported engines: Google Translate, Ollama (LLM), MyMemory

Use "transerve serve --help" for server options.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() error {
	// A .env in the working directory can supply PORT and TRANSERVE_* values.
	envErr := godotenv.Load(".env")
	if envErr != nil && errors.Is(envErr, os.ErrNotExist) {
		envErr = nil
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	loaded, err := config.Load(v)
	if err != nil {
		return err
	}
	cfg = loaded

	logger := logging.Setup(os.Stderr, cfg.Logging.Level, cfg.Logging.NoColor)
	if envErr != nil {
		logger.Warn("failed to load .env file", "error", envErr)
	}
	return nil
}

func init() {
	config.SetDefaults(v)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (YAML, TOML or JSON)")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.Bool("no-color", false, "Disable colored log output")

	flags.StringP("engine", "e", "google", "Translation engine: google, ollama, mymemory")
	flags.StringP("credentials", "c", "", "Path to Google Cloud credentials")
	flags.String("ollama-url", "http://localhost:11434", "Ollama base URL")
	flags.String("ollama-model", "llama3.2", "Ollama model")
	flags.String("mymemory-email", "", "MyMemory email (for higher limits)")
	flags.Duration("engine-timeout", 0, "Per-request engine timeout for HTTP engines")
	flags.String("db", "", "Database path for translation memory and request log (empty disables it)")

	bindFlags(flags, map[string]string{
		"logging.level":         "log-level",
		"logging.no_color":      "no-color",
		"engine.name":           "engine",
		"engine.credentials":    "credentials",
		"engine.ollama_url":     "ollama-url",
		"engine.ollama_model":   "ollama-model",
		"engine.mymemory_email": "mymemory-email",
		"engine.timeout":        "engine-timeout",
		"store.path":            "db",
	})
}
