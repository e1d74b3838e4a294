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
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/valpere/transerve/internal/config"
	"github.com/valpere/transerve/internal/server"
	"github.com/valpere/transerve/internal/translator"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the translation HTTP API",
	Long: `Load the translation engine once and serve it over HTTP.

Endpoints:
  GET  /           service description
  POST /translate  {"text": "...", "source_lang": "en", "target_lang": "fr"}

With --variant fixed only "text" is required and the pair comes from
--fixed-source and --fixed-target.

The port can also be set with the PORT environment variable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger := slog.Default()
		gin.SetMode(gin.ReleaseMode)

		logger.Info("Loading translation engine...", "engine", cfg.Engine.Name, "variant", cfg.Variant)
		engine, closeEngine, err := buildEngine(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to load translation engine: %w", err)
		}
		defer closeEngine()

		if !cfg.Engine.SkipCheck {
			checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			err := engine.IsAvailable(checkCtx)
			cancel()
			if err != nil {
				return fmt.Errorf("translation engine is not available: %w", err)
			}
		}

		db, err := openStore(cfg.Store.Path)
		if err != nil {
			return err
		}

		var (
			memory     translator.Memory
			requestLog server.RequestLog
		)
		if db != nil {
			defer db.Close()
			memory = db
			requestLog = db
			logger.Info("translation memory enabled", "path", cfg.Store.Path)
		}

		svc, err := buildService(engine, cfg, memory, newDetector(cfg))
		if err != nil {
			return err
		}
		logger.Info("Engine ready", "engine", svc.Name(), "max_concurrent", cfg.Inference.MaxConcurrent)

		srv, err := server.New(svc, server.Options{
			Variant:         cfg.Variant,
			Addr:            cfg.Addr(),
			Message:         serviceMessage(cfg, svc),
			CORSOrigins:     cfg.Server.CORSOrigins,
			ShutdownTimeout: cfg.Server.ShutdownTimeout,
			RequestLog:      requestLog,
			Logger:          logger,
		})
		if err != nil {
			return err
		}
		return srv.Run(ctx)
	},
}

// serviceMessage is the GET / description. A fixed deployment names its pair,
// for example "English to French translation API is running.".
func serviceMessage(cfg *config.Config, svc translator.Service) string {
	if cfg.Server.Message != "" {
		return cfg.Server.Message
	}
	if fixed, ok := svc.(*translator.FixedPairService); ok {
		src, tgt := fixed.Pair()
		from := translator.DisplayName(src)
		if src == translator.AutoLang {
			from = "Any language"
		}
		return fmt.Sprintf("%s to %s translation API is running.", from, translator.DisplayName(tgt))
	}
	return ""
}

func init() {
	rootCmd.AddCommand(serveCmd)

	flags := serveCmd.Flags()
	flags.String("variant", config.VariantMultilingual, "API variant: multilingual or fixed")
	flags.String("host", "0.0.0.0", "Listen host")
	flags.IntP("port", "p", 8000, "Listen port")
	flags.String("message", "", "Override the GET / service description")
	flags.StringSlice("cors-origins", nil, "Allowed CORS origins (comma-separated, * for any)")
	flags.String("fixed-source", "en", "Source language for the fixed variant")
	flags.String("fixed-target", "fr", "Target language for the fixed variant")
	flags.Int("max-concurrent", 0, "Maximum simultaneous engine calls (0 = unbounded, 1 = serialized)")
	flags.StringSlice("detect-languages", nil, "Restrict auto detection to these ISO 639-1 codes")
	flags.Bool("skip-check", false, "Skip the engine availability check at startup")

	bindFlags(flags, map[string]string{
		"variant":                    "variant",
		"server.host":                "host",
		"server.port":                "port",
		"server.message":             "message",
		"server.cors_origins":        "cors-origins",
		"fixed.source_lang":          "fixed-source",
		"fixed.target_lang":          "fixed-target",
		"inference.max_concurrent":   "max-concurrent",
		"inference.detect_languages": "detect-languages",
		"engine.skip_check":          "skip-check",
	})
}
