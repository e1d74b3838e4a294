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
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/valpere/transerve/internal/config"
	"github.com/valpere/transerve/internal/detector"
	"github.com/valpere/transerve/internal/store"
	"github.com/valpere/transerve/internal/translator"
)

// bindFlags binds each viper key to the named flag. Panics on a typo, which
// can only happen at init.
func bindFlags(flags *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("binding flag %q: %v", name, err))
		}
	}
}

// buildEngine constructs the configured engine. The returned closer releases
// any client the engine holds.
func buildEngine(ctx context.Context, cfg *config.Config) (translator.Service, func(), error) {
	noop := func() {}

	switch cfg.Engine.Name {
	case "google":
		svc, err := translator.NewGoogleService(ctx, cfg.Engine.Credentials)
		if err != nil {
			return nil, noop, err
		}
		return svc, func() { _ = svc.Close() }, nil
	case "ollama":
		return translator.NewOllamaService(cfg.Engine.OllamaURL, cfg.Engine.OllamaModel, cfg.Engine.Timeout), noop, nil
	case "mymemory":
		return translator.NewMyMemoryService(cfg.Engine.MyMemoryURL, cfg.Engine.MyMemoryEmail), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown engine: %s", cfg.Engine.Name)
	}
}

// buildService wraps engine for the configured variant. From the outside in:
// fixed pair, auto detection, translation memory, inference limiter.
func buildService(engine translator.Service, cfg *config.Config, memory translator.Memory, det translator.Detector) (translator.Service, error) {
	svc := translator.Limited(engine, cfg.Inference.MaxConcurrent)
	if memory != nil {
		svc = translator.Cached(svc, memory)
	}
	if det != nil {
		svc = translator.AutoDetect(svc, det)
	}

	if cfg.Variant == config.VariantFixed {
		fixed, err := translator.FixedPair(svc, cfg.Fixed.SourceLang, cfg.Fixed.TargetLang)
		if err != nil {
			return nil, err
		}
		return fixed, nil
	}
	return svc, nil
}

// openStore opens the SQLite store at path, creating its directory. An empty
// path disables the store and returns nil.
func openStore(path string) (*store.Store, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func newDetector(cfg *config.Config) *detector.Detector {
	return detector.New(cfg.Inference.DetectLanguages...)
}
