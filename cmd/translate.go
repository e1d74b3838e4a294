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
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/valpere/transerve/internal/config"
	"github.com/valpere/transerve/internal/store"
	"github.com/valpere/transerve/internal/translator"
)

var (
	inputText  string
	inputFile  string
	outputFile string
	sourceLang string
	targetLang string
	noCache    bool
)

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Translate a single text with the configured engine",
	Long: `Translate one text with the same engine the server uses, without starting
the server. Reads --text or --input and writes to --output or stdout.

Examples:
  transerve translate -t fr --text "Hello"
  transerve translate -e ollama -s en -t uk -i chapter.txt -o chapter.uk.txt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput()
		if err != nil {
			return err
		}
		if inputFile != "" && inputFile == outputFile {
			return fmt.Errorf("input file and output file cannot be the same")
		}

		ctx := context.Background()

		engine, closeEngine, err := buildEngine(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to load translation engine: %w", err)
		}
		defer closeEngine()

		var db *store.Store
		if !noCache {
			if db, err = openStore(cfg.Store.Path); err != nil {
				return err
			}
		}
		var memory translator.Memory
		if db != nil {
			defer db.Close()
			memory = db
		}

		// The one-shot command always takes the pair from its own flags.
		oneShot := *cfg
		oneShot.Variant = config.VariantMultilingual
		svc, err := buildService(engine, &oneShot, memory, newDetector(cfg))
		if err != nil {
			return err
		}

		req := translator.Request{Text: text, SourceLang: sourceLang, TargetLang: targetLang}
		start := time.Now()
		res, err := svc.Translate(ctx, req)
		if db != nil {
			rec := store.RequestRecord{
				SourceText: text,
				SourceLang: sourceLang,
				TargetLang: targetLang,
				Engine:     svc.Name(),
				Latency:    time.Since(start),
				Timestamp:  start,
			}
			if err != nil {
				rec.Error = err.Error()
			} else {
				rec.SourceLang = res.SourceLang
				rec.TranslatedText = res.TranslatedText
			}
			if saveErr := db.SaveRequest(ctx, rec); saveErr != nil {
				fmt.Fprintf(os.Stderr, "Failed to record request: %v\n", saveErr)
			}
		}
		if err != nil {
			return fmt.Errorf("translation failed: %w", err)
		}

		if res.Metadata["cache"] == "hit" {
			fmt.Fprintf(os.Stderr, "Using cached translation\n")
		}
		if sourceLang == translator.AutoLang && res.SourceLang != "" && res.SourceLang != translator.AutoLang {
			fmt.Fprintf(os.Stderr, "Detected source language: %s\n", res.SourceLang)
		}

		if outputFile == "" {
			fmt.Println(res.TranslatedText)
			return nil
		}

		if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := os.WriteFile(outputFile, []byte(res.TranslatedText), 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Printf("Successfully translated %s to %s with %s\n", res.SourceLang, targetLang, res.Engine)
		return nil
	},
}

func readInput() (string, error) {
	switch {
	case inputText != "" && inputFile != "":
		return "", fmt.Errorf("use either --text or --input, not both")
	case inputText != "":
		return inputText, nil
	case inputFile != "":
		data, err := os.ReadFile(inputFile)
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		if strings.TrimSpace(string(data)) == "" {
			return "", fmt.Errorf("input file %s is empty", inputFile)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("nothing to translate: pass --text or --input")
	}
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringVar(&inputText, "text", "", "Text to translate")
	translateCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input file to translate")
	translateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default stdout)")
	translateCmd.Flags().StringVarP(&sourceLang, "source", "s", translator.AutoLang, "Source language code")
	translateCmd.Flags().StringVarP(&targetLang, "target", "t", "", "Target language code (required)")
	translateCmd.Flags().BoolVar(&noCache, "no-cache", false, "Disable translation memory cache")

	translateCmd.MarkFlagRequired("target")
}
