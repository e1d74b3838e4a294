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
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/valpere/transerve/internal/translator"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List the language codes the configured engine supports",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		engine, closeEngine, err := buildEngine(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to load translation engine: %w", err)
		}
		defer closeEngine()

		codes, err := engine.SupportedLanguages(ctx)
		if err != nil {
			return fmt.Errorf("failed to list languages: %w", err)
		}
		sort.Strings(codes)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CODE\tNAME")
		for _, code := range codes {
			fmt.Fprintf(w, "%s\t%s\n", code, translator.DisplayName(code))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(languagesCmd)
}
