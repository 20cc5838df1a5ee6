package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"proofmd/internal/preview"
	"proofmd/internal/proof"

	"github.com/spf13/cobra"
)

var (
	outputPath   string
	validateOnly bool
	strictMode   bool
)

var renderCmd = &cobra.Command{
	Use:   "render <input.json>",
	Short: "Render a proof JSON document as canonical Markdown",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		v := readProofJSON(args[0])

		if errs := validateProof(v, strictMode || loadConfig().Validation.Strict); len(errs) > 0 {
			failWith(fmt.Sprintf("❌ %s is not a valid proof:", args[0]), errs)
		}
		if validateOnly {
			fmt.Printf("✅ %s is valid\n", args[0])
			return
		}

		writeOutput(outputPath, proof.Render(v))
	},
}

var parseCmd = &cobra.Command{
	Use:   "parse <input.md>",
	Short: "Parse canonical proof Markdown back into JSON",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := os.ReadFile(args[0])
		if err != nil {
			log.Fatalf("Failed to read %s: %v", args[0], err)
		}

		doc, err := proof.Parse(string(data))
		if err != nil {
			failWith(fmt.Sprintf("❌ Failed to parse %s:", args[0]), []string{err.Error()})
		}
		if errs := validateProof(doc.Value(), loadConfig().Validation.Strict); len(errs) > 0 {
			failWith(fmt.Sprintf("❌ %s parsed into an invalid proof:", args[0]), errs)
		}

		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			log.Fatalf("Failed to encode proof: %v", err)
		}
		writeOutput(outputPath, string(out)+"\n")
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <input.json>...",
	Short: "Check proof JSON documents for structural errors",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		strict := strictMode || loadConfig().Validation.Strict
		failed := false
		for _, path := range args {
			errs := validateProof(readProofJSON(path), strict)
			if len(errs) == 0 {
				fmt.Printf("✅ %s\n", path)
				continue
			}
			failed = true
			fmt.Printf("❌ %s\n", path)
			for _, e := range errs {
				fmt.Printf("  - %s\n", e)
			}
		}
		if failed {
			os.Exit(1)
		}
	},
}

var previewCmd = &cobra.Command{
	Use:   "preview <input.md|input.json>",
	Short: "Render a proof as HTML",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var markdown string
		if strings.HasSuffix(strings.ToLower(args[0]), ".json") {
			v := readProofJSON(args[0])
			if errs := validateProof(v, loadConfig().Validation.Strict); len(errs) > 0 {
				failWith(fmt.Sprintf("❌ %s is not a valid proof:", args[0]), errs)
			}
			markdown = proof.Render(v)
		} else {
			data, err := os.ReadFile(args[0])
			if err != nil {
				log.Fatalf("Failed to read %s: %v", args[0], err)
			}
			markdown = string(data)
		}

		html, err := preview.NewRenderer(false).HTML(markdown)
		if err != nil {
			log.Fatalf("Failed to render preview: %v", err)
		}
		writeOutput(outputPath, html)
	},
}

func init() {
	renderCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write Markdown to this file instead of stdout")
	renderCmd.Flags().BoolVar(&validateOnly, "validate-only", false, "Only validate the input")
	renderCmd.Flags().BoolVar(&strictMode, "strict", false, "Also validate against the JSON Schema")

	parseCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write JSON to this file instead of stdout")

	validateCmd.Flags().BoolVar(&strictMode, "strict", false, "Also validate against the JSON Schema")

	previewCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write HTML to this file instead of stdout")
}
